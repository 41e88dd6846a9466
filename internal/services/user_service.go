package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smartbin/internal/models"
	"smartbin/internal/store"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService struct {
	store  store.Store
	logger zerolog.Logger
}

func NewUserService(st store.Store, logger zerolog.Logger) *UserService {
	return &UserService{
		store:  st,
		logger: logger,
	}
}

// Register creates an account with zero balances and empty histories. The
// email doubles as the account ID; a second registration with the same
// email fails with store.ErrDuplicateAccount.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, errors.New("name, email, and password are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error hashing password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acct := &models.Account{
		ID:           req.Email,
		Name:         req.Name,
		PasswordHash: string(hashedPassword),
		Role:         string(models.RoleUser),
		CreatedAt:    time.Now(),
	}

	if err := s.store.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, store.ErrDuplicateAccount) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("email", req.Email).Msg("Error creating account")
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info().Str("email", acct.ID).Msg("User registered successfully")
	return acct, nil
}

// Authenticate answers ErrInvalidCredentials for both unknown emails and
// hash mismatches so callers cannot probe which addresses are registered.
func (s *UserService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.Account, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	acct, err := s.store.GetAccount(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error().Err(err).Str("email", req.Email).Msg("Error fetching account")
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("email", req.Email).Msg("Failed authentication attempt")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().Str("email", acct.ID).Msg("User authenticated successfully")
	return acct, nil
}
