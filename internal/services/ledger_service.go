package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"smartbin/internal/models"
	"smartbin/internal/store"

	"github.com/rs/zerolog"
)

// Bins carry no scale, so every deposit is logged at a nominal weight.
const depositWeightKg = 0.5

// LedgerService owns all balance and history mutation. Credits and debits
// serialize per account through a mutex on top of the store's own atomic
// update, so overlapping requests for the same account cannot race.
type LedgerService struct {
	store  store.Store
	logger zerolog.Logger
	mu     sync.Map
}

func NewLedgerService(st store.Store, logger zerolog.Logger) *LedgerService {
	return &LedgerService{
		store:  st,
		logger: logger,
	}
}

func (s *LedgerService) getMutex(accountID string) *sync.Mutex {
	mu, _ := s.mu.LoadOrStore(accountID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Credit increases walletBalance and ecoPoints and appends an EarnEvent
// stamped with the current time.
func (s *LedgerService) Credit(ctx context.Context, accountID string, reward float64, points int64, wasteType string) error {
	mu := s.getMutex(accountID)
	mu.Lock()
	defer mu.Unlock()

	event := models.EarnEvent{
		Date:      time.Now(),
		WasteType: wasteType,
		Weight:    depositWeightKg,
		Amount:    reward,
		Points:    points,
	}

	if err := s.store.Credit(ctx, accountID, reward, points, event); err != nil {
		if !errors.Is(err, store.ErrAccountNotFound) {
			s.logger.Error().Err(err).Str("account_id", accountID).Msg("Error applying credit")
		}
		return err
	}

	s.logger.Info().
		Str("account_id", accountID).
		Str("waste_type", wasteType).
		Float64("reward", reward).
		Int64("points", points).
		Msg("Credit applied")
	return nil
}

// Debit decreases the balance matching costType and appends a RedeemEvent.
// A debit that would drive the balance negative is rejected without any
// state change.
func (s *LedgerService) Debit(ctx context.Context, accountID, item string, cost float64, costType models.CostType) error {
	mu := s.getMutex(accountID)
	mu.Lock()
	defer mu.Unlock()

	event := models.RedeemEvent{
		Date: time.Now(),
		Item: item,
		Cost: cost,
		Type: string(costType),
	}

	if err := s.store.Debit(ctx, accountID, cost, costType, event); err != nil {
		if !errors.Is(err, store.ErrInsufficientFunds) &&
			!errors.Is(err, store.ErrInsufficientPoints) &&
			!errors.Is(err, store.ErrAccountNotFound) {
			s.logger.Error().Err(err).Str("account_id", accountID).Msg("Error applying debit")
		}
		return err
	}

	s.logger.Info().
		Str("account_id", accountID).
		Str("item", item).
		Float64("cost", cost).
		Str("cost_type", string(costType)).
		Msg("Debit applied")
	return nil
}

func (s *LedgerService) Snapshot(ctx context.Context, accountID string) (*models.Account, error) {
	return s.store.GetAccount(ctx, accountID)
}

func (s *LedgerService) ListAll(ctx context.Context) ([]*models.Account, error) {
	return s.store.ListAccounts(ctx)
}
