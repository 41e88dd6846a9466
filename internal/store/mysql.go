package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smartbin/internal/models"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
)

const mysqlDuplicateEntry = 1062

type MySQLStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMySQLStore(db *sql.DB, logger zerolog.Logger) *MySQLStore {
	return &MySQLStore{
		db:     db,
		logger: logger,
	}
}

func (s *MySQLStore) CreateAccount(ctx context.Context, acct *models.Account) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO accounts (email, name, password_hash, role, wallet_balance, eco_points, co2_saved) VALUES (?, ?, ?, ?, ?, ?, ?)",
		acct.ID, acct.Name, acct.PasswordHash, acct.Role, acct.WalletBalance, acct.EcoPoints, acct.CO2Saved,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return ErrDuplicateAccount
		}
		s.logger.Error().Err(err).Str("account_id", acct.ID).Msg("Error creating account")
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *MySQLStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	var acct models.Account
	err := s.db.QueryRowContext(ctx,
		"SELECT email, name, password_hash, role, wallet_balance, eco_points, co2_saved, created_at FROM accounts WHERE email = ?",
		id,
	).Scan(
		&acct.ID, &acct.Name, &acct.PasswordHash, &acct.Role,
		&acct.WalletBalance, &acct.EcoPoints, &acct.CO2Saved, &acct.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", id).Msg("Error fetching account")
		return nil, fmt.Errorf("database error: %w", err)
	}

	if acct.Logs, err = s.loadEarnEvents(ctx, id); err != nil {
		return nil, err
	}
	if acct.Redemptions, err = s.loadRedeemEvents(ctx, id); err != nil {
		return nil, err
	}

	return &acct, nil
}

func (s *MySQLStore) loadEarnEvents(ctx context.Context, id string) ([]models.EarnEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT created_at, waste_type, weight, amount, points FROM earn_events WHERE account_email = ? ORDER BY id ASC",
		id,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", id).Msg("Error fetching earn events")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var events []models.EarnEvent
	for rows.Next() {
		var ev models.EarnEvent
		if err := rows.Scan(&ev.Date, &ev.WasteType, &ev.Weight, &ev.Amount, &ev.Points); err != nil {
			return nil, fmt.Errorf("error scanning earn event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *MySQLStore) loadRedeemEvents(ctx context.Context, id string) ([]models.RedeemEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT created_at, item, cost, cost_type FROM redeem_events WHERE account_email = ? ORDER BY id ASC",
		id,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", id).Msg("Error fetching redeem events")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var events []models.RedeemEvent
	for rows.Next() {
		var ev models.RedeemEvent
		if err := rows.Scan(&ev.Date, &ev.Item, &ev.Cost, &ev.Type); err != nil {
			return nil, fmt.Errorf("error scanning redeem event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *MySQLStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT email, name, password_hash, role, wallet_balance, eco_points, co2_saved, created_at FROM accounts ORDER BY created_at ASC",
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error listing accounts")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var acct models.Account
		err := rows.Scan(
			&acct.ID, &acct.Name, &acct.PasswordHash, &acct.Role,
			&acct.WalletBalance, &acct.EcoPoints, &acct.CO2Saved, &acct.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning account: %w", err)
		}
		accounts = append(accounts, &acct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	for _, acct := range accounts {
		if acct.Logs, err = s.loadEarnEvents(ctx, acct.ID); err != nil {
			return nil, err
		}
		if acct.Redemptions, err = s.loadRedeemEvents(ctx, acct.ID); err != nil {
			return nil, err
		}
	}

	return accounts, nil
}

// Credit applies the balance increments and the earn-event append in one
// transaction. The UPDATE is an in-place increment, so concurrent credits
// to the same account cannot lose updates.
func (s *MySQLStore) Credit(ctx context.Context, id string, reward float64, points int64, event models.EarnEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting credit transaction")
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE accounts SET wallet_balance = wallet_balance + ?, eco_points = eco_points + ? WHERE email = ?",
		reward, points, id,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", id).Msg("Error applying credit")
		return fmt.Errorf("failed to apply credit: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check credit result: %w", err)
	}
	if affected == 0 {
		return ErrAccountNotFound
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO earn_events (account_email, created_at, waste_type, weight, amount, points) VALUES (?, ?, ?, ?, ?, ?)",
		id, event.Date, event.WasteType, event.Weight, event.Amount, event.Points,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", id).Msg("Error recording earn event")
		return fmt.Errorf("failed to record earn event: %w", err)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing credit")
		return fmt.Errorf("failed to commit credit: %w", err)
	}
	return nil
}

// Debit locks the account row, checks the balance, and applies the decrement
// plus the redeem-event append in one transaction. The row lock closes the
// double-spend window between check and decrement.
func (s *MySQLStore) Debit(ctx context.Context, id string, cost float64, costType models.CostType, event models.RedeemEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting debit transaction")
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var walletBalance float64
	var ecoPoints int64
	err = tx.QueryRowContext(ctx,
		"SELECT wallet_balance, eco_points FROM accounts WHERE email = ? FOR UPDATE",
		id,
	).Scan(&walletBalance, &ecoPoints)
	if err == sql.ErrNoRows {
		return ErrAccountNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", id).Msg("Error locking account for debit")
		return fmt.Errorf("failed to fetch balance: %w", err)
	}

	switch costType {
	case models.CostPoints:
		if ecoPoints < int64(cost) {
			return ErrInsufficientPoints
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE accounts SET eco_points = eco_points - ? WHERE email = ?",
			int64(cost), id,
		)
	default:
		if walletBalance < cost {
			return ErrInsufficientFunds
		}
		_, err = tx.ExecContext(ctx,
			"UPDATE accounts SET wallet_balance = wallet_balance - ? WHERE email = ?",
			cost, id,
		)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", id).Msg("Error applying debit")
		return fmt.Errorf("failed to apply debit: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO redeem_events (account_email, created_at, item, cost, cost_type) VALUES (?, ?, ?, ?, ?)",
		id, event.Date, event.Item, event.Cost, event.Type,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", id).Msg("Error recording redeem event")
		return fmt.Errorf("failed to record redeem event: %w", err)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing debit")
		return fmt.Errorf("failed to commit debit: %w", err)
	}
	return nil
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}
