package store

import (
	"context"
	"errors"

	"smartbin/internal/models"
)

var (
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientPoints = errors.New("insufficient points")
)

// Store is the persistence boundary for accounts and their ledgers. Credit
// and Debit must apply the balance change and the history append atomically
// per call; Debit must reject any change that would drive a balance below
// zero before applying it.
type Store interface {
	CreateAccount(ctx context.Context, acct *models.Account) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]*models.Account, error)

	Credit(ctx context.Context, id string, reward float64, points int64, event models.EarnEvent) error
	Debit(ctx context.Context, id string, cost float64, costType models.CostType, event models.RedeemEvent) error

	Close() error
}
