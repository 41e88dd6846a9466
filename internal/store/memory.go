package store

import (
	"context"
	"sort"
	"sync"

	"smartbin/internal/models"
)

// MemoryStore is a mutex-guarded in-process backend. It backs the test
// suites and keeps the same atomicity contract as the real backends.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*models.Account),
	}
}

func copyAccount(acct *models.Account) *models.Account {
	out := *acct
	out.Logs = append([]models.EarnEvent(nil), acct.Logs...)
	out.Redemptions = append([]models.RedeemEvent(nil), acct.Redemptions...)
	return &out
}

func (s *MemoryStore) CreateAccount(ctx context.Context, acct *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[acct.ID]; exists {
		return ErrDuplicateAccount
	}
	s.accounts[acct.ID] = copyAccount(acct)
	return nil
}

func (s *MemoryStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return copyAccount(acct), nil
}

func (s *MemoryStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	accounts := make([]*models.Account, 0, len(ids))
	for _, id := range ids {
		accounts = append(accounts, copyAccount(s.accounts[id]))
	}
	return accounts, nil
}

func (s *MemoryStore) Credit(ctx context.Context, id string, reward float64, points int64, event models.EarnEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	acct.WalletBalance += reward
	acct.EcoPoints += points
	acct.Logs = append(acct.Logs, event)
	return nil
}

func (s *MemoryStore) Debit(ctx context.Context, id string, cost float64, costType models.CostType, event models.RedeemEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}

	switch costType {
	case models.CostPoints:
		if acct.EcoPoints < int64(cost) {
			return ErrInsufficientPoints
		}
		acct.EcoPoints -= int64(cost)
	default:
		if acct.WalletBalance < cost {
			return ErrInsufficientFunds
		}
		acct.WalletBalance -= cost
	}
	acct.Redemptions = append(acct.Redemptions, event)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
