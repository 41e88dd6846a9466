package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"smartbin/internal/models"
	"smartbin/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerFixture(t *testing.T) (*LedgerService, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	require.NoError(t, st.CreateAccount(context.Background(), &models.Account{
		ID:        "a@x.com",
		Name:      "Alice",
		Role:      string(models.RoleUser),
		CreatedAt: time.Now(),
	}))
	return NewLedgerService(st, zerolog.Nop()), st
}

func TestLedgerCredit_StampsEvent(t *testing.T) {
	ledger, st := newLedgerFixture(t)
	ctx := context.Background()

	before := time.Now()
	require.NoError(t, ledger.Credit(ctx, "a@x.com", 10, 50, "Plastic"))

	acct, err := st.GetAccount(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, acct.Logs, 1)
	ev := acct.Logs[0]
	assert.Equal(t, "Plastic", ev.WasteType)
	assert.Equal(t, 10.0, ev.Amount)
	assert.Equal(t, int64(50), ev.Points)
	assert.Equal(t, 0.5, ev.Weight)
	assert.False(t, ev.Date.Before(before))
}

func TestLedgerConcurrentCreditsAndDebits(t *testing.T) {
	ledger, st := newLedgerFixture(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ledger.Credit(ctx, "a@x.com", 10, 50, "Plastic")
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ledger.Debit(ctx, "a@x.com", "Coupon", 10, models.CostMoney)
		}()
	}
	wg.Wait()

	acct, err := st.GetAccount(ctx, "a@x.com")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, acct.WalletBalance, 0.0)
	assert.GreaterOrEqual(t, acct.EcoPoints, int64(0))
	// Every applied credit and debit left exactly one history entry.
	applied := float64(len(acct.Logs))*10 - float64(len(acct.Redemptions))*10
	assert.Equal(t, applied, acct.WalletBalance)
	assert.Len(t, acct.Logs, n)
}

func TestLedgerSnapshot_UnknownAccount(t *testing.T) {
	ledger, _ := newLedgerFixture(t)

	_, err := ledger.Snapshot(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestLedgerListAll(t *testing.T) {
	ledger, st := newLedgerFixture(t)
	ctx := context.Background()

	require.NoError(t, st.CreateAccount(ctx, &models.Account{ID: "b@x.com", Name: "Bob", Role: string(models.RoleUser), CreatedAt: time.Now()}))

	accounts, err := ledger.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}
