package store

import (
	"context"
	"testing"
	"time"

	"smartbin/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMySQLMock(t *testing.T) (*MySQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMySQLStore(db, zerolog.Nop()), mock
}

func TestMySQLCredit_IncrementsAndRecordsInOneTx(t *testing.T) {
	s, mock := newMySQLMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET wallet_balance = wallet_balance").
		WithArgs(10.0, int64(50), "a@x.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO earn_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	event := models.EarnEvent{Date: time.Now(), WasteType: "Plastic", Weight: 0.5, Amount: 10, Points: 50}
	err := s.Credit(context.Background(), "a@x.com", 10, 50, event)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLCredit_UnknownAccount(t *testing.T) {
	s, mock := newMySQLMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET wallet_balance = wallet_balance").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	event := models.EarnEvent{Date: time.Now(), WasteType: "Plastic", Weight: 0.5, Amount: 10, Points: 50}
	err := s.Credit(context.Background(), "ghost@x.com", 10, 50, event)
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLDebit_InsufficientFundsRollsBack(t *testing.T) {
	s, mock := newMySQLMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT wallet_balance, eco_points FROM accounts").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance", "eco_points"}).AddRow(5.0, 0))
	mock.ExpectRollback()

	event := models.RedeemEvent{Date: time.Now(), Item: "Coupon", Cost: 10, Type: "money"}
	err := s.Debit(context.Background(), "a@x.com", 10, models.CostMoney, event)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLDebit_InsufficientPointsRollsBack(t *testing.T) {
	s, mock := newMySQLMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT wallet_balance, eco_points FROM accounts").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance", "eco_points"}).AddRow(50.0, 20))
	mock.ExpectRollback()

	event := models.RedeemEvent{Date: time.Now(), Item: "Tote Bag", Cost: 100, Type: "points"}
	err := s.Debit(context.Background(), "a@x.com", 100, models.CostPoints, event)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLDebit_AppliesWithinRowLock(t *testing.T) {
	s, mock := newMySQLMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT wallet_balance, eco_points FROM accounts").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"wallet_balance", "eco_points"}).AddRow(20.0, 100))
	mock.ExpectExec("UPDATE accounts SET wallet_balance = wallet_balance").
		WithArgs(10.0, "a@x.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO redeem_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	event := models.RedeemEvent{Date: time.Now(), Item: "Coupon", Cost: 10, Type: "money"}
	err := s.Debit(context.Background(), "a@x.com", 10, models.CostMoney, event)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLGetAccount_NotFound(t *testing.T) {
	s, mock := newMySQLMock(t)

	mock.ExpectQuery("SELECT email, name, password_hash").
		WithArgs("ghost@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"email"}))

	_, err := s.GetAccount(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLGetAccount_AssemblesHistories(t *testing.T) {
	s, mock := newMySQLMock(t)
	now := time.Now()

	mock.ExpectQuery("SELECT email, name, password_hash").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"email", "name", "password_hash", "role", "wallet_balance", "eco_points", "co2_saved", "created_at"}).
			AddRow("a@x.com", "Alice", "hash", "user", 17.0, int64(70), 0.0, now))
	mock.ExpectQuery("SELECT created_at, waste_type, weight, amount, points FROM earn_events").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "waste_type", "weight", "amount", "points"}).
			AddRow(now, "Plastic", 0.5, 10.0, int64(50)).
			AddRow(now, "Glass", 0.5, 7.0, int64(20)))
	mock.ExpectQuery("SELECT created_at, item, cost, cost_type FROM redeem_events").
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "item", "cost", "cost_type"}))

	acct, err := s.GetAccount(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 17.0, acct.WalletBalance)
	assert.Equal(t, int64(70), acct.EcoPoints)
	require.Len(t, acct.Logs, 2)
	assert.Equal(t, "Plastic", acct.Logs[0].WasteType)
	assert.Empty(t, acct.Redemptions)
	assert.NoError(t, mock.ExpectationsWereMet())
}
