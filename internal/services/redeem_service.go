package services

import (
	"context"
	"errors"
	"math"

	"smartbin/internal/models"

	"github.com/rs/zerolog"
)

var ErrInvalidRedemption = errors.New("invalid redemption request")

type RedeemService struct {
	ledger *LedgerService
	logger zerolog.Logger
}

func NewRedeemService(ledger *LedgerService, logger zerolog.Logger) *RedeemService {
	return &RedeemService{
		ledger: ledger,
		logger: logger,
	}
}

// Redeem debits the ledger for a catalog item. The catalog itself lives in
// the client; cost and type are taken as supplied, so the only server-side
// checks are structural: a named item, a positive cost, a known cost type.
func (s *RedeemService) Redeem(ctx context.Context, accountID, item string, cost float64, costType string) error {
	if item == "" || cost <= 0 {
		return ErrInvalidRedemption
	}

	ct := models.CostType(costType)
	if ct != models.CostMoney && ct != models.CostPoints {
		return ErrInvalidRedemption
	}
	// Points are an integer balance; a fractional cost would truncate to a
	// smaller debit than the recorded event claims.
	if ct == models.CostPoints && cost != math.Trunc(cost) {
		return ErrInvalidRedemption
	}

	return s.ledger.Debit(ctx, accountID, item, cost, ct)
}
