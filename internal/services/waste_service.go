package services

import (
	"context"

	"smartbin/internal/models"

	"github.com/rs/zerolog"
)

// Reward schedule per deposit. Plastic pays the high tier; every other
// category, recognized or not, takes the non-plastic tier. The category
// arrives as the client-side classifier reported it and is not re-verified
// here.
const (
	plasticReward    = 10
	plasticPoints    = 50
	nonPlasticReward = 7
	nonPlasticPoints = 20
)

type WasteService struct {
	ledger *LedgerService
	logger zerolog.Logger
}

func NewWasteService(ledger *LedgerService, logger zerolog.Logger) *WasteService {
	return &WasteService{
		ledger: ledger,
		logger: logger,
	}
}

// SubmitWaste maps the claimed category onto the reward schedule, credits
// the ledger, and returns the reward applied. A missing category defaults
// to Plastic.
func (s *WasteService) SubmitWaste(ctx context.Context, accountID, wasteType string) (float64, error) {
	if wasteType == "" {
		wasteType = models.WastePlastic
	}

	var reward float64
	var points int64
	if wasteType == models.WastePlastic {
		reward, points = plasticReward, plasticPoints
	} else {
		reward, points = nonPlasticReward, nonPlasticPoints
	}

	if err := s.ledger.Credit(ctx, accountID, reward, points, wasteType); err != nil {
		return 0, err
	}
	return reward, nil
}
