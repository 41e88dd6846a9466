package handlers

import (
	"encoding/json"
	"net/http"

	"smartbin/internal/models"
	"smartbin/internal/services"

	"github.com/rs/zerolog"
)

type AdminHandler struct {
	ledgerService *services.LedgerService
	logger        zerolog.Logger
}

func NewAdminHandler(ledgerService *services.LedgerService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// ListUsers returns every account plus aggregate totals for the admin view.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.ledgerService.ListAll(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list accounts")
		h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Server Error"})
		return
	}

	stats := models.AdminStats{UserCount: len(accounts)}
	for _, acct := range accounts {
		stats.TotalWalletBalance += acct.WalletBalance
		stats.TotalEcoPoints += acct.EcoPoints
		stats.TotalDeposits += len(acct.Logs)
	}

	if accounts == nil {
		accounts = []*models.Account{}
	}
	h.respondWithJSON(w, models.AdminUsersResponse{
		Status: "ok",
		Users:  accounts,
		Stats:  stats,
	})
}

func (h *AdminHandler) respondWithJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(payload)
}
