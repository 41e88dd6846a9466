package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"smartbin/internal/middleware"
	"smartbin/internal/models"
	"smartbin/internal/services"
	"smartbin/internal/store"

	"github.com/rs/zerolog"
)

// LedgerHandler serves the authenticated user-facing endpoints: the
// dashboard snapshot, waste submission, and redemption.
type LedgerHandler struct {
	ledgerService *services.LedgerService
	wasteService  *services.WasteService
	redeemService *services.RedeemService
	logger        zerolog.Logger
}

func NewLedgerHandler(ledgerService *services.LedgerService, wasteService *services.WasteService, redeemService *services.RedeemService, logger zerolog.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		wasteService:  wasteService,
		redeemService: redeemService,
		logger:        logger,
	}
}

func (h *LedgerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r)
	if !ok {
		h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Invalid Token"})
		return
	}

	acct, err := h.ledgerService.Snapshot(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Account Not Found"})
			return
		}
		h.logger.Error().Err(err).Str("account_id", accountID).Msg("Failed to fetch account")
		h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Server Error"})
		return
	}

	h.respondWithJSON(w, models.DashboardResponse{Status: "ok", User: acct})
}

func (h *LedgerHandler) AddWaste(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r)
	if !ok {
		h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Invalid Token"})
		return
	}

	var req models.AddWasteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Invalid request body"})
		return
	}

	reward, err := h.wasteService.SubmitWaste(r.Context(), accountID, req.WasteType)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Account Not Found"})
			return
		}
		h.logger.Error().Err(err).Str("account_id", accountID).Msg("Failed to credit deposit")
		h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Server Error"})
		return
	}

	h.respondWithJSON(w, models.AddWasteResponse{Status: "ok", RewardAdded: reward})
}

func (h *LedgerHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r)
	if !ok {
		h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Invalid Token"})
		return
	}

	var req models.RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Invalid request body"})
		return
	}

	err := h.redeemService.Redeem(r.Context(), accountID, req.Item, req.Cost, req.Type)
	switch {
	case err == nil:
		h.respondWithJSON(w, models.RedeemResponse{Status: "ok", Message: "Redemption successful"})
	case errors.Is(err, store.ErrInsufficientFunds):
		h.respondWithJSON(w, models.RedeemResponse{Status: "error", Message: "Insufficient Funds"})
	case errors.Is(err, store.ErrInsufficientPoints):
		h.respondWithJSON(w, models.RedeemResponse{Status: "error", Message: "Insufficient Points"})
	case errors.Is(err, services.ErrInvalidRedemption):
		h.respondWithJSON(w, models.RedeemResponse{Status: "error", Message: "Invalid redemption request"})
	case errors.Is(err, store.ErrAccountNotFound):
		h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Account Not Found"})
	default:
		h.logger.Error().Err(err).Str("account_id", accountID).Msg("Failed to redeem")
		h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Server Error"})
	}
}

func (h *LedgerHandler) respondWithJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(payload)
}
