package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"smartbin/internal/models"
	"smartbin/internal/services"
	"smartbin/internal/store"

	"github.com/rs/zerolog"
)

type AuthHandler struct {
	userService *services.UserService
	authService *services.AuthService
	logger      zerolog.Logger
}

func NewAuthHandler(userService *services.UserService, authService *services.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Invalid request body"})
		return
	}

	_, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateAccount) {
			h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Duplicate Email"})
			return
		}
		h.logger.Error().Err(err).Msg("Registration failed")
		h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: err.Error()})
		return
	}

	h.respondWithJSON(w, models.StatusResponse{Status: "ok"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Invalid request body"})
		return
	}

	acct, err := h.userService.Authenticate(r.Context(), &req)
	if err != nil {
		h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Invalid Credentials"})
		return
	}

	token, err := h.authService.GenerateToken(acct.ID, acct.Role)
	if err != nil {
		h.logger.Error().Err(err).Msg("Token generation failed")
		h.respondWithJSON(w, models.StatusResponse{Status: "error", Error: "Server Error"})
		return
	}

	h.respondWithJSON(w, models.LoginResponse{
		Status: "ok",
		Token:  token,
		Role:   acct.Role,
	})
}

func (h *AuthHandler) respondWithJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(payload)
}
