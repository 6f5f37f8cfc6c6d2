// internal/api/handler/auth.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"banking-service/internal/auth"
	"banking-service/internal/service"
	"banking-service/internal/util"

	"github.com/shopspring/decimal"
)

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	users  service.UserService
	tokens *auth.TokenManager
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users service.UserService, tokens *auth.TokenManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Login       string          `json:"login"`
	Password    string          `json:"password"`
	BirthYear   int             `json:"birth_year"`
	Email       string          `json:"email"`
	PhoneNumber string          `json:"phone_number"`
	Account     decimal.Decimal `json:"account"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Register handles new user registration.
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	summary, err := h.users.Register(r.Context(), service.SignUpInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Login:       req.Login,
		Password:    req.Password,
		BirthYear:   req.BirthYear,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Account:     req.Account,
	})
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	token, err := h.tokens.Generate(summary.Login)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"user":  summary,
		"token": token,
	})
}

// Login handles credential verification and token issuance.
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}
	if req.Login == "" || req.Password == "" {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	summary, err := h.users.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	token, err := h.tokens.Generate(summary.Login)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"user":  summary,
		"token": token,
	})
}
