package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/account-service/internal/apperror"
	"github.com/sakif/account-service/internal/service"
)

// AccountHandler exposes the three user actions over HTTP:
//
//	POST /check-duplicate → username availability
//	POST /signup          → account registration
//	POST /login           → credential verification
//
// Request bodies are statically-typed structs validated at this boundary
// with go-playground/validator — no dict-shaped payloads. The handler owns
// HTTP concerns only; every business decision is one synchronous call into
// AccountService.
type AccountHandler struct {
	accounts *service.AccountService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAccountHandler creates an AccountHandler with its dependencies injected.
func NewAccountHandler(accounts *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		validate: validator.New(),
		logger:   logger,
	}
}

type checkDuplicateRequest struct {
	Username string `json:"username"`
}

type signupRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Nickname string `json:"nickname" validate:"required"`
	Age      int64  `json:"age"`
	Gender   string `json:"gender"   validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type availabilityResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type signupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type loginResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Username string `json:"username,omitempty"`
	Nickname string `json:"nickname,omitempty"`
}

// HandleCheckDuplicate reports whether a username is free to register.
//
// HTTP: POST /check-duplicate
//
// An empty username answers {available:false} with 200 — the legacy contract
// treats "nothing to check" the same as "taken". A storage fault does NOT
// pretend to know the answer: it returns 503 so the client retries instead of
// showing the name as taken.
//
// The result is advisory. Signup's insert-time uniqueness constraint is the
// source of truth; a name can be grabbed between this check and the signup.
func (h *AccountHandler) HandleCheckDuplicate(w http.ResponseWriter, r *http.Request) {
	var req checkDuplicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("check-duplicate: invalid JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, availabilityResponse{
			Available: false,
			Message:   "invalid request body",
		})
		return
	}

	if strings.TrimSpace(req.Username) == "" {
		writeJSON(w, http.StatusOK, availabilityResponse{
			Available: false,
			Message:   "username is required",
		})
		return
	}

	available, err := h.accounts.UsernameAvailable(r.Context(), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	if available {
		writeJSON(w, http.StatusOK, availabilityResponse{
			Available: true,
			Message:   "username is available",
		})
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{
		Available: false,
		Message:   "username is already in use",
	})
}

// HandleSignup registers a new account.
//
// HTTP: POST /signup
// BODY: {"username","password","nickname","age","gender"}
//
// Empty required fields are rejected here, before the store is touched.
// A duplicate username answers 409 with the legacy {success:false} shape;
// storage faults answer 503 via writeError.
func (h *AccountHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("signup: invalid JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, signupResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, signupResponse{
			Success: false,
			Message: "all fields are required",
		})
		return
	}

	_, err := h.accounts.Register(r.Context(), req.Username, req.Password, req.Nickname, req.Age, req.Gender)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrDuplicate):
			writeJSON(w, http.StatusConflict, signupResponse{
				Success: false,
				Message: "username is already in use",
			})
		case errors.Is(err, apperror.ErrValidation):
			writeJSON(w, http.StatusBadRequest, signupResponse{
				Success: false,
				Message: "all fields are required",
			})
		default:
			writeError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, signupResponse{
		Success: true,
		Message: "account created",
	})
}

// HandleLogin verifies credentials and returns the profile fields the
// front-end shows after login.
//
// HTTP: POST /login
//
// Unknown username and wrong password share one message and one status —
// responses must not reveal which usernames exist.
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("login: invalid JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, loginResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{
			Success: false,
			Message: "username and password are required",
		})
		return
	}

	account, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrBadCredential) {
			writeJSON(w, http.StatusUnauthorized, loginResponse{
				Success: false,
				Message: "invalid username or password",
			})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Success:  true,
		Message:  "login successful",
		Username: account.Username,
		Nickname: account.Nickname,
	})
}

// HandleHealth is the liveness probe.
//
// HTTP: GET /health
func (h *AccountHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
