package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/CesarOvidioGutierrez/dashboard-SaaS-gestion-de-tareas/internal/model"
	"github.com/CesarOvidioGutierrez/dashboard-SaaS-gestion-de-tareas/internal/repo"
	"github.com/CesarOvidioGutierrez/dashboard-SaaS-gestion-de-tareas/internal/service"
	"github.com/CesarOvidioGutierrez/dashboard-SaaS-gestion-de-tareas/pkg/respond"
)

type AuthHandler struct {
	service *service.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(srv *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: srv, logger: logger}
}

// userResponse is the identity shape returned by register and login:
// the user record (hash excluded via json:"-") plus a bearer token.
type userResponse struct {
	model.User
	Token string `json:"token"`
}

type authEnvelope struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, respond.CodeValidation, "empty request body")
		return
	}

	var in model.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, r, http.StatusBadRequest, respond.CodeValidation, "invalid json")
		return
	}

	user, tok, err := h.service.Register(r.Context(), in)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, authEnvelope{
		Message: "user registered successfully",
		User:    userResponse{User: user, Token: tok},
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, respond.CodeValidation, "empty request body")
		return
	}

	var in model.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, r, http.StatusBadRequest, respond.CodeValidation, "invalid json")
		return
	}

	user, tok, err := h.service.Login(r.Context(), in)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, authEnvelope{
		Message: "login successful",
		User:    userResponse{User: user, Token: tok},
	})
}

func (h *AuthHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		respond.ValidationError(w, r, "validation error", vErr.Fields)
	case errors.Is(err, service.ErrInvalidCredentials):
		respond.Error(w, r, http.StatusUnauthorized, respond.CodeUnauthenticated, "invalid credentials")
	case errors.Is(err, repo.ErrorConflict):
		respond.Error(w, r, http.StatusConflict, respond.CodeConflict, "username or email already taken")
	default:
		h.logger.Error("auth internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, respond.CodeInternal, "internal error")
	}
}
