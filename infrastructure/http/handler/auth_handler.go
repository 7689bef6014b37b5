package handler

import (
	"net/http"

	"github.com/unifind/unifind/application/port/inbound"
	"github.com/unifind/unifind/infrastructure/http/middleware"
	"github.com/unifind/unifind/infrastructure/http/response"
	"github.com/unifind/unifind/infrastructure/http/validator"
)

type AuthHandler struct {
	authUseCase inbound.AuthUseCase
}

func NewAuthHandler(authUseCase inbound.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req inbound.SignupRequest
	if err := validator.DecodeJSON(r, &req); err != nil {
		response.AppError(w, err)
		return
	}

	user, err := h.authUseCase.Signup(r.Context(), req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "User created successfully", user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req inbound.LoginRequest
	if err := validator.DecodeJSON(r, &req); err != nil {
		response.AppError(w, err)
		return
	}

	res, err := h.authUseCase.Login(r.Context(), req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, res.Message, res)
}

// Refresh expects claims from a verified refresh token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	res, err := h.authUseCase.Refresh(r.Context(), middleware.ClaimsFromContext(r.Context()))
	if err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Token refreshed", res)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authUseCase.Logout(r.Context(), middleware.ClaimsFromContext(r.Context())); err != nil {
		response.AppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	response.Success(w, http.StatusOK, "success", inbound.NewUserResponse(user))
}
