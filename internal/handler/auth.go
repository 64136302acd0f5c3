package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/IsmaelKabore/SkillHub/internal/model"
	"github.com/IsmaelKabore/SkillHub/internal/service"
)

// AuthService is what AuthHandler needs from the service layer.
// *service.AuthService satisfies it; tests pass stubs.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

// AuthHandler serves the public account endpoints.
//
//   - HandleRegister → POST /register
//   - HandleLogin    → POST /login
type AuthHandler struct {
	base
	auth AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{base: base{logger: logger}, auth: auth}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse is the 201 body of POST /register.
type RegisterResponse struct {
	Message string           `json:"message"`
	User    model.PublicUser `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the 200 body of POST /login.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// HandleRegister creates an account.
//
// HTTP: POST /register
// REQUEST BODY: {"username": "alice", "email": "a@x.com", "password": "pw1"}
//
// 201 {"message":"user registered successfully","user":{...}}. The user
// object is the public projection: no password hash, ever.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, RegisterResponse{
		Message: "user registered successfully",
		User:    user.Public(),
	})
}

// HandleLogin exchanges credentials for a bearer token.
//
// HTTP: POST /login
// REQUEST BODY: {"email": "a@x.com", "password": "pw1"}
//
// 200 {"message":"login successful","token":"<jwt>"}; 404 for an unknown
// email, 401 for a wrong password.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, LoginResponse{
		Message: "login successful",
		Token:   result.Token,
	})
}
