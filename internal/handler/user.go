package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/IsmaelKabore/SkillHub/internal/model"
)

// UserLister lists accounts without their password hashes.
type UserLister interface {
	ListUsers(ctx context.Context) ([]model.PublicUser, error)
}

// UserHandler serves GET /users. It sits behind auth.RequireAuth.
type UserHandler struct {
	base
	users UserLister
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users UserLister, logger *slog.Logger) *UserHandler {
	return &UserHandler{base: base{logger: logger}, users: users}
}

// HandleList returns every user, ordered by id.
//
// HTTP: GET /users
//
//	[{"id":1,"username":"alice","email":"a@x.com","created_at":"..."}]
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if users == nil {
		users = []model.PublicUser{}
	}
	h.writeJSON(w, http.StatusOK, users)
}
