package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/IsmaelKabore/SkillHub/internal/apperror"
	"github.com/IsmaelKabore/SkillHub/internal/auth"
	"github.com/IsmaelKabore/SkillHub/internal/model"
	"github.com/IsmaelKabore/SkillHub/internal/service"
)

// SkillService is what SkillHandler needs from the service layer.
type SkillService interface {
	List(ctx context.Context, userID int64) ([]model.Skill, error)
	Add(ctx context.Context, userID int64, in service.SkillInput) (*model.Skill, error)
	Update(ctx context.Context, userID, id int64, in service.SkillInput) (*model.Skill, error)
	Delete(ctx context.Context, userID, id int64) error
}

// SkillHandler manages the caller's skills. Every route sits behind
// auth.RequireAuth; the owner is always the user id in the token.
//
//   - HandleList   → GET    /skills
//   - HandleCreate → POST   /skills
//   - HandleUpdate → PUT    /skills/{id}
//   - HandleDelete → DELETE /skills/{id}
type SkillHandler struct {
	base
	skills SkillService
}

// NewSkillHandler creates a SkillHandler.
func NewSkillHandler(skills SkillService, logger *slog.Logger) *SkillHandler {
	return &SkillHandler{base: base{logger: logger}, skills: skills}
}

// skillRequest is the body of POST and PUT. A user_id in the body is not a
// field here, so it is dropped during decoding.
type skillRequest struct {
	SkillName   string `json:"skill_name" validate:"required,max=100"`
	Proficiency string `json:"proficiency" validate:"required,max=50"`
}

func (req skillRequest) input() service.SkillInput {
	return service.SkillInput{SkillName: req.SkillName, Proficiency: req.Proficiency}
}

// SkillResponse is the body of a successful create or update.
type SkillResponse struct {
	Message string       `json:"message"`
	Skill   *model.Skill `json:"skill"`
}

// HandleList returns the caller's skills, [] when there are none.
//
// HTTP: GET /skills
func (h *SkillHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(r)
	if !ok {
		h.writeError(w, r, apperror.MissingToken("access denied, no token provided"))
		return
	}

	skills, err := h.skills.List(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if skills == nil {
		skills = []model.Skill{}
	}
	h.writeJSON(w, http.StatusOK, skills)
}

// HandleCreate adds a skill for the caller.
//
// HTTP: POST /skills
// REQUEST BODY: {"skill_name": "Go", "proficiency": "expert"}
func (h *SkillHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(r)
	if !ok {
		h.writeError(w, r, apperror.MissingToken("access denied, no token provided"))
		return
	}

	var req skillRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	skill, err := h.skills.Add(r.Context(), userID, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, SkillResponse{
		Message: "skill added successfully",
		Skill:   skill,
	})
}

// HandleUpdate replaces the name and proficiency of one of the caller's skills.
//
// HTTP: PUT /skills/{id}
// REQUEST BODY: {"skill_name": "Go", "proficiency": "expert"}
//
// 400 for a non-numeric id, 404 if the skill does not exist, 403 if someone
// else owns it.
func (h *SkillHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(r)
	if !ok {
		h.writeError(w, r, apperror.MissingToken("access denied, no token provided"))
		return
	}

	id, err := skillID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req skillRequest
	if err := decode(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	skill, err := h.skills.Update(r.Context(), userID, id, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, SkillResponse{
		Message: "skill updated successfully",
		Skill:   skill,
	})
}

// HandleDelete removes one of the caller's skills.
//
// HTTP: DELETE /skills/{id}
func (h *SkillHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := caller(r)
	if !ok {
		h.writeError(w, r, apperror.MissingToken("access denied, no token provided"))
		return
	}

	id, err := skillID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.skills.Delete(r.Context(), userID, id); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, MessageResponse{Message: "skill deleted successfully"})
}

// caller returns the authenticated user id placed in the context by
// auth.RequireAuth.
func caller(r *http.Request) (int64, bool) {
	return auth.UserIDFromContext(r.Context())
}

// skillID parses the {id} path parameter. Chi fills it from the route
// pattern "/skills/{id}".
func skillID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed("id", "skill id must be a positive integer")
	}
	return id, nil
}
