package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IsmaelKabore/SkillHub/internal/auth"
	"github.com/IsmaelKabore/SkillHub/internal/model"
	"github.com/IsmaelKabore/SkillHub/internal/service"
)

// =========================================================================
// STUBS AND HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubAuth implements handler.AuthService and handler.UserLister.
type stubAuth struct {
	gotRegister service.RegisterInput
	gotEmail    string
	gotPassword string

	user      *model.User
	result    *service.LoginResult
	users     []model.PublicUser
	returnErr error
}

func (s *stubAuth) Register(_ context.Context, in service.RegisterInput) (*model.User, error) {
	s.gotRegister = in
	if s.returnErr != nil {
		return nil, s.returnErr
	}
	return s.user, nil
}

func (s *stubAuth) Login(_ context.Context, email, password string) (*service.LoginResult, error) {
	s.gotEmail, s.gotPassword = email, password
	if s.returnErr != nil {
		return nil, s.returnErr
	}
	return s.result, nil
}

func (s *stubAuth) ListUsers(context.Context) ([]model.PublicUser, error) {
	if s.returnErr != nil {
		return nil, s.returnErr
	}
	return s.users, nil
}

// stubSkills implements handler.SkillService and records what it was asked.
type stubSkills struct {
	gotUserID int64
	gotID     int64
	gotInput  service.SkillInput
	called    bool

	skill     *model.Skill
	skills    []model.Skill
	returnErr error
}

func (s *stubSkills) List(_ context.Context, userID int64) ([]model.Skill, error) {
	s.called, s.gotUserID = true, userID
	if s.returnErr != nil {
		return nil, s.returnErr
	}
	return s.skills, nil
}

func (s *stubSkills) Add(_ context.Context, userID int64, in service.SkillInput) (*model.Skill, error) {
	s.called, s.gotUserID, s.gotInput = true, userID, in
	if s.returnErr != nil {
		return nil, s.returnErr
	}
	return s.skill, nil
}

func (s *stubSkills) Update(_ context.Context, userID, id int64, in service.SkillInput) (*model.Skill, error) {
	s.called, s.gotUserID, s.gotID, s.gotInput = true, userID, id, in
	if s.returnErr != nil {
		return nil, s.returnErr
	}
	return s.skill, nil
}

func (s *stubSkills) Delete(_ context.Context, userID, id int64) error {
	s.called, s.gotUserID, s.gotID = true, userID, id
	return s.returnErr
}

// asUser attaches verified claims for userID, as RequireAuth would.
func asUser(req *http.Request, userID int64) *http.Request {
	claims := &auth.Claims{UserID: userID, Username: "alice", Email: "a@x.com"}
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body["error"]
}

var createdAt = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

// errWrapped mimics how services wrap repository errors.
func errWrapped(err error) error {
	return fmt.Errorf("service/skill: fetching skill: %w", err)
}
