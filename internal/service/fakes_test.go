package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/IsmaelKabore/SkillHub/internal/apperror"
	"github.com/IsmaelKabore/SkillHub/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory repository.UserRepository. A fake (not a
// mock framework) keeps the tests readable: you can see exactly what it does.
// It enforces the same uniqueness as the real schema.
type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64

	// set to a non-nil error to simulate a database failure
	createErr error
	getErr    error
	listErr   error

	// hideOnLookup makes GetByEmail/GetByUsername miss, so Create sees the
	// duplicate first. That is what losing a registration race looks like.
	hideOnLookup bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*model.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperror.Conflict("email", "email already registered")
		}
		if u.Username == user.Username {
			return apperror.Conflict("username", "username already taken")
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now().UTC()
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) find(match func(*model.User) bool, key any) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, apperror.NotFound("user", key)
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	return f.find(func(u *model.User) bool { return u.ID == id }, id)
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return f.find(func(u *model.User) bool { return !f.hideOnLookup && u.Email == email }, email)
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return f.find(func(u *model.User) bool { return !f.hideOnLookup && u.Username == username }, username)
}

func (f *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	users := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// fakeSkillRepo is an in-memory repository.SkillRepository.
type fakeSkillRepo struct {
	mu     sync.Mutex
	skills map[int64]*model.Skill
	nextID int64

	createErr error
	listErr   error
}

func newFakeSkillRepo() *fakeSkillRepo {
	return &fakeSkillRepo{skills: make(map[int64]*model.Skill), nextID: 1}
}

func (f *fakeSkillRepo) Create(_ context.Context, skill *model.Skill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	now := time.Now().UTC()
	skill.ID = f.nextID
	f.nextID++
	skill.CreatedAt, skill.UpdatedAt = now, now
	stored := *skill
	f.skills[skill.ID] = &stored
	return nil
}

func (f *fakeSkillRepo) GetByID(_ context.Context, id int64) (*model.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.skills[id]
	if !ok {
		return nil, apperror.NotFound("skill", id)
	}
	found := *s
	return &found, nil
}

func (f *fakeSkillRepo) ListByUser(_ context.Context, userID int64) ([]model.Skill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []model.Skill
	for _, s := range f.skills {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSkillRepo) Update(_ context.Context, skill *model.Skill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.skills[skill.ID]
	if !ok {
		return apperror.NotFound("skill", skill.ID)
	}
	skill.UpdatedAt = time.Now().UTC()
	s.SkillName, s.Proficiency, s.UpdatedAt = skill.SkillName, skill.Proficiency, skill.UpdatedAt
	return nil
}

func (f *fakeSkillRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.skills[id]; !ok {
		return apperror.NotFound("skill", id)
	}
	delete(f.skills, id)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
