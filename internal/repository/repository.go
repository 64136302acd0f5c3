// Package repository defines the persistence contracts the services depend on.
//
// Services accept these interfaces, sqldb provides the implementation, and
// tests swap in in-memory fakes. Every method takes the request context so a
// disconnected client cancels the query it started.
package repository

import (
	"context"

	"github.com/IsmaelKabore/SkillHub/internal/model"
)

// UserRepository stores accounts.
//
// Create fills in the generated ID and CreatedAt. A username or email that
// already exists yields an apperror.ErrConflict; lookups that match nothing
// yield apperror.ErrNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// SkillRepository stores skills. Lists are ordered by id.
//
// Update and Delete return apperror.ErrNotFound when no row matches.
type SkillRepository interface {
	Create(ctx context.Context, skill *model.Skill) error
	GetByID(ctx context.Context, id int64) (*model.Skill, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Skill, error)
	Update(ctx context.Context, skill *model.Skill) error
	Delete(ctx context.Context, id int64) error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
