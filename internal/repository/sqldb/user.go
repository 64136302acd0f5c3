package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/IsmaelKabore/SkillHub/internal/apperror"
	"github.com/IsmaelKabore/SkillHub/internal/model"
	"github.com/IsmaelKabore/SkillHub/internal/repository"
)

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

const userColumns = `id, username, email, password, created_at`

// UserDB is the users table.
type UserDB struct {
	db *DB
}

// Create inserts a user and fills in its generated ID and CreatedAt.
//
// INSERT ... RETURNING id works on both SQLite (3.35+) and Postgres, so the
// new id comes back in the same round trip instead of via LastInsertId,
// which pgx does not support.
//
// A UNIQUE violation on username or email becomes an apperror.ErrConflict
// with the same message the service pre-check would give.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	err := u.db.conn.QueryRowContext(ctx, u.db.q(
		`INSERT INTO users (username, email, password, created_at)
		 VALUES (?, ?, ?, ?)
		 RETURNING id`),
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if column, ok := uniqueViolation(err); ok {
			return duplicateUser(column)
		}
		return fmt.Errorf("sqldb: inserting user %q: %w", user.Username, err)
	}

	return nil
}

func duplicateUser(column string) *apperror.AppError {
	switch column {
	case "email":
		return apperror.Conflict("email", "email already registered")
	case "username":
		return apperror.Conflict("username", "username already taken")
	default:
		return apperror.Conflict("", "user already exists")
	}
}

// GetByID retrieves a user by id. Returns apperror.ErrNotFound if none.
func (u *UserDB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.getBy(ctx, "id", id)
}

// GetByEmail retrieves a user by email. Returns apperror.ErrNotFound if none.
func (u *UserDB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.getBy(ctx, "email", email)
}

// GetByUsername retrieves a user by username. Returns apperror.ErrNotFound if none.
func (u *UserDB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return u.getBy(ctx, "username", username)
}

// getBy looks up one user by a column. column is always one of the literal
// names above, never user input.
func (u *UserDB) getBy(ctx context.Context, column string, value any) (*model.User, error) {
	var user model.User

	err := u.db.conn.QueryRowContext(ctx, u.db.q(
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`),
		value,
	).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", value)
		}
		return nil, fmt.Errorf("sqldb: getting user by %s: %w", column, err)
	}

	return &user, nil
}

// List returns every user ordered by id. The result is never nil.
func (u *UserDB) List(ctx context.Context) ([]model.User, error) {
	rows, err := u.db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqldb: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email,
			&user.PasswordHash, &user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqldb: scanning user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqldb: iterating users: %w", err)
	}

	return users, nil
}
