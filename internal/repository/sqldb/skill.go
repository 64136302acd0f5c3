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

// compile-time check that *SkillDB implements repository.SkillRepository
var _ repository.SkillRepository = (*SkillDB)(nil)

const skillColumns = `id, user_id, skill_name, proficiency, created_at, updated_at`

// SkillDB is the skills table.
type SkillDB struct {
	db *DB
}

// Create inserts a skill for skill.UserID and fills in ID and timestamps.
func (s *SkillDB) Create(ctx context.Context, skill *model.Skill) error {
	now := time.Now().UTC().Truncate(time.Microsecond)
	skill.CreatedAt = now
	skill.UpdatedAt = now

	err := s.db.conn.QueryRowContext(ctx, s.db.q(
		`INSERT INTO skills (user_id, skill_name, proficiency, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id`),
		skill.UserID,
		skill.SkillName,
		skill.Proficiency,
		skill.CreatedAt,
		skill.UpdatedAt,
	).Scan(&skill.ID)
	if err != nil {
		return fmt.Errorf("sqldb: inserting skill for user %d: %w", skill.UserID, err)
	}

	return nil
}

// GetByID retrieves one skill. Returns apperror.ErrNotFound if none.
func (s *SkillDB) GetByID(ctx context.Context, id int64) (*model.Skill, error) {
	var skill model.Skill

	err := s.db.conn.QueryRowContext(ctx, s.db.q(
		`SELECT `+skillColumns+` FROM skills WHERE id = ?`),
		id,
	).Scan(
		&skill.ID,
		&skill.UserID,
		&skill.SkillName,
		&skill.Proficiency,
		&skill.CreatedAt,
		&skill.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("skill", id)
		}
		return nil, fmt.Errorf("sqldb: getting skill %d: %w", id, err)
	}

	return &skill, nil
}

// ListByUser returns the skills owned by userID, ordered by id. The result
// is never nil, so it serializes as [] rather than null.
func (s *SkillDB) ListByUser(ctx context.Context, userID int64) ([]model.Skill, error) {
	rows, err := s.db.conn.QueryContext(ctx, s.db.q(
		`SELECT `+skillColumns+` FROM skills WHERE user_id = ? ORDER BY id`),
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqldb: listing skills for user %d: %w", userID, err)
	}
	defer rows.Close()

	skills := make([]model.Skill, 0)
	for rows.Next() {
		var sk model.Skill
		if err := rows.Scan(
			&sk.ID, &sk.UserID, &sk.SkillName, &sk.Proficiency,
			&sk.CreatedAt, &sk.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqldb: scanning skill row: %w", err)
		}
		skills = append(skills, sk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqldb: iterating skills: %w", err)
	}

	return skills, nil
}

// Update rewrites skill_name and proficiency and bumps updated_at. id,
// user_id and created_at never change.
//
// RowsAffected == 0 means the WHERE matched nothing, which is reported as
// not found without a separate SELECT.
func (s *SkillDB) Update(ctx context.Context, skill *model.Skill) error {
	skill.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	result, err := s.db.conn.ExecContext(ctx, s.db.q(
		`UPDATE skills
		 SET skill_name = ?, proficiency = ?, updated_at = ?
		 WHERE id = ?`),
		skill.SkillName,
		skill.Proficiency,
		skill.UpdatedAt,
		skill.ID,
	)
	if err != nil {
		return fmt.Errorf("sqldb: updating skill %d: %w", skill.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqldb: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("skill", skill.ID)
	}

	return nil
}

// Delete removes a skill. Same RowsAffected rule as Update.
func (s *SkillDB) Delete(ctx context.Context, id int64) error {
	result, err := s.db.conn.ExecContext(ctx, s.db.q(
		`DELETE FROM skills WHERE id = ?`),
		id,
	)
	if err != nil {
		return fmt.Errorf("sqldb: deleting skill %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqldb: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("skill", id)
	}

	return nil
}
