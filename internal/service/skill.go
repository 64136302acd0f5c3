package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/IsmaelKabore/SkillHub/internal/apperror"
	"github.com/IsmaelKabore/SkillHub/internal/model"
	"github.com/IsmaelKabore/SkillHub/internal/repository"
)

// Validation limits, in characters.
const (
	MaxSkillNameLength   = 100
	MaxProficiencyLength = 50
)

// SkillService manages the caller's own skills.
//
// Every method takes the caller's user id, which the handler reads from the
// verified token. The request body never decides ownership.
type SkillService struct {
	repo   repository.SkillRepository
	logger *slog.Logger
}

// NewSkillService creates a SkillService.
func NewSkillService(repo repository.SkillRepository, logger *slog.Logger) *SkillService {
	return &SkillService{
		repo:   repo,
		logger: logger,
	}
}

// SkillInput is the editable part of a skill.
type SkillInput struct {
	SkillName   string
	Proficiency string
}

// normalize trims both fields and enforces presence and length.
// Proficiency is free text ("beginner", "expert", "5 years", ...).
func (in SkillInput) normalize() (SkillInput, error) {
	in.SkillName = strings.TrimSpace(in.SkillName)
	in.Proficiency = strings.TrimSpace(in.Proficiency)

	switch {
	case in.SkillName == "":
		return in, apperror.ValidationFailed("skill_name", "skill_name is required")
	case utf8.RuneCountInString(in.SkillName) > MaxSkillNameLength:
		return in, apperror.ValidationFailed("skill_name",
			fmt.Sprintf("skill_name must be %d characters or less", MaxSkillNameLength))
	case in.Proficiency == "":
		return in, apperror.ValidationFailed("proficiency", "proficiency is required")
	case utf8.RuneCountInString(in.Proficiency) > MaxProficiencyLength:
		return in, apperror.ValidationFailed("proficiency",
			fmt.Sprintf("proficiency must be %d characters or less", MaxProficiencyLength))
	}
	return in, nil
}

// List returns userID's skills ordered by id; an empty slice when none.
func (s *SkillService) List(ctx context.Context, userID int64) ([]model.Skill, error) {
	skills, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/skill: listing skills for user %d: %w", userID, err)
	}
	if skills == nil {
		skills = []model.Skill{}
	}
	return skills, nil
}

// Add creates a skill owned by userID.
func (s *SkillService) Add(ctx context.Context, userID int64, in SkillInput) (*model.Skill, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	skill := &model.Skill{
		UserID:      userID,
		SkillName:   in.SkillName,
		Proficiency: in.Proficiency,
	}
	if err := s.repo.Create(ctx, skill); err != nil {
		return nil, fmt.Errorf("service/skill: adding skill for user %d: %w", userID, err)
	}

	s.logger.Info("skill added",
		slog.Int64("skillID", skill.ID),
		slog.Int64("userID", userID),
	)

	return skill, nil
}

// Update changes the name and proficiency of a skill userID owns.
//
//	unknown id            → NotFound
//	owned by someone else → Forbidden
func (s *SkillService) Update(ctx context.Context, userID, id int64, in SkillInput) (*model.Skill, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	skill, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	skill.SkillName = in.SkillName
	skill.Proficiency = in.Proficiency
	if err := s.repo.Update(ctx, skill); err != nil {
		return nil, fmt.Errorf("service/skill: updating skill %d: %w", id, err)
	}

	s.logger.Info("skill updated", slog.Int64("skillID", id), slog.Int64("userID", userID))

	return skill, nil
}

// Delete removes a skill userID owns. Same errors as Update; deleting an
// already deleted skill is NotFound.
func (s *SkillService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service/skill: deleting skill %d: %w", id, err)
	}

	s.logger.Info("skill deleted", slog.Int64("skillID", id), slog.Int64("userID", userID))

	return nil
}

// owned fetches skill id and checks that userID owns it.
func (s *SkillService) owned(ctx context.Context, userID, id int64) (*model.Skill, error) {
	skill, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/skill: fetching skill %d: %w", id, err)
	}

	if skill.UserID != userID {
		s.logger.Warn("skill access denied",
			slog.Int64("skillID", id),
			slog.Int64("ownerID", skill.UserID),
			slog.Int64("userID", userID),
		)
		return nil, apperror.Forbidden("you do not have permission to modify this skill")
	}

	return skill, nil
}
