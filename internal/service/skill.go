package service

import (
	"context"
	"fmt"
	"strings"

	"skillswap/internal/authz"
	"skillswap/internal/model"
	"skillswap/internal/repository"
)

// SkillService handles business logic for offered/wanted skills.
type SkillService struct {
	repo repository.SkillRepository
}

func NewSkillService(repo repository.SkillRepository) *SkillService {
	return &SkillService{repo: repo}
}

// Create adds a skill to the caller's offered or wanted list.
func (s *SkillService) Create(ctx context.Context, userID int64, req *model.CreateSkillRequest) (*model.Skill, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("skill name is required")
	}
	if !req.Kind.Valid() {
		return nil, model.ErrInvalidSkillKind
	}

	skill := &model.Skill{
		Name:         strings.TrimSpace(req.Name),
		Availability: req.Availability,
	}
	switch req.Kind {
	case model.SkillOffered:
		skill.OfferedBy = &userID
	case model.SkillWanted:
		skill.WantedBy = &userID
	}

	if err := s.repo.Create(ctx, skill); err != nil {
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}

	return skill, nil
}

// Update edits a skill owned by the caller. Changing the kind moves the
// owner id between the two owner columns in a single write.
func (s *SkillService) Update(ctx context.Context, userID, skillID int64, req *model.UpdateSkillRequest) (*model.Skill, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("skill name is required")
	}
	if !req.Kind.Valid() {
		return nil, model.ErrInvalidSkillKind
	}

	skill, err := s.repo.GetByID(ctx, skillID)
	if err != nil {
		return nil, err
	}

	if err := authz.CanEditSkill(userID, skill); err != nil {
		return nil, err
	}

	skill.Name = strings.TrimSpace(req.Name)
	skill.Availability = req.Availability
	skill.OfferedBy = nil
	skill.WantedBy = nil
	switch req.Kind {
	case model.SkillOffered:
		skill.OfferedBy = &userID
	case model.SkillWanted:
		skill.WantedBy = &userID
	}

	if err := s.repo.Update(ctx, skill); err != nil {
		return nil, err
	}

	return skill, nil
}

// Delete removes a skill owned by the caller.
func (s *SkillService) Delete(ctx context.Context, userID, skillID int64) error {
	skill, err := s.repo.GetByID(ctx, skillID)
	if err != nil {
		return err
	}

	if err := authz.CanEditSkill(userID, skill); err != nil {
		return err
	}

	return s.repo.Delete(ctx, skillID)
}

// ListByOwner returns one of a user's skill lists.
func (s *SkillService) ListByOwner(ctx context.Context, userID int64, kind model.SkillKind) ([]model.Skill, error) {
	if !kind.Valid() {
		return nil, model.ErrInvalidSkillKind
	}
	return s.repo.ListByOwner(ctx, userID, kind)
}

// SearchByName finds skills matching a name substring.
func (s *SkillService) SearchByName(ctx context.Context, query string, limit int) ([]model.Skill, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.SearchByName(ctx, query, limit)
}
