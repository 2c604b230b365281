package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/model"
	"github.com/foliokit/folio/internal/repository"
)

// SkillInput is the JSON body of skill writes.
type SkillInput struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Proficiency *int    `json:"proficiency"`
	Icon        *string `json:"icon"`
}

type SkillService struct {
	repo repository.SkillRepository
}

func NewSkillService(repo repository.SkillRepository) *SkillService {
	return &SkillService{repo: repo}
}

func (s *SkillService) Skills(category string) ([]*model.Skill, error) {
	if category != "" {
		category = canonicalEnum(category, model.SkillCategories)
	}

	skills, err := s.repo.Skills(category)
	if err != nil {
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error fetching skills", err)
	}
	return skills, nil
}

func (s *SkillService) ByID(id string) (*model.Skill, error) {
	skill, err := s.repo.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return nil, apperr.NotFound("Skill not found")
		}
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error fetching skill", err)
	}
	return skill, nil
}

func (s *SkillService) Create(in SkillInput) (*model.Skill, error) {
	name, err := requireText(in.Name, "Please provide name and category")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	skill := &model.Skill{
		ID:          uuid.New().String(),
		Name:        name,
		Category:    model.SkillCategoryOther,
		Proficiency: model.DefaultSkillProficiency,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.apply(skill, in)
	if err != nil {
		return nil, err
	}

	err = s.repo.Create(skill)
	if err != nil {
		return nil, skillWriteError(err, "Error creating skill")
	}

	return skill, nil
}

func (s *SkillService) Update(id string, in SkillInput) (*model.Skill, error) {
	skill, err := s.ByID(id)
	if err != nil {
		return nil, err
	}

	err = overwriteText(&skill.Name, in.Name, "Name cannot be empty")
	if err != nil {
		return nil, err
	}

	err = s.apply(skill, in)
	if err != nil {
		return nil, err
	}

	skill.UpdatedAt = time.Now()
	err = s.repo.Update(skill)
	if err != nil {
		return nil, skillWriteError(err, "Error updating skill")
	}

	return skill, nil
}

// apply sets the optional fields shared by create and update.
func (s *SkillService) apply(skill *model.Skill, in SkillInput) error {
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		category := canonicalEnum(*in.Category, model.SkillCategories)
		if !slices.Contains(model.SkillCategories, category) {
			return apperr.Validation(fmt.Sprintf("Category must be one of %s", strings.Join(model.SkillCategories, ", ")))
		}
		skill.Category = category
	}
	if in.Proficiency != nil {
		if *in.Proficiency < 0 || *in.Proficiency > 100 {
			return apperr.Validation("Proficiency must be between 0 and 100")
		}
		skill.Proficiency = *in.Proficiency
	}
	optionalText(&skill.Icon, in.Icon)
	return nil
}

func (s *SkillService) Delete(id string) error {
	err := s.repo.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrSkillNotFound) {
			return apperr.NotFound("Skill not found")
		}
		return apperr.E(apperr.KindPersistenceFailure, "Error deleting skill", err)
	}
	return nil
}

func skillWriteError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateSkill):
		return apperr.E(apperr.KindConflict, "Skill already exists", err)
	case errors.Is(err, repository.ErrSkillNotFound):
		return apperr.NotFound("Skill not found")
	default:
		return apperr.E(apperr.KindPersistenceFailure, message, err)
	}
}

// canonicalEnum maps loosely cased input ("frontend", "WORK") onto the
// matching allowed value. Unknown values are returned trimmed.
func canonicalEnum(value string, allowed []string) string {
	value = strings.TrimSpace(value)
	for _, a := range allowed {
		if sameLabel(a, value) {
			return a
		}
	}
	return value
}
