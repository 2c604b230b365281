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

// ExperienceInput is the JSON body of experience writes. Dates accept
// RFC 3339 timestamps or plain YYYY-MM-DD dates. An explicit JSON null
// end date cannot be told apart from an absent one and is ignored.
type ExperienceInput struct {
	Title       *string `json:"title"`
	Company     *string `json:"company"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Current     *bool   `json:"current"`
	Type        *string `json:"type"`
}

type ExperienceService struct {
	repo repository.ExperienceRepository
}

func NewExperienceService(repo repository.ExperienceRepository) *ExperienceService {
	return &ExperienceService{repo: repo}
}

func (s *ExperienceService) Experiences(experienceType string) ([]*model.Experience, error) {
	if experienceType != "" {
		experienceType = canonicalEnum(experienceType, model.ExperienceTypes)
	}

	experiences, err := s.repo.Experiences(experienceType)
	if err != nil {
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error fetching experience", err)
	}
	return experiences, nil
}

func (s *ExperienceService) ByID(id string) (*model.Experience, error) {
	experience, err := s.repo.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrExperienceNotFound) {
			return nil, apperr.NotFound("Experience not found")
		}
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error fetching experience", err)
	}
	return experience, nil
}

func (s *ExperienceService) Create(in ExperienceInput) (*model.Experience, error) {
	const missing = "Please provide required fields"

	title, err := requireText(in.Title, missing)
	if err != nil {
		return nil, err
	}
	company, err := requireText(in.Company, missing)
	if err != nil {
		return nil, err
	}
	description, err := requireText(in.Description, missing)
	if err != nil {
		return nil, err
	}
	start, err := requireText(in.StartDate, missing)
	if err != nil {
		return nil, err
	}
	startDate, err := parseDate(start, "startDate")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	experience := &model.Experience{
		ID:          uuid.New().String(),
		Title:       title,
		Company:     company,
		Description: description,
		StartDate:   startDate,
		Type:        model.ExperienceTypeWork,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	optionalText(&experience.Location, in.Location)

	err = applyPeriod(experience, in)
	if err != nil {
		return nil, err
	}
	err = applyType(experience, in.Type)
	if err != nil {
		return nil, err
	}

	err = s.repo.Create(experience)
	if err != nil {
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error creating experience", fmt.Errorf("failed to create experience: %w", err))
	}

	return experience, nil
}

func (s *ExperienceService) Update(id string, in ExperienceInput) (*model.Experience, error) {
	experience, err := s.ByID(id)
	if err != nil {
		return nil, err
	}

	err = overwriteText(&experience.Title, in.Title, "Title cannot be empty")
	if err != nil {
		return nil, err
	}
	err = overwriteText(&experience.Company, in.Company, "Company cannot be empty")
	if err != nil {
		return nil, err
	}
	err = overwriteText(&experience.Description, in.Description, "Description cannot be empty")
	if err != nil {
		return nil, err
	}
	optionalText(&experience.Location, in.Location)

	if in.StartDate != nil {
		start, err := requireText(in.StartDate, "Start date cannot be empty")
		if err != nil {
			return nil, err
		}
		experience.StartDate, err = parseDate(start, "startDate")
		if err != nil {
			return nil, err
		}
	}

	err = applyPeriod(experience, in)
	if err != nil {
		return nil, err
	}
	err = applyType(experience, in.Type)
	if err != nil {
		return nil, err
	}

	experience.UpdatedAt = time.Now()
	err = s.repo.Update(experience)
	if err != nil {
		if errors.Is(err, repository.ErrExperienceNotFound) {
			return nil, apperr.NotFound("Experience not found")
		}
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error updating experience", fmt.Errorf("failed to update experience: %w", err))
	}

	return experience, nil
}

func (s *ExperienceService) Delete(id string) error {
	err := s.repo.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrExperienceNotFound) {
			return apperr.NotFound("Experience not found")
		}
		return apperr.E(apperr.KindPersistenceFailure, "Error deleting experience", err)
	}
	return nil
}

// applyPeriod keeps end date and current flag consistent: a current
// position never has an end date.
func applyPeriod(e *model.Experience, in ExperienceInput) error {
	if in.Current != nil {
		e.Current = *in.Current
	}
	if e.Current {
		e.EndDate = nil
		return nil
	}

	if in.EndDate == nil {
		return checkPeriod(e)
	}
	raw := strings.TrimSpace(*in.EndDate)
	if raw == "" {
		e.EndDate = nil
		return nil
	}
	end, err := parseDate(raw, "endDate")
	if err != nil {
		return err
	}
	e.EndDate = &end
	return checkPeriod(e)
}

// checkPeriod holds for the merged record, whichever fields were sent.
func checkPeriod(e *model.Experience) error {
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return apperr.Validation("End date must not be before start date")
	}
	return nil
}

func applyType(e *model.Experience, value *string) error {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	t := canonicalEnum(*value, model.ExperienceTypes)
	if !slices.Contains(model.ExperienceTypes, t) {
		return apperr.Validation(fmt.Sprintf("Type must be one of %s", strings.Join(model.ExperienceTypes, ", ")))
	}
	e.Type = t
	return nil
}

func parseDate(value, field string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.Validation(fmt.Sprintf("Invalid %s, expected YYYY-MM-DD", field))
}
