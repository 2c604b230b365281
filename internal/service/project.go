package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/fields"
	"github.com/foliokit/folio/internal/model"
	"github.com/foliokit/folio/internal/repository"
	"github.com/foliokit/folio/internal/storage"
)

// ProjectInput carries a create or update request. Nil pointers and absent
// raw fields mean "not sent".
type ProjectInput struct {
	Title        *string
	Description  *string
	Category     *string
	GitHubURL    *string
	LiveURL      *string
	Featured     *bool
	Technologies fields.Raw
	Image        *storage.Upload
}

// ProjectQuery filters project listings. Empty values are ignored.
type ProjectQuery struct {
	Category   string
	Technology string
	Featured   bool
}

type ProjectService struct {
	repo        repository.ProjectRepository
	attachments *Attachments
}

func NewProjectService(repo repository.ProjectRepository, attachments *Attachments) *ProjectService {
	return &ProjectService{
		repo:        repo,
		attachments: attachments,
	}
}

func (s *ProjectService) Projects(q ProjectQuery) ([]*model.Project, error) {
	filter := repository.ProjectFilter{}
	if q.Featured {
		featured := true
		filter.Featured = &featured
	}

	projects, err := s.repo.Projects(filter)
	if err != nil {
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error fetching projects", err)
	}

	if q.Category == "" && q.Technology == "" {
		return projects, nil
	}

	matched := []*model.Project{}
	for _, p := range projects {
		if q.Category != "" && !sameLabel(p.Category, q.Category) {
			continue
		}
		if q.Technology == "" {
			matched = append(matched, p)
			continue
		}
		for _, tech := range p.Technologies {
			if sameLabel(tech, q.Technology) {
				matched = append(matched, p)
				break
			}
		}
	}
	return matched, nil
}

func (s *ProjectService) ByID(id string) (*model.Project, error) {
	project, err := s.repo.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, apperr.NotFound("Project not found")
		}
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error fetching project", err)
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*model.Project, error) {
	title, err := requireText(in.Title, "Title is required")
	if err != nil {
		return nil, err
	}
	description, err := requireText(in.Description, "Description is required")
	if err != nil {
		return nil, err
	}
	category, err := requireText(in.Category, "Category is required")
	if err != nil {
		return nil, err
	}

	technologies, _, err := normalizeList(in.Technologies, "technologies")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	project := &model.Project{
		ID:           uuid.New().String(),
		Title:        title,
		Description:  description,
		Category:     category,
		Technologies: technologies,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	optionalText(&project.GitHubURL, in.GitHubURL)
	optionalText(&project.LiveURL, in.LiveURL)
	if in.Featured != nil {
		project.Featured = *in.Featured
	}

	asset, err := s.attachments.Store(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	if asset != nil {
		project.Image = asset.Ref
	}

	err = s.repo.Create(project)
	if err != nil {
		s.attachments.Rollback(ctx, asset, err)
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error creating project", fmt.Errorf("failed to create project: %w", err))
	}

	return project, nil
}

// Update applies the fields that were sent. A new image is stored first,
// the record is switched to it, and only then the old image is removed.
func (s *ProjectService) Update(ctx context.Context, id string, in ProjectInput) (*model.Project, error) {
	project, err := s.ByID(id)
	if err != nil {
		return nil, err
	}

	err = overwriteText(&project.Title, in.Title, "Title cannot be empty")
	if err != nil {
		return nil, err
	}
	err = overwriteText(&project.Description, in.Description, "Description cannot be empty")
	if err != nil {
		return nil, err
	}
	err = overwriteText(&project.Category, in.Category, "Category cannot be empty")
	if err != nil {
		return nil, err
	}
	optionalText(&project.GitHubURL, in.GitHubURL)
	optionalText(&project.LiveURL, in.LiveURL)
	if in.Featured != nil {
		project.Featured = *in.Featured
	}

	technologies, present, err := normalizeList(in.Technologies, "technologies")
	if err != nil {
		return nil, err
	}
	if present {
		project.Technologies = technologies
	}

	asset, err := s.attachments.Store(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	oldImage := ""
	if asset != nil {
		oldImage = project.Image
		project.Image = asset.Ref
	}

	project.UpdatedAt = time.Now()
	err = s.repo.Update(project)
	if err != nil {
		s.attachments.Rollback(ctx, asset, err)
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, apperr.NotFound("Project not found")
		}
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error updating project", fmt.Errorf("failed to update project: %w", err))
	}

	s.attachments.Discard(ctx, oldImage)
	return project, nil
}

// Delete removes the image (tolerating a missing file) and then the record.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	project, err := s.ByID(id)
	if err != nil {
		return err
	}

	s.attachments.Discard(ctx, project.Image)

	err = s.repo.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return apperr.NotFound("Project not found")
		}
		return apperr.E(apperr.KindPersistenceFailure, "Error deleting project", fmt.Errorf("failed to delete project: %w", err))
	}

	return nil
}
