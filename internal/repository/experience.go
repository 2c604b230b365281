package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/foliokit/folio/internal/model"
)

var (
	ErrExperienceNotFound = errors.New("experience not found")
)

type ExperienceRepository interface {
	Create(experience *model.Experience) error
	ByID(id string) (*model.Experience, error)
	Experiences(experienceType string) ([]*model.Experience, error)
	Update(experience *model.Experience) error
	Delete(id string) error
}

type experienceRepository struct {
	db *sqlx.DB
}

func NewExperienceRepository(db *sqlx.DB) ExperienceRepository {
	return &experienceRepository{db: db}
}

func (r *experienceRepository) Create(e *model.Experience) error {
	query := `INSERT INTO experiences (id, title, company, location, description, start_date, end_date, is_current, type, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		e.ID,
		e.Title,
		e.Company,
		e.Location,
		e.Description,
		e.StartDate,
		e.EndDate,
		e.Current,
		e.Type,
		e.CreatedAt,
		e.UpdatedAt,
	)

	return err
}

func (r *experienceRepository) ByID(id string) (*model.Experience, error) {
	experience := &model.Experience{}

	err := r.db.Get(experience, `SELECT * FROM experiences WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrExperienceNotFound
	}
	if err != nil {
		return nil, err
	}

	return experience, nil
}

// Experiences lists entries most recent first. An empty type lists all.
func (r *experienceRepository) Experiences(experienceType string) ([]*model.Experience, error) {
	experiences := []*model.Experience{}

	var err error
	if experienceType == "" {
		err = r.db.Select(&experiences, `SELECT * FROM experiences ORDER BY start_date DESC`)
	} else {
		err = r.db.Select(&experiences, `SELECT * FROM experiences WHERE type = $1 ORDER BY start_date DESC`, experienceType)
	}
	if err != nil {
		return nil, err
	}

	return experiences, nil
}

func (r *experienceRepository) Update(e *model.Experience) error {
	query := `UPDATE experiences
	          SET title = $1, company = $2, location = $3, description = $4, start_date = $5,
	              end_date = $6, is_current = $7, type = $8, updated_at = $9
	          WHERE id = $10`

	result, err := r.db.Exec(query,
		e.Title,
		e.Company,
		e.Location,
		e.Description,
		e.StartDate,
		e.EndDate,
		e.Current,
		e.Type,
		e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		return err
	}

	return affected(result, ErrExperienceNotFound)
}

func (r *experienceRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM experiences WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return affected(result, ErrExperienceNotFound)
}
