package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/foliokit/folio/internal/model"
)

var (
	ErrProjectNotFound = errors.New("project not found")
)

// ProjectFilter narrows project listings. Nil fields are ignored.
type ProjectFilter struct {
	Featured *bool
}

type ProjectRepository interface {
	Create(project *model.Project) error
	ByID(id string) (*model.Project, error)
	Projects(filter ProjectFilter) ([]*model.Project, error)
	Update(project *model.Project) error
	Delete(id string) error
}

type projectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(project *model.Project) error {
	query := `INSERT INTO projects (id, title, description, technologies, category, image, github_url, live_url, featured, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		project.ID,
		project.Title,
		project.Description,
		project.Technologies,
		project.Category,
		project.Image,
		project.GitHubURL,
		project.LiveURL,
		project.Featured,
		project.CreatedAt,
		project.UpdatedAt,
	)

	return err
}

func (r *projectRepository) ByID(id string) (*model.Project, error) {
	project := &model.Project{}
	query := `SELECT * FROM projects WHERE id = $1`

	err := r.db.Get(project, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	return project, nil
}

func (r *projectRepository) Projects(filter ProjectFilter) ([]*model.Project, error) {
	projects := []*model.Project{}

	var where []string
	var args []any
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		where = append(where, fmt.Sprintf("featured = $%d", len(args)))
	}

	query := `SELECT * FROM projects`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	err := r.db.Select(&projects, query, args...)
	if err != nil {
		return nil, err
	}

	return projects, nil
}

func (r *projectRepository) Update(project *model.Project) error {
	query := `UPDATE projects
	          SET title = $1, description = $2, technologies = $3, category = $4, image = $5,
	              github_url = $6, live_url = $7, featured = $8, updated_at = $9
	          WHERE id = $10`

	result, err := r.db.Exec(query,
		project.Title,
		project.Description,
		project.Technologies,
		project.Category,
		project.Image,
		project.GitHubURL,
		project.LiveURL,
		project.Featured,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return err
	}

	return affected(result, ErrProjectNotFound)
}

func (r *projectRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return affected(result, ErrProjectNotFound)
}

// affected returns notFound when a write touched no rows.
func affected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
