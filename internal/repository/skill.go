package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/foliokit/folio/internal/model"
)

var (
	ErrSkillNotFound  = errors.New("skill not found")
	ErrDuplicateSkill = errors.New("skill already exists")
)

type SkillRepository interface {
	Create(skill *model.Skill) error
	ByID(id string) (*model.Skill, error)
	Skills(category string) ([]*model.Skill, error)
	Update(skill *model.Skill) error
	Delete(id string) error
}

type skillRepository struct {
	db *sqlx.DB
}

func NewSkillRepository(db *sqlx.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) Create(skill *model.Skill) error {
	query := `INSERT INTO skills (id, name, category, proficiency, icon, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		skill.ID,
		skill.Name,
		skill.Category,
		skill.Proficiency,
		skill.Icon,
		skill.CreatedAt,
		skill.UpdatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateSkill
	}

	return err
}

func (r *skillRepository) ByID(id string) (*model.Skill, error) {
	skill := &model.Skill{}

	err := r.db.Get(skill, `SELECT * FROM skills WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrSkillNotFound
	}
	if err != nil {
		return nil, err
	}

	return skill, nil
}

// Skills lists skills grouped by category, strongest first. An empty
// category lists all of them.
func (r *skillRepository) Skills(category string) ([]*model.Skill, error) {
	skills := []*model.Skill{}

	var err error
	if category == "" {
		err = r.db.Select(&skills, `SELECT * FROM skills ORDER BY category ASC, proficiency DESC`)
	} else {
		err = r.db.Select(&skills, `SELECT * FROM skills WHERE category = $1 ORDER BY proficiency DESC`, category)
	}
	if err != nil {
		return nil, err
	}

	return skills, nil
}

func (r *skillRepository) Update(skill *model.Skill) error {
	query := `UPDATE skills
	          SET name = $1, category = $2, proficiency = $3, icon = $4, updated_at = $5
	          WHERE id = $6`

	result, err := r.db.Exec(query,
		skill.Name,
		skill.Category,
		skill.Proficiency,
		skill.Icon,
		skill.UpdatedAt,
		skill.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSkill
		}
		return err
	}

	return affected(result, ErrSkillNotFound)
}

func (r *skillRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return affected(result, ErrSkillNotFound)
}
