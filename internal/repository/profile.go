package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/foliokit/folio/internal/model"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

// ProfileRepository stores the singleton owner profile.
type ProfileRepository interface {
	Profile() (*model.Profile, error)
	Create(profile *model.Profile) error
	Update(profile *model.Profile) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Profile() (*model.Profile, error) {
	var profile model.Profile
	err := r.db.Get(&profile, `SELECT * FROM profiles ORDER BY created_at ASC LIMIT 1`)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Create(p *model.Profile) error {
	_, err := r.db.Exec(`
		INSERT INTO profiles (id, name, email, location, bio, skills, github, linkedin, avatar, avatar_thumb, resume, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, p.ID, p.Name, p.Email, p.Location, p.Bio, p.Skills, p.GitHub, p.LinkedIn, p.Avatar, p.AvatarThumb, p.Resume, p.CreatedAt, p.UpdatedAt)

	return err
}

func (r *profileRepository) Update(p *model.Profile) error {
	result, err := r.db.Exec(`
		UPDATE profiles
		SET name = $1, email = $2, location = $3, bio = $4, skills = $5, github = $6, linkedin = $7,
		    avatar = $8, avatar_thumb = $9, resume = $10, updated_at = $11
		WHERE id = $12
	`, p.Name, p.Email, p.Location, p.Bio, p.Skills, p.GitHub, p.LinkedIn, p.Avatar, p.AvatarThumb, p.Resume, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}

	return affected(result, ErrProfileNotFound)
}
