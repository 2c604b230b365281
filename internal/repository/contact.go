package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/foliokit/folio/internal/model"
)

var (
	ErrContactNotFound = errors.New("contact not found")
)

type ContactRepository interface {
	Create(contact *model.Contact) error
	ByID(id string) (*model.Contact, error)
	Contacts(read *bool) ([]*model.Contact, error)
	SetRead(id string, read bool) error
	Delete(id string) error
}

type contactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(contact *model.Contact) error {
	query := `INSERT INTO contacts (id, name, email, subject, message, is_read, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		contact.ID,
		contact.Name,
		contact.Email,
		contact.Subject,
		contact.Message,
		contact.Read,
		contact.CreatedAt,
	)

	return err
}

func (r *contactRepository) ByID(id string) (*model.Contact, error) {
	contact := &model.Contact{}

	err := r.db.Get(contact, `SELECT * FROM contacts WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}

	return contact, nil
}

// Contacts lists messages newest first, optionally filtered by read state.
func (r *contactRepository) Contacts(read *bool) ([]*model.Contact, error) {
	contacts := []*model.Contact{}

	var err error
	if read == nil {
		err = r.db.Select(&contacts, `SELECT * FROM contacts ORDER BY created_at DESC`)
	} else {
		err = r.db.Select(&contacts, `SELECT * FROM contacts WHERE is_read = $1 ORDER BY created_at DESC`, *read)
	}
	if err != nil {
		return nil, err
	}

	return contacts, nil
}

func (r *contactRepository) SetRead(id string, read bool) error {
	result, err := r.db.Exec(`UPDATE contacts SET is_read = $1 WHERE id = $2`, read, id)
	if err != nil {
		return err
	}

	return affected(result, ErrContactNotFound)
}

func (r *contactRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return affected(result, ErrContactNotFound)
}
