package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/foliokit/folio/internal/model"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrUsersExist         = errors.New("a user already exists")
	errUniqueViolationMsg = []string{"UNIQUE constraint failed", "duplicate key value"}
)

type UserRepository interface {
	Create(user *model.User) error
	CreateFirst(user *model.User) error
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	Count() (int, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.insert(r.db, user)
}

func (r *userRepository) insert(exec sqlx.Execer, user *model.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := exec.Exec(query, user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "username") {
				return ErrDuplicateUsername
			}
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

// CreateFirst inserts user only while the table is empty. The check and
// the insert share one transaction; on PostgreSQL the table is locked so
// concurrent callers queue behind each other.
func (r *userRepository) CreateFirst(user *model.User) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if r.db.DriverName() == "pgx" {
		_, err = tx.Exec(`LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`)
		if err != nil {
			return err
		}
	}

	var count int
	err = tx.Get(&count, `SELECT COUNT(*) FROM users`)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrUsersExist
	}

	err = r.insert(tx, user)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// isUniqueViolation checks for unique constraint violations (works for both
// SQLite and PostgreSQL).
func isUniqueViolation(err error) bool {
	errStr := err.Error()
	for _, msg := range errUniqueViolationMsg {
		if strings.Contains(errStr, msg) {
			return true
		}
	}
	return false
}
