package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/foliokit/folio/internal/model"
)

var (
	ErrBlogPostNotFound = errors.New("blog post not found")
)

type BlogPostRepository interface {
	Create(post *model.BlogPost) error
	ByID(id string) (*model.BlogPost, error)
	Published() ([]*model.BlogPost, error)
	All() ([]*model.BlogPost, error)
	Update(post *model.BlogPost) error
	Delete(id string) error
}

type blogPostRepository struct {
	db *sqlx.DB
}

func NewBlogPostRepository(db *sqlx.DB) BlogPostRepository {
	return &blogPostRepository{db: db}
}

func (r *blogPostRepository) Create(post *model.BlogPost) error {
	query := `INSERT INTO blog_posts (id, title, content, excerpt, image, tags, published, author, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		post.ID,
		post.Title,
		post.Content,
		post.Excerpt,
		post.Image,
		post.Tags,
		post.Published,
		post.Author,
		post.CreatedAt,
		post.UpdatedAt,
	)

	return err
}

func (r *blogPostRepository) ByID(id string) (*model.BlogPost, error) {
	post := &model.BlogPost{}

	err := r.db.Get(post, `SELECT * FROM blog_posts WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrBlogPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (r *blogPostRepository) Published() ([]*model.BlogPost, error) {
	posts := []*model.BlogPost{}

	err := r.db.Select(&posts, `SELECT * FROM blog_posts WHERE published = $1 ORDER BY created_at DESC`, true)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *blogPostRepository) All() ([]*model.BlogPost, error) {
	posts := []*model.BlogPost{}

	err := r.db.Select(&posts, `SELECT * FROM blog_posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *blogPostRepository) Update(post *model.BlogPost) error {
	query := `UPDATE blog_posts
	          SET title = $1, content = $2, excerpt = $3, image = $4, tags = $5, published = $6, author = $7, updated_at = $8
	          WHERE id = $9`

	result, err := r.db.Exec(query,
		post.Title,
		post.Content,
		post.Excerpt,
		post.Image,
		post.Tags,
		post.Published,
		post.Author,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return err
	}

	return affected(result, ErrBlogPostNotFound)
}

func (r *blogPostRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return affected(result, ErrBlogPostNotFound)
}
