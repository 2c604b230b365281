package model

import (
	"time"
)

const DefaultBlogAuthor = "Admin"

type BlogPost struct {
	ID        string     `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Content   string     `db:"content" json:"content"`
	Excerpt   string     `db:"excerpt" json:"excerpt"`
	Image     string     `db:"image" json:"image"`
	Tags      StringList `db:"tags" json:"tags"`
	Published bool       `db:"published" json:"published"`
	Author    string     `db:"author" json:"author"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`

	// Computed fields (not in database)
	ContentHTML string `db:"-" json:"contentHtml,omitempty"`
}
