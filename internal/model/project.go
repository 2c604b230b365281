package model

import (
	"time"
)

type Project struct {
	ID           string     `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Description  string     `db:"description" json:"description"`
	Technologies StringList `db:"technologies" json:"technologies"`
	Category     string     `db:"category" json:"category"`
	Image        string     `db:"image" json:"image"` // Attachment reference, empty = none
	GitHubURL    string     `db:"github_url" json:"githubUrl"`
	LiveURL      string     `db:"live_url" json:"liveUrl"`
	Featured     bool       `db:"featured" json:"featured"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}
