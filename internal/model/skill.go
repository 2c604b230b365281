package model

import (
	"time"
)

const (
	SkillCategoryFrontend = "Frontend"
	SkillCategoryBackend  = "Backend"
	SkillCategoryDatabase = "Database"
	SkillCategoryTools    = "Tools"
	SkillCategoryOther    = "Other"

	DefaultSkillProficiency = 50
)

var SkillCategories = []string{
	SkillCategoryFrontend,
	SkillCategoryBackend,
	SkillCategoryDatabase,
	SkillCategoryTools,
	SkillCategoryOther,
}

type Skill struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Proficiency int       `db:"proficiency" json:"proficiency"`
	Icon        string    `db:"icon" json:"icon"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
