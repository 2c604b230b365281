package model

import (
	"time"
)

const (
	ExperienceTypeWork       = "Work"
	ExperienceTypeEducation  = "Education"
	ExperienceTypeInternship = "Internship"
	ExperienceTypeFreelance  = "Freelance"
)

var ExperienceTypes = []string{
	ExperienceTypeWork,
	ExperienceTypeEducation,
	ExperienceTypeInternship,
	ExperienceTypeFreelance,
}

type Experience struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Company     string     `db:"company" json:"company"`
	Location    string     `db:"location" json:"location"`
	Description string     `db:"description" json:"description"`
	StartDate   time.Time  `db:"start_date" json:"startDate"`
	EndDate     *time.Time `db:"end_date" json:"endDate"` // Nil while current
	Current     bool       `db:"is_current" json:"current"`
	Type        string     `db:"type" json:"type"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}
