// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the resume data shown on the author's CV page.
// One profile per user; name and email are kept in sync with the user
// record by ProfileStore.Save in a single transaction.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Email       string    `json:"email"`
	LinkedInURL *string   `json:"linkedin_url,omitempty"`
	GitHubURL   *string   `json:"github_url,omitempty"`

	// Virtual collections populated by ProfileStore.FindByUser.
	Experience []WorkExperience `json:"experience,omitempty"`
	Education  []Education      `json:"education,omitempty"`
	Skills     []Skill          `json:"skills,omitempty"`
}

// WorkExperience is one position on the resume, newest first.
type WorkExperience struct {
	ID          uuid.UUID  `json:"id"`
	ProfileID   uuid.UUID  `json:"profile_id"`
	JobTitle    string     `json:"job_title"`
	Company     string     `json:"company"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"` // nil = current position
	Description string     `json:"description"`
}

// Education is one degree on the resume.
type Education struct {
	ID             uuid.UUID `json:"id"`
	ProfileID      uuid.UUID `json:"profile_id"`
	Degree         string    `json:"degree"`
	Institution    string    `json:"institution"`
	GraduationYear int       `json:"graduation_year"`
}

// Skill is one named skill with a 1-100 proficiency level.
type Skill struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
}
