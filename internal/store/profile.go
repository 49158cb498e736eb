// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"aiblog/internal/models"
)

// ProfileStore manages resume profiles and their child collections.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore returns a new ProfileStore.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// FindByUser retrieves a user's profile with experience, education, and
// skills loaded. Returns nil if the user has no profile yet.
func (s *ProfileStore) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p := &models.Profile{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, first_name, last_name, title, summary, email,
		       linkedin_url, github_url
		FROM profiles WHERE user_id = $1
	`, userID).Scan(
		&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Title, &p.Summary,
		&p.Email, &p.LinkedInURL, &p.GitHubURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}

	if p.Experience, err = s.listExperience(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.Education, err = s.listEducation(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.Skills, err = s.listSkills(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// FindPrimary retrieves the site owner's profile: the profile of the
// earliest-created admin user. Returns nil when no admin has one yet.
func (s *ProfileStore) FindPrimary(ctx context.Context) (*models.Profile, error) {
	p := &models.Profile{}
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.user_id, p.first_name, p.last_name, p.title, p.summary,
		       p.email, p.linkedin_url, p.github_url
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE u.is_admin
		ORDER BY u.created_at
		LIMIT 1
	`).Scan(
		&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Title, &p.Summary,
		&p.Email, &p.LinkedInURL, &p.GitHubURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find primary profile: %w", err)
	}

	if p.Experience, err = s.listExperience(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.Education, err = s.listEducation(ctx, p.ID); err != nil {
		return nil, err
	}
	if p.Skills, err = s.listSkills(ctx, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// Save upserts a profile and synchronizes the name and email back onto
// the owning user row in the same transaction. One explicit method
// instead of save-hooks on either record: no re-entrant callback cycles,
// and both rows move together or not at all.
func (s *ProfileStore) Save(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin profile save: %w", err)
	}
	defer tx.Rollback()

	result := *p
	err = tx.QueryRowContext(ctx, `
		INSERT INTO profiles (user_id, first_name, last_name, title, summary, email,
		                      linkedin_url, github_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
			title = EXCLUDED.title, summary = EXCLUDED.summary,
			email = EXCLUDED.email, linkedin_url = EXCLUDED.linkedin_url,
			github_url = EXCLUDED.github_url
		RETURNING id
	`, p.UserID, p.FirstName, p.LastName, p.Title, p.Summary, p.Email,
		p.LinkedInURL, p.GitHubURL,
	).Scan(&result.ID)
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET first_name = $1, last_name = $2, email = $3 WHERE id = $4
	`, p.FirstName, p.LastName, p.Email, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("sync user from profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit profile save: %w", err)
	}
	return &result, nil
}

func (s *ProfileStore) listExperience(ctx context.Context, profileID uuid.UUID) ([]models.WorkExperience, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile_id, job_title, company, start_date, end_date, description
		FROM work_experience
		WHERE profile_id = $1
		ORDER BY start_date DESC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list experience: %w", err)
	}
	defer rows.Close()

	var items []models.WorkExperience
	for rows.Next() {
		var e models.WorkExperience
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.JobTitle, &e.Company,
			&e.StartDate, &e.EndDate, &e.Description); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (s *ProfileStore) listEducation(ctx context.Context, profileID uuid.UUID) ([]models.Education, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile_id, degree, institution, graduation_year
		FROM education
		WHERE profile_id = $1
		ORDER BY graduation_year DESC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list education: %w", err)
	}
	defer rows.Close()

	var items []models.Education
	for rows.Next() {
		var e models.Education
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.Degree, &e.Institution, &e.GraduationYear); err != nil {
			return nil, fmt.Errorf("scan education: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (s *ProfileStore) listSkills(ctx context.Context, profileID uuid.UUID) ([]models.Skill, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile_id, name, level
		FROM skills
		WHERE profile_id = $1
		ORDER BY level DESC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var items []models.Skill
	for rows.Next() {
		var sk models.Skill
		if err := rows.Scan(&sk.ID, &sk.ProfileID, &sk.Name, &sk.Level); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		items = append(items, sk)
	}
	return items, rows.Err()
}
