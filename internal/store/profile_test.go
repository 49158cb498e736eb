package store

import (
	"context"
	"testing"

	"aiblog/internal/models"
)

func TestProfileSaveSyncsUser(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	owner := testUser(t, db)

	profiles := NewProfileStore(db)
	users := NewUserStore(db)

	saved, err := profiles.Save(ctx, &models.Profile{
		UserID:    owner.ID,
		FirstName: "Grace",
		LastName:  "Hopper",
		Title:     "Rear Admiral",
		Summary:   "Compilers.",
		Email:     owner.Email,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	// The user row picked up the profile's name in the same transaction.
	u, err := users.FindByID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if u.FirstName != "Grace" || u.LastName != "Hopper" {
		t.Errorf("user not synced: %s %s", u.FirstName, u.LastName)
	}

	// Saving again updates rather than duplicating.
	saved2, err := profiles.Save(ctx, &models.Profile{
		UserID:    owner.ID,
		FirstName: "Grace",
		LastName:  "Hopper",
		Title:     "Commodore",
		Email:     owner.Email,
	})
	if err != nil {
		t.Fatalf("Save again: %v", err)
	}
	if saved.ID != saved2.ID {
		t.Errorf("upsert created a second profile: %v vs %v", saved.ID, saved2.ID)
	}
}

func TestProfileFindByUserLoadsChildren(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	owner := testUser(t, db)
	profiles := NewProfileStore(db)

	saved, err := profiles.Save(ctx, &models.Profile{
		UserID:    owner.ID,
		FirstName: "Test",
		LastName:  "User",
		Email:     owner.Email,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	mustExec := func(query string, args ...any) {
		t.Helper()
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			t.Fatalf("fixture insert: %v", err)
		}
	}
	mustExec(`INSERT INTO work_experience (profile_id, job_title, company, start_date)
		VALUES ($1, 'Engineer', 'Initech', '2020-01-01')`, saved.ID)
	mustExec(`INSERT INTO education (profile_id, degree, institution, graduation_year)
		VALUES ($1, 'BSc', 'MIT', 2018)`, saved.ID)
	mustExec(`INSERT INTO skills (profile_id, name, level) VALUES ($1, 'Go', 90)`, saved.ID)

	got, err := profiles.FindByUser(ctx, owner.ID)
	if err != nil {
		t.Fatalf("FindByUser: %v", err)
	}
	if got == nil {
		t.Fatal("profile not found")
	}
	if len(got.Experience) != 1 || got.Experience[0].Company != "Initech" {
		t.Errorf("Experience = %+v", got.Experience)
	}
	if len(got.Education) != 1 || got.Education[0].GraduationYear != 2018 {
		t.Errorf("Education = %+v", got.Education)
	}
	if len(got.Skills) != 1 || got.Skills[0].Level != 90 {
		t.Errorf("Skills = %+v", got.Skills)
	}
}
