package service

import (
	"context"
	"errors"
	"testing"

	"github.com/portfolio/internal/content"
)

func TestSkillServiceDisplayFallsBackBelowMinimum(t *testing.T) {
	store, _ := setupServiceTestDB(t)
	svc := NewSkillService(store, nil)
	ctx := context.Background()

	for _, name := range []string{"React", "Go"} {
		if _, err := svc.Create(ctx, SkillInput{Name: strPtr(name), Level: intPtr(50)}); err != nil {
			t.Fatalf("create skill: %v", err)
		}
	}

	catalog := svc.Display(ctx)
	if !catalog.Fallback {
		t.Fatal("expected fallback catalog for two stored skills")
	}
	if catalog.Len() != 16 {
		t.Fatalf("expected 16 fallback skills, got %d", catalog.Len())
	}
}

func TestSkillServiceDisplayGroupsStoredSkills(t *testing.T) {
	store, _ := setupServiceTestDB(t)
	svc := NewSkillService(store, nil)
	ctx := context.Background()

	inputs := []SkillInput{
		{Name: strPtr("Vue"), Level: intPtr(60)},
		{Name: strPtr("React"), Category: strPtr(content.CategoryFrontend), Level: intPtr(90)},
		{Name: strPtr("Go"), Category: strPtr(content.CategoryBackend), Level: intPtr(80)},
		{Name: strPtr("Postgres"), Category: strPtr(content.CategoryDatabase), Level: intPtr(70)},
		{Name: strPtr("Docker"), Category: strPtr(content.CategoryTools), Level: intPtr(65)},
	}
	for _, in := range inputs {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("create skill: %v", err)
		}
	}

	catalog := svc.Display(ctx)
	if catalog.Fallback {
		t.Fatal("five stored skills must be shown as-is")
	}
	if len(catalog.Groups) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(catalog.Groups))
	}
	frontend := catalog.Groups[0]
	if frontend.Category != content.CategoryFrontend || len(frontend.Skills) != 2 {
		t.Fatalf("unexpected frontend group: %#v", frontend)
	}
	if frontend.Skills[0].Name != "React" || frontend.Skills[1].Name != "Vue" {
		t.Fatalf("expected level ordering React, Vue; got %s, %s", frontend.Skills[0].Name, frontend.Skills[1].Name)
	}
}

func TestSkillServiceValidationAndUpdate(t *testing.T) {
	store, _ := setupServiceTestDB(t)
	svc := NewSkillService(store, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, SkillInput{Name: strPtr("")}); !errors.Is(err, ErrSkillNameRequired) {
		t.Fatalf("expected ErrSkillNameRequired, got %v", err)
	}
	if _, err := svc.Create(ctx, SkillInput{Name: strPtr("Go"), Level: intPtr(101)}); !errors.Is(err, ErrSkillLevelInvalid) {
		t.Fatalf("expected ErrSkillLevelInvalid, got %v", err)
	}

	skill, err := svc.Create(ctx, SkillInput{Name: strPtr("Go"), Level: intPtr(10)})
	if err != nil {
		t.Fatalf("create skill: %v", err)
	}
	updated, err := svc.Update(ctx, skill.ID, SkillInput{Level: intPtr(95)})
	if err != nil {
		t.Fatalf("update skill: %v", err)
	}
	if updated.Level != 95 || updated.Name != "Go" {
		t.Fatalf("unexpected skill after update: %#v", updated)
	}

	if _, err := svc.Update(ctx, "missing", SkillInput{Level: intPtr(1)}); !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, skill.ID); err != nil {
		t.Fatalf("delete skill: %v", err)
	}
	if err := svc.Delete(ctx, skill.ID); !errors.Is(err, ErrSkillNotFound) {
		t.Fatalf("expected ErrSkillNotFound, got %v", err)
	}
}

func TestSkillServiceCreateRejectsDuplicateID(t *testing.T) {
	store, _ := setupServiceTestDB(t)
	svc := NewSkillService(store, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, SkillInput{ID: "skill-go", Name: strPtr("Go"), Level: intPtr(80)}); err != nil {
		t.Fatalf("create skill: %v", err)
	}
	if _, err := svc.Create(ctx, SkillInput{ID: " skill-go ", Name: strPtr("Golang")}); !errors.Is(err, ErrSkillExists) {
		t.Fatalf("expected ErrSkillExists, got %v", err)
	}

	got, err := store.Skills.Get(ctx, "skill-go")
	if err != nil {
		t.Fatalf("get skill: %v", err)
	}
	if got.Name != "Go" {
		t.Fatalf("expected original skill to survive, got %q", got.Name)
	}
}
