package service

import (
	"context"
	"testing"

	"github.com/zeakmc/gatekeeper/internal/domain"
	util "github.com/zeakmc/gatekeeper/pkg/util"
)

func TestCategoryCreateDefaults(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())

	category, err := svc.Create(context.Background(), "g1", CategoryInput{Name: "  Support  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if category.Name != "Support" {
		t.Fatalf("expected trimmed name, got %q", category.Name)
	}
	if !category.Enabled {
		t.Fatal("new categories start enabled")
	}
	if category.ButtonColor != domain.ButtonColorPrimary {
		t.Fatalf("expected primary default, got %s", category.ButtonColor)
	}
	if category.NamingTemplate != DefaultNamingTemplate {
		t.Fatalf("expected default template, got %q", category.NamingTemplate)
	}
}

func TestCategoryCreateValidation(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())

	if _, err := svc.Create(context.Background(), "g1", CategoryInput{Name: "  "}); !util.IsCode(err, util.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED for empty name, got %v", err)
	}

	tooMany := CategoryInput{Name: "x", StaffRoles: []string{"r1", "r2", "r3", "r4"}}
	if _, err := svc.Create(context.Background(), "g1", tooMany); !util.IsCode(err, util.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED for role cap, got %v", err)
	}
}

func TestCategoryUpdateKeepsUnsetFields(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())

	category, _ := svc.Create(context.Background(), "g1", CategoryInput{
		Name:         "Support",
		AutoGreeting: "hello",
	})

	updated, err := svc.Update(context.Background(), category.ID, CategoryInput{Description: "general help"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Support" || updated.AutoGreeting != "hello" {
		t.Fatalf("unset fields must keep values: %+v", updated)
	}
	if updated.Description != "general help" {
		t.Fatalf("expected description update, got %q", updated.Description)
	}
}

func TestCategorySetEnabled(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())
	category, _ := svc.Create(context.Background(), "g1", CategoryInput{Name: "Support"})

	disabled, err := svc.SetEnabled(context.Background(), category.ID, false)
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if disabled.Enabled {
		t.Fatal("expected disabled")
	}
}

func TestCategorySetNamingTemplate(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())
	category, _ := svc.Create(context.Background(), "g1", CategoryInput{Name: "Support"})

	updated, err := svc.SetNamingTemplate(context.Background(), category.ID, "{category}-{username}-{num}")
	if err != nil {
		t.Fatalf("set template: %v", err)
	}
	if updated.NamingTemplate != "{category}-{username}-{num}" {
		t.Fatalf("unexpected template %q", updated.NamingTemplate)
	}

	if _, err := svc.SetNamingTemplate(context.Background(), category.ID, "  "); !util.IsCode(err, util.CodeValidationFailed) {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestCategoryDeleteUnknown(t *testing.T) {
	svc := NewCategoryService(newFakeCategoryRepo())

	if err := svc.Delete(context.Background(), "missing"); !util.IsCode(err, util.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
