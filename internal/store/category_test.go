package store

import (
	"testing"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/apperr"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/models"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/slug"
)

func newTestCategory(name string) *models.Category {
	return &models.Category{Name: name, Slug: slug.Make(name)}
}

// TestCategoryHierarchy walks a parent/child pair through creation, a
// rejected cycle, and deletions in leaf-first order.
func TestCategoryHierarchy(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	t.Cleanup(func() { cleanCategories(t, db, "tech-hier", "ai-hier") })

	tech, err := cats.Create(newTestCategory("Tech Hier"))
	if err != nil {
		t.Fatalf("create tech: %v", err)
	}
	if tech.Slug != "tech-hier" {
		t.Errorf("slug = %q, want tech-hier", tech.Slug)
	}

	aiCat := newTestCategory("AI Hier")
	aiCat.ParentID = &tech.ID
	ai, err := cats.Create(aiCat)
	if err != nil {
		t.Fatalf("create ai: %v", err)
	}

	// Re-parenting tech under its own child must be rejected as a cycle.
	if err := cats.CheckReparent(tech.ID, ai.ID); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("CheckReparent(tech, ai) = %v, want validation error", err)
	}

	// Self-parenting is rejected outright.
	if err := cats.CheckReparent(tech.ID, tech.ID); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("CheckReparent(tech, tech) = %v, want validation error", err)
	}

	// Re-parenting ai under a sibling-free root is fine.
	if err := cats.CheckReparent(ai.ID, tech.ID); err != nil {
		t.Errorf("CheckReparent(ai, tech) = %v, want nil", err)
	}

	// Deleting the parent is the caller's responsibility to guard; here
	// we verify the counts the guard uses.
	if n, err := cats.CountChildren(tech.ID); err != nil || n != 1 {
		t.Errorf("CountChildren(tech) = %d, %v, want 1", n, err)
	}
	if n, err := cats.CountChildren(ai.ID); err != nil || n != 0 {
		t.Errorf("CountChildren(ai) = %d, %v, want 0", n, err)
	}

	// Leaf-first deletion succeeds.
	if err := cats.Delete(ai.ID); err != nil {
		t.Fatalf("delete ai: %v", err)
	}
	if err := cats.Delete(tech.ID); err != nil {
		t.Fatalf("delete tech: %v", err)
	}
	if got, _ := cats.FindBySlug("tech-hier"); got != nil {
		t.Error("tech still present after delete")
	}
}

// TestCategoryCheckReparentDeepChain verifies the ancestor walk detects a
// cycle several levels down, not just with a direct child.
func TestCategoryCheckReparentDeepChain(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	t.Cleanup(func() { cleanCategories(t, db, "deep-a", "deep-b", "deep-c", "deep-d") })

	a, err := cats.Create(newTestCategory("Deep A"))
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	prev := a
	var d *models.Category
	for _, name := range []string{"Deep B", "Deep C", "Deep D"} {
		c := newTestCategory(name)
		c.ParentID = &prev.ID
		c, err = cats.Create(c)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		prev = c
		d = c
	}

	// Chain is a, b, c, d; moving a under d closes a length-4 cycle.
	if err := cats.CheckReparent(a.ID, d.ID); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("CheckReparent(a, d) = %v, want validation error", err)
	}

	// An unknown parent id is reported as not found.
	bogus := newTestCategory("nope")
	if err := cats.CheckReparent(a.ID, bogus.ID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("CheckReparent(a, missing) = %v, want not found", err)
	}
}

// TestCategoryUniqueness verifies name and slug collisions surface as
// conflicts rather than generic errors.
func TestCategoryUniqueness(t *testing.T) {
	db := testDB(t)
	cats := NewCategoryStore(db)
	t.Cleanup(func() { cleanCategories(t, db, "unique-cat") })

	if _, err := cats.Create(newTestCategory("Unique Cat")); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Identical name hits the name constraint.
	_, err := cats.Create(newTestCategory("Unique Cat"))
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("duplicate name: got %v, want conflict", err)
	}

	// Different name, same derived slug hits the slug constraint.
	c := &models.Category{Name: "Unique  Cat", Slug: slug.Make("Unique  Cat")}
	_, err = cats.Create(c)
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("duplicate slug: got %v, want conflict", err)
	}
}
