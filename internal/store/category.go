package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/apperr"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, meta_title, meta_description, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID,
		&c.MetaTitle, &c.MetaDescription, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns categories ordered by name, with post counts. When
// parentID is non-nil only direct children of that category are returned.
func (s *CategoryStore) List(parentID *uuid.UUID) ([]models.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, c.description, c.parent_id,
		       c.meta_title, c.meta_description, c.created_at, c.updated_at,
		       COUNT(p.id) AS post_count
		FROM categories c
		LEFT JOIN posts p ON p.category_id = c.id`
	args := []any{}
	if parentID != nil {
		query += ` WHERE c.parent_id = $1`
		args = append(args, *parentID)
	}
	query += ` GROUP BY c.id ORDER BY c.name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID,
			&c.MetaTitle, &c.MetaDescription, &c.CreatedAt, &c.UpdatedAt,
			&c.PostCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug with its post count.
// Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRow(`
		SELECT c.id, c.name, c.slug, c.description, c.parent_id,
		       c.meta_title, c.meta_description, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM posts p WHERE p.category_id = c.id) AS post_count
		FROM categories c WHERE c.slug = $1
	`, slug).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID,
		&c.MetaTitle, &c.MetaDescription, &c.CreatedAt, &c.UpdatedAt,
		&c.PostCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return &c, nil
}

// FindByName retrieves a category by its unique name. Returns nil if not found.
func (s *CategoryStore) FindByName(name string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, parent_id, meta_title, meta_description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID, c.MetaTitle, c.MetaDescription,
	)
	result, err := scanCategory(row)
	if err != nil {
		if pgErr, ok := uniqueViolation(err); ok {
			return nil, conflictError(pgErr, "category")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, parent_id = $4,
			meta_title = $5, meta_description = $6, updated_at = NOW()
		WHERE id = $7
	`, c.Name, c.Slug, c.Description, c.ParentID, c.MetaTitle, c.MetaDescription, c.ID)
	if err != nil {
		if pgErr, ok := uniqueViolation(err); ok {
			return conflictError(pgErr, "category")
		}
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category by ID. Referential-safety checks (no posts,
// no subcategories) are the caller's responsibility; the FK constraints
// are the backstop.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// CountPosts returns how many posts currently reference the category.
func (s *CategoryStore) CountPosts(id uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE category_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count category posts: %w", err)
	}
	return n, nil
}

// CountChildren returns how many categories name this one as parent.
func (s *CategoryStore) CountChildren(id uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories WHERE parent_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count subcategories: %w", err)
	}
	return n, nil
}

// CheckReparent validates that setting newParentID as the parent of the
// category id would keep the hierarchy a forest. It rejects self-parenting
// outright, then walks the candidate parent's ancestor chain upward; if
// the chain reaches id, the move would close a cycle. The walk is
// O(depth) and makes no assumption about how deep the tree is.
func (s *CategoryStore) CheckReparent(id, newParentID uuid.UUID) error {
	if id == newParentID {
		return apperr.Validation("a category cannot be its own parent")
	}

	current := newParentID
	for {
		var parent *uuid.UUID
		err := s.db.QueryRow(`SELECT parent_id FROM categories WHERE id = $1`, current).Scan(&parent)
		if err == sql.ErrNoRows {
			return apperr.NotFound("parent category not found")
		}
		if err != nil {
			return fmt.Errorf("walk category ancestors: %w", err)
		}
		if parent == nil {
			return nil
		}
		if *parent == id {
			return apperr.Validation("circular category reference detected")
		}
		current = *parent
	}
}
