package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/models"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/slug"
)

// TagStore manages tags and their post associations.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

const tagColumns = `id, name, slug, description, color, featured, created_at, updated_at`

// scanTag scans a row into a Tag struct.
func scanTag(scanner interface{ Scan(...any) error }) (*models.Tag, error) {
	var t models.Tag
	err := scanner.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Description, &t.Color, &t.Featured,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TagListOptions control filtering, ordering, and pagination of List.
type TagListOptions struct {
	// SortByPostCount orders by descending association count instead of name.
	SortByPostCount bool
	// Featured filters on the featured flag when non-nil.
	Featured *bool
	Page     int
	PerPage  int
}

// List returns a page of tags with their post counts, plus the total
// count for the filter.
func (s *TagStore) List(opts TagListOptions) ([]models.Tag, int, error) {
	where := ""
	args := []any{}
	if opts.Featured != nil {
		where = ` WHERE t.featured = $1`
		args = append(args, *opts.Featured)
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tags t`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tags: %w", err)
	}

	order := ` ORDER BY t.name`
	if opts.SortByPostCount {
		order = ` ORDER BY post_count DESC, t.name`
	}

	query := `
		SELECT t.id, t.name, t.slug, t.description, t.color, t.featured,
		       t.created_at, t.updated_at,
		       COUNT(pt.post_id) AS post_count
		FROM tags t
		LEFT JOIN post_tags pt ON pt.tag_id = t.id` + where + `
		GROUP BY t.id` + order +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, opts.PerPage, (opts.Page-1)*opts.PerPage)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		var t models.Tag
		err := rows.Scan(
			&t.ID, &t.Name, &t.Slug, &t.Description, &t.Color, &t.Featured,
			&t.CreatedAt, &t.UpdatedAt, &t.PostCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

// FindBySlug retrieves a tag by slug with its post count. Returns nil if
// not found.
func (s *TagStore) FindBySlug(slugStr string) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRow(`
		SELECT t.id, t.name, t.slug, t.description, t.color, t.featured,
		       t.created_at, t.updated_at,
		       (SELECT COUNT(*) FROM post_tags pt WHERE pt.tag_id = t.id) AS post_count
		FROM tags t WHERE t.slug = $1
	`, slugStr).Scan(
		&t.ID, &t.Name, &t.Slug, &t.Description, &t.Color, &t.Featured,
		&t.CreatedAt, &t.UpdatedAt, &t.PostCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by slug: %w", err)
	}
	return &t, nil
}

// FindByName retrieves a tag by its unique name. Returns nil if not found.
func (s *TagStore) FindByName(name string) (*models.Tag, error) {
	row := s.db.QueryRow(`SELECT `+tagColumns+` FROM tags WHERE name = $1`, name)
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by name: %w", err)
	}
	return t, nil
}

// Create inserts a new tag and returns it.
func (s *TagStore) Create(t *models.Tag) (*models.Tag, error) {
	row := s.db.QueryRow(`
		INSERT INTO tags (name, slug, description, color, featured)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+tagColumns,
		t.Name, t.Slug, t.Description, t.Color, t.Featured,
	)
	result, err := scanTag(row)
	if err != nil {
		if pgErr, ok := uniqueViolation(err); ok {
			return nil, conflictError(pgErr, "tag")
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return result, nil
}

// Update modifies an existing tag.
func (s *TagStore) Update(t *models.Tag) error {
	_, err := s.db.Exec(`
		UPDATE tags SET
			name = $1, slug = $2, description = $3, color = $4, featured = $5,
			updated_at = NOW()
		WHERE id = $6
	`, t.Name, t.Slug, t.Description, t.Color, t.Featured, t.ID)
	if err != nil {
		if pgErr, ok := uniqueViolation(err); ok {
			return conflictError(pgErr, "tag")
		}
		return fmt.Errorf("update tag: %w", err)
	}
	return nil
}

// Delete removes a tag by ID. Post associations cascade away; posts
// themselves are untouched.
func (s *TagStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// FindOrCreate resolves a tag by the slug derived from name, creating it
// if absent. Concurrent calls with the same name converge on a single
// row: the insert is ON CONFLICT DO NOTHING and the follow-up fetch
// returns whichever row won.
func (s *TagStore) FindOrCreate(name string) (*models.Tag, error) {
	return findOrCreateTag(s.db, name)
}

// findOrCreateTag is the insert-or-fetch primitive shared with the post
// store, which runs it inside the post-save transaction.
func findOrCreateTag(q querier, name string) (*models.Tag, error) {
	tagSlug := slug.Make(name)

	row := q.QueryRow(`
		INSERT INTO tags (name, slug)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO NOTHING
		RETURNING `+tagColumns,
		name, tagSlug,
	)
	t, err := scanTag(row)
	if err == nil {
		return t, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("insert tag %q: %w", name, err)
	}

	// The slug already exists; return the winning row.
	row = q.QueryRow(`SELECT `+tagColumns+` FROM tags WHERE slug = $1`, tagSlug)
	t, err = scanTag(row)
	if err != nil {
		return nil, fmt.Errorf("fetch tag %q after conflict: %w", name, err)
	}
	return t, nil
}
