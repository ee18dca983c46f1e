package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/models"
)

// PostStore handles all post-related database operations, including the
// many-to-many tag associations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postSelect joins the author username and category slug every post
// response carries.
const postSelect = `
	SELECT p.id, p.title, p.slug, p.content, p.summary, p.featured_image,
	       p.status, p.author_id, p.category_id, p.meta_title, p.meta_description,
	       p.seo_keywords, p.ai_generated, p.ai_prompts, p.view_count, p.share_count,
	       p.published_at, p.created_at, p.updated_at,
	       u.username, c.slug
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id`

// scanPost scans a joined post row.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Summary, &p.FeaturedImage,
		&p.Status, &p.AuthorID, &p.CategoryID, &p.MetaTitle, &p.MetaDescription,
		&p.SEOKeywords, &p.AIGenerated, &p.AIPrompts, &p.ViewCount, &p.ShareCount,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
		&p.AuthorUsername, &p.CategorySlug,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PostListOptions control filtering and pagination of List. Nil filters
// are ignored.
type PostListOptions struct {
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
	AuthorID   *uuid.UUID
	Status     *models.PostStatus
	Page       int
	PerPage    int
}

// List returns a page of posts ordered most-recently-published first,
// with the total count for the filter. Tags are loaded per post.
func (s *PostStore) List(opts PostListOptions) ([]models.Post, int, error) {
	where := ""
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, len(args))
	}

	if opts.CategoryID != nil {
		add("p.category_id = $%d", *opts.CategoryID)
	}
	if opts.TagID != nil {
		add("EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = $%d)", *opts.TagID)
	}
	if opts.AuthorID != nil {
		add("p.author_id = $%d", *opts.AuthorID)
	}
	if opts.Status != nil {
		add("p.status = $%d", *opts.Status)
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := postSelect + where +
		` ORDER BY p.published_at DESC NULLS LAST, p.created_at DESC` +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, opts.PerPage, (opts.Page-1)*opts.PerPage)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range posts {
		tags, err := s.loadTags(posts[i].ID)
		if err != nil {
			return nil, 0, err
		}
		posts[i].Tags = tags
	}
	return posts, total, nil
}

// FindBySlug retrieves a post by slug with author, category, and tags.
// Returns nil if not found.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.slug = $1`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}

	p.Tags, err = s.loadTags(p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a post and resolves its tag names in one transaction.
// Each tag name goes through find-or-create, so unknown tags come into
// existence as a side effect of saving the post.
func (s *PostStore) Create(p *models.Post, tagNames []string) (*models.Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRow(`
		INSERT INTO posts (title, slug, content, summary, featured_image, status,
		                   author_id, category_id, meta_title, meta_description,
		                   seo_keywords, ai_generated, ai_prompts, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`, p.Title, p.Slug, p.Content, p.Summary, p.FeaturedImage, p.Status,
		p.AuthorID, p.CategoryID, p.MetaTitle, p.MetaDescription,
		p.SEOKeywords, p.AIGenerated, p.AIPrompts, p.PublishedAt,
	).Scan(&id)
	if err != nil {
		if pgErr, ok := uniqueViolation(err); ok {
			return nil, conflictError(pgErr, "post")
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := replaceTags(tx, id, tagNames); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create post: %w", err)
	}
	return s.findByID(id)
}

// Update persists post fields and, when replaceTagList is true, swaps the
// tag associations for the given names inside the same transaction.
func (s *PostStore) Update(p *models.Post, tagNames []string, replaceTagList bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, content = $3, summary = $4, featured_image = $5,
			status = $6, category_id = $7, meta_title = $8, meta_description = $9,
			seo_keywords = $10, ai_generated = $11, ai_prompts = $12,
			published_at = $13, updated_at = NOW()
		WHERE id = $14
	`, p.Title, p.Slug, p.Content, p.Summary, p.FeaturedImage,
		p.Status, p.CategoryID, p.MetaTitle, p.MetaDescription,
		p.SEOKeywords, p.AIGenerated, p.AIPrompts, p.PublishedAt, p.ID)
	if err != nil {
		if pgErr, ok := uniqueViolation(err); ok {
			return conflictError(pgErr, "post")
		}
		return fmt.Errorf("update post: %w", err)
	}

	if replaceTagList {
		if _, err := tx.Exec(`DELETE FROM post_tags WHERE post_id = $1`, p.ID); err != nil {
			return fmt.Errorf("clear post tags: %w", err)
		}
		if err := replaceTags(tx, p.ID, tagNames); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes a post by ID. Tag links cascade away.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// IncrementView bumps the view counter.
func (s *PostStore) IncrementView(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return nil
}

// IncrementShare bumps the share counter.
func (s *PostStore) IncrementShare(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE posts SET share_count = share_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment share count: %w", err)
	}
	return nil
}

// CountByAuthor returns how many posts a user has authored.
func (s *PostStore) CountByAuthor(authorID uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts by author: %w", err)
	}
	return n, nil
}

// findByID retrieves a post by ID with author, category, and tags.
func (s *PostStore) findByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(postSelect+` WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	p.Tags, err = s.loadTags(p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// loadTags fetches a post's tags ordered by name.
func (s *PostStore) loadTags(postID uuid.UUID) ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.slug, t.description, t.color, t.featured,
		       t.created_at, t.updated_at
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("load post tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post tag: %w", err)
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

// replaceTags resolves each name via find-or-create and links it to the
// post. Duplicate names in the list collapse to one link (set semantics).
func replaceTags(tx *sql.Tx, postID uuid.UUID, tagNames []string) error {
	for _, name := range tagNames {
		tag, err := findOrCreateTag(tx, name)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			INSERT INTO post_tags (post_id, tag_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, tag.ID)
		if err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}
	return nil
}
