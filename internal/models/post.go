package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// ParsePostStatus validates a status string and returns the typed status.
// The second return value is false for unknown values.
func ParsePostStatus(s string) (PostStatus, bool) {
	switch PostStatus(s) {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return PostStatus(s), true
	}
	return "", false
}

// Post represents a blog article. A post belongs to exactly one author,
// at most one category, and any number of tags.
type Post struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content"`
	Summary         *string    `json:"summary,omitempty"`
	FeaturedImage   *string    `json:"featured_image,omitempty"`
	Status          PostStatus `json:"status"`
	AuthorID        uuid.UUID  `json:"author_id"`
	CategoryID      *uuid.UUID `json:"category_id"`
	MetaTitle       *string    `json:"meta_title,omitempty"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	SEOKeywords     *string    `json:"seo_keywords,omitempty"`
	AIGenerated     bool       `json:"ai_generated"`
	AIPrompts       *string    `json:"ai_prompts,omitempty"`
	ViewCount       int        `json:"view_count"`
	ShareCount      int        `json:"share_count"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Virtual fields populated by store queries.
	AuthorUsername string  `json:"author,omitempty"`
	CategorySlug   *string `json:"category,omitempty"`
	Tags           []Tag   `json:"tags,omitempty"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// Publish transitions the post to published. The publish timestamp is set
// only on the first transition; re-publishing never changes it.
func (p *Post) Publish(now time.Time) {
	p.Status = PostStatusPublished
	if p.PublishedAt == nil {
		p.PublishedAt = &now
	}
}

// Archive transitions the post to archived. Archiving has no timestamp
// side effect and is permitted straight from draft.
func (p *Post) Archive() {
	p.Status = PostStatusArchived
}
