package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a hierarchical post category. Each category has at
// most one parent; the parent chain must never form a cycle.
type Category struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	Description     *string    `json:"description,omitempty"`
	ParentID        *uuid.UUID `json:"parent_id"`
	MetaTitle       *string    `json:"meta_title,omitempty"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Virtual field populated by store queries.
	PostCount int `json:"post_count"`
}
