package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag labels posts in a many-to-many association. Tags are created on
// demand via find-or-create when a post references an unknown tag name.
type Tag struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual field populated by store queries.
	PostCount int `json:"post_count"`
}
