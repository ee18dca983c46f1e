package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/apperr"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/middleware"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/models"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/policy"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/slug"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/store"
)

// Tags groups the tag handlers. Reads are public; mutations require the
// tag management permission.
type Tags struct {
	tags *store.TagStore
}

// NewTags creates a new Tags handler group.
func NewTags(tags *store.TagStore) *Tags {
	return &Tags{tags: tags}
}

// List returns a page of tags with post counts. sort_by=post_count
// orders by descending usage; a featured query filters on the flag.
func (h *Tags) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	q := r.URL.Query()

	opts := store.TagListOptions{
		SortByPostCount: q.Get("sort_by") == "post_count",
		Page:            page,
		PerPage:         perPage,
	}
	if raw := q.Get("featured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, apperr.Validation("invalid featured value"))
			return
		}
		opts.Featured = &v
	}

	items, total, err := h.tags.List(opts)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"tags":       items,
		"pagination": newPagination(total, page, perPage),
	})
}

// Get returns one tag by slug, with its post count.
func (h *Tags) Get(w http.ResponseWriter, r *http.Request) {
	tag, err := h.tags.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	if tag == nil {
		respondError(w, apperr.NotFound("tag not found"))
		return
	}
	respondJSON(w, http.StatusOK, tag)
}

type tagRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Featured    *bool   `json:"featured"`
}

// Create adds a tag with a slug derived from the name.
func (h *Tags) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if !policy.Allow(caller.Role, policy.OpTagManage, false) {
		respondError(w, apperr.PermissionDenied("insufficient permissions"))
		return
	}

	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == nil {
		respondError(w, apperr.Validation("Name is required."))
		return
	}
	name := strings.TrimSpace(*req.Name)
	if msg := validateName(name); msg != "" {
		respondError(w, apperr.Validation("%s", msg))
		return
	}

	tag := &models.Tag{
		Name:        name,
		Slug:        slug.Make(name),
		Description: req.Description,
		Color:       req.Color,
	}
	if req.Featured != nil {
		tag.Featured = *req.Featured
	}

	created, err := h.tags.Create(tag)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Update modifies a tag. Renaming re-derives the slug.
func (h *Tags) Update(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if !policy.Allow(caller.Role, policy.OpTagManage, false) {
		respondError(w, apperr.PermissionDenied("insufficient permissions"))
		return
	}

	tag, err := h.tags.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	if tag == nil {
		respondError(w, apperr.NotFound("tag not found"))
		return
	}

	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if msg := validateName(name); msg != "" {
			respondError(w, apperr.Validation("%s", msg))
			return
		}
		tag.Name = name
		tag.Slug = slug.Make(name)
	}
	if req.Description != nil {
		tag.Description = req.Description
	}
	if req.Color != nil {
		tag.Color = req.Color
	}
	if req.Featured != nil {
		tag.Featured = *req.Featured
	}

	if err := h.tags.Update(tag); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tag)
}

// Delete removes a tag. Posts keep existing; only the associations go.
func (h *Tags) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if !policy.Allow(caller.Role, policy.OpTagManage, false) {
		respondError(w, apperr.PermissionDenied("insufficient permissions"))
		return
	}

	tag, err := h.tags.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	if tag == nil {
		respondError(w, apperr.NotFound("tag not found"))
		return
	}

	if err := h.tags.Delete(tag.ID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "tag deleted"})
}
