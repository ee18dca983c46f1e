package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/apperr"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/middleware"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/models"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/policy"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/slug"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/store"
)

// Categories groups the category handlers. Reads are public; mutations
// require the category management permission.
type Categories struct {
	categories *store.CategoryStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories *store.CategoryStore) *Categories {
	return &Categories{categories: categories}
}

// List returns all categories ordered by name, with post counts. An
// optional parent_id query restricts to direct children.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	var parentID *uuid.UUID
	if raw := r.URL.Query().Get("parent_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, apperr.Validation("invalid parent_id"))
			return
		}
		parentID = &id
	}

	items, err := h.categories.List(parentID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": items})
}

// Get returns one category by slug, with its post count.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	cat, err := h.categories.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	if cat == nil {
		respondError(w, apperr.NotFound("category not found"))
		return
	}
	respondJSON(w, http.StatusOK, cat)
}

type categoryRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	ParentID        *string `json:"parent_id"`
	MetaTitle       *string `json:"meta_title"`
	MetaDescription *string `json:"meta_description"`
}

// Create adds a category. The slug derives from the name; SEO fields
// default to the name and description. A parent id that resolves to no
// existing category is dropped, leaving the new category at the root.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if !policy.Allow(caller.Role, policy.OpCategoryManage, false) {
		respondError(w, apperr.PermissionDenied("insufficient permissions"))
		return
	}

	var req categoryRequest
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

	cat := &models.Category{
		Name:        name,
		Slug:        slug.Make(name),
		Description: req.Description,
	}

	if req.ParentID != nil {
		if id, err := uuid.Parse(*req.ParentID); err == nil {
			parent, err := h.categories.FindByID(id)
			if err != nil {
				respondError(w, err)
				return
			}
			if parent != nil {
				cat.ParentID = &parent.ID
			}
		}
	}

	cat.MetaTitle = req.MetaTitle
	if cat.MetaTitle == nil {
		cat.MetaTitle = &cat.Name
	}
	cat.MetaDescription = req.MetaDescription
	if cat.MetaDescription == nil {
		cat.MetaDescription = cat.Description
	}

	created, err := h.categories.Create(cat)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Update modifies a category. Renaming re-derives the slug. Re-parenting
// is validated against self-reference and cycles before anything is
// written.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if !policy.Allow(caller.Role, policy.OpCategoryManage, false) {
		respondError(w, apperr.PermissionDenied("insufficient permissions"))
		return
	}

	cat, err := h.categories.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	if cat == nil {
		respondError(w, apperr.NotFound("category not found"))
		return
	}

	var req categoryRequest
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
		cat.Name = name
		cat.Slug = slug.Make(name)
	}
	if req.Description != nil {
		cat.Description = req.Description
	}
	if req.MetaTitle != nil {
		cat.MetaTitle = req.MetaTitle
	}
	if req.MetaDescription != nil {
		cat.MetaDescription = req.MetaDescription
	}

	if req.ParentID != nil {
		if *req.ParentID == "" {
			cat.ParentID = nil
		} else {
			id, err := uuid.Parse(*req.ParentID)
			if err != nil {
				respondError(w, apperr.Validation("invalid parent_id"))
				return
			}
			if err := h.categories.CheckReparent(cat.ID, id); err != nil {
				respondError(w, err)
				return
			}
			cat.ParentID = &id
		}
	}

	if err := h.categories.Update(cat); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cat)
}

// Delete removes a category. It is rejected while posts or
// subcategories still reference it; nothing cascades.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if !policy.Allow(caller.Role, policy.OpCategoryManage, false) {
		respondError(w, apperr.PermissionDenied("insufficient permissions"))
		return
	}

	cat, err := h.categories.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	if cat == nil {
		respondError(w, apperr.NotFound("category not found"))
		return
	}

	if n, err := h.categories.CountPosts(cat.ID); err != nil {
		respondError(w, err)
		return
	} else if n > 0 {
		respondError(w, apperr.Validation("cannot delete a category with %d posts", n))
		return
	}
	if n, err := h.categories.CountChildren(cat.ID); err != nil {
		respondError(w, err)
		return
	} else if n > 0 {
		respondError(w, apperr.Validation("cannot delete a category with %d subcategories", n))
		return
	}

	if err := h.categories.Delete(cat.ID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
