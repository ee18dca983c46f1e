package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/apperr"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/middleware"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/models"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/policy"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/slug"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/store"
)

// Posts groups the post handlers. Listing and reading published posts is
// public; everything else goes through the policy table.
type Posts struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	tags       *store.TagStore
	users      *store.UserStore
}

// NewPosts creates a new Posts handler group.
func NewPosts(posts *store.PostStore, categories *store.CategoryStore, tags *store.TagStore, users *store.UserStore) *Posts {
	return &Posts{posts: posts, categories: categories, tags: tags, users: users}
}

// canSeeUnpublished reports whether the caller may view non-published
// posts: staff see everything, authors see their own drafts.
func canSeeUnpublished(caller *models.User, p *models.Post) bool {
	if caller == nil {
		return false
	}
	switch caller.Role {
	case models.RoleAdmin, models.RoleEditor:
		return true
	}
	return caller.ID == p.AuthorID
}

// List returns a page of posts. Anonymous callers only ever see
// published posts; authenticated staff may filter by any status.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	page, perPage := pageParams(r)
	q := r.URL.Query()

	opts := store.PostListOptions{Page: page, PerPage: perPage}

	if raw := q.Get("category"); raw != "" {
		cat, err := h.categories.FindBySlug(raw)
		if err != nil {
			respondError(w, err)
			return
		}
		if cat == nil {
			respondError(w, apperr.NotFound("category not found"))
			return
		}
		opts.CategoryID = &cat.ID
	}
	if raw := q.Get("tag"); raw != "" {
		tag, err := h.tags.FindBySlug(raw)
		if err != nil {
			respondError(w, err)
			return
		}
		if tag == nil {
			respondError(w, apperr.NotFound("tag not found"))
			return
		}
		opts.TagID = &tag.ID
	}
	if raw := q.Get("author"); raw != "" {
		author, err := h.users.FindByUsername(raw)
		if err != nil {
			respondError(w, err)
			return
		}
		if author == nil {
			respondError(w, apperr.NotFound("author not found"))
			return
		}
		opts.AuthorID = &author.ID
	}

	published := models.PostStatusPublished
	if caller == nil || caller.Role == models.RoleReader {
		// Anonymous and reader callers are pinned to published posts.
		opts.Status = &published
	} else if raw := q.Get("status"); raw != "" {
		status, ok := models.ParsePostStatus(raw)
		if !ok {
			respondError(w, apperr.Validation("unknown status %q", raw))
			return
		}
		opts.Status = &status
		// Authors only see their own unpublished work.
		if status != models.PostStatusPublished && caller.Role == models.RoleAuthor {
			opts.AuthorID = &caller.ID
		}
	} else {
		opts.Status = &published
	}

	posts, total, err := h.posts.List(opts)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"posts":      posts,
		"pagination": newPagination(total, page, perPage),
	})
}

// Get returns one post by slug and counts the view. Non-published posts
// are invisible (404) to callers without access to them.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	if post == nil {
		respondError(w, apperr.NotFound("post not found"))
		return
	}

	caller := middleware.UserFromCtx(r.Context())
	if post.Status != models.PostStatusPublished && !canSeeUnpublished(caller, post) {
		respondError(w, apperr.NotFound("post not found"))
		return
	}

	if err := h.posts.IncrementView(post.ID); err != nil {
		slog.Error("increment view failed", "error", err, "post", post.Slug)
	} else {
		post.ViewCount++
	}

	respondJSON(w, http.StatusOK, post)
}

type postRequest struct {
	Title           *string  `json:"title"`
	Content         *string  `json:"content"`
	Summary         *string  `json:"summary"`
	FeaturedImage   *string  `json:"featured_image"`
	Status          *string  `json:"status"`
	CategorySlug    *string  `json:"category"`
	Tags            []string `json:"tags"`
	MetaTitle       *string  `json:"meta_title"`
	MetaDescription *string  `json:"meta_description"`
	SEOKeywords     *string  `json:"seo_keywords"`
	AIGenerated     *bool    `json:"ai_generated"`
	AIPrompts       *string  `json:"ai_prompts"`
}

// Create adds a post authored by the caller. The slug derives from the
// title, tags resolve through find-or-create, and publishing on create
// stamps published_at immediately.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if !policy.Allow(caller.Role, policy.OpPostCreate, false) {
		respondError(w, apperr.PermissionDenied("insufficient permissions"))
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Title == nil || req.Content == nil {
		respondError(w, apperr.Validation("Title and content are required."))
		return
	}
	title := strings.TrimSpace(*req.Title)
	if msg := validatePostInput(title, *req.Content); msg != "" {
		respondError(w, apperr.Validation("%s", msg))
		return
	}
	if msg := validateMetadata(deref(req.Summary), deref(req.MetaDescription)); msg != "" {
		respondError(w, apperr.Validation("%s", msg))
		return
	}

	post := &models.Post{
		Title:         title,
		Slug:          slug.Make(title),
		Content:       *req.Content,
		Summary:       req.Summary,
		FeaturedImage: req.FeaturedImage,
		Status:        models.PostStatusDraft,
		AuthorID:      caller.ID,
		SEOKeywords:   req.SEOKeywords,
		AIPrompts:     req.AIPrompts,
	}
	if req.AIGenerated != nil {
		post.AIGenerated = *req.AIGenerated
	}

	if req.Status != nil {
		status, ok := models.ParsePostStatus(*req.Status)
		if !ok {
			respondError(w, apperr.Validation("unknown status %q", *req.Status))
			return
		}
		if status == models.PostStatusPublished {
			post.Publish(time.Now().UTC())
		} else {
			post.Status = status
		}
	}

	// A category slug that resolves to nothing leaves the post
	// uncategorized rather than failing the request.
	if req.CategorySlug != nil && *req.CategorySlug != "" {
		cat, err := h.categories.FindBySlug(*req.CategorySlug)
		if err != nil {
			respondError(w, err)
			return
		}
		if cat != nil {
			post.CategoryID = &cat.ID
		}
	}

	post.MetaTitle = req.MetaTitle
	if post.MetaTitle == nil {
		post.MetaTitle = &post.Title
	}
	post.MetaDescription = req.MetaDescription
	if post.MetaDescription == nil {
		post.MetaDescription = post.Summary
	}

	created, err := h.posts.Create(post, req.Tags)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// Update modifies a post. Owners and staff only. A retitle re-derives
// the slug; a tag list replaces the associations; the first transition
// to published stamps published_at and later transitions never move it.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())

	post, err := h.posts.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	if post == nil {
		respondError(w, apperr.NotFound("post not found"))
		return
	}

	if !policy.Allow(caller.Role, policy.OpPostModify, caller.ID == post.AuthorID) {
		respondError(w, apperr.PermissionDenied("insufficient permissions"))
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if msg := validatePostInput(title, post.Content); msg != "" {
			respondError(w, apperr.Validation("%s", msg))
			return
		}
		post.Title = title
		post.Slug = slug.Make(title)
	}
	if req.Content != nil {
		if msg := validatePostInput(post.Title, *req.Content); msg != "" {
			respondError(w, apperr.Validation("%s", msg))
			return
		}
		post.Content = *req.Content
	}
	if msg := validateMetadata(deref(req.Summary), deref(req.MetaDescription)); msg != "" {
		respondError(w, apperr.Validation("%s", msg))
		return
	}

	if req.Summary != nil {
		post.Summary = req.Summary
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = req.FeaturedImage
	}
	if req.MetaTitle != nil {
		post.MetaTitle = req.MetaTitle
	}
	if req.MetaDescription != nil {
		post.MetaDescription = req.MetaDescription
	}
	if req.SEOKeywords != nil {
		post.SEOKeywords = req.SEOKeywords
	}
	if req.AIGenerated != nil {
		post.AIGenerated = *req.AIGenerated
	}
	if req.AIPrompts != nil {
		post.AIPrompts = req.AIPrompts
	}

	if req.CategorySlug != nil {
		if *req.CategorySlug == "" {
			post.CategoryID = nil
		} else {
			cat, err := h.categories.FindBySlug(*req.CategorySlug)
			if err != nil {
				respondError(w, err)
				return
			}
			if cat == nil {
				respondError(w, apperr.NotFound("category not found"))
				return
			}
			post.CategoryID = &cat.ID
		}
	}

	if req.Status != nil {
		status, ok := models.ParsePostStatus(*req.Status)
		if !ok {
			respondError(w, apperr.Validation("unknown status %q", *req.Status))
			return
		}
		switch status {
		case models.PostStatusPublished:
			post.Publish(time.Now().UTC())
		case models.PostStatusArchived:
			post.Archive()
		default:
			post.Status = status
		}
	}

	if err := h.posts.Update(post, req.Tags, req.Tags != nil); err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.posts.FindBySlug(post.Slug)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a post. Owners and staff only.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())

	post, err := h.posts.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	if post == nil {
		respondError(w, apperr.NotFound("post not found"))
		return
	}

	if !policy.Allow(caller.Role, policy.OpPostModify, caller.ID == post.AuthorID) {
		respondError(w, apperr.PermissionDenied("insufficient permissions"))
		return
	}

	if err := h.posts.Delete(post.ID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

// Share counts a share of a published post. Public.
func (h *Posts) Share(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, err)
		return
	}
	if post == nil || post.Status != models.PostStatusPublished {
		respondError(w, apperr.NotFound("post not found"))
		return
	}

	if err := h.posts.IncrementShare(post.ID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message":     "share recorded",
		"share_count": post.ShareCount + 1,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
