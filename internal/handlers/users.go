package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/apperr"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/middleware"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/models"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/policy"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/store"
)

// Users groups the user administration handlers. Most operations are
// admin-only; viewing and updating one's own account is open to everyone.
type Users struct {
	users *store.UserStore
	posts *store.PostStore
}

// NewUsers creates a new Users handler group.
func NewUsers(users *store.UserStore, posts *store.PostStore) *Users {
	return &Users{users: users, posts: posts}
}

// List returns a page of users, optionally filtered by role. Unknown
// role values are ignored rather than rejected.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if !policy.Allow(caller.Role, policy.OpUserList, false) {
		respondError(w, apperr.PermissionDenied("insufficient permissions"))
		return
	}

	page, perPage := pageParams(r)
	role := roleOrNil(r.URL.Query().Get("role"))

	users, total, err := h.users.List(role, page, perPage)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"users":      users,
		"pagination": newPagination(total, page, perPage),
	})
}

// Get returns a single user. Callers may view themselves; viewing others
// is admin-only.
func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())

	target, err := h.users.FindByUsername(chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, err)
		return
	}
	if target == nil {
		respondError(w, apperr.NotFound("user not found"))
		return
	}

	if !policy.Allow(caller.Role, policy.OpUserView, caller.ID == target.ID) {
		respondError(w, apperr.PermissionDenied("insufficient permissions"))
		return
	}
	respondJSON(w, http.StatusOK, target)
}

type userUpdateRequest struct {
	Username     *string `json:"username"`
	Email        *string `json:"email"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Bio          *string `json:"bio"`
	ProfileImage *string `json:"profile_image"`
	Role         *string `json:"role"`
	IsActive     *bool   `json:"is_active"`
}

// Update modifies a user. Self-service edits cover the profile fields;
// role and activity changes are admin-only.
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())

	target, err := h.users.FindByUsername(chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, err)
		return
	}
	if target == nil {
		respondError(w, apperr.NotFound("user not found"))
		return
	}

	if !policy.Allow(caller.Role, policy.OpUserModify, caller.ID == target.ID) {
		respondError(w, apperr.PermissionDenied("insufficient permissions"))
		return
	}

	var req userUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if req.Username != nil {
		if msg := validateUsername(*req.Username); msg != "" {
			respondError(w, apperr.Validation("%s", msg))
			return
		}
		target.Username = *req.Username
	}
	if req.Email != nil {
		if !emailPattern.MatchString(*req.Email) {
			respondError(w, apperr.Validation("A valid email address is required."))
			return
		}
		target.Email = *req.Email
	}
	if req.FirstName != nil {
		target.FirstName = req.FirstName
	}
	if req.LastName != nil {
		target.LastName = req.LastName
	}
	if req.Bio != nil {
		target.Bio = req.Bio
	}
	if req.ProfileImage != nil {
		target.ProfileImage = req.ProfileImage
	}

	if req.Role != nil || req.IsActive != nil {
		if !policy.Allow(caller.Role, policy.OpUserAdminister, false) {
			respondError(w, apperr.PermissionDenied("only admins may change roles or account status"))
			return
		}
		if req.Role != nil {
			role, ok := models.ParseRole(*req.Role)
			if !ok {
				respondError(w, apperr.Validation("unknown role %q", *req.Role))
				return
			}
			target.Role = role
		}
		if req.IsActive != nil {
			target.IsActive = *req.IsActive
		}
	}

	if err := h.users.Update(target); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, target)
}

// Delete removes a user. Admin-only; self-deletion and deleting authors
// with existing posts are rejected.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if !policy.Allow(caller.Role, policy.OpUserAdminister, false) {
		respondError(w, apperr.PermissionDenied("insufficient permissions"))
		return
	}

	target, err := h.users.FindByUsername(chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, err)
		return
	}
	if target == nil {
		respondError(w, apperr.NotFound("user not found"))
		return
	}
	if target.ID == caller.ID {
		respondError(w, apperr.Validation("cannot delete your own account"))
		return
	}

	n, err := h.posts.CountByAuthor(target.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	if n > 0 {
		respondError(w, apperr.Validation("cannot delete a user with %d existing posts", n))
		return
	}

	if err := h.users.Delete(target.ID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// Activate re-enables a deactivated account. Admin-only.
func (h *Users) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// Deactivate disables an account, which blocks login and invalidates
// token resolution. Admin-only; self-deactivation is rejected.
func (h *Users) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *Users) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	caller := middleware.UserFromCtx(r.Context())
	if !policy.Allow(caller.Role, policy.OpUserAdminister, false) {
		respondError(w, apperr.PermissionDenied("insufficient permissions"))
		return
	}

	target, err := h.users.FindByUsername(chi.URLParam(r, "username"))
	if err != nil {
		respondError(w, err)
		return
	}
	if target == nil {
		respondError(w, apperr.NotFound("user not found"))
		return
	}
	if !active && target.ID == caller.ID {
		respondError(w, apperr.Validation("cannot deactivate your own account"))
		return
	}

	if err := h.users.SetActive(target.ID, active); err != nil {
		respondError(w, err)
		return
	}
	target.IsActive = active
	respondJSON(w, http.StatusOK, target)
}
