package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/apperr"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/auth"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/middleware"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/models"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/store"
)

// Auth groups registration, login, logout, profile, and 2FA handlers.
type Auth struct {
	users   *store.UserStore
	tokens  *auth.TokenManager
	revoked *auth.RevocationList
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, tokens *auth.TokenManager, revoked *auth.RevocationList) *Auth {
	return &Auth{users: users, tokens: tokens, revoked: revoked}
}

type registerRequest struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// Register creates a reader account and returns it with a fresh token.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if msg := validateRegistration(req.Username, req.Email, req.Password); msg != "" {
		respondError(w, apperr.Validation("%s", msg))
		return
	}

	user, err := a.users.Create(req.Username, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"user":         user,
		"access_token": token,
	})
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code"`
}

// Login authenticates by email or username plus password, and by TOTP
// code when the account has a second factor enrolled.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := a.users.FindByLogin(strings.TrimSpace(req.Login))
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		respondError(w, apperr.Unauthenticated("invalid credentials"))
		return
	}
	if !user.IsActive {
		respondError(w, apperr.PermissionDenied("account is deactivated"))
		return
	}

	if user.TOTPEnabled {
		if user.TOTPSecret == nil || !auth.ValidateTOTP(req.TOTPCode, *user.TOTPSecret) {
			respondError(w, apperr.Unauthenticated("invalid two-factor code"))
			return
		}
	}

	if err := a.users.UpdateLastLogin(user.ID); err != nil {
		slog.Error("update last login failed", "error", err, "user", user.Username)
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user":         user,
		"access_token": token,
	})
}

// Logout revokes the presented token until its natural expiry.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		respondError(w, apperr.Unauthenticated("authentication required"))
		return
	}

	if err := a.revoked.Revoke(r.Context(), claims.TokenID, claims.ExpiresAt); err != nil {
		respondError(w, apperr.Internal("revoke token", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, middleware.UserFromCtx(r.Context()))
}

type profileUpdateRequest struct {
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	Bio             *string `json:"bio"`
	ProfileImage    *string `json:"profile_image"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password"`
}

// UpdateMe updates the caller's own profile. Changing the password
// requires the current one to verify.
func (a *Auth) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req profileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	// Verify the password change before touching anything, so a wrong
	// current password rejects the whole request.
	if req.NewPassword != "" {
		if !a.users.CheckPassword(user, req.CurrentPassword) {
			respondError(w, apperr.Unauthenticated("current password is incorrect"))
			return
		}
		if len(req.NewPassword) < minPasswordLen {
			respondError(w, apperr.Validation("Password must be at least 8 characters."))
			return
		}
	}

	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.ProfileImage != nil {
		user.ProfileImage = req.ProfileImage
	}

	if err := a.users.Update(user); err != nil {
		respondError(w, err)
		return
	}
	if req.NewPassword != "" {
		if err := a.users.SetPassword(user.ID, req.NewPassword); err != nil {
			respondError(w, err)
			return
		}
	}

	respondJSON(w, http.StatusOK, user)
}

// TwoFASetup generates and stores a TOTP secret and returns the
// enrollment payload (secret, otpauth URL, QR code). 2FA stays disabled
// until a code is verified via TwoFAActivate.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	enrollment, err := auth.NewTOTPEnrollment(user.Email)
	if err != nil {
		respondError(w, apperr.Internal("generate totp enrollment", err))
		return
	}

	if err := a.users.SetTOTPSecret(user.ID, enrollment.Secret); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, enrollment)
}

type twoFAActivateRequest struct {
	Code string `json:"code"`
}

// TwoFAActivate verifies a code against the pending secret and enables
// the second factor.
func (a *Auth) TwoFAActivate(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req twoFAActivateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	// Re-read so we verify against the freshest secret.
	fresh, err := a.users.FindByID(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	if fresh == nil || fresh.TOTPSecret == nil {
		respondError(w, apperr.Validation("two-factor setup has not been started"))
		return
	}

	if !auth.ValidateTOTP(req.Code, *fresh.TOTPSecret) {
		respondError(w, apperr.Unauthenticated("invalid two-factor code"))
		return
	}

	if err := a.users.EnableTOTP(user.ID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "two-factor authentication enabled"})
}

// roleOrNil parses an optional role query value; unknown values are
// treated as no filter.
func roleOrNil(s string) *models.Role {
	if role, ok := models.ParseRole(s); ok {
		return &role
	}
	return nil
}
