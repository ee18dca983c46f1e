package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/auth"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/database"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/middleware"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/models"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/store"
)

func handlerTestDB(t *testing.T) *sql.DB {
	t.Helper()

	envOr := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}
	dsn := "postgres://" + envOr("POSTGRES_USER", "blog") + ":" +
		envOr("POSTGRES_PASSWORD", "changeme") + "@" +
		envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432") +
		"/" + envOr("POSTGRES_DB", "blog") + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// TestRegisterLoginFlow drives the registration and login handlers
// end to end against a real database.
func TestRegisterLoginFlow(t *testing.T) {
	db := handlerTestDB(t)
	users := store.NewUserStore(db)
	tokens := auth.NewTokenManager("flow-test-secret", time.Hour)
	h := NewAuth(users, tokens, nil)
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE username = 'flow_user'")
	})

	// Register.
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"username":"flow_user","email":"flow@test.local","password":"flow-pass-1"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}

	var registered struct {
		User        models.User `json:"user"`
		AccessToken string      `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &registered); err != nil {
		t.Fatalf("unmarshal register response: %v", err)
	}
	if registered.User.Role != models.RoleReader {
		t.Errorf("registered role = %q, want reader", registered.User.Role)
	}
	if registered.AccessToken == "" {
		t.Error("no access token in register response")
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("register response leaks password material: %s", rec.Body.String())
	}

	// The issued token verifies against the same manager.
	claims, err := tokens.Verify(registered.AccessToken)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.UserID != registered.User.ID {
		t.Errorf("token subject = %s, want %s", claims.UserID, registered.User.ID)
	}

	// Duplicate registration conflicts.
	rec = httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"username":"flow_user","email":"other@test.local","password":"flow-pass-1"}`)))
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", rec.Code)
	}

	// Login by username.
	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"login":"flow_user","password":"flow-pass-1"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Login by email.
	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"login":"flow@test.local","password":"flow-pass-1"}`)))
	if rec.Code != http.StatusOK {
		t.Errorf("login by email status = %d", rec.Code)
	}

	// Wrong password.
	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"login":"flow_user","password":"wrong"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", rec.Code)
	}

	// Deactivated accounts cannot log in.
	if err := users.SetActive(registered.User.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"login":"flow_user","password":"flow-pass-1"}`)))
	if rec.Code != http.StatusForbidden {
		t.Errorf("deactivated login status = %d, want 403", rec.Code)
	}
}

func TestMeReturnsContextUser(t *testing.T) {
	h := NewAuth(nil, nil, nil)

	user := &models.User{Username: "ctx_user", Role: models.RoleAuthor}
	r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	r = r.WithContext(context.WithValue(r.Context(), middleware.UserKey, user))

	rec := httptest.NewRecorder()
	h.Me(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ctx_user"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
