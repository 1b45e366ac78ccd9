package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users map[uint]*models.User
}

func (s *stubUserRepo) GetByID(id uint) (*models.User, error) {
	return s.users[id], nil
}

func (s *stubUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepo) Create(user *models.User) error { return nil }
func (s *stubUserRepo) Update(user *models.User) error { return nil }

func (s *stubUserRepo) WithTx(tx *gorm.DB) *repository.GormUserRepository { return nil }

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	if w2.Header().Get(requestIDHeader) == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

func TestJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key-1234567890abcdef"
	cfg.JWT.ExpireHours = 1

	repo := &stubUserRepo{users: map[uint]*models.User{
		1: {ID: 1, Email: "user@example.com", Role: constants.RoleUser, Status: constants.UserStatusActive},
		2: {ID: 2, Email: "banned@example.com", Role: constants.RoleUser, Status: constants.UserStatusDisabled},
	}}
	authService := service.NewAuthService(cfg, repo)

	r := gin.New()
	r.Use(JWTAuthMiddleware(authService, repo))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id")})
	})

	doRequest := func(authorization string) *response.Response {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		r.ServeHTTP(w, req)
		var resp response.Response
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response failed: %v", err)
		}
		return &resp
	}

	if resp := doRequest(""); resp.StatusCode != response.CodeUnauthorized {
		t.Fatalf("missing header: status_code want %d got %d", response.CodeUnauthorized, resp.StatusCode)
	}
	if resp := doRequest("Token abc"); resp.StatusCode != response.CodeUnauthorized {
		t.Fatalf("bad scheme: status_code want %d got %d", response.CodeUnauthorized, resp.StatusCode)
	}
	if resp := doRequest("Bearer not-a-jwt"); resp.StatusCode != response.CodeUnauthorized {
		t.Fatalf("invalid token: status_code want %d got %d", response.CodeUnauthorized, resp.StatusCode)
	}

	token, _, err := authService.GenerateJWT(repo.users[1])
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if resp := doRequest("Bearer " + token); resp.StatusCode != response.CodeOK {
		t.Fatalf("valid token: status_code want 0 got %d, msg=%s", resp.StatusCode, resp.Msg)
	}

	bannedToken, _, err := authService.GenerateJWT(repo.users[2])
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if resp := doRequest("Bearer " + bannedToken); resp.StatusCode != response.CodeForbidden {
		t.Fatalf("disabled user: status_code want %d got %d", response.CodeForbidden, resp.StatusCode)
	}
}

func TestAdminRoleMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("user_role", c.GetHeader("X-Test-Role"))
	})
	r.Use(AdminRoleMiddleware())
	r.GET("/admin/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("X-Test-Role", constants.RoleUser)
	r.ServeHTTP(w, req)

	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != response.CodeForbidden {
		t.Fatalf("status_code want %d got %d", response.CodeForbidden, resp.StatusCode)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req2.Header.Set("X-Test-Role", constants.RoleAdmin)
	r.ServeHTTP(w2, req2)

	var resp2 response.Response
	if err := json.Unmarshal(w2.Body.Bytes(), &resp2); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp2.StatusCode != response.CodeOK {
		t.Fatalf("status_code want 0 got %d", resp2.StatusCode)
	}
}
