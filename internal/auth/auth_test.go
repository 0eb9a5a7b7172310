package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	testKey    = "test-signing-key"
	testIssuer = "labbook-test"
)

func TestIssueParseRoundtrip(t *testing.T) {
	pair, err := Issue("u1", RoleTeacher, "t1", testIssuer, testKey, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := Parse(pair.AccessToken, testKey, testIssuer)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != RoleTeacher || claims.TeacherID != "t1" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := Parse(pair.RefreshToken, testKey, testIssuer); err != nil {
		t.Errorf("parse refresh: %v", err)
	}
}

func TestParseRejectsWrongKeyAndIssuer(t *testing.T) {
	pair, err := Issue("u1", RoleAdmin, "", testIssuer, testKey, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Parse(pair.AccessToken, "other-key", testIssuer); err == nil {
		t.Error("token accepted with wrong key")
	}
	if _, err := Parse(pair.AccessToken, testKey, "other-issuer"); err == nil {
		t.Error("token accepted with wrong issuer")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	pair, err := Issue("u1", RoleAdmin, "", testIssuer, testKey, -time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Parse(pair.AccessToken, testKey, testIssuer); err == nil {
		t.Error("expired token accepted")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret-password", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret-password" {
		t.Fatal("password not hashed")
	}
	if !CheckPassword("secret-password", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordClampsCost(t *testing.T) {
	// Out-of-range cost falls back to the bcrypt default instead of failing.
	if _, err := HashPassword("secret-password", 99); err != nil {
		t.Errorf("hash with oversized cost: %v", err)
	}
}

func testRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{Require(testKey, testIssuer)}, extra...)
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/protected", handlers...)
	return r
}

func get(r *gin.Engine, token string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRequireMiddleware(t *testing.T) {
	r := testRouter()
	if code := get(r, ""); code != http.StatusUnauthorized {
		t.Errorf("missing token = %d, want 401", code)
	}
	if code := get(r, "garbage"); code != http.StatusUnauthorized {
		t.Errorf("bad token = %d, want 401", code)
	}
	pair, _ := Issue("u1", RoleTeacher, "", testIssuer, testKey, time.Minute, time.Hour)
	if code := get(r, pair.AccessToken); code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", code)
	}
}

func TestRequireRole(t *testing.T) {
	r := testRouter(RequireRole(RoleAdmin))
	teacher, _ := Issue("u1", RoleTeacher, "", testIssuer, testKey, time.Minute, time.Hour)
	admin, _ := Issue("u2", RoleAdmin, "", testIssuer, testKey, time.Minute, time.Hour)

	if code := get(r, teacher.AccessToken); code != http.StatusForbidden {
		t.Errorf("teacher on admin route = %d, want 403", code)
	}
	if code := get(r, admin.AccessToken); code != http.StatusOK {
		t.Errorf("admin on admin route = %d, want 200", code)
	}
}
