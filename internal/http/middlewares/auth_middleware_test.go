package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/bloghub/internal/auth"
	"github.com/geocoder89/bloghub/internal/domain/user"
	"github.com/geocoder89/bloghub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	subject string
	err     error
}

func (f *fakeVerifier) VerifyToken(token string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.subject, nil
}

type fakeUserGetter struct {
	u   user.User
	err error
}

func (f *fakeUserGetter) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.err != nil {
		return user.User{}, f.err
	}
	return f.u, nil
}

func newProtectedRouter(verifier middlewares.TokenVerifier, users middlewares.UserGetter) *gin.Engine {
	mw := middlewares.NewAuthMiddleware(verifier, users)

	r := gin.New()
	r.GET("/protected", mw.RequireAuth(), func(c *gin.Context) {
		id, ok := middlewares.IdentityFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": id.UserID, "admin": id.Admin})
	})

	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)

	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	r := newProtectedRouter(&fakeVerifier{}, &fakeUserGetter{})

	if w := get(r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuth_NotBearer(t *testing.T) {
	r := newProtectedRouter(&fakeVerifier{}, &fakeUserGetter{})

	if w := get(r, "Basic dXNlcjpwYXNz"); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuth_BadToken(t *testing.T) {
	r := newProtectedRouter(&fakeVerifier{err: auth.ErrTokenExpired}, &fakeUserGetter{})

	if w := get(r, "Bearer expired-token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuth_UnknownSubject(t *testing.T) {
	r := newProtectedRouter(
		&fakeVerifier{subject: "ghost"},
		&fakeUserGetter{err: errors.New("not found")},
	)

	if w := get(r, "Bearer some-token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuth_ResolvesFreshFlags(t *testing.T) {
	// the store, not the token, decides admin/active
	r := newProtectedRouter(
		&fakeVerifier{subject: "u1"},
		&fakeUserGetter{u: user.User{ID: "u1", Active: true, Admin: true}},
	)

	w := get(r, "Bearer good-token")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); !strings.Contains(body, `"admin":true`) {
		t.Fatalf("expected admin flag from store, got %s", body)
	}
}
