package middlewares

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/bloghub/internal/authz"
	"github.com/geocoder89/bloghub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Small interfaces so tests can fake them easily.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

type UserGetter interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthMiddleware struct {
	jwt   TokenVerifier
	users UserGetter
}

func NewAuthMiddleware(jwt TokenVerifier, users UserGetter) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users}
}

// RequireAuth authenticates the bearer token and resolves the caller into
// an authz.Identity. Authorization itself happens in the handlers via the
// gate; this middleware only establishes who is calling.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortUnauthorized(c, "Missing or invalid access token")
			return
		}

		userID, err := m.jwt.VerifyToken(raw)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		// tokens outlive account changes, so the active/admin flags come
		// from the store, not the token
		u, err := m.users.GetByID(ctx, userID)
		if err != nil {
			abortUnauthorized(c, "Unknown token subject")
			return
		}

		c.Set(CtxIdentity, authz.Identity{
			UserID: u.ID,
			Active: u.Active,
			Admin:  u.Admin,
		})
		c.Set(CtxUser, u)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": message,
		},
	})
}

// Helpers so handlers don't need to know the magic keys.

func IdentityFromContext(c *gin.Context) (authz.Identity, bool) {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return authz.Identity{}, false
	}
	id, ok := v.(authz.Identity)
	return id, ok
}

func UserFromContext(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}
