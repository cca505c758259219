package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/bloghub/internal/auth"
	"github.com/geocoder89/bloghub/internal/config"
	"github.com/geocoder89/bloghub/internal/domain/user"
	"github.com/geocoder89/bloghub/internal/http/middlewares"
	"github.com/geocoder89/bloghub/internal/repo/postgres"
	"github.com/geocoder89/bloghub/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type AuthHandler struct {
	users UserReader
	jwt   *auth.Manager
}

func NewAuthHandler(users UserReader, jwtManager *auth.Manager) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwtManager,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

// Login exchanges credentials for a bearer token. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for the credential lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByUsername(cctx, req.Username)

	if err != nil {
		if errors.Is(err, postgres.ErrUnavailable) {
			RespondUnavailable(ctx, "Storage temporarily unavailable, retry shortly.")
			return
		}
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	ok, err := security.VerifyPassword(req.Password, foundUser.PasswordHash)

	if err != nil {
		// stored hash is corrupt; this must never pass as a bad password
		RespondInternal(ctx, "Could not verify credentials")
		return
	}

	if !ok {
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	accessToken, err := h.jwt.IssueToken(foundUser.ID)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}

// Me returns the authenticated caller's profile.
func (h *AuthHandler) Me(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	ctx.JSON(http.StatusOK, u)
}
