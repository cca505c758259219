package handlers

import (
	"errors"

	"github.com/geocoder89/bloghub/internal/authz"
	"github.com/geocoder89/bloghub/internal/domain/post"
	"github.com/geocoder89/bloghub/internal/domain/user"
	"github.com/geocoder89/bloghub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
)

// respondStoreError is the single translation point from store errors to
// transport responses. Nothing is swallowed: anything unrecognized
// surfaces as a 500.
func respondStoreError(ctx *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, user.ErrNotFound), errors.Is(err, post.ErrNotFound):
		RespondNotFound(ctx, notFoundMsg)
	case errors.Is(err, user.ErrEmailTaken):
		RespondConflict(ctx, "email_taken", "Email is already in use.")
	case errors.Is(err, user.ErrUsernameTaken):
		RespondConflict(ctx, "username_taken", "Username is already in use.")
	case errors.Is(err, postgres.ErrUnavailable):
		RespondUnavailable(ctx, "Storage temporarily unavailable, retry shortly.")
	default:
		RespondInternal(ctx, "Unexpected storage error")
	}
}

// respondDenied maps a gate denial onto 403 with the matching code.
func respondDenied(ctx *gin.Context, d authz.Decision) {
	switch d.Reason {
	case authz.DenyInactive:
		RespondForbidden(ctx, "inactive", "Account is inactive.")
	case authz.DenyNotOwner:
		RespondForbidden(ctx, "not_owner", "Not the owner of this resource.")
	default:
		RespondForbidden(ctx, "forbidden", "Not enough permissions.")
	}
}
