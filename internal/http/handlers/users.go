package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/bloghub/internal/authz"
	"github.com/geocoder89/bloghub/internal/config"
	"github.com/geocoder89/bloghub/internal/domain/user"
	"github.com/geocoder89/bloghub/internal/http/middlewares"
	"github.com/geocoder89/bloghub/internal/jobs"
	"github.com/geocoder89/bloghub/internal/security"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	List(ctx context.Context, f user.ListUsersFilter) ([]user.User, int, error)
	Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error)
	Delete(ctx context.Context, id string) error
}

// JobEnqueuer hands work to the notification pipeline. Enqueue failures
// never fail the request that produced them.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, j jobs.Job) error
}

type UsersHandler struct {
	store    UserStore
	enqueuer JobEnqueuer
}

func NewUsersHandler(store UserStore, enqueuer JobEnqueuer) *UsersHandler {
	return &UsersHandler{
		store:    store,
		enqueuer: enqueuer,
	}
}

type listUsersResponse struct {
	Items []user.User `json:"items"`
	Total int         `json:"total"`
}

// Create registers a new account. The route is public; accounts start
// active and without admin rights.
func (h *UsersHandler) Create(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not process password")
		return
	}

	newUser := user.NewFromCreateRequest(req, hash)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	created, err := h.store.Create(cctx, newUser)

	if err != nil {
		respondStoreError(ctx, err, "User not found")
		return
	}

	h.enqueueWelcome(ctx, created)

	ctx.JSON(http.StatusCreated, created)
}

// List is admin-only.
func (h *UsersHandler) List(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	if d := authz.Authorize(identity, authz.ActionUserList, ""); !d.Allowed {
		respondDenied(ctx, d)
		return
	}

	limit, offset, ok := paginationParams(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, total, err := h.store.List(cctx, user.ListUsersFilter{Limit: limit, Offset: offset})

	if err != nil {
		respondStoreError(ctx, err, "User not found")
		return
	}

	ctx.JSON(http.StatusOK, listUsersResponse{Items: items, Total: total})
}

// Get returns a single user. Non-admins can only read themselves; the
// gate runs before the lookup so foreign IDs reveal nothing.
func (h *UsersHandler) Get(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	targetID := ctx.Param("id")

	if d := authz.Authorize(identity, authz.ActionUserRead, targetID); !d.Allowed {
		respondDenied(ctx, d)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	found, err := h.store.GetByID(cctx, targetID)

	if err != nil {
		respondStoreError(ctx, err, "User not found")
		return
	}

	ctx.JSON(http.StatusOK, found)
}

func (h *UsersHandler) Update(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	targetID := ctx.Param("id")

	if d := authz.Authorize(identity, authz.ActionUserUpdate, targetID); !d.Allowed {
		respondDenied(ctx, d)
		return
	}

	var req user.UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password)

		if err != nil {
			RespondInternal(ctx, "Could not process password")
			return
		}

		req.PasswordHash = &hash
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	updated, err := h.store.Update(cctx, targetID, req)

	if err != nil {
		respondStoreError(ctx, err, "User not found")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// Delete is admin-only. Removing a user also removes their posts.
func (h *UsersHandler) Delete(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	targetID := ctx.Param("id")

	if d := authz.Authorize(identity, authz.ActionUserDelete, targetID); !d.Allowed {
		respondDenied(ctx, d)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if err := h.store.Delete(cctx, targetID); err != nil {
		respondStoreError(ctx, err, "User not found")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (h *UsersHandler) enqueueWelcome(ctx *gin.Context, created user.User) {
	if h.enqueuer == nil {
		return
	}

	payload, err := jobs.EncodePayload(jobs.JobUserWelcome, jobs.UserWelcomePayload{
		UserID:    created.ID,
		Username:  created.Username,
		Email:     created.Email,
		RequestID: ctx.GetString(middlewares.CtxRequestID),
	})

	if err != nil {
		slog.Default().WarnContext(ctx.Request.Context(), "welcome job encode failed", slog.String("error", err.Error()))
		return
	}

	job, err := jobs.NewJob(jobs.JobUserWelcome, payload)

	if err != nil {
		slog.Default().WarnContext(ctx.Request.Context(), "welcome job build failed", slog.String("error", err.Error()))
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if err := h.enqueuer.Enqueue(cctx, job); err != nil {
		slog.Default().WarnContext(ctx.Request.Context(), "welcome job enqueue failed",
			slog.String("user_id", created.ID),
			slog.String("error", err.Error()),
		)
	}
}
