package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/bloghub/internal/authz"
	"github.com/geocoder89/bloghub/internal/cache"
	"github.com/geocoder89/bloghub/internal/config"
	"github.com/geocoder89/bloghub/internal/domain/post"
	"github.com/geocoder89/bloghub/internal/http/middlewares"
	"github.com/geocoder89/bloghub/internal/jobs"
	"github.com/geocoder89/bloghub/internal/utils"
	"github.com/gin-gonic/gin"
)

type PostStore interface {
	Create(ctx context.Context, p post.Post) (post.Post, error)
	GetByID(ctx context.Context, id string) (post.Post, error)
	List(ctx context.Context, f post.ListPostsFilter) ([]post.Post, int, error)
	Update(ctx context.Context, id string, req post.UpdatePostRequest) (post.Post, error)
	Delete(ctx context.Context, id string) error
}

type ListPostsResponse struct {
	Items []post.Post `json:"items"`
	Total int         `json:"total"`
}

type PostsHandler struct {
	store    PostStore
	enqueuer JobEnqueuer
	listings *cache.Cache[ListPostsResponse]
}

func NewPostsHandler(store PostStore, enqueuer JobEnqueuer, listings *cache.Cache[ListPostsResponse]) *PostsHandler {
	return &PostsHandler{
		store:    store,
		enqueuer: enqueuer,
		listings: listings,
	}
}

// Create adds a post owned by the caller. Inactive accounts are rejected
// before anything touches the store.
func (h *PostsHandler) Create(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	if d := authz.Authorize(identity, authz.ActionPostCreate, identity.UserID); !d.Allowed {
		respondDenied(ctx, d)
		return
	}

	var req post.CreatePostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	newPost := post.NewFromCreateRequest(req, identity.UserID)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	created, err := h.store.Create(cctx, newPost)

	if err != nil {
		respondStoreError(ctx, err, "Post not found")
		return
	}

	h.invalidateListings()

	if created.Published {
		h.enqueuePublished(ctx, created)
	}

	ctx.JSON(http.StatusCreated, created)
}

// List is public. By default only published posts are visible; results
// are cached briefly and served with an ETag.
func (h *PostsHandler) List(ctx *gin.Context) {
	publishedOnly, ok := boolQuery(ctx, "publishedOnly", true)
	if !ok {
		return
	}

	limit, offset, ok := paginationParams(ctx)
	if !ok {
		return
	}

	var authorID *string
	if raw := ctx.Query("authorId"); raw != "" {
		authorID = &raw
	}

	key := utils.BuildPostsListCacheKey(publishedOnly, authorID, limit, offset)

	if h.listings != nil {
		if cached, hit := h.listings.Get(key); hit {
			RespondJSONWithETag(ctx, http.StatusOK, cached)
			return
		}
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, total, err := h.store.List(cctx, post.ListPostsFilter{
		PublishedOnly: publishedOnly,
		AuthorID:      authorID,
		Limit:         limit,
		Offset:        offset,
	})

	if err != nil {
		respondStoreError(ctx, err, "Post not found")
		return
	}

	resp := ListPostsResponse{Items: items, Total: total}

	if h.listings != nil {
		h.listings.Set(key, resp)
	}

	RespondJSONWithETag(ctx, http.StatusOK, resp)
}

// Get is public and serves unpublished posts too; knowing the ID is the
// same capability the author link gives.
func (h *PostsHandler) Get(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	found, err := h.store.GetByID(cctx, ctx.Param("id"))

	if err != nil {
		respondStoreError(ctx, err, "Post not found")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, found)
}

// Update loads the post first so ownership can be checked; a missing
// post is a 404 before any permission verdict.
func (h *PostsHandler) Update(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	postID := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	existing, err := h.store.GetByID(cctx, postID)

	if err != nil {
		respondStoreError(ctx, err, "Post not found")
		return
	}

	if d := authz.Authorize(identity, authz.ActionPostUpdate, existing.AuthorID); !d.Allowed {
		respondDenied(ctx, d)
		return
	}

	var req post.UpdatePostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	updated, err := h.store.Update(cctx, postID, req)

	if err != nil {
		respondStoreError(ctx, err, "Post not found")
		return
	}

	h.invalidateListings()

	if !existing.Published && updated.Published {
		h.enqueuePublished(ctx, updated)
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *PostsHandler) Delete(ctx *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	postID := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	existing, err := h.store.GetByID(cctx, postID)

	if err != nil {
		respondStoreError(ctx, err, "Post not found")
		return
	}

	if d := authz.Authorize(identity, authz.ActionPostDelete, existing.AuthorID); !d.Allowed {
		respondDenied(ctx, d)
		return
	}

	if err := h.store.Delete(cctx, postID); err != nil {
		respondStoreError(ctx, err, "Post not found")
		return
	}

	h.invalidateListings()

	ctx.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (h *PostsHandler) invalidateListings() {
	if h.listings != nil {
		h.listings.Clear()
	}
}

func (h *PostsHandler) enqueuePublished(ctx *gin.Context, p post.Post) {
	if h.enqueuer == nil {
		return
	}

	payload, err := jobs.EncodePayload(jobs.JobPostPublished, jobs.PostPublishedPayload{
		PostID:    p.ID,
		Title:     p.Title,
		AuthorID:  p.AuthorID,
		RequestID: ctx.GetString(middlewares.CtxRequestID),
	})

	if err != nil {
		slog.Default().WarnContext(ctx.Request.Context(), "publish job encode failed", slog.String("error", err.Error()))
		return
	}

	job, err := jobs.NewJob(jobs.JobPostPublished, payload)

	if err != nil {
		slog.Default().WarnContext(ctx.Request.Context(), "publish job build failed", slog.String("error", err.Error()))
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if err := h.enqueuer.Enqueue(cctx, job); err != nil {
		slog.Default().WarnContext(ctx.Request.Context(), "publish job enqueue failed",
			slog.String("post_id", p.ID),
			slog.String("error", err.Error()),
		)
	}
}
