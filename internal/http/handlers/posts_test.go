package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/geocoder89/bloghub/internal/cache"
	"github.com/geocoder89/bloghub/internal/domain/post"
	"github.com/geocoder89/bloghub/internal/http/handlers"
	"github.com/geocoder89/bloghub/internal/jobs"
	"github.com/gin-gonic/gin"
)

func TestCreatePost_SetsAuthorFromCaller(t *testing.T) {
	var stored post.Post

	posts := &fakePostsRepo{
		createFn: func(ctx context.Context, p post.Post) (post.Post, error) {
			stored = p
			return p, nil
		},
	}

	h := handlers.NewPostsHandler(posts, nil, nil)

	r := gin.New()
	r.POST("/posts", identityMiddleware(activeUser("u1")), h.Create)

	w := doJSON(t, r, http.MethodPost, "/posts", gin.H{
		"title": "First post",
		"body":  "hello world",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	if stored.AuthorID != "u1" {
		t.Fatalf("authorId = %q, want u1", stored.AuthorID)
	}
	if stored.ID == "" {
		t.Fatalf("expected generated id")
	}
}

func TestCreatePost_InactiveCallerDenied(t *testing.T) {
	called := false

	posts := &fakePostsRepo{
		createFn: func(ctx context.Context, p post.Post) (post.Post, error) {
			called = true
			return p, nil
		},
	}

	h := handlers.NewPostsHandler(posts, nil, nil)

	inactive := activeUser("u1")
	inactive.Active = false

	r := gin.New()
	r.POST("/posts", identityMiddleware(inactive), h.Create)

	w := doJSON(t, r, http.MethodPost, "/posts", gin.H{"title": "x"})

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if code := errorCode(t, w); code != "inactive" {
		t.Fatalf("code = %q", code)
	}
	if called {
		t.Fatalf("store must not be touched on deny")
	}
}

func TestCreatePost_PublishedEnqueuesJob(t *testing.T) {
	posts := &fakePostsRepo{}
	enqueuer := &fakeEnqueuer{}

	h := handlers.NewPostsHandler(posts, enqueuer, nil)

	r := gin.New()
	r.POST("/posts", identityMiddleware(activeUser("u1")), h.Create)

	// draft first: no job
	w := doJSON(t, r, http.MethodPost, "/posts", gin.H{"title": "draft"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	if len(enqueuer.jobs) != 0 {
		t.Fatalf("draft must not enqueue, got %+v", enqueuer.jobs)
	}

	w = doJSON(t, r, http.MethodPost, "/posts", gin.H{"title": "live", "published": true})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	if len(enqueuer.jobs) != 1 || enqueuer.jobs[0].Type != jobs.JobPostPublished {
		t.Fatalf("expected one publish job, got %+v", enqueuer.jobs)
	}
}

func TestUpdatePost_OwnershipGate(t *testing.T) {
	existing := post.Post{ID: "p1", Title: "old", AuthorID: "u1"}

	tests := []struct {
		name       string
		callerID   string
		admin      bool
		wantStatus int
	}{
		{"owner updates", "u1", false, http.StatusOK},
		{"stranger denied", "u2", false, http.StatusForbidden},
		{"admin updates", "a1", true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := false

			posts := &fakePostsRepo{
				getFn: func(ctx context.Context, id string) (post.Post, error) {
					return existing, nil
				},
				updateFn: func(ctx context.Context, id string, req post.UpdatePostRequest) (post.Post, error) {
					updated = true
					p := existing
					if req.Title != nil {
						p.Title = *req.Title
					}
					return p, nil
				},
			}

			h := handlers.NewPostsHandler(posts, nil, nil)

			caller := activeUser(tt.callerID)
			caller.Admin = tt.admin

			r := gin.New()
			r.PUT("/posts/:id", identityMiddleware(caller), h.Update)

			w := doJSON(t, r, http.MethodPut, "/posts/p1", gin.H{"title": "new"})

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusForbidden && updated {
				t.Fatalf("store must not be touched on deny")
			}
		})
	}
}

func TestUpdatePost_MissingIs404BeforePermission(t *testing.T) {
	posts := &fakePostsRepo{
		getFn: func(ctx context.Context, id string) (post.Post, error) {
			return post.Post{}, post.ErrNotFound
		},
	}

	h := handlers.NewPostsHandler(posts, nil, nil)

	r := gin.New()
	r.PUT("/posts/:id", identityMiddleware(activeUser("u2")), h.Update)

	w := doJSON(t, r, http.MethodPut, "/posts/nope", gin.H{"title": "new"})

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestUpdatePost_PublishTransitionEnqueues(t *testing.T) {
	existing := post.Post{ID: "p1", Title: "draft", AuthorID: "u1", Published: false}

	posts := &fakePostsRepo{
		getFn: func(ctx context.Context, id string) (post.Post, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, id string, req post.UpdatePostRequest) (post.Post, error) {
			p := existing
			if req.Published != nil {
				p.Published = *req.Published
			}
			return p, nil
		},
	}
	enqueuer := &fakeEnqueuer{}

	h := handlers.NewPostsHandler(posts, enqueuer, nil)

	r := gin.New()
	r.PUT("/posts/:id", identityMiddleware(activeUser("u1")), h.Update)

	w := doJSON(t, r, http.MethodPut, "/posts/p1", gin.H{"published": true})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(enqueuer.jobs) != 1 || enqueuer.jobs[0].Type != jobs.JobPostPublished {
		t.Fatalf("expected publish job on transition, got %+v", enqueuer.jobs)
	}
}

func TestDeletePost_OwnerAllowed(t *testing.T) {
	deleted := ""

	posts := &fakePostsRepo{
		getFn: func(ctx context.Context, id string) (post.Post, error) {
			return post.Post{ID: id, AuthorID: "u1"}, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	h := handlers.NewPostsHandler(posts, nil, nil)

	r := gin.New()
	r.DELETE("/posts/:id", identityMiddleware(activeUser("u1")), h.Delete)

	w := doJSON(t, r, http.MethodDelete, "/posts/p1", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if deleted != "p1" {
		t.Fatalf("deleted = %q", deleted)
	}
}

func TestListPosts_CacheAndETag(t *testing.T) {
	listCalls := 0

	posts := &fakePostsRepo{
		listFn: func(ctx context.Context, f post.ListPostsFilter) ([]post.Post, int, error) {
			listCalls++
			return []post.Post{{ID: "p1", Title: "hello", AuthorID: "u1", Published: true}}, 1, nil
		},
	}

	h := handlers.NewPostsHandler(posts, nil, cache.New[handlers.ListPostsResponse](time.Minute))

	r := gin.New()
	r.GET("/posts", h.List)

	w := doJSON(t, r, http.MethodGet, "/posts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag header")
	}

	// second read is served from cache
	w = doJSON(t, r, http.MethodGet, "/posts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if listCalls != 1 {
		t.Fatalf("listCalls = %d, want 1 (cache hit expected)", listCalls)
	}

	// conditional read collapses to 304
	req := doConditionalGet(t, r, "/posts", etag)
	if req.Code != http.StatusNotModified {
		t.Fatalf("status = %d, want 304", req.Code)
	}
}

func TestListPosts_DefaultsToPublishedOnly(t *testing.T) {
	var gotFilter post.ListPostsFilter

	posts := &fakePostsRepo{
		listFn: func(ctx context.Context, f post.ListPostsFilter) ([]post.Post, int, error) {
			gotFilter = f
			return nil, 0, nil
		},
	}

	h := handlers.NewPostsHandler(posts, nil, nil)

	r := gin.New()
	r.GET("/posts", h.List)

	w := doJSON(t, r, http.MethodGet, "/posts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	if !gotFilter.PublishedOnly {
		t.Fatalf("default listing must be published-only")
	}
	if gotFilter.Limit != 20 || gotFilter.Offset != 0 {
		t.Fatalf("unexpected paging defaults: %+v", gotFilter)
	}
}

func TestListPosts_BadPagingParam(t *testing.T) {
	h := handlers.NewPostsHandler(&fakePostsRepo{}, nil, nil)

	r := gin.New()
	r.GET("/posts", h.List)

	w := doJSON(t, r, http.MethodGet, "/posts?limit=abc", nil)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}
