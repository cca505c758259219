package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/bloghub/internal/authz"
	"github.com/geocoder89/bloghub/internal/domain/post"
	"github.com/geocoder89/bloghub/internal/domain/user"
	"github.com/geocoder89/bloghub/internal/http/middlewares"
	"github.com/geocoder89/bloghub/internal/jobs"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake repository implementations of the handler store interfaces

type fakeUsersRepo struct {
	createFn        func(ctx context.Context, u user.User) (user.User, error)
	getFn           func(ctx context.Context, id string) (user.User, error)
	getByUsernameFn func(ctx context.Context, username string) (user.User, error)
	listFn          func(ctx context.Context, f user.ListUsersFilter) ([]user.User, int, error)
	updateFn        func(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error)
	deleteFn        func(ctx context.Context, id string) error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return user.User{}, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	if f.getByUsernameFn != nil {
		return f.getByUsernameFn(ctx, username)
	}
	return user.User{}, nil
}

func (f *fakeUsersRepo) List(ctx context.Context, filter user.ListUsersFilter) ([]user.User, int, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return user.User{}, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakePostsRepo struct {
	createFn func(ctx context.Context, p post.Post) (post.Post, error)
	getFn    func(ctx context.Context, id string) (post.Post, error)
	listFn   func(ctx context.Context, f post.ListPostsFilter) ([]post.Post, int, error)
	updateFn func(ctx context.Context, id string, req post.UpdatePostRequest) (post.Post, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakePostsRepo) Create(ctx context.Context, p post.Post) (post.Post, error) {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return p, nil
}

func (f *fakePostsRepo) GetByID(ctx context.Context, id string) (post.Post, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return post.Post{}, nil
}

func (f *fakePostsRepo) List(ctx context.Context, filter post.ListPostsFilter) ([]post.Post, int, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakePostsRepo) Update(ctx context.Context, id string, req post.UpdatePostRequest) (post.Post, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return post.Post{}, nil
}

func (f *fakePostsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

// fakeEnqueuer records jobs instead of touching redis.
type fakeEnqueuer struct {
	jobs []jobs.Job
	err  error
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, j jobs.Job) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, j)
	return nil
}

// identityMiddleware injects a resolved caller the way RequireAuth would.
func identityMiddleware(u user.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.CtxIdentity, authz.Identity{
			UserID: u.ID,
			Active: u.Active,
			Admin:  u.Admin,
		})
		c.Set(middlewares.CtxUser, u)
		c.Next()
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func doConditionalGet(t *testing.T, r *gin.Engine, path, etag string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("If-None-Match", etag)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, w, &resp)

	return resp.Error.Code
}
