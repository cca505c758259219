package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/geocoder89/bloghub/internal/domain/user"
)

// UsersRepo is an in-memory stand-in for the postgres users repo. Used by
// handler and integration tests; mirrors the same error contract,
// including cascading post deletion.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User
	posts *PostsRepo // cascade target, may be nil
}

func NewUsersRepo(posts *PostsRepo) *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
		posts: posts,
	}
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Email == u.Email {
			return user.User{}, user.ErrEmailTaken
		}
		if existing.Username == u.Username {
			return user.User{}, user.ErrUsernameTaken
		}
	}

	r.items[u.ID] = u
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) List(ctx context.Context, filter user.ListUsersFilter) ([]user.User, int, error) {
	r.mu.RLock()

	all := make([]user.User, 0, len(r.items))

	for _, u := range r.items {
		all = append(all, u)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	total := len(all)

	start := filter.Offset
	if start > total {
		start = total
	}

	end := start + filter.Limit
	if filter.Limit <= 0 || end > total {
		end = total
	}

	return all[start:end], total, nil
}

func (r *UsersRepo) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	if req.Email != nil && *req.Email != u.Email {
		for _, existing := range r.items {
			if existing.Email == *req.Email {
				return user.User{}, user.ErrEmailTaken
			}
		}
		u.Email = *req.Email
	}

	if req.Username != nil && *req.Username != u.Username {
		for _, existing := range r.items {
			if existing.Username == *req.Username {
				return user.User{}, user.ErrUsernameTaken
			}
		}
		u.Username = *req.Username
	}

	if req.FullName != nil {
		u.FullName = *req.FullName
	}

	if req.Active != nil {
		u.Active = *req.Active
	}

	if req.PasswordHash != nil {
		u.PasswordHash = *req.PasswordHash
	}

	u.UpdatedAt = time.Now().UTC()
	r.items[id] = u

	return u, nil
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()

	_, ok := r.items[id]

	if !ok {
		r.mu.Unlock()
		return user.ErrNotFound
	}

	delete(r.items, id)
	r.mu.Unlock()

	// same cascade the schema enforces in postgres
	if r.posts != nil {
		r.posts.DeleteByAuthor(ctx, id)
	}

	return nil
}
