package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/geocoder89/bloghub/internal/domain/post"
)

type PostsRepo struct {
	mu    sync.RWMutex
	items map[string]post.Post
}

func NewPostsRepo() *PostsRepo {
	return &PostsRepo{
		items: make(map[string]post.Post),
	}
}

func (r *PostsRepo) Create(ctx context.Context, p post.Post) (post.Post, error) {
	r.mu.Lock()
	r.items[p.ID] = p
	r.mu.Unlock()

	return p, nil
}

func (r *PostsRepo) GetByID(ctx context.Context, id string) (post.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]

	if !ok {
		return post.Post{}, post.ErrNotFound
	}
	return p, nil
}

func (r *PostsRepo) List(ctx context.Context, filter post.ListPostsFilter) ([]post.Post, int, error) {
	r.mu.RLock()

	all := make([]post.Post, 0, len(r.items))

	for _, p := range r.items {
		if filter.PublishedOnly && !p.Published {
			continue
		}
		if filter.AuthorID != nil && p.AuthorID != *filter.AuthorID {
			continue
		}
		all = append(all, p)
	}
	r.mu.RUnlock()

	// newest first, matching the postgres ordering
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
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

func (r *PostsRepo) Update(ctx context.Context, id string, req post.UpdatePostRequest) (post.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]

	if !ok {
		return post.Post{}, post.ErrNotFound
	}

	if req.Title != nil {
		p.Title = *req.Title
	}

	if req.Body != nil {
		p.Body = *req.Body
	}

	if req.Published != nil {
		p.Published = *req.Published
	}

	p.UpdatedAt = time.Now().UTC()
	r.items[id] = p

	return p, nil
}

func (r *PostsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[id]

	if !ok {
		return post.ErrNotFound
	}

	delete(r.items, id)
	return nil
}

// DeleteByAuthor removes every post owned by the given user. Mirrors the
// ON DELETE CASCADE in the postgres schema.
func (r *PostsRepo) DeleteByAuthor(ctx context.Context, authorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.items {
		if p.AuthorID == authorID {
			delete(r.items, id)
		}
	}
}
