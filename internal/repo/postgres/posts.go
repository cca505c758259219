package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/bloghub/internal/domain/post"
	"github.com/geocoder89/bloghub/internal/domain/user"
	"github.com/geocoder89/bloghub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPostsRepo(pool *pgxpool.Pool, prom *observability.Prom) *PostsRepo {
	return &PostsRepo{pool: pool, prom: prom}
}

func (r *PostsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const postColumns = `id, title, body, published, author_id, created_at, updated_at`

func scanPost(row pgx.Row) (post.Post, error) {
	var p post.Post

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Body,
		&p.Published,
		&p.AuthorID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	return p, err
}

func (r *PostsRepo) Create(ctx context.Context, p post.Post) (post.Post, error) {
	err := r.observe("posts.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO posts(id, title, body, published, author_id, created_at, updated_at)
			 VALUES($1,$2,$3,$4,$5,$6,$7)`,
			p.ID, p.Title, p.Body, p.Published, p.AuthorID, p.CreatedAt, p.UpdatedAt,
		)
		return err
	})

	if err != nil {
		// the author FK is the only reference a post carries
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return post.Post{}, user.ErrNotFound
		}
		return post.Post{}, wrapTransient(err)
	}

	return p, nil
}

func (r *PostsRepo) GetByID(ctx context.Context, id string) (post.Post, error) {
	var p post.Post

	err := r.observe("posts.get_by_id", func() error {
		var err error
		p, err = scanPost(r.pool.QueryRow(ctx,
			`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post.Post{}, post.ErrNotFound
		}
		return post.Post{}, wrapTransient(err)
	}

	return p, nil
}

func (r *PostsRepo) List(ctx context.Context, filter post.ListPostsFilter) ([]post.Post, int, error) {
	baseQuery := `SELECT ` + postColumns + `, COUNT(*) OVER() AS total FROM posts`

	var conds []string
	var args []interface{}

	argsPosition := 1

	if filter.PublishedOnly {
		conds = append(conds, "published = TRUE")
	}

	if filter.AuthorID != nil {
		conds = append(conds, fmt.Sprintf("author_id = $%d", argsPosition))
		args = append(args, *filter.AuthorID)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering for pagination
	query += fmt.Sprintf(" ORDER BY created_at DESC, id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	args = append(args, filter.Limit, filter.Offset)

	output := make([]post.Post, 0, filter.Limit)
	total := 0

	err := r.observe("posts.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var p post.Post
			var t int

			err = rows.Scan(&p.ID, &p.Title, &p.Body, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt, &t)

			if err != nil {
				return err
			}

			total = t
			output = append(output, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, 0, wrapTransient(err)
	}

	return output, total, nil
}

func (r *PostsRepo) Update(ctx context.Context, id string, req post.UpdatePostRequest) (post.Post, error) {
	var p post.Post

	err := r.observe("posts.update", func() error {
		var err error
		p, err = scanPost(r.pool.QueryRow(ctx,
			`UPDATE posts
			 SET title = COALESCE($2, title),
			     body = COALESCE($3, body),
			     published = COALESCE($4, published),
			     updated_at = NOW()
			 WHERE id = $1
			 RETURNING `+postColumns,
			id, req.Title, req.Body, req.Published,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post.Post{}, post.ErrNotFound
		}
		return post.Post{}, wrapTransient(err)
	}

	return p, nil
}

func (r *PostsRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("posts.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)

		if err != nil {
			return err
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return wrapTransient(err)
	}

	if affected == 0 {
		return post.ErrNotFound
	}

	return nil
}
