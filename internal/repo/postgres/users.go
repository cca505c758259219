package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/bloghub/internal/domain/user"
	"github.com/geocoder89/bloghub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const userColumns = `id, username, email, full_name, password_hash, is_active, is_admin, created_at, updated_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FullName,
		&u.PasswordHash,
		&u.Active,
		&u.Admin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

// mapUserWriteErr translates unique violations into the domain sentinels.
func mapUserWriteErr(err error) error {
	switch uniqueConstraint(err) {
	case "users_email_key":
		return user.ErrEmailTaken
	case "users_username_key":
		return user.ErrUsernameTaken
	}

	if IsUniqueViolation(err) {
		// a unique index we did not anticipate; still a conflict
		return user.ErrEmailTaken
	}

	return wrapTransient(err)
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	err := r.observe("users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users(id, username, email, full_name, password_hash, is_active, is_admin, created_at, updated_at)
			 VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			u.ID, u.Username, u.Email, u.FullName, u.PasswordHash, u.Active, u.Admin, u.CreatedAt, u.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return user.User{}, mapUserWriteErr(err)
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := r.observe("users.get_by_id", func() error {
		var err error
		u, err = scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, wrapTransient(err)
	}
	return u, nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User
	err := r.observe("users.get_by_username", func() error {
		var err error
		u, err = scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, wrapTransient(err)
	}
	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := r.observe("users.get_by_email", func() error {
		var err error
		u, err = scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, wrapTransient(err)
	}
	return u, nil
}

func (r *UsersRepo) List(ctx context.Context, filter user.ListUsersFilter) ([]user.User, int, error) {
	output := make([]user.User, 0, filter.Limit)
	total := 0

	err := r.observe("users.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+userColumns+`, COUNT(*) OVER() AS total
			 FROM users
			 ORDER BY created_at ASC, id ASC
			 LIMIT $1 OFFSET $2`,
			filter.Limit, filter.Offset,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u user.User
			var t int

			err = rows.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash, &u.Active, &u.Admin, &u.CreatedAt, &u.UpdatedAt, &t)

			if err != nil {
				return err
			}

			total = t
			output = append(output, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, 0, wrapTransient(err)
	}

	return output, total, nil
}

func (r *UsersRepo) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error) {
	var u user.User

	err := r.observe("users.update", func() error {
		var err error
		u, err = scanUser(r.pool.QueryRow(ctx,
			`UPDATE users
			 SET username = COALESCE($2, username),
			     email = COALESCE($3, email),
			     full_name = COALESCE($4, full_name),
			     is_active = COALESCE($5, is_active),
			     password_hash = COALESCE($6, password_hash),
			     updated_at = NOW()
			 WHERE id = $1
			 RETURNING `+userColumns,
			id, req.Username, req.Email, req.FullName, req.Active, req.PasswordHash,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, mapUserWriteErr(err)
	}

	return u, nil
}

// Delete removes the user; their posts go with them via ON DELETE CASCADE.
func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("users.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)

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
		return user.ErrNotFound
	}

	return nil
}
