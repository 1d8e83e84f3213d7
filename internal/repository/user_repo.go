package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"user-management-api/internal/model"
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
)

const userColumns = `id, email, nickname, first_name, last_name, hashed_password, role,
	        email_verified, failed_login_attempts, is_locked, last_login_at, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user. The row count read and the insert run inside one
// serializable transaction so that two concurrent first registrations cannot
// both be decided into the admin role; decide receives the count observed by
// this transaction. The unique index on email remains the backstop for the
// check-then-insert race and surfaces as ErrDuplicateEmail.
func (r *UserRepository) Create(ctx context.Context, u model.User, decide func(existingCount int) (model.Role, bool)) (model.User, error) {
	var created model.User

	// A losing serializable transaction aborts with a serialization failure;
	// one retry is enough because the rerun observes the committed count.
	for attempt := 0; attempt < 2; attempt++ {
		var err error
		created, err = r.createOnce(ctx, u, decide)
		if err == nil {
			return created, nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgSerializationFailure && attempt == 0 {
			continue
		}

		return model.User{}, err
	}

	return created, nil
}

func (r *UserRepository) createOnce(ctx context.Context, u model.User, decide func(existingCount int) (model.Role, bool)) (model.User, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return model.User{}, fmt.Errorf("begin create user tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return model.User{}, fmt.Errorf("count users: %w", err)
	}

	u.Role, u.EmailVerified = decide(count)

	row := tx.QueryRow(ctx,
		`INSERT INTO users (id, email, nickname, first_name, last_name, hashed_password, role, email_verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		 RETURNING `+userColumns,
		u.ID, u.Email, u.Nickname, u.FirstName, u.LastName, u.HashedPassword, u.Role, u.EmailVerified)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "nickname") {
				return model.User{}, model.ErrDuplicateNickname
			}
			return model.User{}, model.ErrDuplicateEmail
		}
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.User{}, fmt.Errorf("commit create user tx: %w", err)
	}

	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// RecordFailedAttempt bumps the failed-login counter and trips the lock flag
// at the threshold, all in a single UPDATE. SQL-side arithmetic keeps
// concurrent failures from losing the locked transition to interleaving.
func (r *UserRepository) RecordFailedAttempt(ctx context.Context, id uuid.UUID, maxAttempts int) (model.User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET failed_login_attempts = failed_login_attempts + 1,
		     is_locked = is_locked OR failed_login_attempts + 1 >= $2,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, maxAttempts)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("record failed attempt: %w", err)
	}
	return u, nil
}

// RecordSuccessfulAttempt resets the counter and stamps the login time. It
// never touches is_locked: a locked account stays locked until an explicit
// unlock.
func (r *UserRepository) RecordSuccessfulAttempt(ctx context.Context, id uuid.UUID) (model.User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET failed_login_attempts = 0,
		     last_login_at = now(),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("record successful attempt: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Unlock(ctx context.Context, id uuid.UUID) (model.User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET is_locked = false,
		     failed_login_attempts = 0,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("unlock user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u model.User) (model.User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET nickname = $2, first_name = $3, last_name = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		u.ID, u.Nickname, u.FirstName, u.LastName)

	updated, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return model.User{}, model.ErrDuplicateNickname
		}
		return model.User{}, fmt.Errorf("update user profile: %w", err)
	}
	return updated, nil
}

func (r *UserRepository) List(ctx context.Context, skip int, limit int) ([]model.User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at OFFSET $1 LIMIT $2`,
		skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	var lastLogin *time.Time
	err := row.Scan(&u.ID, &u.Email, &u.Nickname, &u.FirstName, &u.LastName,
		&u.HashedPassword, &u.Role, &u.EmailVerified, &u.FailedLoginAttempts,
		&u.IsLocked, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.LastLoginAt = lastLogin
	return u, nil
}
