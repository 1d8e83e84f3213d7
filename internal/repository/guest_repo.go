package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"user-management-api/internal/model"
)

const guestColumns = `id, name, email, phone, created_at, updated_at`

type GuestRepository struct {
	pool *pgxpool.Pool
}

func NewGuestRepository(pool *pgxpool.Pool) *GuestRepository {
	return &GuestRepository{pool: pool}
}

func (r *GuestRepository) Create(ctx context.Context, g model.Guest) (model.Guest, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO guests (id, name, email, phone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 RETURNING `+guestColumns,
		g.ID, g.Name, g.Email, g.Phone)

	created, err := scanGuest(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return model.Guest{}, model.ErrDuplicateGuestEmail
			}
			// Generated GUEST-NNNN ids can collide; the caller retries.
			return model.Guest{}, model.ErrGuestIDConflict
		}
		return model.Guest{}, fmt.Errorf("create guest: %w", err)
	}
	return created, nil
}

func (r *GuestRepository) FindByID(ctx context.Context, id string) (model.Guest, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+guestColumns+` FROM guests WHERE id = $1`, id)

	g, err := scanGuest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Guest{}, model.ErrGuestNotFound
	}
	if err != nil {
		return model.Guest{}, fmt.Errorf("find guest by id: %w", err)
	}
	return g, nil
}

func (r *GuestRepository) List(ctx context.Context, skip int, limit int) ([]model.Guest, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM guests`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count guests: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+guestColumns+` FROM guests ORDER BY created_at OFFSET $1 LIMIT $2`,
		skip, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list guests: %w", err)
	}
	defer rows.Close()

	guests := make([]model.Guest, 0)
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan guest: %w", err)
		}
		guests = append(guests, g)
	}
	return guests, total, rows.Err()
}

func (r *GuestRepository) Update(ctx context.Context, g model.Guest) (model.Guest, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE guests
		 SET name = $2, email = $3, phone = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+guestColumns,
		g.ID, g.Name, g.Email, g.Phone)

	updated, err := scanGuest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Guest{}, model.ErrGuestNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return model.Guest{}, model.ErrDuplicateGuestEmail
		}
		return model.Guest{}, fmt.Errorf("update guest: %w", err)
	}
	return updated, nil
}

func (r *GuestRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrGuestNotFound
	}
	return nil
}

func scanGuest(row pgx.Row) (model.Guest, error) {
	var g model.Guest
	err := row.Scan(&g.ID, &g.Name, &g.Email, &g.Phone, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return model.Guest{}, err
	}
	return g, nil
}
