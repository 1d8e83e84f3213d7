package service

import (
	"context"

	"github.com/google/uuid"

	"user-management-api/internal/model"
)

// UserStore is the persistence surface the services need. The pgx-backed
// repository satisfies it in production; tests use an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, u model.User, decide func(existingCount int) (model.Role, bool)) (model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	RecordFailedAttempt(ctx context.Context, id uuid.UUID, maxAttempts int) (model.User, error)
	RecordSuccessfulAttempt(ctx context.Context, id uuid.UUID) (model.User, error)
	Unlock(ctx context.Context, id uuid.UUID) (model.User, error)
	UpdateProfile(ctx context.Context, u model.User) (model.User, error)
	List(ctx context.Context, skip int, limit int) ([]model.User, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type GuestStore interface {
	Create(ctx context.Context, g model.Guest) (model.Guest, error)
	FindByID(ctx context.Context, id string) (model.Guest, error)
	List(ctx context.Context, skip int, limit int) ([]model.Guest, int, error)
	Update(ctx context.Context, g model.Guest) (model.Guest, error)
	Delete(ctx context.Context, id string) error
}
