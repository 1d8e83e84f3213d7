package service

import (
	"context"

	"github.com/google/uuid"

	"user-management-api/internal/model"
)

// AccountPolicy owns role assignment at registration and the lockout state
// machine. All mutations go through the store so lock transitions survive
// concurrent logins.
type AccountPolicy struct {
	users       UserStore
	maxAttempts int
}

func NewAccountPolicy(users UserStore, maxAttempts int) *AccountPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	return &AccountPolicy{users: users, maxAttempts: maxAttempts}
}

// DecideRole implements the first-registrant-admin policy. The count must be
// taken inside the same unit of work as the insert; see UserStore.Create.
func (p *AccountPolicy) DecideRole(existingUserCount int) model.Role {
	if existingUserCount == 0 {
		return model.RoleAdmin
	}
	return model.RoleUser
}

// DecideInitialVerification auto-verifies the administrator; everyone else
// starts unverified until a separate verification flow runs.
func (p *AccountPolicy) DecideInitialVerification(role model.Role) bool {
	return role == model.RoleAdmin
}

func (p *AccountPolicy) IsLocked(u model.User) bool {
	return u.IsLocked
}

func (p *AccountPolicy) RecordFailedAttempt(ctx context.Context, id uuid.UUID) (model.User, error) {
	return p.users.RecordFailedAttempt(ctx, id, p.maxAttempts)
}

func (p *AccountPolicy) RecordSuccessfulAttempt(ctx context.Context, id uuid.UUID) (model.User, error) {
	return p.users.RecordSuccessfulAttempt(ctx, id)
}

// Unlock clears the lock flag and resets the counter. This is an explicit
// administrative action; lockout never expires on its own.
func (p *AccountPolicy) Unlock(ctx context.Context, id uuid.UUID) (model.User, error) {
	return p.users.Unlock(ctx, id)
}
