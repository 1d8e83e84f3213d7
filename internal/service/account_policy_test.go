package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"user-management-api/internal/model"
)

func TestDecideRole(t *testing.T) {
	t.Parallel()

	policy := NewAccountPolicy(newFakeUserStore(), testMaxAttempts)

	require.Equal(t, model.RoleAdmin, policy.DecideRole(0))
	require.Equal(t, model.RoleUser, policy.DecideRole(1))
	require.Equal(t, model.RoleUser, policy.DecideRole(100))
}

func TestDecideInitialVerification(t *testing.T) {
	t.Parallel()

	policy := NewAccountPolicy(newFakeUserStore(), testMaxAttempts)

	require.True(t, policy.DecideInitialVerification(model.RoleAdmin))
	require.False(t, policy.DecideInitialVerification(model.RoleUser))
}

func TestIsLocked(t *testing.T) {
	t.Parallel()

	policy := NewAccountPolicy(newFakeUserStore(), testMaxAttempts)

	require.False(t, policy.IsLocked(model.User{}))
	require.True(t, policy.IsLocked(model.User{IsLocked: true}))
}
