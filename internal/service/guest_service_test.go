package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"user-management-api/internal/model"
)

var guestIDPattern = regexp.MustCompile(`^GUEST-\d{4}$`)

func TestNewGuestID(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		require.Regexp(t, guestIDPattern, NewGuestID())
	}
}

func TestGuestServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("creates guest with generated id", func(t *testing.T) {
		svc := NewGuestService(newFakeGuestStore())

		guest, err := svc.Create(context.Background(), model.GuestCreateRequest{
			Name:  "Grace Hopper",
			Email: "grace@example.com",
		})
		require.NoError(t, err)
		require.Regexp(t, guestIDPattern, guest.ID)
	})

	t.Run("retries on id collision", func(t *testing.T) {
		store := newFakeGuestStore()
		store.idConflicts = 2
		svc := NewGuestService(store)

		guest, err := svc.Create(context.Background(), model.GuestCreateRequest{
			Name:  "Retry Guest",
			Email: "retry@example.com",
		})
		require.NoError(t, err)
		require.Regexp(t, guestIDPattern, guest.ID)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		svc := NewGuestService(newFakeGuestStore())

		_, err := svc.Create(context.Background(), model.GuestCreateRequest{
			Name:  "   ",
			Email: "blank@example.com",
		})
		require.Error(t, err)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		svc := NewGuestService(newFakeGuestStore())

		_, err := svc.Create(context.Background(), model.GuestCreateRequest{
			Name:  "Bad Email",
			Email: "nope",
		})
		require.Error(t, err)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc := NewGuestService(newFakeGuestStore())

		_, err := svc.Create(context.Background(), model.GuestCreateRequest{
			Name:  "First",
			Email: "dup@example.com",
		})
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), model.GuestCreateRequest{
			Name:  "Second",
			Email: "dup@example.com",
		})
		require.ErrorIs(t, err, model.ErrDuplicateGuestEmail)
	})
}

func TestGuestServiceUpdate(t *testing.T) {
	t.Parallel()

	svc := NewGuestService(newFakeGuestStore())

	created, err := svc.Create(context.Background(), model.GuestCreateRequest{
		Name:  "Before",
		Email: "update@example.com",
	})
	require.NoError(t, err)

	name := "After"
	phone := "+1 555 0100"
	updated, err := svc.Update(context.Background(), created.ID, model.GuestUpdateRequest{
		Name:  &name,
		Phone: &phone,
	})
	require.NoError(t, err)
	require.Equal(t, "After", updated.Name)
	require.Equal(t, "update@example.com", updated.Email)
	require.Equal(t, "+1 555 0100", *updated.Phone)

	t.Run("unknown id maps to not found", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "GUEST-0000", model.GuestUpdateRequest{})
		require.ErrorIs(t, err, model.ErrGuestNotFound)
	})
}
