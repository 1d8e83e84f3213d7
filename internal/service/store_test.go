package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"user-management-api/internal/model"
)

// fakeUserStore is an in-memory UserStore. Create serializes the count read
// and the insert under one lock, mirroring the transactional guarantee the
// pgx repository provides.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, u model.User, decide func(existingCount int) (model.Role, bool)) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return model.User{}, model.ErrDuplicateEmail
		}
		if u.Nickname != nil && existing.Nickname != nil && *existing.Nickname == *u.Nickname {
			return model.User{}, model.ErrDuplicateNickname
		}
	}

	u.Role, u.EmailVerified = decide(len(s.users))
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	s.users[u.ID] = u
	return u, nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *fakeUserStore) RecordFailedAttempt(_ context.Context, id uuid.UUID, maxAttempts int) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}

	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		u.IsLocked = true
	}
	u.UpdatedAt = time.Now().UTC()

	s.users[id] = u
	return u, nil
}

func (s *fakeUserStore) RecordSuccessfulAttempt(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}

	now := time.Now().UTC()
	u.FailedLoginAttempts = 0
	u.LastLoginAt = &now
	u.UpdatedAt = now

	s.users[id] = u
	return u, nil
}

func (s *fakeUserStore) Unlock(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}

	u.IsLocked = false
	u.FailedLoginAttempts = 0
	u.UpdatedAt = time.Now().UTC()

	s.users[id] = u
	return u, nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, u model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[u.ID]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}

	current.Nickname = u.Nickname
	current.FirstName = u.FirstName
	current.LastName = u.LastName
	current.UpdatedAt = time.Now().UTC()

	s.users[u.ID] = current
	return current, nil
}

func (s *fakeUserStore) List(_ context.Context, skip int, limit int) ([]model.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}

	total := len(all)
	if skip >= total {
		return []model.User{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return all[skip:end], total, nil
}

func (s *fakeUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

type fakeGuestStore struct {
	mu          sync.Mutex
	guests      map[string]model.Guest
	idConflicts int
}

func newFakeGuestStore() *fakeGuestStore {
	return &fakeGuestStore{guests: map[string]model.Guest{}}
}

func (s *fakeGuestStore) Create(_ context.Context, g model.Guest) (model.Guest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idConflicts > 0 {
		s.idConflicts--
		return model.Guest{}, model.ErrGuestIDConflict
	}

	for _, existing := range s.guests {
		if existing.Email == g.Email {
			return model.Guest{}, model.ErrDuplicateGuestEmail
		}
	}

	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	s.guests[g.ID] = g
	return g, nil
}

func (s *fakeGuestStore) FindByID(_ context.Context, id string) (model.Guest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.guests[id]
	if !ok {
		return model.Guest{}, model.ErrGuestNotFound
	}
	return g, nil
}

func (s *fakeGuestStore) List(_ context.Context, skip int, limit int) ([]model.Guest, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]model.Guest, 0, len(s.guests))
	for _, g := range s.guests {
		all = append(all, g)
	}

	total := len(all)
	if skip >= total {
		return []model.Guest{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return all[skip:end], total, nil
}

func (s *fakeGuestStore) Update(_ context.Context, g model.Guest) (model.Guest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.guests[g.ID]; !ok {
		return model.Guest{}, model.ErrGuestNotFound
	}

	g.UpdatedAt = time.Now().UTC()
	s.guests[g.ID] = g
	return g, nil
}

func (s *fakeGuestStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.guests[id]; !ok {
		return model.ErrGuestNotFound
	}
	delete(s.guests, id)
	return nil
}
