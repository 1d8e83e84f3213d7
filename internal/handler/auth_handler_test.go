package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"user-management-api/internal/middleware"
	"user-management-api/internal/model"
	"user-management-api/internal/security"
	"user-management-api/internal/service"
)

// memoryUserStore is just enough of a service.UserStore to drive the auth
// endpoints through httptest.
type memoryUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: map[uuid.UUID]model.User{}}
}

func (s *memoryUserStore) Create(_ context.Context, u model.User, decide func(int) (model.Role, bool)) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return model.User{}, model.ErrDuplicateEmail
		}
	}

	u.Role, u.EmailVerified = decide(len(s.users))
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = u
	return u, nil
}

func (s *memoryUserStore) FindByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *memoryUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memoryUserStore) RecordFailedAttempt(_ context.Context, id uuid.UUID, maxAttempts int) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users[id]
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		u.IsLocked = true
	}
	s.users[id] = u
	return u, nil
}

func (s *memoryUserStore) RecordSuccessfulAttempt(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users[id]
	now := time.Now().UTC()
	u.FailedLoginAttempts = 0
	u.LastLoginAt = &now
	s.users[id] = u
	return u, nil
}

func (s *memoryUserStore) Unlock(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.users[id]
	u.IsLocked = false
	u.FailedLoginAttempts = 0
	s.users[id] = u
	return u, nil
}

func (s *memoryUserStore) UpdateProfile(_ context.Context, u model.User) (model.User, error) {
	return u, nil
}

func (s *memoryUserStore) List(_ context.Context, _ int, _ int) ([]model.User, int, error) {
	return nil, 0, nil
}

func (s *memoryUserStore) Delete(_ context.Context, _ uuid.UUID) error {
	return nil
}

func newTestAuthHandler() *AuthHandler {
	store := newMemoryUserStore()
	codec := security.NewTokenCodec("test-secret", 15*time.Minute, 24*time.Hour)
	policy := service.NewAccountPolicy(store, 5)
	svc := service.NewAuthService(store, policy, codec, 4)
	return NewAuthHandler(svc, 15*time.Minute)
}

func postJSON(t *testing.T, h http.HandlerFunc, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func postForm(t *testing.T, h http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("creates the first user as admin", func(t *testing.T) {
		h := newTestAuthHandler()

		rec := postJSON(t, h.Register, "/auth/register",
			`{"email":"admin@example.com","password":"SecurePass123!"}`)

		require.Equal(t, http.StatusCreated, rec.Code)

		var body struct {
			Success bool       `json:"success"`
			Data    model.User `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.True(t, body.Success)
		require.Equal(t, model.RoleAdmin, body.Data.Role)
		require.True(t, body.Data.EmailVerified)
		require.NotContains(t, rec.Body.String(), "hashed_password")
	})

	t.Run("weak password is a 422 with the failed rules", func(t *testing.T) {
		h := newTestAuthHandler()

		rec := postJSON(t, h.Register, "/auth/register",
			`{"email":"weak@example.com","password":"short"}`)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.Contains(t, rec.Body.String(), "WEAK_PASSWORD")
	})

	t.Run("duplicate email is a 400", func(t *testing.T) {
		h := newTestAuthHandler()

		first := postJSON(t, h.Register, "/auth/register",
			`{"email":"dup@example.com","password":"SecurePass123!"}`)
		require.Equal(t, http.StatusCreated, first.Code)

		second := postJSON(t, h.Register, "/auth/register",
			`{"email":"dup@example.com","password":"SecurePass123!"}`)
		require.Equal(t, http.StatusBadRequest, second.Code)
		require.Contains(t, second.Body.String(), "DUPLICATE_EMAIL")
	})

	t.Run("malformed JSON is a 400", func(t *testing.T) {
		h := newTestAuthHandler()

		rec := postJSON(t, h.Register, "/auth/register", `{not json`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	registerUser := func(t *testing.T, h *AuthHandler, email string) {
		t.Helper()
		rec := postJSON(t, h.Register, "/auth/register",
			`{"email":"`+email+`","password":"SecurePass123!"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("valid form login returns token and sets cookie", func(t *testing.T) {
		h := newTestAuthHandler()
		registerUser(t, h, "login@example.com")

		rec := postForm(t, h.Login, "/auth/login", url.Values{
			"username": {"login@example.com"},
			"password": {"SecurePass123!"},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"token_type":"bearer"`)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, middleware.AccessTokenCookie, cookies[0].Name)
		require.NotEmpty(t, cookies[0].Value)
		require.True(t, cookies[0].HttpOnly)
	})

	t.Run("wrong password is a 401", func(t *testing.T) {
		h := newTestAuthHandler()
		registerUser(t, h, "wrong@example.com")

		rec := postForm(t, h.Login, "/auth/login", url.Values{
			"username": {"wrong@example.com"},
			"password": {"WrongPass123!"},
		})

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
	})

	t.Run("locked account is a 400 even with the correct password", func(t *testing.T) {
		h := newTestAuthHandler()
		registerUser(t, h, "locked@example.com")

		for i := 0; i < 5; i++ {
			postForm(t, h.Login, "/auth/login", url.Values{
				"username": {"locked@example.com"},
				"password": {"WrongPass123!"},
			})
		}

		rec := postForm(t, h.Login, "/auth/login", url.Values{
			"username": {"locked@example.com"},
			"password": {"SecurePass123!"},
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "ACCOUNT_LOCKED")
	})

	t.Run("missing fields are a 400", func(t *testing.T) {
		h := newTestAuthHandler()

		rec := postForm(t, h.Login, "/auth/login", url.Values{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Parallel()

	h := newTestAuthHandler()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()

	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, middleware.AccessTokenCookie, cookies[0].Name)
	require.Empty(t, cookies[0].Value)
	require.Negative(t, cookies[0].MaxAge)
}
