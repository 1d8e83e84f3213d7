package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/mail"
	"strings"

	"user-management-api/internal/model"
	"user-management-api/pkg/apierror"
)

// guestIDAttempts bounds retries when a generated GUEST-NNNN id collides.
const guestIDAttempts = 5

type GuestService struct {
	guests GuestStore
}

func NewGuestService(guests GuestStore) *GuestService {
	return &GuestService{guests: guests}
}

// NewGuestID returns an id in the legacy GUEST-NNNN format.
func NewGuestID() string {
	return fmt.Sprintf("GUEST-%d", 1000+rand.Intn(9000))
}

func (s *GuestService) Create(ctx context.Context, req model.GuestCreateRequest) (model.Guest, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)

	if name == "" {
		return model.Guest{}, apierror.New("BAD_REQUEST", "name is required", "name", http.StatusBadRequest)
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return model.Guest{}, apierror.New("INVALID_EMAIL", "invalid email address", "email", http.StatusUnprocessableEntity)
	}

	guest := model.Guest{Name: name, Email: email, Phone: req.Phone}

	// The 4-digit id space is tiny, so collisions are expected under load;
	// regenerate and retry instead of failing the request.
	for attempt := 0; attempt < guestIDAttempts; attempt++ {
		guest.ID = NewGuestID()

		created, err := s.guests.Create(ctx, guest)
		if errors.Is(err, model.ErrGuestIDConflict) {
			continue
		}
		if err != nil {
			return model.Guest{}, err
		}
		return created, nil
	}

	return model.Guest{}, fmt.Errorf("exhausted guest id attempts")
}

func (s *GuestService) Get(ctx context.Context, id string) (model.Guest, error) {
	return s.guests.FindByID(ctx, id)
}

func (s *GuestService) List(ctx context.Context, skip int, limit int) ([]model.Guest, int, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.guests.List(ctx, skip, limit)
}

// Update merges only the provided fields onto the stored guest.
func (s *GuestService) Update(ctx context.Context, id string, req model.GuestUpdateRequest) (model.Guest, error) {
	current, err := s.guests.FindByID(ctx, id)
	if err != nil {
		return model.Guest{}, err
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return model.Guest{}, apierror.New("BAD_REQUEST", "name cannot be empty", "name", http.StatusBadRequest)
		}
		current.Name = trimmed
	}
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		if _, err := mail.ParseAddress(trimmed); err != nil {
			return model.Guest{}, apierror.New("INVALID_EMAIL", "invalid email address", "email", http.StatusUnprocessableEntity)
		}
		current.Email = trimmed
	}
	if req.Phone != nil {
		current.Phone = req.Phone
	}

	return s.guests.Update(ctx, current)
}

func (s *GuestService) Delete(ctx context.Context, id string) error {
	return s.guests.Delete(ctx, id)
}
