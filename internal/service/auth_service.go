package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"user-management-api/internal/model"
	"user-management-api/internal/security"
	"user-management-api/pkg/apierror"
)

var nicknamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,30}$`)

// AuthService orchestrates registration and login. It never mutates user
// records directly; lockout and login bookkeeping go through AccountPolicy.
type AuthService struct {
	users      UserStore
	policy     *AccountPolicy
	codec      *security.TokenCodec
	bcryptCost int
}

func NewAuthService(users UserStore, policy *AccountPolicy, codec *security.TokenCodec, bcryptCost int) *AuthService {
	return &AuthService{users: users, policy: policy, codec: codec, bcryptCost: bcryptCost}
}

// Register validates input, hashes the password and inserts the user. Role
// and initial verification are decided from the user count observed inside
// the insert's own transaction, so concurrent first registrations cannot
// both become admin.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	email := strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return model.User{}, apierror.New("INVALID_EMAIL", "invalid email address", "email", http.StatusUnprocessableEntity)
	}

	if req.Nickname != nil && !nicknamePattern.MatchString(*req.Nickname) {
		return model.User{}, apierror.New("INVALID_NICKNAME", "nickname must be 3-30 characters (letters, digits, _ or -)", "nickname", http.StatusUnprocessableEntity)
	}

	if err := security.ValidatePassword(req.Password); err != nil {
		return model.User{}, err
	}

	digest, err := security.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	candidate := model.User{
		ID:             uuid.New(),
		Email:          email,
		Nickname:       req.Nickname,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: digest,
	}

	created, err := s.users.Create(ctx, candidate, func(existingCount int) (model.Role, bool) {
		role := s.policy.DecideRole(existingCount)
		return role, s.policy.DecideInitialVerification(role)
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) || errors.Is(err, model.ErrDuplicateNickname) {
			return model.User{}, err
		}
		slog.Error("user registration failed", "error", err)
		return model.User{}, model.ErrRegistrationFailed
	}

	return created, nil
}

// Login runs the authentication state machine: lookup, locked check before
// any password work, verify, then record the attempt. Unknown email and
// wrong password surface identically to prevent user enumeration.
func (s *AuthService) Login(ctx context.Context, email string, password string) (model.TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.TokenResponse{}, model.ErrInvalidCredentials
		}
		return model.TokenResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	if s.policy.IsLocked(user) {
		return model.TokenResponse{}, model.ErrAccountLocked
	}

	if !security.VerifyPassword(user.HashedPassword, password) {
		if _, recordErr := s.policy.RecordFailedAttempt(ctx, user.ID); recordErr != nil {
			slog.Error("recording failed login attempt", "error", recordErr, "user_id", user.ID)
		}
		return model.TokenResponse{}, model.ErrInvalidCredentials
	}

	if _, err := s.policy.RecordSuccessfulAttempt(ctx, user.ID); err != nil {
		return model.TokenResponse{}, fmt.Errorf("record successful login: %w", err)
	}

	token, err := s.codec.Issue(user.ID.String(), user.Role, 0)
	if err != nil {
		return model.TokenResponse{}, fmt.Errorf("issue access token: %w", err)
	}

	return model.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id string) (model.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.User{}, model.ErrUserNotFound
	}
	return s.users.FindByID(ctx, parsed)
}

// ValidateToken satisfies the middleware's validator interface.
func (s *AuthService) ValidateToken(tokenString string) (*model.AuthClaims, error) {
	return s.codec.Decode(tokenString)
}
