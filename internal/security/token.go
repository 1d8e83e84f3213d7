package security

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"user-management-api/internal/model"
)

// TokenCodec signs and verifies access tokens. Tokens are never stored
// server-side: validity is purely a function of signature and expiry.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenCodec(secret string, accessTTL time.Duration, refreshTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (c *TokenCodec) AccessTTL() time.Duration {
	return c.accessTTL
}

// Issue signs an HS256 token for the subject with expiry now+ttl. A zero ttl
// falls back to the configured access TTL. The role is uppercased before it
// is embedded so decode(issue(...)) round-trips to the same canonical form.
func (c *TokenCodec) Issue(subject string, role model.Role, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.accessTTL
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": strings.ToUpper(string(role)),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies signature and expiry and extracts the identity claims.
// Any failure, malformed token, wrong signing method, bad signature or
// expired claim set, surfaces as model.ErrInvalidToken. The payload is never
// trusted before the signature check passes.
func (c *TokenCodec) Decode(tokenString string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, model.ErrInvalidToken
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrInvalidToken
	}

	subject, _ := claimsMap["sub"].(string)
	rawRole, _ := claimsMap["role"].(string)

	role, ok := model.ParseRole(rawRole)
	if subject == "" || !ok {
		return nil, model.ErrInvalidToken
	}

	return &model.AuthClaims{UserID: subject, Role: role}, nil
}
