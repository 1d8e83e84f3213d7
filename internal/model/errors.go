package model

import "errors"

var (
	// User related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateNickname = errors.New("nickname already taken")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked")
	ErrWeakPassword       = errors.New("password does not meet policy")
	ErrInvalidToken       = errors.New("invalid token")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Guest related errors
	ErrGuestNotFound       = errors.New("guest not found")
	ErrDuplicateGuestEmail = errors.New("guest email already exists")
	ErrGuestIDConflict     = errors.New("guest id conflict")

	// Generic errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrRegistrationFailed = errors.New("registration failed")
)
