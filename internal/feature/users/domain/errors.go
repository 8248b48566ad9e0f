// Package domain defines domain-level errors for the users feature.
package domain

import "errors"

// Domain errors for user management operations.
// These represent business rule failures; the transport layer maps them to
// user-visible messages.
var (
	// ErrUserNotFound indicates that no user matched the given criteria.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUser is returned by a store when a unique key (username,
	// identification) is already taken.
	ErrDuplicateUser = errors.New("user with the same unique key already exists")

	// ErrIdentificationExists indicates that another user already owns the
	// submitted identification document.
	ErrIdentificationExists = errors.New("identification document already exists")

	// ErrUsernameExists indicates that another user already owns the submitted username.
	ErrUsernameExists = errors.New("username already exists")

	// ErrExpirationBeforeRegistration indicates an expiration date earlier than today.
	ErrExpirationBeforeRegistration = errors.New("expiration date cannot be before registration date")

	// ErrInvalidDate indicates that a submitted date could not be parsed.
	ErrInvalidDate = errors.New("invalid date format")

	// ErrInvalidID indicates a submitted identifier that is not a positive integer.
	ErrInvalidID = errors.New("invalid user id")
)
