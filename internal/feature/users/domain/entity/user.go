// Package entity defines the domain entities for the users feature.
package entity

import "time"

// User represents a managed user record.
// ID is assigned by the store on creation and never changes afterwards.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey" json:"id"`

	// Username must be unique across all users.
	Username string `gorm:"uniqueIndex;size:100;not null" json:"username"`

	Email     string `gorm:"index;size:255" json:"email"`
	FirstName string `gorm:"size:100" json:"first_name"`
	LastName  string `gorm:"size:100" json:"last_name"`

	// Identification is the identity document number, distinct from ID.
	// Non-empty values must be unique. Empty values are stored as NULL so that
	// the unique index ignores them.
	Identification *string `gorm:"uniqueIndex;size:64" json:"identification,omitempty"`

	Nationality string `gorm:"size:100" json:"nationality"`

	// RegistrationDate defaults to the creation time.
	RegistrationDate time.Time `gorm:"not null" json:"registration_date"`

	// ExpirationDate is optional and must not precede the current date when saved.
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IdentificationValue returns the identification document number, or "" when unset.
func (u User) IdentificationValue() string {
	if u.Identification == nil {
		return ""
	}
	return *u.Identification
}

// SetIdentification stores s, mapping "" to nil.
func (u *User) SetIdentification(s string) {
	if s == "" {
		u.Identification = nil
		return
	}
	u.Identification = &s
}
