package model

import (
	"errors"
	"time"
)

// User represents a registered account with its public profile attributes.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"` // "-" hides from JSON output
	IsPublic     bool      `db:"is_public" json:"is_public"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	Location     *string   `db:"location" json:"location"`
	Bio          *string   `db:"bio" json:"bio"`
	Availability *string   `db:"availability" json:"availability"`
	PhotoURL     *string   `db:"photo_url" json:"photo_url"`
	PhotoKey     *string   `db:"photo_key" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the trimmed view used in browse/search listings.
type UserSummary struct {
	ID       int64   `db:"id" json:"id"`
	Username string  `db:"username" json:"username"`
	Location *string `db:"location" json:"location"`
	PhotoURL *string `db:"photo_url" json:"photo_url"`
}

// RegisterRequest represents the data needed to register a new account
type RegisterRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	PhotoURL *string `json:"-"`
	PhotoKey *string `json:"-"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the editable profile fields. Pointer fields
// are optional; nil means "leave unchanged".
type UpdateProfileRequest struct {
	Username     *string `json:"username"`
	Email        *string `json:"email"`
	Location     *string `json:"location"`
	Bio          *string `json:"bio"`
	Availability *string `json:"availability"`
	IsPublic     *bool   `json:"is_public"`
	PhotoURL     *string `json:"-"`
	PhotoKey     *string `json:"-"`
}

// ProfileResponse is a user profile plus their skill lists.
type ProfileResponse struct {
	User          *User   `json:"user"`
	SkillsOffered []Skill `json:"skills_offered"`
	SkillsWanted  []Skill `json:"skills_wanted"`
}

// BrowseFilter narrows the public-profile listing.
type BrowseFilter struct {
	Query     string // username substring
	SkillName string // matches skills in either direction
	Limit     int
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to take a username that is in use
	ErrUsernameExists = errors.New("username already taken")

	// ErrEmailExists is returned when attempting to register an email that is in use
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrForbidden is returned when an actor fails a capability check
	ErrForbidden = errors.New("forbidden")
)
