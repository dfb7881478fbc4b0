package model

import "errors"

// SkillKind tags a skill as something the owner offers or wants.
type SkillKind string

const (
	SkillOffered SkillKind = "offered"
	SkillWanted  SkillKind = "wanted"
)

// Valid reports whether k is one of the two known kinds.
func (k SkillKind) Valid() bool {
	return k == SkillOffered || k == SkillWanted
}

// Skill is owned by exactly one user through exactly one of the two
// owner columns; the other is always NULL.
type Skill struct {
	ID           int64   `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	OfferedBy    *int64  `db:"offered_by" json:"offered_by,omitempty"`
	WantedBy     *int64  `db:"wanted_by" json:"wanted_by,omitempty"`
	Availability *string `db:"availability" json:"availability,omitempty"`
}

// OwnerID returns the owning user id regardless of kind.
func (s *Skill) OwnerID() int64 {
	if s.OfferedBy != nil {
		return *s.OfferedBy
	}
	if s.WantedBy != nil {
		return *s.WantedBy
	}
	return 0
}

// Kind derives the skill kind from which owner column is populated.
func (s *Skill) Kind() SkillKind {
	if s.OfferedBy != nil {
		return SkillOffered
	}
	return SkillWanted
}

// CreateSkillRequest is the request body for adding a skill.
type CreateSkillRequest struct {
	Name         string    `json:"name"`
	Kind         SkillKind `json:"kind"`
	Availability *string   `json:"availability"`
}

// UpdateSkillRequest is the request body for editing a skill. Changing
// Kind moves the owner id between the two owner columns.
type UpdateSkillRequest struct {
	Name         string    `json:"name"`
	Kind         SkillKind `json:"kind"`
	Availability *string   `json:"availability"`
}

var (
	// ErrSkillNotFound is returned when a skill id does not resolve
	ErrSkillNotFound = errors.New("skill not found")

	// ErrInvalidSkillKind is returned for a kind outside offered/wanted
	ErrInvalidSkillKind = errors.New("skill kind must be offered or wanted")
)
