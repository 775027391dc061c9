package models

import "time"

// Student is a roster entry. Students are archived, never deleted, so
// historical attendance keeps resolving.
type Student struct {
	ID          string    `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastInitial string    `db:"last_initial" json:"last_initial"`
	Archived    bool      `db:"archived" json:"archived"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayName renders the roster label ("Avery L").
func (s Student) DisplayName() string {
	if s.LastInitial == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastInitial
}

// StudentFilter describes query params for listing students.
type StudentFilter struct {
	Search          string
	IncludeArchived bool
	Page            int
	PageSize        int
}
