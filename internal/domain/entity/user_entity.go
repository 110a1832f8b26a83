package entity

import (
	"time"
)

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field
//
// Interests is the comma-joined list chosen at signup; order carries no meaning.
// Points only grows, through attendance verification.
type User struct {
	ID        string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Name      string
	Bio       string
	Interests string
	Points    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InterestList splits Interests into trimmed, non-empty names.
func (u *User) InterestList() []string {
	return SplitInterests(u.Interests)
}
