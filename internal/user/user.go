// Package user defines the user model used for authentication and for
// associating shortened URLs with their owner.
package user

// User represents a registered account.
type User struct {
	// ID is the unique identifier of the user.
	ID string `json:"id"`

	// Email is unique across users; matching is case-sensitive.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized.
	PasswordHash string `json:"-"`
}
