package models

// User represents a registered account.
//
// A user owns all of their categories, expenses and budgets; deleting a user
// removes every record they own.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address, unique across all users.
	// Comparison is case-sensitive: "Bob@x.com" and "bob@x.com" are distinct.
	Email string

	// Password is the externally produced password hash. This layer treats it
	// as an opaque string; hashing and verification live with the caller.
	Password string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
