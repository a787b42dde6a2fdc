package user

import "context"

// Repository defines the persistence contract for users.
type Repository interface {
	// FindByID returns the user or a not-found domain error.
	FindByID(ctx context.Context, id int64) (*User, error)

	// List returns all users ordered by id.
	List(ctx context.Context) ([]*User, error)

	// Save inserts a new user and returns it with its assigned id.
	Save(ctx context.Context, u *User) (*User, error)

	// Update persists changes to an existing user.
	Update(ctx context.Context, u *User) error

	// Delete removes the user together with everything it owns.
	Delete(ctx context.Context, id int64) error
}
