package user

import "context"

// Repository defines the interface for user data access
type Repository interface {
	// Create stores u. Returns a conflict error when the email is taken.
	Create(ctx context.Context, u *User) error

	GetByID(ctx context.Context, id string) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)

	Update(ctx context.Context, u *User) error

	// IncrementLoginCount atomically adds one to the login counter and
	// returns the new value.
	IncrementLoginCount(ctx context.Context, id string) (int, error)

	// List returns users newest first plus the total count
	List(ctx context.Context, limit, offset int) ([]*User, int64, error)

	Count(ctx context.Context) (int64, error)
}
