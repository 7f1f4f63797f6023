package user

import (
	"context"

	"github.com/projectcostai/projectcostai/internal/auth"
)

// Session is a user together with a freshly issued access token
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Service defines the interface for account business logic
type Service interface {
	// Signup registers a password account with loginCount 1
	Signup(ctx context.Context, name, email, password string) (*Session, error)

	// Login verifies credentials and bumps the login counter. Every
	// rejection carries the same message.
	Login(ctx context.Context, email, password string) (*Session, error)

	// LoginExternal links or creates a password-less account for a
	// profile returned by an external login provider.
	LoginExternal(ctx context.Context, profile auth.ExternalProfile) (*Session, error)

	// Me returns the caller's own record
	Me(ctx context.Context, caller auth.Identity) (*User, error)

	// Get returns a user visible to the caller: self, or anyone for admins
	Get(ctx context.Context, caller auth.Identity, id string) (*User, error)

	// UpdateProfile changes the display name of a user the caller may edit
	UpdateProfile(ctx context.Context, caller auth.Identity, id, name string) (*User, error)

	// List returns all users newest first
	List(ctx context.Context, limit, offset int) ([]*User, int64, error)

	// CurrentRole returns the stored role of a user, so a role change
	// takes effect before the caller's token expires
	CurrentRole(ctx context.Context, id string) (string, error)
}
