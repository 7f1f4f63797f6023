package dto

import (
	"time"

	"github.com/projectcostai/projectcostai/internal/domain/user"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	LoginCount int       `json:"loginCount"`
	Provider   string    `json:"provider,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func UserFromDomain(u *user.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		LoginCount: u.LoginCount,
		Provider:   u.Provider,
		CreatedAt:  u.CreatedAt,
	}
}

func UsersFromDomain(users []*user.User) []*UserDTO {
	out := make([]*UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, UserFromDomain(u))
	}
	return out
}

// UserResponse wraps a single user
type UserResponse struct {
	User *UserDTO `json:"user"`
}

// UpdateUserRequest changes the display name. Other fields in the body
// are ignored.
type UpdateUserRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}
