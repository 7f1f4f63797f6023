package dto

// SignupRequest represents a registration request
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,emaildomain"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by signup, login and the external login callback
type AuthResponse struct {
	Success bool     `json:"success"`
	User    *UserDTO `json:"user"`
	Token   string   `json:"token"`
}
