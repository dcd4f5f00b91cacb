package dto

import "time"

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest is the token-style OAuth entry point: the client has
// already obtained the user's Google identity and posts it here.
type GoogleLoginRequest struct {
	GoogleID string `json:"google_id" binding:"required"`
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
}

type UpdateProfileRequest struct {
	Name      string `json:"name" binding:"omitempty,min=2,max=50"`
	Email     string `json:"email" binding:"omitempty,email,max=255"`
	Address   string `json:"address" binding:"omitempty,max=255"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
	Employer  string `json:"employer" binding:"omitempty,max=100"`
	ResumeURL string `json:"resume_url" binding:"omitempty,url,max=2048"`
	ImageURL  string `json:"image_url" binding:"omitempty,url,max=2048"`
}

// UserResponse is the outward shape of a user. The password hash is never
// part of it.
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Employer  string    `json:"employer,omitempty"`
	ResumeURL string    `json:"resume_url,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // token expiry in seconds
	User      UserResponse `json:"user"`
}
