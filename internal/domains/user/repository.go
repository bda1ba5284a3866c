package user

import (
	"time"
)

// User is the pure domain model of an account.
// @Description User account information
type User struct {
	ID          string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	DisplayName string    `json:"displayName" example:"Jane Wu"`
	Email       string    `json:"email" example:"jane@example.com"`
	Password    string    `json:"-"` // never expose in JSON
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateUserRequest is the registration body.
// @Description Request body for user registration
type CreateUserRequest struct {
	DisplayName string `json:"displayName" binding:"required,min=2,max=100" example:"Jane Wu"`
	Email       string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password    string `json:"password" binding:"required,min=8" example:"securePassword123"`
}

// LoginRequest is the login body.
// @Description Request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"securePassword123"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
	}
}

// UserRepository defines persistence for accounts.
type UserRepository interface {
	Create(u *User) error
	GetByID(id string) (*User, error)
	GetByEmail(email string) (*User, error)
	EmailExists(email string) (bool, error)
}
