package auth

import "backoffice/internal/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type CreateUserRequest struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	Name     string          `json:"name" binding:"required"`
	Role     domain.UserRole `json:"role" binding:"required"`
	Phone    string          `json:"phone"`
}

type UpdateUserRequest struct {
	Name  *string          `json:"name"`
	Phone *string          `json:"phone"`
	Role  *domain.UserRole `json:"role"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}
