package domain

import "time"

type UserRole string

const (
	RoleAdmin        UserRole = "admin"
	RoleOperator     UserRole = "operator"
	RoleCollaborator UserRole = "collaborator"
)

type User struct {
	ID           int64    `json:"id" gorm:"primaryKey"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role" gorm:"default:'operator'"`
	Name         string   `json:"name"`
	Phone        string   `json:"phone,omitempty"`
	AvatarURL    string   `json:"avatar_url,omitempty"`
	IsActive     bool     `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
