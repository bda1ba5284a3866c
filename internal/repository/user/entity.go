package user

import (
	"time"

	"github.com/vitalis-health/vitalis/internal/domains/user"
)

// UserEntity is the gorm persistence shape of a user.
type UserEntity struct {
	ID          string    `gorm:"primaryKey;size:36"`
	DisplayName string    `gorm:"size:100;not null"`
	Email       string    `gorm:"size:255;uniqueIndex;not null"`
	Password    string    `gorm:"size:255;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (UserEntity) TableName() string {
	return "users"
}

func NewUserEntityFromDomain(u *user.User) *UserEntity {
	return &UserEntity{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Password:    u.Password,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (e *UserEntity) ToDomain() *user.User {
	return &user.User{
		ID:          e.ID,
		DisplayName: e.DisplayName,
		Email:       e.Email,
		Password:    e.Password,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
