package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCandidate = "candidate"
	RoleHR        = "hr"
	RoleAdmin     = "admin"
)

type User struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string         `json:"username" gorm:"not null;uniqueIndex"`
	Password  string         `json:"-" gorm:"not null"` // bcrypt hash, never serialized
	Role      string         `json:"role" gorm:"not null;default:'candidate'"`
	Email     string         `json:"email,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
