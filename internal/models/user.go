package models

import (
	"time"
)

type UserStatus string

const (
	StatusPending UserStatus = "pending"
	StatusActive  UserStatus = "active"
)

// User holds a verification Token only while Estado is pending.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Nombre   string     `gorm:"not null" json:"nombre"`
	Correo   string     `gorm:"uniqueIndex;not null" json:"correo"`
	Password string     `gorm:"not null" json:"-"`
	Token    *string    `gorm:"uniqueIndex" json:"-"`
	Estado   UserStatus `gorm:"not null;default:pending" json:"estado"`
}

func (User) TableName() string { return "usuarios" }
