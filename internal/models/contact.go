package models

import "time"

type Contact struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Nombre   string    `gorm:"not null" json:"nombre"`
	Correo   string    `gorm:"not null" json:"correo"`
	Telefono string    `gorm:"not null" json:"telefono"`
	Mensaje  string    `gorm:"not null" json:"mensaje"`
	Fecha    time.Time `gorm:"autoCreateTime" json:"fecha"`
}

func (Contact) TableName() string { return "contactos" }
