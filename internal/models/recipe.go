package models

import "time"

type Recipe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Nombre      string    `gorm:"uniqueIndex;not null" json:"nombre"`
	Slug        string    `gorm:"not null" json:"slug"`
	Tiempo      string    `gorm:"not null" json:"tiempo"`
	Descripcion string    `gorm:"not null" json:"descripcion"`
	Fecha       time.Time `gorm:"autoCreateTime" json:"fecha"`
	Foto        string    `gorm:"uniqueIndex;not null" json:"foto"`

	CategoriaID uint     `gorm:"not null;index" json:"categoria_id"`
	Categoria   Category `gorm:"constraint:OnDelete:RESTRICT" json:"categoria"`
	UsuarioID   uint     `gorm:"not null;index" json:"usuario_id"`
	Usuario     User     `gorm:"constraint:OnDelete:RESTRICT" json:"usuario"`
}

func (Recipe) TableName() string { return "recetas" }

// RecipeFilter narrows a recipe listing. Zero values mean no restriction.
type RecipeFilter struct {
	CategoriaID uint
	UsuarioID   uint
	Search      string
	Limit       int
	NewestFirst bool
}
