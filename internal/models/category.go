package models

type Category struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Nombre string `gorm:"uniqueIndex;not null" json:"nombre"`
	Slug   string `gorm:"not null" json:"slug"`
}

func (Category) TableName() string { return "categorias" }
