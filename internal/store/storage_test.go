package store

import "recetas-api/internal/services"

var (
	_ services.Storage = (*Store)(nil)
	_ services.Storage = (*Memory)(nil)
)
