// Package services holds the application rules: account lifecycle,
// category and recipe management, and the contact form.
package services

import (
	"context"

	"recetas-api/internal/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByEmail(ctx context.Context, correo string) (*models.User, error)
	ActiveUserByEmail(ctx context.Context, correo string) (*models.User, error)
	ActivateUser(ctx context.Context, token string) error
}

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CategoryByID(ctx context.Context, id uint) (*models.Category, error)
	CategoryByName(ctx context.Context, nombre string) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	UpdateCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error
	CountRecipesByCategory(ctx context.Context, id uint) (int64, error)
}

type RecipeStore interface {
	UserByID(ctx context.Context, id uint) (*models.User, error)
	CategoryByID(ctx context.Context, id uint) (*models.Category, error)
	ListRecipes(ctx context.Context, f models.RecipeFilter) ([]models.Recipe, error)
	RecipeByID(ctx context.Context, id uint) (*models.Recipe, error)
	RecipeByName(ctx context.Context, nombre string) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, r *models.Recipe) error
	UpdateRecipe(ctx context.Context, r *models.Recipe) error
	SwapRecipePhoto(ctx context.Context, id uint, foto string) (string, error)
	DeleteRecipe(ctx context.Context, id uint) (string, error)
}

type ContactStore interface {
	CreateContact(ctx context.Context, c *models.Contact) error
}

// Storage is everything a single backend provides.
type Storage interface {
	UserStore
	CategoryStore
	RecipeStore
	ContactStore
}
