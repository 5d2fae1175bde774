package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recetas-api/internal/common"
	"recetas-api/internal/models"
)

// Store is the postgres-backed implementation. It is safe for concurrent
// use; uniqueness and references are enforced by table constraints.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, translate(err))
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return wrap("store.CreateUser", s.db.WithContext(ctx).Create(u).Error)
}

func (s *Store) UserByEmail(ctx context.Context, correo string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("correo = ?", correo).First(&u).Error; err != nil {
		return nil, wrap("store.UserByEmail", err)
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, wrap("store.UserByID", err)
	}
	return &u, nil
}

func (s *Store) ActiveUserByEmail(ctx context.Context, correo string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("correo = ? AND estado = ?", correo, models.StatusActive).
		First(&u).Error
	if err != nil {
		return nil, wrap("store.ActiveUserByEmail", err)
	}
	return &u, nil
}

// ActivateUser flips the pending user holding token to active and clears
// the token in one conditional update.
func (s *Store) ActivateUser(ctx context.Context, token string) error {
	const op = "store.ActivateUser"

	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("token = ? AND estado = ?", token, models.StatusPending).
		Updates(map[string]any{
			"token":      nil,
			"estado":     models.StatusActive,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	return nil
}

// Categories

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cs []models.Category
	if err := s.db.WithContext(ctx).Order("id asc").Find(&cs).Error; err != nil {
		return nil, wrap("store.ListCategories", err)
	}
	return cs, nil
}

func (s *Store) CategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, wrap("store.CategoryByID", err)
	}
	return &c, nil
}

func (s *Store) CategoryByName(ctx context.Context, nombre string) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).Where("nombre = ?", nombre).First(&c).Error; err != nil {
		return nil, wrap("store.CategoryByName", err)
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	return wrap("store.CreateCategory", s.db.WithContext(ctx).Create(c).Error)
}

func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	const op = "store.UpdateCategory"

	res := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{"nombre": c.Nombre, "slug": c.Slug})
	if res.Error != nil {
		return wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	return nil
}

// DeleteCategory fails with common.ErrConflict while recipes reference id.
func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	const op = "store.DeleteCategory"

	res := s.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		err := translate(res.Error)
		if errors.Is(err, common.ErrReferential) {
			err = common.ErrConflict
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	return nil
}

func (s *Store) CountRecipesByCategory(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("categoria_id = ?", id).Count(&n).Error
	if err != nil {
		return 0, wrap("store.CountRecipesByCategory", err)
	}
	return n, nil
}

// Recipes

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *Store) ListRecipes(ctx context.Context, f models.RecipeFilter) ([]models.Recipe, error) {
	q := s.db.WithContext(ctx).Preload("Categoria").Preload("Usuario")
	if f.CategoriaID != 0 {
		q = q.Where("categoria_id = ?", f.CategoriaID)
	}
	if f.UsuarioID != 0 {
		q = q.Where("usuario_id = ?", f.UsuarioID)
	}
	if f.Search != "" {
		q = q.Where("nombre ILIKE ?", "%"+likeEscaper.Replace(f.Search)+"%")
	}
	if f.NewestFirst {
		q = q.Order("id desc")
	} else {
		q = q.Order("id asc")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rs []models.Recipe
	if err := q.Find(&rs).Error; err != nil {
		return nil, wrap("store.ListRecipes", err)
	}
	return rs, nil
}

func (s *Store) RecipeByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var r models.Recipe
	err := s.db.WithContext(ctx).Preload("Categoria").Preload("Usuario").First(&r, id).Error
	if err != nil {
		return nil, wrap("store.RecipeByID", err)
	}
	return &r, nil
}

func (s *Store) RecipeByName(ctx context.Context, nombre string) (*models.Recipe, error) {
	var r models.Recipe
	if err := s.db.WithContext(ctx).Where("nombre = ?", nombre).First(&r).Error; err != nil {
		return nil, wrap("store.RecipeByName", err)
	}
	return &r, nil
}

func (s *Store) CreateRecipe(ctx context.Context, r *models.Recipe) error {
	return wrap("store.CreateRecipe", s.db.WithContext(ctx).Omit(clause.Associations).Create(r).Error)
}

func (s *Store) UpdateRecipe(ctx context.Context, r *models.Recipe) error {
	const op = "store.UpdateRecipe"

	res := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", r.ID).
		Updates(map[string]any{
			"nombre":       r.Nombre,
			"slug":         r.Slug,
			"tiempo":       r.Tiempo,
			"descripcion":  r.Descripcion,
			"categoria_id": r.CategoriaID,
		})
	if res.Error != nil {
		return wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	return nil
}

// SwapRecipePhoto points recipe id at foto and returns the filename it
// replaced. The row is locked for the duration of the swap.
func (s *Store) SwapRecipePhoto(ctx context.Context, id uint, foto string) (string, error) {
	const op = "store.SwapRecipePhoto"

	var old string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Recipe
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "foto").
			First(&r, id).Error
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Update("foto", foto).Error; err != nil {
			return err
		}
		old = r.Foto
		return nil
	})
	if err != nil {
		return "", wrap(op, err)
	}
	return old, nil
}

// DeleteRecipe removes recipe id and returns its photo filename.
func (s *Store) DeleteRecipe(ctx context.Context, id uint) (string, error) {
	const op = "store.DeleteRecipe"

	var r models.Recipe
	res := s.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "foto"}}}).
		Where("id = ?", id).
		Delete(&r)
	if res.Error != nil {
		return "", wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return "", fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	return r.Foto, nil
}

// Contacts

func (s *Store) CreateContact(ctx context.Context, c *models.Contact) error {
	return wrap("store.CreateContact", s.db.WithContext(ctx).Create(c).Error)
}
