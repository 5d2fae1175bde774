package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"recetas-api/internal/assets"
	"recetas-api/internal/cache"
	"recetas-api/internal/common"
	"recetas-api/internal/logging"
	"recetas-api/internal/models"
	"recetas-api/internal/utils"
)

const homeSize = 3

type RecipeInput struct {
	Nombre      string
	Tiempo      string
	Descripcion string
	CategoriaID uint
	// UsuarioID is the owner. Zero means the fallback user.
	UsuarioID uint
}

// Recipes manages recipes and keeps each photo bound to its row.
type Recipes struct {
	store        RecipeStore
	photos       *assets.Manager
	cache        cache.Cache
	log          *slog.Logger
	fallbackUser uint
}

func NewRecipes(store RecipeStore, photos *assets.Manager, c cache.Cache, log *slog.Logger, fallbackUser uint) *Recipes {
	return &Recipes{
		store:        store,
		photos:       photos,
		cache:        c,
		log:          log.With(slog.String("component", "recipes")),
		fallbackUser: fallbackUser,
	}
}

// cached serves a listing from the cache, loading and storing it on a miss.
func (s *Recipes) cached(ctx context.Context, key string, load func() ([]models.Recipe, error)) ([]models.Recipe, error) {
	if b, hit := s.cache.Get(ctx, key); hit {
		var rs []models.Recipe
		if err := json.Unmarshal(b, &rs); err == nil {
			return rs, nil
		}
		s.log.Warn("discarding unreadable cache entry", slog.String("key", key))
	}

	rs, err := load()
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(rs)
	if err != nil {
		s.log.Warn("cache encode failed", slog.String("key", key), logging.Err(err))
		return rs, nil
	}
	s.cache.Set(ctx, key, b)
	return rs, nil
}

func (s *Recipes) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cache.KeyRecipes, cache.KeyHome)
}

func (s *Recipes) List(ctx context.Context) ([]models.Recipe, error) {
	return s.cached(ctx, cache.KeyRecipes, func() ([]models.Recipe, error) {
		rs, err := s.store.ListRecipes(ctx, models.RecipeFilter{})
		if err != nil {
			return nil, internal("services.Recipes.List", err)
		}
		return rs, nil
	})
}

// Home returns the latest recipes, newest first.
func (s *Recipes) Home(ctx context.Context) ([]models.Recipe, error) {
	return s.cached(ctx, cache.KeyHome, func() ([]models.Recipe, error) {
		rs, err := s.store.ListRecipes(ctx, models.RecipeFilter{Limit: homeSize, NewestFirst: true})
		if err != nil {
			return nil, internal("services.Recipes.Home", err)
		}
		return rs, nil
	})
}

// Search lists the recipes of a category whose name contains text.
func (s *Recipes) Search(ctx context.Context, categoriaID uint, text string) ([]models.Recipe, error) {
	const op = "services.Recipes.Search"

	if err := s.requireCategory(ctx, op, categoriaID); err != nil {
		return nil, err
	}
	rs, err := s.store.ListRecipes(ctx, models.RecipeFilter{
		CategoriaID: categoriaID,
		Search:      strings.TrimSpace(text),
	})
	if err != nil {
		return nil, internal(op, err)
	}
	return rs, nil
}

// Panel lists the recipes owned by a user, newest first.
func (s *Recipes) Panel(ctx context.Context, usuarioID uint) ([]models.Recipe, error) {
	rs, err := s.store.ListRecipes(ctx, models.RecipeFilter{UsuarioID: usuarioID, NewestFirst: true})
	if err != nil {
		return nil, internal("services.Recipes.Panel", err)
	}
	return rs, nil
}

func (s *Recipes) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	r, err := s.store.RecipeByID(ctx, id)
	if err != nil {
		if notFound(err) {
			return nil, common.NotFound(msgNotFound)
		}
		return nil, internal("services.Recipes.Get", err)
	}
	return r, nil
}

func (s *Recipes) requireCategory(ctx context.Context, op string, id uint) error {
	if _, err := s.store.CategoryByID(ctx, id); err != nil {
		if notFound(err) {
			return missingCategory(id)
		}
		return internal(op, err)
	}
	return nil
}

// nameTaken reports whether a recipe other than self is called nombre.
func (s *Recipes) nameTaken(ctx context.Context, op, nombre string, self uint) error {
	other, err := s.store.RecipeByName(ctx, nombre)
	switch {
	case err == nil && other.ID != self:
		return duplicateName(nombre)
	case err != nil && !notFound(err):
		return internal(op, err)
	}
	return nil
}

func (s *Recipes) requireUser(ctx context.Context, op string, id uint) error {
	if _, err := s.store.UserByID(ctx, id); err != nil {
		if notFound(err) {
			return missingUser(id)
		}
		return internal(op, err)
	}
	return nil
}

// storeError maps a constraint violation reported by the store to the
// same error the lookups would have produced. A foreign key failure is
// blamed on the owner when it no longer exists, otherwise on the category.
func (s *Recipes) storeError(ctx context.Context, op string, err error, in RecipeInput) error {
	switch {
	case errors.Is(err, common.ErrDuplicate):
		return duplicateName(in.Nombre)
	case errors.Is(err, common.ErrReferential):
		if in.UsuarioID != 0 {
			if uerr := s.requireUser(ctx, op, in.UsuarioID); errors.Is(uerr, common.ErrReferential) {
				return uerr
			}
		}
		return missingCategory(in.CategoriaID)
	case notFound(err):
		return common.NotFound(msgNotFound)
	}
	return internal(op, err)
}

// Create stores the photo, then inserts the recipe pointing at it. When
// the insert is rejected the photo is removed again.
func (s *Recipes) Create(ctx context.Context, in RecipeInput, photo assets.Upload) (Result, error) {
	const op = "services.Recipes.Create"

	in.Nombre = strings.TrimSpace(in.Nombre)
	if in.UsuarioID == 0 {
		in.UsuarioID = s.fallbackUser
	}

	_, err := s.photos.BindOnCreate(ctx, photo, func(ctx context.Context, filename string) error {
		if err := s.requireCategory(ctx, op, in.CategoriaID); err != nil {
			return err
		}
		if err := s.requireUser(ctx, op, in.UsuarioID); err != nil {
			return err
		}
		if err := s.nameTaken(ctx, op, in.Nombre, 0); err != nil {
			return err
		}
		r := &models.Recipe{
			Nombre:      in.Nombre,
			Slug:        utils.Slugify(in.Nombre),
			Tiempo:      in.Tiempo,
			Descripcion: in.Descripcion,
			Foto:        filename,
			CategoriaID: in.CategoriaID,
			UsuarioID:   in.UsuarioID,
		}
		if err := s.store.CreateRecipe(ctx, r); err != nil {
			return s.storeError(ctx, op, err, in)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	s.invalidate(ctx)
	return ok(msgCreated), nil
}

// Update changes the descriptive fields of a recipe. The photo and owner
// are left as they are.
func (s *Recipes) Update(ctx context.Context, id uint, in RecipeInput) (Result, error) {
	const op = "services.Recipes.Update"

	in.Nombre = strings.TrimSpace(in.Nombre)
	if err := s.requireCategory(ctx, op, in.CategoriaID); err != nil {
		return Result{}, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return Result{}, err
	}
	if err := s.nameTaken(ctx, op, in.Nombre, id); err != nil {
		return Result{}, err
	}

	r := &models.Recipe{
		ID:          id,
		Nombre:      in.Nombre,
		Slug:        utils.Slugify(in.Nombre),
		Tiempo:      in.Tiempo,
		Descripcion: in.Descripcion,
		CategoriaID: in.CategoriaID,
	}
	if err := s.store.UpdateRecipe(ctx, r); err != nil {
		return Result{}, s.storeError(ctx, op, err, in)
	}
	s.invalidate(ctx)
	return ok(msgUpdated), nil
}

// UpdatePhoto replaces the photo of a recipe. The previous file is
// removed only after the row points at the new one.
func (s *Recipes) UpdatePhoto(ctx context.Context, id uint, photo assets.Upload) (Result, error) {
	const op = "services.Recipes.UpdatePhoto"

	_, err := s.photos.Rebind(ctx, photo, func(ctx context.Context, filename string) (string, error) {
		old, err := s.store.SwapRecipePhoto(ctx, id, filename)
		if err != nil {
			if notFound(err) {
				return "", common.NotFound(msgNotFound)
			}
			return "", internal(op, err)
		}
		return old, nil
	})
	if err != nil {
		return Result{}, err
	}
	s.invalidate(ctx)
	return ok(msgUpdated), nil
}

// Delete removes the recipe and then its photo.
func (s *Recipes) Delete(ctx context.Context, id uint) (Result, error) {
	foto, err := s.store.DeleteRecipe(ctx, id)
	if err != nil {
		if notFound(err) {
			return Result{}, common.NotFound(msgNotFound)
		}
		return Result{}, internal("services.Recipes.Delete", err)
	}
	s.photos.Release(foto)
	s.invalidate(ctx)
	return ok(msgRecipeDeleted), nil
}
