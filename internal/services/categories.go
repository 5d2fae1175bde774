package services

import (
	"context"
	"errors"
	"strings"

	"recetas-api/internal/cache"
	"recetas-api/internal/common"
	"recetas-api/internal/models"
	"recetas-api/internal/utils"
)

type Categories struct {
	store CategoryStore
	cache cache.Cache
}

func NewCategories(store CategoryStore, c cache.Cache) *Categories {
	return &Categories{store: store, cache: c}
}

func (s *Categories) List(ctx context.Context) ([]models.Category, error) {
	cs, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, internal("services.Categories.List", err)
	}
	return cs, nil
}

func (s *Categories) Get(ctx context.Context, id uint) (*models.Category, error) {
	c, err := s.store.CategoryByID(ctx, id)
	if err != nil {
		if notFound(err) {
			return nil, common.NotFound(msgNotFound)
		}
		return nil, internal("services.Categories.Get", err)
	}
	return c, nil
}

func (s *Categories) Create(ctx context.Context, nombre string) (Result, error) {
	const op = "services.Categories.Create"

	nombre = strings.TrimSpace(nombre)
	if _, err := s.store.CategoryByName(ctx, nombre); err == nil {
		return Result{}, duplicateName(nombre)
	} else if !notFound(err) {
		return Result{}, internal(op, err)
	}

	c := &models.Category{Nombre: nombre, Slug: utils.Slugify(nombre)}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return Result{}, duplicateName(nombre)
		}
		return Result{}, internal(op, err)
	}
	return ok(msgCreated), nil
}

// Update renames a category. The name must not belong to another one.
func (s *Categories) Update(ctx context.Context, id uint, nombre string) (Result, error) {
	const op = "services.Categories.Update"

	if _, err := s.Get(ctx, id); err != nil {
		return Result{}, err
	}
	nombre = strings.TrimSpace(nombre)
	if other, err := s.store.CategoryByName(ctx, nombre); err == nil && other.ID != id {
		return Result{}, duplicateName(nombre)
	} else if err != nil && !notFound(err) {
		return Result{}, internal(op, err)
	}

	c := &models.Category{ID: id, Nombre: nombre, Slug: utils.Slugify(nombre)}
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicate):
			return Result{}, duplicateName(nombre)
		case notFound(err):
			return Result{}, common.NotFound(msgNotFound)
		}
		return Result{}, internal(op, err)
	}
	s.cache.Invalidate(ctx, cache.KeyRecipes, cache.KeyHome)
	return ok(msgUpdated), nil
}

// Delete removes a category that no recipe references.
func (s *Categories) Delete(ctx context.Context, id uint) (Result, error) {
	const op = "services.Categories.Delete"

	if _, err := s.Get(ctx, id); err != nil {
		return Result{}, err
	}
	n, err := s.store.CountRecipesByCategory(ctx, id)
	if err != nil {
		return Result{}, internal(op, err)
	}
	if n > 0 {
		return Result{}, common.Conflict(msgHasRecipes)
	}

	if err := s.store.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, common.ErrConflict):
			return Result{}, common.Conflict(msgHasRecipes)
		case notFound(err):
			return Result{}, common.NotFound(msgNotFound)
		}
		return Result{}, internal(op, err)
	}
	s.cache.Invalidate(ctx, cache.KeyRecipes, cache.KeyHome)
	return ok(msgCategoryDelete), nil
}
