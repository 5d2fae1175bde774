package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recetas-api/internal/cache"
	"recetas-api/internal/common"
	"recetas-api/internal/models"
)

func TestCategories_CRUD(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.categories.Create(ctx, "Postres Chilenos")
	require.NoError(t, err)
	assert.Equal(t, msgCreated, res.Mensaje)

	cs, err := e.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, "postres-chilenos", cs[0].Slug)

	_, err = e.categories.Create(ctx, "Postres Chilenos")
	kindOf(t, err, common.ErrDuplicate, "El registro: Postres Chilenos ya existe en el sistema")

	id := cs[0].ID
	_, err = e.categories.Update(ctx, id, "Postres")
	require.NoError(t, err)
	c, err := e.categories.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "postres", c.Slug)

	_, err = e.categories.Update(ctx, id, "Postres")
	require.NoError(t, err, "keeping its own name is allowed")

	_, err = e.categories.Get(ctx, 999)
	kindOf(t, err, common.ErrNotFound, msgNotFound)

	_, err = e.categories.Update(ctx, 999, "X")
	kindOf(t, err, common.ErrNotFound, msgNotFound)

	_, err = e.categories.Delete(ctx, id)
	require.NoError(t, err)
	_, err = e.categories.Delete(ctx, id)
	kindOf(t, err, common.ErrNotFound, msgNotFound)
}

func TestCategories_UpdateToTakenName(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.categories.Create(ctx, "Postres")
	require.NoError(t, err)
	_, err = e.categories.Create(ctx, "Sopas")
	require.NoError(t, err)

	sopas, err := e.mem.CategoryByName(ctx, "Sopas")
	require.NoError(t, err)
	_, err = e.categories.Update(ctx, sopas.ID, "Postres")
	kindOf(t, err, common.ErrDuplicate, "El registro: Postres ya existe en el sistema")
}

func TestCategories_DeleteBlockedByRecipes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.categories.Create(ctx, "Postres")
	require.NoError(t, err)
	c, err := e.mem.CategoryByName(ctx, "Postres")
	require.NoError(t, err)
	require.NoError(t, e.mem.CreateRecipe(ctx, &models.Recipe{Nombre: "Flan", CategoriaID: c.ID, UsuarioID: 1, Foto: "1.png"}))

	_, err = e.categories.Delete(ctx, c.ID)
	kindOf(t, err, common.ErrConflict, msgHasRecipes)

	_, err = e.categories.Get(ctx, c.ID)
	assert.NoError(t, err)
}

func TestCategories_MutationsInvalidateListings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.categories.Create(ctx, "Postres")
	require.NoError(t, err)
	c, err := e.mem.CategoryByName(ctx, "Postres")
	require.NoError(t, err)

	e.cache.Set(ctx, cache.KeyRecipes, []byte("[]"))
	e.cache.Set(ctx, cache.KeyHome, []byte("[]"))

	_, err = e.categories.Update(ctx, c.ID, "Dulces")
	require.NoError(t, err)

	_, hit := e.cache.Get(ctx, cache.KeyRecipes)
	assert.False(t, hit)
	_, hit = e.cache.Get(ctx, cache.KeyHome)
	assert.False(t, hit)
}
