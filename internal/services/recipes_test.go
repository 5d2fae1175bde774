package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recetas-api/internal/cache"
	"recetas-api/internal/common"
	"recetas-api/internal/models"
	"recetas-api/internal/store"
)

func seedCategory(t *testing.T, e *env, nombre string) uint {
	t.Helper()
	ctx := context.Background()
	_, err := e.categories.Create(ctx, nombre)
	require.NoError(t, err)
	c, err := e.mem.CategoryByName(ctx, nombre)
	require.NoError(t, err)
	return c.ID
}

func createRecipe(t *testing.T, e *env, in RecipeInput) *models.Recipe {
	t.Helper()
	ctx := context.Background()
	_, err := e.recipes.Create(ctx, in, photo("foto.png", "img-"+in.Nombre))
	require.NoError(t, err)
	r, err := e.mem.RecipeByName(ctx, in.Nombre)
	require.NoError(t, err)
	return r
}

func TestRecipes_CreateBindsPhoto(t *testing.T) {
	e := newEnv(t)
	cat := seedCategory(t, e, "Postres")

	r := createRecipe(t, e, RecipeInput{Nombre: "Flan de Leche", Tiempo: "1 hora", Descripcion: "rico", CategoriaID: cat})
	e.settle(t)

	assert.Equal(t, "flan-de-leche", r.Slug)
	assert.Equal(t, uint(1), r.UsuarioID, "owner defaults to the fallback user")
	assert.Regexp(t, `^\d+\.png$`, r.Foto)
	assert.True(t, e.blobExists(t, r.Foto))
	assert.Equal(t, []string{r.Foto}, e.photoFiles(t))
}

func TestRecipes_CreateKeepsExplicitOwner(t *testing.T) {
	e := newEnv(t)
	cat := seedCategory(t, e, "Postres")
	token := register(t, e, "Ana", "ana@x.cl", "secret")
	_, err := e.accounts.Verify(context.Background(), token)
	require.NoError(t, err)
	ana, err := e.mem.UserByEmail(context.Background(), "ana@x.cl")
	require.NoError(t, err)

	r := createRecipe(t, e, RecipeInput{Nombre: "Kuchen", CategoriaID: cat, UsuarioID: ana.ID})
	assert.Equal(t, ana.ID, r.UsuarioID)
}

func TestRecipes_CreateWithMissingCategoryLeavesNoFile(t *testing.T) {
	e := newEnv(t)

	_, err := e.recipes.Create(context.Background(), RecipeInput{Nombre: "Flan", CategoriaID: 999}, photo("a.jpg", "img"))
	kindOf(t, err, common.ErrReferential, "La categoría con ID: 999 no existe en el sistema")

	e.settle(t)
	assert.Empty(t, e.photoFiles(t))
}

func TestRecipes_CreateWithUnknownOwnerLeavesNoFile(t *testing.T) {
	e := newEnv(t)
	cat := seedCategory(t, e, "Postres")

	_, err := e.recipes.Create(context.Background(), RecipeInput{Nombre: "Flan", CategoriaID: cat, UsuarioID: 999}, photo("a.jpg", "img"))
	kindOf(t, err, common.ErrReferential, "El usuario con ID: 999 no existe en el sistema")

	e.settle(t)
	assert.Empty(t, e.photoFiles(t))
}

func TestRecipes_StoreReferentialBlamesMissingOwner(t *testing.T) {
	e := newEnv(t)
	cat := seedCategory(t, e, "Postres")

	err := e.recipes.storeError(context.Background(), "op", common.ErrReferential, RecipeInput{CategoriaID: cat, UsuarioID: 999})
	kindOf(t, err, common.ErrReferential, "El usuario con ID: 999 no existe en el sistema")

	err = e.recipes.storeError(context.Background(), "op", common.ErrReferential, RecipeInput{CategoriaID: 7, UsuarioID: store.FallbackUser.ID})
	kindOf(t, err, common.ErrReferential, "La categoría con ID: 7 no existe en el sistema")
}

func TestRecipes_CreateDuplicateNameKeepsFirstFile(t *testing.T) {
	e := newEnv(t)
	cat := seedCategory(t, e, "Postres")
	first := createRecipe(t, e, RecipeInput{Nombre: "Flan", CategoriaID: cat})

	_, err := e.recipes.Create(context.Background(), RecipeInput{Nombre: "Flan", CategoriaID: cat}, photo("b.png", "other"))
	kindOf(t, err, common.ErrDuplicate, "El registro: Flan ya existe en el sistema")

	e.settle(t)
	assert.Equal(t, []string{first.Foto}, e.photoFiles(t))
}

func TestRecipes_CreateRejectsBadUpload(t *testing.T) {
	e := newEnv(t)
	cat := seedCategory(t, e, "Postres")

	_, err := e.recipes.Create(context.Background(), RecipeInput{Nombre: "Flan", CategoriaID: cat}, photo("doc.pdf", "x"))
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = e.recipes.Create(context.Background(), RecipeInput{Nombre: "Flan", CategoriaID: cat}, photo("", ""))
	require.ErrorIs(t, err, common.ErrValidation)

	e.settle(t)
	assert.Empty(t, e.photoFiles(t))
}

func TestRecipes_Update(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	postres := seedCategory(t, e, "Postres")
	sopas := seedCategory(t, e, "Sopas")
	flan := createRecipe(t, e, RecipeInput{Nombre: "Flan", CategoriaID: postres})
	createRecipe(t, e, RecipeInput{Nombre: "Cazuela", CategoriaID: sopas})

	_, err := e.recipes.Update(ctx, flan.ID, RecipeInput{Nombre: "Flan Casero", Tiempo: "2 horas", Descripcion: "d", CategoriaID: sopas})
	require.NoError(t, err)
	got, err := e.recipes.Get(ctx, flan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flan Casero", got.Nombre)
	assert.Equal(t, "flan-casero", got.Slug)
	assert.Equal(t, sopas, got.CategoriaID)
	assert.Equal(t, flan.Foto, got.Foto)

	_, err = e.recipes.Update(ctx, flan.ID, RecipeInput{Nombre: "Flan Casero", CategoriaID: 999})
	kindOf(t, err, common.ErrReferential, "La categoría con ID: 999 no existe en el sistema")

	_, err = e.recipes.Update(ctx, 999, RecipeInput{Nombre: "X", CategoriaID: postres})
	kindOf(t, err, common.ErrNotFound, msgNotFound)

	_, err = e.recipes.Update(ctx, flan.ID, RecipeInput{Nombre: "Cazuela", CategoriaID: postres})
	kindOf(t, err, common.ErrDuplicate, "El registro: Cazuela ya existe en el sistema")
}

func TestRecipes_UpdatePhotoReplacesFile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cat := seedCategory(t, e, "Postres")
	flan := createRecipe(t, e, RecipeInput{Nombre: "Flan", CategoriaID: cat})

	_, err := e.recipes.UpdatePhoto(ctx, flan.ID, photo("nueva.JPG", "new"))
	require.NoError(t, err)
	e.settle(t)

	got, err := e.mem.RecipeByID(ctx, flan.ID)
	require.NoError(t, err)
	assert.NotEqual(t, flan.Foto, got.Foto)
	assert.Regexp(t, `^\d+\.jpg$`, got.Foto)
	assert.Equal(t, []string{got.Foto}, e.photoFiles(t))
}

func TestRecipes_UpdatePhotoMissingRecipe(t *testing.T) {
	e := newEnv(t)

	_, err := e.recipes.UpdatePhoto(context.Background(), 42, photo("a.png", "x"))
	kindOf(t, err, common.ErrNotFound, msgNotFound)

	e.settle(t)
	assert.Empty(t, e.photoFiles(t))
}

func TestRecipes_DeleteReleasesPhoto(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cat := seedCategory(t, e, "Postres")
	flan := createRecipe(t, e, RecipeInput{Nombre: "Flan", CategoriaID: cat})

	_, err := e.recipes.Delete(ctx, flan.ID)
	require.NoError(t, err)
	e.settle(t)
	assert.Empty(t, e.photoFiles(t))

	_, err = e.recipes.Get(ctx, flan.ID)
	kindOf(t, err, common.ErrNotFound, msgNotFound)
	_, err = e.recipes.Delete(ctx, flan.ID)
	kindOf(t, err, common.ErrNotFound, msgNotFound)
}

func TestRecipes_HomeSearchPanel(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	postres := seedCategory(t, e, "Postres")
	sopas := seedCategory(t, e, "Sopas")

	createRecipe(t, e, RecipeInput{Nombre: "Flan de leche", CategoriaID: postres})
	createRecipe(t, e, RecipeInput{Nombre: "Leche asada", CategoriaID: postres})
	createRecipe(t, e, RecipeInput{Nombre: "Cazuela", CategoriaID: sopas, UsuarioID: 1})
	createRecipe(t, e, RecipeInput{Nombre: "Sopa de leche", CategoriaID: sopas})

	home, err := e.recipes.Home(ctx)
	require.NoError(t, err)
	require.Len(t, home, 3)
	assert.Equal(t, "Sopa de leche", home[0].Nombre)
	assert.Equal(t, "Leche asada", home[2].Nombre)

	found, err := e.recipes.Search(ctx, postres, "LECHE")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	_, err = e.recipes.Search(ctx, 999, "leche")
	kindOf(t, err, common.ErrReferential, "La categoría con ID: 999 no existe en el sistema")

	panel, err := e.recipes.Panel(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, panel, 4)
	assert.Equal(t, "Sopa de leche", panel[0].Nombre)

	none, err := e.recipes.Panel(ctx, 77)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecipes_ListingsAreCachedUntilMutation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cat := seedCategory(t, e, "Postres")
	flan := createRecipe(t, e, RecipeInput{Nombre: "Flan", CategoriaID: cat})

	all, err := e.recipes.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Postres", all[0].Categoria.Nombre)

	_, hit := e.cache.Get(ctx, cache.KeyRecipes)
	require.True(t, hit)

	// A write behind the service's back is not visible while cached.
	require.NoError(t, e.mem.CreateRecipe(ctx, &models.Recipe{Nombre: "Kuchen", CategoriaID: cat, UsuarioID: 1, Foto: "x.png"}))
	all, err = e.recipes.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = e.recipes.Delete(ctx, flan.ID)
	require.NoError(t, err)
	_, hit = e.cache.Get(ctx, cache.KeyRecipes)
	assert.False(t, hit)

	all, err = e.recipes.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Kuchen", all[0].Nombre)
	e.settle(t)
}
