package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recetas-api/internal/assets"
	"recetas-api/internal/common"
	"recetas-api/internal/middleware"
	"recetas-api/internal/services"
)

type RecipesController struct {
	recipes     *services.Recipes
	publicURL   string
	photoPrefix string
}

func NewRecipesController(recipes *services.Recipes, publicURL, photoPrefix string) *RecipesController {
	return &RecipesController{recipes: recipes, publicURL: publicURL, photoPrefix: photoPrefix}
}

// recipeForm is bound from multipart forms on create and from either a
// form or JSON on update.
type recipeForm struct {
	Nombre      string `form:"nombre" json:"nombre" binding:"required,max=255"`
	Tiempo      string `form:"tiempo" json:"tiempo" binding:"required,max=100"`
	Descripcion string `form:"descripcion" json:"descripcion" binding:"required"`
	CategoriaID uint   `form:"categoria_id" json:"categoria_id" binding:"required"`
	UsuarioID   uint   `form:"usuario_id" json:"usuario_id"`
}

func (f recipeForm) input() services.RecipeInput {
	return services.RecipeInput{
		Nombre:      f.Nombre,
		Tiempo:      f.Tiempo,
		Descripcion: f.Descripcion,
		CategoriaID: f.CategoriaID,
		UsuarioID:   f.UsuarioID,
	}
}

// uploadedPhoto reads the "file" part of a multipart request.
func uploadedPhoto(c *gin.Context) (assets.Upload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return assets.Upload{}, common.Validation("El archivo es requerido")
		}
		return assets.Upload{}, common.Validation("No se pudo leer el archivo enviado")
	}
	return assets.FromFileHeader(fh), nil
}

func (h *RecipesController) photoBase(c *gin.Context) string {
	return photoBase(c, h.publicURL, h.photoPrefix)
}

// GET /recetas
func (h *RecipesController) List(c *gin.Context) {
	rs, err := h.recipes.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipeViews(rs, h.photoBase(c)))
}

// GET /recetas/:id
func (h *RecipesController) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	r, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeView(*r, h.photoBase(c)))
}

// POST /recetas
func (h *RecipesController) Create(c *gin.Context) {
	var f recipeForm
	if err := c.ShouldBind(&f); err != nil {
		fail(c, bindError(err))
		return
	}
	up, err := uploadedPhoto(c)
	if err != nil {
		fail(c, err)
		return
	}

	in := f.input()
	if in.UsuarioID == 0 {
		in.UsuarioID, _ = middleware.UserID(c)
	}
	res, err := h.recipes.Create(c.Request.Context(), in, up)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// PUT /recetas/:id
func (h *RecipesController) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var f recipeForm
	if err := c.ShouldBind(&f); err != nil {
		fail(c, bindError(err))
		return
	}
	res, err := h.recipes.Update(c.Request.Context(), id, f.input())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /recetas/:id
func (h *RecipesController) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	res, err := h.recipes.Delete(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /recetas-helper
func (h *RecipesController) Home(c *gin.Context) {
	rs, err := h.recipes.Home(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipeViews(rs, h.photoBase(c)))
}

// GET /recetas-helper/buscador?categoria_id=&search=
func (h *RecipesController) Search(c *gin.Context) {
	categoriaID, err := strconv.ParseUint(c.Query("categoria_id"), 10, 64)
	if err != nil || categoriaID == 0 {
		fail(c, common.Validation("El parametro categoria_id debe ser un numero valido"))
		return
	}
	rs, err := h.recipes.Search(c.Request.Context(), uint(categoriaID), c.Query("search"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipeViews(rs, h.photoBase(c)))
}

// GET /recetas-helper/panel/:id
func (h *RecipesController) Panel(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	rs, err := h.recipes.Panel(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipeViews(rs, h.photoBase(c)))
}

// POST /recetas-helper/:id
func (h *RecipesController) UpdatePhoto(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	up, err := uploadedPhoto(c)
	if err != nil {
		fail(c, err)
		return
	}
	res, err := h.recipes.UpdatePhoto(c.Request.Context(), id, up)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
