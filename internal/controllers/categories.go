package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recetas-api/internal/services"
)

type CategoriesController struct {
	categories *services.Categories
}

func NewCategoriesController(categories *services.Categories) *CategoriesController {
	return &CategoriesController{categories: categories}
}

type categoryPayload struct {
	Nombre string `json:"nombre" binding:"required,max=100"`
}

func (h *CategoriesController) List(c *gin.Context) {
	cs, err := h.categories.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}

func (h *CategoriesController) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	cat, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *CategoriesController) Create(c *gin.Context) {
	var p categoryPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, bindError(err))
		return
	}
	res, err := h.categories.Create(c.Request.Context(), p.Nombre)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *CategoriesController) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var p categoryPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, bindError(err))
		return
	}
	res, err := h.categories.Update(c.Request.Context(), id, p.Nombre)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *CategoriesController) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	res, err := h.categories.Delete(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
