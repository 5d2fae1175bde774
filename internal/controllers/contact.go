package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recetas-api/internal/services"
)

type ContactController struct {
	contacts *services.Contacts
}

func NewContactController(contacts *services.Contacts) *ContactController {
	return &ContactController{contacts: contacts}
}

type contactPayload struct {
	Nombre   string `json:"nombre" binding:"required,max=255"`
	Correo   string `json:"correo" binding:"required,email"`
	Telefono string `json:"telefono" binding:"required,e164"`
	Mensaje  string `json:"mensaje" binding:"required"`
}

// POST /contacto
func (h *ContactController) Submit(c *gin.Context) {
	var p contactPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, bindError(err))
		return
	}
	res, err := h.contacts.Submit(c.Request.Context(), services.ContactInput{
		Nombre:   p.Nombre,
		Correo:   p.Correo,
		Telefono: p.Telefono,
		Mensaje:  p.Mensaje,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}
