package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recetas-api/internal/services"
)

type AuthController struct {
	accounts   *services.Accounts
	publicURL  string
	verifyPath string
}

// NewAuthController serves registration, verification and login.
// verifyPath is the route of Verify, used to build the emailed link.
func NewAuthController(accounts *services.Accounts, publicURL, verifyPath string) *AuthController {
	return &AuthController{accounts: accounts, publicURL: publicURL, verifyPath: verifyPath}
}

type registerPayload struct {
	Nombre   string `json:"nombre" binding:"required,max=255"`
	Correo   string `json:"correo" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=72"`
}

// POST /usuarios/registro
func (a *AuthController) Register(c *gin.Context) {
	var p registerPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, bindError(err))
		return
	}

	res, err := a.accounts.Register(c.Request.Context(), services.RegisterInput{
		Nombre:   p.Nombre,
		Correo:   p.Correo,
		Password: p.Password,
	}, baseURL(c, a.publicURL)+a.verifyPath)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /usuarios/verificacion/:token
func (a *AuthController) Verify(c *gin.Context) {
	redirect, err := a.accounts.Verify(c.Request.Context(), c.Param("token"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, redirect)
}

type loginPayload struct {
	Correo   string `json:"correo" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /usuarios/login
func (a *AuthController) Login(c *gin.Context) {
	var p loginPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, bindError(err))
		return
	}

	res, err := a.accounts.Login(c.Request.Context(), p.Correo, p.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
