// Package router assembles the gin engine.
package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"recetas-api/internal/assets"
	"recetas-api/internal/auth"
	"recetas-api/internal/controllers"
	"recetas-api/internal/middleware"
	"recetas-api/internal/services"
)

const APIPrefix = "/api/v1"

type Deps struct {
	Log        *slog.Logger
	Issuer     *auth.Issuer
	Accounts   *services.Accounts
	Categories *services.Categories
	Recipes    *services.Recipes
	Contacts   *services.Contacts

	// Photos manages recipe photos, Files loose uploads. Both write to Blobs.
	Photos *assets.Manager
	Files  *assets.Manager
	Blobs  assets.Store

	PublicBaseURL string
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log), middleware.CORS())

	authCtl := controllers.NewAuthController(d.Accounts, d.PublicBaseURL, APIPrefix+"/usuarios/verificacion")
	categoryCtl := controllers.NewCategoriesController(d.Categories)
	recipeCtl := controllers.NewRecipesController(d.Recipes, d.PublicBaseURL, d.Photos.Prefix())
	contactCtl := controllers.NewContactController(d.Contacts)
	uploadCtl := controllers.NewUploadController(d.Files, d.Blobs)

	bearer := middleware.RequireBearer(d.Issuer)

	api := r.Group(APIPrefix)
	{
		usuarios := api.Group("/usuarios")
		usuarios.POST("/registro", authCtl.Register)
		usuarios.GET("/verificacion/:token", authCtl.Verify)
		usuarios.POST("/login", authCtl.Login)

		categorias := api.Group("/categorias")
		categorias.GET("", categoryCtl.List)
		categorias.GET("/:id", categoryCtl.Get)
		categorias.POST("", categoryCtl.Create)
		categorias.PUT("/:id", categoryCtl.Update)
		categorias.DELETE("/:id", categoryCtl.Delete)

		recetas := api.Group("/recetas")
		recetas.GET("", recipeCtl.List)
		recetas.GET("/:id", recipeCtl.Get)
		recetas.POST("", bearer, recipeCtl.Create)
		recetas.PUT("/:id", bearer, recipeCtl.Update)
		recetas.DELETE("/:id", bearer, recipeCtl.Delete)

		helper := api.Group("/recetas-helper")
		helper.GET("", recipeCtl.Home)
		helper.GET("/buscador", recipeCtl.Search)
		helper.GET("/panel/:id", bearer, recipeCtl.Panel)
		helper.POST("/:id", bearer, recipeCtl.UpdatePhoto)

		api.POST("/contacto", contactCtl.Submit)
		api.POST("/upload", uploadCtl.Upload)
	}

	r.GET(controllers.UploadsRoute+"/*filepath", uploadCtl.Serve)
	return r
}
