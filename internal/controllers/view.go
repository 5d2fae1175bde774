package controllers

import (
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"recetas-api/internal/models"
)

const dateLayout = "02-01-2006"

// recipeView is the flattened recipe returned by every listing.
type recipeView struct {
	ID          uint   `json:"id"`
	Nombre      string `json:"nombre"`
	Slug        string `json:"slug"`
	Tiempo      string `json:"tiempo"`
	Fecha       string `json:"fecha"`
	Foto        string `json:"foto"`
	Descripcion string `json:"descripcion"`
	CategoriaID uint   `json:"categoria_id"`
	Categoria   string `json:"categoria"`
	UsuarioID   uint   `json:"usuario_id"`
	Usuario     string `json:"usuario"`
}

// baseURL is scheme://host of the public API. A configured value wins over
// the request's own host.
func baseURL(c *gin.Context, configured string) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if p := c.GetHeader("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + c.Request.Host
}

func newRecipeView(r models.Recipe, photoBase string) recipeView {
	return recipeView{
		ID:          r.ID,
		Nombre:      r.Nombre,
		Slug:        r.Slug,
		Tiempo:      r.Tiempo,
		Fecha:       r.Fecha.Format(dateLayout),
		Foto:        photoBase + "/" + r.Foto,
		Descripcion: r.Descripcion,
		CategoriaID: r.CategoriaID,
		Categoria:   r.Categoria.Nombre,
		UsuarioID:   r.UsuarioID,
		Usuario:     r.Usuario.Nombre,
	}
}

// photoBase is the absolute URL under which files with prefix are served.
func photoBase(c *gin.Context, configured, prefix string) string {
	return baseURL(c, configured) + path.Join(UploadsRoute, prefix)
}

func recipeViews(rs []models.Recipe, base string) []recipeView {
	out := make([]recipeView, 0, len(rs))
	for _, r := range rs {
		out = append(out, newRecipeView(r, base))
	}
	return out
}
