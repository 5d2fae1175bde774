package controllers

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"recetas-api/internal/assets"
	"recetas-api/internal/common"
)

// UploadsRoute is where stored files are served from.
const UploadsRoute = "/uploads"

type UploadController struct {
	files *assets.Manager
	blobs assets.Store
}

// NewUploadController saves loose uploads through files and serves any
// stored key from blobs.
func NewUploadController(files *assets.Manager, blobs assets.Store) *UploadController {
	return &UploadController{files: files, blobs: blobs}
}

// POST /upload
func (h *UploadController) Upload(c *gin.Context) {
	up, err := uploadedPhoto(c)
	if err != nil {
		fail(c, err)
		return
	}
	name, err := h.files.Save(c.Request.Context(), up)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"estado":        "OK",
		"mensaje":       "Se subio el archivo correctamente",
		"nombre":        up.Filename,
		"archivoSubido": name,
		"mimetype":      up.ContentType,
	})
}

// GET /uploads/*filepath
func (h *UploadController) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("filepath"), "/")
	rc, err := h.blobs.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			err = common.NotFound("Recurso no disponible")
		}
		fail(c, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}
