package assets

import (
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"recetas-api/internal/common"
)

// allowedExt lists the accepted image extensions. Only the extension is
// checked; file contents are not sniffed.
var allowedExt = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// Upload is a file received from a client that has not been stored yet.
type Upload struct {
	Filename    string
	Size        int64
	ContentType string
	Open        func() (io.ReadSeekCloser, error)
}

func FromFileHeader(fh *multipart.FileHeader) Upload {
	return Upload{
		Filename:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadSeekCloser, error) {
			return fh.Open()
		},
	}
}

// Ext returns the lower-cased extension of the client filename.
func (u Upload) Ext() string {
	return strings.ToLower(filepath.Ext(u.Filename))
}

// Validate checks the extension and size limits.
func (u Upload) Validate(maxBytes int64) error {
	if u.Open == nil || u.Filename == "" {
		return common.Validation("El archivo es requerido")
	}
	if _, ok := allowedExt[u.Ext()]; !ok {
		return common.Validation("Tipo de archivo no permitido, solo se aceptan png, jpg y jpeg")
	}
	if maxBytes > 0 && u.Size > maxBytes {
		return common.Validation("El archivo supera el tamaño maximo de %d MB", maxBytes>>20)
	}
	return nil
}
