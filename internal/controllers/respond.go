// Package controllers holds the gin handlers of the public API.
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"recetas-api/internal/common"
)

const msgUnexpected = "Ocurrio un error inesperado"

func statusOf(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrDuplicate),
		errors.Is(err, common.ErrReferential),
		errors.Is(err, common.ErrConflict),
		errors.Is(err, common.ErrAuth):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail aborts with the status matching err's kind. Errors without a
// kind are recorded on the context for the request log and hidden from
// the client.
func fail(c *gin.Context, err error) {
	status := statusOf(err)
	msg := common.Message(err, msgUnexpected)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = msgUnexpected
	}
	c.AbortWithStatusJSON(status, gin.H{"estado": status, "error": msg})
}

// idParam reads a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, common.Validation("El parametro %s debe ser un numero valido", name)
	}
	return uint(id), nil
}
