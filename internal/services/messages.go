package services

import (
	"errors"
	"fmt"

	"recetas-api/internal/common"
)

const (
	msgNotFound       = "El registro no existe en el sistema"
	msgUnavailable    = "Recurso no disponible"
	msgUnexpected     = "Ocurrio un error inesperado"
	msgHasRecipes     = "No se puede eliminar la categoría porque tiene recetas asociadas"
	msgCreated        = "Registro creado correctamente"
	msgUpdated        = "Se ha modificado el registro correctamente"
	msgRecipeDeleted  = "Se ha eliminado el registro correctamente"
	msgCategoryDelete = "Registro eliminado correctamente"
	msgRegistered     = "Usuario registrado correctamente"
	msgContactSaved   = "Datos de contacto guardados correctamente"
)

// Result is the acknowledgement returned by mutations.
type Result struct {
	Estado  string `json:"estado"`
	Mensaje string `json:"mensaje"`
}

func ok(mensaje string) Result {
	return Result{Estado: "OK", Mensaje: mensaje}
}

func duplicateName(nombre string) error {
	return common.Duplicate("El registro: %s ya existe en el sistema", nombre)
}

func missingCategory(id uint) error {
	return common.Referential("La categoría con ID: %d no existe en el sistema", id)
}

func missingUser(id uint) error {
	return common.Referential("El usuario con ID: %d no existe en el sistema", id)
}

// internal wraps a failure that has no client-facing meaning.
func internal(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

func notFound(err error) bool {
	return errors.Is(err, common.ErrNotFound)
}
