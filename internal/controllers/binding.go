package controllers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"recetas-api/internal/common"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
	}
}

// fieldName reports fields by their wire name so messages match what the
// client sent.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// bindError turns a gin binding failure into a validation error with a
// message for the first offending field.
func bindError(err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return common.Validation("Los datos enviados no son validos")
	}
	fe := ves[0]
	switch fe.Tag() {
	case "required":
		return common.Validation("El campo %s no debe estar vacio", fe.Field())
	case "email":
		return common.Validation("El correo ingresado no es valido")
	case "e164":
		return common.Validation("El numero de telefono ingresado no es valido")
	case "max":
		return common.Validation("El campo %s supera el largo permitido", fe.Field())
	default:
		return common.Validation("El campo %s no es valido", fe.Field())
	}
}
