package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperror "govagas/internal/errors"
)

// Instância única do validador: as tags `validate` nos payloads do
// domínio são o "insert shape" declarado, verificado no servidor
// independentemente do que o cliente validou.
var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())

	// Usa o nome da tag json nas mensagens, que é o nome do campo que o
	// cliente realmente enviou.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return val
}

// Struct valida um payload contra suas tags e retorna um
// ValidationError com mensagem orientada a campo, ou nil.
func Struct(payload interface{}) error {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewValidationError("Payload inválido.")
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("campo %s: %s", fe.Field(), reason(fe)))
	}
	return apperror.NewValidationError(strings.Join(msgs, "; "))
}

// reason traduz a tag violada para uma razão legível.
func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "obrigatório"
	case "email":
		return "deve ser um e-mail válido"
	case "min":
		return fmt.Sprintf("tamanho mínimo %s", fe.Param())
	case "len":
		return fmt.Sprintf("deve ter exatamente %s caracteres", fe.Param())
	case "numeric":
		return "deve conter apenas dígitos"
	case "uuid":
		return "deve ser um UUID válido"
	case "url":
		return "deve ser uma URL válida"
	case "gte":
		return fmt.Sprintf("deve ser maior ou igual a %s", fe.Param())
	case "lte":
		return fmt.Sprintf("deve ser menor ou igual a %s", fe.Param())
	case "gtfield":
		return fmt.Sprintf("deve ser posterior a %s", fe.Param())
	default:
		return fmt.Sprintf("violou a regra '%s'", fe.Tag())
	}
}
