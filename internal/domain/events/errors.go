package events

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")
	ErrBackend      = errors.New("backend failure")

	ErrVeterinarianRequired = fmt.Errorf("%w: veterinarian role required", ErrUnauthorized)
	ErrNotOwner             = fmt.Errorf("%w: not the animal's owner", ErrUnauthorized)
)

// ErrorKind devuelve el nombre de la categoría para respuestas y métricas.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	default:
		return "backend_failure"
	}
}
