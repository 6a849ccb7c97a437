package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los detalles se adjuntan con fmt.Errorf("%w: ...", ErrX); comparar siempre con errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrDependencyFailure = errors.New("falla de una dependencia externa")
)
