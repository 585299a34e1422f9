package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                 = errors.New("recurso no encontrado")
	ErrInvalidInput             = errors.New("entrada inválida")
	ErrEmptyLineSet             = errors.New("no se seleccionó ningún ítem")
	ErrProductNotFound          = errors.New("producto no encontrado")
	ErrInvalidCostRecalculation = errors.New("el recálculo de costo divide por cero")
	ErrUnauthorized             = errors.New("no autorizado")
	ErrForbidden                = errors.New("acceso denegado")
)

// ProductNotFoundError indica qué línea de la compra referencia un producto inexistente.
// Line es la posición (base 0) dentro del conjunto de líneas que se estaba procesando.
type ProductNotFoundError struct {
	ProductID string
	Line      int
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("producto %q no encontrado (línea %d)", e.ProductID, e.Line)
}

// Is permite errors.Is(err, ErrProductNotFound).
func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// ValidationError agrupa los campos inválidos de una petición: campo -> regla incumplida.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validación: " + strings.Join(parts, ", ")
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError crea un ValidationError con un único campo.
func NewValidationError(field, rule string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: rule}}
}
