package dto

// PageRequest paginación para listados (page base 1).
type PageRequest struct {
	Page int `query:"page" validate:"omitempty,min=1"`
}

// Offset devuelve el desplazamiento para el tamaño de página dado.
func (p PageRequest) Offset(pageSize int) int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * pageSize
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// MessageResponse envoltorio de respuestas de escritura y detalle.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse cuerpo de error HTTP. Code es estable y distinguible por máquina.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	ProductID string            `json:"product_id,omitempty"`
	Line      *int              `json:"line,omitempty"`
}
