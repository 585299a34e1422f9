package entity

import "time"

// Category representa una categoría de productos.
type Category struct {
	ID        string
	Name      string
	ImageURL  string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}
