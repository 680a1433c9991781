package dto

import "time"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=500"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas. Count es la cantidad de items de
// esta página, no el total de coincidencias.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// QueryDate fecha de un filtro por query. DateOnly indica que llegó sin hora (2006-01-02).
type QueryDate struct {
	At       time.Time
	DateOnly bool
}

// Start límite inferior del rango.
func (d *QueryDate) Start() *time.Time {
	if d == nil {
		return nil
	}
	t := d.At
	return &t
}

// End límite superior inclusivo: una fecha sin hora cubre todo ese día.
func (d *QueryDate) End() *time.Time {
	if d == nil {
		return nil
	}
	t := d.At
	if d.DateOnly {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}

// ErrorResponse cuerpo de error HTTP. ProductID/LocationID acompañan a INSUFFICIENT_STOCK.
type ErrorResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	ProductID  string `json:"product_id,omitempty"`
	LocationID string `json:"location_id,omitempty"`
}
