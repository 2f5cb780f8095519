package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FieldErrorsResponse errores de validación a nivel de campo (la validación
// de borradores devuelve datos, no excepciones).
type FieldErrorsResponse struct {
	Code   string       `json:"code"`
	Errors []FieldError `json:"errors"`
}

// FieldError un error de validación con el campo ofensor.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
