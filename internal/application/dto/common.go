package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthDTO respuesta de GET /health.
type HealthDTO struct {
	Status string `json:"status"`
	App    string `json:"app"`
}
