package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrConfig       = errors.New("configuración incompleta")

	// Proveedor de precios (Kroger Product API y similares).
	ErrTokenExchange  = errors.New("intercambio de credenciales OAuth fallido")
	ErrUnauthorized   = errors.New("proveedor rechazó el token (401)")
	ErrRateLimited    = errors.New("límite de peticiones del proveedor excedido (429)")
	ErrProviderStatus = errors.New("respuesta no exitosa del proveedor")
)
