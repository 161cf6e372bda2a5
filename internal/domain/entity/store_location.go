package entity

import "strings"

// locationIDWidth ancho del código de tienda de Kroger (3 dígitos de división + 5 de tienda).
const locationIDWidth = 8

// StoreLocation tienda a consultar. LocationID es la llave de unión con la API de productos.
type StoreLocation struct {
	LocationID string
	Name       string
	Chain      string
	State      string
	ZipCode    string
}

// NormalizeLocationID recorta espacios y rellena con ceros a la izquierda los IDs numéricos
// hasta 8 caracteres ("1400943" → "01400943"). IDs no numéricos se devuelven recortados.
func NormalizeLocationID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || len(id) >= locationIDWidth {
		return id
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return id
		}
	}
	return strings.Repeat("0", locationIDWidth-len(id)) + id
}
