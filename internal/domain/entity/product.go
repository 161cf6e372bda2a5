package entity

import "github.com/shopspring/decimal"

// Niveles de inventario reportados por el proveedor.
const (
	StockLevelHigh       = "HIGH"
	StockLevelLow        = "LOW"
	StockLevelOutOfStock = "TEMPORARILY_OUT_OF_STOCK"
)

// Product entrada de catálogo devuelta por la búsqueda de productos. Transitoria:
// solo vive durante la consulta de una tienda, nunca se persiste.
type Product struct {
	ProductID   string
	UPC         string
	Brand       string
	Description string
	Items       []ProductItem
}

// ProductItem presentación del producto por canal de despacho.
type ProductItem struct {
	ItemID      string
	Size        string
	Price       ItemPrice
	Fulfillment Fulfillment
	StockLevel  string
}

// ItemPrice registro de precios; cualquier campo puede faltar.
type ItemPrice struct {
	Regular  decimal.NullDecimal
	Promo    decimal.NullDecimal
	Current  decimal.NullDecimal
	Original decimal.NullDecimal
	Final    decimal.NullDecimal
	Retail   decimal.NullDecimal
}

// Fulfillment canales en los que el ítem está disponible.
type Fulfillment struct {
	InStore    bool
	Curbside   bool
	Delivery   bool
	ShipToHome bool
}

// IsOutOfStock indica si el ítem está marcado como agotado.
func (i ProductItem) IsOutOfStock() bool {
	return i.StockLevel == StockLevelOutOfStock
}
