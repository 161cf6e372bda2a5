package entity

import "github.com/shopspring/decimal"

// Bucket dimensión de clasificación de los huevos.
type Bucket string

const (
	BucketRegular Bucket = "regular"
	BucketOrganic Bucket = "organic"
)

// ClassifiedPrice precio de un producto que pasó ambos filtros (huevo + docena).
type ClassifiedPrice struct {
	Bucket Bucket
	Price  decimal.Decimal
}

// StoreFetch resultado de consultar y clasificar una tienda.
// Matched incluye productos sin precio utilizable; se usan para derivar el estado de stock.
type StoreFetch struct {
	RegularPrices []decimal.Decimal
	OrganicPrices []decimal.Decimal
	Matched       []Product
}

// Add agrega un precio clasificado a su bucket.
func (f *StoreFetch) Add(cp ClassifiedPrice) {
	switch cp.Bucket {
	case BucketOrganic:
		f.OrganicPrices = append(f.OrganicPrices, cp.Price)
	default:
		f.RegularPrices = append(f.RegularPrices, cp.Price)
	}
}
