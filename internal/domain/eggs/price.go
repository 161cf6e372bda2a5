package eggs

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/egg-price-terminal/internal/domain"
	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

// PriceField campo del registro de precios del proveedor.
type PriceField string

const (
	FieldPromo    PriceField = "promo"
	FieldRegular  PriceField = "regular"
	FieldOriginal PriceField = "original"
	FieldCurrent  PriceField = "current"
	FieldFinal    PriceField = "final"
	FieldRetail   PriceField = "retail"
)

// DefaultPriceOrder prioridad por defecto: promoción, regular y luego campos alternativos.
var DefaultPriceOrder = []PriceField{FieldPromo, FieldRegular, FieldOriginal, FieldCurrent, FieldFinal, FieldRetail}

// MinValidPrice umbral mínimo: un precio debe ser estrictamente mayor para contar.
var MinValidPrice = decimal.New(1, -2)

// ParsePriceOrder convierte "promo,regular,retail" en la lista de campos. Vacío → DefaultPriceOrder.
func ParsePriceOrder(csv string) ([]PriceField, error) {
	if strings.TrimSpace(csv) == "" {
		return DefaultPriceOrder, nil
	}
	var order []PriceField
	seen := make(map[PriceField]bool)
	for _, part := range strings.Split(csv, ",") {
		f := PriceField(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		switch f {
		case FieldPromo, FieldRegular, FieldOriginal, FieldCurrent, FieldFinal, FieldRetail:
		default:
			return nil, fmt.Errorf("%w: campo de precio desconocido %q", domain.ErrInvalidInput, part)
		}
		if !seen[f] {
			seen[f] = true
			order = append(order, f)
		}
	}
	if len(order) == 0 {
		return DefaultPriceOrder, nil
	}
	return order, nil
}

// SelectItem elige el primer ítem disponible en tienda; si ninguno lo está, el primero.
func SelectItem(p entity.Product) (entity.ProductItem, bool) {
	if len(p.Items) == 0 {
		return entity.ProductItem{}, false
	}
	for _, it := range p.Items {
		if it.Fulfillment.InStore {
			return it, true
		}
	}
	return p.Items[0], true
}

// ExtractPrice devuelve el primer campo, en el orden dado, con valor > $0.01.
func ExtractPrice(item entity.ProductItem, order []PriceField) (decimal.Decimal, bool) {
	if len(order) == 0 {
		order = DefaultPriceOrder
	}
	for _, f := range order {
		v := fieldValue(item.Price, f)
		if v.Valid && v.Decimal.GreaterThan(MinValidPrice) {
			return v.Decimal, true
		}
	}
	return decimal.Zero, false
}

func fieldValue(p entity.ItemPrice, f PriceField) decimal.NullDecimal {
	switch f {
	case FieldPromo:
		return p.Promo
	case FieldRegular:
		return p.Regular
	case FieldOriginal:
		return p.Original
	case FieldCurrent:
		return p.Current
	case FieldFinal:
		return p.Final
	case FieldRetail:
		return p.Retail
	}
	return decimal.NullDecimal{}
}

// BucketFor organic si el nombre combinado es orgánico, regular en otro caso.
func BucketFor(p entity.Product) entity.Bucket {
	if IsOrganic(CombinedName(p)) {
		return entity.BucketOrganic
	}
	return entity.BucketRegular
}

// Classify aplica filtros, selección de ítem y extracción de precio a un producto.
// matched=false: el producto se descarta. priced=false: cuenta solo para el estado de stock.
func Classify(p entity.Product, order []PriceField) (cp entity.ClassifiedPrice, matched, priced bool) {
	if !Matches(p) {
		return entity.ClassifiedPrice{}, false, false
	}
	item, ok := SelectItem(p)
	if !ok {
		return entity.ClassifiedPrice{}, true, false
	}
	price, ok := ExtractPrice(item, order)
	if !ok {
		return entity.ClassifiedPrice{}, true, false
	}
	return entity.ClassifiedPrice{Bucket: BucketFor(p), Price: price}, true, true
}

// ProductKey llave de deduplicación: productId, UPC o descripción en minúsculas.
func ProductKey(p entity.Product) string {
	switch {
	case strings.TrimSpace(p.ProductID) != "":
		return "id:" + strings.TrimSpace(p.ProductID)
	case strings.TrimSpace(p.UPC) != "":
		return "upc:" + strings.TrimSpace(p.UPC)
	default:
		return "desc:" + strings.ToLower(strings.TrimSpace(p.Description))
	}
}
