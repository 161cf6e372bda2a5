package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryStatus estado derivado del resumen diario.
type SummaryStatus string

const (
	StatusOK          SummaryStatus = "OK"
	StatusOutOfStock  SummaryStatus = "OUT_OF_STOCK"
	StatusNoDataFound SummaryStatus = "NO_DATA_FOUND"
)

// StoreSummary agregado diario persistido por tienda.
// Llave única (LocationID, CapturedDate): una corrida posterior el mismo día sobrescribe.
type StoreSummary struct {
	LocationID   string
	CapturedDate time.Time // fecha calendario (00:00 UTC)
	CapturedAt   time.Time
	Status       SummaryStatus

	RegularMin decimal.NullDecimal
	RegularAvg decimal.NullDecimal
	RegularMax decimal.NullDecimal
	OrganicMin decimal.NullDecimal
	OrganicAvg decimal.NullDecimal
	OrganicMax decimal.NullDecimal
}

// DateKey devuelve la fecha de captura en formato YYYY-MM-DD.
func (s *StoreSummary) DateKey() string {
	return s.CapturedDate.Format(time.DateOnly)
}
