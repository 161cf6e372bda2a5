package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BenchmarkObservation observación de una serie de referencia (FRED), p.ej. APU0000708111.
type BenchmarkObservation struct {
	SeriesID        string
	ObservationDate time.Time
	Value           decimal.Decimal
	FetchedAt       time.Time
}
