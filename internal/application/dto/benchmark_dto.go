package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

// BenchmarkDTO observación de una serie de referencia.
type BenchmarkDTO struct {
	SeriesID string          `json:"series_id"`
	Date     string          `json:"date"`
	Value    decimal.Decimal `json:"value"`
}

// NewBenchmarkDTO convierte la entidad a su representación HTTP.
func NewBenchmarkDTO(o entity.BenchmarkObservation) BenchmarkDTO {
	return BenchmarkDTO{
		SeriesID: o.SeriesID,
		Date:     o.ObservationDate.Format("2006-01-02"),
		Value:    o.Value,
	}
}

// BenchmarkListDTO respuesta de GET /api/benchmarks.
type BenchmarkListDTO struct {
	SeriesID string         `json:"series_id"`
	From     string         `json:"from,omitempty"`
	To       string         `json:"to,omitempty"`
	Items    []BenchmarkDTO `json:"items"`
}

// BenchmarkRunDTO resultado de una corrida de cmd/benchmarks por serie.
type BenchmarkRunDTO struct {
	SeriesID string `json:"series_id"`
	Fetched  int    `json:"fetched"`
	Upserted int    `json:"upserted"`
}
