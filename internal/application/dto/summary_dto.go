package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

// StoreSummaryDTO fila de resumen diario de una tienda. Las estadísticas vacías se serializan como null.
type StoreSummaryDTO struct {
	LocationID   string              `json:"location_id"`
	CapturedDate string              `json:"captured_date"` // YYYY-MM-DD
	CapturedAt   time.Time           `json:"captured_at"`
	Status       string              `json:"status"`
	RegularMin   decimal.NullDecimal `json:"regular_min"`
	RegularAvg   decimal.NullDecimal `json:"regular_avg"`
	RegularMax   decimal.NullDecimal `json:"regular_max"`
	OrganicMin   decimal.NullDecimal `json:"organic_min"`
	OrganicAvg   decimal.NullDecimal `json:"organic_avg"`
	OrganicMax   decimal.NullDecimal `json:"organic_max"`
}

// NewStoreSummaryDTO convierte la entidad a su representación HTTP.
func NewStoreSummaryDTO(s *entity.StoreSummary) StoreSummaryDTO {
	return StoreSummaryDTO{
		LocationID:   s.LocationID,
		CapturedDate: s.DateKey(),
		CapturedAt:   s.CapturedAt,
		Status:       string(s.Status),
		RegularMin:   s.RegularMin,
		RegularAvg:   s.RegularAvg,
		RegularMax:   s.RegularMax,
		OrganicMin:   s.OrganicMin,
		OrganicAvg:   s.OrganicAvg,
		OrganicMax:   s.OrganicMax,
	}
}

// SummaryListDTO respuesta de GET /api/summaries y /api/stores/:location_id/summaries.
type SummaryListDTO struct {
	Date  string            `json:"date,omitempty"`
	Count int               `json:"count"`
	Items []StoreSummaryDTO `json:"items"`
}

// BucketOverviewDTO agregado nacional de un bucket (regular u organic).
// Avg es el promedio de los promedios por tienda.
type BucketOverviewDTO struct {
	Stores int                 `json:"stores"`
	Min    decimal.NullDecimal `json:"min"`
	Avg    decimal.NullDecimal `json:"avg"`
	Max    decimal.NullDecimal `json:"max"`
}

// OverviewDTO respuesta de GET /api/summaries/overview.
type OverviewDTO struct {
	Date         string            `json:"date"`
	TotalStores  int               `json:"total_stores"`
	StatusCounts map[string]int    `json:"status_counts"`
	Regular      BucketOverviewDTO `json:"regular"`
	Organic      BucketOverviewDTO `json:"organic"`
	Benchmark    *BenchmarkDTO     `json:"benchmark,omitempty"`
}

// DailyReportDTO insumo del reporte PDF diario.
type DailyReportDTO struct {
	AppName     string
	GeneratedAt time.Time
	Overview    OverviewDTO
	Rows        []StoreSummaryDTO
}
