package eggs

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

// Stats mínimo, promedio y máximo de un bucket. Todos nulos si el bucket está vacío.
type Stats struct {
	Min decimal.NullDecimal
	Avg decimal.NullDecimal
	Max decimal.NullDecimal
}

// ComputeStats calcula min/avg/max sobre los precios positivos. El promedio se redondea a centavos.
func ComputeStats(prices []decimal.Decimal) Stats {
	var (
		minV, maxV, sum decimal.Decimal
		n               int64
	)
	for _, p := range prices {
		if !p.IsPositive() {
			continue
		}
		if n == 0 || p.LessThan(minV) {
			minV = p
		}
		if n == 0 || p.GreaterThan(maxV) {
			maxV = p
		}
		sum = sum.Add(p)
		n++
	}
	if n == 0 {
		return Stats{}
	}
	avg := sum.Div(decimal.NewFromInt(n)).Round(2)
	return Stats{
		Min: decimal.NewNullDecimal(minV),
		Avg: decimal.NewNullDecimal(avg),
		Max: decimal.NewNullDecimal(maxV),
	}
}

// DeriveStatus OK si hay precios; OUT_OF_STOCK si hubo coincidencias y todas están agotadas;
// NO_DATA_FOUND en otro caso (incluye cero coincidencias).
func DeriveStatus(fetch *entity.StoreFetch) entity.SummaryStatus {
	if len(fetch.RegularPrices) > 0 || len(fetch.OrganicPrices) > 0 {
		return entity.StatusOK
	}
	if len(fetch.Matched) == 0 {
		return entity.StatusNoDataFound
	}
	for _, p := range fetch.Matched {
		item, ok := SelectItem(p)
		if !ok || !item.IsOutOfStock() {
			return entity.StatusNoDataFound
		}
	}
	return entity.StatusOutOfStock
}

// Summarize construye el resumen diario de una tienda. capturedAt se convierte a loc
// para obtener la fecha calendario (nil → UTC).
func Summarize(locationID string, fetch *entity.StoreFetch, capturedAt time.Time, loc *time.Location) *entity.StoreSummary {
	if fetch == nil {
		fetch = &entity.StoreFetch{}
	}
	if loc == nil {
		loc = time.UTC
	}
	local := capturedAt.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)

	regular := ComputeStats(fetch.RegularPrices)
	organic := ComputeStats(fetch.OrganicPrices)

	return &entity.StoreSummary{
		LocationID:   locationID,
		CapturedDate: day,
		CapturedAt:   capturedAt.UTC(),
		Status:       DeriveStatus(fetch),
		RegularMin:   regular.Min,
		RegularAvg:   regular.Avg,
		RegularMax:   regular.Max,
		OrganicMin:   organic.Min,
		OrganicAvg:   organic.Avg,
		OrganicMax:   organic.Max,
	}
}
