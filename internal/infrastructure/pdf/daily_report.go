// Package pdf genera el reporte diario de precios de huevos en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la app       │  Fecha de captura          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: tiendas por estado + referencia FRED               │
//	│  NACIONAL: Regular / Orgánico  (mín / prom / máx)            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Tienda | Estado | Reg mín/prom/máx | Org mín/prom/máx│
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: generado en                                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/egg-price-terminal/internal/application/dto"
	"github.com/jhoicas/egg-price-terminal/internal/application/ports"
	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa ports.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

var _ ports.ReportGenerator = (*MarotoReportGenerator)(nil)

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateDailyReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateDailyReport(_ context.Context, report *dto.DailyReportDTO) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Egg prices "+report.Overview.Date, true).
		WithAuthor(report.AppName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(statusRow(report.Overview))
	m.AddRows(nationalRows(report.Overview)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(report.Rows)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report *dto.DailyReportDTO) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(nonEmpty(report.AppName, "Egg Price Terminal"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Dozen eggs: daily shelf prices by store", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("CAPTURE DATE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.Overview.Date, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	)
}

func statusRow(o dto.OverviewDTO) core.Row {
	summary := fmt.Sprintf("Stores: %d   |   OK: %d   |   Out of stock: %d   |   No data: %d",
		o.TotalStores,
		o.StatusCounts[string(entity.StatusOK)],
		o.StatusCounts[string(entity.StatusOutOfStock)],
		o.StatusCounts[string(entity.StatusNoDataFound)],
	)
	bench := "FRED benchmark: n/a"
	if o.Benchmark != nil {
		bench = fmt.Sprintf("FRED %s (%s): $%s", o.Benchmark.SeriesID, o.Benchmark.Date, o.Benchmark.Value.StringFixed(3))
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New(summary, props.Text{Size: 9, Top: 1}),
			text.New(bench, props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func nationalRows(o dto.OverviewDTO) []core.Row {
	bucket := func(label string, b dto.BucketOverviewDTO) core.Row {
		return row.New(6).Add(
			col.New(3).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
			col.New(2).Add(text.New(fmt.Sprintf("%d stores", b.Stores), props.Text{Size: 9, Top: 1, Color: colorGray})),
			col.New(2).Add(text.New("min "+money(b.Min), props.Text{Size: 9, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New("avg "+money(b.Avg), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1})),
			col.New(3).Add(text.New("max "+money(b.Max), props.Text{Size: 9, Align: align.Right, Top: 1, Right: 1})),
		)
	}
	return []core.Row{
		bucket("Regular (national)", o.Regular),
		bucket("Organic (national)", o.Organic),
	}
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Store", 2, align.Left),
		h("Status", 2, align.Left),
		h("Reg min", 1, align.Right),
		h("Reg avg", 2, align.Right),
		h("Reg max", 1, align.Right),
		h("Org min", 1, align.Right),
		h("Org avg", 2, align.Right),
		h("Org max", 1, align.Right),
	)
}

// tableRows una fila por tienda.
func tableRows(items []dto.StoreSummaryDTO) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, s := range items {
		statusColor := colorGray
		if s.Status != string(entity.StatusOK) {
			statusColor = colorAlert
		}
		cell := func(v decimal.NullDecimal, size int) core.Col {
			return col.New(size).Add(text.New(money(v), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}))
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(s.LocationID, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(s.Status, props.Text{Size: 7, Top: 1, Left: 1, Color: statusColor})),
			cell(s.RegularMin, 1),
			cell(s.RegularAvg, 2),
			cell(s.RegularMax, 1),
			cell(s.OrganicMin, 1),
			cell(s.OrganicAvg, 2),
			cell(s.OrganicMax, 1),
		))
	}
	return result
}

func footerRow(report *dto.DailyReportDTO) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Generated "+report.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")+
			". Prices are in-store shelf prices for one dozen eggs; promos preferred over regular.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea un precio nulo como "—" y el resto con dos decimales: "3.49" → "$3.49".
func money(v decimal.NullDecimal) string {
	if !v.Valid {
		return "—"
	}
	return "$" + v.Decimal.StringFixed(2)
}
