package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/egg-price-terminal/internal/application/ports"
	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

// ── Tiendas ───────────────────────────────────────────────────────────────────

type fakeStoreRepo struct {
	ids   []string
	calls int
}

func newFakeStoreRepo(n int) *fakeStoreRepo {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%08d", i+1)
	}
	return &fakeStoreRepo{ids: ids}
}

func (f *fakeStoreRepo) ListPage(_ context.Context, after string, limit int) ([]entity.StoreLocation, error) {
	f.calls++
	sort.Strings(f.ids)
	var out []entity.StoreLocation
	for _, id := range f.ids {
		if id > after && len(out) < limit {
			out = append(out, entity.StoreLocation{LocationID: id})
		}
	}
	return out, nil
}

// ── Productos ─────────────────────────────────────────────────────────────────

type searchCall struct {
	Term  string
	Start int
}

// fakeSearcher responde por término y offset; las claves ausentes devuelven una página vacía.
type fakeSearcher struct {
	mu     sync.Mutex
	pages  map[searchCall][]entity.Product
	errs   map[searchCall]error
	failOn map[string]error // por location_id
	calls  []searchCall
}

func (f *fakeSearcher) SearchProducts(_ context.Context, q ports.ProductQuery) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn[q.LocationID]; err != nil {
		return nil, err
	}
	c := searchCall{Term: q.Term, Start: q.Start}
	f.calls = append(f.calls, c)
	if err := f.errs[c]; err != nil {
		return nil, err
	}
	return f.pages[c], nil
}

func eggProduct(id, desc, size, regular, promo string) entity.Product {
	price := entity.ItemPrice{}
	if regular != "" {
		price.Regular = decimal.NewNullDecimal(decimal.RequireFromString(regular))
	}
	if promo != "" {
		price.Promo = decimal.NewNullDecimal(decimal.RequireFromString(promo))
	}
	return entity.Product{
		ProductID:   id,
		Description: desc,
		Items: []entity.ProductItem{{
			Size:        size,
			Price:       price,
			Fulfillment: entity.Fulfillment{InStore: true},
		}},
	}
}

func filler(prefix string, n int) []entity.Product {
	out := make([]entity.Product, n)
	for i := range out {
		out[i] = entity.Product{ProductID: fmt.Sprintf("%s-%d", prefix, i), Description: "Paper Towels"}
	}
	return out
}

// ── Resúmenes ────────────────────────────────────────────────────────────────

// memorySummaryRepo simula el upsert por (location_id, captured_date).
type memorySummaryRepo struct {
	mu      sync.Mutex
	rows    map[string]*entity.StoreSummary
	batches [][]string
	failOn  map[int]bool // número de llamada (1-based) que falla
	calls   int
}

func newMemorySummaryRepo() *memorySummaryRepo {
	return &memorySummaryRepo{rows: make(map[string]*entity.StoreSummary), failOn: map[int]bool{}}
}

func (m *memorySummaryRepo) UpsertBatch(_ context.Context, rows []*entity.StoreSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failOn[m.calls] {
		return errors.New("ERROR: value too long for type character varying(8) (SQLSTATE 22001)")
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		m.rows[r.LocationID+"|"+r.DateKey()] = r
		ids = append(ids, r.LocationID)
	}
	m.batches = append(m.batches, ids)
	return nil
}

func (m *memorySummaryRepo) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.rows))
	for k := range m.rows {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *memorySummaryRepo) flattened() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var parts []string
	for _, b := range m.batches {
		parts = append(parts, b...)
	}
	return strings.Join(parts, ",")
}
