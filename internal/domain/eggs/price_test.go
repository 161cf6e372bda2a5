package eggs_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/egg-price-terminal/internal/domain"
	"github.com/jhoicas/egg-price-terminal/internal/domain/eggs"
	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestExtractPrice_PrefierePromo(t *testing.T) {
	item := entity.ProductItem{Price: entity.ItemPrice{Regular: nd("6.49"), Promo: nd("5.99")}}
	price, ok := eggs.ExtractPrice(item, nil)
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.RequireFromString("5.99")))
}

func TestExtractPrice_PromoCeroUsaRegular(t *testing.T) {
	item := entity.ProductItem{Price: entity.ItemPrice{Regular: nd("3.49"), Promo: nd("0")}}
	price, ok := eggs.ExtractPrice(item, nil)
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.RequireFromString("3.49")))
}

func TestExtractPrice_CamposAlternativos(t *testing.T) {
	item := entity.ProductItem{Price: entity.ItemPrice{Regular: nd("0.01"), Retail: nd("4.19")}}
	price, ok := eggs.ExtractPrice(item, nil)
	require.True(t, ok, "0.01 no supera el umbral; debe caer a retail")
	assert.True(t, price.Equal(decimal.RequireFromString("4.19")))
}

func TestExtractPrice_SinPrecioUtilizable(t *testing.T) {
	_, ok := eggs.ExtractPrice(entity.ProductItem{}, nil)
	assert.False(t, ok)
}

func TestExtractPrice_OrdenConfigurable(t *testing.T) {
	order, err := eggs.ParsePriceOrder("regular, promo")
	require.NoError(t, err)
	item := entity.ProductItem{Price: entity.ItemPrice{Regular: nd("6.49"), Promo: nd("5.99")}}
	price, ok := eggs.ExtractPrice(item, order)
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.RequireFromString("6.49")))
}

func TestParsePriceOrder(t *testing.T) {
	order, err := eggs.ParsePriceOrder("")
	require.NoError(t, err)
	assert.Equal(t, eggs.DefaultPriceOrder, order)

	order, err = eggs.ParsePriceOrder("Promo,promo,final")
	require.NoError(t, err)
	assert.Equal(t, []eggs.PriceField{eggs.FieldPromo, eggs.FieldFinal}, order)

	_, err = eggs.ParsePriceOrder("promo,msrp")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSelectItem_PrimeroEnTienda(t *testing.T) {
	p := entity.Product{Items: []entity.ProductItem{
		{ItemID: "delivery", Fulfillment: entity.Fulfillment{Delivery: true}},
		{ItemID: "store", Fulfillment: entity.Fulfillment{InStore: true}},
	}}
	item, ok := eggs.SelectItem(p)
	require.True(t, ok)
	assert.Equal(t, "store", item.ItemID)

	_, ok = eggs.SelectItem(entity.Product{})
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	regular := entity.Product{
		ProductID:   "1",
		Description: "Great Value Large Eggs, 12 ct",
		Items:       []entity.ProductItem{{Price: entity.ItemPrice{Regular: nd("3.49")}, Fulfillment: entity.Fulfillment{InStore: true}}},
	}
	cp, matched, priced := eggs.Classify(regular, nil)
	assert.True(t, matched)
	assert.True(t, priced)
	assert.Equal(t, entity.BucketRegular, cp.Bucket)

	organic := entity.Product{
		ProductID:   "2",
		Description: "Organic Grade A Eggs 1 Dozen",
		Items:       []entity.ProductItem{{Price: entity.ItemPrice{Promo: nd("5.99"), Regular: nd("6.49")}}},
	}
	cp, matched, priced = eggs.Classify(organic, nil)
	assert.True(t, matched)
	assert.True(t, priced)
	assert.Equal(t, entity.BucketOrganic, cp.Bucket)
	assert.True(t, cp.Price.Equal(decimal.RequireFromString("5.99")))

	unpriced := entity.Product{ProductID: "3", Description: "Large Eggs 12 ct", Items: []entity.ProductItem{{}}}
	_, matched, priced = eggs.Classify(unpriced, nil)
	assert.True(t, matched)
	assert.False(t, priced)

	_, matched, _ = eggs.Classify(entity.Product{Description: "Egg Noodles 12 oz"}, nil)
	assert.False(t, matched)
}

func TestProductKey(t *testing.T) {
	assert.Equal(t, "id:0001", eggs.ProductKey(entity.Product{ProductID: "0001", UPC: "999"}))
	assert.Equal(t, "upc:999", eggs.ProductKey(entity.Product{UPC: "999"}))
	assert.Equal(t, "desc:large eggs", eggs.ProductKey(entity.Product{Description: " Large Eggs "}))
}
