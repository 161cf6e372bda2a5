package kroger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/egg-price-terminal/internal/domain/entity"
)

// ── Contratos JSON de la Product API ─────────────────────────────────────────

type productsResponse struct {
	Data []productJSON `json:"data"`
	Meta struct {
		Pagination struct {
			Start int `json:"start"`
			Limit int `json:"limit"`
			Total int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

type productJSON struct {
	ProductID   string     `json:"productId"`
	UPC         string     `json:"upc"`
	Brand       string     `json:"brand"`
	Description string     `json:"description"`
	Items       []itemJSON `json:"items"`
}

type itemJSON struct {
	ItemID      string          `json:"itemId"`
	Size        string          `json:"size"`
	Price       *priceJSON      `json:"price"`
	Fulfillment fulfillmentJSON `json:"fulfillment"`
	Inventory   *struct {
		StockLevel string `json:"stockLevel"`
	} `json:"inventory"`
}

type priceJSON struct {
	Regular  decimal.NullDecimal `json:"regular"`
	Promo    decimal.NullDecimal `json:"promo"`
	Current  decimal.NullDecimal `json:"current"`
	Original decimal.NullDecimal `json:"original"`
	Final    decimal.NullDecimal `json:"final"`
	Retail   decimal.NullDecimal `json:"retail"`
}

type fulfillmentJSON struct {
	InStore    bool `json:"inStore"`
	Curbside   bool `json:"curbside"`
	Delivery   bool `json:"delivery"`
	ShipToHome bool `json:"shipToHome"`
}

func (p productJSON) toEntity() entity.Product {
	out := entity.Product{
		ProductID:   p.ProductID,
		UPC:         p.UPC,
		Brand:       p.Brand,
		Description: p.Description,
		Items:       make([]entity.ProductItem, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		item := entity.ProductItem{
			ItemID: it.ItemID,
			Size:   it.Size,
			Fulfillment: entity.Fulfillment{
				InStore:    it.Fulfillment.InStore,
				Curbside:   it.Fulfillment.Curbside,
				Delivery:   it.Fulfillment.Delivery,
				ShipToHome: it.Fulfillment.ShipToHome,
			},
		}
		if it.Price != nil {
			item.Price = entity.ItemPrice{
				Regular:  it.Price.Regular,
				Promo:    it.Price.Promo,
				Current:  it.Price.Current,
				Original: it.Price.Original,
				Final:    it.Price.Final,
				Retail:   it.Price.Retail,
			}
		}
		if it.Inventory != nil {
			item.StockLevel = it.Inventory.StockLevel
		}
		out.Items = append(out.Items, item)
	}
	return out
}
