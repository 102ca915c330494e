package mappers

import (
	"doceria/model"
	"doceria/render"
)

// ToProductView decorates a product with its margin and low-stock flag.
// Products priced at zero have no margin.
func ToProductView(p model.Product, lowStockThreshold float64) model.ProductView {
	var margin float64
	if p.Price > 0 {
		margin = render.Round2((p.Price - p.Cost) / p.Price * 100)
	}
	return model.ProductView{
		Product:  p,
		Margin:   margin,
		LowStock: p.Stock < lowStockThreshold,
	}
}

func ToProductViews(products []model.Product, lowStockThreshold float64) []model.ProductView {
	views := make([]model.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ToProductView(p, lowStockThreshold))
	}
	return views
}

// StockItemView is a stock item with its value at unit cost.
type StockItemView struct {
	model.StockItem
	TotalValue float64 `json:"valorTotal"`
	BelowMin   bool    `json:"abaixoDoMinimo"`
}

func ToStockItemView(it model.StockItem) StockItemView {
	return StockItemView{
		StockItem:  it,
		TotalValue: render.Mul(it.Quantity, it.UnitCost),
		BelowMin:   it.MinLevel > 0 && it.Quantity < it.MinLevel,
	}
}

func ToStockItemViews(items []model.StockItem) []StockItemView {
	views := make([]StockItemView, 0, len(items))
	for _, it := range items {
		views = append(views, ToStockItemView(it))
	}
	return views
}
