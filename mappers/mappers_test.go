package mappers

import (
	"testing"

	"doceria/model"

	"github.com/stretchr/testify/assert"
)

func TestToProductView(t *testing.T) {
	v := ToProductView(model.Product{Price: 20, Cost: 7, Stock: 3}, 10)
	assert.Equal(t, 65.0, v.Margin)
	assert.True(t, v.LowStock)

	v = ToProductView(model.Product{Price: 0, Cost: 5, Stock: 10}, 10)
	assert.Equal(t, 0.0, v.Margin)
	assert.False(t, v.LowStock)
}

func TestToStockItemView(t *testing.T) {
	v := ToStockItemView(model.StockItem{Quantity: 2.5, UnitCost: 4.1, MinLevel: 3})
	assert.Equal(t, 10.25, v.TotalValue)
	assert.True(t, v.BelowMin)
	assert.False(t, ToStockItemView(model.StockItem{Quantity: 0}).BelowMin)
}

func TestFillOrderItem(t *testing.T) {
	item := model.OrderItem{ProductID: "p1", Quantity: 2}
	FillOrderItem(&item, &model.Product{Name: "Bolo", Price: 30})
	assert.Equal(t, "Bolo", item.Name)
	assert.Equal(t, 30.0, item.UnitPrice)

	custom := model.OrderItem{Name: "Bolo especial", UnitPrice: 45}
	FillOrderItem(&custom, &model.Product{Name: "Bolo", Price: 30})
	assert.Equal(t, "Bolo especial", custom.Name)
	assert.Equal(t, 45.0, custom.UnitPrice)
}

func TestMapStockItemToDiscard(t *testing.T) {
	d := model.Discard{Quantity: 3}
	MapStockItemToDiscard(&d, &model.StockItem{Name: "Farinha", UnitCost: 4.5}, nil)
	assert.Equal(t, "Farinha", d.ItemName)
	assert.Equal(t, 13.5, d.TotalCost)

	d = model.Discard{Quantity: 2}
	MapStockItemToDiscard(&d, nil, &model.Product{Name: "Bolo", Cost: 12})
	assert.Equal(t, 24.0, d.TotalCost)
}

func TestMapPurchaseOrderToPayable(t *testing.T) {
	po := &model.PurchaseOrder{ID: "po1", StoreID: "loja", Total: 150}
	p := MapPurchaseOrderToPayable(po, "Moinho Sul", "2026-10-16")
	assert.Equal(t, "Compra de Moinho Sul", p.Description)
	assert.Equal(t, model.CategorySuppliers, p.Category)
	assert.Equal(t, model.PayablePending, p.Status)
	assert.Equal(t, "po1", *p.PurchaseOrderID)
}
