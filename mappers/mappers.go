// Package mappers converts between stored records and the shapes the
// handlers work with.
package mappers

import (
	"doceria/model"
	"doceria/render"
)

// FillOrderItem completes an order line from the catalog product. The
// name and unit price are taken from the product only when the caller left
// them empty.
func FillOrderItem(item *model.OrderItem, p *model.Product) {
	if p == nil {
		return
	}
	if item.Name == "" {
		item.Name = p.Name
	}
	if item.UnitPrice == 0 {
		item.UnitPrice = p.Price
	}
}

// MapStockItemToDiscard prices a loss of quantity units of it.
func MapStockItemToDiscard(d *model.Discard, it *model.StockItem, p *model.Product) {
	switch {
	case it != nil:
		d.ItemName = it.Name
		d.UnitCost = it.UnitCost
	case p != nil:
		d.ItemName = p.Name
		d.UnitCost = p.Cost
	}
	d.TotalCost = render.Mul(d.Quantity, d.UnitCost)
}

// MapPurchaseOrderToPayable builds the bill created when a purchase order
// is received.
func MapPurchaseOrderToPayable(po *model.PurchaseOrder, supplierName, dueDate string) model.Payable {
	poID := po.ID
	return model.Payable{
		StoreID:         po.StoreID,
		Description:     "Compra de " + supplierName,
		Amount:          po.Total,
		DueDate:         dueDate,
		Category:        model.CategorySuppliers,
		Status:          model.PayablePending,
		PurchaseOrderID: &poID,
	}
}
