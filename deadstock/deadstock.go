// Package deadstock finds supplies that sit on the shelf: quantity on hand
// and no saida for a number of days.
package deadstock

import (
	"errors"
	"time"

	"doceria/database"
	"doceria/model"
	"doceria/render"
)

const DefaultDays = 60

var ErrInvalidDays = errors.New("days must be between 1 and 3650")

type Result struct {
	Days       int                   `json:"dias"`
	Items      []model.IdleStockItem `json:"itens"`
	TotalValue float64               `json:"valorTotal"`
}

// List returns the store's idle items as of now, most valuable first.
func List(q database.Querier, storeID string, days int, now time.Time) (*Result, error) {
	if days == 0 {
		days = DefaultDays
	}
	if days < 1 || days > 3650 {
		return nil, ErrInvalidDays
	}
	items, err := database.GetIdleStockItems(q, storeID, now.AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(items))
	for i := range items {
		items[i].IdleValue = render.Mul(items[i].Quantity, items[i].UnitCost)
		values = append(values, items[i].IdleValue)
	}
	return &Result{Days: days, Items: items, TotalValue: render.Sum(values...)}, nil
}
