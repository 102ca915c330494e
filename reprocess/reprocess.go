// Package reprocess replays a store's kardex and reports where the book
// quantities drifted from it.
package reprocess

import (
	"sort"

	"doceria/database"
	"doceria/model"
	"doceria/render"
)

const (
	IssueBrokenChain = "cadeia"
	IssueDrift       = "divergencia"
)

// Issue is one inconsistency found for an item.
type Issue struct {
	ItemID     string  `json:"produtoId"`
	Name       string  `json:"nome"`
	Kind       string  `json:"tipo"`
	MovementID string  `json:"movimentacaoId,omitempty"`
	Expected   float64 `json:"esperado"`
	Found      float64 `json:"encontrado"`
}

type Report struct {
	Items     int     `json:"itensVerificados"`
	Movements int     `json:"movimentacoes"`
	Issues    []Issue `json:"problemas"`
}

// Audit walks every item's movements oldest first. Each movement must start
// where the previous one ended, and the item's current quantity must equal
// the last movement's result. Items without movements are not checked.
func Audit(q database.Querier, storeID string) (*Report, error) {
	movements, err := database.GetMovements(q, storeID, "", 0)
	if err != nil {
		return nil, err
	}
	current, names, err := currentQuantities(q, storeID)
	if err != nil {
		return nil, err
	}

	byItem := map[string][]model.StockMovement{}
	for i := len(movements) - 1; i >= 0; i-- {
		m := movements[i]
		byItem[m.ItemID] = append(byItem[m.ItemID], m)
	}
	ids := make([]string, 0, len(byItem))
	for id := range byItem {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rep := &Report{Items: len(ids), Movements: len(movements), Issues: []Issue{}}
	for _, id := range ids {
		list := byItem[id]
		for i := 1; i < len(list); i++ {
			if render.Round3(list[i].Before) != render.Round3(list[i-1].After) {
				rep.Issues = append(rep.Issues, Issue{
					ItemID: id, Name: names[id], Kind: IssueBrokenChain, MovementID: list[i].ID,
					Expected: list[i-1].After, Found: list[i].Before,
				})
			}
		}
		qty, ok := current[id]
		if !ok {
			continue
		}
		last := list[len(list)-1].After
		if render.Round3(qty) != render.Round3(last) {
			rep.Issues = append(rep.Issues, Issue{ItemID: id, Name: names[id], Kind: IssueDrift, Expected: last, Found: qty})
		}
	}
	return rep, nil
}

// currentQuantities mirrors the ledger's rule: a product's stock wins over
// a stock item with the same id.
func currentQuantities(q database.Querier, storeID string) (map[string]float64, map[string]string, error) {
	items, err := database.GetStockItems(q, storeID)
	if err != nil {
		return nil, nil, err
	}
	products, err := database.GetProducts(q, storeID, "")
	if err != nil {
		return nil, nil, err
	}
	qty := make(map[string]float64, len(items)+len(products))
	names := make(map[string]string, len(items)+len(products))
	for _, it := range items {
		qty[it.ID], names[it.ID] = it.Quantity, it.Name
	}
	for _, p := range products {
		qty[p.ID], names[p.ID] = p.Stock, p.Name
	}
	return qty, names, nil
}
