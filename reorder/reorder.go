// Package reorder suggests purchase orders for supplies at or below their
// minimum level and can turn the suggestions into pending purchase orders.
package reorder

import (
	"errors"
	"log"
	"sort"

	"doceria/database"
	"doceria/model"
	"doceria/render"
	"doceria/supplier"
	"doceria/units"

	"github.com/jmoiron/sqlx"
)

// DefaultCoefficient restocks to twice the minimum level.
const DefaultCoefficient = 2.0

const noSupplierName = "Sem fornecedor"

var (
	ErrInvalidCoefficient = errors.New("coefficient must be at least 1")
	ErrNothingToOrder     = errors.New("no suggestions with a supplier")
)

type Candidate struct {
	ItemID    string  `json:"itemId"`
	Name      string  `json:"nome"`
	Unit      string  `json:"unidade"`
	Quantity  float64 `json:"quantidadeAtual"`
	MinLevel  float64 `json:"estoqueMinimo"`
	OnOrder   float64 `json:"emPedido"`
	Suggested float64 `json:"quantidadeSugerida"`
	UnitCost  float64 `json:"custoUnitario"`
	Total     float64 `json:"valorTotal"`
}

// SupplierGroup holds the suggestions for one supplier. Items without a
// known supplier share the group with an empty SupplierID.
type SupplierGroup struct {
	SupplierID   string      `json:"fornecedorId"`
	SupplierName string      `json:"fornecedorNome"`
	Items        []Candidate `json:"itens"`
	Total        float64     `json:"valorTotal"`
}

// Candidates suggests, for each low item, enough to reach
// MinLevel*coefficient after counting quantities already on pending
// purchase orders.
func Candidates(db database.Querier, storeID string, coefficient float64) ([]SupplierGroup, error) {
	if coefficient == 0 {
		coefficient = DefaultCoefficient
	}
	if coefficient < 1 {
		return nil, ErrInvalidCoefficient
	}
	low, err := database.GetLowStockItems(db, storeID)
	if err != nil {
		return nil, err
	}
	open, err := database.GetOpenPurchaseItems(db, storeID)
	if err != nil {
		return nil, err
	}
	names, err := database.GetSupplierMap(db, storeID)
	if err != nil {
		return nil, err
	}

	onOrder := map[string]float64{}
	itemUnits := unitsByItem(low)
	for _, line := range open {
		unit, ok := itemUnits[line.ItemID]
		if !ok {
			continue
		}
		qty, err := units.Convert(line.Quantity, line.Unit, unit)
		if err != nil {
			log.Printf("WARN: [Reorder] open line for %s in %s cannot be counted: %v", line.ItemID, line.Unit, err)
			continue
		}
		onOrder[line.ItemID] += qty
	}

	groups := map[string]*SupplierGroup{}
	for _, it := range low {
		suggested := render.Round3(it.MinLevel*coefficient - it.Quantity - onOrder[it.ID])
		if suggested <= 0 {
			continue
		}
		sid := it.SupplierID
		if _, known := names[sid]; !known {
			sid = ""
		}
		g, ok := groups[sid]
		if !ok {
			g = &SupplierGroup{SupplierID: sid, SupplierName: names[sid]}
			if sid == "" {
				g.SupplierName = noSupplierName
			}
			groups[sid] = g
		}
		c := Candidate{
			ItemID:    it.ID,
			Name:      it.Name,
			Unit:      it.Unit,
			Quantity:  it.Quantity,
			MinLevel:  it.MinLevel,
			OnOrder:   render.Round3(onOrder[it.ID]),
			Suggested: suggested,
			UnitCost:  it.UnitCost,
			Total:     render.Mul(suggested, it.UnitCost),
		}
		g.Items = append(g.Items, c)
		g.Total = render.Sum(g.Total, c.Total)
	}

	out := make([]SupplierGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if (out[i].SupplierID == "") != (out[j].SupplierID == "") {
			return out[j].SupplierID == ""
		}
		return out[i].SupplierName < out[j].SupplierName
	})
	return out, nil
}

// Place creates one pending purchase order per supplier group. The
// no-supplier group is left for manual handling.
func Place(db *sqlx.DB, storeID string, coefficient float64) ([]*model.PurchaseOrder, error) {
	groups, err := Candidates(db, storeID, coefficient)
	if err != nil {
		return nil, err
	}
	var placed []*model.PurchaseOrder
	for _, g := range groups {
		if g.SupplierID == "" {
			continue
		}
		in := supplier.PurchaseInput{SupplierID: g.SupplierID}
		for _, c := range g.Items {
			in.Items = append(in.Items, model.PurchaseOrderItem{
				ItemID: c.ItemID, Name: c.Name, Quantity: c.Suggested, Unit: c.Unit, UnitCost: c.UnitCost,
			})
		}
		po, err := supplier.CreatePurchase(db, storeID, in)
		if err != nil {
			return placed, err
		}
		placed = append(placed, po)
	}
	if len(placed) == 0 {
		return nil, ErrNothingToOrder
	}
	return placed, nil
}

func unitsByItem(items []model.StockItem) map[string]string {
	m := make(map[string]string, len(items))
	for _, it := range items {
		m[it.ID] = it.Unit
	}
	return m
}
