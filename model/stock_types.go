package model

import "time"

const (
	MovementIn  = "entrada"
	MovementOut = "saida"
)

// StockItem is a raw material or packaging item kept in the store's stock.
type StockItem struct {
	ID         string    `db:"id" json:"id"`
	StoreID    string    `db:"store_id" json:"lojaId"`
	Name       string    `db:"name" json:"nome"`
	Category   string    `db:"category" json:"categoria"`
	SupplierID string    `db:"supplier_id" json:"fornecedorId"`
	Quantity   float64   `db:"quantity" json:"quantidade"`
	Unit       string    `db:"unit" json:"unidade"`
	UnitCost   float64   `db:"unit_cost" json:"custoUnitario"`
	MinLevel   float64   `db:"min_level" json:"estoqueMinimo"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// StockMovement is one immutable kardex line.
type StockMovement struct {
	ID        string    `db:"id" json:"id"`
	StoreID   string    `db:"store_id" json:"lojaId"`
	ItemID    string    `db:"item_id" json:"produtoId"`
	Kind      string    `db:"kind" json:"tipo"`
	Quantity  float64   `db:"quantity" json:"quantidade"`
	Delta     float64   `db:"delta" json:"delta"`
	Reason    string    `db:"reason" json:"motivo"`
	UserID    *string   `db:"user_id" json:"usuarioId"`
	UserEmail *string   `db:"user_email" json:"usuarioEmail"`
	Before    float64   `db:"before_qty" json:"estoqueAnterior"`
	After     float64   `db:"after_qty" json:"estoquePosterior"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Discard records stock lost to breakage, expiry or spoilage.
type Discard struct {
	ID        string    `db:"id" json:"id"`
	StoreID   string    `db:"store_id" json:"lojaId"`
	ItemID    string    `db:"item_id" json:"produtoId"`
	ItemName  string    `db:"item_name" json:"produtoNome"`
	Quantity  float64   `db:"quantity" json:"quantidade"`
	Reason    string    `db:"reason" json:"motivo"`
	UnitCost  float64   `db:"unit_cost" json:"custoUnitario"`
	TotalCost float64   `db:"total_cost" json:"custoTotal"`
	UserID    string    `db:"user_id" json:"usuarioId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ValuationRow is one stock item priced at its unit cost.
type ValuationRow struct {
	ItemID     string  `db:"id" json:"id"`
	Name       string  `db:"name" json:"nome"`
	Category   string  `db:"category" json:"categoria"`
	Quantity   float64 `db:"quantity" json:"quantidade"`
	Unit       string  `db:"unit" json:"unidade"`
	UnitCost   float64 `db:"unit_cost" json:"custoUnitario"`
	TotalValue float64 `db:"-" json:"valorTotal"`
}

// IdleStockItem is a stock item with quantity on hand and no recent saida.
type IdleStockItem struct {
	ID        string  `db:"id" json:"id"`
	Name      string  `db:"name" json:"nome"`
	Category  string  `db:"category" json:"categoria"`
	Quantity  float64 `db:"quantity" json:"quantidade"`
	Unit      string  `db:"unit" json:"unidade"`
	UnitCost  float64 `db:"unit_cost" json:"custoUnitario"`
	LastOut   *string `db:"last_out" json:"ultimaSaida"`
	IdleValue float64 `db:"-" json:"valorParado"`
}
