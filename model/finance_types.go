package model

import "time"

const (
	PayablePending = "Pendente"
	PayablePaid    = "Pago"

	ReceivablePending  = "Pendente"
	ReceivableReceived = "Recebido"

	CategorySuppliers = "Fornecedores"
)

type Payable struct {
	ID              string    `db:"id" json:"id"`
	StoreID         string    `db:"store_id" json:"lojaId"`
	Description     string    `db:"description" json:"descricao"`
	Amount          float64   `db:"amount" json:"valor"`
	DueDate         string    `db:"due_date" json:"dataVencimento"`
	Status          string    `db:"status" json:"status"`
	Category        string    `db:"category" json:"categoria"`
	PurchaseOrderID *string   `db:"purchase_order_id" json:"pedidoCompraId"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

type Receivable struct {
	ID          string    `db:"id" json:"id"`
	StoreID     string    `db:"store_id" json:"lojaId"`
	Description string    `db:"description" json:"descricao"`
	Amount      float64   `db:"amount" json:"valor"`
	DueDate     string    `db:"due_date" json:"dataRecebimento"`
	Status      string    `db:"status" json:"status"`
	Method      string    `db:"method" json:"formaPagamento"`
	OrderID     *string   `db:"order_id" json:"pedidoId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type FinanceSummary struct {
	TotalRevenue  float64 `json:"totalReceitas"`
	TotalExpenses float64 `json:"totalDespesas"`
	NetProfit     float64 `json:"lucroLiquido"`
	ToReceive     float64 `json:"aReceber"`
	ToPay         float64 `json:"aPagar"`
}

type MonthlyFlow struct {
	Month    string  `db:"month" json:"mes"`
	Revenue  float64 `db:"revenue" json:"receitas"`
	Expenses float64 `db:"expenses" json:"despesas"`
	Balance  float64 `db:"-" json:"saldo"`
}

type CategoryTotal struct {
	Category string  `db:"category" json:"categoria"`
	Total    float64 `db:"total" json:"total"`
}
