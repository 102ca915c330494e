package model

import "time"

const (
	PurchasePending   = "Pendente"
	PurchaseReceived  = "Recebido"
	PurchaseCancelled = "Cancelado"
)

type Supplier struct {
	ID          string    `db:"id" json:"id"`
	StoreID     string    `db:"store_id" json:"lojaId"`
	Name        string    `db:"name" json:"nome"`
	Document    string    `db:"document" json:"cnpj"`
	Contact     string    `db:"contact" json:"contato"`
	Phone       string    `db:"phone" json:"telefone"`
	Email       string    `db:"email" json:"email"`
	Address     string    `db:"address" json:"endereco"`
	Category    string    `db:"category" json:"categoria"`
	BankDetails string    `db:"bank_details" json:"dadosBancarios"`
	Notes       string    `db:"notes" json:"observacoes"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type PurchaseOrderItem struct {
	PurchaseOrderID string  `db:"purchase_order_id" json:"-"`
	ItemID          string  `db:"item_id" json:"itemId"`
	Name            string  `db:"name" json:"nome"`
	Quantity        float64 `db:"quantity" json:"quantidade"`
	Unit            string  `db:"unit" json:"unidade"`
	UnitCost        float64 `db:"unit_cost" json:"custoUnitario"`
}

type PurchaseOrder struct {
	ID           string              `db:"id" json:"id"`
	StoreID      string              `db:"store_id" json:"lojaId"`
	SupplierID   string              `db:"supplier_id" json:"fornecedorId"`
	SupplierName string              `db:"supplier_name" json:"fornecedorNome"`
	Items        []PurchaseOrderItem `db:"-" json:"itens"`
	Total        float64             `db:"total" json:"valorTotal"`
	OrderDate    string              `db:"order_date" json:"dataPedido"`
	ExpectedDate string              `db:"expected_date" json:"dataEntregaPrevista"`
	Status       string              `db:"status" json:"status"`
	ReceivedAt   *time.Time          `db:"received_at" json:"recebidoEm"`
	CreatedAt    time.Time           `db:"created_at" json:"createdAt"`
}
