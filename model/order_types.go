package model

import "time"

const (
	OrderPending   = "Pendente"
	OrderInProd    = "Em Produção"
	OrderReady     = "Pronto para Entrega"
	OrderFinished  = "Finalizado"
	OrderCancelled = "Cancelado"
)

// OrderStatuses lists the valid statuses in workflow order.
var OrderStatuses = []string{OrderPending, OrderInProd, OrderReady, OrderFinished, OrderCancelled}

type OrderItem struct {
	OrderID   string  `db:"order_id" json:"-"`
	ProductID string  `db:"product_id" json:"id"`
	Name      string  `db:"name" json:"nome"`
	UnitPrice float64 `db:"unit_price" json:"preco"`
	Quantity  float64 `db:"quantity" json:"quantity"`
}

// AppliedCoupon is the coupon snapshot stored on an order.
type AppliedCoupon struct {
	Code          string  `json:"codigo"`
	DiscountValue float64 `json:"valorDesconto"`
}

type Order struct {
	ID            string         `db:"id" json:"id"`
	StoreID       string         `db:"store_id" json:"lojaId"`
	Number        string         `db:"number" json:"numeroPedido"`
	CustomerID    string         `db:"customer_id" json:"clienteId"`
	CustomerName  string         `db:"customer_name" json:"clienteNome"`
	CustomerPhone string         `db:"customer_phone" json:"clienteTelefone"`
	Items         []OrderItem    `db:"-" json:"itens"`
	Subtotal      float64        `db:"subtotal" json:"subtotal"`
	Discount      float64        `db:"discount" json:"desconto"`
	ShippingFee   float64        `db:"shipping_fee" json:"valorFrete"`
	Total         float64        `db:"total" json:"total"`
	CouponCode    *string        `db:"coupon_code" json:"-"`
	Coupon        *AppliedCoupon `db:"-" json:"cupom"`
	Status        string         `db:"status" json:"status"`
	Origin        string         `db:"origin" json:"origem"`
	Category      string         `db:"category" json:"categoria"`
	DeliveryDate  string         `db:"delivery_date" json:"dataEntrega"`
	DeliveryAddr  string         `db:"delivery_address" json:"enderecoEntrega"`
	PaymentMethod string         `db:"payment_method" json:"formaPagamento"`
	Notes         string         `db:"notes" json:"observacao"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`
}

// OrderInput is what a caller submits when creating or editing an order.
type OrderInput struct {
	CustomerID      string         `json:"clienteId"`
	CustomerName    string         `json:"clienteNome"`
	CustomerPhone   string         `json:"clienteTelefone"`
	Items           []OrderItem    `json:"itens"`
	Coupon          *AppliedCoupon `json:"cupom"`
	DiscountValue   float64        `json:"descontoValor"`
	DiscountPercent float64        `json:"descontoPercentual"`
	ShippingFee     float64        `json:"valorFrete"`
	Status          string         `json:"status"`
	Origin          string         `json:"origem"`
	Category        string         `json:"categoria"`
	DeliveryDate    string         `json:"dataEntrega"`
	DeliveryAddr    string         `json:"enderecoEntrega"`
	PaymentMethod   string         `json:"formaPagamento"`
	Notes           string         `json:"observacao"`
}

// OrderFilter narrows an order listing. Dates are inclusive YYYY-MM-DD.
type OrderFilter struct {
	Search string
	From   string
	To     string
	Status string
}
