package order

import "errors"

var (
	ErrNotFound         = errors.New("order not found")
	ErrStoreNotFound    = errors.New("store not found")
	ErrCustomerRequired = errors.New("customer is required")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrNoItems          = errors.New("order has no items")
	ErrInvalidItem      = errors.New("invalid order item")
	ErrUnknownProduct   = errors.New("unknown product")
	ErrDiscountBoth     = errors.New("discount given as both value and percent")
	ErrNegativeDiscount = errors.New("negative discount")
	ErrDiscountTooHigh  = errors.New("discount exceeds subtotal")
	ErrNegativeShipping = errors.New("negative shipping fee")
	ErrInvalidStatus    = errors.New("invalid order status")
)

var messages = map[error]string{
	ErrNotFound:         "Pedido não encontrado.",
	ErrStoreNotFound:    "Loja não encontrada.",
	ErrCustomerRequired: "Selecione um cliente.",
	ErrCustomerNotFound: "Cliente não encontrado.",
	ErrNoItems:          "Adicione ao menos um item ao pedido.",
	ErrInvalidItem:      "Item do pedido inválido.",
	ErrUnknownProduct:   "Produto do pedido não encontrado.",
	ErrDiscountBoth:     "Por favor, aplique o desconto em valor OU em percentual, não ambos.",
	ErrNegativeDiscount: "O desconto não pode ser negativo.",
	ErrDiscountTooHigh:  "O desconto não pode ser maior que o subtotal.",
	ErrNegativeShipping: "O valor do frete não pode ser negativo.",
	ErrInvalidStatus:    "Status do pedido inválido.",
}

// Message returns the user-facing text for an order error.
func Message(err error) (string, bool) {
	for sentinel, msg := range messages {
		if errors.Is(err, sentinel) {
			return msg, true
		}
	}
	return "", false
}
