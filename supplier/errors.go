package supplier

import "errors"

var (
	ErrNotFound         = errors.New("supplier not found")
	ErrNameRequired     = errors.New("supplier name is required")
	ErrPurchaseNotFound = errors.New("purchase order not found")
	ErrSupplierRequired = errors.New("purchase order needs a supplier")
	ErrNoItems          = errors.New("purchase order has no items")
	ErrInvalidItem      = errors.New("invalid purchase order item")
	ErrAlreadyReceived  = errors.New("purchase order already received")
	ErrCancelled        = errors.New("purchase order is cancelled")
	ErrUnitMismatch     = errors.New("purchase unit cannot be converted to stock unit")
)

var messages = map[error]string{
	ErrNotFound:         "Fornecedor não encontrado.",
	ErrNameRequired:     "O nome do fornecedor é obrigatório.",
	ErrPurchaseNotFound: "Pedido de compra não encontrado.",
	ErrSupplierRequired: "Selecione um fornecedor.",
	ErrNoItems:          "Adicione ao menos um item ao pedido de compra.",
	ErrInvalidItem:      "Item do pedido de compra inválido.",
	ErrAlreadyReceived:  "Este pedido de compra já foi recebido.",
	ErrCancelled:        "Este pedido de compra foi cancelado.",
	ErrUnitMismatch:     "Unidade do pedido de compra incompatível com o item de estoque.",
}

func Message(err error) (string, bool) {
	for sentinel, msg := range messages {
		if errors.Is(err, sentinel) {
			return msg, true
		}
	}
	return "", false
}
