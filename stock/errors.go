package stock

import "errors"

var (
	ErrMissingItem       = errors.New("item id is required")
	ErrMissingStore      = errors.New("store id is required")
	ErrInvalidKind       = errors.New("movement kind must be entrada or saida")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrNotFound          = errors.New("stock item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNameRequired      = errors.New("item name is required")
	ErrNegativeValue     = errors.New("unit cost and minimum level must not be negative")
)

var messages = map[error]string{
	ErrMissingItem:       "Produto inválido.",
	ErrMissingStore:      "Loja não encontrada para atualizar estoque.",
	ErrInvalidKind:       "Tipo de movimentação inválido.",
	ErrInvalidQuantity:   "Informe uma quantidade maior que zero.",
	ErrNotFound:          "Item de estoque não encontrado.",
	ErrInsufficientStock: "Estoque insuficiente para esta saída.",
	ErrNameRequired:      "Informe o nome do item.",
	ErrNegativeValue:     "Custo e estoque mínimo não podem ser negativos.",
}

// Message returns the user-facing text for a stock error and whether err
// is one of this package's sentinels.
func Message(err error) (string, bool) {
	for sentinel, msg := range messages {
		if errors.Is(err, sentinel) {
			return msg, true
		}
	}
	return "", false
}
