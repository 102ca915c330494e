package product

import "errors"

var (
	ErrNotFound      = errors.New("product not found")
	ErrNameRequired  = errors.New("product name is required")
	ErrInvalidPrice  = errors.New("price and cost must not be negative")
	ErrInvalidStatus = errors.New("status must be Ativo or Inativo")
)
