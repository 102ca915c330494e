package finance

import "errors"

var (
	ErrNotFound            = errors.New("entry not found")
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidDate         = errors.New("date must be YYYY-MM-DD")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidYear         = errors.New("invalid year")
)

var messages = map[error]string{
	ErrNotFound:            "Lançamento não encontrado.",
	ErrDescriptionRequired: "Informe a descrição.",
	ErrInvalidAmount:       "Informe um valor maior que zero.",
	ErrInvalidDate:         "Data inválida.",
	ErrInvalidStatus:       "Status inválido.",
	ErrInvalidYear:         "Ano inválido.",
}
