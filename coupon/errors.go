package coupon

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound      = errors.New("coupon not found")
	ErrInactive      = errors.New("coupon is not active")
	ErrExpired       = errors.New("coupon expired")
	ErrUsageLimit    = errors.New("coupon usage limit reached")
	ErrMinimumOrder  = errors.New("cart total below coupon minimum")
	ErrCodeRequired  = errors.New("coupon code is required")
	ErrDuplicateCode = errors.New("coupon code already exists")
	ErrInvalidType   = errors.New("discount type must be percentual or fixo")
	ErrInvalidValue  = errors.New("invalid discount value")
	ErrInvalidDate   = errors.New("valid-until must be YYYY-MM-DD")
)

// Rejection is returned when a coupon cannot be applied to a cart. Message
// is shown to the customer as is.
type Rejection struct {
	Status  int
	Message string
	cause   error
}

func (r *Rejection) Error() string { return r.cause.Error() + ": " + r.Message }
func (r *Rejection) Unwrap() error { return r.cause }

func reject(cause error, status int, msg string) *Rejection {
	return &Rejection{Status: status, Message: msg, cause: cause}
}

var inputMessages = map[error]string{
	ErrCodeRequired:  "Informe o código do cupom.",
	ErrDuplicateCode: "Já existe um cupom com este código.",
	ErrInvalidType:   "Tipo de desconto deve ser percentual ou fixo.",
	ErrInvalidValue:  "Informe um valor de desconto válido.",
	ErrInvalidDate:   "Data de validade inválida.",
	ErrNotFound:      "Cupom não encontrado.",
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateCode):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}
