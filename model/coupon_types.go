package model

import "time"

const (
	CouponActive   = "Ativo"
	CouponInactive = "Inativo"

	DiscountPercent = "percentual"
	DiscountFixed   = "fixo"
)

type Coupon struct {
	ID           string    `db:"id" json:"id"`
	StoreID      string    `db:"store_id" json:"lojaId"`
	Code         string    `db:"code" json:"codigo"`
	Description  string    `db:"description" json:"descricao"`
	Status       string    `db:"status" json:"status"`
	DiscountType string    `db:"discount_type" json:"tipoDesconto"`
	Value        float64   `db:"value" json:"valor"`
	MinOrder     float64   `db:"min_order" json:"valorMinimo"`
	UsageLimit   int       `db:"usage_limit" json:"limiteUso"`
	Uses         int       `db:"uses" json:"usos"`
	ValidUntil   string    `db:"valid_until" json:"validade"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
