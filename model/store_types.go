package model

import "time"

// StoreAllKey is reserved and never a valid store ID.
const StoreAllKey = "__all__"

type Store struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"nome"`
	CreatedAt time.Time `db:"created_at" json:"criadoEm"`
	CreatedBy string    `db:"created_by" json:"criadoPor"`
}

// CompanyProfile is the store's "meu espaço" business card.
type CompanyProfile struct {
	StoreID   string    `db:"store_id" json:"lojaId"`
	TradeName string    `db:"trade_name" json:"nomeFantasia"`
	Document  string    `db:"document" json:"documento"`
	Phone     string    `db:"phone" json:"telefone"`
	Email     string    `db:"email" json:"email"`
	Address   string    `db:"address" json:"endereco"`
	Hours     string    `db:"opening_hours" json:"horarioFuncionamento"`
	UpdatedAt time.Time `db:"updated_at" json:"atualizadoEm"`
	UpdatedBy string    `db:"updated_by" json:"atualizadoPor"`
}

const (
	ShippingKindFixed    = "fixo"
	ShippingKindDistance = "km"
)

// ShippingConfig holds delivery fee settings. Lat, Lng and PerKm are unset
// until the owner configures distance-based shipping.
type ShippingConfig struct {
	StoreID   string    `db:"store_id" json:"lojaId"`
	Active    bool      `db:"active" json:"ativo"`
	Kind      string    `db:"kind" json:"tipo"`
	FixedFee  float64   `db:"fixed_fee" json:"valor"`
	MinOrder  float64   `db:"min_order" json:"valorMinimo"`
	Lat       *float64  `db:"lat" json:"lat"`
	Lng       *float64  `db:"lng" json:"lng"`
	PerKm     *float64  `db:"per_km" json:"valorPorKm"`
	UpdatedAt time.Time `db:"updated_at" json:"atualizadoEm"`
}
