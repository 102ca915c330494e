package model

import "time"

const (
	ProductActive   = "Ativo"
	ProductInactive = "Inativo"
)

type Product struct {
	ID          string    `db:"id" json:"id"`
	StoreID     string    `db:"store_id" json:"lojaId"`
	Name        string    `db:"name" json:"nome"`
	Category    string    `db:"category" json:"categoria"`
	Description string    `db:"description" json:"descricao"`
	Price       float64   `db:"price" json:"preco"`
	Cost        float64   `db:"cost" json:"custo"`
	Stock       float64   `db:"stock" json:"estoque"`
	Status      string    `db:"status" json:"status"`
	PrepTime    string    `db:"prep_time" json:"tempoPreparo"`
	ImageURL    string    `db:"image_url" json:"imagemUrl"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ProductView is a product decorated with derived figures for listings.
type ProductView struct {
	Product
	Margin   float64 `json:"margem"`
	LowStock bool    `json:"estoqueBaixo"`
}

type ProductStats struct {
	Total      int     `json:"total"`
	Active     int     `json:"ativos"`
	LowStock   int     `json:"estoqueBaixo"`
	TotalValue float64 `json:"valorTotal"`
}
