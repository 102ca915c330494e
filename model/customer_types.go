package model

import "time"

type Address struct {
	Street     string   `json:"rua,omitempty"`
	Number     string   `json:"numero,omitempty"`
	District   string   `json:"bairro,omitempty"`
	City       string   `json:"cidade,omitempty"`
	Complement string   `json:"complemento,omitempty"`
	Reference  string   `json:"referencia,omitempty"`
	ZipCode    string   `json:"cep,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

// Customer is shared across stores; VisitedStores lists every store the
// customer has ordered from.
type Customer struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"nome"`
	Phone          string    `db:"phone" json:"telefone"`
	Email          string    `db:"email" json:"email"`
	Birthday       string    `db:"birthday" json:"dataNascimento"`
	Notes          string    `db:"notes" json:"observacoes"`
	HomeStoreID    string    `db:"home_store_id" json:"lojaId"`
	TotalPurchases float64   `db:"total_purchases" json:"totalCompras"`
	Addresses      []Address `db:"-" json:"enderecos"`
	VisitedStores  []string  `db:"-" json:"lojasVisitadas"`
	CreatedAt      time.Time `db:"created_at" json:"criadoEm"`
	UpdatedAt      time.Time `db:"updated_at" json:"atualizadoEm"`
}

// CustomerInput is the client-writable part of a customer. Nil fields are
// left untouched on merge.
type CustomerInput struct {
	Name       *string   `json:"nome"`
	Phone      *string   `json:"telefone"`
	Email      *string   `json:"email"`
	Birthday   *string   `json:"dataNascimento"`
	Notes      *string   `json:"observacoes"`
	Addresses  []Address `json:"enderecos"`
	NewAddress *Address  `json:"newAddress"`
}
