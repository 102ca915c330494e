package model

import "time"

const (
	RoleOwner     = "dono"
	RoleManager   = "gerente"
	RoleAttendant = "atendente"
)

// Permissions maps a back-office menu key to whether it is visible.
type Permissions map[string]bool

type User struct {
	UID            string      `db:"uid" json:"uid"`
	Email          string      `db:"email" json:"email"`
	Name           string      `db:"name" json:"nome"`
	PasswordHash   string      `db:"password_hash" json:"-"`
	Role           string      `db:"role" json:"role"`
	PrimaryStoreID *string     `db:"primary_store_id" json:"lojaId"`
	StoreIDs       []string    `db:"-" json:"lojaIds"`
	Permissions    Permissions `db:"-" json:"permissions"`
	CreatedAt      time.Time   `db:"created_at" json:"criadoEm"`
	UpdatedAt      time.Time   `db:"updated_at" json:"atualizadoEm"`
}

// Actor identifies who performed a write, for ledger and log records.
type Actor struct {
	UID   string
	Email string
	Name  string
}

func (u *User) Actor() Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{UID: u.UID, Email: u.Email, Name: u.Name}
}
