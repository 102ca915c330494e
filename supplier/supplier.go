// Package supplier keeps the store's suppliers and the purchase orders
// placed with them.
package supplier

import (
	"strings"

	"doceria/database"
	"doceria/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Input struct {
	Name        string `json:"nome"`
	Document    string `json:"cnpj"`
	Contact     string `json:"contato"`
	Phone       string `json:"telefone"`
	Email       string `json:"email"`
	Address     string `json:"endereco"`
	Category    string `json:"categoria"`
	BankDetails string `json:"dadosBancarios"`
	Notes       string `json:"observacoes"`
	Status      string `json:"status"`
}

func (in Input) applyTo(s *model.Supplier) error {
	s.Name = strings.TrimSpace(in.Name)
	if s.Name == "" {
		return ErrNameRequired
	}
	s.Document = strings.TrimSpace(in.Document)
	s.Contact = strings.TrimSpace(in.Contact)
	s.Phone = strings.TrimSpace(in.Phone)
	s.Email = strings.ToLower(strings.TrimSpace(in.Email))
	s.Address = strings.TrimSpace(in.Address)
	s.Category = strings.TrimSpace(in.Category)
	s.BankDetails = strings.TrimSpace(in.BankDetails)
	s.Notes = strings.TrimSpace(in.Notes)
	s.Status = in.Status
	if s.Status == "" {
		s.Status = "Ativo"
	}
	return nil
}

func List(db *sqlx.DB, storeID string) ([]model.Supplier, error) {
	return database.GetSuppliers(db, storeID)
}

func Get(db *sqlx.DB, storeID, id string) (*model.Supplier, error) {
	s, err := database.GetSupplier(db, storeID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNotFound
	}
	return s, nil
}

func Create(db *sqlx.DB, storeID string, in Input) (*model.Supplier, error) {
	s := model.Supplier{ID: uuid.NewString(), StoreID: storeID, CreatedAt: database.Now()}
	if err := in.applyTo(&s); err != nil {
		return nil, err
	}
	if err := database.InsertSupplier(db, s); err != nil {
		return nil, err
	}
	return &s, nil
}

func Update(db *sqlx.DB, storeID, id string, in Input) (before, after *model.Supplier, err error) {
	before, err = Get(db, storeID, id)
	if err != nil {
		return nil, nil, err
	}
	s := *before
	if err := in.applyTo(&s); err != nil {
		return nil, nil, err
	}
	if err := database.UpdateSupplier(db, s); err != nil {
		return nil, nil, err
	}
	return before, &s, nil
}

// Delete removes the supplier. Purchase orders keep the name snapshot.
func Delete(db *sqlx.DB, storeID, id string) error {
	if _, err := Get(db, storeID, id); err != nil {
		return err
	}
	return database.DeleteSupplier(db, storeID, id)
}
