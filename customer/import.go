package customer

import (
	"fmt"
	"io"
	"log"

	"doceria/database"
	"doceria/model"
	"doceria/parsers"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ImportResult summarizes a spreadsheet import.
type ImportResult struct {
	Created int      `json:"criados"`
	Updated int      `json:"atualizados"`
	Errors  []string `json:"erros"`
}

// Import loads a customer spreadsheet into storeID in one transaction.
// Rows whose phone matches an existing customer are merged into it.
func Import(db *sqlx.DB, storeID string, r io.Reader, charset string) (*ImportResult, error) {
	records, err := parsers.ParseCustomerCSV(r, charset)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("o CSV não contém clientes")
	}

	res := &ImportResult{Errors: []string{}}
	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		for _, rec := range records {
			name, phone, email := rec.Name, rec.Phone, rec.Email
			in := model.CustomerInput{Name: &name, Phone: &phone}
			if email != "" {
				in.Email = &email
			}
			in.NewAddress = rec.Address

			existing, err := database.FindCustomerByPhone(tx, phone)
			if err != nil {
				return err
			}
			id := uuid.NewString()
			if existing != nil {
				id = existing.ID
			}
			if err := save(tx, storeID, id, existing, in, 0); err != nil {
				log.Printf("ERROR: [ImportCustomers] %s: %v", name, err)
				res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", name, err))
				continue
			}
			if existing != nil {
				res.Updated++
			} else {
				res.Created++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
