package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"doceria/model"
)

const customerColumns = "id, name, phone, email, birthday, notes, home_store_id, total_purchases, created_at, updated_at"

func GetCustomer(q Querier, id string) (*model.Customer, error) {
	var c model.Customer
	err := q.Get(&c, "SELECT "+customerColumns+" FROM customers WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer %s: %w", id, err)
	}
	if err := fillCustomer(q, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindCustomerByPhone returns the first customer with that exact phone, or
// nil. An empty phone never matches.
func FindCustomerByPhone(q Querier, phone string) (*model.Customer, error) {
	if phone == "" {
		return nil, nil
	}
	var id string
	err := q.Get(&id, "SELECT id FROM customers WHERE phone = ? ORDER BY created_at LIMIT 1", phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find customer by phone: %w", err)
	}
	return GetCustomer(q, id)
}

// GetCustomersByStore returns customers that have visited the store.
func GetCustomersByStore(q Querier, storeID string) ([]model.Customer, error) {
	customers := []model.Customer{}
	err := q.Select(&customers, `
		SELECT c.id, c.name, c.phone, c.email, c.birthday, c.notes, c.home_store_id, c.total_purchases, c.created_at, c.updated_at
		FROM customers c JOIN customer_stores cs ON cs.customer_id = c.id
		WHERE cs.store_id = ? ORDER BY c.name`, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customers for store %s: %w", storeID, err)
	}
	for i := range customers {
		if err := fillCustomer(q, &customers[i]); err != nil {
			return nil, err
		}
	}
	return customers, nil
}

// GetCustomerNameMap maps customer ID to name for the store's customers.
func GetCustomerNameMap(q Querier, storeID string) (map[string]string, error) {
	var rows []struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}
	err := q.Select(&rows, `SELECT c.id, c.name FROM customers c
		JOIN customer_stores cs ON cs.customer_id = c.id WHERE cs.store_id = ?`, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer names: %w", err)
	}
	m := make(map[string]string, len(rows))
	for _, r := range rows {
		m[r.ID] = r.Name
	}
	return m, nil
}

func fillCustomer(q Querier, c *model.Customer) error {
	var raws []string
	if err := q.Select(&raws, "SELECT address FROM customer_addresses WHERE customer_id = ? ORDER BY position", c.ID); err != nil {
		return fmt.Errorf("failed to get addresses for customer %s: %w", c.ID, err)
	}
	c.Addresses = make([]model.Address, 0, len(raws))
	for _, raw := range raws {
		var a model.Address
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return fmt.Errorf("invalid address for customer %s: %w", c.ID, err)
		}
		c.Addresses = append(c.Addresses, a)
	}
	c.VisitedStores = []string{}
	if err := q.Select(&c.VisitedStores, "SELECT store_id FROM customer_stores WHERE customer_id = ? ORDER BY store_id", c.ID); err != nil {
		return fmt.Errorf("failed to get stores for customer %s: %w", c.ID, err)
	}
	return nil
}

func InsertCustomer(q Querier, c model.Customer) error {
	_, err := q.Exec("INSERT INTO customers ("+customerColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		c.ID, c.Name, c.Phone, c.Email, c.Birthday, c.Notes, c.HomeStoreID, c.TotalPurchases, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("InsertCustomer (Phone: %s) failed: %w", c.Phone, err)
	}
	return nil
}

func UpdateCustomer(q Querier, c model.Customer) error {
	_, err := q.Exec(`UPDATE customers SET name = ?, phone = ?, email = ?, birthday = ?, notes = ?, home_store_id = ?, updated_at = ?
		WHERE id = ?`, c.Name, c.Phone, c.Email, c.Birthday, c.Notes, c.HomeStoreID, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("UpdateCustomer (ID: %s) failed: %w", c.ID, err)
	}
	return nil
}

func IncrementCustomerPurchases(q Querier, id string, amount float64) error {
	if _, err := q.Exec("UPDATE customers SET total_purchases = total_purchases + ? WHERE id = ?", amount, id); err != nil {
		return fmt.Errorf("failed to increment purchases for %s: %w", id, err)
	}
	return nil
}

// AddCustomerAddress appends a to the customer's address set. Duplicates
// are ignored.
func AddCustomerAddress(q Querier, customerID string, a model.Address) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode address: %w", err)
	}
	_, err = q.Exec(`INSERT OR IGNORE INTO customer_addresses (customer_id, address, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM customer_addresses WHERE customer_id = ?))`,
		customerID, string(raw), customerID)
	if err != nil {
		return fmt.Errorf("failed to add address for %s: %w", customerID, err)
	}
	return nil
}

func ReplaceCustomerAddresses(q Querier, customerID string, addrs []model.Address) error {
	if _, err := q.Exec("DELETE FROM customer_addresses WHERE customer_id = ?", customerID); err != nil {
		return fmt.Errorf("failed to clear addresses for %s: %w", customerID, err)
	}
	for _, a := range addrs {
		if err := AddCustomerAddress(q, customerID, a); err != nil {
			return err
		}
	}
	return nil
}

func AddCustomerStore(q Querier, customerID, storeID string) error {
	if _, err := q.Exec("INSERT OR IGNORE INTO customer_stores (customer_id, store_id) VALUES (?, ?)", customerID, storeID); err != nil {
		return fmt.Errorf("failed to link customer %s to store %s: %w", customerID, storeID, err)
	}
	return nil
}

// RemoveCustomerFromStore unlinks the customer from one store and deletes
// the record once no store references it.
func RemoveCustomerFromStore(q Querier, customerID, storeID string) error {
	if _, err := q.Exec("DELETE FROM customer_stores WHERE customer_id = ? AND store_id = ?", customerID, storeID); err != nil {
		return fmt.Errorf("failed to unlink customer %s: %w", customerID, err)
	}
	_, err := q.Exec(`DELETE FROM customers WHERE id = ? AND NOT EXISTS (SELECT 1 FROM customer_stores WHERE customer_id = ?)`,
		customerID, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete customer %s: %w", customerID, err)
	}
	return nil
}

// SearchCustomers filters the store's customers by a folded name or phone
// fragment.
func SearchCustomers(q Querier, storeID string, match func(name, phone string) bool) ([]model.Customer, error) {
	all, err := GetCustomersByStore(q, storeID)
	if err != nil {
		return nil, err
	}
	out := []model.Customer{}
	for _, c := range all {
		if match(c.Name, strings.TrimSpace(c.Phone)) {
			out = append(out, c)
		}
	}
	return out, nil
}
