// Package customer manages the customer records shared by every store.
package customer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"doceria/database"
	"doceria/model"
	"doceria/render"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Purchase counters may arrive under any of these keys; the first present
// one wins. totalCompras is read as an increment, never as an absolute
// value.
var incrementKeys = []string{"comprasIncrement", "incrementarCompras", "totalComprasIncrement", "totalCompras", "compras"}

// ParsePayload splits a storefront payload into the writable fields and
// the purchase increment. Server-managed fields are dropped.
func ParsePayload(body []byte) (model.CustomerInput, float64, error) {
	var in model.CustomerInput
	if len(body) == 0 {
		return in, 0, nil
	}
	if err := json.Unmarshal(body, &in); err != nil {
		return in, 0, fmt.Errorf("invalid customer payload: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return in, 0, fmt.Errorf("invalid customer payload: %w", err)
	}
	return in, purchaseIncrement(raw), nil
}

func purchaseIncrement(raw map[string]json.RawMessage) float64 {
	for _, k := range incrementKeys {
		v, ok := raw[k]
		if !ok || string(v) == "null" {
			continue
		}
		return toNumber(v)
	}
	return 0
}

func toNumber(raw json.RawMessage) float64 {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case bool:
		if t {
			n = 1
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		n = f
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// Upsert finds the customer by trimmed phone and merges in, or creates a
// new record. created reports which happened.
func Upsert(db *sqlx.DB, storeID string, in model.CustomerInput, increment float64) (c *model.Customer, created bool, err error) {
	if in.Phone != nil {
		p := strings.TrimSpace(*in.Phone)
		in.Phone = &p
	}
	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		phone := ""
		if in.Phone != nil {
			phone = *in.Phone
		}
		existing, err := database.FindCustomerByPhone(tx, phone)
		if err != nil {
			return err
		}
		id := uuid.NewString()
		if existing != nil {
			id = existing.ID
		}
		created = existing == nil
		if err := save(tx, storeID, id, existing, in, increment); err != nil {
			return err
		}
		c, err = database.GetCustomer(tx, id)
		return err
	})
	return c, created, err
}

// Merge updates customer id, creating it when it does not exist yet.
func Merge(db *sqlx.DB, storeID, id string, in model.CustomerInput, increment float64) (c *model.Customer, err error) {
	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		existing, err := database.GetCustomer(tx, id)
		if err != nil {
			return err
		}
		if err := save(tx, storeID, id, existing, in, increment); err != nil {
			return err
		}
		c, err = database.GetCustomer(tx, id)
		return err
	})
	return c, err
}

func save(tx *sqlx.Tx, storeID, id string, existing *model.Customer, in model.CustomerInput, increment float64) error {
	now := database.Now()
	c := model.Customer{ID: id, CreatedAt: now}
	if existing != nil {
		c = *existing
	}
	apply(&c, in)
	if storeID != "" {
		c.HomeStoreID = storeID
	}
	c.UpdatedAt = now

	if existing == nil {
		if err := database.InsertCustomer(tx, c); err != nil {
			return err
		}
	} else if err := database.UpdateCustomer(tx, c); err != nil {
		return err
	}
	if in.Addresses != nil {
		if err := database.ReplaceCustomerAddresses(tx, id, in.Addresses); err != nil {
			return err
		}
	}
	if in.NewAddress != nil {
		if err := database.AddCustomerAddress(tx, id, *in.NewAddress); err != nil {
			return err
		}
	}
	if increment != 0 {
		if err := database.IncrementCustomerPurchases(tx, id, increment); err != nil {
			return err
		}
	}
	if storeID != "" {
		return database.AddCustomerStore(tx, id, storeID)
	}
	return nil
}

func apply(c *model.Customer, in model.CustomerInput) {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Email != nil {
		c.Email = strings.TrimSpace(*in.Email)
	}
	if in.Birthday != nil {
		c.Birthday = *in.Birthday
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
}

// List returns the store's customers matching query by name or phone,
// ignoring accents and case.
func List(db *sqlx.DB, storeID, query string) ([]model.Customer, error) {
	return database.SearchCustomers(db, storeID, func(name, phone string) bool {
		return render.MatchFolded(query, name, phone)
	})
}

// Get returns the customer when it has visited storeID.
func Get(db *sqlx.DB, storeID, id string) (*model.Customer, error) {
	c, err := database.GetCustomer(db, id)
	if err != nil {
		return nil, err
	}
	if c == nil || !visited(c, storeID) {
		return nil, ErrNotFound
	}
	return c, nil
}

// Remove unlinks the customer from storeID. The record itself is deleted
// once no store references it.
func Remove(db *sqlx.DB, storeID, id string) error {
	if _, err := Get(db, storeID, id); err != nil {
		return err
	}
	return database.WithTx(db, func(tx *sqlx.Tx) error {
		return database.RemoveCustomerFromStore(tx, id, storeID)
	})
}

func visited(c *model.Customer, storeID string) bool {
	for _, s := range c.VisitedStores {
		if s == storeID {
			return true
		}
	}
	return false
}
