package database

import (
	"database/sql"
	"errors"
	"fmt"

	"doceria/model"

	"github.com/jmoiron/sqlx"
)

func StoreExists(q Querier, id string) (bool, error) {
	var n int
	if err := q.Get(&n, "SELECT COUNT(*) FROM stores WHERE id = ?", id); err != nil {
		return false, fmt.Errorf("failed to check store %s: %w", id, err)
	}
	return n > 0, nil
}

func GetStore(q Querier, id string) (*model.Store, error) {
	var s model.Store
	err := q.Get(&s, "SELECT id, name, created_at, created_by FROM stores WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get store %s: %w", id, err)
	}
	return &s, nil
}

func GetAllStores(q Querier) ([]model.Store, error) {
	stores := []model.Store{}
	if err := q.Select(&stores, "SELECT id, name, created_at, created_by FROM stores ORDER BY name"); err != nil {
		return nil, fmt.Errorf("failed to get all stores: %w", err)
	}
	return stores, nil
}

func GetStoresByIDs(q Querier, ids []string) ([]model.Store, error) {
	stores := []model.Store{}
	if len(ids) == 0 {
		return stores, nil
	}
	query, args, err := sqlx.In("SELECT id, name, created_at, created_by FROM stores WHERE id IN (?) ORDER BY name", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build store query: %w", err)
	}
	if err := q.Select(&stores, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get stores: %w", err)
	}
	return stores, nil
}

// CreateStoreInTx inserts the store row with its company profile and the
// default shipping configuration.
func CreateStoreInTx(tx *sqlx.Tx, store model.Store) error {
	if _, err := tx.Exec(`INSERT INTO stores (id, name, created_at, created_by) VALUES (?, ?, ?, ?)`,
		store.ID, store.Name, store.CreatedAt, store.CreatedBy); err != nil {
		return fmt.Errorf("CreateStoreInTx (ID: %s) failed: %w", store.ID, err)
	}
	if _, err := tx.Exec(`INSERT INTO store_company (store_id, trade_name, updated_at, updated_by) VALUES (?, ?, ?, ?)`,
		store.ID, store.Name, store.CreatedAt, store.CreatedBy); err != nil {
		return fmt.Errorf("failed to create company profile for %s: %w", store.ID, err)
	}
	if _, err := tx.Exec(`INSERT INTO store_shipping (store_id, active, kind, fixed_fee, min_order, updated_at) VALUES (?, 0, ?, 0, 0, ?)`,
		store.ID, model.ShippingKindFixed, store.CreatedAt); err != nil {
		return fmt.Errorf("failed to create shipping config for %s: %w", store.ID, err)
	}
	return nil
}

func GetCompanyProfile(q Querier, storeID string) (*model.CompanyProfile, error) {
	var p model.CompanyProfile
	err := q.Get(&p, `SELECT store_id, trade_name, document, phone, email, address, opening_hours, updated_at, updated_by
		FROM store_company WHERE store_id = ?`, storeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company profile for %s: %w", storeID, err)
	}
	return &p, nil
}

func UpsertCompanyProfile(q Querier, p model.CompanyProfile) error {
	const query = `
		INSERT INTO store_company (store_id, trade_name, document, phone, email, address, opening_hours, updated_at, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(store_id) DO UPDATE SET
			trade_name = excluded.trade_name, document = excluded.document, phone = excluded.phone,
			email = excluded.email, address = excluded.address, opening_hours = excluded.opening_hours,
			updated_at = excluded.updated_at, updated_by = excluded.updated_by`
	_, err := q.Exec(query, p.StoreID, p.TradeName, p.Document, p.Phone, p.Email, p.Address, p.Hours, p.UpdatedAt, p.UpdatedBy)
	if err != nil {
		return fmt.Errorf("UpsertCompanyProfile (Store: %s) failed: %w", p.StoreID, err)
	}
	return nil
}

func GetShippingConfig(q Querier, storeID string) (*model.ShippingConfig, error) {
	var c model.ShippingConfig
	err := q.Get(&c, `SELECT store_id, active, kind, fixed_fee, min_order, lat, lng, per_km, updated_at
		FROM store_shipping WHERE store_id = ?`, storeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shipping config for %s: %w", storeID, err)
	}
	return &c, nil
}

func UpsertShippingConfig(q Querier, c model.ShippingConfig) error {
	const query = `
		INSERT INTO store_shipping (store_id, active, kind, fixed_fee, min_order, lat, lng, per_km, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(store_id) DO UPDATE SET
			active = excluded.active, kind = excluded.kind, fixed_fee = excluded.fixed_fee,
			min_order = excluded.min_order, lat = excluded.lat, lng = excluded.lng,
			per_km = excluded.per_km, updated_at = excluded.updated_at`
	_, err := q.Exec(query, c.StoreID, c.Active, c.Kind, c.FixedFee, c.MinOrder, c.Lat, c.Lng, c.PerKm, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("UpsertShippingConfig (Store: %s) failed: %w", c.StoreID, err)
	}
	return nil
}
