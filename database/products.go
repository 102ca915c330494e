package database

import (
	"database/sql"
	"errors"
	"fmt"

	"doceria/model"

	"github.com/jmoiron/sqlx"
)

const productColumns = "id, store_id, name, category, description, price, cost, stock, status, prep_time, image_url, created_at, updated_at"

func GetProduct(q Querier, storeID, id string) (*model.Product, error) {
	var p model.Product
	err := q.Get(&p, "SELECT "+productColumns+" FROM products WHERE store_id = ? AND id = ?", storeID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &p, nil
}

// GetProducts lists the store's products. An empty status returns all.
func GetProducts(q Querier, storeID, status string) ([]model.Product, error) {
	products := []model.Product{}
	query := "SELECT " + productColumns + " FROM products WHERE store_id = ?"
	args := []interface{}{storeID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY name"
	if err := q.Select(&products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get products for store %s: %w", storeID, err)
	}
	return products, nil
}

func InsertProduct(q Querier, p model.Product) error {
	_, err := q.Exec("INSERT INTO products ("+productColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.StoreID, p.Name, p.Category, p.Description, p.Price, p.Cost, p.Stock, p.Status, p.PrepTime, p.ImageURL, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("InsertProduct (Name: %s) failed: %w", p.Name, err)
	}
	return nil
}

func UpdateProduct(q Querier, p model.Product) error {
	_, err := q.Exec(`UPDATE products SET name = ?, category = ?, description = ?, price = ?, cost = ?, stock = ?,
		status = ?, prep_time = ?, image_url = ?, updated_at = ? WHERE store_id = ? AND id = ?`,
		p.Name, p.Category, p.Description, p.Price, p.Cost, p.Stock, p.Status, p.PrepTime, p.ImageURL, p.UpdatedAt, p.StoreID, p.ID)
	if err != nil {
		return fmt.Errorf("UpdateProduct (ID: %s) failed: %w", p.ID, err)
	}
	return nil
}

func DeleteProduct(q Querier, storeID, id string) error {
	if _, err := q.Exec("DELETE FROM products WHERE store_id = ? AND id = ?", storeID, id); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

// UpsertProductByNameInTx is used by CSV import: a product with the same
// name in the store is updated in place.
func UpsertProductByNameInTx(tx *sqlx.Tx, p model.Product) (created bool, err error) {
	var existingID string
	err = tx.Get(&existingID, "SELECT id FROM products WHERE store_id = ? AND name = ? COLLATE NOCASE", p.StoreID, p.Name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to look up product %s: %w", p.Name, err)
	}
	if existingID == "" {
		return true, InsertProduct(tx, p)
	}
	_, err = tx.Exec(`UPDATE products SET category = ?, price = ?, cost = ?, stock = ?, status = ?, updated_at = ?
		WHERE id = ?`, p.Category, p.Price, p.Cost, p.Stock, p.Status, p.UpdatedAt, existingID)
	if err != nil {
		return false, fmt.Errorf("failed to update product %s: %w", p.Name, err)
	}
	return false, nil
}
