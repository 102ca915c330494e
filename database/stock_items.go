package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"doceria/model"
)

const stockItemColumns = "id, store_id, name, category, supplier_id, quantity, unit, unit_cost, min_level, created_at, updated_at"

func GetStockItem(q Querier, storeID, id string) (*model.StockItem, error) {
	var it model.StockItem
	err := q.Get(&it, "SELECT "+stockItemColumns+" FROM stock_items WHERE store_id = ? AND id = ?", storeID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get stock item %s: %w", id, err)
	}
	return &it, nil
}

func GetStockItems(q Querier, storeID string) ([]model.StockItem, error) {
	items := []model.StockItem{}
	if err := q.Select(&items, "SELECT "+stockItemColumns+" FROM stock_items WHERE store_id = ? ORDER BY name", storeID); err != nil {
		return nil, fmt.Errorf("failed to get stock items for store %s: %w", storeID, err)
	}
	return items, nil
}

// GetLowStockItems returns items at or below their minimum level.
func GetLowStockItems(q Querier, storeID string) ([]model.StockItem, error) {
	items := []model.StockItem{}
	err := q.Select(&items, "SELECT "+stockItemColumns+` FROM stock_items
		WHERE store_id = ? AND min_level > 0 AND quantity <= min_level ORDER BY quantity - min_level, name`, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get low stock items: %w", err)
	}
	return items, nil
}

func InsertStockItem(q Querier, it model.StockItem) error {
	_, err := q.Exec("INSERT INTO stock_items ("+stockItemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		it.ID, it.StoreID, it.Name, it.Category, it.SupplierID, it.Quantity, it.Unit, it.UnitCost, it.MinLevel, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("InsertStockItem (Name: %s) failed: %w", it.Name, err)
	}
	return nil
}

// UpdateStockItem edits descriptive fields. Quantity only changes through
// the ledger.
func UpdateStockItem(q Querier, it model.StockItem) error {
	_, err := q.Exec(`UPDATE stock_items SET name = ?, category = ?, supplier_id = ?, unit = ?, unit_cost = ?, min_level = ?, updated_at = ?
		WHERE store_id = ? AND id = ?`,
		it.Name, it.Category, it.SupplierID, it.Unit, it.UnitCost, it.MinLevel, it.UpdatedAt, it.StoreID, it.ID)
	if err != nil {
		return fmt.Errorf("UpdateStockItem (ID: %s) failed: %w", it.ID, err)
	}
	return nil
}

func DeleteStockItem(q Querier, storeID, id string) error {
	if _, err := q.Exec("DELETE FROM stock_items WHERE store_id = ? AND id = ?", storeID, id); err != nil {
		return fmt.Errorf("failed to delete stock item %s: %w", id, err)
	}
	return nil
}

// ApplyStockDelta adds delta to whichever of the product and the stock item
// exist under id.
func ApplyStockDelta(q Querier, storeID, id string, delta float64, product, item bool) error {
	now := Now()
	if product {
		if _, err := q.Exec("UPDATE products SET stock = stock + ?, updated_at = ? WHERE store_id = ? AND id = ?", delta, now, storeID, id); err != nil {
			return fmt.Errorf("failed to update product stock %s: %w", id, err)
		}
	}
	if item {
		if _, err := q.Exec("UPDATE stock_items SET quantity = quantity + ?, updated_at = ? WHERE store_id = ? AND id = ?", delta, now, storeID, id); err != nil {
			return fmt.Errorf("failed to update stock item %s: %w", id, err)
		}
	}
	return nil
}

func GetValuationRows(q Querier, storeID string) ([]model.ValuationRow, error) {
	rows := []model.ValuationRow{}
	err := q.Select(&rows, `SELECT id, name, category, quantity, unit, unit_cost FROM stock_items
		WHERE store_id = ? ORDER BY category, name`, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get valuation rows: %w", err)
	}
	return rows, nil
}

// GetIdleStockItems lists items with quantity on hand whose last saida is
// older than cutoff, or that never had one. LastOut is a YYYY-MM-DD day.
func GetIdleStockItems(q Querier, storeID string, cutoff time.Time) ([]model.IdleStockItem, error) {
	items := []model.IdleStockItem{}
	err := q.Select(&items, `SELECT s.id, s.name, s.category, s.quantity, s.unit, s.unit_cost,
			date(MAX(m.created_at)) AS last_out
		FROM stock_items s
		LEFT JOIN stock_movements m ON m.store_id = s.store_id AND m.item_id = s.id AND m.kind = ?
		WHERE s.store_id = ? AND s.quantity > 0
		GROUP BY s.id
		HAVING MAX(m.created_at) IS NULL OR MAX(m.created_at) < ?
		ORDER BY s.quantity * s.unit_cost DESC, s.name`, model.MovementOut, storeID, cutoff.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get idle stock items: %w", err)
	}
	return items, nil
}
