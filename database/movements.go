package database

import (
	"fmt"

	"doceria/model"
)

const movementColumns = "id, store_id, item_id, kind, quantity, delta, reason, user_id, user_email, before_qty, after_qty, created_at"

func InsertMovement(q Querier, m model.StockMovement) error {
	_, err := q.Exec("INSERT INTO stock_movements ("+movementColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.StoreID, m.ItemID, m.Kind, m.Quantity, m.Delta, m.Reason, m.UserID, m.UserEmail, m.Before, m.After, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("InsertMovement (Item: %s) failed: %w", m.ItemID, err)
	}
	return nil
}

// GetMovements returns the store's kardex, newest first. An empty itemID
// returns movements for every item.
func GetMovements(q Querier, storeID, itemID string, limit int) ([]model.StockMovement, error) {
	movements := []model.StockMovement{}
	query := "SELECT " + movementColumns + " FROM stock_movements WHERE store_id = ?"
	args := []interface{}{storeID}
	if itemID != "" {
		query += " AND item_id = ?"
		args = append(args, itemID)
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	if err := q.Select(&movements, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get movements for store %s: %w", storeID, err)
	}
	return movements, nil
}
