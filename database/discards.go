package database

import (
	"database/sql"
	"errors"
	"fmt"

	"doceria/model"
)

const discardColumns = "id, store_id, item_id, item_name, quantity, reason, unit_cost, total_cost, user_id, created_at"

func InsertDiscard(q Querier, d model.Discard) error {
	_, err := q.Exec("INSERT INTO discards ("+discardColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		d.ID, d.StoreID, d.ItemID, d.ItemName, d.Quantity, d.Reason, d.UnitCost, d.TotalCost, d.UserID, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("InsertDiscard (Item: %s) failed: %w", d.ItemID, err)
	}
	return nil
}

// GetDiscards lists discards created between from and to, inclusive
// YYYY-MM-DD dates. Empty bounds are open.
func GetDiscards(q Querier, storeID, from, to string) ([]model.Discard, error) {
	discards := []model.Discard{}
	query := "SELECT " + discardColumns + " FROM discards WHERE store_id = ?"
	args := []interface{}{storeID}
	query, args = appendDateRange(query, args, "created_at", from, to)
	query += " ORDER BY created_at DESC, rowid DESC"
	if err := q.Select(&discards, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get discards: %w", err)
	}
	return discards, nil
}

func GetDiscard(q Querier, storeID, id string) (*model.Discard, error) {
	var d model.Discard
	err := q.Get(&d, "SELECT "+discardColumns+" FROM discards WHERE store_id = ? AND id = ?", storeID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get discard %s: %w", id, err)
	}
	return &d, nil
}

func DeleteDiscard(q Querier, storeID, id string) error {
	if _, err := q.Exec("DELETE FROM discards WHERE store_id = ? AND id = ?", storeID, id); err != nil {
		return fmt.Errorf("failed to delete discard %s: %w", id, err)
	}
	return nil
}

func appendDateRange(query string, args []interface{}, column, from, to string) (string, []interface{}) {
	if from != "" {
		query += fmt.Sprintf(" AND date(%s) >= ?", column)
		args = append(args, from)
	}
	if to != "" {
		query += fmt.Sprintf(" AND date(%s) <= ?", column)
		args = append(args, to)
	}
	return query, args
}
