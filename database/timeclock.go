package database

import (
	"database/sql"
	"errors"
	"fmt"

	"doceria/model"
)

const punchColumns = "id, store_id, user_id, user_name, kind, recorded_at, notes"

// GetLastPunch returns the user's most recent punch in the store, or nil.
func GetLastPunch(q Querier, storeID, userID string) (*model.Punch, error) {
	var p model.Punch
	err := q.Get(&p, "SELECT "+punchColumns+` FROM time_clock WHERE store_id = ? AND user_id = ?
		ORDER BY recorded_at DESC, rowid DESC LIMIT 1`, storeID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last punch for %s: %w", userID, err)
	}
	return &p, nil
}

func InsertPunch(q Querier, p model.Punch) error {
	_, err := q.Exec("INSERT INTO time_clock ("+punchColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.StoreID, p.UserID, p.UserName, p.Kind, p.RecordedAt, p.Notes)
	if err != nil {
		return fmt.Errorf("InsertPunch (User: %s) failed: %w", p.UserID, err)
	}
	return nil
}

// GetPunches lists punches oldest first. An empty userID returns everyone.
func GetPunches(q Querier, storeID, userID, from, to string) ([]model.Punch, error) {
	punches := []model.Punch{}
	query := "SELECT " + punchColumns + " FROM time_clock WHERE store_id = ?"
	args := []interface{}{storeID}
	if userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}
	query, args = appendDateRange(query, args, "recorded_at", from, to)
	query += " ORDER BY recorded_at, rowid"
	if err := q.Select(&punches, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get punches: %w", err)
	}
	return punches, nil
}
