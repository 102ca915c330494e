package database

import (
	"fmt"

	"doceria/model"
)

func InsertActivityLog(q Querier, l model.ActivityLog) error {
	_, err := q.Exec(`INSERT INTO activity_logs (id, store_id, action, details, user_email, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, l.StoreID, l.Action, l.Details, l.UserEmail, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("InsertActivityLog (%s) failed: %w", l.Action, err)
	}
	return nil
}

func GetActivityLogs(q Querier, storeID string, limit int) ([]model.ActivityLog, error) {
	logs := []model.ActivityLog{}
	if limit <= 0 {
		limit = 100
	}
	err := q.Select(&logs, `SELECT id, store_id, action, details, user_email, created_at FROM activity_logs
		WHERE store_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, storeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity logs: %w", err)
	}
	return logs, nil
}
