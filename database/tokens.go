package database

import (
	"fmt"

	"doceria/model"

	"github.com/jmoiron/sqlx"
)

func UpsertToken(q Querier, t model.DeviceToken) error {
	_, err := q.Exec(`INSERT INTO notification_tokens (token, user_id, platform, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(token) DO UPDATE SET user_id = excluded.user_id, platform = excluded.platform`,
		t.Token, t.UserID, t.Platform, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("UpsertToken failed: %w", err)
	}
	return nil
}

func GetAllTokens(q Querier) ([]string, error) {
	tokens := []string{}
	if err := q.Select(&tokens, "SELECT token FROM notification_tokens ORDER BY created_at"); err != nil {
		return nil, fmt.Errorf("failed to get notification tokens: %w", err)
	}
	return tokens, nil
}

func DeleteTokens(q Querier, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	query, args, err := sqlx.In("DELETE FROM notification_tokens WHERE token IN (?)", tokens)
	if err != nil {
		return fmt.Errorf("failed to build token delete: %w", err)
	}
	if _, err := q.Exec(q.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete notification tokens: %w", err)
	}
	return nil
}
