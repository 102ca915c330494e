package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"doceria/model"

	"github.com/jmoiron/sqlx"
)

const userColumns = "uid, email, name, password_hash, role, primary_store_id, created_at, updated_at"

// GetUser loads a user with store list and stored permissions. It returns
// nil when the uid is unknown.
func GetUser(q Querier, uid string) (*model.User, error) {
	var u model.User
	err := q.Get(&u, "SELECT "+userColumns+" FROM users WHERE uid = ?", uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %s: %w", uid, err)
	}
	if err := fillUser(q, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func GetUserByEmail(q Querier, email string) (*model.User, error) {
	var u model.User
	err := q.Get(&u, "SELECT "+userColumns+" FROM users WHERE email = ? COLLATE NOCASE", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if err := fillUser(q, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func GetAllUsers(q Querier) ([]model.User, error) {
	users := []model.User{}
	if err := q.Select(&users, "SELECT "+userColumns+" FROM users ORDER BY name"); err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	for i := range users {
		if err := fillUser(q, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func CountUsers(q Querier) (int, error) {
	var n int
	if err := q.Get(&n, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func fillUser(q Querier, u *model.User) error {
	u.StoreIDs = []string{}
	if err := q.Select(&u.StoreIDs, "SELECT store_id FROM user_stores WHERE uid = ? ORDER BY position", u.UID); err != nil {
		return fmt.Errorf("failed to get stores for user %s: %w", u.UID, err)
	}
	var raw string
	err := q.Get(&raw, "SELECT permissions FROM custom_profiles WHERE uid = ?", u.UID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to get profile for user %s: %w", u.UID, err)
	}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &u.Permissions); err != nil {
			return fmt.Errorf("invalid permissions for user %s: %w", u.UID, err)
		}
	}
	return nil
}

func InsertUserInTx(tx *sqlx.Tx, u model.User) error {
	_, err := tx.Exec("INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		u.UID, u.Email, u.Name, u.PasswordHash, u.Role, u.PrimaryStoreID, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("InsertUserInTx (Email: %s) failed: %w", u.Email, err)
	}
	return SetUserStoresInTx(tx, u.UID, u.StoreIDs)
}

// UpdateUserInTx rewrites profile fields and the store list. The password
// hash is left alone.
func UpdateUserInTx(tx *sqlx.Tx, u model.User) error {
	_, err := tx.Exec(`UPDATE users SET email = ?, name = ?, role = ?, primary_store_id = ?, updated_at = ? WHERE uid = ?`,
		u.Email, u.Name, u.Role, u.PrimaryStoreID, u.UpdatedAt, u.UID)
	if err != nil {
		return fmt.Errorf("UpdateUserInTx (UID: %s) failed: %w", u.UID, err)
	}
	return SetUserStoresInTx(tx, u.UID, u.StoreIDs)
}

func SetUserStoresInTx(tx *sqlx.Tx, uid string, storeIDs []string) error {
	if _, err := tx.Exec("DELETE FROM user_stores WHERE uid = ?", uid); err != nil {
		return fmt.Errorf("failed to clear stores for user %s: %w", uid, err)
	}
	for i, id := range storeIDs {
		if _, err := tx.Exec("INSERT OR IGNORE INTO user_stores (uid, store_id, position) VALUES (?, ?, ?)", uid, id, i); err != nil {
			return fmt.Errorf("failed to assign store %s to user %s: %w", id, uid, err)
		}
	}
	return nil
}

func SetPrimaryStoreInTx(tx *sqlx.Tx, uid, storeID string) error {
	if _, err := tx.Exec("UPDATE users SET primary_store_id = ? WHERE uid = ?", storeID, uid); err != nil {
		return fmt.Errorf("failed to set primary store for %s: %w", uid, err)
	}
	return nil
}

func UpdatePasswordHash(q Querier, uid, hash string) error {
	res, err := q.Exec("UPDATE users SET password_hash = ?, updated_at = ? WHERE uid = ?", hash, Now(), uid)
	if err != nil {
		return fmt.Errorf("failed to update password for %s: %w", uid, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpsertProfileInTx stores the sanitized menu permissions for uid.
func UpsertProfileInTx(tx *sqlx.Tx, uid, role string, perms model.Permissions) error {
	raw, err := json.Marshal(perms)
	if err != nil {
		return fmt.Errorf("failed to encode permissions: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO custom_profiles (uid, role, permissions, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(uid) DO UPDATE SET role = excluded.role, permissions = excluded.permissions, updated_at = excluded.updated_at`,
		uid, role, string(raw), Now())
	if err != nil {
		return fmt.Errorf("UpsertProfileInTx (UID: %s) failed: %w", uid, err)
	}
	return nil
}

func DeleteUserInTx(tx *sqlx.Tx, uid string) error {
	if _, err := tx.Exec("DELETE FROM custom_profiles WHERE uid = ?", uid); err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", uid, err)
	}
	if _, err := tx.Exec("DELETE FROM users WHERE uid = ?", uid); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", uid, err)
	}
	return nil
}
