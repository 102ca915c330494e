// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"doceria/database"
	"doceria/loader"
	"doceria/model"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// OpenDB returns a migrated SQLite database under t.TempDir.
func OpenDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := loader.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, loader.InitDatabase(db))
	return db
}

// SeedStore creates a store with default company and shipping rows.
func SeedStore(t *testing.T, db *sqlx.DB, id string) {
	t.Helper()
	err := database.WithTx(db, func(tx *sqlx.Tx) error {
		return database.CreateStoreInTx(tx, model.Store{ID: id, Name: "Loja " + id, CreatedAt: database.Now(), CreatedBy: "seed"})
	})
	require.NoError(t, err)
}

// SeedUser inserts a user with the given role and store list and returns it
// as loaded from the database.
func SeedUser(t *testing.T, db *sqlx.DB, uid, role string, stores ...string) *model.User {
	t.Helper()
	now := database.Now()
	u := model.User{
		UID:       uid,
		Email:     uid + "@doceria.test",
		Name:      "User " + uid,
		Role:      role,
		StoreIDs:  stores,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(stores) > 0 {
		u.PrimaryStoreID = &stores[0]
	}
	err := database.WithTx(db, func(tx *sqlx.Tx) error {
		return database.InsertUserInTx(tx, u)
	})
	require.NoError(t, err)
	loaded, err := database.GetUser(db, uid)
	require.NoError(t, err)
	return loaded
}
