package database

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
)

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type Querier interface {
	sqlx.Ext
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
}

// WithTx runs fn inside a transaction, committing when fn returns nil.
func WithTx(db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
			if err != nil {
				log.Printf("ERROR: commit failed: %v", err)
			}
		}
	}()
	return fn(tx)
}

// Now is the timestamp written to created_at/updated_at columns.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Today returns the current UTC date as YYYY-MM-DD, matching the dates
// SQLite derives from stored timestamps.
func Today() string {
	return Now().Format("2006-01-02")
}
