package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

// NextSequenceInTx returns the next formatted code for a per-store counter,
// creating the counter on first use.
func NextSequenceInTx(tx *sqlx.Tx, storeID, name, prefix string, padding int) (string, error) {
	var lastNo int
	err := tx.Get(&lastNo, "SELECT last_no FROM code_sequences WHERE store_id = ? AND name = ?", storeID, name)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("failed to get sequence '%s' for store %s: %w", name, storeID, err)
		}
		if _, err := tx.Exec(`INSERT INTO code_sequences (store_id, name, last_no) VALUES (?, ?, 0)`, storeID, name); err != nil {
			return "", fmt.Errorf("failed to create sequence '%s' for store %s: %w", name, storeID, err)
		}
		log.Printf("INFO: [Sequence] Created '%s' for store %s", name, storeID)
	}

	newNo := lastNo + 1
	_, err = tx.Exec(`UPDATE code_sequences SET last_no = ? WHERE store_id = ? AND name = ?`, newNo, storeID, name)
	if err != nil {
		return "", fmt.Errorf("failed to update sequence '%s': %w", name, err)
	}

	format := fmt.Sprintf("%s%%0%dd", prefix, padding)
	return fmt.Sprintf(format, newNo), nil
}
