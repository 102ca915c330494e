package database

import (
	"database/sql"
	"errors"
	"fmt"

	"doceria/model"
)

const payableColumns = "id, store_id, description, amount, due_date, status, category, purchase_order_id, created_at"
const receivableColumns = "id, store_id, description, amount, due_date, status, method, order_id, created_at"

func GetPayables(q Querier, storeID, status string) ([]model.Payable, error) {
	payables := []model.Payable{}
	query := "SELECT " + payableColumns + " FROM payables WHERE store_id = ?"
	args := []interface{}{storeID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY due_date, rowid"
	if err := q.Select(&payables, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get payables: %w", err)
	}
	return payables, nil
}

func GetPayable(q Querier, storeID, id string) (*model.Payable, error) {
	var p model.Payable
	err := q.Get(&p, "SELECT "+payableColumns+" FROM payables WHERE store_id = ? AND id = ?", storeID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payable %s: %w", id, err)
	}
	return &p, nil
}

func InsertPayable(q Querier, p model.Payable) error {
	_, err := q.Exec("INSERT INTO payables ("+payableColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.StoreID, p.Description, p.Amount, p.DueDate, p.Status, p.Category, p.PurchaseOrderID, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("InsertPayable (%s) failed: %w", p.Description, err)
	}
	return nil
}

func UpdatePayable(q Querier, p model.Payable) error {
	_, err := q.Exec(`UPDATE payables SET description = ?, amount = ?, due_date = ?, status = ?, category = ?
		WHERE store_id = ? AND id = ?`, p.Description, p.Amount, p.DueDate, p.Status, p.Category, p.StoreID, p.ID)
	if err != nil {
		return fmt.Errorf("UpdatePayable (ID: %s) failed: %w", p.ID, err)
	}
	return nil
}

func DeletePayable(q Querier, storeID, id string) error {
	if _, err := q.Exec("DELETE FROM payables WHERE store_id = ? AND id = ?", storeID, id); err != nil {
		return fmt.Errorf("failed to delete payable %s: %w", id, err)
	}
	return nil
}

func GetReceivables(q Querier, storeID, status string) ([]model.Receivable, error) {
	receivables := []model.Receivable{}
	query := "SELECT " + receivableColumns + " FROM receivables WHERE store_id = ?"
	args := []interface{}{storeID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY due_date, rowid"
	if err := q.Select(&receivables, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get receivables: %w", err)
	}
	return receivables, nil
}

func GetReceivable(q Querier, storeID, id string) (*model.Receivable, error) {
	var r model.Receivable
	err := q.Get(&r, "SELECT "+receivableColumns+" FROM receivables WHERE store_id = ? AND id = ?", storeID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get receivable %s: %w", id, err)
	}
	return &r, nil
}

func InsertReceivable(q Querier, r model.Receivable) error {
	_, err := q.Exec("INSERT INTO receivables ("+receivableColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.ID, r.StoreID, r.Description, r.Amount, r.DueDate, r.Status, r.Method, r.OrderID, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("InsertReceivable (%s) failed: %w", r.Description, err)
	}
	return nil
}

func UpdateReceivable(q Querier, r model.Receivable) error {
	_, err := q.Exec(`UPDATE receivables SET description = ?, amount = ?, due_date = ?, status = ?, method = ?
		WHERE store_id = ? AND id = ?`, r.Description, r.Amount, r.DueDate, r.Status, r.Method, r.StoreID, r.ID)
	if err != nil {
		return fmt.Errorf("UpdateReceivable (ID: %s) failed: %w", r.ID, err)
	}
	return nil
}

func DeleteReceivable(q Querier, storeID, id string) error {
	if _, err := q.Exec("DELETE FROM receivables WHERE store_id = ? AND id = ?", storeID, id); err != nil {
		return fmt.Errorf("failed to delete receivable %s: %w", id, err)
	}
	return nil
}

// SumByStatus totals amount per status for payables or receivables.
func SumByStatus(q Querier, table, storeID string) (map[string]float64, error) {
	if table != "payables" && table != "receivables" {
		return nil, fmt.Errorf("unknown finance table %q", table)
	}
	var rows []struct {
		Status string  `db:"status"`
		Total  float64 `db:"total"`
	}
	query := fmt.Sprintf("SELECT status, COALESCE(SUM(amount), 0) AS total FROM %s WHERE store_id = ? GROUP BY status", table)
	if err := q.Select(&rows, query, storeID); err != nil {
		return nil, fmt.Errorf("failed to sum %s: %w", table, err)
	}
	m := make(map[string]float64, len(rows))
	for _, r := range rows {
		m[r.Status] = r.Total
	}
	return m, nil
}

// MonthlyRevenue sums finished orders by creation month and received
// receivables by receipt month for the given year.
func MonthlyRevenue(q Querier, storeID, year string) (map[string]float64, error) {
	var rows []struct {
		Month string  `db:"month"`
		Total float64 `db:"total"`
	}
	err := q.Select(&rows, `
		SELECT month, SUM(total) AS total FROM (
			SELECT strftime('%Y-%m', created_at) AS month, total FROM orders
			WHERE store_id = ? AND status = ? AND strftime('%Y', created_at) = ?
			UNION ALL
			SELECT substr(due_date, 1, 7) AS month, amount AS total FROM receivables
			WHERE store_id = ? AND status = ? AND substr(due_date, 1, 4) = ?
		) GROUP BY month`,
		storeID, model.OrderFinished, year, storeID, model.ReceivableReceived, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly revenue: %w", err)
	}
	m := make(map[string]float64, len(rows))
	for _, r := range rows {
		m[r.Month] = r.Total
	}
	return m, nil
}

// MonthlyExpenses sums paid payables by due month for the given year.
func MonthlyExpenses(q Querier, storeID, year string) (map[string]float64, error) {
	var rows []struct {
		Month string  `db:"month"`
		Total float64 `db:"total"`
	}
	err := q.Select(&rows, `SELECT substr(due_date, 1, 7) AS month, SUM(amount) AS total FROM payables
		WHERE store_id = ? AND status = ? AND substr(due_date, 1, 4) = ? GROUP BY month`,
		storeID, model.PayablePaid, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly expenses: %w", err)
	}
	m := make(map[string]float64, len(rows))
	for _, r := range rows {
		m[r.Month] = r.Total
	}
	return m, nil
}

func ExpensesByCategory(q Querier, storeID string) ([]model.CategoryTotal, error) {
	totals := []model.CategoryTotal{}
	err := q.Select(&totals, `SELECT CASE WHEN category = '' THEN 'Outros' ELSE category END AS category, SUM(amount) AS total
		FROM payables WHERE store_id = ? AND status = ? GROUP BY 1 ORDER BY total DESC`, storeID, model.PayablePaid)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses by category: %w", err)
	}
	return totals, nil
}
