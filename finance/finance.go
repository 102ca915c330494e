// Package finance keeps payables and receivables and derives the cash
// flow views from them.
package finance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"doceria/database"
	"doceria/model"
	"doceria/render"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PayableInput struct {
	Description string  `json:"descricao"`
	Amount      float64 `json:"valor"`
	DueDate     string  `json:"dataVencimento"`
	Status      string  `json:"status"`
	Category    string  `json:"categoria"`
}

type ReceivableInput struct {
	Description string  `json:"descricao"`
	Amount      float64 `json:"valor"`
	DueDate     string  `json:"dataRecebimento"`
	Status      string  `json:"status"`
	Method      string  `json:"metodo"`
}

func validateEntry(description string, amount float64, date string) error {
	if strings.TrimSpace(description) == "" {
		return ErrDescriptionRequired
	}
	if !(amount > 0) {
		return ErrInvalidAmount
	}
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

func (in PayableInput) applyTo(p *model.Payable) error {
	if err := validateEntry(in.Description, in.Amount, in.DueDate); err != nil {
		return err
	}
	status := in.Status
	if status == "" {
		status = model.PayablePending
	}
	if status != model.PayablePending && status != model.PayablePaid {
		return ErrInvalidStatus
	}
	p.Description = strings.TrimSpace(in.Description)
	p.Amount = render.Round2(in.Amount)
	p.DueDate = in.DueDate
	p.Status = status
	p.Category = strings.TrimSpace(in.Category)
	return nil
}

func (in ReceivableInput) applyTo(r *model.Receivable) error {
	if err := validateEntry(in.Description, in.Amount, in.DueDate); err != nil {
		return err
	}
	status := in.Status
	if status == "" {
		status = model.ReceivablePending
	}
	if status != model.ReceivablePending && status != model.ReceivableReceived {
		return ErrInvalidStatus
	}
	r.Description = strings.TrimSpace(in.Description)
	r.Amount = render.Round2(in.Amount)
	r.DueDate = in.DueDate
	r.Status = status
	r.Method = in.Method
	if r.Method == "" {
		r.Method = "Pix"
	}
	return nil
}

// ListPayables filters by status and category. Empty or "Todas" means any.
func ListPayables(db *sqlx.DB, storeID, status, category string) ([]model.Payable, error) {
	payables, err := database.GetPayables(db, storeID, status)
	if err != nil {
		return nil, err
	}
	if category == "" || category == "Todas" {
		return payables, nil
	}
	filtered := payables[:0]
	for _, p := range payables {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func CreatePayable(db *sqlx.DB, storeID string, in PayableInput) (*model.Payable, error) {
	p := model.Payable{ID: uuid.NewString(), StoreID: storeID, CreatedAt: database.Now()}
	if err := in.applyTo(&p); err != nil {
		return nil, err
	}
	if err := database.InsertPayable(db, p); err != nil {
		return nil, err
	}
	return &p, nil
}

func getPayable(db *sqlx.DB, storeID, id string) (*model.Payable, error) {
	p, err := database.GetPayable(db, storeID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func UpdatePayable(db *sqlx.DB, storeID, id string, in PayableInput) (before, after *model.Payable, err error) {
	before, err = getPayable(db, storeID, id)
	if err != nil {
		return nil, nil, err
	}
	p := *before
	if err := in.applyTo(&p); err != nil {
		return nil, nil, err
	}
	if err := database.UpdatePayable(db, p); err != nil {
		return nil, nil, err
	}
	return before, &p, nil
}

// SetPayableStatus marks a payable as Pago or back to Pendente.
func SetPayableStatus(db *sqlx.DB, storeID, id, status string) (before, after *model.Payable, err error) {
	before, err = getPayable(db, storeID, id)
	if err != nil {
		return nil, nil, err
	}
	in := PayableInput{Description: before.Description, Amount: before.Amount, DueDate: before.DueDate, Status: status, Category: before.Category}
	return UpdatePayable(db, storeID, id, in)
}

func DeletePayable(db *sqlx.DB, storeID, id string) error {
	if _, err := getPayable(db, storeID, id); err != nil {
		return err
	}
	return database.DeletePayable(db, storeID, id)
}

func ListReceivables(db *sqlx.DB, storeID, status string) ([]model.Receivable, error) {
	return database.GetReceivables(db, storeID, status)
}

func CreateReceivable(db *sqlx.DB, storeID string, in ReceivableInput) (*model.Receivable, error) {
	r := model.Receivable{ID: uuid.NewString(), StoreID: storeID, CreatedAt: database.Now()}
	if err := in.applyTo(&r); err != nil {
		return nil, err
	}
	if err := database.InsertReceivable(db, r); err != nil {
		return nil, err
	}
	return &r, nil
}

func getReceivable(db *sqlx.DB, storeID, id string) (*model.Receivable, error) {
	r, err := database.GetReceivable(db, storeID, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	return r, nil
}

func UpdateReceivable(db *sqlx.DB, storeID, id string, in ReceivableInput) (before, after *model.Receivable, err error) {
	before, err = getReceivable(db, storeID, id)
	if err != nil {
		return nil, nil, err
	}
	r := *before
	if err := in.applyTo(&r); err != nil {
		return nil, nil, err
	}
	if err := database.UpdateReceivable(db, r); err != nil {
		return nil, nil, err
	}
	return before, &r, nil
}

func SetReceivableStatus(db *sqlx.DB, storeID, id, status string) (before, after *model.Receivable, err error) {
	before, err = getReceivable(db, storeID, id)
	if err != nil {
		return nil, nil, err
	}
	in := ReceivableInput{Description: before.Description, Amount: before.Amount, DueDate: before.DueDate, Status: status, Method: before.Method}
	return UpdateReceivable(db, storeID, id, in)
}

func DeleteReceivable(db *sqlx.DB, storeID, id string) error {
	if _, err := getReceivable(db, storeID, id); err != nil {
		return err
	}
	return database.DeleteReceivable(db, storeID, id)
}

// Summary totals received receivables against paid payables and reports
// what is still pending on each side.
func Summary(db *sqlx.DB, storeID string) (model.FinanceSummary, error) {
	var s model.FinanceSummary
	in, err := database.SumByStatus(db, "receivables", storeID)
	if err != nil {
		return s, err
	}
	out, err := database.SumByStatus(db, "payables", storeID)
	if err != nil {
		return s, err
	}
	s.TotalRevenue = render.Round2(in[model.ReceivableReceived])
	s.TotalExpenses = render.Round2(out[model.PayablePaid])
	s.NetProfit = render.Sum(s.TotalRevenue, -s.TotalExpenses)
	s.ToReceive = render.Round2(in[model.ReceivablePending])
	s.ToPay = render.Round2(out[model.PayablePending])
	return s, nil
}

// MonthlyFlow returns twelve months of revenue and expenses for year.
// Revenue counts finished orders by creation month and received
// receivables by receipt month; expenses count paid payables by due month.
func MonthlyFlow(db *sqlx.DB, storeID, year string) ([]model.MonthlyFlow, error) {
	if year == "" {
		year = strconv.Itoa(time.Now().Year())
	}
	if y, err := strconv.Atoi(year); err != nil || y < 1900 || y > 9999 {
		return nil, ErrInvalidYear
	}
	revenue, err := database.MonthlyRevenue(db, storeID, year)
	if err != nil {
		return nil, err
	}
	expenses, err := database.MonthlyExpenses(db, storeID, year)
	if err != nil {
		return nil, err
	}
	flow := make([]model.MonthlyFlow, 0, 12)
	for m := 1; m <= 12; m++ {
		key := fmt.Sprintf("%s-%02d", year, m)
		f := model.MonthlyFlow{Month: key, Revenue: render.Round2(revenue[key]), Expenses: render.Round2(expenses[key])}
		f.Balance = render.Sum(f.Revenue, -f.Expenses)
		flow = append(flow, f)
	}
	return flow, nil
}

func ByCategory(db *sqlx.DB, storeID string) ([]model.CategoryTotal, error) {
	totals, err := database.ExpensesByCategory(db, storeID)
	if err != nil {
		return nil, err
	}
	for i := range totals {
		totals[i].Total = render.Round2(totals[i].Total)
	}
	return totals, nil
}
