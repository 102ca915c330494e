package finance

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"doceria/database"
	"doceria/model"
	"doceria/testutil"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) *sqlx.DB {
	t.Helper()
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "loja")
	return db
}

func TestEntries_Validation(t *testing.T) {
	db := seed(t)
	_, err := CreatePayable(db, "loja", PayableInput{Amount: 10})
	assert.ErrorIs(t, err, ErrDescriptionRequired)
	_, err = CreatePayable(db, "loja", PayableInput{Description: "Luz", Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = CreatePayable(db, "loja", PayableInput{Description: "Luz", Amount: 10, DueDate: "10/05/2025"})
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = CreatePayable(db, "loja", PayableInput{Description: "Luz", Amount: 10, Status: "Recebido"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = CreateReceivable(db, "loja", ReceivableInput{Description: "Encomenda", Amount: 10, Status: "Pago"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	r, err := CreateReceivable(db, "loja", ReceivableInput{Description: " Encomenda ", Amount: 10.005})
	require.NoError(t, err)
	assert.Equal(t, "Encomenda", r.Description)
	assert.Equal(t, 10.01, r.Amount)
	assert.Equal(t, "Pix", r.Method)
	assert.Equal(t, model.ReceivablePending, r.Status)

	_, after, err := SetReceivableStatus(db, "loja", r.ID, model.ReceivableReceived)
	require.NoError(t, err)
	assert.Equal(t, model.ReceivableReceived, after.Status)
	assert.Equal(t, "Encomenda", after.Description)

	_, _, err = SetPayableStatus(db, "loja", "ghost", model.PayablePaid)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, DeleteReceivable(db, "loja", r.ID))
	assert.ErrorIs(t, DeleteReceivable(db, "loja", r.ID), ErrNotFound)
}

func TestSummaryFlowAndCategories(t *testing.T) {
	db := seed(t)
	mustPay := func(in PayableInput) {
		_, err := CreatePayable(db, "loja", in)
		require.NoError(t, err)
	}
	mustReceive := func(in ReceivableInput) {
		_, err := CreateReceivable(db, "loja", in)
		require.NoError(t, err)
	}
	mustPay(PayableInput{Description: "Farinha", Amount: 40, DueDate: "2025-04-05", Status: model.PayablePaid, Category: "Fornecedores"})
	mustPay(PayableInput{Description: "Luz", Amount: 25.5, DueDate: "2025-04-10", Status: model.PayablePaid, Category: "Contas"})
	mustPay(PayableInput{Description: "Gás", Amount: 12, DueDate: "2025-05-10", Status: model.PayablePaid})
	mustPay(PayableInput{Description: "Aluguel", Amount: 900, DueDate: "2025-05-01", Category: "Contas"})
	mustReceive(ReceivableInput{Description: "Buffet", Amount: 100, DueDate: "2025-03-20", Status: model.ReceivableReceived})
	mustReceive(ReceivableInput{Description: "Festa", Amount: 60, DueDate: "2025-06-01"})

	created := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	require.NoError(t, database.WithTx(db, func(tx *sqlx.Tx) error {
		for i, status := range []string{model.OrderFinished, model.OrderPending} {
			o := model.Order{
				ID: "o" + status, StoreID: "loja", Number: "P00000" + string(rune('1'+i)),
				Total: 50, Status: status, CreatedAt: created, UpdatedAt: created,
			}
			if err := database.InsertOrderInTx(tx, o); err != nil {
				return err
			}
		}
		return nil
	}))

	s, err := Summary(db, "loja")
	require.NoError(t, err)
	assert.Equal(t, 100.0, s.TotalRevenue)
	assert.Equal(t, 77.5, s.TotalExpenses)
	assert.Equal(t, 22.5, s.NetProfit)
	assert.Equal(t, 60.0, s.ToReceive)
	assert.Equal(t, 900.0, s.ToPay)

	flow, err := MonthlyFlow(db, "loja", "2025")
	require.NoError(t, err)
	require.Len(t, flow, 12)
	assert.Equal(t, "2025-03", flow[2].Month)
	assert.Equal(t, 150.0, flow[2].Revenue)
	assert.Equal(t, 65.5, flow[3].Expenses)
	assert.Equal(t, -65.5, flow[3].Balance)
	assert.Equal(t, 12.0, flow[4].Expenses)
	assert.Equal(t, 0.0, flow[5].Revenue)

	_, err = MonthlyFlow(db, "loja", "abc")
	assert.ErrorIs(t, err, ErrInvalidYear)

	cats, err := ByCategory(db, "loja")
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, model.CategoryTotal{Category: "Fornecedores", Total: 40}, cats[0])
	assert.Equal(t, model.CategoryTotal{Category: "Contas", Total: 25.5}, cats[1])
	assert.Equal(t, model.CategoryTotal{Category: "Outros", Total: 12}, cats[2])

	contas, err := ListPayables(db, "loja", "", "Contas")
	require.NoError(t, err)
	assert.Len(t, contas, 2)
	pending, err := ListPayables(db, "loja", model.PayablePending, "Todas")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestPayableHandlers(t *testing.T) {
	db := seed(t)
	mux := http.NewServeMux()
	mux.Handle("POST /api/stores/{storeID}/finance/payables", CreatePayableHandler(db))
	mux.Handle("GET /api/stores/{storeID}/finance/summary", SummaryHandler(db))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stores/loja/finance/payables",
		strings.NewReader(`{"descricao":"Embalagens","valor":35,"status":"Pago","categoria":"Fornecedores"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stores/loja/finance/payables",
		strings.NewReader(`{"descricao":"","valor":35}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Informe a descrição."}`, rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stores/loja/finance/summary", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalReceitas":0,"totalDespesas":35,"lucroLiquido":-35,"aReceber":0,"aPagar":0}`, rec.Body.String())
}
