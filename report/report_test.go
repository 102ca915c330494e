package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"doceria/database"
	"doceria/model"
	"doceria/testutil"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRange(t *testing.T) {
	now := time.Date(2024, 2, 17, 15, 0, 0, 0, time.UTC)

	from, to, err := Range("", "", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", from)
	assert.Equal(t, "2024-02-29", to)

	from, to, err = Range("2024-01-10", "", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-10", from)
	assert.Equal(t, "2024-02-29", to)

	_, _, err = Range("2024-03-01", "2024-02-01", now)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, _, err = Range("10/01/2024", "", now)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func seedLosses(t *testing.T, db *sqlx.DB) {
	t.Helper()
	losses := []struct {
		name string
		qty  float64
		cost float64
		day  int
		mon  time.Month
	}{
		{"Farinha", 2, 10.5, 3, time.June},
		{"Ovo", 12, 9, 5, time.June},
		{"Farinha", 1, 5.25, 10, time.June},
		{"Açúcar", 1, 4, 1, time.July},
	}
	for _, l := range losses {
		err := database.InsertDiscard(db, model.Discard{
			ID:        uuid.NewString(),
			StoreID:   "loja",
			ItemID:    l.name,
			ItemName:  l.name,
			Quantity:  l.qty,
			TotalCost: l.cost,
			CreatedAt: time.Date(2025, l.mon, l.day, 10, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}
}

func TestBuild_LossesCSV(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "loja")
	seedLosses(t, db)

	tbl, err := Build(db, "loja", Losses, "2025-06-01", "2025-06-30", 10)
	require.NoError(t, err)
	assert.Equal(t, "Perdas", tbl.Title)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"Total", "", "R$ 24,75"}, tbl.Totals)

	var buf bytes.Buffer
	WriteCSV(&buf, tbl)
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "perdas", buf.Bytes())
}

func TestBuild_LowStockIgnoresRange(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "loja")
	now := database.Now()
	for _, p := range []model.Product{
		{ID: "p1", StoreID: "loja", Name: "Brigadeiro", Category: "Doces", Stock: 3, Status: "Ativo"},
		{ID: "p2", StoreID: "loja", Name: "Bolo", Category: "Bolos", Stock: 40, Status: "Ativo"},
		{ID: "p3", StoreID: "loja", Name: "Beijinho", Category: "Doces", Stock: 0.5, Status: "Ativo"},
	} {
		p.CreatedAt, p.UpdatedAt = now, now
		require.NoError(t, database.InsertProduct(db, p))
	}

	tbl, err := Build(db, "loja", LowStock, "2000-01-01", "2000-01-01", 10)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Beijinho", "Doces", "0.5"},
		{"Brigadeiro", "Doces", "3"},
	}, tbl.Rows)
	assert.Empty(t, tbl.Totals)
}

func TestBuild_UnknownType(t *testing.T) {
	db := testutil.OpenDB(t)
	_, err := Build(db, "loja", "lucros", "2025-01-01", "2025-01-31", 10)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestBuild_EmptySalesHasZeroTotals(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "loja")
	tbl, err := Build(db, "loja", SalesByPeriod, "2025-01-01", "2025-01-31", 10)
	require.NoError(t, err)
	assert.Empty(t, tbl.Rows)
	assert.Equal(t, []string{"Total", "0", "R$ 0,00"}, tbl.Totals)
}

func TestReportHandler(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "loja")
	seedLosses(t, db)

	mux := http.NewServeMux()
	mux.Handle("GET /api/stores/{storeID}/reports/{type}", ReportHandler(db))
	do := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	rec := do("/api/stores/loja/reports/perdas?from=2025-06-01&to=2025-07-31")
	require.Equal(t, http.StatusOK, rec.Code)
	var tbl Table
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tbl))
	assert.Equal(t, []string{"Item", "Quantidade", "Custo"}, tbl.Columns)
	assert.Len(t, tbl.Rows, 3)

	rec = do("/api/stores/loja/reports/perdas?from=2025-06-01&to=2025-06-30&format=csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "perdas_loja_2025-06-01_2025-06-30.csv")

	rec = do("/api/stores/loja/reports/perdas?from=2025-06-01&to=2025-06-30&format=pdf")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	assert.Equal(t, http.StatusBadRequest, do("/api/stores/loja/reports/lucros").Code)
	assert.Equal(t, http.StatusBadRequest, do("/api/stores/loja/reports/perdas?from=2025-07-01&to=2025-06-01").Code)
	assert.Equal(t, http.StatusBadRequest, do("/api/stores/loja/reports/perdas?format=xlsx").Code)
}
