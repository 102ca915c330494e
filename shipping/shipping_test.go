package shipping

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"doceria/database"
	"doceria/model"
	"doceria/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestDistance(t *testing.T) {
	assert.InDelta(t, 111.19, Distance(0, 0, 1, 0), 0.01)
	assert.Equal(t, 0.0, Distance(-23.55, -46.63, -23.55, -46.63))
	// São Paulo to Rio de Janeiro
	assert.InDelta(t, 361, Distance(-23.5505, -46.6333, -22.9068, -43.1729), 2)
}

func TestCalculate(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "loja")

	_, err := Calculate(db, "outra", 0, 0)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = Calculate(db, "loja", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	require.NoError(t, database.UpsertShippingConfig(db, model.ShippingConfig{
		StoreID: "loja", Active: true, Kind: model.ShippingKindDistance,
		Lat: ptr(0), Lng: ptr(0), PerKm: ptr(2), UpdatedAt: database.Now(),
	}))
	q, err := Calculate(db, "loja", 0.01, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.22, q.Fee)
	assert.Equal(t, "1.11", q.DistanceKm)
}

func TestCalculateHandler(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedStore(t, db, "loja")
	h := CalculateHandler(db)

	do := func(body string) (int, map[string]interface{}) {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, "/frete/calcular", strings.NewReader(body)))
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return rec.Code, out
	}

	code, out := do(`{"lojaId":"nenhuma","clienteLat":1,"clienteLng":1}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Configuração de frete não encontrada.", out["message"])

	code, out = do(`{"lojaId":"loja","clienteLat":1,"clienteLng":1}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Configuração de frete inválida.", out["message"])

	require.NoError(t, database.UpsertShippingConfig(db, model.ShippingConfig{
		StoreID: "loja", Kind: model.ShippingKindDistance, Lat: ptr(0), Lng: ptr(0), PerKm: ptr(1.5), UpdatedAt: database.Now(),
	}))
	code, out = do(`{"lojaId":"loja","clienteLat":0,"clienteLng":0.1}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "11.12", out["distanciaKm"])
	assert.Equal(t, 16.68, out["valorFrete"])

	code, _ = do(`{"lojaId":"loja"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}
