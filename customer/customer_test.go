package customer

import (
	"bytes"
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

func strPtr(s string) *string { return &s }

func TestParsePayload_Increment(t *testing.T) {
	cases := []struct {
		body string
		want float64
	}{
		{`{"nome":"Ana"}`, 0},
		{`{"comprasIncrement":2,"compras":9}`, 2},
		{`{"incrementarCompras":true}`, 1},
		{`{"totalComprasIncrement":null,"totalCompras":"3"}`, 3},
		{`{"compras":"abc"}`, 0},
		{`{"compras":false}`, 0},
	}
	for _, c := range cases {
		_, inc, err := ParsePayload([]byte(c.body))
		require.NoError(t, err, c.body)
		assert.Equal(t, c.want, inc, c.body)
	}

	in, _, err := ParsePayload([]byte(`{"nome":"Ana","lojasVisitadas":["x"],"criadoEm":"2020-01-01","newAddress":{"rua":"A"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Ana", *in.Name)
	require.NotNil(t, in.NewAddress)
	assert.Equal(t, "A", in.NewAddress.Street)

	_, _, err = ParsePayload([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestUpsert_DedupesByTrimmedPhone(t *testing.T) {
	db := testutil.OpenDB(t)

	c1, created, err := Upsert(db, "centro", model.CustomerInput{Name: strPtr("Ana"), Phone: strPtr(" 1199 ")}, 1)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "1199", c1.Phone)
	assert.Equal(t, 1.0, c1.TotalPurchases)
	assert.Equal(t, []string{"centro"}, c1.VisitedStores)

	c2, created, err := Upsert(db, "praia", model.CustomerInput{Phone: strPtr("1199"), Email: strPtr("ana@x.com")}, 2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, c1.ID, c2.ID)
	assert.Equal(t, "Ana", c2.Name)
	assert.Equal(t, "ana@x.com", c2.Email)
	assert.Equal(t, 3.0, c2.TotalPurchases)
	assert.Equal(t, []string{"centro", "praia"}, c2.VisitedStores)
	assert.Equal(t, "praia", c2.HomeStoreID)
}

func TestMerge_AddressUnionAndCreateMissing(t *testing.T) {
	db := testutil.OpenDB(t)
	addr := model.Address{Street: "Rua A", Number: "10"}

	c, err := Merge(db, "centro", "fixed-id", model.CustomerInput{Name: strPtr("Bia"), NewAddress: &addr}, 0)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", c.ID)
	assert.Len(t, c.Addresses, 1)

	c, err = Merge(db, "centro", "fixed-id", model.CustomerInput{NewAddress: &addr}, 0)
	require.NoError(t, err)
	assert.Len(t, c.Addresses, 1)

	other := model.Address{Street: "Rua B"}
	c, err = Merge(db, "centro", "fixed-id", model.CustomerInput{NewAddress: &other}, 1)
	require.NoError(t, err)
	require.Len(t, c.Addresses, 2)
	assert.Equal(t, "Rua A", c.Addresses[0].Street)
	assert.Equal(t, "Rua B", c.Addresses[1].Street)
	assert.Equal(t, "Bia", c.Name)
	assert.Equal(t, 1.0, c.TotalPurchases)
}

func TestListGetRemove(t *testing.T) {
	db := testutil.OpenDB(t)
	a, _, err := Upsert(db, "centro", model.CustomerInput{Name: strPtr("João Conceição"), Phone: strPtr("1111")}, 0)
	require.NoError(t, err)
	_, _, err = Upsert(db, "centro", model.CustomerInput{Name: strPtr("Pedro"), Phone: strPtr("2222")}, 0)
	require.NoError(t, err)
	_, _, err = Upsert(db, "praia", model.CustomerInput{Name: strPtr("Joana"), Phone: strPtr("3333")}, 0)
	require.NoError(t, err)

	found, err := List(db, "centro", "conceicao")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)

	byPhone, err := List(db, "centro", "222")
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Pedro", byPhone[0].Name)

	all, err := List(db, "centro", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = Get(db, "praia", a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// shared with a second store, so removal only unlinks
	_, _, err = Upsert(db, "praia", model.CustomerInput{Phone: strPtr("1111")}, 0)
	require.NoError(t, err)
	require.NoError(t, Remove(db, "centro", a.ID))
	c, err := database.GetCustomer(db, a.ID)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, []string{"praia"}, c.VisitedStores)

	require.NoError(t, Remove(db, "praia", a.ID))
	c, err = database.GetCustomer(db, a.ID)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestImport(t *testing.T) {
	db := testutil.OpenDB(t)
	_, _, err := Upsert(db, "centro", model.CustomerInput{Name: strPtr("Ana"), Phone: strPtr("1199")}, 0)
	require.NoError(t, err)

	csv := "nome;telefone;email;endereco\nAna Souza;1199;ANA@X.COM;Rua A\nCarlos;5555;;\n"
	res, err := Import(db, "centro", strings.NewReader(csv), "utf-8")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Empty(t, res.Errors)

	all, err := List(db, "centro", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ana Souza", all[0].Name)
	assert.Equal(t, "ana@x.com", all[0].Email)
	require.Len(t, all[0].Addresses, 1)
}

func publicMux(t *testing.T) *http.ServeMux {
	db := testutil.OpenDB(t)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /clientes", PublicListHandler(db))
	mux.HandleFunc("POST /clientes", PublicCreateHandler(db))
	mux.HandleFunc("PUT /clientes/{id}", PublicUpdateHandler(db))
	return mux
}

func TestPublicHandlers(t *testing.T) {
	mux := publicMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/clientes", strings.NewReader(`{"nome":"Ana"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Parâmetro lojaId é obrigatório."}`, rec.Body.String())

	body := `{"lojaId":"centro","nome":"Ana","telefone":"1199","compras":1}`
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/clientes", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/clientes?lojaId=centro", strings.NewReader(`{"telefone":"1199"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)

	put, _ := json.Marshal(map[string]interface{}{"newAddress": map[string]string{"rua": "Rua Nova"}, "compras": 2})
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/clientes/"+created.ID+"?lojaId=centro", bytes.NewReader(put)))
	require.Equal(t, http.StatusOK, rec.Code)
	var updated model.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 3.0, updated.TotalPurchases)
	require.Len(t, updated.Addresses, 1)
	assert.Equal(t, "Rua Nova", updated.Addresses[0].Street)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/clientes?lojaId=centro", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.Customer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}
