package coupon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

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

func TestVerify_Rules(t *testing.T) {
	db := seed(t)
	_, err := Create(db, "loja", Input{Code: " doce10 ", DiscountType: "percentual", Value: 10, MinOrder: 50})
	require.NoError(t, err)
	_, err = Create(db, "loja", Input{Code: "FIXO5", DiscountType: "fixo", Value: 5, UsageLimit: 1})
	require.NoError(t, err)
	_, err = Create(db, "loja", Input{Code: "OFF", Status: "Inativo", Value: 5})
	require.NoError(t, err)
	_, err = Create(db, "loja", Input{Code: "VELHO", Value: 5, ValidUntil: "2001-01-01"})
	require.NoError(t, err)

	v, err := Verify(db, "loja", "doce10", 123.45)
	require.NoError(t, err)
	assert.Equal(t, "DOCE10", v.Code)
	assert.Equal(t, 12.35, v.DiscountValue)

	cases := []struct {
		code   string
		total  float64
		target error
		status int
		msg    string
	}{
		{"NADA", 10, ErrNotFound, http.StatusNotFound, "Cupom não encontrado."},
		{"OFF", 10, ErrInactive, http.StatusBadRequest, "Este cupom não está ativo."},
		{"VELHO", 10, ErrExpired, http.StatusBadRequest, "Este cupom expirou."},
		{"DOCE10", 49.99, ErrMinimumOrder, http.StatusBadRequest, "O pedido mínimo para este cupom é de R$ 50.00."},
	}
	for _, c := range cases {
		_, err := Verify(db, "loja", c.code, c.total)
		assert.ErrorIs(t, err, c.target, c.code)
		var rej *Rejection
		require.ErrorAs(t, err, &rej, c.code)
		assert.Equal(t, c.status, rej.Status, c.code)
		assert.Equal(t, c.msg, rej.Message, c.code)
	}

	v, err = Verify(db, "loja", "FIXO5", 1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v.DiscountValue)
	require.NoError(t, database.IncrementCouponUses(db, "loja", "FIXO5"))
	_, err = Verify(db, "loja", "FIXO5", 1)
	assert.ErrorIs(t, err, ErrUsageLimit)
}

func TestDiscount_RoundsOnce(t *testing.T) {
	half := &model.Coupon{DiscountType: model.DiscountPercent, Value: 0.5}
	assert.Equal(t, 0.0, Discount(half, 0.99))
	assert.Equal(t, 1.25, Discount(&model.Coupon{DiscountType: model.DiscountPercent, Value: 2.5}, 50.198))
	assert.Equal(t, 7.5, Discount(&model.Coupon{DiscountType: model.DiscountFixed, Value: 7.5}, 3))
}

func TestCreateUpdateDelete(t *testing.T) {
	db := seed(t)

	_, err := Create(db, "loja", Input{Value: 5})
	assert.ErrorIs(t, err, ErrCodeRequired)
	_, err = Create(db, "loja", Input{Code: "X", DiscountType: "brinde", Value: 5})
	assert.ErrorIs(t, err, ErrInvalidType)
	_, err = Create(db, "loja", Input{Code: "X", Value: 150})
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = Create(db, "loja", Input{Code: "X", Value: 5, ValidUntil: "31/12/2030"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	a, err := Create(db, "loja", Input{Code: "a", Value: 5})
	require.NoError(t, err)
	assert.Equal(t, "Ativo", a.Status)
	assert.Equal(t, "percentual", a.DiscountType)
	b, err := Create(db, "loja", Input{Code: "b", Value: 5})
	require.NoError(t, err)
	_, err = Create(db, "loja", Input{Code: "A ", Value: 1})
	assert.ErrorIs(t, err, ErrDuplicateCode)

	_, _, err = Update(db, "loja", b.ID, Input{Code: "a", Value: 5})
	assert.ErrorIs(t, err, ErrDuplicateCode)
	require.NoError(t, database.IncrementCouponUses(db, "loja", "B"))
	before, after, err := Update(db, "loja", b.ID, Input{Code: "b", DiscountType: "fixo", Value: 7})
	require.NoError(t, err)
	assert.Equal(t, 5.0, before.Value)
	assert.Equal(t, 7.0, after.Value)
	stored, err := database.GetCoupon(db, "loja", b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Uses)

	require.NoError(t, Delete(db, "loja", a.ID))
	assert.ErrorIs(t, Delete(db, "loja", a.ID), ErrNotFound)
	list, err := List(db, "loja")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestVerifyHandler(t *testing.T) {
	db := seed(t)
	_, err := Create(db, "loja", Input{Code: "DOCE10", Value: 10})
	require.NoError(t, err)
	h := VerifyHandler(db)

	do := func(target, body string) (int, map[string]interface{}) {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodPost, target, strings.NewReader(body)))
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return rec.Code, out
	}

	code, out := do("/cupons/verificar?lojaId=loja", `{"codigo":"doce10","totalCarrinho":80}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["valido"])
	cupom := out["cupom"].(map[string]interface{})
	assert.Equal(t, 8.0, cupom["valorDesconto"])
	assert.Equal(t, "DOCE10", cupom["codigo"])

	code, out = do("/cupons/verificar", `{"lojaId":"loja","codigo":"NADA","totalCarrinho":80}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, out["valido"])
	assert.Equal(t, "Cupom não encontrado.", out["mensagem"])

	code, out = do("/cupons/verificar", `{"codigo":"DOCE10"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Parâmetro lojaId é obrigatório.", out["message"])
}
