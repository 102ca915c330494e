package render

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, 2.35, Round2(2.345))
	assert.Equal(t, 10.0, Round2(9.999))
	assert.Equal(t, -1.5, Round2(-1.499))
}

func TestSumAvoidsFloatDrift(t *testing.T) {
	assert.Equal(t, 0.3, Sum(0.1, 0.2))
	assert.Equal(t, 0.0, Sum())
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(0.99, 0.5))
	assert.Equal(t, 1.25, Percent(50.198, 2.5))
	assert.Equal(t, 12.35, Percent(123.45, 10))
	assert.Equal(t, 0.0, Percent(80, 0))
}

func TestBRL(t *testing.T) {
	assert.Equal(t, "R$ 0,00", BRL(0))
	assert.Equal(t, "R$ 12,50", BRL(12.5))
	assert.Equal(t, "R$ 1.234,56", BRL(1234.56))
	assert.Equal(t, "R$ 1.000.000,00", BRL(1e6))
	assert.Equal(t, "-R$ 5,10", BRL(-5.1))
}

func TestFixed2(t *testing.T) {
	assert.Equal(t, "3.00", Fixed2(3))
	assert.Equal(t, "2.35", Fixed2(2.345))
}

func TestISODate(t *testing.T) {
	assert.Equal(t, "05/03/2025", ISODate("2025-03-05"))
	assert.Equal(t, "amanhã", ISODate("amanhã"))
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, "Parâmetro lojaId é obrigatório.", 400)
	assert.Equal(t, 400, rec.Code)
	assert.JSONEq(t, `{"message":"Parâmetro lojaId é obrigatório."}`, rec.Body.String())
}

func TestMatchFolded(t *testing.T) {
	assert.True(t, MatchFolded("joao", "João da Silva"))
	assert.True(t, MatchFolded("CONCEIÇÃO", "maria conceicao"))
	assert.True(t, MatchFolded("", "x"))
	assert.True(t, MatchFolded("9999", "Ana", "(11) 99999-0000"))
	assert.False(t, MatchFolded("pedro", "Paulo", "123"))
}
