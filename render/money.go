package render

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Round2 rounds half away from zero to cents.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Fixed2 formats v with exactly two decimals, e.g. "12.50".
func Fixed2(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Sum adds values without accumulating float error.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	f, _ := total.Float64()
	return f
}

// Mul multiplies two amounts exactly and rounds to cents.
func Mul(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).Round(2).Float64()
	return f
}

// Percent returns pct percent of total, rounded once to cents.
func Percent(total, pct float64) float64 {
	f, _ := decimal.NewFromFloat(total).Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100)).Round(2).Float64()
	return f
}

// BRL formats v as Brazilian currency, e.g. "R$ 1.234,50".
func BRL(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac := s, "00"
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i+1:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "R$ " + b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

// Date formats t as DD/MM/YYYY in local time; zero times render empty.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02/01/2006")
}

// DateTime formats t as DD/MM/YYYY HH:MM in local time.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02/01/2006 15:04")
}

// ISODate converts YYYY-MM-DD to DD/MM/YYYY, leaving other input alone.
func ISODate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}

// Round3 rounds quantities to three decimals.
func Round3(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return f
}
