// Package units resolves the measurement units used on stock items and
// converts quantities between units of the same dimension.
package units

import (
	"fmt"
	"strings"

	"doceria/render"
)

type dimension int

const (
	mass dimension = iota + 1
	volume
	count
)

type unit struct {
	code   string
	dim    dimension
	factor float64 // in the dimension's base unit (g, ml, un)
}

var known = map[string]unit{
	"kg": {"kg", mass, 1000},
	"g":  {"g", mass, 1},
	"l":  {"L", volume, 1000},
	"ml": {"ml", volume, 1},
	"un": {"un", count, 1},
	"dz": {"dz", count, 12},
}

var aliases = map[string]string{
	"quilo":     "kg",
	"quilos":    "kg",
	"kilo":      "kg",
	"kgs":       "kg",
	"grama":     "g",
	"gramas":    "g",
	"gr":        "g",
	"litro":     "l",
	"litros":    "l",
	"lt":        "l",
	"mililitro": "ml",
	"unidade":   "un",
	"unidades":  "un",
	"und":       "un",
	"uni":       "un",
	"duzia":     "dz",
	"dúzia":     "dz",
}

func lookup(name string) (unit, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[key]; ok {
		key = a
	}
	u, ok := known[key]
	return u, ok
}

// ResolveName returns the canonical spelling of a unit ("Quilos" -> "kg").
// Unknown names are returned trimmed.
func ResolveName(name string) string {
	if u, ok := lookup(name); ok {
		return u.code
	}
	return strings.TrimSpace(name)
}

// Convert expresses qty given in from as an amount of to, rounded to three
// decimals. Identical or empty units pass through unchanged.
func Convert(qty float64, from, to string) (float64, error) {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" || strings.EqualFold(ResolveName(from), ResolveName(to)) {
		return qty, nil
	}
	src, ok := lookup(from)
	if !ok {
		return 0, fmt.Errorf("unidade desconhecida: %s", from)
	}
	dst, ok := lookup(to)
	if !ok {
		return 0, fmt.Errorf("unidade desconhecida: %s", to)
	}
	if src.dim != dst.dim {
		return 0, fmt.Errorf("não é possível converter %s em %s", src.code, dst.code)
	}
	return render.Round3(qty * src.factor / dst.factor), nil
}
