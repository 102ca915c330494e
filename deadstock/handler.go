package deadstock

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"doceria/database"
	"doceria/render"

	"github.com/jmoiron/sqlx"
)

func load(db *sqlx.DB, w http.ResponseWriter, r *http.Request) (*Result, bool) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			render.Error(w, "Número de dias inválido.", http.StatusBadRequest)
			return nil, false
		}
		days = n
	}
	res, err := List(db, r.PathValue("storeID"), days, database.Now())
	if err != nil {
		if errors.Is(err, ErrInvalidDays) {
			render.Error(w, "Número de dias inválido.", http.StatusBadRequest)
			return nil, false
		}
		log.Printf("ERROR: [DeadStock] %v", err)
		render.Error(w, "Erro ao listar estoque parado.", http.StatusInternalServerError)
		return nil, false
	}
	return res, true
}

// ListHandler serves GET /api/stores/{storeID}/stock/idle?days=.
func ListHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if res, ok := load(db, w, r); ok {
			render.JSON(w, http.StatusOK, res)
		}
	}
}

func quoteAll(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteCSV renders res as a BOM-prefixed CSV spreadsheet.
func WriteCSV(buf *bytes.Buffer, res *Result) {
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	header := []string{"Item", "Categoria", "Quantidade", "Unidade", "Última saída", "Valor parado"}
	buf.WriteString(strings.Join(header, ",") + "\r\n")
	for _, it := range res.Items {
		lastOut := "Nunca"
		if it.LastOut != nil {
			lastOut = render.ISODate(*it.LastOut)
		}
		record := []string{
			quoteAll(it.Name),
			quoteAll(it.Category),
			quoteAll(strconv.FormatFloat(it.Quantity, 'f', -1, 64)),
			quoteAll(it.Unit),
			quoteAll(lastOut),
			quoteAll(render.Fixed2(it.IdleValue)),
		}
		buf.WriteString(strings.Join(record, ",") + "\r\n")
	}
}

// ExportHandler serves GET .../stock/idle/export as CSV.
func ExportHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := load(db, w, r)
		if !ok {
			return
		}
		var buf bytes.Buffer
		WriteCSV(&buf, res)
		filename := fmt.Sprintf("estoque_parado_%s_%dd.csv", r.PathValue("storeID"), res.Days)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
		w.Write(buf.Bytes())
	}
}
