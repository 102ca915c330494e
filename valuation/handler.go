// Package valuation prices the store's stock items at unit cost.
package valuation

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"doceria/database"
	"doceria/model"
	"doceria/render"

	"github.com/jmoiron/sqlx"
)

// Result is the valuation of a whole store.
type Result struct {
	Rows       []model.ValuationRow `json:"itens"`
	TotalValue float64              `json:"valorTotal"`
}

// Run prices every stock item of storeID.
func Run(db database.Querier, storeID string) (*Result, error) {
	rows, err := database.GetValuationRows(db, storeID)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(rows))
	for i := range rows {
		rows[i].TotalValue = render.Mul(rows[i].Quantity, rows[i].UnitCost)
		values = append(values, rows[i].TotalValue)
	}
	return &Result{Rows: rows, TotalValue: render.Sum(values...)}, nil
}

func GetValuationHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := Run(db, r.PathValue("storeID"))
		if err != nil {
			log.Printf("ERROR: [Valuation] %v", err)
			render.Error(w, "Erro ao calcular o valor do estoque.", http.StatusInternalServerError)
			return
		}
		render.JSON(w, http.StatusOK, res)
	}
}

func quoteAll(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteCSV renders res as a BOM-prefixed CSV spreadsheet.
func WriteCSV(buf *bytes.Buffer, res *Result) {
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	header := []string{"Item", "Categoria", "Quantidade", "Unidade", "Custo Unitário", "Valor Total"}
	buf.WriteString(strings.Join(header, ",") + "\r\n")
	for _, row := range res.Rows {
		record := []string{
			quoteAll(row.Name),
			quoteAll(row.Category),
			quoteAll(fmt.Sprintf("%g", row.Quantity)),
			quoteAll(row.Unit),
			quoteAll(render.Fixed2(row.UnitCost)),
			quoteAll(render.Fixed2(row.TotalValue)),
		}
		buf.WriteString(strings.Join(record, ",") + "\r\n")
	}
	buf.WriteString(strings.Join([]string{quoteAll("Total"), "", "", "", "", quoteAll(render.Fixed2(res.TotalValue))}, ",") + "\r\n")
}

func ExportValuationCSVHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := r.PathValue("storeID")
		res, err := Run(db, storeID)
		if err != nil {
			log.Printf("ERROR: [ExportValuation] %v", err)
			render.Error(w, "Erro ao exportar o valor do estoque.", http.StatusInternalServerError)
			return
		}
		var buf bytes.Buffer
		WriteCSV(&buf, res)

		filename := fmt.Sprintf("estoque_%s_%s.csv", storeID, time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
		w.Write(buf.Bytes())
	}
}
