package report

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"doceria/config"
	"doceria/database"
	"doceria/render"

	"github.com/jmoiron/sqlx"
)

// ReportHandler serves GET /api/stores/{storeID}/reports/{type}?from=&to=&format=.
// format is json (default), csv or pdf.
func ReportHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := r.PathValue("storeID")
		kind := r.PathValue("type")
		q := r.URL.Query()

		from, to, err := Range(q.Get("from"), q.Get("to"), database.Now())
		if err != nil {
			render.Error(w, "Período inválido.", http.StatusBadRequest)
			return
		}
		t, err := Build(db, storeID, kind, from, to, config.GetConfig().Stock.LowStockThreshold)
		if err != nil {
			if errors.Is(err, ErrUnknownType) {
				render.Error(w, "Tipo de relatório inválido.", http.StatusBadRequest)
				return
			}
			log.Printf("ERROR: [Report] %s for store %s: %v", kind, storeID, err)
			render.Error(w, "Erro ao gerar relatório.", http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("%s_%s_%s_%s", kind, storeID, from, to)
		switch q.Get("format") {
		case "", "json":
			render.JSON(w, http.StatusOK, t)
		case "csv":
			var buf bytes.Buffer
			WriteCSV(&buf, t)
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename+".csv"))
			w.Write(buf.Bytes())
		case "pdf":
			storeName := storeID
			if s, err := database.GetStore(db, storeID); err == nil && s != nil {
				storeName = s.Name
			}
			var buf bytes.Buffer
			if err := WritePDF(&buf, t, storeName); err != nil {
				log.Printf("ERROR: [Report] PDF %s: %v", kind, err)
				render.Error(w, "Erro ao gerar PDF.", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename+".pdf"))
			w.Write(buf.Bytes())
		default:
			render.Error(w, "Formato inválido.", http.StatusBadRequest)
		}
	}
}

// TypesHandler lists the available report kinds.
func TypesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, http.StatusOK, map[string]interface{}{
			"tipos":         Types,
			"periodoPadrao": defaultPeriod(database.Now()),
		})
	}
}

func defaultPeriod(now time.Time) map[string]string {
	from, to, _ := Range("", "", now)
	return map[string]string{"from": from, "to": to}
}
