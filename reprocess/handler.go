package reprocess

import (
	"log"
	"net/http"

	"doceria/render"

	"github.com/jmoiron/sqlx"
)

// AuditHandler serves GET /api/stores/{storeID}/stock/audit.
func AuditHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := r.PathValue("storeID")
		rep, err := Audit(db, storeID)
		if err != nil {
			log.Printf("ERROR: [StockAudit] %v", err)
			render.Error(w, "Erro ao verificar o estoque.", http.StatusInternalServerError)
			return
		}
		if len(rep.Issues) > 0 {
			log.Printf("WARN: [StockAudit] store %s has %d ledger issue(s)", storeID, len(rep.Issues))
		}
		render.JSON(w, http.StatusOK, rep)
	}
}
