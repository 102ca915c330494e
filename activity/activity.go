// Package activity keeps the per-store audit trail of back-office edits.
package activity

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"doceria/database"
	"doceria/model"
	"doceria/render"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Record appends one log entry. Failures are logged and swallowed so an
// audit hiccup never fails the edit itself.
func Record(q database.Querier, storeID string, actor *model.User, action, details string) {
	email := ""
	if actor != nil {
		email = actor.Email
	}
	err := database.InsertActivityLog(q, model.ActivityLog{
		ID:        uuid.NewString(),
		StoreID:   storeID,
		Action:    action,
		Details:   details,
		UserEmail: email,
		CreatedAt: database.Now(),
	})
	if err != nil {
		log.Printf("WARN: [activity] %v", err)
	}
}

func Created(q database.Querier, storeID string, actor *model.User, section, id string) {
	Record(q, storeID, actor, "Novo item adicionado em "+section, "ID: "+id)
}

func Deleted(q database.Querier, storeID string, actor *model.User, section, id string) {
	Record(q, storeID, actor, "Item deletado de "+section, "ID: "+id)
}

// Updated records the fields that differ between before and after. Nothing
// is written when they are equal.
func Updated(q database.Querier, storeID string, actor *model.User, section, id string, before, after interface{}) {
	changes, err := Diff(before, after)
	if err != nil {
		log.Printf("WARN: [activity] diff %s/%s: %v", section, id, err)
		return
	}
	if len(changes) == 0 {
		return
	}
	raw, _ := json.Marshal(changes)
	Record(q, storeID, actor, "Item atualizado em "+section, fmt.Sprintf("ID %s com alterações: %s", id, raw))
}

// ListHandler serves GET /api/stores/{storeID}/logs?limit=N.
func ListHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		logs, err := database.GetActivityLogs(db, r.PathValue("storeID"), limit)
		if err != nil {
			log.Printf("ERROR: [ListLogs] %v", err)
			render.Error(w, "Erro ao carregar os logs.", http.StatusInternalServerError)
			return
		}
		render.JSON(w, http.StatusOK, logs)
	}
}
