package inventoryadjustment

import (
	"errors"
	"fmt"
	"net/http"

	"doceria/activity"
	"doceria/auth"
	"doceria/render"
	"doceria/stock"

	"github.com/jmoiron/sqlx"
)

var messages = map[error]string{
	ErrNoLines:       "Informe ao menos um item contado.",
	ErrInvalidCount:  "A quantidade contada não pode ser negativa.",
	ErrDuplicateItem: "Um item foi informado mais de uma vez.",
}

// ApplyCountHandler serves POST /api/stores/{storeID}/stock/counts.
func ApplyCountHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in Input
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		actor := auth.UserFromContext(r.Context())
		res, err := Apply(db, storeID, in, actor)
		if err != nil {
			for sentinel, msg := range messages {
				if errors.Is(err, sentinel) {
					render.Error(w, msg, http.StatusBadRequest)
					return
				}
			}
			stock.WriteError(w, "ApplyCount", err)
			return
		}
		activity.Record(db, storeID, actor, "Contagem de estoque",
			fmt.Sprintf("%d item(ns) ajustado(s), %d sem alteração", len(res.Adjusted), res.Unchanged))
		render.JSON(w, http.StatusOK, res)
	}
}
