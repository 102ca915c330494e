package discard

import (
	"errors"
	"net/http"

	"doceria/activity"
	"doceria/auth"
	"doceria/render"
	"doceria/stock"

	"github.com/jmoiron/sqlx"
)

func ListHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		res, err := List(db, r.PathValue("storeID"), q.Get("from"), q.Get("to"))
		if err != nil {
			stock.WriteError(w, "ListDiscards", err)
			return
		}
		render.JSON(w, http.StatusOK, res)
	}
}

func CreateHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in Input
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		actor := auth.UserFromContext(r.Context())
		d, err := Create(db, storeID, in, actor)
		if err != nil {
			stock.WriteError(w, "CreateDiscard", err)
			return
		}
		activity.Created(db, storeID, actor, "descartes", d.ID)
		render.JSON(w, http.StatusCreated, d)
	}
}

func DeleteHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		actor := auth.UserFromContext(r.Context())
		if err := Delete(db, storeID, id, actor); err != nil {
			if errors.Is(err, ErrNotFound) {
				render.Error(w, "Descarte não encontrado.", http.StatusNotFound)
				return
			}
			stock.WriteError(w, "DeleteDiscard", err)
			return
		}
		activity.Deleted(db, storeID, actor, "descartes", id)
		render.Message(w, http.StatusOK, "Descarte removido.")
	}
}
