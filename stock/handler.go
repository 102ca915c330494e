package stock

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"doceria/activity"
	"doceria/auth"
	"doceria/database"
	"doceria/mappers"
	"doceria/render"

	"github.com/jmoiron/sqlx"
)

// WriteError maps ledger errors onto HTTP responses. Other packages that
// book movements reuse it.
func WriteError(w http.ResponseWriter, op string, err error) {
	msg, ok := Message(err)
	if !ok {
		log.Printf("ERROR: [%s] %v", op, err)
		render.Error(w, "Erro ao atualizar estoque.", http.StatusInternalServerError)
		return
	}
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrInsufficientStock):
		status = http.StatusConflict
	}
	render.Error(w, msg, status)
}

// MovementHandler serves POST /api/stores/{storeID}/stock/movements.
func MovementHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in MovementInput
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		m, err := UpdateStock(db, storeID, in, auth.UserFromContext(r.Context()))
		if err != nil {
			WriteError(w, "UpdateStock", err)
			return
		}
		log.Printf("INFO: [UpdateStock] %s %s %g (%g -> %g)", m.ItemID, m.Kind, m.Quantity, m.Before, m.After)
		render.JSON(w, http.StatusCreated, m)
	}
}

// ListMovementsHandler serves the kardex, optionally for a single item.
func ListMovementsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		movements, err := database.GetMovements(db, r.PathValue("storeID"), q.Get("itemId"), limit)
		if err != nil {
			WriteError(w, "ListMovements", err)
			return
		}
		render.JSON(w, http.StatusOK, movements)
	}
}

func ListItemsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := database.GetStockItems(db, r.PathValue("storeID"))
		if err != nil {
			WriteError(w, "ListStockItems", err)
			return
		}
		render.JSON(w, http.StatusOK, mappers.ToStockItemViews(items))
	}
}

// LowStockHandler lists items at or below their minimum level.
func LowStockHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := database.GetLowStockItems(db, r.PathValue("storeID"))
		if err != nil {
			WriteError(w, "LowStock", err)
			return
		}
		render.JSON(w, http.StatusOK, mappers.ToStockItemViews(items))
	}
}

func GetItemHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		it, err := GetItem(db, r.PathValue("storeID"), r.PathValue("id"))
		if err != nil {
			WriteError(w, "GetStockItem", err)
			return
		}
		render.JSON(w, http.StatusOK, mappers.ToStockItemView(*it))
	}
}

func CreateItemHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in ItemInput
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		actor := auth.UserFromContext(r.Context())
		it, err := CreateItem(db, storeID, in, actor)
		if err != nil {
			WriteError(w, "CreateStockItem", err)
			return
		}
		activity.Created(db, storeID, actor, "estoque", it.ID)
		render.JSON(w, http.StatusCreated, mappers.ToStockItemView(*it))
	}
}

func UpdateItemHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in ItemInput
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		before, after, err := UpdateItem(db, storeID, id, in)
		if err != nil {
			WriteError(w, "UpdateStockItem", err)
			return
		}
		activity.Updated(db, storeID, auth.UserFromContext(r.Context()), "estoque", id, before, after)
		render.JSON(w, http.StatusOK, mappers.ToStockItemView(*after))
	}
}

func DeleteItemHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		if err := DeleteItem(db, storeID, id); err != nil {
			WriteError(w, "DeleteStockItem", err)
			return
		}
		activity.Deleted(db, storeID, auth.UserFromContext(r.Context()), "estoque", id)
		render.Message(w, http.StatusOK, "Item removido do estoque.")
	}
}
