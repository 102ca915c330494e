package reorder

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"doceria/activity"
	"doceria/auth"
	"doceria/render"
	"doceria/supplier"

	"github.com/jmoiron/sqlx"
)

func coefficient(r *http.Request) (float64, error) {
	v := r.URL.Query().Get("coefficient")
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}

// CandidatesHandler serves GET /api/stores/{storeID}/reorder?coefficient=.
func CandidatesHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coef, err := coefficient(r)
		if err != nil {
			render.Error(w, "Coeficiente inválido.", http.StatusBadRequest)
			return
		}
		groups, err := Candidates(db, r.PathValue("storeID"), coef)
		if err != nil {
			writeError(w, "ReorderCandidates", err)
			return
		}
		render.JSON(w, http.StatusOK, groups)
	}
}

// PlaceHandler serves POST /api/stores/{storeID}/reorder and creates the
// suggested purchase orders.
func PlaceHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coef, err := coefficient(r)
		if err != nil {
			render.Error(w, "Coeficiente inválido.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		placed, err := Place(db, storeID, coef)
		if err != nil {
			writeError(w, "PlaceReorder", err)
			return
		}
		actor := auth.UserFromContext(r.Context())
		for _, po := range placed {
			activity.Created(db, storeID, actor, "pedidosCompra", po.ID)
		}
		render.JSON(w, http.StatusCreated, map[string]interface{}{
			"pedidosCompra": placed,
			"message":       fmt.Sprintf("%d pedido(s) de compra gerado(s).", len(placed)),
		})
	}
}

func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidCoefficient):
		render.Error(w, "O coeficiente deve ser maior ou igual a 1.", http.StatusBadRequest)
	case errors.Is(err, ErrNothingToOrder):
		render.Error(w, "Nenhuma sugestão de compra com fornecedor cadastrado.", http.StatusConflict)
	default:
		if msg, ok := supplier.Message(err); ok {
			render.Error(w, msg, http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: [%s] %v", op, err)
		render.Error(w, "Erro ao gerar sugestões de compra.", http.StatusInternalServerError)
	}
}
