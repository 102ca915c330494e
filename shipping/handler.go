package shipping

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"doceria/render"

	"github.com/jmoiron/sqlx"
)

type calculateRequest struct {
	Lat *float64 `json:"clienteLat"`
	Lng *float64 `json:"clienteLng"`
}

// CalculateHandler serves POST /frete/calcular.
func CalculateHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := render.ReadBody(r)
		if err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID, ok := render.RequireStoreID(w, r, body)
		if !ok {
			return
		}
		var req calculateRequest
		if err := json.Unmarshal(body, &req); err != nil || req.Lat == nil || req.Lng == nil {
			render.Error(w, "Informe a localização do cliente.", http.StatusBadRequest)
			return
		}

		quote, err := Calculate(db, storeID, *req.Lat, *req.Lng)
		switch {
		case errors.Is(err, ErrNotConfigured):
			render.Error(w, "Configuração de frete não encontrada.", http.StatusNotFound)
		case errors.Is(err, ErrInvalidConfig):
			render.Error(w, "Configuração de frete inválida.", http.StatusBadRequest)
		case err != nil:
			log.Printf("ERROR: [CalculateShipping] %v", err)
			render.Error(w, "Erro ao calcular frete.", http.StatusInternalServerError)
		default:
			render.JSON(w, http.StatusOK, quote)
		}
	}
}
