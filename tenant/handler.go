package tenant

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"doceria/auth"
	"doceria/database"
	"doceria/model"
	"doceria/render"

	"github.com/jmoiron/sqlx"
)

// CreateStoreCallable serves the createStore admin function.
func CreateStoreCallable(db *sqlx.DB) http.HandlerFunc {
	return auth.Callable("createStore", func(u *model.User, data json.RawMessage) (interface{}, error) {
		var in CreateStoreInput
		if err := auth.DecodeData(data, &in); err != nil {
			return nil, err
		}
		res, err := CreateStore(db, u, in)
		if err != nil {
			return nil, err
		}
		log.Printf("INFO: [createStore] %s created store %s", u.Email, res.StoreID)
		return res, nil
	})
}

// ListStoresHandler returns the stores visible to the caller.
func ListStoresHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := VisibleStores(db, auth.UserFromContext(r.Context()))
		if err != nil {
			log.Printf("ERROR: [ListStores] %v", err)
			render.Error(w, "Erro ao carregar lojas.", http.StatusInternalServerError)
			return
		}
		render.JSON(w, http.StatusOK, stores)
	}
}

func GetCompanyHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := r.PathValue("storeID")
		p, err := database.GetCompanyProfile(db, storeID)
		if err != nil {
			log.Printf("ERROR: [GetCompany] %v", err)
			render.Error(w, "Erro ao carregar dados da empresa.", http.StatusInternalServerError)
			return
		}
		if p == nil {
			render.Error(w, "Dados da empresa não encontrados.", http.StatusNotFound)
			return
		}
		render.JSON(w, http.StatusOK, p)
	}
}

func SaveCompanyHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p model.CompanyProfile
		if err := render.DecodeJSON(r, &p); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		p.TradeName = strings.TrimSpace(p.TradeName)
		if p.TradeName == "" {
			render.Error(w, "Informe o nome fantasia.", http.StatusBadRequest)
			return
		}
		p.StoreID = r.PathValue("storeID")
		p.UpdatedAt = database.Now()
		p.UpdatedBy = auth.UserFromContext(r.Context()).UID
		if err := database.UpsertCompanyProfile(db, p); err != nil {
			log.Printf("ERROR: [SaveCompany] %v", err)
			render.Error(w, "Erro ao salvar dados da empresa.", http.StatusInternalServerError)
			return
		}
		render.JSON(w, http.StatusOK, p)
	}
}

func GetShippingHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := database.GetShippingConfig(db, r.PathValue("storeID"))
		if err != nil {
			log.Printf("ERROR: [GetShipping] %v", err)
			render.Error(w, "Erro ao carregar configuração de frete.", http.StatusInternalServerError)
			return
		}
		if c == nil {
			render.Error(w, "Configuração de frete não encontrada.", http.StatusNotFound)
			return
		}
		render.JSON(w, http.StatusOK, c)
	}
}

func SaveShippingHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c model.ShippingConfig
		if err := render.DecodeJSON(r, &c); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		if c.Kind != model.ShippingKindFixed && c.Kind != model.ShippingKindDistance {
			render.Error(w, "Tipo de frete inválido.", http.StatusBadRequest)
			return
		}
		if c.FixedFee < 0 || c.MinOrder < 0 || (c.PerKm != nil && *c.PerKm < 0) {
			render.Error(w, "Valores de frete não podem ser negativos.", http.StatusBadRequest)
			return
		}
		c.StoreID = r.PathValue("storeID")
		c.UpdatedAt = database.Now()
		if err := database.UpsertShippingConfig(db, c); err != nil {
			log.Printf("ERROR: [SaveShipping] %v", err)
			render.Error(w, "Erro ao salvar configuração de frete.", http.StatusInternalServerError)
			return
		}
		render.JSON(w, http.StatusOK, c)
	}
}
