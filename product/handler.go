package product

import (
	"errors"
	"log"
	"net/http"

	"doceria/activity"
	"doceria/auth"
	"doceria/config"
	"doceria/mappers"
	"doceria/render"

	"github.com/jmoiron/sqlx"
)

// PublicListHandler serves GET /produtos: the store's active products.
func PublicListHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := render.RequireStoreID(w, r, nil)
		if !ok {
			return
		}
		products, err := ListActive(db, storeID)
		if err != nil {
			log.Printf("ERROR: [GetProdutos] %v", err)
			render.Error(w, "Erro ao buscar produtos.", http.StatusInternalServerError)
			return
		}
		render.JSON(w, http.StatusOK, products)
	}
}

func ListHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		threshold := config.GetConfig().Stock.LowStockThreshold
		views, err := List(db, r.PathValue("storeID"), q.Get("q"), q.Get("status"), threshold)
		if err != nil {
			writeError(w, "ListProducts", err)
			return
		}
		render.JSON(w, http.StatusOK, views)
	}
}

func GetHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := Get(db, r.PathValue("storeID"), r.PathValue("id"))
		if err != nil {
			writeError(w, "GetProduct", err)
			return
		}
		render.JSON(w, http.StatusOK, mappers.ToProductView(*p, config.GetConfig().Stock.LowStockThreshold))
	}
}

func StatsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := Stats(db, r.PathValue("storeID"), config.GetConfig().Stock.LowStockThreshold)
		if err != nil {
			writeError(w, "ProductStats", err)
			return
		}
		render.JSON(w, http.StatusOK, stats)
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
		p, err := Create(db, storeID, in)
		if err != nil {
			writeError(w, "CreateProduct", err)
			return
		}
		activity.Created(db, storeID, auth.UserFromContext(r.Context()), "produtos", p.ID)
		render.JSON(w, http.StatusCreated, p)
	}
}

func UpdateHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in Input
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		before, after, err := Update(db, storeID, id, in)
		if err != nil {
			writeError(w, "UpdateProduct", err)
			return
		}
		activity.Updated(db, storeID, auth.UserFromContext(r.Context()), "produtos", id, before, after)
		render.JSON(w, http.StatusOK, after)
	}
}

func DeleteHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		if err := Delete(db, storeID, id); err != nil {
			writeError(w, "DeleteProduct", err)
			return
		}
		activity.Deleted(db, storeID, auth.UserFromContext(r.Context()), "produtos", id)
		render.Message(w, http.StatusOK, "Produto removido.")
	}
}

func ImportHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			render.Error(w, "Falha ao ler o arquivo CSV: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		storeID := r.PathValue("storeID")
		res, err := Import(db, storeID, file, r.FormValue("charset"))
		if err != nil {
			render.Error(w, "Falha ao importar produtos: "+err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("INFO: [ImportProducts] store %s: %d created, %d updated", storeID, res.Created, res.Updated)
		render.JSON(w, http.StatusOK, res)
	}
}

func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		render.Error(w, "Produto não encontrado.", http.StatusNotFound)
	case errors.Is(err, ErrNameRequired):
		render.Error(w, "O nome do produto é obrigatório.", http.StatusBadRequest)
	case errors.Is(err, ErrInvalidPrice):
		render.Error(w, "Preço e custo não podem ser negativos.", http.StatusBadRequest)
	case errors.Is(err, ErrInvalidStatus):
		render.Error(w, "Status deve ser Ativo ou Inativo.", http.StatusBadRequest)
	default:
		log.Printf("ERROR: [%s] %v", op, err)
		render.Error(w, "Erro ao processar produto.", http.StatusInternalServerError)
	}
}
