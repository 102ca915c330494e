package customer

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"doceria/activity"
	"doceria/auth"
	"doceria/model"
	"doceria/render"

	"github.com/jmoiron/sqlx"
)

// PublicListHandler serves GET /clientes.
func PublicListHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, ok := render.RequireStoreID(w, r, nil)
		if !ok {
			return
		}
		customers, err := List(db, storeID, "")
		if err != nil {
			log.Printf("ERROR: [GetClientes] %v", err)
			render.Error(w, "Erro ao buscar clientes.", http.StatusInternalServerError)
			return
		}
		render.JSON(w, http.StatusOK, customers)
	}
}

// PublicCreateHandler serves POST /clientes: 200 when the phone matched an
// existing customer, 201 when a new one was created.
func PublicCreateHandler(db *sqlx.DB) http.HandlerFunc {
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
		in, increment, err := ParsePayload(body)
		if err != nil {
			render.Error(w, "Dados do cliente inválidos.", http.StatusBadRequest)
			return
		}
		c, created, err := Upsert(db, storeID, in, increment)
		if err != nil {
			log.Printf("ERROR: [PostClientes] %v", err)
			render.Error(w, "Erro ao criar cliente.", http.StatusInternalServerError)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		render.JSON(w, status, c)
	}
}

// PublicUpdateHandler serves PUT /clientes/{id}.
func PublicUpdateHandler(db *sqlx.DB) http.HandlerFunc {
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
		in, increment, err := ParsePayload(body)
		if err != nil {
			render.Error(w, "Dados do cliente inválidos.", http.StatusBadRequest)
			return
		}
		c, err := Merge(db, storeID, r.PathValue("id"), in, increment)
		if err != nil {
			log.Printf("ERROR: [PutClientes] %v", err)
			render.Error(w, "Erro ao atualizar cliente.", http.StatusInternalServerError)
			return
		}
		render.JSON(w, http.StatusOK, c)
	}
}

func ListHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customers, err := List(db, r.PathValue("storeID"), r.URL.Query().Get("q"))
		if err != nil {
			log.Printf("ERROR: [ListCustomers] %v", err)
			render.Error(w, "Erro ao buscar clientes.", http.StatusInternalServerError)
			return
		}
		render.JSON(w, http.StatusOK, customers)
	}
}

func GetHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := Get(db, r.PathValue("storeID"), r.PathValue("id"))
		if err != nil {
			writeError(w, "GetCustomer", err)
			return
		}
		render.JSON(w, http.StatusOK, c)
	}
}

// CreateHandler registers a customer from the back office. A name is
// required; a known phone merges into the existing record.
func CreateHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in model.CustomerInput
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
			render.Error(w, "O nome do cliente é obrigatório.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		c, created, err := Upsert(db, storeID, in, 0)
		if err != nil {
			writeError(w, "CreateCustomer", err)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
			activity.Created(db, storeID, auth.UserFromContext(r.Context()), "clientes", c.ID)
		}
		render.JSON(w, status, c)
	}
}

func UpdateHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		var in model.CustomerInput
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		before, err := Get(db, storeID, id)
		if err != nil {
			writeError(w, "UpdateCustomer", err)
			return
		}
		after, err := Merge(db, storeID, id, in, 0)
		if err != nil {
			writeError(w, "UpdateCustomer", err)
			return
		}
		activity.Updated(db, storeID, auth.UserFromContext(r.Context()), "clientes", id, before, after)
		render.JSON(w, http.StatusOK, after)
	}
}

func DeleteHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		if err := Remove(db, storeID, id); err != nil {
			writeError(w, "DeleteCustomer", err)
			return
		}
		activity.Deleted(db, storeID, auth.UserFromContext(r.Context()), "clientes", id)
		render.Message(w, http.StatusOK, "Cliente removido.")
	}
}

// ImportHandler accepts a multipart "file" field and an optional "charset".
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
			render.Error(w, "Falha ao importar clientes: "+err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("INFO: [ImportCustomers] store %s: %d created, %d updated, %d errors", storeID, res.Created, res.Updated, len(res.Errors))
		activity.Record(db, storeID, auth.UserFromContext(r.Context()), "Importação de clientes",
			fmt.Sprintf("%d criados, %d atualizados", res.Created, res.Updated))
		render.JSON(w, http.StatusOK, res)
	}
}

func writeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		render.Error(w, "Cliente não encontrado.", http.StatusNotFound)
		return
	}
	log.Printf("ERROR: [%s] %v", op, err)
	render.Error(w, "Erro ao processar cliente.", http.StatusInternalServerError)
}
