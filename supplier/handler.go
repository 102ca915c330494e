package supplier

import (
	"errors"
	"log"
	"net/http"

	"doceria/activity"
	"doceria/auth"
	"doceria/render"
	"doceria/stock"

	"github.com/jmoiron/sqlx"
)

func ListHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		suppliers, err := List(db, r.PathValue("storeID"))
		if err != nil {
			writeError(w, "ListSuppliers", err)
			return
		}
		render.JSON(w, http.StatusOK, suppliers)
	}
}

func GetHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := Get(db, r.PathValue("storeID"), r.PathValue("id"))
		if err != nil {
			writeError(w, "GetSupplier", err)
			return
		}
		render.JSON(w, http.StatusOK, s)
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
		s, err := Create(db, storeID, in)
		if err != nil {
			writeError(w, "CreateSupplier", err)
			return
		}
		activity.Created(db, storeID, auth.UserFromContext(r.Context()), "fornecedores", s.ID)
		render.JSON(w, http.StatusCreated, s)
	}
}

func UpdateHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in Input
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		before, after, err := Update(db, storeID, r.PathValue("id"), in)
		if err != nil {
			writeError(w, "UpdateSupplier", err)
			return
		}
		activity.Updated(db, storeID, auth.UserFromContext(r.Context()), "fornecedores", after.ID, before, after)
		render.JSON(w, http.StatusOK, after)
	}
}

func DeleteHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		if err := Delete(db, storeID, id); err != nil {
			writeError(w, "DeleteSupplier", err)
			return
		}
		activity.Deleted(db, storeID, auth.UserFromContext(r.Context()), "fornecedores", id)
		render.Message(w, http.StatusOK, "Fornecedor removido.")
	}
}

func ListPurchasesHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := ListPurchases(db, r.PathValue("storeID"))
		if err != nil {
			writeError(w, "ListPurchases", err)
			return
		}
		render.JSON(w, http.StatusOK, orders)
	}
}

func CreatePurchaseHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in PurchaseInput
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		po, err := CreatePurchase(db, storeID, in)
		if err != nil {
			writeError(w, "CreatePurchase", err)
			return
		}
		activity.Created(db, storeID, auth.UserFromContext(r.Context()), "pedidosCompra", po.ID)
		render.JSON(w, http.StatusCreated, po)
	}
}

// ReceivePurchaseHandler serves POST .../purchases/{id}/receive and answers
// with the purchase order and the payable it generated.
func ReceivePurchaseHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		actor := auth.UserFromContext(r.Context())
		po, payable, err := Receive(db, storeID, id, actor)
		if err != nil {
			writeError(w, "ReceivePurchase", err)
			return
		}
		activity.Record(db, storeID, actor, "Pedido de compra recebido", "ID: "+id)
		render.JSON(w, http.StatusOK, map[string]interface{}{
			"pedidoCompra": po,
			"contaPagar":   payable,
			"message":      "Conta a pagar gerada no financeiro!",
		})
	}
}

func CancelPurchaseHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		po, err := CancelPurchase(db, storeID, id)
		if err != nil {
			writeError(w, "CancelPurchase", err)
			return
		}
		activity.Record(db, storeID, auth.UserFromContext(r.Context()), "Pedido de compra cancelado", "ID: "+id)
		render.JSON(w, http.StatusOK, po)
	}
}

func DeletePurchaseHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		if err := DeletePurchase(db, storeID, id); err != nil {
			writeError(w, "DeletePurchase", err)
			return
		}
		activity.Deleted(db, storeID, auth.UserFromContext(r.Context()), "pedidosCompra", id)
		render.Message(w, http.StatusOK, "Pedido de compra removido.")
	}
}

func writeError(w http.ResponseWriter, op string, err error) {
	if msg, ok := Message(err); ok {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrPurchaseNotFound):
			status = http.StatusNotFound
		case errors.Is(err, ErrAlreadyReceived), errors.Is(err, ErrCancelled):
			status = http.StatusConflict
		}
		render.Error(w, msg, status)
		return
	}
	if _, ok := stock.Message(err); ok {
		stock.WriteError(w, op, err)
		return
	}
	log.Printf("ERROR: [%s] %v", op, err)
	render.Error(w, "Erro ao processar fornecedor.", http.StatusInternalServerError)
}
