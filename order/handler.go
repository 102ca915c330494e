package order

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"doceria/activity"
	"doceria/auth"
	"doceria/coupon"
	"doceria/model"
	"doceria/render"

	"github.com/jmoiron/sqlx"
)

// Notifier is told about orders placed through the storefront.
type Notifier interface {
	NotifyNewOrder(ctx context.Context, o *model.Order)
}

// PublicCreateHandler serves POST /pedidos and answers 201 {id}. The
// notification runs after the response is decided and never fails the
// request.
func PublicCreateHandler(db *sqlx.DB, n Notifier) http.HandlerFunc {
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
		var in model.OrderInput
		if err := json.Unmarshal(body, &in); err != nil {
			render.Error(w, "Dados do pedido inválidos.", http.StatusBadRequest)
			return
		}
		o, err := Place(db, storeID, in)
		if err != nil {
			writeError(w, "PostPedidos", err)
			return
		}
		log.Printf("INFO: [PostPedidos] Order %s (%s) placed for store %s", o.Number, o.ID, storeID)
		if n != nil {
			go n.NotifyNewOrder(context.WithoutCancel(r.Context()), o)
		}
		render.JSON(w, http.StatusCreated, map[string]string{"id": o.ID})
	}
}

// ListHandler serves GET /api/stores/{storeID}/orders?q=&from=&to=&status=.
func ListHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		orders, err := List(db, r.PathValue("storeID"), model.OrderFilter{
			Search: q.Get("q"),
			From:   q.Get("from"),
			To:     q.Get("to"),
			Status: q.Get("status"),
		})
		if err != nil {
			writeError(w, "ListOrders", err)
			return
		}
		render.JSON(w, http.StatusOK, orders)
	}
}

func ActiveHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := Active(db, r.PathValue("storeID"))
		if err != nil {
			writeError(w, "ActiveOrders", err)
			return
		}
		render.JSON(w, http.StatusOK, orders)
	}
}

func GetHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := Get(db, r.PathValue("storeID"), r.PathValue("id"))
		if err != nil {
			writeError(w, "GetOrder", err)
			return
		}
		render.JSON(w, http.StatusOK, o)
	}
}

func CreateHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in model.OrderInput
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Dados do pedido inválidos.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		o, err := Create(db, storeID, in)
		if err != nil {
			writeError(w, "CreateOrder", err)
			return
		}
		activity.Created(db, storeID, auth.UserFromContext(r.Context()), "pedidos", o.ID)
		render.JSON(w, http.StatusCreated, o)
	}
}

func UpdateHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in model.OrderInput
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Dados do pedido inválidos.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		before, after, err := Update(db, storeID, r.PathValue("id"), in)
		if err != nil {
			writeError(w, "UpdateOrder", err)
			return
		}
		activity.Updated(db, storeID, auth.UserFromContext(r.Context()), "pedidos", after.ID, before, after)
		render.JSON(w, http.StatusOK, after)
	}
}

// StatusHandler serves PUT /api/stores/{storeID}/orders/{id}/status.
func StatusHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Status string `json:"status"`
		}
		if err := render.DecodeJSON(r, &req); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		before, err := Get(db, storeID, id)
		if err != nil {
			writeError(w, "SetOrderStatus", err)
			return
		}
		after, err := SetStatus(db, storeID, id, req.Status)
		if err != nil {
			writeError(w, "SetOrderStatus", err)
			return
		}
		activity.Updated(db, storeID, auth.UserFromContext(r.Context()), "pedidos", id, before, after)
		render.JSON(w, http.StatusOK, after)
	}
}

func DeleteHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		if err := Delete(db, storeID, id); err != nil {
			writeError(w, "DeleteOrder", err)
			return
		}
		activity.Deleted(db, storeID, auth.UserFromContext(r.Context()), "pedidos", id)
		render.Message(w, http.StatusOK, "Pedido removido.")
	}
}

func writeError(w http.ResponseWriter, op string, err error) {
	var rej *coupon.Rejection
	if errors.As(err, &rej) {
		render.Error(w, rej.Message, http.StatusBadRequest)
		return
	}
	if msg, ok := Message(err); ok {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStoreNotFound) {
			status = http.StatusNotFound
		}
		render.Error(w, msg, status)
		return
	}
	log.Printf("ERROR: [%s] %v", op, err)
	render.Error(w, "Erro ao processar pedido.", http.StatusInternalServerError)
}
