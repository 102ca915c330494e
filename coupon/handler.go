package coupon

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"doceria/activity"
	"doceria/auth"
	"doceria/render"

	"github.com/jmoiron/sqlx"
)

type verifyRequest struct {
	Code      string  `json:"codigo"`
	CartTotal float64 `json:"totalCarrinho"`
	Phone     string  `json:"telefone"`
}

type verifyResponse struct {
	Valid   bool      `json:"valido"`
	Message string    `json:"mensagem,omitempty"`
	Coupon  *Verified `json:"cupom,omitempty"`
}

// VerifyHandler serves POST /cupons/verificar.
func VerifyHandler(db *sqlx.DB) http.HandlerFunc {
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
		var req verifyRequest
		if err := json.Unmarshal(body, &req); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Code) == "" {
			render.JSON(w, http.StatusBadRequest, verifyResponse{Message: "Informe o código do cupom."})
			return
		}

		v, err := Verify(db, storeID, req.Code, req.CartTotal)
		if err != nil {
			var rej *Rejection
			if errors.As(err, &rej) {
				render.JSON(w, rej.Status, verifyResponse{Message: rej.Message})
				return
			}
			log.Printf("ERROR: [VerifyCoupon] %v", err)
			render.Error(w, "Erro ao verificar cupom.", http.StatusInternalServerError)
			return
		}
		render.JSON(w, http.StatusOK, verifyResponse{Valid: true, Coupon: v})
	}
}

func ListHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coupons, err := List(db, r.PathValue("storeID"))
		if err != nil {
			writeError(w, "ListCoupons", err)
			return
		}
		render.JSON(w, http.StatusOK, coupons)
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
		c, err := Create(db, storeID, in)
		if err != nil {
			writeError(w, "CreateCoupon", err)
			return
		}
		activity.Created(db, storeID, auth.UserFromContext(r.Context()), "cupons", c.ID)
		render.JSON(w, http.StatusCreated, c)
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
			writeError(w, "UpdateCoupon", err)
			return
		}
		activity.Updated(db, storeID, auth.UserFromContext(r.Context()), "cupons", after.ID, before, after)
		render.JSON(w, http.StatusOK, after)
	}
}

func DeleteHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		if err := Delete(db, storeID, id); err != nil {
			writeError(w, "DeleteCoupon", err)
			return
		}
		activity.Deleted(db, storeID, auth.UserFromContext(r.Context()), "cupons", id)
		render.Message(w, http.StatusOK, "Cupom removido.")
	}
}

func writeError(w http.ResponseWriter, op string, err error) {
	for sentinel, msg := range inputMessages {
		if errors.Is(err, sentinel) {
			render.Error(w, msg, statusFor(err))
			return
		}
	}
	log.Printf("ERROR: [%s] %v", op, err)
	render.Error(w, "Erro ao processar cupom.", http.StatusInternalServerError)
}
