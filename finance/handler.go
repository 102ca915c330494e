package finance

import (
	"errors"
	"log"
	"net/http"

	"doceria/activity"
	"doceria/auth"
	"doceria/render"

	"github.com/jmoiron/sqlx"
)

type statusRequest struct {
	Status string `json:"status"`
}

func ListPayablesHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		payables, err := ListPayables(db, r.PathValue("storeID"), q.Get("status"), q.Get("categoria"))
		if err != nil {
			writeError(w, "ListPayables", err)
			return
		}
		render.JSON(w, http.StatusOK, payables)
	}
}

func CreatePayableHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in PayableInput
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		p, err := CreatePayable(db, storeID, in)
		if err != nil {
			writeError(w, "CreatePayable", err)
			return
		}
		activity.Created(db, storeID, auth.UserFromContext(r.Context()), "contas_a_pagar", p.ID)
		render.JSON(w, http.StatusCreated, p)
	}
}

func UpdatePayableHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in PayableInput
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		before, after, err := UpdatePayable(db, storeID, r.PathValue("id"), in)
		if err != nil {
			writeError(w, "UpdatePayable", err)
			return
		}
		activity.Updated(db, storeID, auth.UserFromContext(r.Context()), "contas_a_pagar", after.ID, before, after)
		render.JSON(w, http.StatusOK, after)
	}
}

func PayableStatusHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := render.DecodeJSON(r, &req); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		before, after, err := SetPayableStatus(db, storeID, r.PathValue("id"), req.Status)
		if err != nil {
			writeError(w, "PayableStatus", err)
			return
		}
		activity.Updated(db, storeID, auth.UserFromContext(r.Context()), "contas_a_pagar", after.ID, before, after)
		render.JSON(w, http.StatusOK, after)
	}
}

func DeletePayableHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		if err := DeletePayable(db, storeID, id); err != nil {
			writeError(w, "DeletePayable", err)
			return
		}
		activity.Deleted(db, storeID, auth.UserFromContext(r.Context()), "contas_a_pagar", id)
		render.Message(w, http.StatusOK, "Conta removida.")
	}
}

func ListReceivablesHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		receivables, err := ListReceivables(db, r.PathValue("storeID"), r.URL.Query().Get("status"))
		if err != nil {
			writeError(w, "ListReceivables", err)
			return
		}
		render.JSON(w, http.StatusOK, receivables)
	}
}

func CreateReceivableHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in ReceivableInput
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		rec, err := CreateReceivable(db, storeID, in)
		if err != nil {
			writeError(w, "CreateReceivable", err)
			return
		}
		activity.Created(db, storeID, auth.UserFromContext(r.Context()), "contas_a_receber", rec.ID)
		render.JSON(w, http.StatusCreated, rec)
	}
}

func UpdateReceivableHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in ReceivableInput
		if err := render.DecodeJSON(r, &in); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		before, after, err := UpdateReceivable(db, storeID, r.PathValue("id"), in)
		if err != nil {
			writeError(w, "UpdateReceivable", err)
			return
		}
		activity.Updated(db, storeID, auth.UserFromContext(r.Context()), "contas_a_receber", after.ID, before, after)
		render.JSON(w, http.StatusOK, after)
	}
}

func ReceivableStatusHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := render.DecodeJSON(r, &req); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		storeID := r.PathValue("storeID")
		before, after, err := SetReceivableStatus(db, storeID, r.PathValue("id"), req.Status)
		if err != nil {
			writeError(w, "ReceivableStatus", err)
			return
		}
		activity.Updated(db, storeID, auth.UserFromContext(r.Context()), "contas_a_receber", after.ID, before, after)
		render.JSON(w, http.StatusOK, after)
	}
}

func DeleteReceivableHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, id := r.PathValue("storeID"), r.PathValue("id")
		if err := DeleteReceivable(db, storeID, id); err != nil {
			writeError(w, "DeleteReceivable", err)
			return
		}
		activity.Deleted(db, storeID, auth.UserFromContext(r.Context()), "contas_a_receber", id)
		render.Message(w, http.StatusOK, "Conta removida.")
	}
}

func SummaryHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := Summary(db, r.PathValue("storeID"))
		if err != nil {
			writeError(w, "FinanceSummary", err)
			return
		}
		render.JSON(w, http.StatusOK, s)
	}
}

// FlowHandler serves GET .../finance/flow?year=YYYY.
func FlowHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flow, err := MonthlyFlow(db, r.PathValue("storeID"), r.URL.Query().Get("year"))
		if err != nil {
			writeError(w, "MonthlyFlow", err)
			return
		}
		render.JSON(w, http.StatusOK, flow)
	}
}

func CategoriesHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totals, err := ByCategory(db, r.PathValue("storeID"))
		if err != nil {
			writeError(w, "ExpensesByCategory", err)
			return
		}
		render.JSON(w, http.StatusOK, totals)
	}
}

func writeError(w http.ResponseWriter, op string, err error) {
	for sentinel, msg := range messages {
		if errors.Is(err, sentinel) {
			status := http.StatusBadRequest
			if sentinel == ErrNotFound {
				status = http.StatusNotFound
			}
			render.Error(w, msg, status)
			return
		}
	}
	log.Printf("ERROR: [%s] %v", op, err)
	render.Error(w, "Erro ao processar lançamento financeiro.", http.StatusInternalServerError)
}
