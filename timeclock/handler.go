package timeclock

import (
	"errors"
	"log"
	"net/http"

	"doceria/auth"
	"doceria/database"
	"doceria/model"
	"doceria/render"

	"github.com/jmoiron/sqlx"
)

// PunchHandler serves POST /api/stores/{storeID}/timeclock for the
// authenticated user.
func PunchHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Kind  string `json:"tipo"`
			Notes string `json:"observacao"`
		}
		if err := render.DecodeJSON(r, &req); err != nil {
			render.Error(w, "Requisição inválida.", http.StatusBadRequest)
			return
		}
		p, err := Record(db, r.PathValue("storeID"), auth.UserFromContext(r.Context()), req.Kind, req.Notes, database.Now())
		if err != nil {
			writeError(w, "Punch", err)
			return
		}
		render.JSON(w, http.StatusCreated, p)
	}
}

// ListHandler serves GET .../timeclock?userId=&from=&to=. Attendants only
// see their own punches.
func ListHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		punches, err := List(db, r.PathValue("storeID"), scopedUser(r, q.Get("userId")), q.Get("from"), q.Get("to"))
		if err != nil {
			writeError(w, "ListPunches", err)
			return
		}
		render.JSON(w, http.StatusOK, punches)
	}
}

func HoursHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		hours, err := WorkedHours(db, r.PathValue("storeID"), scopedUser(r, q.Get("userId")), q.Get("from"), q.Get("to"))
		if err != nil {
			writeError(w, "WorkedHours", err)
			return
		}
		render.JSON(w, http.StatusOK, hours)
	}
}

func scopedUser(r *http.Request, requested string) string {
	u := auth.UserFromContext(r.Context())
	if u != nil && auth.NormalizeRole(u.Role) == model.RoleAttendant {
		return u.UID
	}
	return requested
}

func writeError(w http.ResponseWriter, op string, err error) {
	for sentinel, msg := range messages {
		if errors.Is(err, sentinel) {
			status := http.StatusBadRequest
			if sentinel == ErrAlreadyIn || sentinel == ErrNotIn {
				status = http.StatusConflict
			}
			render.Error(w, msg, status)
			return
		}
	}
	log.Printf("ERROR: [%s] %v", op, err)
	render.Error(w, "Erro ao registrar ponto.", http.StatusInternalServerError)
}
