// Package timeclock records staff clock-in and clock-out punches and sums
// worked hours from them.
package timeclock

import (
	"errors"
	"sort"
	"time"

	"doceria/database"
	"doceria/model"
	"doceria/render"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrInvalidKind  = errors.New("punch kind must be entrada or saida")
	ErrAlreadyIn    = errors.New("user already clocked in")
	ErrNotIn        = errors.New("user is not clocked in")
	ErrOutOfOrder   = errors.New("punch earlier than the previous one")
	ErrUnidentified = errors.New("punch without user")
)

var messages = map[error]string{
	ErrInvalidKind:  "Tipo de registro inválido.",
	ErrAlreadyIn:    "Já existe uma entrada em aberto. Registre a saída primeiro.",
	ErrNotIn:        "Nenhuma entrada em aberto. Registre a entrada primeiro.",
	ErrOutOfOrder:   "O horário não pode ser anterior ao último registro.",
	ErrUnidentified: "Usuário não identificado.",
}

// Record appends a punch for user at the given time. An entrada needs the
// previous punch to be a saida (or none); a saida needs an open entrada.
func Record(db *sqlx.DB, storeID string, user *model.User, kind, notes string, at time.Time) (p *model.Punch, err error) {
	if user == nil || user.UID == "" {
		return nil, ErrUnidentified
	}
	if kind != model.PunchIn && kind != model.PunchOut {
		return nil, ErrInvalidKind
	}
	at = at.UTC().Truncate(time.Second)
	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		last, err := database.GetLastPunch(tx, storeID, user.UID)
		if err != nil {
			return err
		}
		open := last != nil && last.Kind == model.PunchIn
		if kind == model.PunchIn && open {
			return ErrAlreadyIn
		}
		if kind == model.PunchOut && !open {
			return ErrNotIn
		}
		if last != nil && at.Before(last.RecordedAt) {
			return ErrOutOfOrder
		}
		name := user.Name
		if name == "" {
			name = user.Email
		}
		rec := model.Punch{
			ID:         uuid.NewString(),
			StoreID:    storeID,
			UserID:     user.UID,
			UserName:   name,
			Kind:       kind,
			RecordedAt: at,
			Notes:      notes,
		}
		if err := database.InsertPunch(tx, rec); err != nil {
			return err
		}
		p = &rec
		return nil
	})
	return p, err
}

func List(db *sqlx.DB, storeID, userID, from, to string) ([]model.Punch, error) {
	return database.GetPunches(db, storeID, userID, from, to)
}

// WorkedHours pairs each entrada with the following saida of the same
// user. A trailing entrada marks the user as still clocked in and is not
// counted.
func WorkedHours(db *sqlx.DB, storeID, userID, from, to string) ([]model.WorkedHours, error) {
	punches, err := database.GetPunches(db, storeID, userID, from, to)
	if err != nil {
		return nil, err
	}
	return summarize(punches), nil
}

func summarize(punches []model.Punch) []model.WorkedHours {
	type acc struct {
		model.WorkedHours
		seconds float64
		openAt  *time.Time
	}
	byUser := map[string]*acc{}
	for _, p := range punches {
		a, ok := byUser[p.UserID]
		if !ok {
			a = &acc{WorkedHours: model.WorkedHours{UserID: p.UserID, UserName: p.UserName}}
			byUser[p.UserID] = a
		}
		switch p.Kind {
		case model.PunchIn:
			at := p.RecordedAt
			a.openAt = &at
		case model.PunchOut:
			if a.openAt != nil {
				a.seconds += p.RecordedAt.Sub(*a.openAt).Seconds()
				a.Shifts++
				a.openAt = nil
			}
		}
	}

	out := make([]model.WorkedHours, 0, len(byUser))
	for _, a := range byUser {
		a.Hours = render.Round2(a.seconds / 3600)
		a.Open = a.openAt != nil
		out = append(out, a.WorkedHours)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserName != out[j].UserName {
			return out[i].UserName < out[j].UserName
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
