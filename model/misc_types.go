package model

import "time"

const (
	PunchIn  = "entrada"
	PunchOut = "saida"
)

// Punch is one time-clock record.
type Punch struct {
	ID         string    `db:"id" json:"id"`
	StoreID    string    `db:"store_id" json:"lojaId"`
	UserID     string    `db:"user_id" json:"usuarioId"`
	UserName   string    `db:"user_name" json:"usuarioNome"`
	Kind       string    `db:"kind" json:"tipo"`
	RecordedAt time.Time `db:"recorded_at" json:"registradoEm"`
	Notes      string    `db:"notes" json:"observacao"`
}

type WorkedHours struct {
	UserID   string  `json:"usuarioId"`
	UserName string  `json:"usuarioNome"`
	Hours    float64 `json:"horas"`
	Shifts   int     `json:"turnos"`
	Open     bool    `json:"emAberto"`
}

// DeviceToken is a push registration for a back-office device.
type DeviceToken struct {
	Token     string    `db:"token" json:"token"`
	UserID    string    `db:"user_id" json:"usuarioId"`
	Platform  string    `db:"platform" json:"plataforma"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type ActivityLog struct {
	ID        string    `db:"id" json:"id"`
	StoreID   string    `db:"store_id" json:"lojaId"`
	Action    string    `db:"action" json:"acao"`
	Details   string    `db:"details" json:"detalhes"`
	UserEmail string    `db:"user_email" json:"usuarioEmail"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}

// FieldChange is one entry of an update diff.
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}
