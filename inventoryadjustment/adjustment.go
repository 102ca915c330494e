// Package inventoryadjustment reconciles the ledger with a physical stock
// count. Each counted line that differs from the book quantity is posted as
// one entrada or saida.
package inventoryadjustment

import (
	"errors"
	"fmt"
	"strings"

	"doceria/database"
	"doceria/model"
	"doceria/render"
	"doceria/stock"

	"github.com/jmoiron/sqlx"
)

const defaultReason = "Ajuste de inventário"

var (
	ErrNoLines       = errors.New("no counted lines")
	ErrInvalidCount  = errors.New("counted quantity must not be negative")
	ErrDuplicateItem = errors.New("item counted twice")
)

type Line struct {
	ItemID  string  `json:"produtoId"`
	Counted float64 `json:"quantidadeContada"`
}

type Input struct {
	Lines  []Line `json:"itens"`
	Reason string `json:"motivo"`
}

// Adjustment is the outcome for one counted item.
type Adjustment struct {
	ItemID  string  `json:"produtoId"`
	Name    string  `json:"nome"`
	Before  float64 `json:"quantidadeAnterior"`
	Counted float64 `json:"quantidadeContada"`
	Delta   float64 `json:"diferenca"`
}

type Result struct {
	Adjusted  []Adjustment `json:"ajustados"`
	Unchanged int          `json:"semAlteracao"`
}

func (in *Input) normalize() error {
	if len(in.Lines) == 0 {
		return ErrNoLines
	}
	seen := map[string]bool{}
	for i := range in.Lines {
		l := &in.Lines[i]
		l.ItemID = strings.TrimSpace(l.ItemID)
		if l.ItemID == "" {
			return stock.ErrMissingItem
		}
		if l.Counted < 0 {
			return fmt.Errorf("%w: %s", ErrInvalidCount, l.ItemID)
		}
		if seen[l.ItemID] {
			return fmt.Errorf("%w: %s", ErrDuplicateItem, l.ItemID)
		}
		seen[l.ItemID] = true
		l.Counted = render.Round3(l.Counted)
	}
	in.Reason = strings.TrimSpace(in.Reason)
	if in.Reason == "" {
		in.Reason = defaultReason
	}
	return nil
}

// Apply posts the count in one transaction. Any unknown item or rejected
// movement rolls the whole count back.
func Apply(db *sqlx.DB, storeID string, in Input, actor *model.User) (res *Result, err error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	res = &Result{Adjusted: []Adjustment{}}
	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		for _, l := range in.Lines {
			current, name, err := stock.CurrentInTx(tx, storeID, l.ItemID)
			if err != nil {
				return fmt.Errorf("%s: %w", l.ItemID, err)
			}
			delta := render.Round3(l.Counted - current)
			if delta == 0 {
				res.Unchanged++
				continue
			}
			mv := stock.MovementInput{ItemID: l.ItemID, Kind: model.MovementIn, Quantity: delta, Reason: in.Reason}
			if delta < 0 {
				mv.Kind, mv.Quantity = model.MovementOut, -delta
			}
			if _, err := stock.ApplyInTx(tx, storeID, mv, actor); err != nil {
				return fmt.Errorf("%s: %w", l.ItemID, err)
			}
			res.Adjusted = append(res.Adjusted, Adjustment{ItemID: l.ItemID, Name: name, Before: current, Counted: l.Counted, Delta: delta})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
