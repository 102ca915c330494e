// Package stock keeps the inventory kardex: every quantity change on a
// product or stock item goes through UpdateStock and leaves one movement
// row behind.
package stock

import (
	"fmt"

	"doceria/config"
	"doceria/database"
	"doceria/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// MovementInput describes one entrada or saida.
type MovementInput struct {
	ItemID   string  `json:"produtoId"`
	Kind     string  `json:"tipo"`
	Quantity float64 `json:"quantidade"`
	Reason   string  `json:"motivo"`
}

func (in MovementInput) validate(storeID string) error {
	if in.ItemID == "" {
		return ErrMissingItem
	}
	if storeID == "" {
		return ErrMissingStore
	}
	if in.Kind != model.MovementIn && in.Kind != model.MovementOut {
		return ErrInvalidKind
	}
	if !(in.Quantity > 0) {
		return ErrInvalidQuantity
	}
	return nil
}

func defaultReason(kind, reason string) string {
	if reason != "" {
		return reason
	}
	if kind == model.MovementIn {
		return "Entrada de estoque"
	}
	return "Saída de estoque"
}

// UpdateStock applies one movement in its own transaction.
func UpdateStock(db *sqlx.DB, storeID string, in MovementInput, actor *model.User) (m *model.StockMovement, err error) {
	if err := in.validate(storeID); err != nil {
		return nil, err
	}
	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		m, err = ApplyInTx(tx, storeID, in, actor)
		return err
	})
	return m, err
}

// ApplyInTx reads the product and the stock item stored under in.ItemID,
// moves both by the signed quantity and appends the kardex row. The
// current quantity is the product's stock when the product exists,
// otherwise the item's.
func ApplyInTx(tx *sqlx.Tx, storeID string, in MovementInput, actor *model.User) (*model.StockMovement, error) {
	if err := in.validate(storeID); err != nil {
		return nil, err
	}
	product, err := database.GetProduct(tx, storeID, in.ItemID)
	if err != nil {
		return nil, err
	}
	item, err := database.GetStockItem(tx, storeID, in.ItemID)
	if err != nil {
		return nil, err
	}
	if product == nil && item == nil {
		return nil, ErrNotFound
	}

	var current float64
	if product != nil {
		current = product.Stock
	} else {
		current = item.Quantity
	}
	delta := in.Quantity
	if in.Kind == model.MovementOut {
		delta = -in.Quantity
	}
	next := current + delta
	if next < 0 && !config.GetConfig().Stock.AllowNegative {
		return nil, fmt.Errorf("%w (atual: %g, saída: %g)", ErrInsufficientStock, current, in.Quantity)
	}

	if err := database.ApplyStockDelta(tx, storeID, in.ItemID, delta, product != nil, item != nil); err != nil {
		return nil, err
	}

	m := model.StockMovement{
		ID:        uuid.NewString(),
		StoreID:   storeID,
		ItemID:    in.ItemID,
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		Delta:     delta,
		Reason:    defaultReason(in.Kind, in.Reason),
		Before:    current,
		After:     next,
		CreatedAt: database.Now(),
	}
	if actor != nil {
		if actor.UID != "" {
			uid := actor.UID
			m.UserID = &uid
		}
		if actor.Email != "" {
			email := actor.Email
			m.UserEmail = &email
		}
	}
	if err := database.InsertMovement(tx, m); err != nil {
		return nil, err
	}
	return &m, nil
}

// CurrentInTx returns the quantity ApplyInTx would start from and the
// display name of the product or stock item.
func CurrentInTx(tx *sqlx.Tx, storeID, itemID string) (qty float64, name string, err error) {
	product, err := database.GetProduct(tx, storeID, itemID)
	if err != nil {
		return 0, "", err
	}
	if product != nil {
		return product.Stock, product.Name, nil
	}
	item, err := database.GetStockItem(tx, storeID, itemID)
	if err != nil {
		return 0, "", err
	}
	if item == nil {
		return 0, "", ErrNotFound
	}
	return item.Quantity, item.Name, nil
}
