// Package discard records stock lost to breakage, expiry or spoilage.
// Every loss is booked as a saida on the kardex.
package discard

import (
	"errors"
	"strings"

	"doceria/database"
	"doceria/mappers"
	"doceria/model"
	"doceria/render"
	"doceria/stock"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("discard not found")

type Input struct {
	ItemID   string  `json:"produtoId"`
	Quantity float64 `json:"quantidade"`
	Reason   string  `json:"motivo"`
}

// Summary is a listing of discards with their summed cost.
type Summary struct {
	Discards  []model.Discard `json:"descartes"`
	TotalCost float64         `json:"custoTotal"`
}

// Create books the loss on the ledger and stores the discard in the same
// transaction, priced at the item's unit cost.
func Create(db *sqlx.DB, storeID string, in Input, actor *model.User) (d *model.Discard, err error) {
	reason := strings.TrimSpace(in.Reason)
	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		movementReason := "Perda"
		if reason != "" {
			movementReason = "Perda: " + reason
		}
		if _, err := stock.ApplyInTx(tx, storeID, stock.MovementInput{
			ItemID: in.ItemID, Kind: model.MovementOut, Quantity: in.Quantity, Reason: movementReason,
		}, actor); err != nil {
			return err
		}

		item, err := database.GetStockItem(tx, storeID, in.ItemID)
		if err != nil {
			return err
		}
		product, err := database.GetProduct(tx, storeID, in.ItemID)
		if err != nil {
			return err
		}
		rec := model.Discard{
			ID:        uuid.NewString(),
			StoreID:   storeID,
			ItemID:    in.ItemID,
			Quantity:  in.Quantity,
			Reason:    reason,
			CreatedAt: database.Now(),
		}
		if actor != nil {
			rec.UserID = actor.UID
		}
		mappers.MapStockItemToDiscard(&rec, item, product)
		if err := database.InsertDiscard(tx, rec); err != nil {
			return err
		}
		d = &rec
		return nil
	})
	return d, err
}

// List returns discards in the inclusive date range with their total cost.
func List(db *sqlx.DB, storeID, from, to string) (*Summary, error) {
	discards, err := database.GetDiscards(db, storeID, from, to)
	if err != nil {
		return nil, err
	}
	costs := make([]float64, 0, len(discards))
	for _, d := range discards {
		costs = append(costs, d.TotalCost)
	}
	return &Summary{Discards: discards, TotalCost: render.Sum(costs...)}, nil
}

// Delete removes a discard and returns its quantity to stock with an
// entrada, so the kardex stays append-only.
func Delete(db *sqlx.DB, storeID, id string, actor *model.User) error {
	return database.WithTx(db, func(tx *sqlx.Tx) error {
		d, err := database.GetDiscard(tx, storeID, id)
		if err != nil {
			return err
		}
		if d == nil {
			return ErrNotFound
		}
		_, err = stock.ApplyInTx(tx, storeID, stock.MovementInput{
			ItemID: d.ItemID, Kind: model.MovementIn, Quantity: d.Quantity, Reason: "Estorno de perda",
		}, actor)
		if err != nil && !errors.Is(err, stock.ErrNotFound) {
			return err
		}
		return database.DeleteDiscard(tx, storeID, id)
	})
}
