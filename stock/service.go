package stock

import (
	"strings"

	"doceria/database"
	"doceria/model"
	"doceria/units"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ItemInput holds the editable fields of a stock item. Quantity is only
// read on creation, where a positive value is booked as the opening
// entrada.
type ItemInput struct {
	Name       string  `json:"nome"`
	Category   string  `json:"categoria"`
	SupplierID string  `json:"fornecedorId"`
	Quantity   float64 `json:"quantidade"`
	Unit       string  `json:"unidade"`
	UnitCost   float64 `json:"custoUnitario"`
	MinLevel   float64 `json:"estoqueMinimo"`
}

func (in *ItemInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return ErrNameRequired
	}
	if in.UnitCost < 0 || in.MinLevel < 0 {
		return ErrNegativeValue
	}
	in.Unit = units.ResolveName(in.Unit)
	return nil
}

func (in ItemInput) applyTo(it *model.StockItem) {
	it.Name = in.Name
	it.Category = strings.TrimSpace(in.Category)
	it.SupplierID = in.SupplierID
	it.Unit = in.Unit
	it.UnitCost = in.UnitCost
	it.MinLevel = in.MinLevel
}

func GetItem(db *sqlx.DB, storeID, id string) (*model.StockItem, error) {
	it, err := database.GetStockItem(db, storeID, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrNotFound
	}
	return it, nil
}

// CreateItem inserts the item with zero quantity and books any opening
// quantity through the ledger.
func CreateItem(db *sqlx.DB, storeID string, in ItemInput, actor *model.User) (it *model.StockItem, err error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	now := database.Now()
	created := model.StockItem{ID: uuid.NewString(), StoreID: storeID, CreatedAt: now, UpdatedAt: now}
	in.applyTo(&created)
	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		if err := database.InsertStockItem(tx, created); err != nil {
			return err
		}
		if in.Quantity > 0 {
			_, err := ApplyInTx(tx, storeID, MovementInput{
				ItemID: created.ID, Kind: model.MovementIn, Quantity: in.Quantity, Reason: "Estoque inicial",
			}, actor)
			if err != nil {
				return err
			}
		}
		it, err = database.GetStockItem(tx, storeID, created.ID)
		return err
	})
	return it, err
}

func UpdateItem(db *sqlx.DB, storeID, id string, in ItemInput) (before, after *model.StockItem, err error) {
	if err := in.normalize(); err != nil {
		return nil, nil, err
	}
	before, err = GetItem(db, storeID, id)
	if err != nil {
		return nil, nil, err
	}
	it := *before
	in.applyTo(&it)
	it.UpdatedAt = database.Now()
	if err := database.UpdateStockItem(db, it); err != nil {
		return nil, nil, err
	}
	return before, &it, nil
}

func DeleteItem(db *sqlx.DB, storeID, id string) error {
	if _, err := GetItem(db, storeID, id); err != nil {
		return err
	}
	return database.DeleteStockItem(db, storeID, id)
}
