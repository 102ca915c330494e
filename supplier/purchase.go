package supplier

import (
	"fmt"
	"log"
	"strings"

	"doceria/database"
	"doceria/mappers"
	"doceria/model"
	"doceria/render"
	"doceria/stock"
	"doceria/units"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PurchaseInput struct {
	SupplierID   string                    `json:"fornecedorId"`
	Items        []model.PurchaseOrderItem `json:"itens"`
	OrderDate    string                    `json:"dataPedido"`
	ExpectedDate string                    `json:"dataEntregaPrevista"`
}

// ListPurchases returns purchase orders newest first with the supplier's
// current name, or the stored one when the supplier is gone.
func ListPurchases(db *sqlx.DB, storeID string) ([]model.PurchaseOrder, error) {
	orders, err := database.GetPurchaseOrders(db, storeID)
	if err != nil {
		return nil, err
	}
	names, err := database.GetSupplierMap(db, storeID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if name, ok := names[orders[i].SupplierID]; ok {
			orders[i].SupplierName = name
		} else if orders[i].SupplierName == "" {
			orders[i].SupplierName = "N/A"
		}
	}
	return orders, nil
}

func GetPurchase(db *sqlx.DB, storeID, id string) (*model.PurchaseOrder, error) {
	po, err := database.GetPurchaseOrder(db, storeID, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, ErrPurchaseNotFound
	}
	return po, nil
}

// CreatePurchase records a pending purchase order. Lines linked to a
// stock item take its name and unit when they are left blank.
func CreatePurchase(db *sqlx.DB, storeID string, in PurchaseInput) (po *model.PurchaseOrder, err error) {
	if strings.TrimSpace(in.SupplierID) == "" {
		return nil, ErrSupplierRequired
	}
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}
	s, err := Get(db, storeID, in.SupplierID)
	if err != nil {
		return nil, err
	}

	created := model.PurchaseOrder{
		ID:           uuid.NewString(),
		StoreID:      storeID,
		SupplierID:   s.ID,
		SupplierName: s.Name,
		OrderDate:    in.OrderDate,
		ExpectedDate: in.ExpectedDate,
		Status:       model.PurchasePending,
		CreatedAt:    database.Now(),
	}
	if created.OrderDate == "" {
		created.OrderDate = database.Today()
	}

	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		lines := make([]float64, 0, len(in.Items))
		for _, it := range in.Items {
			if !(it.Quantity > 0) || it.UnitCost < 0 {
				return ErrInvalidItem
			}
			if it.ItemID != "" {
				stocked, err := database.GetStockItem(tx, storeID, it.ItemID)
				if err != nil {
					return err
				}
				if stocked == nil {
					return stock.ErrNotFound
				}
				if it.Name == "" {
					it.Name = stocked.Name
				}
				if it.Unit == "" {
					it.Unit = stocked.Unit
				}
			}
			it.Name = strings.TrimSpace(it.Name)
			if it.Name == "" {
				return ErrInvalidItem
			}
			it.Unit = units.ResolveName(it.Unit)
			created.Items = append(created.Items, it)
			lines = append(lines, render.Mul(it.Quantity, it.UnitCost))
		}
		created.Total = render.Sum(lines...)
		return database.InsertPurchaseOrderInTx(tx, created)
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Receive marks the purchase order as received, books a payable due today
// and an entrada for every line linked to a stock item, converted to the
// item's unit. Everything happens in one transaction.
func Receive(db *sqlx.DB, storeID, id string, actor *model.User) (po *model.PurchaseOrder, payable *model.Payable, err error) {
	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		po, err = database.GetPurchaseOrder(tx, storeID, id)
		if err != nil {
			return err
		}
		if po == nil {
			return ErrPurchaseNotFound
		}
		switch po.Status {
		case model.PurchaseReceived:
			return ErrAlreadyReceived
		case model.PurchaseCancelled:
			return ErrCancelled
		}

		now := database.Now()
		if err := database.SetPurchaseOrderStatusInTx(tx, storeID, id, model.PurchaseReceived, now); err != nil {
			return err
		}
		po.Status = model.PurchaseReceived
		po.ReceivedAt = &now

		supplierName := po.SupplierName
		s, err := database.GetSupplier(tx, storeID, po.SupplierID)
		if err != nil {
			return err
		}
		if s != nil {
			supplierName = s.Name
		}
		if supplierName == "" {
			supplierName = "N/A"
		}
		p := mappers.MapPurchaseOrderToPayable(po, supplierName, database.Today())
		p.ID = uuid.NewString()
		p.CreatedAt = now
		if err := database.InsertPayable(tx, p); err != nil {
			return err
		}
		payable = &p

		for _, it := range po.Items {
			if it.ItemID == "" {
				continue
			}
			stocked, err := database.GetStockItem(tx, storeID, it.ItemID)
			if err != nil {
				return err
			}
			if stocked == nil {
				log.Printf("WARN: [ReceivePurchase] Stock item %s of purchase order %s no longer exists", it.ItemID, id)
				continue
			}
			qty, err := units.Convert(it.Quantity, it.Unit, stocked.Unit)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrUnitMismatch, it.Name, err)
			}
			_, err = stock.ApplyInTx(tx, storeID, stock.MovementInput{
				ItemID:   it.ItemID,
				Kind:     model.MovementIn,
				Quantity: qty,
				Reason:   "Recebimento de compra de " + supplierName,
			}, actor)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	log.Printf("INFO: [ReceivePurchase] Purchase order %s received, payable %s created", id, payable.ID)
	return po, payable, nil
}

// CancelPurchase cancels a purchase order that was not received.
func CancelPurchase(db *sqlx.DB, storeID, id string) (*model.PurchaseOrder, error) {
	err := database.WithTx(db, func(tx *sqlx.Tx) error {
		po, err := database.GetPurchaseOrder(tx, storeID, id)
		if err != nil {
			return err
		}
		if po == nil {
			return ErrPurchaseNotFound
		}
		if po.Status == model.PurchaseReceived {
			return ErrAlreadyReceived
		}
		return database.SetPurchaseOrderStatusInTx(tx, storeID, id, model.PurchaseCancelled, nil)
	})
	if err != nil {
		return nil, err
	}
	return GetPurchase(db, storeID, id)
}

func DeletePurchase(db *sqlx.DB, storeID, id string) error {
	if _, err := GetPurchase(db, storeID, id); err != nil {
		return err
	}
	return database.DeletePurchaseOrder(db, storeID, id)
}
