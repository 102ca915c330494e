package database

import (
	"database/sql"
	"errors"
	"fmt"

	"doceria/model"

	"github.com/jmoiron/sqlx"
)

const supplierColumns = "id, store_id, name, document, contact, phone, email, address, category, bank_details, notes, status, created_at"

func GetSuppliers(q Querier, storeID string) ([]model.Supplier, error) {
	suppliers := []model.Supplier{}
	if err := q.Select(&suppliers, "SELECT "+supplierColumns+" FROM suppliers WHERE store_id = ? ORDER BY name", storeID); err != nil {
		return nil, fmt.Errorf("failed to get suppliers: %w", err)
	}
	return suppliers, nil
}

func GetSupplier(q Querier, storeID, id string) (*model.Supplier, error) {
	var s model.Supplier
	err := q.Get(&s, "SELECT "+supplierColumns+" FROM suppliers WHERE store_id = ? AND id = ?", storeID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get supplier %s: %w", id, err)
	}
	return &s, nil
}

// GetSupplierMap maps supplier ID to name.
func GetSupplierMap(q Querier, storeID string) (map[string]string, error) {
	suppliers, err := GetSuppliers(q, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier list for map: %w", err)
	}
	m := make(map[string]string, len(suppliers))
	for _, s := range suppliers {
		m[s.ID] = s.Name
	}
	return m, nil
}

func InsertSupplier(q Querier, s model.Supplier) error {
	_, err := q.Exec("INSERT INTO suppliers ("+supplierColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		s.ID, s.StoreID, s.Name, s.Document, s.Contact, s.Phone, s.Email, s.Address, s.Category, s.BankDetails, s.Notes, s.Status, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("InsertSupplier (Name: %s) failed: %w", s.Name, err)
	}
	return nil
}

func UpdateSupplier(q Querier, s model.Supplier) error {
	_, err := q.Exec(`UPDATE suppliers SET name = ?, document = ?, contact = ?, phone = ?, email = ?, address = ?, category = ?,
		bank_details = ?, notes = ?, status = ? WHERE store_id = ? AND id = ?`,
		s.Name, s.Document, s.Contact, s.Phone, s.Email, s.Address, s.Category, s.BankDetails, s.Notes, s.Status, s.StoreID, s.ID)
	if err != nil {
		return fmt.Errorf("UpdateSupplier (ID: %s) failed: %w", s.ID, err)
	}
	return nil
}

func DeleteSupplier(q Querier, storeID, id string) error {
	if _, err := q.Exec("DELETE FROM suppliers WHERE store_id = ? AND id = ?", storeID, id); err != nil {
		return fmt.Errorf("failed to delete supplier %s: %w", id, err)
	}
	return nil
}

const purchaseOrderColumns = "id, store_id, supplier_id, supplier_name, total, order_date, expected_date, status, received_at, created_at"

func GetPurchaseOrders(q Querier, storeID string) ([]model.PurchaseOrder, error) {
	orders := []model.PurchaseOrder{}
	err := q.Select(&orders, "SELECT "+purchaseOrderColumns+" FROM purchase_orders WHERE store_id = ? ORDER BY created_at DESC, rowid DESC", storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase orders: %w", err)
	}
	for i := range orders {
		if err := fillPurchaseOrderItems(q, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func GetPurchaseOrder(q Querier, storeID, id string) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := q.Get(&po, "SELECT "+purchaseOrderColumns+" FROM purchase_orders WHERE store_id = ? AND id = ?", storeID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get purchase order %s: %w", id, err)
	}
	if err := fillPurchaseOrderItems(q, &po); err != nil {
		return nil, err
	}
	return &po, nil
}

func fillPurchaseOrderItems(q Querier, po *model.PurchaseOrder) error {
	po.Items = []model.PurchaseOrderItem{}
	err := q.Select(&po.Items, `SELECT purchase_order_id, item_id, name, quantity, unit, unit_cost
		FROM purchase_order_items WHERE purchase_order_id = ? ORDER BY position`, po.ID)
	if err != nil {
		return fmt.Errorf("failed to get items of purchase order %s: %w", po.ID, err)
	}
	return nil
}

func InsertPurchaseOrderInTx(tx *sqlx.Tx, po model.PurchaseOrder) error {
	_, err := tx.Exec("INSERT INTO purchase_orders ("+purchaseOrderColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		po.ID, po.StoreID, po.SupplierID, po.SupplierName, po.Total, po.OrderDate, po.ExpectedDate, po.Status, po.ReceivedAt, po.CreatedAt)
	if err != nil {
		return fmt.Errorf("InsertPurchaseOrderInTx (Supplier: %s) failed: %w", po.SupplierID, err)
	}
	for i, it := range po.Items {
		_, err := tx.Exec(`INSERT INTO purchase_order_items (purchase_order_id, position, item_id, name, quantity, unit, unit_cost)
			VALUES (?, ?, ?, ?, ?, ?, ?)`, po.ID, i, it.ItemID, it.Name, it.Quantity, it.Unit, it.UnitCost)
		if err != nil {
			return fmt.Errorf("failed to insert item %d of purchase order %s: %w", i, po.ID, err)
		}
	}
	return nil
}

func SetPurchaseOrderStatusInTx(tx *sqlx.Tx, storeID, id, status string, receivedAt interface{}) error {
	_, err := tx.Exec("UPDATE purchase_orders SET status = ?, received_at = ? WHERE store_id = ? AND id = ?", status, receivedAt, storeID, id)
	if err != nil {
		return fmt.Errorf("failed to update purchase order %s: %w", id, err)
	}
	return nil
}

func DeletePurchaseOrder(q Querier, storeID, id string) error {
	if _, err := q.Exec("DELETE FROM purchase_orders WHERE store_id = ? AND id = ?", storeID, id); err != nil {
		return fmt.Errorf("failed to delete purchase order %s: %w", id, err)
	}
	return nil
}

// GetOpenPurchaseItems returns the lines of the store's pending purchase
// orders.
func GetOpenPurchaseItems(q Querier, storeID string) ([]model.PurchaseOrderItem, error) {
	items := []model.PurchaseOrderItem{}
	err := q.Select(&items, `SELECT i.purchase_order_id, i.item_id, i.name, i.quantity, i.unit, i.unit_cost
		FROM purchase_order_items i JOIN purchase_orders p ON p.id = i.purchase_order_id
		WHERE p.store_id = ? AND p.status = ?`, storeID, model.PurchasePending)
	if err != nil {
		return nil, fmt.Errorf("failed to get open purchase items: %w", err)
	}
	return items, nil
}
