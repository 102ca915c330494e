package database

import (
	"database/sql"
	"errors"
	"fmt"

	"doceria/model"

	"github.com/jmoiron/sqlx"
)

const orderColumns = `id, store_id, number, customer_id, customer_name, customer_phone, subtotal, discount, shipping_fee, total,
	coupon_code, status, origin, category, delivery_date, delivery_address, payment_method, notes, created_at, updated_at`

func GetOrder(q Querier, storeID, id string) (*model.Order, error) {
	var o model.Order
	err := q.Get(&o, "SELECT "+orderColumns+" FROM orders WHERE store_id = ? AND id = ?", storeID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	if err := fillOrderItems(q, []*model.Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrders lists orders newest first, filtered by creation date range and
// status. Search is applied by the caller.
func GetOrders(q Querier, storeID, from, to, status string) ([]model.Order, error) {
	orders := []model.Order{}
	query := "SELECT " + orderColumns + " FROM orders WHERE store_id = ?"
	args := []interface{}{storeID}
	query, args = appendDateRange(query, args, "created_at", from, to)
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if err := q.Select(&orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get orders for store %s: %w", storeID, err)
	}
	ptrs := make([]*model.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	if err := fillOrderItems(q, ptrs); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetActiveOrders returns orders that are neither finished nor cancelled,
// oldest first.
func GetActiveOrders(q Querier, storeID string) ([]model.Order, error) {
	orders := []model.Order{}
	err := q.Select(&orders, "SELECT "+orderColumns+` FROM orders
		WHERE store_id = ? AND status NOT IN (?, ?) ORDER BY created_at, rowid`,
		storeID, model.OrderFinished, model.OrderCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to get active orders: %w", err)
	}
	ptrs := make([]*model.Order, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	if err := fillOrderItems(q, ptrs); err != nil {
		return nil, err
	}
	return orders, nil
}

func fillOrderItems(q Querier, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*model.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		o.Items = []model.OrderItem{}
		if o.CouponCode != nil {
			o.Coupon = &model.AppliedCoupon{Code: *o.CouponCode, DiscountValue: o.Discount}
		}
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	query, args, err := sqlx.In(`SELECT order_id, product_id, name, unit_price, quantity FROM order_items
		WHERE order_id IN (?) ORDER BY order_id, position`, ids)
	if err != nil {
		return fmt.Errorf("failed to build order item query: %w", err)
	}
	var items []model.OrderItem
	if err := q.Select(&items, q.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}
	for _, it := range items {
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return nil
}

func InsertOrderInTx(tx *sqlx.Tx, o model.Order) error {
	_, err := tx.Exec("INSERT INTO orders ("+orderColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		o.ID, o.StoreID, o.Number, o.CustomerID, o.CustomerName, o.CustomerPhone, o.Subtotal, o.Discount, o.ShippingFee, o.Total,
		o.CouponCode, o.Status, o.Origin, o.Category, o.DeliveryDate, o.DeliveryAddr, o.PaymentMethod, o.Notes, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("InsertOrderInTx (Store: %s) failed: %w", o.StoreID, err)
	}
	return insertOrderItems(tx, o.ID, o.Items)
}

func UpdateOrderInTx(tx *sqlx.Tx, o model.Order) error {
	_, err := tx.Exec(`UPDATE orders SET customer_id = ?, customer_name = ?, customer_phone = ?, subtotal = ?, discount = ?,
		shipping_fee = ?, total = ?, coupon_code = ?, status = ?, category = ?, delivery_date = ?, delivery_address = ?,
		payment_method = ?, notes = ?, updated_at = ? WHERE store_id = ? AND id = ?`,
		o.CustomerID, o.CustomerName, o.CustomerPhone, o.Subtotal, o.Discount, o.ShippingFee, o.Total, o.CouponCode,
		o.Status, o.Category, o.DeliveryDate, o.DeliveryAddr, o.PaymentMethod, o.Notes, o.UpdatedAt, o.StoreID, o.ID)
	if err != nil {
		return fmt.Errorf("UpdateOrderInTx (ID: %s) failed: %w", o.ID, err)
	}
	if _, err := tx.Exec("DELETE FROM order_items WHERE order_id = ?", o.ID); err != nil {
		return fmt.Errorf("failed to clear items of order %s: %w", o.ID, err)
	}
	return insertOrderItems(tx, o.ID, o.Items)
}

func insertOrderItems(tx *sqlx.Tx, orderID string, items []model.OrderItem) error {
	for i, it := range items {
		_, err := tx.Exec(`INSERT INTO order_items (order_id, position, product_id, name, unit_price, quantity) VALUES (?, ?, ?, ?, ?, ?)`,
			orderID, i, it.ProductID, it.Name, it.UnitPrice, it.Quantity)
		if err != nil {
			return fmt.Errorf("failed to insert item %d of order %s: %w", i, orderID, err)
		}
	}
	return nil
}

func UpdateOrderStatus(q Querier, storeID, id, status string) error {
	res, err := q.Exec("UPDATE orders SET status = ?, updated_at = ? WHERE store_id = ? AND id = ?", status, Now(), storeID, id)
	if err != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func DeleteOrder(q Querier, storeID, id string) error {
	if _, err := q.Exec("DELETE FROM orders WHERE store_id = ? AND id = ?", storeID, id); err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return nil
}
