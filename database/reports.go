package database

import (
	"fmt"

	"doceria/model"
)

type SalesByDay struct {
	Day    string  `db:"day"`
	Orders int     `db:"orders"`
	Total  float64 `db:"total"`
}

type ProductSales struct {
	Name     string  `db:"name"`
	Quantity float64 `db:"quantity"`
	Revenue  float64 `db:"revenue"`
}

type CustomerSales struct {
	Name   string  `db:"name"`
	Orders int     `db:"orders"`
	Total  float64 `db:"total"`
}

type CouponUsage struct {
	Code     string  `db:"code"`
	Uses     int     `db:"uses"`
	Discount float64 `db:"discount"`
}

type SupplyPurchase struct {
	Name     string  `db:"name"`
	Unit     string  `db:"unit"`
	Quantity float64 `db:"quantity"`
	Total    float64 `db:"total"`
}

type PaymentRevenue struct {
	Method string  `db:"method"`
	Orders int     `db:"orders"`
	Total  float64 `db:"total"`
}

type LossByItem struct {
	Name     string  `db:"name"`
	Quantity float64 `db:"quantity"`
	Cost     float64 `db:"cost"`
}

// Cancelled orders never count as sales.
const salesWhere = " WHERE o.store_id = ? AND o.status <> '" + model.OrderCancelled + "' AND date(o.created_at) BETWEEN ? AND ?"

func ReportSalesByDay(q Querier, storeID, from, to string) ([]SalesByDay, error) {
	rows := []SalesByDay{}
	err := q.Select(&rows, `SELECT date(o.created_at) AS day, COUNT(*) AS orders, SUM(o.total) AS total FROM orders o`+
		salesWhere+` GROUP BY day ORDER BY day`, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to report sales by day: %w", err)
	}
	return rows, nil
}

func ReportTopProducts(q Querier, storeID, from, to string, limit int) ([]ProductSales, error) {
	rows := []ProductSales{}
	err := q.Select(&rows, `SELECT i.name AS name, SUM(i.quantity) AS quantity, SUM(i.quantity * i.unit_price) AS revenue
		FROM order_items i JOIN orders o ON o.id = i.order_id`+salesWhere+`
		GROUP BY i.name ORDER BY quantity DESC, revenue DESC LIMIT ?`, storeID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to report top products: %w", err)
	}
	return rows, nil
}

func ReportTopCustomers(q Querier, storeID, from, to string, limit int) ([]CustomerSales, error) {
	rows := []CustomerSales{}
	err := q.Select(&rows, `SELECT CASE WHEN o.customer_name = '' THEN 'Sem nome' ELSE o.customer_name END AS name,
		COUNT(*) AS orders, SUM(o.total) AS total FROM orders o`+salesWhere+`
		GROUP BY CASE WHEN o.customer_id = '' THEN o.customer_name ELSE o.customer_id END
		ORDER BY total DESC LIMIT ?`, storeID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to report top customers: %w", err)
	}
	return rows, nil
}

func ReportCouponUsage(q Querier, storeID, from, to string) ([]CouponUsage, error) {
	rows := []CouponUsage{}
	err := q.Select(&rows, `SELECT o.coupon_code AS code, COUNT(*) AS uses, SUM(o.discount) AS discount FROM orders o`+
		salesWhere+` AND o.coupon_code IS NOT NULL GROUP BY o.coupon_code ORDER BY uses DESC`, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to report coupon usage: %w", err)
	}
	return rows, nil
}

func ReportLowStockProducts(q Querier, storeID string, threshold float64) ([]model.Product, error) {
	rows := []model.Product{}
	err := q.Select(&rows, "SELECT "+productColumns+` FROM products WHERE store_id = ? AND stock < ?
		ORDER BY stock, name`, storeID, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to report low stock: %w", err)
	}
	return rows, nil
}

func ReportSupplyPurchases(q Querier, storeID, from, to string) ([]SupplyPurchase, error) {
	rows := []SupplyPurchase{}
	err := q.Select(&rows, `SELECT i.name AS name, i.unit AS unit, SUM(i.quantity) AS quantity, SUM(i.quantity * i.unit_cost) AS total
		FROM purchase_order_items i JOIN purchase_orders p ON p.id = i.purchase_order_id
		WHERE p.store_id = ? AND p.status = ? AND p.order_date BETWEEN ? AND ?
		GROUP BY i.name, i.unit ORDER BY total DESC`, storeID, model.PurchaseReceived, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to report supply purchases: %w", err)
	}
	return rows, nil
}

func ReportRevenueByPayment(q Querier, storeID, from, to string) ([]PaymentRevenue, error) {
	rows := []PaymentRevenue{}
	err := q.Select(&rows, `SELECT CASE WHEN o.payment_method = '' THEN 'Não informado' ELSE o.payment_method END AS method,
		COUNT(*) AS orders, SUM(o.total) AS total FROM orders o`+salesWhere+`
		GROUP BY method ORDER BY total DESC`, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to report revenue by payment: %w", err)
	}
	return rows, nil
}

func ReportLosses(q Querier, storeID, from, to string) ([]LossByItem, error) {
	rows := []LossByItem{}
	err := q.Select(&rows, `SELECT item_name AS name, SUM(quantity) AS quantity, SUM(total_cost) AS cost FROM discards
		WHERE store_id = ? AND date(created_at) BETWEEN ? AND ? GROUP BY item_name ORDER BY cost DESC`, storeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to report losses: %w", err)
	}
	return rows, nil
}
