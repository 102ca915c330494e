package database

import (
	"database/sql"
	"errors"
	"fmt"

	"doceria/model"
)

const couponColumns = "id, store_id, code, description, status, discount_type, value, min_order, usage_limit, uses, valid_until, created_at"

// GetCouponByCode looks up an already upper-cased code.
func GetCouponByCode(q Querier, storeID, code string) (*model.Coupon, error) {
	var c model.Coupon
	err := q.Get(&c, "SELECT "+couponColumns+" FROM coupons WHERE store_id = ? AND code = ?", storeID, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coupon %s: %w", code, err)
	}
	return &c, nil
}

func GetCoupon(q Querier, storeID, id string) (*model.Coupon, error) {
	var c model.Coupon
	err := q.Get(&c, "SELECT "+couponColumns+" FROM coupons WHERE store_id = ? AND id = ?", storeID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get coupon %s: %w", id, err)
	}
	return &c, nil
}

func GetCoupons(q Querier, storeID string) ([]model.Coupon, error) {
	coupons := []model.Coupon{}
	if err := q.Select(&coupons, "SELECT "+couponColumns+" FROM coupons WHERE store_id = ? ORDER BY code", storeID); err != nil {
		return nil, fmt.Errorf("failed to get coupons: %w", err)
	}
	return coupons, nil
}

func InsertCoupon(q Querier, c model.Coupon) error {
	_, err := q.Exec("INSERT INTO coupons ("+couponColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		c.ID, c.StoreID, c.Code, c.Description, c.Status, c.DiscountType, c.Value, c.MinOrder, c.UsageLimit, c.Uses, c.ValidUntil, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("InsertCoupon (Code: %s) failed: %w", c.Code, err)
	}
	return nil
}

func UpdateCoupon(q Querier, c model.Coupon) error {
	_, err := q.Exec(`UPDATE coupons SET code = ?, description = ?, status = ?, discount_type = ?, value = ?, min_order = ?,
		usage_limit = ?, valid_until = ? WHERE store_id = ? AND id = ?`,
		c.Code, c.Description, c.Status, c.DiscountType, c.Value, c.MinOrder, c.UsageLimit, c.ValidUntil, c.StoreID, c.ID)
	if err != nil {
		return fmt.Errorf("UpdateCoupon (ID: %s) failed: %w", c.ID, err)
	}
	return nil
}

func DeleteCoupon(q Querier, storeID, id string) error {
	if _, err := q.Exec("DELETE FROM coupons WHERE store_id = ? AND id = ?", storeID, id); err != nil {
		return fmt.Errorf("failed to delete coupon %s: %w", id, err)
	}
	return nil
}

func IncrementCouponUses(q Querier, storeID, code string) error {
	if _, err := q.Exec("UPDATE coupons SET uses = uses + 1 WHERE store_id = ? AND code = ?", storeID, code); err != nil {
		return fmt.Errorf("failed to increment uses of coupon %s: %w", code, err)
	}
	return nil
}
