package order

import (
	"strings"

	"doceria/coupon"
	"doceria/database"
	"doceria/model"
	"doceria/render"
)

// manualDiscount resolves the back-office discount fields. Only one of
// value and percent may be set, and the result must lie in [0, subtotal].
func manualDiscount(subtotal, value, percent float64) (float64, error) {
	if value < 0 || percent < 0 {
		return 0, ErrNegativeDiscount
	}
	if value > 0 && percent > 0 {
		return 0, ErrDiscountBoth
	}
	discount := render.Round2(value)
	if percent > 0 {
		discount = render.Percent(subtotal, percent)
	}
	if discount > subtotal {
		return 0, ErrDiscountTooHigh
	}
	return discount, nil
}

// applyTotals fills subtotal, discount, coupon and total on o. A coupon
// replaces any manual discount. prev is the coupon already stored on the
// order being edited; keeping the same code does not re-check its usage
// limit.
func applyTotals(q database.Querier, o *model.Order, in model.OrderInput, prev *model.AppliedCoupon) error {
	lines := make([]float64, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, render.Mul(it.UnitPrice, it.Quantity))
	}
	o.Subtotal = render.Sum(lines...)

	if in.ShippingFee < 0 {
		return ErrNegativeShipping
	}
	o.ShippingFee = render.Round2(in.ShippingFee)

	o.Coupon, o.CouponCode = nil, nil
	code := ""
	if in.Coupon != nil {
		code = coupon.NormalizeCode(in.Coupon.Code)
	}

	var discount float64
	switch {
	case code != "" && prev != nil && prev.Code == code:
		discount = prev.DiscountValue
		c, err := database.GetCouponByCode(q, o.StoreID, code)
		if err != nil {
			return err
		}
		if c != nil {
			discount = coupon.Discount(c, o.Subtotal)
		}
	case code != "":
		v, err := coupon.Verify(q, o.StoreID, code, o.Subtotal)
		if err != nil {
			return err
		}
		discount = v.DiscountValue
	default:
		d, err := manualDiscount(o.Subtotal, in.DiscountValue, in.DiscountPercent)
		if err != nil {
			return err
		}
		discount = d
	}
	if discount > o.Subtotal {
		discount = o.Subtotal
	}
	if code != "" {
		o.CouponCode = &code
		o.Coupon = &model.AppliedCoupon{Code: code, DiscountValue: discount}
	}
	o.Discount = discount
	o.Total = render.Sum(o.Subtotal, -o.Discount, o.ShippingFee)
	return nil
}

// couponToCount returns the code whose use counter must be bumped when o
// is saved, or "" when the code did not change.
func couponToCount(o *model.Order, prev *model.AppliedCoupon) string {
	if o.CouponCode == nil {
		return ""
	}
	if prev != nil && strings.EqualFold(prev.Code, *o.CouponCode) {
		return ""
	}
	return *o.CouponCode
}
