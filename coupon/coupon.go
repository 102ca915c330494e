// Package coupon manages discount coupons and validates them against a
// cart total.
package coupon

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"doceria/database"
	"doceria/model"
	"doceria/render"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Verified is a coupon together with the discount it grants on the cart
// it was checked against.
type Verified struct {
	model.Coupon
	DiscountValue float64 `json:"valorDesconto"`
}

// NormalizeCode trims and upper-cases a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Verify checks code against cartTotal in the order: existence, status,
// expiry, usage limit, minimum order. Failures are *Rejection values.
func Verify(q database.Querier, storeID, code string, cartTotal float64) (*Verified, error) {
	c, err := database.GetCouponByCode(q, storeID, NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, reject(ErrNotFound, http.StatusNotFound, "Cupom não encontrado.")
	}
	if c.Status != model.CouponActive {
		return nil, reject(ErrInactive, http.StatusBadRequest, "Este cupom não está ativo.")
	}
	if c.ValidUntil != "" && c.ValidUntil < database.Today() {
		return nil, reject(ErrExpired, http.StatusBadRequest, "Este cupom expirou.")
	}
	if c.UsageLimit > 0 && c.Uses >= c.UsageLimit {
		return nil, reject(ErrUsageLimit, http.StatusBadRequest, "Este cupom atingiu o limite de usos.")
	}
	if c.MinOrder > 0 && cartTotal < c.MinOrder {
		return nil, reject(ErrMinimumOrder, http.StatusBadRequest,
			fmt.Sprintf("O pedido mínimo para este cupom é de R$ %s.", render.Fixed2(c.MinOrder)))
	}
	return &Verified{Coupon: *c, DiscountValue: Discount(c, cartTotal)}, nil
}

// Discount is the percentage of total or the fixed value, rounded to cents.
func Discount(c *model.Coupon, total float64) float64 {
	if c.DiscountType == model.DiscountPercent {
		return render.Percent(total, c.Value)
	}
	return render.Round2(c.Value)
}

// Input holds the editable fields of a coupon.
type Input struct {
	Code         string  `json:"codigo"`
	Description  string  `json:"descricao"`
	Status       string  `json:"status"`
	DiscountType string  `json:"tipoDesconto"`
	Value        float64 `json:"valor"`
	MinOrder     float64 `json:"valorMinimo"`
	UsageLimit   int     `json:"limiteUso"`
	ValidUntil   string  `json:"validade"`
}

func (in *Input) normalize() error {
	in.Code = NormalizeCode(in.Code)
	if in.Code == "" {
		return ErrCodeRequired
	}
	if in.Status == "" {
		in.Status = model.CouponActive
	}
	if in.DiscountType == "" {
		in.DiscountType = model.DiscountPercent
	}
	if in.DiscountType != model.DiscountPercent && in.DiscountType != model.DiscountFixed {
		return ErrInvalidType
	}
	if !(in.Value > 0) || in.MinOrder < 0 || in.UsageLimit < 0 {
		return ErrInvalidValue
	}
	if in.DiscountType == model.DiscountPercent && in.Value > 100 {
		return ErrInvalidValue
	}
	in.ValidUntil = strings.TrimSpace(in.ValidUntil)
	if in.ValidUntil != "" {
		if _, err := time.Parse("2006-01-02", in.ValidUntil); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

func (in Input) applyTo(c *model.Coupon) {
	c.Code = in.Code
	c.Description = strings.TrimSpace(in.Description)
	c.Status = in.Status
	c.DiscountType = in.DiscountType
	c.Value = in.Value
	c.MinOrder = in.MinOrder
	c.UsageLimit = in.UsageLimit
	c.ValidUntil = in.ValidUntil
}

func List(db *sqlx.DB, storeID string) ([]model.Coupon, error) {
	return database.GetCoupons(db, storeID)
}

func Create(db *sqlx.DB, storeID string, in Input) (*model.Coupon, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if err := ensureUnique(db, storeID, in.Code, ""); err != nil {
		return nil, err
	}
	c := model.Coupon{ID: uuid.NewString(), StoreID: storeID, CreatedAt: database.Now()}
	in.applyTo(&c)
	if err := database.InsertCoupon(db, c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update rewrites the coupon's fields. The use counter is kept.
func Update(db *sqlx.DB, storeID, id string, in Input) (before, after *model.Coupon, err error) {
	if err := in.normalize(); err != nil {
		return nil, nil, err
	}
	before, err = database.GetCoupon(db, storeID, id)
	if err != nil {
		return nil, nil, err
	}
	if before == nil {
		return nil, nil, ErrNotFound
	}
	if err := ensureUnique(db, storeID, in.Code, id); err != nil {
		return nil, nil, err
	}
	c := *before
	in.applyTo(&c)
	if err := database.UpdateCoupon(db, c); err != nil {
		return nil, nil, err
	}
	return before, &c, nil
}

func Delete(db *sqlx.DB, storeID, id string) error {
	c, err := database.GetCoupon(db, storeID, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound
	}
	return database.DeleteCoupon(db, storeID, id)
}

func ensureUnique(q database.Querier, storeID, code, selfID string) error {
	existing, err := database.GetCouponByCode(q, storeID, code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return ErrDuplicateCode
	}
	return nil
}
