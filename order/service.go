// Package order handles customer orders: totals, numbering, coupon
// redemption and the status workflow.
package order

import (
	"errors"
	"slices"
	"strings"

	"doceria/customer"
	"doceria/database"
	"doceria/mappers"
	"doceria/model"
	"doceria/render"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	OriginManual = "Manual"
	OriginOnline = "Online"

	defaultCategory = "Delivery"
)

// Get returns one order with its items.
func Get(db *sqlx.DB, storeID, id string) (*model.Order, error) {
	o, err := database.GetOrder(db, storeID, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNotFound
	}
	return o, nil
}

// Create registers an order from the back office. A customer of the
// store is required.
func Create(db *sqlx.DB, storeID string, in model.OrderInput) (*model.Order, error) {
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, ErrCustomerRequired
	}
	c, err := customer.Get(db, storeID, in.CustomerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	in.CustomerName, in.CustomerPhone = c.Name, c.Phone
	if in.Origin == "" {
		in.Origin = OriginManual
	}
	return insert(db, storeID, in, false)
}

// Place registers an order sent by the storefront. Item prices come from
// the catalog and the order always starts as Pendente.
func Place(db *sqlx.DB, storeID string, in model.OrderInput) (*model.Order, error) {
	ok, err := database.StoreExists(db, storeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStoreNotFound
	}
	if strings.TrimSpace(in.CustomerID) == "" && strings.TrimSpace(in.CustomerName) == "" {
		return nil, ErrCustomerRequired
	}
	if id := strings.TrimSpace(in.CustomerID); id != "" {
		c, err := database.GetCustomer(db, id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			if strings.TrimSpace(in.CustomerName) == "" {
				in.CustomerName = c.Name
			}
			if strings.TrimSpace(in.CustomerPhone) == "" {
				in.CustomerPhone = c.Phone
			}
		}
	}
	in.Origin = OriginOnline
	in.Status = model.OrderPending
	in.DiscountValue, in.DiscountPercent = 0, 0
	return insert(db, storeID, in, true)
}

func insert(db *sqlx.DB, storeID string, in model.OrderInput, catalogPrices bool) (o *model.Order, err error) {
	now := database.Now()
	created := model.Order{ID: uuid.NewString(), StoreID: storeID, Origin: in.Origin, CreatedAt: now, UpdatedAt: now}
	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		if err := fill(tx, &created, in, catalogPrices, nil); err != nil {
			return err
		}
		number, err := database.NextSequenceInTx(tx, storeID, "pedidos", "P", 6)
		if err != nil {
			return err
		}
		created.Number = number
		if err := database.InsertOrderInTx(tx, created); err != nil {
			return err
		}
		if code := couponToCount(&created, nil); code != "" {
			return database.IncrementCouponUses(tx, storeID, code)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update rewrites an order. Number, origin and creation time are kept.
func Update(db *sqlx.DB, storeID, id string, in model.OrderInput) (before, after *model.Order, err error) {
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, nil, ErrCustomerRequired
	}
	before, err = Get(db, storeID, id)
	if err != nil {
		return nil, nil, err
	}
	in.CustomerName, in.CustomerPhone = before.CustomerName, before.CustomerPhone
	if c, err := customer.Get(db, storeID, in.CustomerID); err == nil {
		in.CustomerName, in.CustomerPhone = c.Name, c.Phone
	} else if !errors.Is(err, customer.ErrNotFound) {
		return nil, nil, err
	} else if in.CustomerID != before.CustomerID {
		return nil, nil, ErrCustomerNotFound
	}

	o := *before
	o.UpdatedAt = database.Now()
	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		if err := fill(tx, &o, in, false, before.Coupon); err != nil {
			return err
		}
		if err := database.UpdateOrderInTx(tx, o); err != nil {
			return err
		}
		if code := couponToCount(&o, before.Coupon); code != "" {
			return database.IncrementCouponUses(tx, storeID, code)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return before, &o, nil
}

// fill validates in and copies it onto o, resolving items against the
// catalog and computing totals.
func fill(tx *sqlx.Tx, o *model.Order, in model.OrderInput, catalogPrices bool, prev *model.AppliedCoupon) error {
	if len(in.Items) == 0 {
		return ErrNoItems
	}
	status := in.Status
	if status == "" {
		status = model.OrderPending
	}
	if !slices.Contains(model.OrderStatuses, status) {
		return ErrInvalidStatus
	}

	items := make([]model.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		it.Name = strings.TrimSpace(it.Name)
		if !(it.Quantity > 0) || it.UnitPrice < 0 {
			return ErrInvalidItem
		}
		var p *model.Product
		if it.ProductID != "" {
			var err error
			if p, err = database.GetProduct(tx, o.StoreID, it.ProductID); err != nil {
				return err
			}
		}
		if catalogPrices {
			if p == nil || p.Status != model.ProductActive {
				return ErrUnknownProduct
			}
			it.Name, it.UnitPrice = "", 0
		}
		mappers.FillOrderItem(&it, p)
		if it.Name == "" {
			return ErrInvalidItem
		}
		items = append(items, it)
	}

	o.Items = items
	o.CustomerID = strings.TrimSpace(in.CustomerID)
	o.CustomerName = strings.TrimSpace(in.CustomerName)
	o.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	o.Status = status
	o.Category = in.Category
	if o.Category == "" {
		o.Category = defaultCategory
	}
	o.DeliveryDate = in.DeliveryDate
	o.DeliveryAddr = strings.TrimSpace(in.DeliveryAddr)
	o.PaymentMethod = in.PaymentMethod
	o.Notes = strings.TrimSpace(in.Notes)
	return applyTotals(tx, o, in, prev)
}

// SetStatus moves an order along the workflow.
func SetStatus(db *sqlx.DB, storeID, id, status string) (*model.Order, error) {
	if !slices.Contains(model.OrderStatuses, status) {
		return nil, ErrInvalidStatus
	}
	if _, err := Get(db, storeID, id); err != nil {
		return nil, err
	}
	if err := database.UpdateOrderStatus(db, storeID, id, status); err != nil {
		return nil, err
	}
	return Get(db, storeID, id)
}

func Delete(db *sqlx.DB, storeID, id string) error {
	if _, err := Get(db, storeID, id); err != nil {
		return err
	}
	return database.DeleteOrder(db, storeID, id)
}

// List returns the store's orders newest first. Customer names are taken
// from the customer records when the customer still exists; Search matches
// the customer name, the order ID or its number.
func List(db *sqlx.DB, storeID string, f model.OrderFilter) ([]model.Order, error) {
	status := f.Status
	if status == "Todos" {
		status = ""
	}
	orders, err := database.GetOrders(db, storeID, f.From, f.To, status)
	if err != nil {
		return nil, err
	}
	if err := resolveNames(db, storeID, orders); err != nil {
		return nil, err
	}
	if strings.TrimSpace(f.Search) == "" {
		return orders, nil
	}
	filtered := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if render.MatchFolded(f.Search, o.CustomerName, o.ID, o.Number) {
			filtered = append(filtered, o)
		}
	}
	return filtered, nil
}

// Active returns orders still in the workflow, oldest first.
func Active(db *sqlx.DB, storeID string) ([]model.Order, error) {
	orders, err := database.GetActiveOrders(db, storeID)
	if err != nil {
		return nil, err
	}
	if err := resolveNames(db, storeID, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func resolveNames(q database.Querier, storeID string, orders []model.Order) error {
	names, err := database.GetCustomerNameMap(q, storeID)
	if err != nil {
		return err
	}
	for i := range orders {
		o := &orders[i]
		if name, ok := names[o.CustomerID]; ok {
			o.CustomerName = name
		} else if o.CustomerName == "" {
			o.CustomerName = "Cliente não encontrado"
		}
	}
	return nil
}
