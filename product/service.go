// Package product manages each store's sales catalog.
package product

import (
	"fmt"
	"io"
	"strings"

	"doceria/database"
	"doceria/mappers"
	"doceria/model"
	"doceria/parsers"
	"doceria/render"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Input holds the editable fields of a product.
type Input struct {
	Name        string  `json:"nome"`
	Category    string  `json:"categoria"`
	Description string  `json:"descricao"`
	Price       float64 `json:"preco"`
	Cost        float64 `json:"custo"`
	Stock       float64 `json:"estoque"`
	Status      string  `json:"status"`
	PrepTime    string  `json:"tempoPreparo"`
	ImageURL    string  `json:"imagemUrl"`
}

func (in *Input) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" {
		return ErrNameRequired
	}
	if in.Price < 0 || in.Cost < 0 {
		return ErrInvalidPrice
	}
	if in.Status == "" {
		in.Status = model.ProductActive
	}
	if in.Status != model.ProductActive && in.Status != model.ProductInactive {
		return ErrInvalidStatus
	}
	// direct edits never leave negative stock behind
	if in.Stock < 0 {
		in.Stock = 0
	}
	return nil
}

func (in Input) applyTo(p *model.Product) {
	p.Name = in.Name
	p.Category = in.Category
	p.Description = in.Description
	p.Price = in.Price
	p.Cost = in.Cost
	p.Stock = in.Stock
	p.Status = in.Status
	p.PrepTime = in.PrepTime
	p.ImageURL = in.ImageURL
}

// ListActive is the storefront catalog.
func ListActive(db *sqlx.DB, storeID string) ([]model.Product, error) {
	return database.GetProducts(db, storeID, model.ProductActive)
}

// List filters the catalog by a name/category fragment and status.
func List(db *sqlx.DB, storeID, query, status string, lowStockThreshold float64) ([]model.ProductView, error) {
	products, err := database.GetProducts(db, storeID, status)
	if err != nil {
		return nil, err
	}
	matched := products[:0]
	for _, p := range products {
		if render.MatchFolded(query, p.Name, p.Category) {
			matched = append(matched, p)
		}
	}
	return mappers.ToProductViews(matched, lowStockThreshold), nil
}

func Get(db *sqlx.DB, storeID, id string) (*model.Product, error) {
	p, err := database.GetProduct(db, storeID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func Create(db *sqlx.DB, storeID string, in Input) (*model.Product, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	now := database.Now()
	p := model.Product{ID: uuid.NewString(), StoreID: storeID, CreatedAt: now, UpdatedAt: now}
	in.applyTo(&p)
	if err := database.InsertProduct(db, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the editable fields and returns the previous and new
// versions.
func Update(db *sqlx.DB, storeID, id string, in Input) (before, after *model.Product, err error) {
	if err := in.normalize(); err != nil {
		return nil, nil, err
	}
	before, err = Get(db, storeID, id)
	if err != nil {
		return nil, nil, err
	}
	p := *before
	in.applyTo(&p)
	p.UpdatedAt = database.Now()
	if err := database.UpdateProduct(db, p); err != nil {
		return nil, nil, err
	}
	return before, &p, nil
}

func Delete(db *sqlx.DB, storeID, id string) error {
	if _, err := Get(db, storeID, id); err != nil {
		return err
	}
	return database.DeleteProduct(db, storeID, id)
}

// Stats summarizes the whole catalog: active count, products under the
// low-stock threshold and stock value at sale price.
func Stats(db *sqlx.DB, storeID string, lowStockThreshold float64) (model.ProductStats, error) {
	products, err := database.GetProducts(db, storeID, "")
	if err != nil {
		return model.ProductStats{}, err
	}
	stats := model.ProductStats{Total: len(products)}
	values := make([]float64, 0, len(products))
	for _, p := range products {
		if p.Status == model.ProductActive {
			stats.Active++
		}
		if p.Stock < lowStockThreshold {
			stats.LowStock++
		}
		values = append(values, render.Mul(p.Price, p.Stock))
	}
	stats.TotalValue = render.Sum(values...)
	return stats, nil
}

// ImportResult summarizes a catalog import.
type ImportResult struct {
	Created int `json:"criados"`
	Updated int `json:"atualizados"`
}

// Import loads a catalog spreadsheet. Products are matched by name within
// the store, ignoring case.
func Import(db *sqlx.DB, storeID string, r io.Reader, charset string) (*ImportResult, error) {
	records, err := parsers.ParseProductCSV(r, charset)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("o CSV não contém produtos")
	}
	res := &ImportResult{}
	err = database.WithTx(db, func(tx *sqlx.Tx) error {
		now := database.Now()
		for _, rec := range records {
			in := Input{
				Name:        rec.Name,
				Category:    rec.Category,
				Description: rec.Description,
				Price:       rec.Price,
				Cost:        rec.Cost,
				Stock:       rec.Stock,
				Status:      rec.Status,
			}
			if err := in.normalize(); err != nil {
				return fmt.Errorf("%s: %w", rec.Name, err)
			}
			p := model.Product{ID: uuid.NewString(), StoreID: storeID, CreatedAt: now, UpdatedAt: now}
			in.applyTo(&p)
			created, err := database.UpsertProductByNameInTx(tx, p)
			if err != nil {
				return err
			}
			if created {
				res.Created++
			} else {
				res.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
