// Package report builds the tabular back-office reports and exports them as
// JSON, CSV or PDF.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"doceria/database"
	"doceria/render"
)

const (
	SalesByPeriod    = "vendasPorPeriodo"
	TopProducts      = "produtosMaisVendidos"
	TopCustomers     = "clientesMaisCompram"
	CouponUsage      = "usoCupons"
	LowStock         = "estoqueBaixo"
	SupplyPurchases  = "comprasInsumos"
	RevenueByPayment = "receitaPorPagamento"
	Losses           = "perdas"

	rankingLimit = 20
	dateLayout   = "2006-01-02"
)

var (
	ErrUnknownType  = errors.New("unknown report type")
	ErrInvalidRange = errors.New("invalid date range")
)

// Table is a rendered report. Cells are already formatted for display.
type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Totals  []string   `json:"totals,omitempty"`
	From    string     `json:"from"`
	To      string     `json:"to"`
}

// Types lists every report kind in menu order.
var Types = []string{SalesByPeriod, TopProducts, TopCustomers, CouponUsage, LowStock, SupplyPurchases, RevenueByPayment, Losses}

// Range resolves an inclusive day range. Missing bounds default to the
// first and last day of the month containing now.
func Range(from, to string, now time.Time) (string, string, error) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if from == "" {
		from = first.Format(dateLayout)
	}
	if to == "" {
		to = first.AddDate(0, 1, -1).Format(dateLayout)
	}
	f, err := time.Parse(dateLayout, from)
	if err != nil {
		return "", "", fmt.Errorf("%w: from %q", ErrInvalidRange, from)
	}
	t, err := time.Parse(dateLayout, to)
	if err != nil {
		return "", "", fmt.Errorf("%w: to %q", ErrInvalidRange, to)
	}
	if t.Before(f) {
		return "", "", fmt.Errorf("%w: %s after %s", ErrInvalidRange, from, to)
	}
	return from, to, nil
}

// Build runs the report kind for storeID over [from, to]. lowStock is the
// product stock level under which estoqueBaixo lists a product.
func Build(q database.Querier, storeID, kind, from, to string, lowStock float64) (*Table, error) {
	t := &Table{From: from, To: to, Rows: [][]string{}}
	switch kind {
	case SalesByPeriod:
		rows, err := database.ReportSalesByDay(q, storeID, from, to)
		if err != nil {
			return nil, err
		}
		t.Title = "Vendas por período"
		t.Columns = []string{"Data", "Pedidos", "Total"}
		orders, totals := 0, make([]float64, 0, len(rows))
		for _, r := range rows {
			t.Rows = append(t.Rows, []string{render.ISODate(r.Day), strconv.Itoa(r.Orders), render.BRL(r.Total)})
			orders += r.Orders
			totals = append(totals, r.Total)
		}
		t.Totals = []string{"Total", strconv.Itoa(orders), render.BRL(render.Sum(totals...))}

	case TopProducts:
		rows, err := database.ReportTopProducts(q, storeID, from, to, rankingLimit)
		if err != nil {
			return nil, err
		}
		t.Title = "Produtos mais vendidos"
		t.Columns = []string{"Produto", "Quantidade", "Receita"}
		for _, r := range rows {
			t.Rows = append(t.Rows, []string{r.Name, quantity(r.Quantity), render.BRL(r.Revenue)})
		}

	case TopCustomers:
		rows, err := database.ReportTopCustomers(q, storeID, from, to, rankingLimit)
		if err != nil {
			return nil, err
		}
		t.Title = "Clientes que mais compram"
		t.Columns = []string{"Cliente", "Pedidos", "Total"}
		for _, r := range rows {
			t.Rows = append(t.Rows, []string{r.Name, strconv.Itoa(r.Orders), render.BRL(r.Total)})
		}

	case CouponUsage:
		rows, err := database.ReportCouponUsage(q, storeID, from, to)
		if err != nil {
			return nil, err
		}
		t.Title = "Uso de cupons"
		t.Columns = []string{"Cupom", "Usos", "Desconto concedido"}
		for _, r := range rows {
			t.Rows = append(t.Rows, []string{r.Code, strconv.Itoa(r.Uses), render.BRL(r.Discount)})
		}

	case LowStock:
		rows, err := database.ReportLowStockProducts(q, storeID, lowStock)
		if err != nil {
			return nil, err
		}
		t.Title = "Produtos com estoque baixo"
		t.Columns = []string{"Produto", "Categoria", "Estoque"}
		for _, p := range rows {
			t.Rows = append(t.Rows, []string{p.Name, p.Category, quantity(p.Stock)})
		}

	case SupplyPurchases:
		rows, err := database.ReportSupplyPurchases(q, storeID, from, to)
		if err != nil {
			return nil, err
		}
		t.Title = "Compras de insumos"
		t.Columns = []string{"Insumo", "Unidade", "Quantidade", "Total"}
		totals := make([]float64, 0, len(rows))
		for _, r := range rows {
			t.Rows = append(t.Rows, []string{r.Name, r.Unit, quantity(r.Quantity), render.BRL(r.Total)})
			totals = append(totals, r.Total)
		}
		t.Totals = []string{"Total", "", "", render.BRL(render.Sum(totals...))}

	case RevenueByPayment:
		rows, err := database.ReportRevenueByPayment(q, storeID, from, to)
		if err != nil {
			return nil, err
		}
		t.Title = "Receita por forma de pagamento"
		t.Columns = []string{"Forma de pagamento", "Pedidos", "Total"}
		for _, r := range rows {
			t.Rows = append(t.Rows, []string{r.Method, strconv.Itoa(r.Orders), render.BRL(r.Total)})
		}

	case Losses:
		rows, err := database.ReportLosses(q, storeID, from, to)
		if err != nil {
			return nil, err
		}
		t.Title = "Perdas"
		t.Columns = []string{"Item", "Quantidade", "Custo"}
		totals := make([]float64, 0, len(rows))
		for _, r := range rows {
			t.Rows = append(t.Rows, []string{r.Name, quantity(r.Quantity), render.BRL(r.Cost)})
			totals = append(totals, r.Cost)
		}
		t.Totals = []string{"Total", "", render.BRL(render.Sum(totals...))}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
	return t, nil
}

func quantity(v float64) string {
	return strconv.FormatFloat(render.Round3(v), 'f', -1, 64)
}
