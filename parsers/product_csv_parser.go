package parsers

import (
	"io"
	"log"

	"doceria/model"
)

type ParsedProductCSVRecord struct {
	Name        string
	Category    string
	Description string
	Price       float64
	Cost        float64
	Stock       float64
	Status      string
}

var productColumns = map[string][]string{
	"name":        {"name", "nome", "produto"},
	"category":    {"category", "categoria"},
	"description": {"description", "descricao", "descrição"},
	"price":       {"price", "preco", "preço", "valor"},
	"cost":        {"cost", "custo"},
	"stock":       {"stock", "estoque", "quantidade"},
	"status":      {"status"},
}

// ParseProductCSV reads the product catalog. Name and price are required;
// a missing status defaults to Ativo.
func ParseProductCSV(r io.Reader, charset string) ([]ParsedProductCSVRecord, error) {
	reader, err := NewReader(r, charset)
	if err != nil {
		return nil, err
	}
	colIndex, err := readHeader(reader, productColumns, []string{"name", "price"})
	if err != nil {
		return nil, err
	}

	var records []ParsedProductCSVRecord
	line := 1
	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("WARN: CSV de produtos, linha %d ilegível (ignorada): %v", line, err)
			continue
		}
		name := field(rec, colIndex, "name")
		if name == "" {
			continue
		}
		price, err := ParseNumber(field(rec, colIndex, "price"))
		if err != nil {
			log.Printf("WARN: CSV de produtos, linha %d: %v (ignorada)", line, err)
			continue
		}
		cost, _ := ParseNumber(field(rec, colIndex, "cost"))
		stock, _ := ParseNumber(field(rec, colIndex, "stock"))
		status := field(rec, colIndex, "status")
		if status == "" {
			status = model.ProductActive
		}
		records = append(records, ParsedProductCSVRecord{
			Name:        name,
			Category:    field(rec, colIndex, "category"),
			Description: field(rec, colIndex, "description"),
			Price:       price,
			Cost:        cost,
			Stock:       stock,
			Status:      status,
		})
	}
	return records, nil
}
