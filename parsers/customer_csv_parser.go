package parsers

import (
	"io"
	"log"
	"strings"

	"doceria/model"
)

// ParsedCustomerCSVRecord is one row of a customer spreadsheet.
type ParsedCustomerCSVRecord struct {
	Name    string
	Phone   string
	Email   string
	Address *model.Address
}

var customerColumns = map[string][]string{
	"name":     {"name", "nome", "cliente"},
	"phone":    {"phone", "telefone", "celular", "whatsapp"},
	"email":    {"email", "e-mail"},
	"address":  {"address", "endereco", "endereço", "rua"},
	"number":   {"numero", "número"},
	"district": {"bairro"},
	"city":     {"cidade"},
}

// ParseCustomerCSV reads name, phone, email and address columns. Rows
// without a name are skipped.
func ParseCustomerCSV(r io.Reader, charset string) ([]ParsedCustomerCSVRecord, error) {
	reader, err := NewReader(r, charset)
	if err != nil {
		return nil, err
	}
	colIndex, err := readHeader(reader, customerColumns, []string{"name"})
	if err != nil {
		return nil, err
	}

	var records []ParsedCustomerCSVRecord
	line := 1
	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("WARN: CSV de clientes, linha %d ilegível (ignorada): %v", line, err)
			continue
		}
		name := field(rec, colIndex, "name")
		if name == "" {
			log.Printf("WARN: CSV de clientes, linha %d sem nome (ignorada)", line)
			continue
		}
		out := ParsedCustomerCSVRecord{
			Name:  name,
			Phone: field(rec, colIndex, "phone"),
			Email: strings.ToLower(field(rec, colIndex, "email")),
		}
		addr := model.Address{
			Street:   field(rec, colIndex, "address"),
			Number:   field(rec, colIndex, "number"),
			District: field(rec, colIndex, "district"),
			City:     field(rec, colIndex, "city"),
		}
		if addr != (model.Address{}) {
			out.Address = &addr
		}
		records = append(records, out)
	}
	return records, nil
}
