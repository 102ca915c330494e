package report

import (
	"bytes"
	"io"
	"strings"

	"doceria/render"

	"github.com/jung-kurt/gofpdf"
)

func quoteAll(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func csvLine(buf *bytes.Buffer, cells []string) {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = quoteAll(c)
	}
	buf.WriteString(strings.Join(quoted, ",") + "\r\n")
}

// WriteCSV renders t as a BOM-prefixed CSV spreadsheet.
func WriteCSV(buf *bytes.Buffer, t *Table) {
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	csvLine(buf, t.Columns)
	for _, row := range t.Rows {
		csvLine(buf, row)
	}
	if len(t.Totals) > 0 {
		csvLine(buf, t.Totals)
	}
}

// WritePDF renders t as an A4 table. storeName heads the page.
func WritePDF(w io.Writer, t *Table, storeName string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(t.Title, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(t.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	if storeName != "" {
		pdf.CellFormat(0, 7, tr(storeName), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 7, tr("Período: "+render.ISODate(t.From)+" a "+render.ISODate(t.To)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(t.Columns))

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	for _, c := range t.Columns {
		pdf.CellFormat(colW, 8, tr(c), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	if len(t.Rows) == 0 {
		pdf.CellFormat(colW*float64(len(t.Columns)), 8, tr("Nenhum registro no período."), "1", 1, "C", false, 0, "")
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			align := "L"
			if i > 0 {
				align = "R"
			}
			pdf.CellFormat(colW, 7, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(t.Totals) > 0 {
		pdf.SetFont("Arial", "B", 10)
		for i, cell := range t.Totals {
			align := "L"
			if i > 0 {
				align = "R"
			}
			pdf.CellFormat(colW, 7, tr(cell), "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}
