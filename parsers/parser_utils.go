package parsers

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Spreadsheets exported on Windows in Brazil are usually Windows-1252.
var charsets = map[string]encoding.Encoding{
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
}

// SkipBOM skips a leading UTF-8 BOM.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	peeked, err := br.Peek(3)
	if err == nil && bytes.Equal(peeked, []byte{0xEF, 0xBB, 0xBF}) {
		br.Discard(3)
	}
	return br
}

// NewReader wraps r in a lenient CSV reader, decoding from charset first
// when it is not UTF-8. Semicolon-separated files are detected from the
// header line.
func NewReader(r io.Reader, charset string) (*csv.Reader, error) {
	r = SkipBOM(r)
	name := strings.ToLower(strings.TrimSpace(charset))
	if name != "" && name != "utf-8" && name != "utf8" {
		enc, ok := charsets[name]
		if !ok {
			return nil, fmt.Errorf("charset não suportado: %q", charset)
		}
		r = transform.NewReader(r, enc.NewDecoder())
	}

	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler o CSV: %w", err)
	}
	firstLine := buf
	if i := bytes.IndexByte(buf, '\n'); i >= 0 {
		firstLine = buf[:i]
	}
	reader := csv.NewReader(bytes.NewReader(buf))
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		reader.Comma = ';'
	}
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader, nil
}

// readHeader reads the first record and indexes it. Header names are
// matched case-insensitively; each required column may be given under any
// of its aliases.
func readHeader(reader *csv.Reader, aliases map[string][]string, required []string) (map[string]int, error) {
	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("o arquivo CSV está vazio")
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao ler o cabeçalho do CSV: %w", err)
	}
	return getColIndex(header, aliases, required)
}

func getColIndex(header []string, aliases map[string][]string, required []string) (map[string]int, error) {
	raw := make(map[string]int, len(header))
	for i, colName := range header {
		raw[strings.ToLower(strings.TrimSpace(colName))] = i
	}
	colIndex := make(map[string]int)
	for key, names := range aliases {
		for _, n := range names {
			if i, ok := raw[n]; ok {
				colIndex[key] = i
				break
			}
		}
	}
	for _, req := range required {
		if _, ok := colIndex[req]; !ok {
			return nil, fmt.Errorf("cabeçalho obrigatório não encontrado: %s", req)
		}
	}
	return colIndex, nil
}

func field(rec []string, colIndex map[string]int, key string) string {
	if idx, ok := colIndex[key]; ok && idx < len(rec) {
		return strings.TrimSpace(rec[idx])
	}
	return ""
}

// ParseNumber reads both "1.234,56" and "1234.56". Currency symbols and
// spaces are ignored. Empty input is zero.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("número inválido %q", s)
	}
	return d.InexactFloat64(), nil
}
