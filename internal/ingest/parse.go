package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var errNoHeader = errors.New("missing header row")

// utf8BOM is stripped from the start of a file; spreadsheet exports add it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a parsed statistics file. Rows keep file order.
type Table struct {
	Header []string
	Rows   []Row
}

// Row is one data row with cell values keyed by header name.
type Row struct {
	// Line is the 1-based line number in the source file.
	Line   int
	fields map[string]string
}

// NewRow builds a Row from header/value pairs. Used by tests and generators.
func NewRow(line int, fields map[string]string) Row {
	return Row{Line: line, fields: fields}
}

// Get returns the trimmed cell for col and whether the column exists and is
// non-empty.
func (r Row) Get(col string) (string, bool) {
	v, ok := r.fields[col]
	return v, ok && v != ""
}

// Float coerces the cell for col to a finite float64. It reports false for
// missing, blank, or non-numeric cells.
func (r Row) Float(col string) (float64, bool) {
	v, ok := r.Get(col)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int coerces the cell for col to an integer. Cells such as "8.0" are
// accepted when they hold a whole number.
func (r Row) Int(col string) (int, bool) {
	v, ok := r.Get(col)
	if !ok {
		return 0, false
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	f, ok := r.Float(col)
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}

// Parse reads comma-delimited text with a header row. Blank lines are
// skipped and every cell is trimmed. Rows whose field count differs from the
// header's are rejected.
func Parse(src io.Reader) (*Table, error) {
	br := bufio.NewReader(src)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && string(prefix) == string(utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var t Table
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if blank(record) {
			continue
		}
		line, _ := cr.FieldPos(0)

		if t.Header == nil {
			t.Header = trimAll(record)
			continue
		}
		if len(record) != len(t.Header) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", line, len(t.Header), len(record))
		}

		fields := make(map[string]string, len(t.Header))
		for i, h := range t.Header {
			fields[h] = strings.TrimSpace(record[i])
		}
		t.Rows = append(t.Rows, Row{Line: line, fields: fields})
	}

	if t.Header == nil {
		return nil, errNoHeader
	}
	return &t, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func trimAll(record []string) []string {
	out := make([]string, len(record))
	for i, v := range record {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
