package scoring

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const idColumn = "ID"

// Dataset holds feature rows keyed by customer ID, in Features order.
type Dataset struct {
	rows map[int][]float64
}

func (d *Dataset) Len() int { return len(d.rows) }

func (d *Dataset) Row(id int) ([]float64, bool) {
	row, ok := d.rows[id]
	return row, ok
}

// LoadDataset reads a .csv or .xlsx file; the format follows the extension.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scoring: open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(f)
	default:
		return nil, fmt.Errorf("scoring: unsupported dataset format %q", filepath.Ext(path))
	}
}

func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("scoring: read csv: %w", err)
	}
	return fromRecords(records)
}

// ReadXLSX reads the first sheet of a workbook.
func ReadXLSX(r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("scoring: open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("scoring: xlsx has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("scoring: read xlsx sheet %q: %w", sheets[0], err)
	}
	return fromRecords(records)
}

func fromRecords(records [][]string) (*Dataset, error) {
	if len(records) == 0 {
		return nil, errors.New("scoring: dataset is empty")
	}
	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.TrimSpace(name)] = i
	}
	idIdx, ok := columns[idColumn]
	if !ok {
		return nil, fmt.Errorf("scoring: dataset missing %q column", idColumn)
	}
	featIdx := make([]int, len(Features))
	for i, name := range Features {
		idx, ok := columns[name]
		if !ok {
			return nil, fmt.Errorf("scoring: dataset missing %q column", name)
		}
		featIdx[i] = idx
	}

	d := &Dataset{rows: make(map[int][]float64, len(records)-1)}
	for line, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(cell(rec, idIdx)))
		if err != nil {
			return nil, fmt.Errorf("scoring: row %d: parse ID: %w", line+2, err)
		}
		row := make([]float64, len(Features))
		for i, idx := range featIdx {
			v, err := parseFeature(cell(rec, idx))
			if err != nil {
				return nil, fmt.Errorf("scoring: row %d: column %q: %w", line+2, Features[i], err)
			}
			row[i] = v
		}
		// first occurrence wins for duplicate IDs
		if _, dup := d.rows[id]; !dup {
			d.rows[id] = row
		}
	}
	return d, nil
}

func cell(rec []string, idx int) string {
	if idx < len(rec) {
		return rec[idx]
	}
	return ""
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseFeature(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "yes", "true":
		return 1, nil
	case "no", "false":
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}
