package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadRaw reads a results table from path. Files ending in .xlsx are read
// from their first worksheet, everything else is parsed as CSV. Any read
// failure is returned as a *LoadError.
func LoadRaw(path string) (*RawTable, error) {
	var (
		raw *RawTable
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		raw, err = loadXLSX(path)
	default:
		raw, err = loadCSV(path)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(raw.Records) == 0 {
		return nil, &LoadError{Path: path, Err: errors.New("table has a header but no data rows")}
	}
	return raw, nil
}

func loadCSV(path string) (*RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return readCSV(path, file)
}

func readCSV(path string, r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	// Every data row must have as many fields as the header.
	reader.FieldsPerRecord = len(header)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	return &RawTable{Path: path, Header: cleanHeader(header), Records: records}, nil
}

func loadXLSX(path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var header []string
	var records [][]string
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if header == nil {
			header = cleanHeader(row)
			continue
		}
		if len(row) > len(header) {
			return nil, fmt.Errorf("sheet %q: row with %d cells exceeds %d header columns", sheets[0], len(row), len(header))
		}
		// GetRows drops trailing empty cells.
		padded := make([]string, len(header))
		copy(padded, row)
		records = append(records, padded)
	}
	if header == nil {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}
	return &RawTable{Path: path, Header: header, Records: records}, nil
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
