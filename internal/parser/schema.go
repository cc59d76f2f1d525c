package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Column names shared by every variant.
const (
	ModulationColumn = "Modulation"
	BERColumn        = "BER"
)

// RequiredColumns returns the columns a table indexed by xColumn must carry.
func RequiredColumns(xColumn string) []string {
	return []string{ModulationColumn, xColumn, BERColumn}
}

// ValidateSchema checks that every required column is present in the header
// and returns the index of each. Missing columns yield a *SchemaError.
func ValidateSchema(raw *RawTable, required []string) (map[string]int, error) {
	missing := lo.Without(required, raw.Header...)
	if len(missing) > 0 {
		return nil, &SchemaError{
			Required: append([]string(nil), required...),
			Found:    append([]string(nil), raw.Header...),
			Missing:  missing,
		}
	}

	index := make(map[string]int, len(required))
	for _, col := range required {
		index[col] = lo.IndexOf(raw.Header, col)
	}
	return index, nil
}

// Parse validates raw against the columns of the xColumn variant and converts
// its rows. A row whose values cannot be used is a *LoadError: the table is
// rejected as a whole rather than rendered partially.
func Parse(raw *RawTable, xColumn string) (*ResultsTable, error) {
	index, err := ValidateSchema(raw, RequiredColumns(xColumn))
	if err != nil {
		return nil, err
	}
	modIdx, xIdx, berIdx := index[ModulationColumn], index[xColumn], index[BERColumn]

	table := &ResultsTable{
		Path:    raw.Path,
		XColumn: xColumn,
		Rows:    make([]Row, 0, len(raw.Records)),
	}
	for i, rec := range raw.Records {
		rowErr := func(err error) error {
			return &LoadError{Path: raw.Path, Row: i + 1, Err: err}
		}

		mod := strings.TrimSpace(rec[modIdx])
		if mod == "" {
			return nil, rowErr(errors.New("empty Modulation"))
		}
		x, err := parseFinite(rec[xIdx])
		if err != nil {
			return nil, rowErr(fmt.Errorf("column %s: %w", xColumn, err))
		}
		ber, err := parseFinite(rec[berIdx])
		if err != nil {
			return nil, rowErr(fmt.Errorf("column %s: %w", BERColumn, err))
		}
		if ber < 0 {
			return nil, rowErr(fmt.Errorf("column %s: negative error rate %g", BERColumn, ber))
		}
		table.Rows = append(table.Rows, Row{Modulation: mod, X: x, BER: ber})
	}
	return table, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}
