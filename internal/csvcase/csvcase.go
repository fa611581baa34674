// Package csvcase turns header-mapped CSV rows into test cases.
// Cell text passes through the restricted literal grammar; rows are
// data, never expressions.
package csvcase

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/unbound-force/forge/internal/literal"
	"github.com/unbound-force/forge/internal/record"
)

// ErrColumnCount reports a mapping that names a column the header
// row does not have.
var ErrColumnCount = errors.New("mapped column not present in header")

// Mapping binds CSV columns to one callable's parameters and,
// optionally, its expected output or error kind. Inputs are column
// names in parameter order.
type Mapping struct {
	Callable string
	Inputs   []string
	Output   string
	ErrKind  string
}

// Read parses CSV from r and converts each data row into a
// TestCase per the mapping. The first row is the header. A row
// whose mapped cell fails the literal grammar aborts the import
// with the row number in the error.
func Read(r io.Reader, m Mapping) ([]record.TestCase, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header row: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}

	idx := func(name string) (int, error) {
		i, ok := col[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrColumnCount, name)
		}
		return i, nil
	}

	inputIdx := make([]int, len(m.Inputs))
	for i, name := range m.Inputs {
		if inputIdx[i], err = idx(name); err != nil {
			return nil, err
		}
	}
	outputIdx, errKindIdx := -1, -1
	if m.Output != "" {
		if outputIdx, err = idx(m.Output); err != nil {
			return nil, err
		}
	}
	if m.ErrKind != "" {
		if errKindIdx, err = idx(m.ErrKind); err != nil {
			return nil, err
		}
	}

	var cases []record.TestCase
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		cell := func(i int) (string, error) {
			if i >= len(rec) {
				return "", fmt.Errorf("row %d: %w (index %d)", row, ErrColumnCount, i)
			}
			return rec[i], nil
		}

		tc := record.TestCase{
			Desc: fmt.Sprintf("imported %s row %d", m.Callable, row),
		}
		for _, i := range inputIdx {
			text, err := cell(i)
			if err != nil {
				return nil, err
			}
			v, err := literal.Parse(text)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", row, header[i], err)
			}
			tc.Inputs = append(tc.Inputs, v)
		}
		if errKindIdx >= 0 {
			kind, err := cell(errKindIdx)
			if err != nil {
				return nil, err
			}
			tc.ErrKind = kind
		}
		if tc.ErrKind == "" && outputIdx >= 0 {
			text, err := cell(outputIdx)
			if err != nil {
				return nil, err
			}
			if text != "" {
				v, err := literal.Parse(text)
				if err != nil {
					return nil, fmt.Errorf("row %d column %q: %w", row, header[outputIdx], err)
				}
				tc.Outputs = []any{v}
			}
		}
		cases = append(cases, tc)
	}
	return cases, nil
}
