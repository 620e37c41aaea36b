package lookup

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// LoadTable reads a grid table from a CSV file. The first row holds the
// velocity axis (its first cell is ignored); each following row holds a
// slip value followed by the grid values for that slip. Lines starting
// with '#' are comments.
func LoadTable(path string) (*Table, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 3 {
		return nil, fmt.Errorf("lookup: %s: expected a header row and at least two slip rows", path)
	}

	vels, err := parseFloats(path, rows[0][1:])
	if err != nil {
		return nil, err
	}

	slips := make([]float64, 0, len(rows)-1)
	vals := make([][]float64, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(vels)+1 {
			return nil, fmt.Errorf("lookup: %s: row has %d cells, want %d", path, len(row), len(vels)+1)
		}
		s, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("lookup: %s: bad slip value %q: %w", path, row[0], err)
		}
		v, err := parseFloats(path, row[1:])
		if err != nil {
			return nil, err
		}
		slips = append(slips, s)
		vals = append(vals, v)
	}

	return NewTable(slips, vels, vals)
}

// LoadSlipCurve reads a velocity -> optimal slip curve from a two-column
// CSV file (velocity, slip per row).
func LoadSlipCurve(path string) (*SlipCurve, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	vels := make([]float64, 0, len(rows))
	slips := make([]float64, 0, len(rows))
	for _, row := range rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("lookup: %s: expected two columns, got %d", path, len(row))
		}
		pair, err := parseFloats(path, row)
		if err != nil {
			return nil, err
		}
		vels = append(vels, pair[0])
		slips = append(slips, pair[1])
	}

	return NewSlipCurve(vels, slips)
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comment = '#'
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("lookup: reading %s: %w", path, err)
	}
	return rows, nil
}

func parseFloats(path string, cells []string) ([]float64, error) {
	out := make([]float64, len(cells))
	for i, c := range cells {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, fmt.Errorf("lookup: %s: bad value %q: %w", path, c, err)
		}
		out[i] = v
	}
	return out, nil
}
