package dataloader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// NaiveCSV is a simple type for loading delimited files of numbers. The first
// record holds the column names (quotes around them are removed), every
// following record must have the same number of numeric fields.
type NaiveCSV struct {
	// Field separator, defaults to ','.
	Delimiter rune
}

// ReadTable reads a whole file. It returns an error wrapping ErrEmpty if the
// file has no data rows and a *ParseError if it is corrupt.
func (c *NaiveCSV) ReadTable(filename string) (*Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return c.read(bufio.NewReader(f), filename)
}

func (c *NaiveCSV) read(r io.Reader, filename string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = c.delimiter()
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmpty)
	}
	if err != nil {
		return nil, csvError(filename, err)
	}

	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.Trim(strings.TrimSpace(h), `"`)
		if seen[name] {
			return nil, &ParseError{Path: filename, Line: 1, Err: fmt.Errorf("duplicate field %q", name)}
		}
		seen[name] = true
		columns[i] = name
	}

	t := NewTable(columns)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(filename, err)
		}
		row := make([]float64, len(record))
		for i, s := range record {
			row[i], err = strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				line, _ := reader.FieldPos(i)
				return nil, &ParseError{Path: filename, Line: line, Err: fmt.Errorf("field %s: %w", columns[i], err)}
			}
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmpty)
	}
	return t, nil
}

func (c *NaiveCSV) delimiter() rune {
	if c == nil || c.Delimiter == 0 {
		return ','
	}
	return c.Delimiter
}

func csvError(filename string, err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &ParseError{Path: filename, Line: perr.Line, Err: perr.Err}
	}
	return &ParseError{Path: filename, Err: err}
}
