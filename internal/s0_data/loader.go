package s0_data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/wonny/outperform/internal/contracts"
)

// missingTokens are the spellings of "no value" written by the data provider
var missingTokens = map[string]struct{}{
	"":     {},
	"N/A":  {},
	"NA":   {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"-":    {},
}

// ReadCSV loads a feature table from a CSV file
// ⭐ SSOT: 피처 테이블 파싱은 여기서만
func ReadCSV(path string) (*contracts.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &contracts.UpstreamDataError{Source: path, Err: err}
	}
	defer f.Close()

	return ReadCSVFrom(f, path)
}

// ReadCSVFrom loads a feature table from r; name is used in errors
func ReadCSVFrom(r io.Reader, name string) (*contracts.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &contracts.UpstreamDataError{Source: name, Err: errors.New("missing header row")}
	}
	if err != nil {
		return nil, &contracts.UpstreamDataError{Source: name, Line: 1, Err: err}
	}

	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	// pandas writes an unnamed index column as an empty header
	if len(header) > 0 && header[0] == "" {
		header[0] = "index"
	}

	table, err := contracts.NewTable(name, header)
	if err != nil {
		return nil, &contracts.UpstreamDataError{Source: name, Line: 1, Err: err}
	}

	text := make([]bool, len(header))
	for _, c := range TextColumns {
		if i, ok := table.ColumnIndex(c); ok {
			text[i] = true
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.StartLine
			}
			return nil, &contracts.UpstreamDataError{Source: name, Line: line, Err: err}
		}
		line, _ := reader.FieldPos(0)

		obs := contracts.Observation{Line: line, Cells: make([]contracts.Cell, len(record))}
		for i, raw := range record {
			cell, err := parseCell(raw, text[i])
			if err != nil {
				return nil, &contracts.UpstreamDataError{Source: name, Line: line, Column: header[i], Err: err}
			}
			obs.Cells[i] = cell
		}

		if err := table.Append(obs); err != nil {
			return nil, &contracts.UpstreamDataError{Source: name, Line: line, Err: err}
		}
	}

	return table, nil
}

// parseCell converts one raw field. Missing tokens yield Present == false.
func parseCell(raw string, text bool) (contracts.Cell, error) {
	raw = strings.TrimSpace(raw)
	if _, missing := missingTokens[raw]; missing {
		return contracts.Cell{}, nil
	}

	if text {
		return contracts.Cell{Text: raw, Present: true}, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return contracts.Cell{}, fmt.Errorf("not a number: %q", raw)
	}
	if math.IsNaN(v) {
		return contracts.Cell{}, nil
	}
	if math.IsInf(v, 0) {
		return contracts.Cell{}, fmt.Errorf("not a finite number: %q", raw)
	}

	return contracts.Cell{Value: v, Present: true}, nil
}

// ReadDir loads every *.csv file of dir, sorted by file name
func ReadDir(dir string) ([]*contracts.Table, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, &contracts.UpstreamDataError{Source: dir, Err: err}
	}
	if len(paths) == 0 {
		return nil, &contracts.UpstreamDataError{Source: dir, Err: errors.New("no csv files")}
	}
	sort.Strings(paths)

	tables := make([]*contracts.Table, 0, len(paths))
	for _, p := range paths {
		t, err := ReadCSV(p)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	return tables, nil
}
