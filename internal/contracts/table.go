package contracts

import "fmt"

// Well-known columns of the feature table
// ⭐ SSOT: 컬럼 이름은 여기서만 정의
const (
	ColumnDate            = "Date"
	ColumnTicker          = "Ticker"
	ColumnStockChange     = "stock_p_change"
	ColumnBenchmarkChange = "SP500_p_change"
)

// Cell is one field of an observation. Missing fields have Present == false
// and are never given a substitute value.
type Cell struct {
	Value   float64 `json:"value"`
	Text    string  `json:"text,omitempty"` // text columns only (Date, Ticker)
	Present bool    `json:"present"`
}

// Observation is one stock at one point in time, one cell per table column
type Observation struct {
	Line  int    `json:"line"` // source line, 1-based (header is line 1)
	Cells []Cell `json:"cells"`
}

// Complete reports whether every field of the observation is present
func (o Observation) Complete() bool {
	for _, c := range o.Cells {
		if !c.Present {
			return false
		}
	}
	return true
}

// Table is the in-memory feature table handed over by the data provider
type Table struct {
	Source  string        `json:"source"`
	Columns []string      `json:"columns"`
	Rows    []Observation `json:"rows"`

	index map[string]int
}

// NewTable creates an empty table. Column names must be unique.
func NewTable(source string, columns []string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
	}

	return &Table{
		Source:  source,
		Columns: columns,
		Rows:    make([]Observation, 0),
		index:   index,
	}, nil
}

// ColumnIndex returns the position of a column
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// HasColumn reports whether the table has a column
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Append adds an observation; it must carry one cell per column
func (t *Table) Append(obs Observation) error {
	if len(obs.Cells) != len(t.Columns) {
		return fmt.Errorf("line %d: %d cells for %d columns", obs.Line, len(obs.Cells), len(t.Columns))
	}
	t.Rows = append(t.Rows, obs)
	return nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// CompleteRows counts rows with every field present
func (t *Table) CompleteRows() int {
	n := 0
	for _, row := range t.Rows {
		if row.Complete() {
			n++
		}
	}
	return n
}
