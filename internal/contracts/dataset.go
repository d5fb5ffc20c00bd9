package contracts

// Positions inside a Returns pair
const (
	ReturnStock     = 0 // stock_p_change, percent
	ReturnBenchmark = 1 // SP500_p_change, percent
)

// Dataset is the train-ready view of a table.
// X, Y, Returns, Tickers and Dates are positionally aligned: row i of each
// belongs to the same observation. Y and Returns are nil for inference sets.
type Dataset struct {
	Features []string     `json:"features"`
	X        [][]float64  `json:"x"`
	Y        []int        `json:"y,omitempty"`
	Returns  [][2]float64 `json:"returns,omitempty"`
	Tickers  []string     `json:"tickers"`
	Dates    []string     `json:"dates"`
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return len(d.X)
}

// Labeled reports whether the dataset carries labels and returns
func (d *Dataset) Labeled() bool {
	return d.Y != nil && d.Returns != nil
}

// Positives counts rows labeled 1
func (d *Dataset) Positives() int {
	n := 0
	for _, y := range d.Y {
		if y == 1 {
			n++
		}
	}
	return n
}

// Subset returns the rows at idx, in idx order, keeping every slice aligned
func (d *Dataset) Subset(idx []int) *Dataset {
	out := &Dataset{
		Features: d.Features,
		X:        make([][]float64, len(idx)),
		Tickers:  make([]string, len(idx)),
		Dates:    make([]string, len(idx)),
	}
	if d.Y != nil {
		out.Y = make([]int, len(idx))
	}
	if d.Returns != nil {
		out.Returns = make([][2]float64, len(idx))
	}

	for i, j := range idx {
		out.X[i] = d.X[j]
		out.Tickers[i] = d.Tickers[j]
		out.Dates[i] = d.Dates[j]
		if d.Y != nil {
			out.Y[i] = d.Y[j]
		}
		if d.Returns != nil {
			out.Returns[i] = d.Returns[j]
		}
	}

	return out
}
