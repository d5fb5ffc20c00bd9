package s0_data

// KeyStatistics is the canonical feature list of the key-statistics table.
// ⭐ SSOT: 학습/추론 모두 이 목록(또는 설정의 명시적 목록)만 사용
//
// Order matters: it is the column order of the feature matrix.
var KeyStatistics = []string{
	// Valuation measures
	"Market Cap",
	"Enterprise Value",
	"Trailing P/E",
	"Forward P/E",
	"PEG Ratio",
	"Price/Sales",
	"Price/Book",
	"Enterprise Value/Revenue",
	"Enterprise Value/EBITDA",
	// Financials
	"Profit Margin",
	"Operating Margin",
	"Return on Assets",
	"Return on Equity",
	"Revenue",
	"Revenue Per Share",
	"Quarterly Revenue Growth",
	"Gross Profit",
	"EBITDA",
	"Net Income Avi to Common",
	"Diluted EPS",
	"Quarterly Earnings Growth",
	"Total Cash",
	"Total Cash Per Share",
	"Total Debt",
	"Total Debt/Equity",
	"Current Ratio",
	"Book Value Per Share",
	"Operating Cash Flow",
	"Levered Free Cash Flow",
	// Trading information
	"Beta",
	"50-Day Moving Average",
	"200-Day Moving Average",
	"Avg Vol (3 month)",
	"Shares Outstanding",
	"Float",
	"% Held by Insiders",
	"% Held by Institutions",
	"Shares Short",
	"Short Ratio",
	"Short % of Float",
	"Shares Short (prior month)",
}

// TextColumns are read as strings; every other column must be numeric
var TextColumns = []string{"Date", "Ticker"}

// CatalogCheck is the outcome of validating a feature list against a header
type CatalogCheck struct {
	Unknown    []string // listed but absent from the table
	Duplicated []string // listed more than once
}

// OK reports whether the feature list can be used with the table
func (c CatalogCheck) OK() bool {
	return len(c.Unknown) == 0 && len(c.Duplicated) == 0
}

// Validate checks features against the table columns
func Validate(columns, features []string) CatalogCheck {
	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[c] = struct{}{}
	}

	var check CatalogCheck
	seen := make(map[string]int, len(features))
	for _, f := range features {
		seen[f]++
		if seen[f] == 2 {
			check.Duplicated = append(check.Duplicated, f)
		}
		if seen[f] > 1 {
			continue
		}
		if _, ok := have[f]; !ok {
			check.Unknown = append(check.Unknown, f)
		}
	}

	return check
}
