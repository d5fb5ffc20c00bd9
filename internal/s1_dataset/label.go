package s1_dataset

import (
	"fmt"
	"math"

	"github.com/wonny/outperform/internal/contracts"
)

// Label marks each observation 1 when the stock beat the benchmark by more
// than margin percentage points, else 0. A difference equal to margin is 0.
// ⭐ SSOT: 라벨 정의는 여기서만
func Label(stock, benchmark []float64, margin float64) ([]int, error) {
	if len(stock) != len(benchmark) {
		return nil, &contracts.PreconditionError{
			Stage:  contracts.StageDataset,
			Field:  "returns",
			Reason: fmt.Sprintf("length mismatch: stock=%d benchmark=%d", len(stock), len(benchmark)),
		}
	}
	if math.IsNaN(margin) || math.IsInf(margin, 0) {
		return nil, &contracts.PreconditionError{Stage: contracts.StageDataset, Field: "margin", Reason: "not a finite number"}
	}

	labels := make([]int, len(stock))
	for i := range stock {
		if !finite(stock[i]) || !finite(benchmark[i]) {
			return nil, &contracts.PreconditionError{
				Stage:  contracts.StageDataset,
				Field:  "returns",
				Reason: fmt.Sprintf("row %d: not a finite number", i),
			}
		}
		if stock[i]-benchmark[i] > margin {
			labels[i] = 1
		}
	}

	return labels, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
