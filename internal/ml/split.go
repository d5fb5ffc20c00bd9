package ml

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/wonny/outperform/internal/contracts"
)

// Split holds the row positions of a train/test partition
type Split struct {
	Train []int
	Test  []int
}

// TrainTestSplit shuffles n positions with seed and holds out
// floor(n * testSize) of them. Both sides must be non-empty.
func TrainTestSplit(n int, testSize float64, seed int64) (*Split, error) {
	if math.IsNaN(testSize) || testSize <= 0 || testSize >= 1 {
		return nil, &contracts.PreconditionError{
			Stage:  contracts.StageModel,
			Field:  "test_size",
			Reason: fmt.Sprintf("must be in (0, 1), got %v", testSize),
		}
	}

	nTest := int(math.Floor(float64(n) * testSize))
	nTrain := n - nTest
	if nTest == 0 || nTrain == 0 {
		return nil, &contracts.EmptyDatasetError{
			Stage:  contracts.StageModel,
			Reason: fmt.Sprintf("dataset too small: %d rows give %d train / %d test at test_size %.2f", n, nTrain, nTest, testSize),
		}
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return &Split{
		Test:  perm[:nTest],
		Train: perm[nTest:],
	}, nil
}

// StratifiedKFold assigns the positions of y to k folds so that each fold
// keeps roughly the class balance of y. Positions are grouped by class in
// their original order and dealt round-robin. Returns the test positions
// of each fold.
func StratifiedKFold(y []int, k int) ([][]int, error) {
	if k < 2 || k > len(y) {
		return nil, &contracts.PreconditionError{
			Stage:  contracts.StageModel,
			Field:  "folds",
			Reason: fmt.Sprintf("need 2 <= folds <= %d rows, got %d", len(y), k),
		}
	}

	folds := make([][]int, k)
	next := 0
	for _, class := range []int{0, 1} {
		for i, label := range y {
			if label != class {
				continue
			}
			folds[next%k] = append(folds[next%k], i)
			next++
		}
	}

	return folds, nil
}

// complement returns 0..n-1 without the positions in test
func complement(n int, test []int) []int {
	skip := make(map[int]struct{}, len(test))
	for _, i := range test {
		skip[i] = struct{}{}
	}

	out := make([]int, 0, n-len(test))
	for i := 0; i < n; i++ {
		if _, ok := skip[i]; !ok {
			out = append(out, i)
		}
	}
	return out
}
