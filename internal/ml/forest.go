package ml

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/wonny/outperform/internal/contracts"
)

// RandomForestParams configures a RandomForest
type RandomForestParams struct {
	Trees           int   // 100
	MaxDepth        int   // 0 = unlimited
	MinSamplesSplit int   // 2
	Seed            int64 // 0
}

// DefaultRandomForestParams returns the standard forest settings
func DefaultRandomForestParams() RandomForestParams {
	return RandomForestParams{Trees: 100, MinSamplesSplit: 2}
}

// RandomForest is a bagged ensemble of Gini CART trees that considers
// sqrt(features) random candidates at each split.
type RandomForest struct {
	Params RandomForestParams

	trees []tree
	width int
}

// NewRandomForest creates an unfitted forest
func NewRandomForest(params RandomForestParams) *RandomForest {
	return &RandomForest{Params: params}
}

// node is a tree node; leaves have left == -1
type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	proba     float64
}

type tree []node

func (t tree) predict(x []float64) float64 {
	i := 0
	for t[i].left >= 0 {
		if x[t[i].feature] <= t[i].threshold {
			i = t[i].left
		} else {
			i = t[i].right
		}
	}
	return t[i].proba
}

// Fit grows Params.Trees trees on bootstrap samples
func (m *RandomForest) Fit(X [][]float64, y []int) error {
	width, err := checkTraining(X, y)
	if err != nil {
		return err
	}
	if m.Params.Trees < 1 {
		return &contracts.PreconditionError{
			Stage:  contracts.StageModel,
			Field:  "trees",
			Reason: fmt.Sprintf("must be >= 1, got %d", m.Params.Trees),
		}
	}

	minSplit := m.Params.MinSamplesSplit
	if minSplit < 2 {
		minSplit = 2
	}

	mtry := int(math.Sqrt(float64(width)))
	if mtry < 1 {
		mtry = 1
	}

	g := &grower{
		X:        X,
		y:        y,
		width:    width,
		mtry:     mtry,
		maxDepth: m.Params.MaxDepth,
		minSplit: minSplit,
		rng:      rand.New(rand.NewSource(m.Params.Seed)),
	}

	m.trees = make([]tree, m.Params.Trees)
	for t := range m.trees {
		sample := make([]int, len(X))
		for i := range sample {
			sample[i] = g.rng.Intn(len(X))
		}
		g.nodes = nil
		g.grow(sample, 0)
		m.trees[t] = g.nodes
	}
	m.width = width

	return nil
}

// PredictProba averages leaf positive shares across trees
func (m *RandomForest) PredictProba(X [][]float64) ([]float64, error) {
	if m.trees == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, m.width); err != nil {
		return nil, err
	}

	proba := make([]float64, len(X))
	for i, x := range X {
		sum := 0.0
		for _, t := range m.trees {
			sum += t.predict(x)
		}
		proba[i] = sum / float64(len(m.trees))
	}

	return proba, nil
}

// Predict returns 1 when the mean positive share exceeds one half
func (m *RandomForest) Predict(X [][]float64) ([]int, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return threshold(proba), nil
}

// grower builds one tree at a time into nodes
type grower struct {
	X        [][]float64
	y        []int
	width    int
	mtry     int
	maxDepth int
	minSplit int
	rng      *rand.Rand
	nodes    tree
}

// grow appends the subtree for sample and returns its root index
func (g *grower) grow(sample []int, depth int) int {
	positives := 0
	for _, i := range sample {
		positives += g.y[i]
	}

	id := len(g.nodes)
	g.nodes = append(g.nodes, node{
		left:  -1,
		right: -1,
		proba: float64(positives) / float64(len(sample)),
	})

	pure := positives == 0 || positives == len(sample)
	if pure || len(sample) < g.minSplit || (g.maxDepth > 0 && depth >= g.maxDepth) {
		return id
	}

	feature, thr, ok := g.bestSplit(sample, positives)
	if !ok {
		return id
	}

	var left, right []int
	for _, i := range sample {
		if g.X[i][feature] <= thr {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	if len(left) == 0 || len(right) == 0 {
		return id
	}

	l := g.grow(left, depth+1)
	r := g.grow(right, depth+1)

	g.nodes[id].feature = feature
	g.nodes[id].threshold = thr
	g.nodes[id].left = l
	g.nodes[id].right = r

	return id
}

// bestSplit finds the Gini-optimal threshold among mtry random features
func (g *grower) bestSplit(sample []int, positives int) (int, float64, bool) {
	n := float64(len(sample))
	bestScore := gini(float64(positives), n) * n
	bestFeature, bestThr, found := -1, 0.0, false

	sorted := make([]int, len(sample))
	// keep drawing features past mtry until some split is valid
	for k, feature := range g.rng.Perm(g.width) {
		if k >= g.mtry && found {
			break
		}
		copy(sorted, sample)
		sort.Slice(sorted, func(a, b int) bool {
			return g.X[sorted[a]][feature] < g.X[sorted[b]][feature]
		})

		leftPos, leftN := 0.0, 0.0
		for k := 0; k < len(sorted)-1; k++ {
			leftN++
			leftPos += float64(g.y[sorted[k]])

			v, next := g.X[sorted[k]][feature], g.X[sorted[k+1]][feature]
			if v == next {
				continue
			}

			rightN := n - leftN
			rightPos := float64(positives) - leftPos
			score := gini(leftPos, leftN)*leftN + gini(rightPos, rightN)*rightN
			if score < bestScore-1e-12 {
				bestScore = score
				bestFeature = feature
				bestThr = v + (next-v)/2
				if bestThr >= next {
					bestThr = v
				}
				found = true
			}
		}
	}

	return bestFeature, bestThr, found
}

// gini impurity of a node with pos positives out of n
func gini(pos, n float64) float64 {
	if n == 0 {
		return 0
	}
	p := pos / n
	return 2 * p * (1 - p)
}
