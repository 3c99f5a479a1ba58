package forest

import (
	"math/rand/v2"
	"slices"
)

const leaf = -1

type node struct {
	feature   int // leaf when -1
	threshold float64
	left      int
	right     int
	prob      float64 // weighted share of class 1 at this node
}

// tree is a CART classifier stored as a flat node slice; node 0 is the root.
type tree struct {
	nodes       []node
	importances []float64
}

func (t *tree) proba(x []float64) float64 {
	i := 0
	for t.nodes[i].feature != leaf {
		n := t.nodes[i]
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
	return t.nodes[i].prob
}

type treeBuilder struct {
	X           [][]float64
	y           []int
	weights     []float64
	maxFeatures int
	minSplit    int
	maxDepth    int
	rng         *rand.Rand

	nodes       []node
	importances []float64
	pairs       []pair
}

type pair struct {
	v float64
	y int
	w float64
}

// growTree fits one tree on the bootstrap drawn from rng. Samples carry
// their draw count as weight; samples never drawn are left out.
func growTree(X [][]float64, y []int, cfg Params, maxFeatures int, rng *rand.Rand) *tree {
	n := len(X)
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		weights[rng.IntN(n)]++
	}

	samples := make([]int, 0, n)
	for i, w := range weights {
		if w > 0 {
			samples = append(samples, i)
		}
	}

	b := &treeBuilder{
		X:           X,
		y:           y,
		weights:     weights,
		maxFeatures: maxFeatures,
		minSplit:    cfg.MinSamplesSplit,
		maxDepth:    cfg.MaxDepth,
		rng:         rng,
		importances: make([]float64, len(X[0])),
		pairs:       make([]pair, 0, len(samples)),
	}
	b.grow(samples, 0)

	return &tree{nodes: b.nodes, importances: b.importances}
}

func (b *treeBuilder) grow(samples []int, depth int) int {
	var total, pos float64
	for _, i := range samples {
		total += b.weights[i]
		if b.y[i] == 1 {
			pos += b.weights[i]
		}
	}

	id := len(b.nodes)
	b.nodes = append(b.nodes, node{feature: leaf, prob: pos / total})

	impurity := gini(total, pos)
	if len(samples) < b.minSplit || impurity <= 1e-12 || (b.maxDepth > 0 && depth >= b.maxDepth) {
		return id
	}

	feature, threshold, childImpurity, ok := b.bestSplit(samples)
	if !ok {
		return id
	}

	gain := total*impurity - childImpurity
	if gain <= 1e-12 {
		return id
	}
	b.importances[feature] += gain

	left := make([]int, 0, len(samples))
	right := make([]int, 0, len(samples))
	for _, i := range samples {
		if b.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[id].feature = feature
	b.nodes[id].threshold = threshold
	b.nodes[id].left = l
	b.nodes[id].right = r
	return id
}

// bestSplit draws features in random order until maxFeatures non-constant
// ones have been scored, and returns the split with the lowest weighted
// child impurity.
func (b *treeBuilder) bestSplit(samples []int) (feature int, threshold, impurity float64, ok bool) {
	order := b.rng.Perm(len(b.importances))
	visited := 0
	best := 0.0

	for _, f := range order {
		if visited >= b.maxFeatures {
			break
		}

		b.pairs = b.pairs[:0]
		var total, pos float64
		for _, i := range samples {
			p := pair{v: b.X[i][f], y: b.y[i], w: b.weights[i]}
			b.pairs = append(b.pairs, p)
			total += p.w
			if p.y == 1 {
				pos += p.w
			}
		}
		slices.SortFunc(b.pairs, func(a, c pair) int {
			switch {
			case a.v < c.v:
				return -1
			case a.v > c.v:
				return 1
			}
			return 0
		})
		if b.pairs[0].v == b.pairs[len(b.pairs)-1].v {
			continue
		}
		visited++

		var lTotal, lPos float64
		for k := 0; k < len(b.pairs)-1; k++ {
			p := b.pairs[k]
			lTotal += p.w
			if p.y == 1 {
				lPos += p.w
			}
			next := b.pairs[k+1].v
			if p.v == next {
				continue
			}
			score := lTotal*gini(lTotal, lPos) + (total-lTotal)*gini(total-lTotal, pos-lPos)
			if !ok || score < best {
				t := p.v + (next-p.v)/2
				if t >= next {
					t = p.v
				}
				best, feature, threshold, ok = score, f, t, true
			}
		}
	}
	return feature, threshold, best, ok
}

func gini(total, pos float64) float64 {
	if total <= 0 {
		return 0
	}
	p := pos / total
	return 2 * p * (1 - p)
}
