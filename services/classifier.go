package services

import (
	"fmt"
	"sort"
	"strings"

	"bd-election-analysis/models"
	"bd-election-analysis/utils"
)

// TreeFeatures are the economic indicators the decision tree splits on
var TreeFeatures = []string{"Income", "Expenditure"}

// treeClasses are the winners the tree separates
var treeClasses = []models.AllianceCode{models.AllianceBNP, models.Alliance11PA}

// TreeResult is a fitted decision tree with its readable form
type TreeResult struct {
	Root        *models.TreeNode
	Features    []string
	Classes     []models.AllianceCode
	Importances []float64 // normalized impurity decrease per feature
	Rules       string
	Samples     int
}

type treeSample struct {
	x     []float64
	class int
}

// TreeAnalyzer fits a CART classifier of seat winners on division income and expenditure
type TreeAnalyzer struct {
	logger   *utils.Logger
	maxDepth int
}

// NewTreeAnalyzer creates a new TreeAnalyzer
func NewTreeAnalyzer(logger *utils.Logger, maxDepth int) *TreeAnalyzer {
	if maxDepth < 1 {
		maxDepth = 1
	}
	return &TreeAnalyzer{logger: logger, maxDepth: maxDepth}
}

// Fit trains on the seats won by BNP-A or 11PA. Seats in divisions without
// economic data are left out. Fails with ErrNotEnoughData when no seat remains.
func (a *TreeAnalyzer) Fit(table *models.SeatTable, ref models.EconomicReference) (*TreeResult, error) {
	if table == nil || len(table.Seats) == 0 {
		return nil, ErrNoSeatData
	}

	var samples []treeSample
	skipped := 0
	for _, seat := range table.Seats {
		class := classIndex(seat.WinnerAlliance)
		if class < 0 {
			continue
		}
		econ, ok := ref.Lookup(seat.Division)
		if !ok {
			skipped++
			continue
		}
		samples = append(samples, treeSample{
			x:     []float64{econ.MonthlyIncome, econ.Expenditure},
			class: class,
		})
	}
	if skipped > 0 {
		a.logger.Warn("%d seats left out of the decision tree: division has no economic data", skipped)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: no seats won by %s or %s", ErrNotEnoughData, models.AllianceBNP, models.Alliance11PA)
	}

	b := &treeBuilder{
		samples:     samples,
		maxDepth:    a.maxDepth,
		importances: make([]float64, len(TreeFeatures)),
	}
	idx := make([]int, len(samples))
	for i := range idx {
		idx[i] = i
	}
	root := b.build(idx, 0)

	var total float64
	for _, v := range b.importances {
		total += v
	}
	if total > 0 {
		for i := range b.importances {
			b.importances[i] /= total
		}
	}

	result := &TreeResult{
		Root:        root,
		Features:    append([]string(nil), TreeFeatures...),
		Classes:     append([]models.AllianceCode(nil), treeClasses...),
		Importances: b.importances,
		Rules:       ExportRules(root, TreeFeatures),
		Samples:     len(samples),
	}
	a.logger.Info("Decision tree fitted on %d seats, depth %d", len(samples), root.Depth())
	return result, nil
}

// Predict returns the class the tree assigns to the feature vector x
func Predict(root *models.TreeNode, x []float64) models.AllianceCode {
	n := root
	for !n.IsLeaf() {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Class
}

func classIndex(code models.AllianceCode) int {
	for i, c := range treeClasses {
		if c == code {
			return i
		}
	}
	return -1
}

type treeBuilder struct {
	samples     []treeSample
	maxDepth    int
	importances []float64
}

func (b *treeBuilder) build(idx []int, depth int) *models.TreeNode {
	counts := make([]int, len(treeClasses))
	for _, i := range idx {
		counts[b.samples[i].class]++
	}
	node := &models.TreeNode{
		Feature:  -1,
		Counts:   counts,
		Samples:  len(idx),
		Impurity: gini(counts, len(idx)),
		Class:    treeClasses[majority(counts)],
	}
	if depth >= b.maxDepth || node.Impurity == 0 || len(idx) < 2 {
		return node
	}

	feature, threshold, decrease, ok := b.bestSplit(idx, node.Impurity)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range idx {
		if b.samples[i].x[feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	b.importances[feature] += decrease * float64(len(idx))

	node.Feature = feature
	node.Threshold = threshold
	node.Left = b.build(left, depth+1)
	node.Right = b.build(right, depth+1)
	return node
}

// bestSplit scans features in order and candidate thresholds ascending; the
// first split with the largest impurity decrease wins
func (b *treeBuilder) bestSplit(idx []int, impurity float64) (int, float64, float64, bool) {
	bestFeature, bestThreshold, bestDecrease := -1, 0.0, 0.0
	n := float64(len(idx))

	for f := range TreeFeatures {
		values := make([]float64, 0, len(idx))
		seen := make(map[float64]bool)
		for _, i := range idx {
			v := b.samples[i].x[f]
			if !seen[v] {
				seen[v] = true
				values = append(values, v)
			}
		}
		sort.Float64s(values)

		for k := 0; k+1 < len(values); k++ {
			t := (values[k] + values[k+1]) / 2
			lc := make([]int, len(treeClasses))
			rc := make([]int, len(treeClasses))
			nl, nr := 0, 0
			for _, i := range idx {
				if b.samples[i].x[f] <= t {
					lc[b.samples[i].class]++
					nl++
				} else {
					rc[b.samples[i].class]++
					nr++
				}
			}
			weighted := (float64(nl)*gini(lc, nl) + float64(nr)*gini(rc, nr)) / n
			if d := impurity - weighted; d > bestDecrease+1e-12 {
				bestFeature, bestThreshold, bestDecrease = f, t, d
			}
		}
	}
	return bestFeature, bestThreshold, bestDecrease, bestFeature >= 0
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		g -= p * p
	}
	return g
}

// majority returns the most frequent class, the lower index on a tie
func majority(counts []int) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}

// ExportRules renders the tree as indented if/else rules
func ExportRules(root *models.TreeNode, features []string) string {
	var sb strings.Builder
	writeRules(&sb, root, features, 0)
	return sb.String()
}

func writeRules(sb *strings.Builder, n *models.TreeNode, features []string, depth int) {
	indent := strings.Repeat("|   ", depth)
	if n.IsLeaf() {
		fmt.Fprintf(sb, "%s|--- class: %s\n", indent, n.Class)
		return
	}
	name := features[n.Feature]
	fmt.Fprintf(sb, "%s|--- %s <= %.2f\n", indent, name, n.Threshold)
	writeRules(sb, n.Left, features, depth+1)
	fmt.Fprintf(sb, "%s|--- %s >  %.2f\n", indent, name, n.Threshold)
	writeRules(sb, n.Right, features, depth+1)
}
