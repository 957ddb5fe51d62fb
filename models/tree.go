package models

// TreeNode is one node of a fitted binary decision tree. Samples with
// feature value <= Threshold go Left.
type TreeNode struct {
	Feature   int // index into the feature list, -1 for a leaf
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode

	Class    AllianceCode // majority class of the samples at this node
	Counts   []int        // samples per class
	Samples  int
	Impurity float64
}

// IsLeaf reports whether the node has no split
func (n *TreeNode) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Depth returns the number of split levels below n
func (n *TreeNode) Depth() int {
	if n == nil || n.IsLeaf() {
		return 0
	}
	l, r := n.Left.Depth(), n.Right.Depth()
	if l > r {
		return l + 1
	}
	return r + 1
}
