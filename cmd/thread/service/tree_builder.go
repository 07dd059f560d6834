package service

import (
	"sort"

	"ThreadNest.com/cmd/model"
)

// BuildTree materializes a forest of CommentNode from a flat comment
// collection. Every input comment appears exactly once: under its parent if
// the parent is present, otherwise as a root (a dangling ParentId is a
// defensive fallback, not an error). Children and roots are ordered by
// CreatedAt ascending; ties keep the original insertion order.
//
// Cycles in ParentId chains are out of contract; the builder does not
// detect them.
func BuildTree(comments []*model.Comment) []*model.CommentNode {
	nodes := make(map[string]*model.CommentNode, len(comments))
	for _, comment := range comments {
		nodes[comment.CommentId] = &model.CommentNode{
			Comment:  *comment,
			Children: make([]*model.CommentNode, 0),
		}
	}

	roots := make([]*model.CommentNode, 0)
	for _, comment := range comments {
		node := nodes[comment.CommentId]
		if comment.ParentId == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[comment.ParentId]
		if !ok || parent == node {
			// orphaned reference, treat as root
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortForest(roots)
	assignDepth(roots, 0)
	return roots
}

// sortForest stable-sorts every children slice and the root slice by
// CreatedAt. The timestamp layout is fixed-width, so string comparison is
// chronological comparison.
func sortForest(nodes []*model.CommentNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].CreatedAt < nodes[j].CreatedAt
	})
	for _, node := range nodes {
		sortForest(node.Children)
	}
}

func assignDepth(nodes []*model.CommentNode, depth int) {
	for _, node := range nodes {
		node.Depth = depth
		assignDepth(node.Children, depth+1)
	}
}

// FlattenTree emits every node's Comment in pre-order, following the
// forest's current arrangement. It is a traversal, not a sort: the forest
// order already reflects the CreatedAt ordering applied by BuildTree.
func FlattenTree(forest []*model.CommentNode) []*model.Comment {
	flat := make([]*model.Comment, 0, CountNodes(forest))
	return appendSubtree(flat, forest)
}

func appendSubtree(flat []*model.Comment, nodes []*model.CommentNode) []*model.Comment {
	for _, node := range nodes {
		comment := node.Comment
		flat = append(flat, &comment)
		flat = appendSubtree(flat, node.Children)
	}
	return flat
}

// GetMaxDepth returns the maximum Depth over the forest, 0 when empty.
func GetMaxDepth(forest []*model.CommentNode) int {
	max := 0
	for _, node := range forest {
		if node.Depth > max {
			max = node.Depth
		}
		if d := GetMaxDepth(node.Children); d > max {
			max = d
		}
	}
	return max
}

// CountNodes returns the total number of nodes reachable from the forest.
func CountNodes(forest []*model.CommentNode) int {
	count := 0
	for _, node := range forest {
		count += 1 + CountNodes(node.Children)
	}
	return count
}
