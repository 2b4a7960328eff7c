package tracker

import "github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"

// ContainerTree is the container hierarchy stored as an arena: nodes refer to
// each other by index. Containers whose parent is missing are roots.
type ContainerTree struct {
	nodes []containerNode
	index map[string]int
	roots []int
}

type containerNode struct {
	container models.Container
	parent    int
	children  []int
}

// TreeEntry is one container in depth-first order.
type TreeEntry struct {
	Container models.Container `json:"container"`
	Depth     int              `json:"depth"`
}

// NewContainerTree builds the tree, keeping the input order among siblings.
func NewContainerTree(containers []models.Container) *ContainerTree {
	t := &ContainerTree{
		nodes: make([]containerNode, len(containers)),
		index: make(map[string]int, len(containers)),
	}
	for i, c := range containers {
		t.nodes[i] = containerNode{container: c, parent: -1}
		t.index[c.ID] = i
	}
	for i, c := range containers {
		p, ok := -1, false
		if c.ParentID != nil {
			p, ok = t.index[*c.ParentID]
		}
		if !ok || p == i {
			t.roots = append(t.roots, i)
			continue
		}
		t.nodes[i].parent = p
		t.nodes[p].children = append(t.nodes[p].children, i)
	}
	return t
}

// Len returns the number of containers.
func (t *ContainerTree) Len() int { return len(t.nodes) }

// Walk lists the tree depth first, parents before children. Nodes caught in a
// parent cycle are not reachable from a root and are left out.
func (t *ContainerTree) Walk() []TreeEntry {
	return t.walk(t.roots, 0)
}

func (t *ContainerTree) walk(start []int, depth int) []TreeEntry {
	type frame struct{ node, depth int }
	out := make([]TreeEntry, 0, len(t.nodes))
	visited := make([]bool, len(t.nodes))
	stack := make([]frame, 0, len(start))
	for i := len(start) - 1; i >= 0; i-- {
		stack = append(stack, frame{start[i], depth})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[f.node] {
			continue
		}
		visited[f.node] = true
		out = append(out, TreeEntry{Container: t.nodes[f.node].container, Depth: f.depth})
		kids := t.nodes[f.node].children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{kids[i], f.depth + 1})
		}
	}
	return out
}

// Subtree returns the ids of id and every container nested under it.
func (t *ContainerTree) Subtree(id string) []string {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	entries := t.walk([]int{i}, 0)
	ids := make([]string, len(entries))
	for j, e := range entries {
		ids[j] = e.Container.ID
	}
	return ids
}

// Path returns the containers from the root down to id.
func (t *ContainerTree) Path(id string) []models.Container {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	var path []models.Container
	seen := make(map[int]bool)
	for i >= 0 && !seen[i] {
		seen[i] = true
		path = append(path, t.nodes[i].container)
		i = t.nodes[i].parent
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}
