// Package catalog models the asset library's category tree and the
// derived indexes (parent links, descendant closures) that category
// filtering and breadcrumb navigation are built on.
package catalog

import "fmt"

// Category is one node of the library's classification tree. The tree is
// loaded from a source as an immutable snapshot and replaced wholesale on
// refresh; it is never mutated in place.
type Category struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Children []Category `json:"children,omitempty"`
}

// DuplicateIDError is returned by BuildGraph when two categories in the
// same snapshot share an id.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate category id: %s", e.ID)
}

// Graph is the derived index over a category snapshot: parent links for
// walking breadcrumbs upward and descendant closures for membership tests.
// Rebuilt from scratch whenever the snapshot is replaced.
type Graph struct {
	roots       []Category
	nodes       map[string]*Category
	parents     map[string]*Category
	descendants map[string]map[string]bool
}

// BuildGraph indexes a category forest. Duplicate ids are rejected with a
// DuplicateIDError rather than silently picking a winner. An empty forest
// yields a valid empty graph.
func BuildGraph(roots []Category) (*Graph, error) {
	g := &Graph{
		roots:       roots,
		nodes:       make(map[string]*Category),
		parents:     make(map[string]*Category),
		descendants: make(map[string]map[string]bool),
	}
	for i := range g.roots {
		if err := g.index(&g.roots[i], nil); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// index records parent links and computes the descendant closure post-order:
// a node's set is finalized only after every child's set is.
func (g *Graph) index(node *Category, parent *Category) error {
	if _, seen := g.nodes[node.ID]; seen {
		return &DuplicateIDError{ID: node.ID}
	}
	g.nodes[node.ID] = node
	g.parents[node.ID] = parent

	closure := map[string]bool{node.ID: true}
	for i := range node.Children {
		if err := g.index(&node.Children[i], node); err != nil {
			return err
		}
		for id := range g.descendants[node.Children[i].ID] {
			closure[id] = true
		}
	}
	g.descendants[node.ID] = closure
	return nil
}

// Roots returns the top-level categories of the indexed snapshot.
func (g *Graph) Roots() []Category {
	if g == nil {
		return nil
	}
	return g.roots
}

// Lookup returns the category with the given id, or nil if unknown.
func (g *Graph) Lookup(id string) *Category {
	if g == nil {
		return nil
	}
	return g.nodes[id]
}

// Parent returns the parent of the given category, or nil for roots and
// unknown ids.
func (g *Graph) Parent(id string) *Category {
	if g == nil {
		return nil
	}
	return g.parents[id]
}

// Descendants returns the descendant closure of id: the id itself plus
// every transitively reachable child id. Nil for unknown ids.
func (g *Graph) Descendants(id string) map[string]bool {
	if g == nil {
		return nil
	}
	return g.descendants[id]
}

// Contains reports whether id lies in ancestorID's descendant closure.
func (g *Graph) Contains(ancestorID, id string) bool {
	if g == nil {
		return false
	}
	return g.descendants[ancestorID][id]
}

// Len returns the number of indexed categories.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

// ResolvePath returns the root-to-leaf breadcrumb path for a category,
// built by walking parent links upward from the leaf. A leaf unknown to the
// graph yields a single-element path holding the (possibly stale) leaf
// unchanged, so callers can keep showing what the user last clicked.
func ResolvePath(leaf Category, g *Graph) []Category {
	node := g.Lookup(leaf.ID)
	if node == nil {
		return []Category{leaf}
	}

	path := []Category{*node}
	onPath := map[string]bool{node.ID: true}
	for {
		parent := g.Parent(path[0].ID)
		if parent == nil {
			return path
		}
		// A malformed snapshot that aliases a node into its own ancestry
		// would otherwise walk forever.
		if onPath[parent.ID] {
			return path
		}
		onPath[parent.ID] = true
		path = append([]Category{*parent}, path...)
	}
}

// ReconcilePath re-validates a breadcrumb path against a refreshed graph.
// The trailing entry decides: if its id is gone the path collapses to nil
// (back to "all categories"); if it survives the full chain is rebuilt from
// it. The second return is false when the rebuilt chain carries the same
// ids as the current one, letting callers skip redundant downstream
// recomputation.
func ReconcilePath(current []Category, g *Graph) ([]Category, bool) {
	if len(current) == 0 {
		return nil, false
	}
	leaf := g.Lookup(current[len(current)-1].ID)
	if leaf == nil {
		return nil, true
	}
	next := ResolvePath(*leaf, g)
	if samePathIDs(current, next) {
		return current, false
	}
	return next, true
}

func samePathIDs(a, b []Category) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
