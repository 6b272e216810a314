// Package graph orders struct type declarations so that every type is
// registered after the types it references.
//
// Nodes are type names and an edge A -> B means a field of A references
// B, directly or as an array element. Sort performs a depth-first
// traversal with two marker sets: visited (fully processed) and on-stack
// (currently being explored). Reaching an on-stack node is a cycle.
package graph

import (
	"sort"

	"github.com/wippyai/typeddata/errors"
)

// Graph is a reference graph between type names.
// Not safe for concurrent mutation.
type Graph struct {
	edges map[string][]string
	nodes []string
}

// New creates an empty graph
func New() *Graph {
	return &Graph{
		edges: make(map[string][]string),
	}
}

// AddNode declares a type. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if _, ok := g.edges[name]; ok {
		return
	}
	g.edges[name] = nil
	g.nodes = append(g.nodes, name)
}

// AddEdge records that from references to. Both ends become nodes.
// Duplicate edges are kept once.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	for _, existing := range g.edges[from] {
		if existing == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
}

// Has reports whether name is a node
func (g *Graph) Has(name string) bool {
	_, ok := g.edges[name]
	return ok
}

// Nodes returns node names in insertion order
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns the names referenced by name in insertion order
func (g *Graph) Edges(name string) []string {
	out := make([]string, len(g.edges[name]))
	copy(out, g.edges[name])
	return out
}

// Sort returns every node in dependency-first postorder. Roots are
// visited in lexical order so the result is deterministic. A cycle,
// including a self reference, yields an *errors.CycleError listing the
// loop.
func (g *Graph) Sort() ([]string, error) {
	roots := g.Nodes()
	sort.Strings(roots)

	s := sorter{
		graph:   g,
		visited: make(map[string]bool, len(roots)),
		onStack: make(map[string]bool),
		order:   make([]string, 0, len(roots)),
	}
	for _, name := range roots {
		if s.visited[name] {
			continue
		}
		if err := s.visit(name); err != nil {
			return nil, err
		}
	}
	return s.order, nil
}

type sorter struct {
	graph   *Graph
	visited map[string]bool
	onStack map[string]bool
	stack   []string
	order   []string
}

func (s *sorter) visit(name string) error {
	s.onStack[name] = true
	s.stack = append(s.stack, name)

	for _, next := range s.graph.edges[name] {
		if s.onStack[next] {
			return errors.NewCycleError(s.cycleTo(next))
		}
		if s.visited[next] {
			continue
		}
		if err := s.visit(next); err != nil {
			return err
		}
	}

	s.stack = s.stack[:len(s.stack)-1]
	delete(s.onStack, name)
	s.visited[name] = true
	s.order = append(s.order, name)
	return nil
}

// cycleTo returns the stack suffix starting at name, closed with name.
func (s *sorter) cycleTo(name string) []string {
	for i, n := range s.stack {
		if n == name {
			cycle := append([]string(nil), s.stack[i:]...)
			return append(cycle, name)
		}
	}
	return []string{name, name}
}
