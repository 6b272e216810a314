package graph

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/wippyai/typeddata/errors"
)

func indexOf(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}

func TestSortDependenciesFirst(t *testing.T) {
	g := New()
	g.AddEdge("Mail", "Person")
	g.AddEdge("Mail", "Attachment")
	g.AddEdge("Person", "Wallet")
	g.AddNode("Standalone")

	order, err := g.Sort()
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if len(order) != 5 {
		t.Fatalf("order = %v, want 5 nodes", order)
	}

	before := [][2]string{
		{"Person", "Mail"},
		{"Attachment", "Mail"},
		{"Wallet", "Person"},
	}
	for _, pair := range before {
		if indexOf(order, pair[0]) > indexOf(order, pair[1]) {
			t.Errorf("%s sorted after %s in %v", pair[0], pair[1], order)
		}
	}
}

func TestSortDeterministic(t *testing.T) {
	build := func(names ...string) *Graph {
		g := New()
		for _, n := range names {
			g.AddNode(n)
		}
		g.AddEdge("B", "A")
		return g
	}

	first, err := build("C", "B", "A").Sort()
	if err != nil {
		t.Fatal(err)
	}
	second, err := build("A", "C", "B").Sort()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("insertion order changed result: %v vs %v", first, second)
	}
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(first, want) {
		t.Errorf("order = %v, want %v", first, want)
	}
}

func TestSortSharedDependencyOnce(t *testing.T) {
	g := New()
	g.AddEdge("A", "C")
	g.AddEdge("B", "C")
	g.AddEdge("A", "B")

	order, err := g.Sort()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"C", "B", "A"}; !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestSortCycles(t *testing.T) {
	tests := []struct {
		name  string
		edges [][2]string
		want  []string
	}{
		{
			name:  "mutual",
			edges: [][2]string{{"A", "B"}, {"B", "A"}},
			want:  []string{"A", "B", "A"},
		},
		{
			name:  "self",
			edges: [][2]string{{"A", "A"}},
			want:  []string{"A", "A"},
		},
		{
			name:  "three",
			edges: [][2]string{{"A", "B"}, {"B", "C"}, {"C", "B"}},
			want:  []string{"B", "C", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}
			_, err := g.Sort()
			if err == nil {
				t.Fatal("Sort succeeded, want cycle error")
			}
			if !stderrors.Is(err, errors.ErrCycle) {
				t.Errorf("err = %v, want ErrCycle", err)
			}
			var cycle *errors.CycleError
			if !stderrors.As(err, &cycle) {
				t.Fatalf("err = %T, want *CycleError", err)
			}
			if !reflect.DeepEqual(cycle.Cycle, tt.want) {
				t.Errorf("Cycle = %v, want %v", cycle.Cycle, tt.want)
			}
		})
	}
}

func TestAddEdgeDeduplicates(t *testing.T) {
	g := New()
	g.AddEdge("Mail", "Person")
	g.AddEdge("Mail", "Person")

	if got := g.Edges("Mail"); len(got) != 1 {
		t.Errorf("Edges = %v, want one", got)
	}
	if !g.Has("Person") {
		t.Error("edge target not added as node")
	}
	if got := g.Nodes(); !reflect.DeepEqual(got, []string{"Mail", "Person"}) {
		t.Errorf("Nodes = %v", got)
	}
}
