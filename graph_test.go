package compgraph

import "testing"

func TestGraphBuilderImmutability(t *testing.T) {
	base := GraphFromIter("docs").Map(DummyMapper{})
	branchA := base.Map(LowerCase{Column: "text"})
	branchB := base.Map(FilterPunctuation{Column: "text"})

	if len(base.nodes) != 2 {
		t.Fatalf("base graph mutated: got %d nodes, want 2", len(base.nodes))
	}
	if len(branchA.nodes) != 3 || branchA.nodes[2].mapper == nil {
		t.Fatalf("branchA missing its own appended node")
	}
	if len(branchB.nodes) != 3 {
		t.Fatalf("branchB missing its own appended node")
	}
	if _, ok := branchB.nodes[2].mapper.(FilterPunctuation); !ok {
		t.Fatalf("branchB node 2 should be FilterPunctuation, branching must not leak branchA's operator")
	}
}
