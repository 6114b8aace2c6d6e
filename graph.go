package compgraph

// opKind identifies which operator a graph node applies.
type opKind int

const (
	opIterSource opKind = iota
	opFileSource
	opMap
	opReduce
	opSort
	opJoin
)

// node is one operator in a Graph's pipeline. Only the fields relevant to
// its kind are populated.
type node struct {
	kind opKind

	// opIterSource
	sourceName string

	// opFileSource
	filePath string
	parser   RowParser

	// opMap
	mapper Mapper

	// opReduce
	reducer Reducer

	// opSort / opReduce / opJoin
	keys []string

	// opJoin
	joiner Joiner
	side   *Graph
}

// Graph is an immutable, composable description of a computational graph
// over streams of rows. Every builder method returns a new Graph; none
// mutate the receiver, so a Graph may be branched into multiple descendants
// (e.g. as the source and as a Join's side input) without one branch's
// later operators leaking into another's.
type Graph struct {
	nodes []node
}

// GraphFromIter starts a Graph reading from the named entry of a run's
// sources map.
func GraphFromIter(name string) *Graph {
	return &Graph{nodes: []node{{kind: opIterSource, sourceName: name}}}
}

// GraphFromFile starts a Graph reading and parsing an external text file
// line by line.
func GraphFromFile(path string, parser RowParser) *Graph {
	return &Graph{nodes: []node{{kind: opFileSource, filePath: path, parser: parser}}}
}

// append returns a new Graph whose operator list is this Graph's list plus
// n, without aliasing this Graph's backing array.
func (g *Graph) append(n node) *Graph {
	nodes := make([]node, len(g.nodes)+1)
	copy(nodes, g.nodes)
	nodes[len(g.nodes)] = n
	return &Graph{nodes: nodes}
}

// Map appends a Mapper stage.
func (g *Graph) Map(mapper Mapper) *Graph {
	return g.append(node{kind: opMap, mapper: mapper})
}

// Reduce appends a Reducer stage grouped by keys; the upstream must already
// be sorted by keys.
func (g *Graph) Reduce(reducer Reducer, keys []string) *Graph {
	return g.append(node{kind: opReduce, reducer: reducer, keys: append([]string(nil), keys...)})
}

// Sort appends an external-sort stage ordering by keys.
func (g *Graph) Sort(keys []string) *Graph {
	return g.append(node{kind: opSort, keys: append([]string(nil), keys...)})
}

// Join appends a merge-join stage against other, a second Graph executed as
// this node's side-graph every time the pipeline runs. other is captured by
// reference: it must itself be fully built (its own
// builder chain finished) before being passed here, since Graph is
// immutable and this call does not observe other's later mutations (there
// are none — Join simply keeps the *Graph other already is).
func (g *Graph) Join(joiner Joiner, other *Graph, keys []string) *Graph {
	return g.append(node{kind: opJoin, joiner: joiner, side: other, keys: append([]string(nil), keys...)})
}
