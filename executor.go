package compgraph

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nightsea987/compgraph/cgerrors"
)

// Executor runs a Graph's operator list against a concrete binding of
// source names to streams. It is stateless and safe to reuse across runs
// of the same or different Graphs.
type Executor struct {
	// Logger receives Debug-level per-node execution events and is passed
	// through to Sort as its suspension-point logger. Nil selects a no-op
	// logger.
	Logger *zap.Logger
	// SortChunkBytes overrides the external sort chunk budget for every
	// Sort node this executor runs. Zero selects DefaultChunkBytes.
	SortChunkBytes int64
	// SortTempDir overrides the spill directory for every Sort node this
	// executor runs. Empty selects os.TempDir().
	SortTempDir string
}

func (e *Executor) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// Run executes g against sources, a binding of every named iterator source
// reachable from g (including its side-graphs) to a factory producing a
// fresh Stream for this run. Rows reach the caller as it calls Next, but
// Run itself already does some work while building the pipeline: every
// Sort stage reads and sorts its whole upstream, and every Reduce and Join
// stage pulls its first upstream row.
func (e *Executor) Run(g *Graph, sources map[string]func() Stream) (Stream, error) {
	if g == nil || len(g.nodes) == 0 {
		return nil, cgerrors.NewConfigError("graph has no operators")
	}
	traceID := uuid.NewString()
	logger := e.logger().With(zap.String("trace_id", traceID))
	logger.Debug("executor: starting run", zap.Int("nodes", len(g.nodes)))
	return e.execNodes(g.nodes, sources, logger)
}

func (e *Executor) execNodes(nodes []node, sources map[string]func() Stream, logger *zap.Logger) (Stream, error) {
	head := nodes[0]

	var s Stream
	switch head.kind {
	case opIterSource:
		src, err := iterSource(head.sourceName, sources)
		if err != nil {
			return nil, err
		}
		s = src
		logger.Debug("executor: source", zap.String("name", head.sourceName))
	case opFileSource:
		s = fileSource(head.filePath, head.parser)
		logger.Debug("executor: file source", zap.String("path", head.filePath))
	default:
		return nil, cgerrors.NewConfigError("graph must begin with graph_from_iter or graph_from_file")
	}

	for _, n := range nodes[1:] {
		switch n.kind {
		case opMap:
			s = Map(s, n.mapper)
			logger.Debug("executor: map")
		case opReduce:
			s = Reduce(s, n.reducer, n.keys)
			logger.Debug("executor: reduce", zap.Strings("keys", n.keys))
		case opSort:
			s = Sort(s, n.keys, SortOptions{
				ChunkBytes: e.SortChunkBytes,
				TempDir:    e.SortTempDir,
				Logger:     logger,
			})
			logger.Debug("executor: sort", zap.Strings("keys", n.keys))
		case opJoin:
			if n.side == nil || len(n.side.nodes) == 0 {
				return nil, cgerrors.NewConfigError("join operator has no side-graph to execute")
			}
			right, err := e.execNodes(n.side.nodes, sources, logger)
			if err != nil {
				return nil, err
			}
			s = Join(n.joiner, n.keys, s, right)
			logger.Debug("executor: join", zap.Strings("keys", n.keys))
		default:
			return nil, cgerrors.NewConfigError("graph contains a source operator after its first node")
		}
	}

	return s, nil
}
