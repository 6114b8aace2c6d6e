package compgraph

import (
	"container/heap"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	sortpkg "sort"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nightsea987/compgraph/cgerrors"
	"github.com/nightsea987/compgraph/internal/spillstore"
)

// DefaultChunkBytes is the spill-chunk size budget external sort
// accumulates before sorting and spilling a chunk.
const DefaultChunkBytes int64 = 64 << 20

// SortOptions tunes external sort's memory/disk tradeoff.
type SortOptions struct {
	// ChunkBytes bounds the accumulated (estimated) row bytes per
	// in-memory chunk before it is sorted and spilled. Zero selects
	// DefaultChunkBytes.
	ChunkBytes int64
	// TempDir is the directory spill files are created in. Empty selects
	// os.TempDir().
	TempDir string
	// Logger receives Debug-level suspension-point events (spill, merge).
	// Nil selects a no-op logger.
	Logger *zap.Logger
}

func (o SortOptions) withDefaults() SortOptions {
	if o.ChunkBytes <= 0 {
		o.ChunkBytes = DefaultChunkBytes
	}
	if o.TempDir == "" {
		o.TempDir = os.TempDir()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// estimateRowBytes approximates a Row's in-memory footprint for
// chunk-boundary decisions; it need not be exact, only monotonic in the
// data actually held.
func estimateRowBytes(row Row) int64 {
	var n int64
	for name, v := range row {
		n += int64(len(name)) + estimateValueBytes(v) + 16
	}
	return n
}

func estimateValueBytes(v Value) int64 {
	switch v.Kind() {
	case KindString:
		return int64(len(v.Str()))
	case KindSeq:
		var n int64
		for _, e := range v.Seq() {
			n += estimateValueBytes(e)
		}
		return n
	case KindRow:
		return estimateRowBytes(v.Row())
	default:
		return 8
	}
}

// sortRowsStable sorts rows ascending by the key tuple over keys, stable on
// ties.
func sortRowsStable(rows []Row, keys []string) error {
	var keyErr error
	sortpkg.SliceStable(rows, func(i, j int) bool {
		if keyErr != nil {
			return false
		}
		ki, err := safeKey(rows[i], keys)
		if err != nil {
			keyErr = err
			return false
		}
		kj, err := safeKey(rows[j], keys)
		if err != nil {
			keyErr = err
			return false
		}
		return ki.Compare(kj) < 0
	})
	return keyErr
}

// safeKey extracts a key tuple, rejecting Seq/Row-typed components: a
// compound value used directly as a sort/join key has no externally
// meaningful order, so it is reported as a TypeMismatchError rather than
// silently ordered.
func safeKey(row Row, keys []string) (KeyTuple, error) {
	kt := row.Key(keys)
	for i, v := range kt {
		if v.Kind() == KindSeq || v.Kind() == KindRow {
			return nil, cgerrors.NewTypeMismatchError(keys[i], fmt.Errorf("compound value %v used as sort/join key", v))
		}
	}
	return kt, nil
}

// Sort is the external-sort stream operator: it consumes upstream in
// bounded chunks, sorts each in memory, spills chunks that don't fit into a
// single budget to a bbolt-backed spillstore.Store, and k-way merges the
// spilled chunks with a min-heap keyed by head key tuple. If everything
// fits in one chunk, no spill file is ever created.
func Sort(upstream Stream, keys []string, opts SortOptions) Stream {
	opts = opts.withDefaults()

	type seqRow struct {
		row Row
		seq int64
	}

	var current []seqRow
	var currentBytes int64
	var store *spillstore.Store
	var chunkNames [][]byte
	var nextSeq int64

	openStore := func() error {
		if store != nil {
			return nil
		}
		path := filepath.Join(opts.TempDir, "compgraph-sort-"+uuid.NewString()+".bbolt")
		s, err := spillstore.Open(path)
		if err != nil {
			return cgerrors.WrapIO(err, "open", path)
		}
		opts.Logger.Debug("external sort: opened spill store", zap.String("path", path))
		store = s
		return nil
	}

	spillCurrent := func() error {
		if len(current) == 0 {
			return nil
		}
		var keyErr error
		sortpkg.SliceStable(current, func(i, j int) bool {
			if keyErr != nil {
				return false
			}
			ki, err := safeKey(current[i].row, keys)
			if err != nil {
				keyErr = err
				return false
			}
			kj, err := safeKey(current[j].row, keys)
			if err != nil {
				keyErr = err
				return false
			}
			return ki.Compare(kj) < 0
		})
		if keyErr != nil {
			return keyErr
		}
		if err := openStore(); err != nil {
			return err
		}
		name := []byte(fmt.Sprintf("chunk-%08d", len(chunkNames)))
		encoded := make([][]byte, len(current))
		for i, sr := range current {
			body, err := encodeRow(sr.row)
			if err != nil {
				return cgerrors.WrapIO(err, "encode", string(name))
			}
			encoded[i] = encodeSeqRow(sr.seq, body)
		}
		if err := store.WriteChunk(name, encoded); err != nil {
			return cgerrors.WrapIO(err, "spill chunk", store.Path())
		}
		opts.Logger.Debug("external sort: spilled chunk",
			zap.String("chunk", string(name)),
			zap.Int("rows", len(current)),
			zap.String("bytes", humanize.Bytes(uint64(currentBytes))),
		)
		chunkNames = append(chunkNames, name)
		current = current[:0]
		currentBytes = 0
		return nil
	}

	abort := func(err error) Stream {
		if store != nil {
			_ = store.Remove()
		}
		return errStream(err)
	}

	for {
		row, err := upstream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return abort(err)
		}
		current = append(current, seqRow{row: row, seq: nextSeq})
		nextSeq++
		currentBytes += estimateRowBytes(row)
		if currentBytes >= opts.ChunkBytes {
			if err := spillCurrent(); err != nil {
				return abort(err)
			}
		}
	}
	_ = upstream.Close()

	if store == nil {
		rows := make([]Row, len(current))
		for i, sr := range current {
			rows[i] = sr.row
		}
		if err := sortRowsStable(rows, keys); err != nil {
			return errStream(err)
		}
		return newSliceStream(rows)
	}

	if err := spillCurrent(); err != nil {
		return abort(err)
	}

	ms, err := newMergeStream(store, chunkNames, keys, opts.Logger)
	if err != nil {
		return abort(err)
	}
	return ms
}

// encodeSeqRow prefixes row with its original upstream sequence number (big
// endian, 8 bytes), so the merge phase can break key ties by original
// arrival order across chunks, preserving global stability.
func encodeSeqRow(seq int64, row []byte) []byte {
	out := make([]byte, 8+len(row))
	binary.BigEndian.PutUint64(out[:8], uint64(seq))
	copy(out[8:], row)
	return out
}

func decodeSeqRow(data []byte) (int64, Row, error) {
	if len(data) < 8 {
		return 0, nil, fmt.Errorf("spill record too short: %d bytes", len(data))
	}
	seq := int64(binary.BigEndian.Uint64(data[:8]))
	row, err := decodeRow(data[8:])
	if err != nil {
		return 0, nil, err
	}
	return seq, row, nil
}

// mergeItem is one chunk's current head row, tracked by the merge heap.
type mergeItem struct {
	row Row
	key KeyTuple
	seq int64
	cur *spillstore.Cursor
}

type mergeHeap struct {
	items []*mergeItem
	keys  []string
	err   error
}

func (h *mergeHeap) Len() int { return len(h.items) }

func (h *mergeHeap) Less(i, j int) bool {
	c := h.items[i].key.Compare(h.items[j].key)
	if c != 0 {
		return c < 0
	}
	return h.items[i].seq < h.items[j].seq
}

func (h *mergeHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *mergeHeap) Push(x interface{}) { h.items = append(h.items, x.(*mergeItem)) }

func (h *mergeHeap) Pop() interface{} {
	n := len(h.items)
	item := h.items[n-1]
	h.items = h.items[:n-1]
	return item
}

func (h *mergeHeap) pull(item *mergeItem) bool {
	data, ok := item.cur.Next()
	if !ok {
		return false
	}
	seq, row, err := decodeSeqRow(data)
	if err != nil {
		h.err = cgerrors.WrapIO(err, "decode spill record", "")
		return false
	}
	item.row = row
	item.seq = seq
	item.key = row.Key(h.keys)
	return true
}

// mergeStream is external sort's k-way merge phase: a Stream over all
// spilled chunks, ascending by key tuple, stable on ties via original
// sequence number.
type mergeStream struct {
	store  *spillstore.Store
	tx     *spillstore.MergeTx
	heap   *mergeHeap
	closed bool
}

func newMergeStream(store *spillstore.Store, chunkNames [][]byte, keys []string, logger *zap.Logger) (Stream, error) {
	tx, err := store.BeginMerge()
	if err != nil {
		return nil, err
	}
	h := &mergeHeap{keys: keys}
	for _, name := range chunkNames {
		cur := tx.Cursor(name)
		if cur == nil {
			continue
		}
		item := &mergeItem{cur: cur}
		if h.pull(item) {
			h.items = append(h.items, item)
		}
	}
	if h.err != nil {
		_ = tx.Rollback()
		return nil, h.err
	}
	heap.Init(h)
	logger.Debug("external sort: starting k-way merge", zap.Int("chunks", len(chunkNames)))
	return &mergeStream{store: store, tx: tx, heap: h}, nil
}

func (m *mergeStream) Next() (Row, error) {
	if m.heap.Len() == 0 {
		m.cleanup()
		return nil, io.EOF
	}
	item := heap.Pop(m.heap).(*mergeItem)
	result := item.row
	if m.heap.pull(item) {
		heap.Push(m.heap, item)
	} else if m.heap.err != nil {
		err := m.heap.err
		m.cleanup()
		return nil, err
	}
	return result, nil
}

func (m *mergeStream) cleanup() {
	if m.closed {
		return
	}
	m.closed = true
	_ = m.tx.Rollback()
	_ = m.store.Remove()
}

func (m *mergeStream) Close() error {
	m.cleanup()
	return nil
}
