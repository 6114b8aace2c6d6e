package compgraph

import "io"

// reduceStream is the Reduce stream operator: it partitions an upstream
// sorted-by-keys Stream into maximal equal-key runs and, for each run,
// yields whatever the Reducer produces. The upstream must already be
// sorted by keys; reduceStream does not re-check this.
type reduceStream struct {
	upstream Stream
	reducer  Reducer
	keys     []string

	lookahead Row
	lookKey   KeyTuple
	atEOF     bool
	err       error

	pending Stream
}

// Reduce lifts a Reducer into a Stream transformer over an
// already-sorted-by-keys upstream.
func Reduce(upstream Stream, reducer Reducer, keys []string) Stream {
	r := &reduceStream{upstream: upstream, reducer: reducer, keys: keys}
	r.advance()
	return r
}

func (r *reduceStream) advance() {
	row, err := r.upstream.Next()
	if err == io.EOF {
		r.atEOF = true
		r.lookahead = nil
		return
	}
	if err != nil {
		r.err = err
		r.atEOF = true
		return
	}
	r.lookahead = row
	r.lookKey = row.Key(r.keys)
}

func (r *reduceStream) takeGroup() Stream {
	key := r.lookKey
	var rows []Row
	for !r.atEOF && r.lookKey.Equal(key) {
		rows = append(rows, r.lookahead)
		r.advance()
	}
	return newSliceStream(rows)
}

func (r *reduceStream) Next() (Row, error) {
	for {
		if r.pending != nil {
			row, err := r.pending.Next()
			if err == nil {
				return row, nil
			}
			if err != io.EOF {
				return nil, err
			}
			r.pending = nil
		}

		if r.err != nil {
			return nil, r.err
		}
		if r.atEOF {
			return nil, io.EOF
		}

		group := r.takeGroup()
		r.pending = r.reducer.Reduce(r.keys, group)
	}
}

func (r *reduceStream) Close() error {
	return r.upstream.Close()
}
