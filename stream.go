package compgraph

import "io"

// Stream is a lazy, single-pass pull iterator over rows. Next returns
// io.EOF once exhausted. Close releases any resources the stream holds
// (open files, spill databases) and must be safe to call more than once
// and safe to call before exhaustion.
type Stream interface {
	Next() (Row, error)
	Close() error
}

// sliceStream adapts an in-memory slice of rows to Stream, used for small
// intermediate results (e.g. a join's buffered right-hand group).
type sliceStream struct {
	rows []Row
	pos  int
}

func newSliceStream(rows []Row) *sliceStream { return &sliceStream{rows: rows} }

func (s *sliceStream) Next() (Row, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	r := s.rows[s.pos]
	s.pos++
	return r, nil
}

func (s *sliceStream) Close() error { return nil }

// funcStream adapts a next/close pair of closures to Stream; used by the
// file source and by errStream, which compute rows on demand without
// needing their own named type.
type funcStream struct {
	next  func() (Row, error)
	close func() error
}

func (s *funcStream) Next() (Row, error) { return s.next() }
func (s *funcStream) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// drain reads a Stream to exhaustion into a slice. Used where an operator
// is expected to buffer (a joiner's groups, a TopN group) rather than
// where a faithful streaming implementation would avoid it.
func drain(s Stream) ([]Row, error) {
	var out []Row
	for {
		r, err := s.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
}

// mapStream applies a Mapper to each row of upstream, flattening the
// mapper's per-row output stream into the result. Map preserves input order
// and is fan-out-neutral.
type mapStream struct {
	upstream Stream
	mapper   Mapper
	pending  Stream
}

// Map lifts a Mapper into a Stream transformer.
func Map(upstream Stream, mapper Mapper) Stream {
	return &mapStream{upstream: upstream, mapper: mapper}
}

func (m *mapStream) Next() (Row, error) {
	for {
		if m.pending != nil {
			row, err := m.pending.Next()
			if err == nil {
				return row, nil
			}
			if err != io.EOF {
				return nil, err
			}
			m.pending = nil
		}

		row, err := m.upstream.Next()
		if err != nil {
			return nil, err
		}
		m.pending = m.mapper.Map(row)
	}
}

func (m *mapStream) Close() error {
	var err error
	if m.pending != nil {
		err = m.pending.Close()
	}
	if cerr := m.upstream.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
