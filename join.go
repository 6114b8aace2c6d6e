package compgraph

import "io"

// groupCursor walks a sorted Stream one equal-key run at a time; takeGroup
// buffers the whole current run (the "group") in memory.
type groupCursor struct {
	upstream  Stream
	keys      []string
	lookahead Row
	lookKey   KeyTuple
	lookDigest uint64
	atEOF     bool
	err       error
}

func newGroupCursor(upstream Stream, keys []string) *groupCursor {
	c := &groupCursor{upstream: upstream, keys: keys}
	c.advance()
	return c
}

// advance pulls the next row into the lookahead slot.
func (c *groupCursor) advance() {
	row, err := c.upstream.Next()
	if err == io.EOF {
		c.atEOF = true
		c.lookahead = nil
		return
	}
	if err != nil {
		c.err = err
		c.atEOF = true
		return
	}
	key, err := safeKey(row, c.keys)
	if err != nil {
		c.err = err
		c.atEOF = true
		return
	}
	c.lookahead = row
	c.lookKey = key
	c.lookDigest = keyDigest(c.lookKey)
}

// done reports whether the cursor has no current group (exhausted).
func (c *groupCursor) done() bool { return c.atEOF }

// key returns the key tuple of the current (not-yet-consumed) group.
func (c *groupCursor) key() KeyTuple { return c.lookKey }

// takeGroup drains every row sharing the current lookahead's key tuple into
// a Stream and advances past them, ready for the next group.
func (c *groupCursor) takeGroup() Stream {
	if c.atEOF {
		return newSliceStream(nil)
	}
	key := c.lookKey
	digest := c.lookDigest
	var rows []Row
	for !c.atEOF && c.lookDigest == digest && c.lookKey.Equal(key) {
		rows = append(rows, c.lookahead)
		c.advance()
	}
	return newSliceStream(rows)
}

var emptyGroupSentinel = []Row{{}}

// joinStream is the Join stream operator: it merges two sorted streams A
// and B on keys, grouping each into equal-key runs and walking both group
// cursors in lockstep, calling joiner per matched/unmatched group.
type joinStream struct {
	joiner Joiner
	keys   []string
	left   *groupCursor
	right  *groupCursor
	pending Stream
	started bool
}

// Join lifts a Joiner into a Stream transformer over two sorted streams.
func Join(joiner Joiner, keys []string, left, right Stream) Stream {
	return &joinStream{
		joiner: joiner,
		keys:   keys,
		left:   newGroupCursor(left, keys),
		right:  newGroupCursor(right, keys),
	}
}

func (j *joinStream) Next() (Row, error) {
	for {
		if j.pending != nil {
			row, err := j.pending.Next()
			if err == nil {
				return row, nil
			}
			if err != io.EOF {
				return nil, err
			}
			j.pending = nil
		}

		if j.left.err != nil {
			return nil, j.left.err
		}
		if j.right.err != nil {
			return nil, j.right.err
		}

		switch {
		case j.left.done() && j.right.done():
			return nil, io.EOF
		case j.left.done():
			group := j.right.takeGroup()
			j.pending = j.joiner.Join(j.keys, newSliceStream(emptyGroupSentinel), group)
		case j.right.done():
			group := j.left.takeGroup()
			j.pending = j.joiner.Join(j.keys, group, newSliceStream(emptyGroupSentinel))
		case j.left.key().Compare(j.right.key()) < 0:
			group := j.left.takeGroup()
			j.pending = j.joiner.Join(j.keys, group, newSliceStream(emptyGroupSentinel))
		case j.right.key().Compare(j.left.key()) < 0:
			group := j.right.takeGroup()
			j.pending = j.joiner.Join(j.keys, newSliceStream(emptyGroupSentinel), group)
		default:
			leftGroup := j.left.takeGroup()
			rightGroup := j.right.takeGroup()
			j.pending = j.joiner.Join(j.keys, leftGroup, rightGroup)
		}
	}
}

func (j *joinStream) Close() error {
	var err error
	if e := j.left.upstream.Close(); e != nil {
		err = e
	}
	if e := j.right.upstream.Close(); e != nil && err == nil {
		err = e
	}
	return err
}
