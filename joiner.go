package compgraph

import (
	"github.com/cespare/xxhash/v2"
)

// mergeRows implements the column-collision merge rule: a column present
// in both a and b and not in keys is renamed to name+suffixA / name+suffixB;
// a column present in only one side keeps its name; key columns keep their
// name and come from whichever side has them.
func mergeRows(keys []string, a, b Row, suffixA, suffixB string) Row {
	keySet := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keySet[k] = struct{}{}
	}

	collisions := make(map[string]struct{})
	for col := range a {
		if _, isKey := keySet[col]; isKey {
			continue
		}
		if _, inB := b[col]; inB {
			collisions[col] = struct{}{}
		}
	}

	out := make(Row, len(a)+len(b))
	for col, v := range a {
		if _, collide := collisions[col]; collide {
			continue
		}
		out[col] = v
	}
	for col, v := range b {
		if _, collide := collisions[col]; collide {
			continue
		}
		out[col] = v
	}
	for col := range collisions {
		out[col+suffixA] = a[col]
		out[col+suffixB] = b[col]
	}
	for _, k := range keys {
		if v, ok := a[k]; ok {
			out[k] = v
		} else if v, ok := b[k]; ok {
			out[k] = v
		}
	}
	return out
}

// baseJoiner carries the suffixes shared by all four strategies (default:
// _1, _2) and the mergeRows helper.
type baseJoiner struct {
	SuffixA, SuffixB string
}

func (j baseJoiner) suffixes() (string, string) {
	a, b := j.SuffixA, j.SuffixB
	if a == "" {
		a = "_1"
	}
	if b == "" {
		b = "_2"
	}
	return a, b
}

func (j baseJoiner) merge(keys []string, a, b Row) Row {
	sa, sb := j.suffixes()
	return mergeRows(keys, a, b, sa, sb)
}

// isEmptyGroup reports whether a group is the single-row, zero-column
// sentinel used in place of an unmatched side.
func isEmptyGroup(rows []Row) bool {
	return len(rows) == 1 && len(rows[0]) == 0
}

// InnerJoiner emits a merged row for every pair (a,b) only when the key
// matches on both sides; unmatched groups emit nothing.
type InnerJoiner struct{ baseJoiner }

func (j InnerJoiner) Join(keys []string, a, b Stream) Stream {
	left, err := drain(a)
	if err != nil {
		return errStream(err)
	}
	right, err := drain(b)
	if err != nil {
		return errStream(err)
	}
	if isEmptyGroup(left) || isEmptyGroup(right) {
		return newSliceStream(nil)
	}
	var out []Row
	for _, la := range left {
		for _, rb := range right {
			out = append(out, j.merge(keys, la, rb))
		}
	}
	return newSliceStream(out)
}

// OuterJoiner emits the inner cross product on matched keys; for a key
// present on only one side, it emits each of that side's rows merged with
// an empty counterpart.
type OuterJoiner struct{ baseJoiner }

func (j OuterJoiner) Join(keys []string, a, b Stream) Stream {
	left, err := drain(a)
	if err != nil {
		return errStream(err)
	}
	right, err := drain(b)
	if err != nil {
		return errStream(err)
	}
	leftEmpty, rightEmpty := isEmptyGroup(left), isEmptyGroup(right)

	var out []Row
	switch {
	case leftEmpty && rightEmpty:
		// unreachable: the Join stream operator never calls with both sides empty.
	case leftEmpty:
		for _, rb := range right {
			out = append(out, j.merge(keys, Row{}, rb))
		}
	case rightEmpty:
		for _, la := range left {
			out = append(out, j.merge(keys, la, Row{}))
		}
	default:
		for _, la := range left {
			for _, rb := range right {
				out = append(out, j.merge(keys, la, rb))
			}
		}
	}
	return newSliceStream(out)
}

// LeftJoiner emits the cross product for matched keys; for keys present
// only on the left it emits left rows with an empty counterpart; rows only
// on the right are dropped.
type LeftJoiner struct{ baseJoiner }

func (j LeftJoiner) Join(keys []string, a, b Stream) Stream {
	left, err := drain(a)
	if err != nil {
		return errStream(err)
	}
	right, err := drain(b)
	if err != nil {
		return errStream(err)
	}
	if isEmptyGroup(left) {
		return newSliceStream(nil)
	}
	var out []Row
	if isEmptyGroup(right) {
		for _, la := range left {
			out = append(out, j.merge(keys, la, Row{}))
		}
		return newSliceStream(out)
	}
	for _, la := range left {
		for _, rb := range right {
			out = append(out, j.merge(keys, la, rb))
		}
	}
	return newSliceStream(out)
}

// RightJoiner is symmetric to LeftJoiner.
type RightJoiner struct{ baseJoiner }

func (j RightJoiner) Join(keys []string, a, b Stream) Stream {
	left, err := drain(a)
	if err != nil {
		return errStream(err)
	}
	right, err := drain(b)
	if err != nil {
		return errStream(err)
	}
	if isEmptyGroup(right) {
		return newSliceStream(nil)
	}
	var out []Row
	if isEmptyGroup(left) {
		for _, rb := range right {
			out = append(out, j.merge(keys, Row{}, rb))
		}
		return newSliceStream(out)
	}
	for _, la := range left {
		for _, rb := range right {
			out = append(out, j.merge(keys, la, rb))
		}
	}
	return newSliceStream(out)
}

// keyDigest computes a fast 64-bit digest of a key tuple's string
// representation, used by the Join stream operator (join.go) to cheaply
// pre-screen group-key equality on wide key tuples before falling back to
// KeyTuple.Compare's total order — an xxhash-backed short-circuit rather
// than a replacement for the order itself (a digest collision must still
// fall through to Compare).
func keyDigest(kt KeyTuple) uint64 {
	h := xxhash.New()
	for _, v := range kt {
		h.WriteString(v.String())
		h.Write([]byte{0})
	}
	return h.Sum64()
}
