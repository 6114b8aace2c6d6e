package compgraph

import "sort"

// Row is an unordered mapping from column name to Value, the transport unit
// of the pipeline. Column order is not observable; Row is a value type in
// spirit — operators that mutate must Clone first.
type Row map[string]Value

// NewRow builds a Row from the given name/value pairs, for convenient
// construction in tests and catalog graphs.
func NewRow(kv ...interface{}) Row {
	r := make(Row, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		name := kv[i].(string)
		switch val := kv[i+1].(type) {
		case Value:
			r[name] = val
		default:
			r[name] = coerce(val)
		}
	}
	return r
}

// coerce converts a handful of common Go scalar types into Value, so
// catalog graphs and tests can write NewRow("a", 1, "b", "x") instead of
// NewRow("a", compgraph.Int(1), "b", compgraph.String("x")).
func coerce(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int64:
		return Int(x)
	case float64:
		return Float(x)
	case string:
		return String(x)
	case []Value:
		return Seq(x)
	case []float64:
		vs := make([]Value, len(x))
		for i, f := range x {
			vs[i] = Float(f)
		}
		return Seq(vs)
	case Row:
		return RowValue(x)
	default:
		return Null()
	}
}

// Clone returns a shallow copy whose top-level map is independent of the
// receiver's; mappers that mutate a row must call this before writing.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// With returns a clone of r with name set to v, leaving r untouched. The
// idiomatic way catalog mappers produce their output row.
func (r Row) With(name string, v Value) Row {
	out := r.Clone()
	out[name] = v
	return out
}

// Project returns a new row containing only the listed columns (used by
// the Project mapper and by the catalog reducers to carry a group's key
// columns).
func (r Row) Project(columns []string) Row {
	out := make(Row, len(columns))
	for _, c := range columns {
		if v, ok := r[c]; ok {
			out[c] = v
		}
	}
	return out
}

// Key extracts the key tuple for the given column list. Missing columns
// yield Null.
func (r Row) Key(columns []string) KeyTuple {
	kt := make(KeyTuple, len(columns))
	for i, c := range columns {
		if v, ok := r[c]; ok {
			kt[i] = v
		} else {
			kt[i] = Null()
		}
	}
	return kt
}

// sortedColumns returns the row's column names in ascending order, used by
// the total-order row comparator.
func (r Row) sortedColumns() []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// KeyTuple is the ordered projection of a row onto a key-column list.
// KeyTuples are compared with Compare, which applies Value's total order
// component-wise.
type KeyTuple []Value

// Compare returns -1, 0, or 1 under KeyTuple's lexicographic order.
func (k KeyTuple) Compare(other KeyTuple) int {
	n := len(k)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if c := compareValues(k[i], other[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(k) < len(other):
		return -1
	case len(k) > len(other):
		return 1
	default:
		return 0
	}
}

// Equal reports whether two key tuples compare equal.
func (k KeyTuple) Equal(other KeyTuple) bool {
	return k.Compare(other) == 0
}
