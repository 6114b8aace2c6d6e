package compgraph

// Mapper transforms one row into zero or more rows. A Mapper must not
// retain the row it is given; if it needs to mutate, it must Clone first.
type Mapper interface {
	Map(row Row) Stream
}

// Reducer consumes a contiguous run of rows sharing a key tuple and emits
// zero or more rows. A Reducer is not required to include the grouping
// keys in its output.
type Reducer interface {
	Reduce(keys []string, group Stream) Stream
}

// Joiner combines two aligned groups — rows from stream A and stream B that
// share a key tuple, or one side's sentinel empty group — into zero or more
// merged rows. The Join stream operator hands over each group already
// buffered in memory, and the built-in joiners drain both sides.
type Joiner interface {
	Join(keys []string, a, b Stream) Stream
}

// MapperFunc adapts a plain function to Mapper, the same function-as-
// single-method-interface idiom as http.HandlerFunc.
type MapperFunc func(Row) Stream

func (f MapperFunc) Map(row Row) Stream { return f(row) }
