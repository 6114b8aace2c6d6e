package compgraph

import "io"

// First emits only the first row of the run.
type First struct{}

func (First) Reduce(keys []string, group Stream) Stream {
	row, err := group.Next()
	if err == io.EOF {
		return newSliceStream(nil)
	}
	if err != nil {
		return errStream(err)
	}
	return newSliceStream([]Row{row})
}

// Count emits one row per group: the group's key columns plus Out set to
// the number of rows in the group.
type Count struct{ Out string }

func (r Count) Reduce(keys []string, group Stream) Stream {
	var n int64
	var keyRow Row
	for {
		row, err := group.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errStream(err)
		}
		if keyRow == nil {
			keyRow = row.Project(keys)
		}
		n++
	}
	if keyRow == nil {
		keyRow = Row{}
	}
	return newSliceStream([]Row{keyRow.With(r.Out, Int(n))})
}

// Sum emits the group's key columns plus Column set to the numeric sum of
// Column across the group, keeping the same column name.
type Sum struct{ Column string }

func (r Sum) Reduce(keys []string, group Stream) Stream {
	var sum float64
	var keyRow Row
	for {
		row, err := group.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errStream(err)
		}
		if keyRow == nil {
			keyRow = row.Project(keys)
		}
		f, _ := row[r.Column].AsFloat()
		sum += f
	}
	if keyRow == nil {
		keyRow = Row{}
	}
	return newSliceStream([]Row{keyRow.With(r.Column, Float(sum))})
}

// Average emits the group's key columns plus Column set to the arithmetic
// mean of Column across the group.
type Average struct{ Column string }

func (r Average) Reduce(keys []string, group Stream) Stream {
	var sum float64
	var n int64
	var keyRow Row
	for {
		row, err := group.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errStream(err)
		}
		if keyRow == nil {
			keyRow = row.Project(keys)
		}
		f, _ := row[r.Column].AsFloat()
		sum += f
		n++
	}
	if keyRow == nil {
		keyRow = Row{}
	}
	avg := 0.0
	if n > 0 {
		avg = sum / float64(n)
	}
	return newSliceStream([]Row{keyRow.With(r.Column, Float(avg))})
}

// TopN emits up to N rows with the greatest Column value, in descending
// order; ties are broken stably by original arrival order.
type TopN struct {
	Column string
	N      int
}

func (r TopN) Reduce(keys []string, group Stream) Stream {
	rows, err := drain(group)
	if err != nil {
		return errStream(err)
	}
	// Stable insertion-ordered partial sort: decorate with original index
	// so equal-Column rows keep arrival order, matching nlargest's stability.
	type indexed struct {
		row Row
		idx int
	}
	decorated := make([]indexed, len(rows))
	for i, row := range rows {
		decorated[i] = indexed{row: row, idx: i}
	}
	less := func(i, j int) bool {
		fi, _ := decorated[i].row[r.Column].AsFloat()
		fj, _ := decorated[j].row[r.Column].AsFloat()
		if fi != fj {
			return fi > fj
		}
		return decorated[i].idx < decorated[j].idx
	}
	// Simple stable insertion sort; groups are expected small relative to
	// the whole stream, since TopN is always used after a reduce that has
	// already shrunk the data.
	for i := 1; i < len(decorated); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			decorated[j], decorated[j-1] = decorated[j-1], decorated[j]
		}
	}
	n := r.N
	if n > len(decorated) {
		n = len(decorated)
	}
	out := make([]Row, n)
	for i := 0; i < n; i++ {
		out[i] = decorated[i].row
	}
	return newSliceStream(out)
}

// TermFrequency emits, for each distinct value of WordCol in the group, the
// group's key columns plus WordCol=w plus Out=count(w)/groupSize. With an
// empty key list, every row belongs to the single empty-key-tuple group, so
// frequencies are computed over the entire stream.
type TermFrequency struct {
	WordCol string
	Out     string // default "tf"
}

func (r TermFrequency) Reduce(keys []string, group Stream) Stream {
	counts := make(map[string]int)
	var order []string
	var keyRow Row
	var total int
	for {
		row, err := group.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errStream(err)
		}
		if keyRow == nil {
			keyRow = row.Project(keys)
		}
		word := row[r.WordCol].Str()
		if _, seen := counts[word]; !seen {
			order = append(order, word)
		}
		counts[word]++
		total++
	}
	if keyRow == nil {
		keyRow = Row{}
	}
	out := r.Out
	if out == "" {
		out = "tf"
	}
	rows := make([]Row, 0, len(order))
	for _, word := range order {
		row := keyRow.Clone()
		row[r.WordCol] = String(word)
		row[out] = Float(float64(counts[word]) / float64(total))
		rows = append(rows, row)
	}
	return newSliceStream(rows)
}
