package catalog_test

import (
	"io"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nightsea987/compgraph"
	"github.com/nightsea987/compgraph/catalog"
)

func runGraph(t *testing.T, graph *compgraph.Graph, sources map[string]func() compgraph.Stream) []compgraph.Row {
	t.Helper()
	exec := &compgraph.Executor{}
	out, err := exec.Run(graph, sources)
	require.NoError(t, err)

	var rows []compgraph.Row
	for {
		row, err := out.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
	require.NoError(t, out.Close())
	return rows
}

func TestWordCountGraphCountsAndSortsWords(t *testing.T) {
	docs := []compgraph.Row{
		compgraph.NewRow("doc_id", 1, "text", "hello, my little WORLD"),
		compgraph.NewRow("doc_id", 2, "text", "Hello, my little little hell"),
	}

	graph := catalog.WordCountGraph("docs", "text", "count")
	rows := runGraph(t, graph, map[string]func() compgraph.Stream{
		"docs": func() compgraph.Stream { return newRowStream(docs) },
	})

	require.Len(t, rows, 5)
	require.Equal(t, "hell", rows[0]["text"].Str())
	require.Equal(t, int64(1), rows[0]["count"].Int())
	require.Equal(t, "little", rows[4]["text"].Str())
	require.Equal(t, int64(3), rows[4]["count"].Int())
}

func sixDocFixture() []compgraph.Row {
	return []compgraph.Row{
		compgraph.NewRow("doc_id", 1, "text", "hello, little world"),
		compgraph.NewRow("doc_id", 2, "text", "little"),
		compgraph.NewRow("doc_id", 3, "text", "little little little"),
		compgraph.NewRow("doc_id", 4, "text", "little? hello little world"),
		compgraph.NewRow("doc_id", 5, "text", "HELLO HELLO! WORLD..."),
		compgraph.NewRow("doc_id", 6, "text", "world? world... world!!! WORLD!!! HELLO!!!"),
	}
}

type tfidfExpectation struct {
	docID int64
	word  string
	score float64
}

func TestInvertedIndexGraphComputesTFIDFTop3(t *testing.T) {
	docs := sixDocFixture()
	graph := catalog.InvertedIndexGraph("docs", "doc_id", "text", "tf_idf")
	rows := runGraph(t, graph, map[string]func() compgraph.Stream{
		"docs": func() compgraph.Stream { return newRowStream(docs) },
	})

	want := []tfidfExpectation{
		{1, "hello", 0.1352},
		{1, "world", 0.1352},
		{2, "little", 0.4055},
		{3, "little", 0.4055},
		{4, "hello", 0.1014},
		{4, "little", 0.2027},
		{5, "hello", 0.2703},
		{5, "world", 0.1352},
		{6, "world", 0.3244},
	}

	for _, w := range want {
		found := false
		for _, row := range rows {
			if row["doc_id"].Int() == w.docID && row["text"].Str() == w.word {
				require.InDelta(t, w.score, row["tf_idf"].Float(), 0.001,
					"doc_id=%d text=%s", w.docID, w.word)
				found = true
				break
			}
		}
		require.True(t, found, "missing expected row doc_id=%d text=%s", w.docID, w.word)
	}
}

func TestPMIGraphRanksTopWordsByMutualInformation(t *testing.T) {
	docs := []compgraph.Row{
		compgraph.NewRow("doc_id", 1, "text", "hello, little world"),
		compgraph.NewRow("doc_id", 2, "text", "little"),
		compgraph.NewRow("doc_id", 3, "text", "little little little"),
		compgraph.NewRow("doc_id", 4, "text", "little? hello little world"),
		compgraph.NewRow("doc_id", 5, "text", "HELLO HELLO! WORLD..."),
		compgraph.NewRow("doc_id", 6, "text", "world? world... world!!! WORLD!!!! HELLO!!! HELLO!!!!!!!"),
	}
	graph := catalog.PMIGraph("docs", "doc_id", "text", "pmi")
	rows := runGraph(t, graph, map[string]func() compgraph.Stream{
		"docs": func() compgraph.Stream { return newRowStream(docs) },
	})

	want := []tfidfExpectation{
		{3, "little", 0.9555},
		{4, "little", 0.9555},
		{5, "hello", 1.1787},
		{6, "world", 0.7732},
		{6, "hello", 0.0800},
	}

	for _, w := range want {
		found := false
		for _, row := range rows {
			if row["doc_id"].Int() == w.docID && row["text"].Str() == w.word {
				require.InDelta(t, w.score, row["pmi"].Float(), 0.001,
					"doc_id=%d text=%s", w.docID, w.word)
				found = true
				break
			}
		}
		require.True(t, found, "missing expected row doc_id=%d text=%s", w.docID, w.word)
	}
}

func TestYandexMapsGraphAveragesSpeedByWeekdayAndHour(t *testing.T) {
	lengths := []compgraph.Row{
		rowWithCoords(37.84870228730142, 55.73853974696249, 37.8490418381989, 55.73832445777953, 8414926848168493057),
		rowWithCoords(37.524768467992544, 55.88785375468433, 37.52415172755718, 55.88807155843824, 5342768494149337085),
	}
	times := []compgraph.Row{
		compgraph.NewRow("edge_id", int64(8414926848168493057), "enter_time", "20171020T112237.427000", "leave_time", "20171020T112238.723000"),
		compgraph.NewRow("edge_id", int64(8414926848168493057), "enter_time", "20171011T145551.957000", "leave_time", "20171011T145553.040000"),
		compgraph.NewRow("edge_id", int64(8414926848168493057), "enter_time", "20171020T090547.463000", "leave_time", "20171020T090548.939000"),
		compgraph.NewRow("edge_id", int64(8414926848168493057), "enter_time", "20171024T144059.102000", "leave_time", "20171024T144101.879000"),
		compgraph.NewRow("edge_id", int64(5342768494149337085), "enter_time", "20171022T131820.842000", "leave_time", "20171022T131828.330000"),
		compgraph.NewRow("edge_id", int64(5342768494149337085), "enter_time", "20171014T134825.215000", "leave_time", "20171014T134826.836000"),
		compgraph.NewRow("edge_id", int64(5342768494149337085), "enter_time", "20171010T060608.344000", "leave_time", "20171010T060609.897000"),
		compgraph.NewRow("edge_id", int64(5342768494149337085), "enter_time", "20171027T082557.571000", "leave_time", "20171027T082600.201000"),
	}

	graph := catalog.YandexMapsGraph("times", "lengths")
	rows := runGraph(t, graph, map[string]func() compgraph.Stream{
		"times":   func() compgraph.Stream { return newRowStream(times) },
		"lengths": func() compgraph.Stream { return newRowStream(lengths) },
	})

	sort.Slice(rows, func(i, j int) bool {
		if rows[i]["weekday"].Str() != rows[j]["weekday"].Str() {
			return rows[i]["weekday"].Str() < rows[j]["weekday"].Str()
		}
		return rows[i]["hour"].Int() < rows[j]["hour"].Int()
	})

	type expectation struct {
		weekday string
		hour    int64
		speed   float64
	}
	want := []expectation{
		{"Fri", 8, 62.2323},
		{"Fri", 9, 78.1070},
		{"Fri", 11, 88.9552},
		{"Sat", 13, 100.9691},
		{"Sun", 13, 21.8578},
		{"Tue", 6, 105.3901},
		{"Tue", 14, 41.5146},
		{"Wed", 14, 106.4506},
	}
	require.Len(t, rows, len(want))

	for _, w := range want {
		found := false
		for _, row := range rows {
			if row["weekday"].Str() == w.weekday && row["hour"].Int() == w.hour {
				require.InDelta(t, w.speed, row["speed"].Float(), 0.001,
					"weekday=%s hour=%d", w.weekday, w.hour)
				found = true
				break
			}
		}
		require.True(t, found, "missing expected row weekday=%s hour=%d", w.weekday, w.hour)
	}
}

func rowWithCoords(startLon, startLat, endLon, endLat float64, edgeID int64) compgraph.Row {
	return compgraph.NewRow(
		"edge_id", edgeID,
		"start", []float64{startLon, startLat},
		"end", []float64{endLon, endLat},
	)
}

// rowStream is a minimal in-memory compgraph.Stream for catalog tests,
// package-external so it cannot reach compgraph's internal sliceStream.
type rowStream struct {
	rows []compgraph.Row
	pos  int
}

func newRowStream(rows []compgraph.Row) *rowStream {
	return &rowStream{rows: append([]compgraph.Row(nil), rows...)}
}

func (s *rowStream) Next() (compgraph.Row, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	r := s.rows[s.pos]
	s.pos++
	return r, nil
}

func (s *rowStream) Close() error { return nil }
