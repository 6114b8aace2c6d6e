// Package catalog assembles compgraph's engine primitives into four
// reference pipelines: word count, TF-IDF, pointwise mutual information,
// and average road speed.
package catalog

import "github.com/nightsea987/compgraph"

// WordCountGraph counts occurrences of each word in textColumn across all
// input rows, sorted ascending by (count, word).
func WordCountGraph(inputStreamName, textColumn, countColumn string) *compgraph.Graph {
	return compgraph.GraphFromIter(inputStreamName).
		Map(compgraph.FilterPunctuation{Column: textColumn}).
		Map(compgraph.LowerCase{Column: textColumn}).
		Map(compgraph.Split{Column: textColumn}).
		Sort([]string{textColumn}).
		Reduce(compgraph.Count{Out: countColumn}, []string{textColumn}).
		Sort([]string{countColumn, textColumn})
}

// InvertedIndexGraph computes TF-IDF for every (word, document) pair and
// keeps the top 3 documents per word by score.
func InvertedIndexGraph(inputStreamName, docColumn, textColumn, resultColumn string) *compgraph.Graph {
	graph := compgraph.GraphFromIter(inputStreamName)

	splitWord := graph.
		Map(compgraph.LowerCase{Column: textColumn}).
		Map(compgraph.FilterPunctuation{Column: textColumn}).
		Map(compgraph.Split{Column: textColumn})

	const totalDocsColumn, docsWordPresent = "total_number_docs", "docs_word_present"

	countDocs := graph.Reduce(compgraph.Count{Out: totalDocsColumn}, nil)

	countIDF := splitWord.
		Sort([]string{docColumn, textColumn}).
		Reduce(compgraph.First{}, []string{docColumn, textColumn}).
		Sort([]string{textColumn}).
		Reduce(compgraph.Count{Out: docsWordPresent}, []string{textColumn}).
		Join(compgraph.InnerJoiner{}, countDocs, nil).
		Map(compgraph.InverseDocumentFrequency{TotalCol: totalDocsColumn, DocsCol: docsWordPresent, Out: "idf"}).
		Sort([]string{textColumn})

	tf := splitWord.
		Sort([]string{docColumn}).
		Reduce(compgraph.TermFrequency{WordCol: textColumn, Out: "tf"}, []string{docColumn}).
		Sort([]string{textColumn})

	return tf.
		Join(compgraph.InnerJoiner{}, countIDF, []string{textColumn}).
		Map(compgraph.Product{Columns: []string{"tf", "idf"}, Out: resultColumn}).
		Sort([]string{textColumn}).
		Map(compgraph.Project{Columns: []string{textColumn, docColumn, resultColumn}}).
		Reduce(compgraph.TopN{Column: resultColumn, N: 3}, []string{textColumn})
}

// PMIGraph computes, for every document, the top 10 words (length >= 4,
// occurring at least twice in that document) ranked by pointwise mutual
// information between the word and the document.
func PMIGraph(inputStreamName, docColumn, textColumn, resultColumn string) *compgraph.Graph {
	graph := compgraph.GraphFromIter(inputStreamName)

	splitWord := graph.
		Map(compgraph.LowerCase{Column: textColumn}).
		Map(compgraph.FilterPunctuation{Column: textColumn}).
		Map(compgraph.Split{Column: textColumn}).
		Sort([]string{docColumn, textColumn})

	const countColumn, tfAllColumn, idfTotalDocsColumn = "count_column", "tf_all_column", "tf"

	countDocWords := splitWord.Reduce(compgraph.Count{Out: countColumn}, []string{docColumn, textColumn})

	wordsFiltered := splitWord.
		Join(compgraph.OuterJoiner{}, countDocWords, []string{docColumn, textColumn}).
		Map(compgraph.Filter{Pred: func(row compgraph.Row) bool {
			count, _ := row[countColumn].AsFloat()
			return count >= 2 && len(row[textColumn].Str()) >= 4
		}})

	tf := wordsFiltered.
		Sort([]string{docColumn}).
		Reduce(compgraph.TermFrequency{WordCol: textColumn, Out: "tf"}, []string{docColumn}).
		Sort([]string{textColumn})

	allTF := wordsFiltered.
		Reduce(compgraph.TermFrequency{WordCol: textColumn, Out: tfAllColumn}, nil).
		Map(compgraph.Project{Columns: []string{tfAllColumn, textColumn}}).
		Sort([]string{textColumn})

	return tf.
		Join(compgraph.OuterJoiner{}, allTF, []string{textColumn}).
		Map(compgraph.InverseDocumentFrequency{TotalCol: idfTotalDocsColumn, DocsCol: tfAllColumn, Out: resultColumn}).
		Sort([]string{docColumn}).
		Map(compgraph.Project{Columns: []string{textColumn, docColumn, resultColumn}}).
		Reduce(compgraph.TopN{Column: resultColumn, N: 10}, []string{docColumn})
}

// YandexMapsGraph measures average road speed (km/h) bucketed by weekday
// and hour of day, joining one stream of edge enter/leave timestamps
// against another of edge start/end coordinates.
func YandexMapsGraph(inputStreamNameTime, inputStreamNameLength string) *compgraph.Graph {
	const (
		enterTimeColumn   = "enter_time"
		leaveTimeColumn   = "leave_time"
		edgeIDColumn      = "edge_id"
		startCoordColumn  = "start"
		endCoordColumn    = "end"
		weekdayResultCol  = "weekday"
		hourResultCol     = "hour"
		speedResultColumn = "speed"
	)

	graphTime := compgraph.GraphFromIter(inputStreamNameTime)

	graphLength := compgraph.GraphFromIter(inputStreamNameLength).
		Map(compgraph.HaversineDistance{StartCol: startCoordColumn, EndCol: endCoordColumn, Out: "distance"}).
		Sort([]string{edgeIDColumn})

	return graphTime.
		Sort([]string{edgeIDColumn}).
		Map(compgraph.RoadTime{EnterCol: enterTimeColumn, LeaveCol: leaveTimeColumn, Out: "road_time"}).
		Map(compgraph.Hour{Col: enterTimeColumn, Out: hourResultCol}).
		Map(compgraph.Weekday{Col: enterTimeColumn, Out: weekdayResultCol}).
		Join(compgraph.InnerJoiner{}, graphLength, []string{edgeIDColumn}).
		Sort([]string{weekdayResultCol, hourResultCol}).
		Map(compgraph.Speed{DistCol: "distance", TimeCol: "road_time", Out: speedResultColumn}).
		Reduce(compgraph.Average{Column: speedResultColumn}, []string{weekdayResultCol, hourResultCol}).
		Map(compgraph.Project{Columns: []string{weekdayResultCol, hourResultCol, speedResultColumn}})
}
