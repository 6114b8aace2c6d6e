package compgraph

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/nightsea987/compgraph/cgerrors"
)

// DummyMapper yields exactly the row it is given.
type DummyMapper struct{}

func (DummyMapper) Map(row Row) Stream { return newSliceStream([]Row{row}) }

var punctuationRunes = func() map[rune]struct{} {
	const ascii = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	m := make(map[rune]struct{}, len(ascii))
	for _, r := range ascii {
		m[r] = struct{}{}
	}
	return m
}()

// FilterPunctuation replaces column with itself minus ASCII punctuation
// characters.
type FilterPunctuation struct{ Column string }

func (m FilterPunctuation) Map(row Row) Stream {
	var b strings.Builder
	src := row[m.Column].Str()
	b.Grow(len(src))
	for _, r := range src {
		if _, punct := punctuationRunes[r]; !punct {
			b.WriteRune(r)
		}
	}
	return newSliceStream([]Row{row.With(m.Column, String(b.String()))})
}

// LowerCase ASCII-lowercases column.
type LowerCase struct{ Column string }

func (m LowerCase) Map(row Row) Stream {
	lower := strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, row[m.Column].Str())
	return newSliceStream([]Row{row.With(m.Column, String(lower))})
}

var wordPattern = regexp.MustCompile(`\w+`)

// Split emits one row per match of \w+ in Column (or per run of characters
// not in Sep, if Sep is given), replacing Column with the match. If the
// original value is empty or has no matches, it emits exactly one row with
// Column set to the empty string — load-bearing for downstream counts, since
// a reducer grouping on this column must still see one row for empty input.
type Split struct {
	Column string
	Sep    string // if empty, split on \w+
}

func (m Split) Map(row Row) Stream {
	pattern := wordPattern
	if m.Sep != "" {
		pattern = regexp.MustCompile("[^" + regexp.QuoteMeta(m.Sep) + "]+")
	}
	src := row[m.Column].Str()
	matches := pattern.FindAllString(src, -1)
	if len(matches) == 0 {
		return newSliceStream([]Row{row.With(m.Column, String(""))})
	}
	rows := make([]Row, len(matches))
	for i, word := range matches {
		rows[i] = row.With(m.Column, String(word))
	}
	return newSliceStream(rows)
}

// Product computes the numeric product of Columns into Out.
type Product struct {
	Columns []string
	Out     string
}

func (m Product) Map(row Row) Stream {
	product := 1.0
	for _, c := range m.Columns {
		f, _ := row[c].AsFloat()
		product *= f
	}
	return newSliceStream([]Row{row.With(m.Out, Float(product))})
}

// Filter emits row iff Pred(row) is true.
type Filter struct{ Pred func(Row) bool }

func (m Filter) Map(row Row) Stream {
	if m.Pred(row) {
		return newSliceStream([]Row{row})
	}
	return newSliceStream(nil)
}

// Project emits a new row containing only Columns.
type Project struct{ Columns []string }

func (m Project) Map(row Row) Stream {
	return newSliceStream([]Row{row.Project(m.Columns)})
}

const earthRadiusKm = 6373.0

// HaversineDistance computes the great-circle distance in km between the
// [lon,lat] pairs at StartCol and EndCol, writing the result to Out. Inputs
// are in degrees.
type HaversineDistance struct {
	StartCol, EndCol, Out string
}

func (m HaversineDistance) Map(row Row) Stream {
	start := row[m.StartCol].Seq()
	end := row[m.EndCol].Seq()
	startLon, startLat := deg2rad(start[0].Float()), deg2rad(start[1].Float())
	endLon, endLat := deg2rad(end[0].Float()), deg2rad(end[1].Float())

	hav := func(theta float64) float64 { return math.Pow(math.Sin(theta/2), 2) }
	arc := math.Asin(math.Sqrt(hav(endLat-startLat) + math.Cos(startLat)*math.Cos(endLat)*hav(endLon-startLon)))

	return newSliceStream([]Row{row.With(m.Out, Float(2*earthRadiusKm*arc))})
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }

const dateLayout = "20060102T150405.000000"

func parseRowTime(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// RoadTime computes the duration in seconds between EnterCol and LeaveCol
// timestamps formatted YYYYMMDDTHHMMSS.ffffff.
type RoadTime struct {
	EnterCol, LeaveCol, Out string
}

func (m RoadTime) Map(row Row) Stream {
	enter, err := parseRowTime(row[m.EnterCol].Str())
	if err != nil {
		return errStream(cgerrors.NewDomainError("RoadTime", rowKeySnapshot(row, m.EnterCol), err))
	}
	leave, err := parseRowTime(row[m.LeaveCol].Str())
	if err != nil {
		return errStream(cgerrors.NewDomainError("RoadTime", rowKeySnapshot(row, m.LeaveCol), err))
	}
	return newSliceStream([]Row{row.With(m.Out, Float(leave.Sub(enter).Seconds()))})
}

var weekdayAbbrev = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Weekday extracts the abbreviated weekday from Col into Out.
type Weekday struct{ Col, Out string }

func (m Weekday) Map(row Row) Stream {
	t, err := parseRowTime(row[m.Col].Str())
	if err != nil {
		return errStream(cgerrors.NewDomainError("Weekday", rowKeySnapshot(row, m.Col), err))
	}
	// time.Monday == 1, ..., time.Sunday == 0; weekdayAbbrev is Mon-first.
	idx := (int(t.Weekday()) + 6) % 7
	return newSliceStream([]Row{row.With(m.Out, String(weekdayAbbrev[idx]))})
}

// Hour extracts the 0..23 hour from Col into Out.
type Hour struct{ Col, Out string }

func (m Hour) Map(row Row) Stream {
	t, err := parseRowTime(row[m.Col].Str())
	if err != nil {
		return errStream(cgerrors.NewDomainError("Hour", rowKeySnapshot(row, m.Col), err))
	}
	return newSliceStream([]Row{row.With(m.Out, Int(int64(t.Hour())))})
}

// Speed computes dist/time*3600 into Out; Time == 0 is a domain error.
type Speed struct {
	DistCol, TimeCol, Out string
}

func (m Speed) Map(row Row) Stream {
	dist, _ := row[m.DistCol].AsFloat()
	elapsed, _ := row[m.TimeCol].AsFloat()
	if elapsed == 0 {
		return errStream(cgerrors.NewDomainError("Speed", rowKeySnapshot(row, m.DistCol, m.TimeCol), errDivisionByZero))
	}
	return newSliceStream([]Row{row.With(m.Out, Float(dist/elapsed*3600))})
}

// InverseDocumentFrequency computes ln(total)-ln(docs) into Out.
type InverseDocumentFrequency struct {
	TotalCol, DocsCol, Out string
}

func (m InverseDocumentFrequency) Map(row Row) Stream {
	total, _ := row[m.TotalCol].AsFloat()
	docs, _ := row[m.DocsCol].AsFloat()
	return newSliceStream([]Row{row.With(m.Out, Float(math.Log(total)-math.Log(docs)))})
}

func rowKeySnapshot(row Row, cols ...string) map[string]string {
	out := make(map[string]string, len(cols))
	for _, c := range cols {
		out[c] = row[c].String()
	}
	return out
}

func errStream(err error) Stream {
	return &funcStream{next: func() (Row, error) { return nil, err }}
}

var errDivisionByZero = simpleError("division by zero")

type simpleError string

func (e simpleError) Error() string { return string(e) }
