package main

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/nightsea987/compgraph"
)

// writeRows drains s, writing one JSON object per line to w (the CLI's
// output contract: newline-delimited JSON, symmetric with parseJSONRow).
func writeRows(w io.Writer, s compgraph.Stream) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	for {
		row, err := s.Next()
		if err == io.EOF {
			return bw.Flush()
		}
		if err != nil {
			return err
		}
		line, err := rowToJSON(row)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
}

func rowToJSON(row compgraph.Row) (string, error) {
	var b []byte
	b = append(b, '{')
	first := true
	for _, name := range sortedKeys(row) {
		if !first {
			b = append(b, ',')
		}
		first = false
		b = append(b, jsonQuote(name)...)
		b = append(b, ':')
		encoded, err := valueToJSON(row[name])
		if err != nil {
			return "", err
		}
		b = append(b, encoded...)
	}
	b = append(b, '}')
	return string(b), nil
}

func valueToJSON(v compgraph.Value) ([]byte, error) {
	switch v.Kind() {
	case compgraph.KindNull:
		return []byte("null"), nil
	case compgraph.KindBool:
		if v.Bool() {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case compgraph.KindInt:
		return []byte(fmt.Sprintf("%d", v.Int())), nil
	case compgraph.KindFloat:
		return []byte(fmt.Sprintf("%g", v.Float())), nil
	case compgraph.KindString:
		return []byte(jsonQuote(v.Str())), nil
	case compgraph.KindSeq:
		out := []byte("[")
		for i, elem := range v.Seq() {
			if i > 0 {
				out = append(out, ',')
			}
			enc, err := valueToJSON(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, enc...)
		}
		out = append(out, ']')
		return out, nil
	case compgraph.KindRow:
		s, err := rowToJSON(v.Row())
		return []byte(s), err
	default:
		return []byte("null"), nil
	}
}

func sortedKeys(row compgraph.Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func jsonQuote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for _, r := range s {
		switch r {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		case '\t':
			out = append(out, '\\', 't')
		default:
			out = append(out, string(r)...)
		}
	}
	out = append(out, '"')
	return string(out)
}
