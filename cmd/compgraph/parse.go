package main

import (
	"strconv"

	"github.com/buger/jsonparser"

	"github.com/nightsea987/compgraph"
)

// parseJSONRow parses one line of newline-delimited JSON into a Row,
// inferring each field's Value kind from its JSON type. Numbers that parse
// as integers without a fractional part or exponent become Int; everything
// else numeric becomes Float.
func parseJSONRow(line string) (compgraph.Row, error) {
	row := make(compgraph.Row)
	var iterErr error
	err := jsonparser.ObjectEach([]byte(line), func(key, value []byte, dataType jsonparser.ValueType, offset int) error {
		v, err := decodeJSONValue(value, dataType)
		if err != nil {
			iterErr = err
			return err
		}
		row[string(key)] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	if iterErr != nil {
		return nil, iterErr
	}
	return row, nil
}

func decodeJSONValue(value []byte, dataType jsonparser.ValueType) (compgraph.Value, error) {
	switch dataType {
	case jsonparser.Null:
		return compgraph.Null(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return compgraph.Value{}, err
		}
		return compgraph.Bool(b), nil
	case jsonparser.Number:
		s := string(value)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return compgraph.Int(i), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return compgraph.Value{}, err
		}
		return compgraph.Float(f), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return compgraph.Value{}, err
		}
		return compgraph.String(s), nil
	case jsonparser.Array:
		var vs []compgraph.Value
		var elemErr error
		_, err := jsonparser.ArrayEach(value, func(elem []byte, elemType jsonparser.ValueType, offset int, err error) {
			if elemErr != nil {
				return
			}
			v, derr := decodeJSONValue(elem, elemType)
			if derr != nil {
				elemErr = derr
				return
			}
			vs = append(vs, v)
		})
		if err != nil {
			return compgraph.Value{}, err
		}
		if elemErr != nil {
			return compgraph.Value{}, elemErr
		}
		return compgraph.Seq(vs), nil
	case jsonparser.Object:
		sub := make(compgraph.Row)
		var subErr error
		err := jsonparser.ObjectEach(value, func(key, v []byte, t jsonparser.ValueType, offset int) error {
			dv, err := decodeJSONValue(v, t)
			if err != nil {
				subErr = err
				return err
			}
			sub[string(key)] = dv
			return nil
		})
		if err != nil {
			return compgraph.Value{}, err
		}
		if subErr != nil {
			return compgraph.Value{}, subErr
		}
		return compgraph.RowValue(sub), nil
	default:
		return compgraph.Null(), nil
	}
}
