package compgraph

import "encoding/json"

// Row/Value encode losslessly to JSON for the external sort spill store. A
// bare encoding/json round-trip of Value would collapse Int/Float into one
// numeric type; jsonValue tags the kind explicitly so Int(3) and Float(3)
// survive the round trip distinct.
type jsonValue struct {
	K int8       `json:"k"`
	B bool       `json:"b,omitempty"`
	I int64      `json:"i,omitempty"`
	F float64    `json:"f,omitempty"`
	S string     `json:"s,omitempty"`
	Q []jsonValue `json:"q,omitempty"`
	R map[string]jsonValue `json:"r,omitempty"`
}

func (v Value) toJSON() jsonValue {
	switch v.kind {
	case KindNull:
		return jsonValue{K: int8(KindNull)}
	case KindBool:
		return jsonValue{K: int8(KindBool), B: v.b}
	case KindInt:
		return jsonValue{K: int8(KindInt), I: v.i}
	case KindFloat:
		return jsonValue{K: int8(KindFloat), F: v.f}
	case KindString:
		return jsonValue{K: int8(KindString), S: v.s}
	case KindSeq:
		q := make([]jsonValue, len(v.seq))
		for i, e := range v.seq {
			q[i] = e.toJSON()
		}
		return jsonValue{K: int8(KindSeq), Q: q}
	case KindRow:
		r := make(map[string]jsonValue, len(v.row))
		for name, e := range v.row {
			r[name] = e.toJSON()
		}
		return jsonValue{K: int8(KindRow), R: r}
	default:
		return jsonValue{K: int8(KindNull)}
	}
}

func fromJSON(j jsonValue) Value {
	switch Kind(j.K) {
	case KindNull:
		return Null()
	case KindBool:
		return Bool(j.B)
	case KindInt:
		return Int(j.I)
	case KindFloat:
		return Float(j.F)
	case KindString:
		return String(j.S)
	case KindSeq:
		vs := make([]Value, len(j.Q))
		for i, e := range j.Q {
			vs[i] = fromJSON(e)
		}
		return Seq(vs)
	case KindRow:
		r := make(Row, len(j.R))
		for name, e := range j.R {
			r[name] = fromJSON(e)
		}
		return RowValue(r)
	default:
		return Null()
	}
}

// encodeRow serializes a Row to bytes for spill storage.
func encodeRow(row Row) ([]byte, error) {
	jr := make(map[string]jsonValue, len(row))
	for name, v := range row {
		jr[name] = v.toJSON()
	}
	return json.Marshal(jr)
}

// decodeRow is encodeRow's inverse.
func decodeRow(data []byte) (Row, error) {
	var jr map[string]jsonValue
	if err := json.Unmarshal(data, &jr); err != nil {
		return nil, err
	}
	row := make(Row, len(jr))
	for name, jv := range jr {
		row[name] = fromJSON(jv)
	}
	return row, nil
}
