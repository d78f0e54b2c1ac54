package value

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
)

type jsonValue struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON encodes the value as {"kind": ..., "value": ...}. Integers are
// encoded as decimal strings to keep their precision and non-finite numbers
// are encoded as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	var payload interface{}
	switch v.kind {
	case KindNothing:
		return json.Marshal(jsonValue{Kind: v.kind.String()})
	case KindInt:
		payload = v.bigInt.String()
	case KindNumber:
		if math.IsNaN(v.number) || math.IsInf(v.number, 0) {
			payload = v.String()
		} else {
			payload = v.number
		}
	case KindString, KindPattern, KindPath:
		payload = v.str
	case KindBoolean:
		payload = v.boolean
	case KindList:
		if v.list == nil {
			payload = []Value{}
		} else {
			payload = v.list
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonValue{Kind: v.kind.String(), Value: raw})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var in jsonValue
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	kind, ok := parseKind(in.Kind)
	if !ok {
		return fmt.Errorf("unknown value kind: %q", in.Kind)
	}

	switch kind {
	case KindNothing:
		*v = Nothing()
	case KindInt:
		var s string
		if err := json.Unmarshal(in.Value, &s); err != nil {
			return err
		}
		i, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return fmt.Errorf("invalid int: %q", s)
		}
		*v = Value{kind: KindInt, bigInt: i}
	case KindNumber:
		var f float64
		if err := json.Unmarshal(in.Value, &f); err != nil {
			var s string
			if strErr := json.Unmarshal(in.Value, &s); strErr != nil {
				return err
			}
			switch s {
			case "NaN":
				f = math.NaN()
			case "+Inf":
				f = math.Inf(1)
			case "-Inf":
				f = math.Inf(-1)
			default:
				return fmt.Errorf("invalid number: %q", s)
			}
		}
		*v = Number(f)
	case KindString, KindPattern, KindPath:
		var s string
		if err := json.Unmarshal(in.Value, &s); err != nil {
			return err
		}
		*v = Value{kind: kind, str: s}
	case KindBoolean:
		var b bool
		if err := json.Unmarshal(in.Value, &b); err != nil {
			return err
		}
		*v = Boolean(b)
	case KindList:
		var items []Value
		if err := json.Unmarshal(in.Value, &items); err != nil {
			return err
		}
		*v = List(items...)
	}
	return nil
}
