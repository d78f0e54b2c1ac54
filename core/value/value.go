// Package value holds the runtime values commands consume and produce.
package value

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// Kind is the variant of a Value. Kinds are ordered by declaration, which is
// also the order values of different kinds sort in.
type Kind int

const (
	KindNothing Kind = iota
	KindInt
	KindNumber
	KindString
	KindPattern
	KindPath
	KindBoolean
	KindList
)

var kindNames = map[Kind]string{
	KindNothing: "nothing",
	KindInt:     "int",
	KindNumber:  "number",
	KindString:  "string",
	KindPattern: "pattern",
	KindPath:    "path",
	KindBoolean: "boolean",
	KindList:    "list",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func parseKind(name string) (Kind, bool) {
	for k, v := range kindNames {
		if v == name {
			return k, true
		}
	}
	return KindNothing, false
}

// Value is an immutable tagged runtime value. The zero Value is Nothing.
type Value struct {
	kind    Kind
	bigInt  *big.Int
	number  float64
	str     string
	boolean bool
	list    []Value
}

// Nothing creates an empty value.
func Nothing() Value {
	return Value{}
}

// Int creates an arbitrary precision integer value, i is copied.
func Int(i *big.Int) Value {
	return Value{kind: KindInt, bigInt: new(big.Int).Set(i)}
}

// IntFrom creates an integer value from an int64.
func IntFrom(i int64) Value {
	return Value{kind: KindInt, bigInt: big.NewInt(i)}
}

// Number creates a floating point value.
func Number(f float64) Value {
	return Value{kind: KindNumber, number: f}
}

// String creates a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Pattern creates a glob pattern value, e.g. foo*.
func Pattern(s string) Value {
	return Value{kind: KindPattern, str: s}
}

// Path creates a file path value.
func Path(s string) Value {
	return Value{kind: KindPath, str: s}
}

// Boolean creates a boolean value.
func Boolean(b bool) Value {
	return Value{kind: KindBoolean, boolean: b}
}

// List creates a list value holding a copy of values.
func List(values ...Value) Value {
	return Value{kind: KindList, list: append([]Value{}, values...)}
}

// Kind returns the variant of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// AsInt returns a copy of the integer if the value is an Int.
func (v Value) AsInt() (*big.Int, bool) {
	if v.kind != KindInt {
		return nil, false
	}
	return new(big.Int).Set(v.bigInt), true
}

// AsNumber returns the float if the value is a Number.
func (v Value) AsNumber() (float64, bool) {
	return v.number, v.kind == KindNumber
}

// AsString returns the text of String, Pattern and Path values.
func (v Value) AsString() (string, bool) {
	switch v.kind {
	case KindString, KindPattern, KindPath:
		return v.str, true
	default:
		return "", false
	}
}

// AsBoolean returns the bool if the value is a Boolean.
func (v Value) AsBoolean() (bool, bool) {
	return v.boolean, v.kind == KindBoolean
}

// AsList returns a copy of the items if the value is a List.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return append([]Value{}, v.list...), true
}

// String returns the scalar text representation of the value. Lists are
// joined with spaces and Nothing is empty.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return v.bigInt.String()
	case KindNumber:
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	case KindString, KindPattern, KindPath:
		return v.str
	case KindBoolean:
		return strconv.FormatBool(v.boolean)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// GoString implements fmt.GoStringer to make test failures readable.
func (v Value) GoString() string {
	switch v.kind {
	case KindNothing:
		return "value.Nothing()"
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.GoString()
		}
		return fmt.Sprintf("value.List(%s)", strings.Join(parts, ", "))
	case KindString, KindPattern, KindPath:
		return fmt.Sprintf("value.%s(%q)", constructorName(v.kind), v.str)
	default:
		return fmt.Sprintf("value.%s(%s)", constructorName(v.kind), v.String())
	}
}

func constructorName(k Kind) string {
	name := k.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// Compare gives a total order over values: first by kind, then by content.
// NaN sorts after every other number and is equal to itself.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}

	switch a.kind {
	case KindInt:
		return a.bigInt.Cmp(b.bigInt)
	case KindNumber:
		return compareFloat(a.number, b.number)
	case KindString, KindPattern, KindPath:
		return strings.Compare(a.str, b.str)
	case KindBoolean:
		switch {
		case a.boolean == b.boolean:
			return 0
		case !a.boolean:
			return -1
		default:
			return 1
		}
	case KindList:
		for i := 0; i < len(a.list) && i < len(b.list); i++ {
			if c := Compare(a.list[i], b.list[i]); c != 0 {
				return c
			}
		}
		switch {
		case len(a.list) < len(b.list):
			return -1
		case len(a.list) > len(b.list):
			return 1
		}
		return 0
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Equal is true if Compare(v, other) == 0.
func (v Value) Equal(other Value) bool {
	return Compare(v, other) == 0
}

// Hash returns a structural hash, equal values have equal hashes.
func (v Value) Hash() uint64 {
	h := fnv.New64a()
	v.writeHash(h)
	return h.Sum64()
}

type hashWriter interface {
	Write([]byte) (int, error)
}

func (v Value) writeHash(h hashWriter) {
	h.Write([]byte{byte(v.kind)})
	switch v.kind {
	case KindInt:
		h.Write(v.bigInt.Bytes())
		h.Write([]byte{byte(v.bigInt.Sign() + 1)})
	case KindNumber:
		bits := math.Float64bits(v.number)
		switch {
		case math.IsNaN(v.number):
			bits = math.Float64bits(math.NaN())
		case v.number == 0:
			// -0 and +0 compare equal.
			bits = 0
		}
		h.Write([]byte(strconv.FormatUint(bits, 16)))
	case KindString, KindPattern, KindPath:
		h.Write([]byte(strconv.Itoa(len(v.str))))
		h.Write([]byte{':'})
		h.Write([]byte(v.str))
	case KindBoolean:
		if v.boolean {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	case KindList:
		h.Write([]byte(strconv.Itoa(len(v.list))))
		for _, item := range v.list {
			item.writeHash(h)
		}
	}
}

// Sort orders values in place using Compare.
func Sort(values []Value) {
	sort.SliceStable(values, func(i, j int) bool {
		return Compare(values[i], values[j]) < 0
	})
}

// Dedup returns the values with duplicates removed, keeping first
// occurrences in their original order.
func Dedup(values []Value) []Value {
	seen := make(map[uint64][]Value)
	var out []Value
outer:
	for _, v := range values {
		h := v.Hash()
		for _, prev := range seen[h] {
			if prev.Equal(v) {
				continue outer
			}
		}
		seen[h] = append(seen[h], v)
		out = append(out, v)
	}
	return out
}
