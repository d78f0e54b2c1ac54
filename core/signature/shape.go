package signature

import (
	"fmt"
	"math/big"
	"strconv"
)

// SyntaxShape describes what kind of word a parameter accepts.
type SyntaxShape int

const (
	ShapeAny SyntaxShape = iota
	ShapeString
	ShapeInt
	ShapeNumber
	ShapePattern
	ShapePath
)

var shapeNames = []string{
	ShapeAny:     "any",
	ShapeString:  "string",
	ShapeInt:     "int",
	ShapeNumber:  "number",
	ShapePattern: "pattern",
	ShapePath:    "path",
}

func (s SyntaxShape) String() string {
	if int(s) >= 0 && int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s SyntaxShape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SyntaxShape) UnmarshalText(text []byte) error {
	for i, name := range shapeNames {
		if name == string(text) {
			*s = SyntaxShape(i)
			return nil
		}
	}
	return fmt.Errorf("unknown syntax shape: %q", string(text))
}

// Accepts reports whether literal word text fits the shape. Only numeric
// shapes constrain the text, everything else is interpreted by commands.
func (s SyntaxShape) Accepts(text string) bool {
	switch s {
	case ShapeInt:
		_, ok := new(big.Int).SetString(text, 10)
		return ok
	case ShapeNumber:
		_, err := strconv.ParseFloat(text, 64)
		return err == nil
	default:
		return true
	}
}
