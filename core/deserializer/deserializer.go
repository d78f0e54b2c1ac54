// Package deserializer binds evaluated arguments onto command argument
// records without reflection.
//
// A record implements Target and asks the Decoder for each of its fields in
// declaration order:
//
//	func (a *MkdirArgs) DecodeArgs(d *deserializer.Decoder) error {
//		a.Parents = d.Bool("parents")
//		a.Paths = d.Rest(signature.RestName)
//		return d.Err()
//	}
//
// A field whose name is a flag of the signature reads that flag, a field
// named after a positional parameter reads the argument in that slot and Rest
// reads every argument after the declared positionals. Any other name is an
// error. The first failure is kept and returned by Err, later calls return
// zero values.
package deserializer

import (
	"math"
	"math/big"
	"strconv"

	"github.com/josephlewis42/queenshell/core/evaluate"
	"github.com/josephlewis42/queenshell/core/shellerr"
	"github.com/josephlewis42/queenshell/core/signature"
	"github.com/josephlewis42/queenshell/core/value"
)

// Target is an argument record that can decode itself.
type Target interface {
	DecodeArgs(d *Decoder) error
}

// Decode binds args onto target.
func Decode(sig *signature.Signature, args evaluate.EvaluatedArgs, target Target) error {
	return target.DecodeArgs(NewDecoder(sig, args))
}

// Decoder hands out evaluated values field by field.
type Decoder struct {
	sig  *signature.Signature
	args evaluate.EvaluatedArgs
	err  error
}

// NewDecoder creates a decoder over args shaped by sig.
func NewDecoder(sig *signature.Signature, args evaluate.EvaluatedArgs) *Decoder {
	return &Decoder{sig: sig, args: args}
}

// Err returns the first error encountered.
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) fail(err *shellerr.ShellError) {
	if d.err == nil {
		d.err = err
	}
}

// lookup finds the source value for a field.
func (d *Decoder) lookup(field string) (value.Value, bool) {
	if d.err != nil {
		return value.Nothing(), false
	}
	if _, ok := d.sig.Flag(field); ok {
		return d.args.Get(field)
	}
	if idx, ok := d.sig.PositionalIndex(field); ok {
		return d.args.Nth(idx)
	}

	d.fail(shellerr.RuntimeErrorf("%s has no argument named %s", d.sig.Name, field))
	return value.Nothing(), false
}

func (d *Decoder) required(field string) (value.Value, bool) {
	v, ok := d.lookup(field)
	if !ok {
		d.fail(shellerr.RuntimeErrorf("missing required argument: %s", field))
	}
	return v, ok
}

func (d *Decoder) mismatch(field, expected string, got value.Value) {
	d.fail(shellerr.RuntimeErrorf("expected %s for %s, found %s", expected, field, got.Kind()))
}

func (d *Decoder) toString(field string, v value.Value) string {
	s, ok := v.AsString()
	if !ok {
		d.mismatch(field, "string", v)
	}
	return s
}

// Value returns the raw value of a mandatory field.
func (d *Decoder) Value(field string) value.Value {
	v, _ := d.required(field)
	return v
}

// OptionalValue returns the raw value of a field, if given.
func (d *Decoder) OptionalValue(field string) (value.Value, bool) {
	return d.lookup(field)
}

// String decodes a mandatory string, pattern or path.
func (d *Decoder) String(field string) string {
	v, ok := d.required(field)
	if !ok {
		return ""
	}
	return d.toString(field, v)
}

// OptionalString decodes a string, pattern or path, nil if absent.
func (d *Decoder) OptionalString(field string) *string {
	v, ok := d.lookup(field)
	if !ok {
		return nil
	}
	s := d.toString(field, v)
	if d.err != nil {
		return nil
	}
	return &s
}

func (d *Decoder) toInt(field string, v value.Value) *big.Int {
	switch v.Kind() {
	case value.KindInt:
		i, _ := v.AsInt()
		return i
	case value.KindNumber:
		f, _ := v.AsNumber()
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			i, _ := big.NewFloat(f).Int(nil)
			return i
		}
	case value.KindString, value.KindPattern, value.KindPath:
		s, _ := v.AsString()
		if i, ok := new(big.Int).SetString(s, 10); ok {
			return i
		}
	}

	d.mismatch(field, "int", v)
	return nil
}

// Int decodes a mandatory integer.
func (d *Decoder) Int(field string) *big.Int {
	v, ok := d.required(field)
	if !ok {
		return nil
	}
	return d.toInt(field, v)
}

// OptionalInt decodes an integer, nil if absent.
func (d *Decoder) OptionalInt(field string) *big.Int {
	v, ok := d.lookup(field)
	if !ok {
		return nil
	}
	return d.toInt(field, v)
}

// Number decodes a mandatory floating point number.
func (d *Decoder) Number(field string) float64 {
	v, ok := d.required(field)
	if !ok {
		return 0
	}

	switch v.Kind() {
	case value.KindNumber:
		f, _ := v.AsNumber()
		return f
	case value.KindInt:
		i, _ := v.AsInt()
		f, _ := new(big.Float).SetInt(i).Float64()
		return f
	case value.KindString:
		s, _ := v.AsString()
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	d.mismatch(field, "number", v)
	return 0
}

// Bool decodes a switch or boolean, absent is false.
func (d *Decoder) Bool(field string) bool {
	v, ok := d.lookup(field)
	if !ok {
		return false
	}

	switch v.Kind() {
	case value.KindBoolean:
		b, _ := v.AsBoolean()
		return b
	case value.KindString:
		s, _ := v.AsString()
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}

	d.mismatch(field, "boolean", v)
	return false
}

// Rest collects the arguments after the declared positionals as strings.
func (d *Decoder) Rest(field string) []string {
	if d.err != nil {
		return nil
	}
	if d.sig.Rest == nil {
		d.fail(shellerr.RuntimeErrorf("%s has no argument named %s", d.sig.Name, field))
		return nil
	}

	var out []string
	for i := len(d.sig.Positional); i < len(d.args.Positional); i++ {
		out = append(out, d.args.Positional[i].String())
	}
	return out
}
