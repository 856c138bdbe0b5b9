// Package codec maps between definition node trees and typed domain
// objects. There is no reflection: each object kind declares an ordered
// field list (name, type, optionality, accessors) and one generic
// encode/decode routine consumes it. New object kinds are added by
// declaring a schema, new goal kinds by registering a variant.
package codec

import (
	"strconv"
	"strings"
	"time"

	"github.com/missionctl/engine/internal/expr"
	"github.com/missionctl/engine/internal/tree"
)

// Kind is the declared type of a field.
type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
	Duration   // whole seconds on the wire
	StringList // comma-separated scalar
	Block      // one nested block with a fixed schema
	Blocks     // repeated nested blocks of the field's name
	Variants   // repeated polymorphic blocks selected by block name
)

// Field describes one declared field of an object kind. Scalar kinds use
// Get/Set; nested kinds use the block accessors. Accessors are plain
// closures so the mapping stays reflection-free.
type Field struct {
	Name     string
	Kind     Kind
	Optional bool
	Default  string // raw scalar substituted when the field is absent

	// Scalar accessors. Set receives the coerced value: string, int64,
	// float64, bool, time.Duration or []string depending on Kind.
	Get func(obj any) any
	Set func(obj any, v any)

	// Block / Blocks
	Schema   *Schema
	GetBlock func(obj any) any // nil result skips encoding (Block only)
	SetBlock func(obj, elem any)

	// Blocks / Variants
	Append func(obj, elem any)
	Elems  func(obj any) []any

	// Variants
	Registry    *Registry
	VariantName func(elem any) string
}

// Schema is the declared shape of one object kind. Field order is encoding
// order, which makes decode(encode(v)) == v hold structurally.
type Schema struct {
	Name   string // block name used on encode
	New    func() any
	Fields []Field
}

// Registry maps variant discriminators (block names) to schemas.
type Registry struct {
	schemas map[string]*Schema
}

// NewRegistry creates an empty variant registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Register binds a discriminator to a schema. Re-registering replaces the
// previous binding.
func (r *Registry) Register(name string, s *Schema) {
	r.schemas[name] = s
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Decode builds a new object of the schema's kind from a block node.
func Decode(n *tree.Node, s *Schema) (any, error) {
	obj := s.New()
	// Names of declared nested fields; any other child block must be a
	// variant when a Variants field is declared.
	nested := make(map[string]bool)
	for _, f := range s.Fields {
		if f.Kind == Block || f.Kind == Blocks {
			nested[f.Name] = true
		}
	}

	for _, f := range s.Fields {
		switch f.Kind {
		case Block:
			child := n.First(f.Name)
			if child == nil {
				if f.Optional {
					continue
				}
				return nil, &MissingFieldError{Block: n.Name, Field: f.Name}
			}
			elem, err := Decode(child, f.Schema)
			if err != nil {
				return nil, err
			}
			f.SetBlock(obj, elem)

		case Blocks:
			children := n.All(f.Name)
			if len(children) == 0 && !f.Optional {
				return nil, &MissingFieldError{Block: n.Name, Field: f.Name}
			}
			for _, child := range children {
				elem, err := Decode(child, f.Schema)
				if err != nil {
					return nil, err
				}
				f.Append(obj, elem)
			}

		case Variants:
			for _, child := range n.Blocks() {
				if nested[child.Name] {
					continue
				}
				vs, ok := f.Registry.Lookup(child.Name)
				if !ok {
					return nil, &UnknownVariantError{Block: n.Name, Variant: child.Name}
				}
				elem, err := Decode(child, vs)
				if err != nil {
					return nil, err
				}
				f.Append(obj, elem)
			}

		default:
			raw, ok := n.ScalarValue(f.Name)
			if !ok {
				if f.Default != "" {
					raw = f.Default
				} else if f.Optional {
					continue
				} else {
					return nil, &MissingFieldError{Block: n.Name, Field: f.Name}
				}
			}
			v, err := coerce(raw, f.Kind)
			if err != nil {
				return nil, &TypeMismatchError{Block: n.Name, Field: f.Name, Value: raw, Want: kindName(f.Kind)}
			}
			f.Set(obj, v)
		}
	}
	return obj, nil
}

// Encode renders an object back into a block node, emitting fields in
// declaration order. Optional fields holding their zero value are omitted,
// mirroring how Decode leaves them untouched when absent.
func Encode(obj any, s *Schema) *tree.Node {
	return encodeNamed(obj, s, s.Name)
}

func encodeNamed(obj any, s *Schema, name string) *tree.Node {
	n := tree.NewBlock(name)
	for _, f := range s.Fields {
		switch f.Kind {
		case Block:
			elem := f.GetBlock(obj)
			if elem == nil {
				continue
			}
			n.Append(encodeNamed(elem, f.Schema, f.Name))

		case Blocks:
			for _, elem := range f.Elems(obj) {
				n.Append(encodeNamed(elem, f.Schema, f.Name))
			}

		case Variants:
			for _, elem := range f.Elems(obj) {
				vn := f.VariantName(elem)
				if vs, ok := f.Registry.Lookup(vn); ok {
					n.Append(encodeNamed(elem, vs, vn))
				}
			}

		default:
			v := f.Get(obj)
			raw, zero := format(v)
			if zero && f.Optional && f.Default == "" {
				continue
			}
			n.AppendScalar(f.Name, raw)
		}
	}
	return n
}

func coerce(raw string, k Kind) (any, error) {
	raw = strings.TrimSpace(raw)
	switch k {
	case String:
		return raw, nil
	case Int:
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return v, nil
		}
		// Expression results may carry a fractional-free float rendering.
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f != float64(int64(f)) {
			return nil, errNotA(k)
		}
		return int64(f), nil
	case Float:
		return strconv.ParseFloat(raw, 64)
	case Bool:
		return strconv.ParseBool(raw)
	case Duration:
		secs, err := expr.ParseTimeLiteral(raw)
		if err != nil {
			return nil, err
		}
		return time.Duration(secs * float64(time.Second)), nil
	case StringList:
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	}
	return nil, errNotA(k)
}

func format(v any) (raw string, zero bool) {
	switch x := v.(type) {
	case string:
		return x, x == ""
	case int64:
		return strconv.FormatInt(x, 10), x == 0
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), x == 0
	case bool:
		return strconv.FormatBool(x), !x
	case time.Duration:
		return strconv.FormatInt(int64(x/time.Second), 10), x == 0
	case []string:
		return strings.Join(x, ", "), len(x) == 0
	}
	return "", true
}

func kindName(k Kind) string {
	switch k {
	case String:
		return "string"
	case Int:
		return "integer"
	case Float:
		return "real"
	case Bool:
		return "boolean"
	case Duration:
		return "duration"
	case StringList:
		return "string list"
	}
	return "value"
}

type coerceError struct{ want string }

func (e *coerceError) Error() string { return "not a " + e.want }

func errNotA(k Kind) error { return &coerceError{want: kindName(k)} }
