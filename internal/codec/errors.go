package codec

import "fmt"

// MissingFieldError reports a declared, non-optional field with no matching
// child in the decoded block.
type MissingFieldError struct {
	Block string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("block %q: missing field %q", e.Block, e.Field)
}

// TypeMismatchError reports a scalar that could not be coerced to the
// field's declared type.
type TypeMismatchError struct {
	Block string
	Field string
	Value string
	Want  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("block %q: field %q: cannot parse %q as %s", e.Block, e.Field, e.Value, e.Want)
}

// UnknownVariantError reports a polymorphic child block whose name is not
// registered as a variant.
type UnknownVariantError struct {
	Block   string
	Variant string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("block %q: unknown variant %q", e.Block, e.Variant)
}
