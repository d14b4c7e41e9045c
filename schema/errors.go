package schema

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrPropertyNotFound is returned when compiling an accessor for a
	// property the type does not have.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrReadOnly is returned when a setter is requested for, or a value
	// written to, a read-only property.
	ErrReadOnly = errors.New("property is read-only")
	// ErrNotAddressable is returned when writing through a value that is not
	// addressable, typically a struct passed by value instead of by pointer.
	ErrNotAddressable = errors.New("target is not addressable")
	// ErrTypeMismatch is returned when an instance does not belong to the
	// type an accessor was compiled for.
	ErrTypeMismatch = errors.New("instance type mismatch")
	// ErrNotInterface is returned by HasInterface for a non-interface type.
	ErrNotInterface = errors.New("not an interface type")
)

// ConversionError reports a value that could not be coerced to the declared
// type of the property it was written to.
type ConversionError struct {
	Property string
	Target   reflect.Type
	Value    any
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot assign %T to property %s (%s): %v", e.Value, e.Property, e.Target, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
