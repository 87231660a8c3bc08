package jvmtype

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned for input that is not valid descriptor syntax.
var ErrMalformed = errors.New("malformed descriptor")

// TypeIdentifier is one of Primitive, ClassRef or ArrayOf.
type TypeIdentifier interface {
	// Descriptor returns the descriptor encoding of the type.
	Descriptor() string

	isTypeIdentifier()
}

//go:generate go tool stringer -type=Primitive -output=primitive_string.go

// Primitive is a JVM base type, including void.
type Primitive uint8

const (
	_ Primitive = iota // skip zero value, it is not a valid primitive

	Boolean
	Char
	Byte
	Short
	Int
	Float
	Long
	Double
	Void
)

var primitiveChars = [...]byte{
	Boolean: 'Z',
	Char:    'C',
	Byte:    'B',
	Short:   'S',
	Int:     'I',
	Float:   'F',
	Long:    'J',
	Double:  'D',
	Void:    'V',
}

// PrimitiveOf returns the primitive encoded by a descriptor character.
func PrimitiveOf(c byte) (Primitive, bool) {
	for p, pc := range primitiveChars {
		if pc == c && p != 0 {
			return Primitive(p), true
		}
	}

	return 0, false
}

// IsPrimitiveChar reports whether c is a base type descriptor character.
func IsPrimitiveChar(c byte) bool {
	_, ok := PrimitiveOf(c)
	return ok
}

// Descriptor implements TypeIdentifier.
func (p Primitive) Descriptor() string {
	if int(p) >= len(primitiveChars) || p == 0 {
		return ""
	}

	return string(primitiveChars[p])
}

// Size returns the number of local variable slots a value of p occupies.
func (p Primitive) Size() int {
	switch p {
	case Long, Double:
		return 2
	case Void:
		return 0
	default:
		return 1
	}
}

func (Primitive) isTypeIdentifier() {}

// ClassRef is an object type named by its internal name ("java/lang/String").
type ClassRef struct {
	Name string
}

// Descriptor implements TypeIdentifier.
func (c ClassRef) Descriptor() string {
	return "L" + c.Name + ";"
}

func (ClassRef) isTypeIdentifier() {}

// ArrayOf is an array of Elem.
type ArrayOf struct {
	Elem TypeIdentifier
}

// Descriptor implements TypeIdentifier.
func (a ArrayOf) Descriptor() string {
	return "[" + a.Elem.Descriptor()
}

func (ArrayOf) isTypeIdentifier() {}

// Parse parses a single field descriptor. The whole input must be consumed.
func Parse(desc string) (TypeIdentifier, error) {
	t, n, err := parseAt(desc, 0)
	if err != nil {
		return nil, err
	}

	if n != len(desc) {
		return nil, fmt.Errorf("%w: trailing data in %q", ErrMalformed, desc)
	}

	return t, nil
}

// parseAt parses one type starting at desc[i] and returns the index after it.
func parseAt(desc string, i int) (TypeIdentifier, int, error) {
	if i >= len(desc) {
		return nil, i, fmt.Errorf("%w: unexpected end of %q", ErrMalformed, desc)
	}

	switch c := desc[i]; c {
	case '[':
		elem, n, err := parseAt(desc, i+1)
		if err != nil {
			return nil, n, err
		}

		if elem == Void {
			return nil, n, fmt.Errorf("%w: array of void in %q", ErrMalformed, desc)
		}

		return ArrayOf{Elem: elem}, n, nil
	case 'L':
		end := strings.IndexByte(desc[i:], ';')
		if end <= 1 {
			return nil, i, fmt.Errorf("%w: unterminated class type in %q", ErrMalformed, desc)
		}

		return ClassRef{Name: desc[i+1 : i+end]}, i + end + 1, nil
	default:
		p, ok := PrimitiveOf(c)
		if !ok {
			return nil, i, fmt.Errorf("%w: unknown type %q in %q", ErrMalformed, c, desc)
		}

		return p, i + 1, nil
	}
}

// Equal reports whether two type identifiers denote the same type.
func Equal(a, b TypeIdentifier) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Descriptor() == b.Descriptor()
}

// Size returns the number of local variable slots a value of t occupies.
func Size(t TypeIdentifier) int {
	if p, ok := t.(Primitive); ok {
		return p.Size()
	}

	return 1
}
