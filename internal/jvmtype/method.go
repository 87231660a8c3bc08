package jvmtype

import (
	"fmt"
	"strings"
)

// MethodType is the parsed form of a method descriptor.
type MethodType struct {
	Params []TypeIdentifier
	Return TypeIdentifier
}

// ParseMethod parses a name-free method descriptor such as "(ILjava/lang/String;)V".
func ParseMethod(desc string) (MethodType, error) {
	if desc == "" || desc[0] != '(' {
		return MethodType{}, fmt.Errorf("%w: method descriptor %q must start with '('", ErrMalformed, desc)
	}

	var mt MethodType

	i := 1
	for i < len(desc) && desc[i] != ')' {
		t, n, err := parseAt(desc, i)
		if err != nil {
			return MethodType{}, err
		}

		if t == Void {
			return MethodType{}, fmt.Errorf("%w: void parameter in %q", ErrMalformed, desc)
		}

		mt.Params = append(mt.Params, t)
		i = n
	}

	if i >= len(desc) {
		return MethodType{}, fmt.Errorf("%w: unterminated parameter list in %q", ErrMalformed, desc)
	}

	ret, n, err := parseAt(desc, i+1)
	if err != nil {
		return MethodType{}, err
	}

	if n != len(desc) {
		return MethodType{}, fmt.Errorf("%w: trailing data in %q", ErrMalformed, desc)
	}

	mt.Return = ret

	return mt, nil
}

// Descriptor returns the descriptor encoding of the method type.
func (m MethodType) Descriptor() string {
	var b strings.Builder

	b.WriteString(ParamsDescriptor(m.Params))

	if m.Return != nil {
		b.WriteString(m.Return.Descriptor())
	}

	return b.String()
}

// ArgSlots returns the number of local variable slots taken by the parameters.
func (m MethodType) ArgSlots() int {
	n := 0
	for _, p := range m.Params {
		n += Size(p)
	}

	return n
}

// ParamsDescriptor encodes a parameter list as "(...)".
func ParamsDescriptor(params []TypeIdentifier) string {
	var b strings.Builder

	b.WriteByte('(')

	for _, p := range params {
		b.WriteString(p.Descriptor())
	}

	b.WriteByte(')')

	return b.String()
}
