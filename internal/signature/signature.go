// Package signature walks generic signatures (class, method and field signatures
// as stored in the Signature attribute) and rewrites the class names they reference.
// Every other grammar element is copied verbatim.
package signature

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned for input that does not follow the signature grammar.
var ErrMalformed = errors.New("malformed signature")

// ClassMapper maps an internal class name. Returning false keeps the name unchanged.
type ClassMapper func(name string) (string, bool)

// Rewrite returns sig with every class type token passed through mapClass.
//
// Inner class tokens ("Outer<TT;>.Inner") are resolved as "Outer$Inner" first; when the
// full name is mapped, the part after the mapped outer name is emitted. Otherwise the
// bare token is offered to mapClass, then copied unchanged.
func Rewrite(sig string, mapClass ClassMapper) (string, error) {
	if sig == "" {
		return sig, nil
	}

	p := &parser{s: sig, mapClass: mapClass}
	p.out.Grow(len(sig))

	if err := p.parse(); err != nil {
		return "", err
	}

	return p.out.String(), nil
}

type parser struct {
	s        string
	i        int
	out      strings.Builder
	mapClass ClassMapper
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at offset %d in %q", ErrMalformed, fmt.Sprintf(format, args...), p.i, p.s)
}

func (p *parser) peek() byte {
	if p.i >= len(p.s) {
		return 0
	}

	return p.s[p.i]
}

func (p *parser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}

	p.out.WriteByte(c)
	p.i++

	return nil
}

func (p *parser) parse() error {
	if p.peek() == '<' {
		if err := p.typeParameters(); err != nil {
			return err
		}
	}

	if p.peek() == '(' {
		return p.method()
	}

	// Class signature (superclass + interfaces) or a single field signature.
	for p.i < len(p.s) {
		if err := p.referenceType(); err != nil {
			return err
		}
	}

	return nil
}

func (p *parser) method() error {
	if err := p.expect('('); err != nil {
		return err
	}

	for p.peek() != ')' {
		if p.i >= len(p.s) {
			return p.errorf("unterminated parameter list")
		}

		if err := p.javaType(); err != nil {
			return err
		}
	}

	p.out.WriteByte(')')
	p.i++

	if p.peek() == 'V' {
		p.out.WriteByte('V')
		p.i++
	} else if err := p.javaType(); err != nil {
		return err
	}

	for p.peek() == '^' {
		p.out.WriteByte('^')
		p.i++

		if err := p.referenceType(); err != nil {
			return err
		}
	}

	if p.i != len(p.s) {
		return p.errorf("trailing data")
	}

	return nil
}

func (p *parser) typeParameters() error {
	if err := p.expect('<'); err != nil {
		return err
	}

	for p.peek() != '>' {
		end := strings.IndexByte(p.s[p.i:], ':')
		if end <= 0 {
			return p.errorf("type parameter without bound")
		}

		p.out.WriteString(p.s[p.i : p.i+end])
		p.i += end

		// Class bound (possibly empty) followed by interface bounds.
		for p.peek() == ':' {
			p.out.WriteByte(':')
			p.i++

			switch p.peek() {
			case 'L', 'T', '[':
				if err := p.referenceType(); err != nil {
					return err
				}
			}
		}
	}

	p.out.WriteByte('>')
	p.i++

	return nil
}

func (p *parser) javaType() error {
	switch p.peek() {
	case 'Z', 'C', 'B', 'S', 'I', 'F', 'J', 'D':
		p.out.WriteByte(p.s[p.i])
		p.i++

		return nil
	default:
		return p.referenceType()
	}
}

func (p *parser) referenceType() error {
	switch p.peek() {
	case 'L':
		return p.classType()
	case 'T':
		end := strings.IndexByte(p.s[p.i:], ';')
		if end <= 1 {
			return p.errorf("unterminated type variable")
		}

		p.out.WriteString(p.s[p.i : p.i+end+1])
		p.i += end + 1

		return nil
	case '[':
		p.out.WriteByte('[')
		p.i++

		return p.javaType()
	default:
		return p.errorf("expected reference type")
	}
}

// identifier reads up to the next '<', '.' or ';'.
func (p *parser) identifier() (string, error) {
	start := p.i
	for p.i < len(p.s) {
		switch p.s[p.i] {
		case '<', '.', ';':
			if p.i == start {
				return "", p.errorf("empty class name")
			}

			return p.s[start:p.i], nil
		}
		p.i++
	}

	return "", p.errorf("unterminated class type")
}

func (p *parser) classType() error {
	p.out.WriteByte('L')
	p.i++

	outer, err := p.identifier()
	if err != nil {
		return err
	}

	mappedOuter := outer
	if m, ok := p.mapClass(outer); ok {
		mappedOuter = m
	}

	p.out.WriteString(mappedOuter)

	for {
		switch p.peek() {
		case '<':
			if err := p.typeArguments(); err != nil {
				return err
			}
		case '.':
			p.out.WriteByte('.')
			p.i++

			inner, err := p.identifier()
			if err != nil {
				return err
			}

			full := outer + "$" + inner
			emitted := inner

			if m, ok := p.mapClass(full); ok {
				emitted = innerPart(m, mappedOuter)
			} else if m, ok := p.mapClass(inner); ok {
				emitted = m
			}

			p.out.WriteString(emitted)

			outer = full
			mappedOuter = mappedOuter + "$" + emitted
		case ';':
			p.out.WriteByte(';')
			p.i++

			return nil
		default:
			return p.errorf("unterminated class type")
		}
	}
}

// innerPart strips the mapped outer class prefix from a mapped inner class name.
func innerPart(mapped, mappedOuter string) string {
	if strings.HasPrefix(mapped, mappedOuter+"$") {
		return mapped[len(mappedOuter)+1:]
	}

	if i := strings.LastIndexByte(mapped, '$'); i >= 0 {
		return mapped[i+1:]
	}

	return mapped
}

func (p *parser) typeArguments() error {
	if err := p.expect('<'); err != nil {
		return err
	}

	for p.peek() != '>' {
		switch p.peek() {
		case 0:
			return p.errorf("unterminated type arguments")
		case '*':
			p.out.WriteByte('*')
			p.i++

			continue
		case '+', '-':
			p.out.WriteByte(p.s[p.i])
			p.i++
		}

		if err := p.referenceType(); err != nil {
			return err
		}
	}

	p.out.WriteByte('>')
	p.i++

	return nil
}
