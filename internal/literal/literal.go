// Package literal parses free-text cell values into Go values using
// a closed grammar: numbers, booleans, null, quoted strings, and
// bracketed collections of those. Nothing is ever evaluated, so text
// from a spreadsheet cannot run code.
package literal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrBadLiteral reports text outside the accepted grammar.
var ErrBadLiteral = errors.New("not a recognized literal")

// Parse converts one cell of text into a value. Accepted forms:
//
//	42  -3.5  true  false  null  nil
//	"quoted"  `raw quoted`
//	[1, 2, 3]  {"a": 1, "b": 2}
//
// Collections nest; map keys must be scalars. Anything else wraps
// ErrBadLiteral.
func Parse(text string) (any, error) {
	p := &parser{src: text}
	p.skipSpace()
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: trailing text %q", ErrBadLiteral, p.src[p.pos:])
	}
	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) value() (any, error) {
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("%w: empty input", ErrBadLiteral)
	}
	switch c := p.src[p.pos]; {
	case c == '"' || c == '`':
		return p.quoted(c)
	case c == '[':
		return p.list()
	case c == '{':
		return p.mapping()
	default:
		return p.bare()
	}
}

func (p *parser) quoted(quote byte) (any, error) {
	end := strings.IndexByte(p.src[p.pos+1:], quote)
	if end < 0 {
		return nil, fmt.Errorf("%w: unterminated string", ErrBadLiteral)
	}
	s := p.src[p.pos+1 : p.pos+1+end]
	p.pos += end + 2
	if quote == '"' {
		unq, err := strconv.Unquote(`"` + s + `"`)
		if err != nil {
			return nil, fmt.Errorf("%w: bad string escape in %q", ErrBadLiteral, s)
		}
		return unq, nil
	}
	return s, nil
}

func (p *parser) list() (any, error) {
	p.pos++ // consume [
	out := []any{}
	p.skipSpace()
	if p.eat(']') {
		return out, nil
	}
	for {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		p.skipSpace()
		if p.eat(']') {
			return out, nil
		}
		if !p.eat(',') {
			return nil, fmt.Errorf("%w: expected , or ] in list", ErrBadLiteral)
		}
		p.skipSpace()
	}
}

func (p *parser) mapping() (any, error) {
	p.pos++ // consume {
	out := map[any]any{}
	p.skipSpace()
	if p.eat('}') {
		return out, nil
	}
	for {
		k, err := p.value()
		if err != nil {
			return nil, err
		}
		switch k.(type) {
		case []any, map[any]any:
			return nil, fmt.Errorf("%w: map key must be a scalar", ErrBadLiteral)
		}
		p.skipSpace()
		if !p.eat(':') {
			return nil, fmt.Errorf("%w: expected : after map key", ErrBadLiteral)
		}
		p.skipSpace()
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out[k] = v
		p.skipSpace()
		if p.eat('}') {
			return out, nil
		}
		if !p.eat(',') {
			return nil, fmt.Errorf("%w: expected , or } in map", ErrBadLiteral)
		}
		p.skipSpace()
	}
}

// bare handles the unquoted atoms: numbers, booleans, and null.
func (p *parser) bare() (any, error) {
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune(",:]}", rune(p.src[p.pos])) &&
		!unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
	word := p.src[start:p.pos]
	switch word {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null", "nil":
		return nil, nil
	}
	if n, err := strconv.ParseInt(word, 10, 64); err == nil {
		return int(n), nil
	}
	if f, err := strconv.ParseFloat(word, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrBadLiteral, word)
}

func (p *parser) eat(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}
