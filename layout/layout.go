// Package layout parses compact vertex buffer layout strings.
//
// A layout string describes how one vertex (or one instance) is packed in a
// vertex buffer:
//
//	[count]type[size] [[count]type[size]...] [/usage]
//
// type is one of:
//
//	f  float          sizes 1 (normalized unsigned byte), 2 (half), 4 (default), 8 (double)
//	i  signed int     sizes 1, 2, 4 (default), 8
//	u  unsigned int   sizes 1, 2, 4 (default)
//	x  padding        any single-digit size, default 1
//
// usage is v (per vertex, the default), i (per instance) or r (per render,
// the first value feeds every vertex of every instance).
//
// Examples:
//
//	"3f 2f"        position + texcoord, stride 20
//	"3f 3f 2f"     position + normal + texcoord
//	"16f/i"        one mat4 per instance
//	"3f 4x 4f1"    padded layout with a normalized byte color
//
// A malformed string yields the invalid layout: no elements, zero stride,
// zero divisor and an empty String().
package layout

import (
	"strings"
	"unicode"
)

// Divisor values for the three usages.
const (
	PerVertex   = 0
	PerInstance = 1
	PerRender   = 0x7fffffff
)

// Type is the scalar storage type of a layout element.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeUint8
	TypeInt8
	TypeUint16
	TypeInt16
	TypeUint32
	TypeInt32
	TypeInt64
	TypeFloat16
	TypeFloat32
	TypeFloat64
)

var typeNames = [...]string{
	TypeInvalid: "Invalid",
	TypeUint8:   "Uint8",
	TypeInt8:    "Int8",
	TypeUint16:  "Uint16",
	TypeInt16:   "Int16",
	TypeUint32:  "Uint32",
	TypeInt32:   "Int32",
	TypeInt64:   "Int64",
	TypeFloat16: "Float16",
	TypeFloat32: "Float32",
	TypeFloat64: "Float64",
}

// String returns the type name.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Element is one attribute of a layout.
type Element struct {
	Size      int  // total size in bytes (component size * Count)
	Count     int  // number of components
	Offset    int  // byte offset from the start of the vertex
	Type      Type // component storage type
	Normalize bool // integer data is normalized to [0,1] or [-1,1]
}

// ComponentSize returns the size in bytes of a single component.
func (e Element) ComponentSize() int {
	if e.Count == 0 {
		return 0
	}
	return e.Size / e.Count
}

// Layout is a parsed buffer layout. The zero value is the invalid layout.
type Layout struct {
	src      string
	elements []Element
	stride   int
	divisor  int
}

// Parse parses a layout string. It never fails: malformed input yields the
// invalid layout, check with IsInvalid.
func Parse(s string) Layout {
	body, usage, hasUsage := strings.Cut(s, "/")

	divisor := PerVertex
	if hasUsage {
		switch strings.TrimSpace(usage) {
		case "v":
			divisor = PerVertex
		case "i":
			divisor = PerInstance
		case "r":
			divisor = PerRender
		default:
			return Layout{}
		}
	}

	var (
		elements []Element
		offset   int
	)
	p := parser{src: body}
	for {
		tok, ok, done := p.next()
		if done {
			break
		}
		if !ok {
			return Layout{}
		}
		tok.Offset = offset
		offset += tok.Size
		if tok.Type != TypeInvalid {
			elements = append(elements, tok)
		}
	}

	if len(elements) == 0 || offset == 0 {
		return Layout{}
	}
	return Layout{src: s, elements: elements, stride: offset, divisor: divisor}
}

// MustParse is like Parse but panics on an invalid layout.
// Intended for package-level layout constants.
func MustParse(s string) Layout {
	l := Parse(s)
	if l.IsInvalid() {
		panic("layout: invalid layout " + `"` + s + `"`)
	}
	return l
}

// IsInvalid reports whether the layout is the invalid sentinel.
func (l Layout) IsInvalid() bool { return len(l.elements) == 0 }

// String returns the source string, or "" for an invalid layout.
func (l Layout) String() string { return l.src }

// Stride returns the size in bytes of one vertex, padding included.
func (l Layout) Stride() int { return l.stride }

// Divisor returns the attribute divisor: PerVertex, PerInstance or PerRender.
func (l Layout) Divisor() int { return l.divisor }

// Len returns the number of (non-padding) elements.
func (l Layout) Len() int { return len(l.elements) }

// Element returns the i-th element.
func (l Layout) Element(i int) Element { return l.elements[i] }

// Elements returns a copy of the element list.
func (l Layout) Elements() []Element {
	out := make([]Element, len(l.elements))
	copy(out, l.elements)
	return out
}

// parser walks the whitespace separated tokens of a layout body.
type parser struct {
	src string
	pos int
}

// next returns the next token. done is true when the input is exhausted;
// ok is false when the token is malformed. Padding tokens are returned with
// TypeInvalid and a non-zero Size.
func (p *parser) next() (e Element, ok, done bool) {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return Element{}, false, true
	}

	count := 0
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		count = count*10 + int(p.src[p.pos]-'0')
		p.pos++
	}
	if p.pos >= len(p.src) {
		// count without a type
		return Element{}, false, false
	}
	if count == 0 {
		count = 1
	}

	kind := p.src[p.pos]
	p.pos++

	size := -1
	if p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case isDigit(c):
			size = int(c - '0')
			p.pos++
			if p.pos < len(p.src) && !isSpace(p.src[p.pos]) {
				return Element{}, false, false
			}
		case isSpace(c):
		default:
			return Element{}, false, false
		}
	}

	e = Element{Count: count, Normalize: size == 1}
	switch kind {
	case 'f':
		if size == -1 {
			size = 4
		}
		switch size {
		case 1:
			e.Type = TypeUint8
		case 2:
			e.Type = TypeFloat16
		case 4:
			e.Type = TypeFloat32
		case 8:
			e.Type = TypeFloat64
		default:
			return Element{}, false, false
		}
	case 'i':
		if size == -1 {
			size = 4
		}
		switch size {
		case 1:
			e.Type = TypeInt8
		case 2:
			e.Type = TypeInt16
		case 4:
			e.Type = TypeInt32
		case 8:
			e.Type = TypeInt64
		default:
			return Element{}, false, false
		}
	case 'u':
		if size == -1 {
			size = 4
		}
		switch size {
		case 1:
			e.Type = TypeUint8
		case 2:
			e.Type = TypeUint16
		case 4:
			e.Type = TypeUint32
		default:
			return Element{}, false, false
		}
	case 'x':
		if size == -1 {
			size = 1
		}
		e.Type = TypeInvalid
		e.Normalize = false
	default:
		return Element{}, false, false
	}
	e.Size = size * count
	return e, true, false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool { return unicode.IsSpace(rune(c)) }
