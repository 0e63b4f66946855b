package lambda

import (
	"strings"

	"github.com/pkg/errors"
)

// Style selects how applications are bracketed.
type Style int

const (
	// StyleFlat renders an application as one parenthesised list: (a b c).
	StyleFlat Style = iota
	// StyleNested renders an application as a left fold: ((a b) c).
	StyleNested
)

func (s Style) String() string {
	switch s {
	case StyleFlat:
		return "flat"
	case StyleNested:
		return "nested"
	default:
		return "unknown"
	}
}

// ParseStyle maps "flat" or "nested" to a Style. The empty string is flat.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "flat":
		return StyleFlat, nil
	case "nested":
		return StyleNested, nil
	default:
		return StyleFlat, errors.Errorf("unknown render style %q", name)
	}
}

// Renderer produces the canonical text of a term. The zero value renders
// in StyleFlat.
type Renderer struct {
	Style Style
}

// Render never fails and never reduces.
func (r Renderer) Render(t Term) string {
	var sb strings.Builder
	r.write(&sb, t)
	return sb.String()
}

func (r Renderer) write(sb *strings.Builder, t Term) {
	switch v := t.(type) {
	case Var:
		sb.WriteString(v.Name)
	case *Atom:
		sb.WriteString(v.name)
	case Abs:
		sb.WriteString("(L")
		sb.WriteString(v.Arg)
		sb.WriteByte('.')
		r.write(sb, v.Body)
		sb.WriteByte(')')
	case App:
		if r.Style == StyleNested && len(v.Elems) > 2 {
			// one open paren per application node of the left fold
			sb.WriteString(strings.Repeat("(", len(v.Elems)-1))
			r.write(sb, v.Elems[0])
			for _, e := range v.Elems[1:] {
				sb.WriteByte(' ')
				r.write(sb, e)
				sb.WriteByte(')')
			}
			return
		}
		sb.WriteByte('(')
		for i, e := range v.Elems {
			if i > 0 {
				sb.WriteByte(' ')
			}
			r.write(sb, e)
		}
		sb.WriteByte(')')
	case nil:
		sb.WriteString("<nil>")
	}
}

// Render renders t in StyleFlat.
func Render(t Term) string {
	return Renderer{}.Render(t)
}
