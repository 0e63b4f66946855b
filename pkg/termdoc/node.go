// Package termdoc converts terms to and from tree-shaped YAML and JSON
// documents. A node holds exactly one of var, atom, app or abs; atoms are
// resolved by name against a lambda.Registry when decoding.
package termdoc

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/vic/gosk/pkg/lambda"
)

var (
	ErrUnknownAtom   = errors.New("unknown atom")
	ErrMalformedNode = errors.New("malformed node")
)

// Node is the document form of a term. Var and Atom are pointers so that
// an empty name stays distinct from an absent one.
type Node struct {
	Var  *string  `json:"var,omitempty" yaml:"var,omitempty"`
	Atom *string  `json:"atom,omitempty" yaml:"atom,omitempty"`
	App  *[]Node  `json:"app,omitempty" yaml:"app,omitempty"`
	Abs  *AbsNode `json:"abs,omitempty" yaml:"abs,omitempty"`
}

// AbsNode is the document form of an abstraction.
type AbsNode struct {
	Arg  string `json:"arg" yaml:"arg"`
	Body Node   `json:"body" yaml:"body"`
}

// VarNode returns the node of a variable.
func VarNode(name string) Node {
	return Node{Var: &name}
}

// AtomNode returns the node of an atom reference.
func AtomNode(name string) Node {
	return Node{Atom: &name}
}

// Encode converts t to its document form.
func Encode(t lambda.Term) Node {
	switch v := t.(type) {
	case lambda.Var:
		return VarNode(v.Name)
	case *lambda.Atom:
		return AtomNode(v.Name())
	case lambda.App:
		elems := lo.Map(v.Elems, func(e lambda.Term, _ int) Node {
			return Encode(e)
		})
		return Node{App: &elems}
	case lambda.Abs:
		return Node{Abs: &AbsNode{Arg: v.Arg, Body: Encode(v.Body)}}
	default:
		return Node{}
	}
}

// Decode converts n back to a term, resolving atoms in reg. Every
// unknown atom and malformed node is reported, each tagged with its path.
func Decode(n Node, reg *lambda.Registry) (lambda.Term, error) {
	return decodeAt(n, reg, "term")
}

func decodeAt(n Node, reg *lambda.Registry, path string) (lambda.Term, error) {
	d := &decoder{reg: reg}
	t := d.decode(n, path)
	if err := d.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return t, nil
}

type decoder struct {
	reg  *lambda.Registry
	errs *multierror.Error
}

func (d *decoder) fail(sentinel error, format string, args ...interface{}) lambda.Term {
	d.errs = multierror.Append(d.errs, errors.Wrapf(sentinel, format, args...))
	return nil
}

func (d *decoder) decode(n Node, path string) lambda.Term {
	kinds := lo.Compact([]string{
		lo.Ternary(n.Var != nil, "var", ""),
		lo.Ternary(n.Atom != nil, "atom", ""),
		lo.Ternary(n.App != nil, "app", ""),
		lo.Ternary(n.Abs != nil, "abs", ""),
	})
	if len(kinds) != 1 {
		return d.fail(ErrMalformedNode, "%s: want exactly one of var, atom, app, abs; got %v", path, kinds)
	}

	switch kinds[0] {
	case "var":
		return lambda.Var{Name: *n.Var}
	case "atom":
		a, ok := d.reg.Lookup(*n.Atom)
		if !ok {
			return d.fail(ErrUnknownAtom, "%s: %q", path, *n.Atom)
		}
		return a
	case "app":
		elems := make([]lambda.Term, len(*n.App))
		for i, e := range *n.App {
			elems[i] = d.decode(e, fmt.Sprintf("%s.app[%d]", path, i))
		}
		return lambda.App{Elems: elems}
	default:
		body := d.decode(n.Abs.Body, path+".abs.body")
		return lambda.Abs{Arg: n.Abs.Arg, Body: body}
	}
}
