package lambda

// Term represents a lambda calculus term extended with built-in atoms.
// The set of implementations is closed: Var, *Atom, App and Abs.
type Term interface {
	String() string
	isTerm()
}

// Var represents a variable usage. Identity is by name only.
type Var struct {
	Name string
}

func (Var) isTerm() {}

func (v Var) String() string {
	return v.Name
}

// Impl computes the result of an atom from exactly Arity arguments.
type Impl func(args []Term) Term

// Atom is an opaque built-in combinator. It fires once Arity arguments
// are available to it. Atoms are built with NewAtom and never change
// afterwards; the zero Atom has no implementation and cannot fire.
type Atom struct {
	name  string
	arity int
	impl  Impl
}

func (*Atom) isTerm() {}

func (a *Atom) String() string {
	return a.name
}

// Name returns the name the atom renders as.
func (a *Atom) Name() string {
	return a.name
}

// Arity returns the number of arguments the atom consumes.
func (a *Atom) Arity() int {
	return a.arity
}

// Apply invokes the atom implementation. Any argument count other than
// Arity fails with an *ArityError.
func (a *Atom) Apply(args []Term) (Term, error) {
	if a.impl == nil {
		return nil, errorf(ErrInvalidAtom, "%q: no implementation", a.name)
	}
	if len(args) != a.arity {
		return nil, &ArityError{Atom: a.name, Want: a.arity, Got: len(args)}
	}
	return a.impl(append([]Term(nil), args...)), nil
}

// App represents a juxtaposition chain. Elems[0] is the head, the rest
// are its arguments.
type App struct {
	Elems []Term
}

func (App) isTerm() {}

func (a App) String() string {
	return Render(a)
}

// Head returns the first element, or nil for the empty application.
func (a App) Head() Term {
	if len(a.Elems) == 0 {
		return nil
	}
	return a.Elems[0]
}

// Args returns the elements after the head.
func (a App) Args() []Term {
	if len(a.Elems) == 0 {
		return nil
	}
	return a.Elems[1:]
}

// Abs represents an abstraction (lambda) binding Arg inside Body.
type Abs struct {
	Arg  string
	Body Term
}

func (Abs) isTerm() {}

func (a Abs) String() string {
	return Render(a)
}

// NewVar builds a variable.
func NewVar(name string) Var {
	return Var{Name: name}
}

// NewAtom builds an atom. Arity must be non-negative and impl non-nil.
func NewAtom(name string, arity int, impl Impl) (*Atom, error) {
	if arity < 0 {
		return nil, errorf(ErrInvalidAtom, "%s: negative arity %d", name, arity)
	}
	if impl == nil {
		return nil, errorf(ErrInvalidAtom, "%s: nil implementation", name)
	}
	return &Atom{name: name, arity: arity, impl: impl}, nil
}

// MustAtom is like NewAtom but panics on invalid input.
func MustAtom(name string, arity int, impl Impl) *Atom {
	a, err := NewAtom(name, arity, impl)
	if err != nil {
		panic(err)
	}
	return a
}

// NewApp builds an application over a copy of elems. An empty
// application is legal and reduces to itself.
func NewApp(elems ...Term) App {
	return App{Elems: append([]Term(nil), elems...)}
}

// NewAbs builds an abstraction.
func NewAbs(arg string, body Term) Abs {
	return Abs{Arg: arg, Body: body}
}
