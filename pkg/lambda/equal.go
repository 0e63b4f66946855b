package lambda

// Equal reports whether a and b are structurally identical. Atoms are
// equal when they are the same atom or share name and arity; bound
// names are compared literally, so alpha-equivalent terms may differ.
func Equal(a, b Term) bool {
	switch x := a.(type) {
	case Var:
		y, ok := b.(Var)
		return ok && x.Name == y.Name
	case *Atom:
		y, ok := b.(*Atom)
		if !ok {
			return false
		}
		return x == y || (x.name == y.name && x.arity == y.arity)
	case App:
		y, ok := b.(App)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case Abs:
		y, ok := b.(Abs)
		return ok && x.Arg == y.Arg && Equal(x.Body, y.Body)
	default:
		return a == nil && b == nil
	}
}
