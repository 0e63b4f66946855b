package lambda

import (
	"strconv"

	"github.com/samber/lo"
)

// Substitute replaces every free occurrence of name in t with r.
//
// Binders are never renamed: a free variable of r that coincides with an
// enclosing Abs.Arg in t is captured. Callers that need hygiene use
// SubstituteHygienic or keep bound names globally distinct.
func Substitute(r Term, name string, t Term) Term {
	switch v := t.(type) {
	case Var:
		if v.Name == name {
			return r
		}
		return v
	case *Atom:
		return v
	case App:
		return App{Elems: lo.Map(v.Elems, func(e Term, _ int) Term {
			return Substitute(r, name, e)
		})}
	case Abs:
		if v.Arg == name {
			return v
		}
		return Abs{Arg: v.Arg, Body: Substitute(r, name, v.Body)}
	default:
		return t
	}
}

// SubstituteHygienic is Substitute with alpha-renaming: a binder that
// would capture a free variable of r is renamed to a fresh name first.
func SubstituteHygienic(r Term, name string, t Term) Term {
	return hygienic(r, FreeVars(r), name, t)
}

func hygienic(r Term, rFree map[string]bool, name string, t Term) Term {
	switch v := t.(type) {
	case App:
		return App{Elems: lo.Map(v.Elems, func(e Term, _ int) Term {
			return hygienic(r, rFree, name, e)
		})}
	case Abs:
		if v.Arg == name || !OccursFree(name, v.Body) {
			return v
		}
		if !rFree[v.Arg] {
			return Abs{Arg: v.Arg, Body: hygienic(r, rFree, name, v.Body)}
		}
		fresh := freshName(v.Arg, rFree, FreeVars(v.Body), map[string]bool{name: true})
		renamed := SubstituteHygienic(Var{Name: fresh}, v.Arg, v.Body)
		return Abs{Arg: fresh, Body: hygienic(r, rFree, name, renamed)}
	default:
		return Substitute(r, name, t)
	}
}

// freshName returns base followed by the smallest positive counter that
// is not a key of any avoid set.
func freshName(base string, avoid ...map[string]bool) string {
	for i := 1; ; i++ {
		candidate := base + strconv.Itoa(i)
		taken := lo.SomeBy(avoid, func(set map[string]bool) bool {
			return set[candidate]
		})
		if !taken {
			return candidate
		}
	}
}

// FreeVars returns the set of variable names occurring free in t.
func FreeVars(t Term) map[string]bool {
	free := make(map[string]bool)
	var walk func(t Term, bound map[string]int)
	walk = func(t Term, bound map[string]int) {
		switch v := t.(type) {
		case Var:
			if bound[v.Name] == 0 {
				free[v.Name] = true
			}
		case App:
			for _, e := range v.Elems {
				walk(e, bound)
			}
		case Abs:
			bound[v.Arg]++
			walk(v.Body, bound)
			bound[v.Arg]--
		}
	}
	walk(t, make(map[string]int))
	return free
}

// OccursFree reports whether name occurs free in t.
func OccursFree(name string, t Term) bool {
	switch v := t.(type) {
	case Var:
		return v.Name == name
	case App:
		return lo.SomeBy(v.Elems, func(e Term) bool {
			return OccursFree(name, e)
		})
	case Abs:
		// shadowing: occurrences under a binder of the same name are bound
		if v.Arg == name {
			return false
		}
		return OccursFree(name, v.Body)
	default:
		return false
	}
}
