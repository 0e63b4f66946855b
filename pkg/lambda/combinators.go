package lambda

// Reference combinators. Each implementation receives exactly Arity
// fully reduced arguments.
var (
	// K x y = x
	K = MustAtom("K", 2, func(args []Term) Term {
		return args[0]
	})

	// S x y z = x z (y z)
	S = MustAtom("S", 3, func(args []Term) Term {
		return NewApp(args[0], args[2], NewApp(args[1], args[2]))
	})

	// I x = x
	I = MustAtom("I", 1, func(args []Term) Term {
		return args[0]
	})

	// B x y z = x (y z)
	B = MustAtom("B", 3, func(args []Term) Term {
		return NewApp(args[0], NewApp(args[1], args[2]))
	})

	// C x y z = x z y
	C = MustAtom("C", 3, func(args []Term) Term {
		return NewApp(args[0], args[2], args[1])
	})

	// W x y = x y y
	W = MustAtom("W", 2, func(args []Term) Term {
		return NewApp(args[0], args[1], args[1])
	})
)
