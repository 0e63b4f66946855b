package lambda

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteVariable(t *testing.T) {
	y := NewVar("y")
	assert.Equal(t, "y", Render(Substitute(y, "x", NewVar("x"))))
	assert.Equal(t, "z", Render(Substitute(y, "x", NewVar("z"))))
}

func TestSubstituteLeavesAtoms(t *testing.T) {
	assert.Same(t, K, Substitute(NewVar("y"), "K", K))
}

// Substitution stops at a binder of the same name.
func TestSubstituteRespectsShadowing(t *testing.T) {
	bodies := []Term{
		NewVar("x"),
		NewApp(NewVar("x"), NewVar("z")),
		NewAbs("y", NewApp(NewVar("x"), NewVar("y"))),
		NewApp(K, NewVar("x")),
	}
	replacements := []Term{NewVar("r"), S, NewAbs("q", NewVar("x"))}
	for _, b := range bodies {
		abs := NewAbs("x", b)
		for _, r := range replacements {
			assert.Equal(t, Render(abs), Render(Substitute(r, "x", abs)))
		}
	}
}

func TestSubstituteIsStructuralOnApplications(t *testing.T) {
	r := NewApp(K, NewVar("w"))
	elems := []Term{
		NewVar("x"),
		NewVar("y"),
		NewAbs("x", NewVar("x")),
		NewAbs("y", NewVar("x")),
		NewApp(NewVar("x"), S),
	}
	whole := Substitute(r, "x", NewApp(elems...))

	parts := make([]Term, len(elems))
	for i, e := range elems {
		parts[i] = Substitute(r, "x", e)
	}
	assert.Equal(t, Render(NewApp(parts...)), Render(whole))
	assert.Equal(t, "((K w) y (Lx.x) (Ly.(K w)) ((K w) S))", Render(whole))
}

func TestSubstituteDoesNotMutateInput(t *testing.T) {
	body := NewApp(NewVar("x"), NewAbs("y", NewVar("x")))
	before := Render(body)
	_ = Substitute(NewVar("q"), "x", body)
	assert.Equal(t, before, Render(body))
}

// Plain substitution captures: the free y of the replacement ends up
// bound by the inner binder.
func TestSubstituteCaptures(t *testing.T) {
	got := Substitute(NewVar("y"), "x", NewAbs("y", NewApp(NewVar("x"), NewVar("y"))))
	assert.Equal(t, "(Ly.(y y))", Render(got))
}

func TestSubstituteHygienicRenamesBinder(t *testing.T) {
	got := SubstituteHygienic(NewVar("y"), "x", NewAbs("y", NewApp(NewVar("x"), NewVar("y"))))
	assert.Equal(t, "(Ly1.(y y1))", Render(got))
}

func TestSubstituteHygienicPicksUnusedName(t *testing.T) {
	// y1 is free in the replacement and y2 is free in the body.
	r := NewApp(NewVar("y"), NewVar("y1"))
	body := NewAbs("y", NewApp(NewVar("x"), NewVar("y"), NewVar("y2")))
	got := SubstituteHygienic(r, "x", body)
	assert.Equal(t, "(Ly3.((y y1) y3 y2))", Render(got))
}

func TestSubstituteHygienicKeepsNonCapturingBinders(t *testing.T) {
	body := NewAbs("z", NewApp(NewVar("x"), NewVar("z")))
	assert.Equal(t, "(Lz.(y z))", Render(SubstituteHygienic(NewVar("y"), "x", body)))

	// no free x below the binder: nothing to rename
	unused := NewAbs("y", NewVar("y"))
	assert.Equal(t, "(Ly.y)", Render(SubstituteHygienic(NewVar("y"), "x", unused)))
}

func TestFreeVars(t *testing.T) {
	term := NewApp(NewVar("a"), NewAbs("x", NewApp(NewVar("x"), NewVar("b"), NewAbs("b", NewVar("b")))), K)
	assert.Equal(t, map[string]bool{"a": true, "b": true}, FreeVars(term))
	assert.True(t, OccursFree("b", term))
	assert.False(t, OccursFree("x", term))
	assert.False(t, OccursFree("K", term))
}
