// Package ovf implements ReSHOP's OvfLibrary: the catalog of named CCF/OVF
// (Closed Convex Function) templates the Fenchel/Equilibrium/Conjugate
// reformulators draw on, per spec.md §4.4.
//
// The catalog is a flat name -> Template lookup table, grounded on the
// teacher's builder package: variants.go's name-keyed maps (hexSizes,
// hexChordSets) drive builder.Hexagram the same way Library's map drives
// reform.Equilibrium/Fenchel/Conjugate. Per-template data (bounds, cones,
// quadratic factors) lives in each template type's own methods in
// templates.go rather than in a chain of per-name conditionals.
package ovf

import (
	"github.com/reshop/reshop-core/container"
	"github.com/reshop/reshop-core/empdag"
	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/numlinalg"
)

// AffineTransform is the (B, b) pair in F(x) = Bx + b that a template's
// arguments carry, per spec.md §4.4's get_affine_transformation.
type AffineTransform struct {
	B *numlinalg.Dense
	B0 []float64
}

// PolyhedralSet is the (A, s) pair defining the nonbox constraints
// Ay + s in K that bound the auxiliary variable y.
type PolyhedralSet struct {
	A     *numlinalg.Dense
	Shift []float64
	Cones []container.Cone
}

// QuadraticFactor holds the Cholesky-style factors M = D^T J D of a
// template's quadratic part, per spec.md §4.4's get_D.
type QuadraticFactor struct {
	D *numlinalg.Dense
	J []float64
}

// Properties is the get_ppty() result: whether the template carries a
// nontrivial quadratic part, its default sense, and an optional probtype tag.
type Properties struct {
	IsQuad   bool
	Sense    empdag.Sense
	ProbType string
}

// Template is the vtable every catalog entry implements, per spec.md §4.4.
// num_args is passed to the methods as a plain int (or derived from len(args))
// and size_y equals it, since every template in the fixed catalog derives
// them deterministically from the instance's argument count.
type Template interface {
	Name() string
	DefaultSense() empdag.Sense

	// CreateUvar allocates the auxiliary variable block y in c, sized
	// len(args), and returns its variable indices.
	CreateUvar(c container.Facade, args []identity.VarIndex, namePrefix string) ([]identity.VarIndex, error)

	// AddK appends -k(y) to the target equation.
	AddK(c container.Facade, target identity.EquIndex, y []identity.VarIndex) error

	AffineTransformation(args []identity.VarIndex) AffineTransform
	SetNonbox(numArgs int) PolyhedralSet
	ConeNonbox(numArgs, row int) (container.Cone, []float64)
	QuadraticFactorization(numArgs int) (QuadraticFactor, bool)

	VarLB(numArgs, i int) float64
	VarUB(numArgs, i int) float64

	Properties(numArgs int) Properties

	// ConjugateSupported reports whether this template has a closed-form
	// conjugate k*(eta), making it eligible for reform.Conjugate instead of
	// the general Fenchel path.
	ConjugateSupported() bool
}
