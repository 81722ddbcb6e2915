package ovf

import (
	"fmt"
	"math"

	"github.com/reshop/reshop-core/container"
	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/numlinalg"
)

// kNode is the opaque nonlinear-tree payload every template splices in via
// AddK. The core treats nonlinear trees structurally only (spec.md §1's
// "any nonlinear-tree manipulation it performs is structural"), so this is a
// descriptive marker rather than a symbolic expression; a real container
// backend interprets Kind/Args against its own expression graph.
type kNode struct {
	Kind string
	Y    []identity.VarIndex
	Rho  float64
}

// addNegatedK is the shared AddK body: every template appends -k(y) as a
// single nonlinear splice with outer coefficient -1.
func addNegatedK(c container.Facade, target identity.EquIndex, kind string, y []identity.VarIndex, rho float64) error {
	return c.EquAddNonlinearExpression(target, kNode{Kind: kind, Y: y, Rho: rho}, -1)
}

// createBlockVar allocates len(args) free variables named prefix0..prefixN-1.
func createBlockVar(c container.Facade, n int, namePrefix string) ([]identity.VarIndex, error) {
	out := make([]identity.VarIndex, n)
	for i := 0; i < n; i++ {
		vi, err := c.AddVar(math.Inf(-1), math.Inf(1))
		if err != nil {
			return nil, err
		}
		if err := c.SetVarName(vi, fmt.Sprintf("%s%d", namePrefix, i)); err != nil {
			return nil, err
		}
		out[i] = vi
	}

	return out, nil
}

// quadraticFactorFromScale builds the QuadraticFactor for M = scale*I by
// running M through numlinalg.Cholesky, the LDLᵀ factorization spec.md §4.4's
// get_D names directly ("return a Cholesky factorization M = DᵀJD of the
// quadratic part"). scale*I is diagonal and PSD for scale >= 0, so Cholesky
// never fails here; a negative scale is a malformed template and panics
// rather than silently returning a factorization that doesn't satisfy
// M = DᵀJD.
func quadraticFactorFromScale(n int, scale float64) QuadraticFactor {
	m, err := numlinalg.NewDense(n, n)
	if err != nil {
		panic(fmt.Sprintf("ovf: quadraticFactorFromScale(%d, %g): %v", n, scale, err))
	}
	for i := 0; i < n; i++ {
		_ = m.Set(i, i, scale)
	}

	d, j, err := numlinalg.Cholesky(m)
	if err != nil {
		panic(fmt.Sprintf("ovf: quadraticFactorFromScale(%d, %g): %v", n, scale, err))
	}

	return QuadraticFactor{D: d, J: j}
}

// identityFactor returns the Cholesky-style factor of the identity quadratic
// form 0.5*y^T*y: D = I, J = all-ones.
func identityFactor(n int) QuadraticFactor { return quadraticFactorFromScale(n, 1) }

// scaledFactor is identityFactor scaled by scale on the diagonal (used by
// elastic_net; huber uses identityFactor).
func scaledFactor(n int, scale float64) QuadraticFactor { return quadraticFactorFromScale(n, scale) }

// boxNonbox returns the empty PolyhedralSet used by templates whose feasible
// set is a coordinate-wise box with no extra polyhedral rows (A, s both nil).
func boxNonbox() PolyhedralSet {
	return PolyhedralSet{}
}

// negInf / posInf name math.Inf(-1)/math.Inf(1) for templates whose bounds
// are unbounded in one or both directions.
var (
	negInf = math.Inf(-1)
	posInf = math.Inf(1)
)

// identityAffine is the affine transform F(x) = x (B = I, b = 0), the
// default every catalog template uses today since the reformulators compose
// any further affine map supplied by the OVF instance's own arguments on top.
func identityAffine(n int) AffineTransform {
	return AffineTransform{B: numlinalg.Identity(n), B0: make([]float64, n)}
}

// rowVector wraps a single row as a 1xN Dense matrix, used by templates whose
// SetNonbox has exactly one polyhedral row (e.g. cvar_quantile's budget row).
func rowVector(row []float64) *numlinalg.Dense {
	m, _ := numlinalg.NewDense(1, len(row))
	for j, v := range row {
		_ = m.Set(0, j, v)
	}

	return m
}

