package ovf

import (
	"github.com/reshop/reshop-core/container"
	"github.com/reshop/reshop-core/empdag"
	"github.com/reshop/reshop-core/identity"
)

// l1Template is k(y) = ||y||_1; its conjugate's domain is the infinity-ball
// [-1, 1]^n, so the auxiliary block carries box bounds and no quadratic part.
type l1Template struct{}

func (l1Template) Name() string                { return "l1" }
func (l1Template) DefaultSense() empdag.Sense   { return empdag.SenseMin }
func (l1Template) ConjugateSupported() bool     { return false }
func (l1Template) VarLB(_, _ int) float64       { return -1 }
func (l1Template) VarUB(_, _ int) float64       { return 1 }
func (l1Template) SetNonbox(int) PolyhedralSet  { return boxNonbox() }
func (l1Template) ConeNonbox(_, _ int) (container.Cone, []float64) {
	return container.ConeBox, nil
}
func (l1Template) QuadraticFactorization(int) (QuadraticFactor, bool) { return QuadraticFactor{}, false }
func (l1Template) Properties(n int) Properties {
	return Properties{IsQuad: false, Sense: empdag.SenseMin, ProbType: "LP"}
}
func (l1Template) CreateUvar(c container.Facade, args []identity.VarIndex, prefix string) ([]identity.VarIndex, error) {
	return createBlockVar(c, len(args), prefix)
}
func (l1Template) AddK(c container.Facade, target identity.EquIndex, y []identity.VarIndex) error {
	return addNegatedK(c, target, "l1", y, 0)
}
func (l1Template) AffineTransformation(args []identity.VarIndex) AffineTransform {
	return identityAffine(len(args))
}

// l2Template is k(y) = 0.5*||y||^2; self-dual, has a closed-form conjugate,
// and its quadratic part is the identity (as is huber's). y is unbounded, so
// Fenchel's shift is zero.
type l2Template struct{}

func (l2Template) Name() string              { return "l2" }
func (l2Template) DefaultSense() empdag.Sense { return empdag.SenseMin }
func (l2Template) ConjugateSupported() bool  { return true }
func (l2Template) VarLB(int, int) float64    { return negInf }
func (l2Template) VarUB(int, int) float64    { return posInf }
func (l2Template) SetNonbox(int) PolyhedralSet { return boxNonbox() }
func (l2Template) ConeNonbox(_, _ int) (container.Cone, []float64) {
	return container.ConeFree, nil
}
func (l2Template) QuadraticFactorization(n int) (QuadraticFactor, bool) {
	return identityFactor(n), true
}
func (l2Template) Properties(n int) Properties {
	return Properties{IsQuad: true, Sense: empdag.SenseMin, ProbType: "QCP"}
}
func (l2Template) CreateUvar(c container.Facade, args []identity.VarIndex, prefix string) ([]identity.VarIndex, error) {
	return createBlockVar(c, len(args), prefix)
}
func (l2Template) AddK(c container.Facade, target identity.EquIndex, y []identity.VarIndex) error {
	return addNegatedK(c, target, "l2", y, 0)
}
func (l2Template) AffineTransformation(args []identity.VarIndex) AffineTransform {
	return identityAffine(len(args))
}

// elasticNetTemplate mixes l1Template's box-constrained linear part with
// l2Template's quadratic part at a fixed mixing ratio rho.
type elasticNetTemplate struct{ rho float64 }

func (elasticNetTemplate) Name() string              { return "elastic_net" }
func (elasticNetTemplate) DefaultSense() empdag.Sense { return empdag.SenseMin }
func (elasticNetTemplate) ConjugateSupported() bool  { return false }
func (t elasticNetTemplate) VarLB(_, _ int) float64  { return -1 }
func (t elasticNetTemplate) VarUB(_, _ int) float64  { return 1 }
func (elasticNetTemplate) SetNonbox(int) PolyhedralSet { return boxNonbox() }
func (elasticNetTemplate) ConeNonbox(_, _ int) (container.Cone, []float64) {
	return container.ConeBox, nil
}
func (t elasticNetTemplate) QuadraticFactorization(n int) (QuadraticFactor, bool) {
	return scaledFactor(n, t.rho), true
}
func (elasticNetTemplate) Properties(n int) Properties {
	return Properties{IsQuad: true, Sense: empdag.SenseMin, ProbType: "QCP"}
}
func (elasticNetTemplate) CreateUvar(c container.Facade, args []identity.VarIndex, prefix string) ([]identity.VarIndex, error) {
	return createBlockVar(c, len(args), prefix)
}
func (elasticNetTemplate) AddK(c container.Facade, target identity.EquIndex, y []identity.VarIndex) error {
	return addNegatedK(c, target, "elastic_net", y, 0)
}
func (elasticNetTemplate) AffineTransformation(args []identity.VarIndex) AffineTransform {
	return identityAffine(len(args))
}

// huberTemplate is quadratic inside [-delta, delta] and linear beyond; its
// dual feasible set is the same box as l1Template but with a nontrivial
// quadratic part (the "s" block in Fenchel's step 2).
type huberTemplate struct{ delta float64 }

func (huberTemplate) Name() string              { return "huber" }
func (huberTemplate) DefaultSense() empdag.Sense { return empdag.SenseMin }
func (huberTemplate) ConjugateSupported() bool  { return false }
func (t huberTemplate) VarLB(_, _ int) float64  { return -t.delta }
func (t huberTemplate) VarUB(_, _ int) float64  { return t.delta }
func (huberTemplate) SetNonbox(int) PolyhedralSet { return boxNonbox() }
func (huberTemplate) ConeNonbox(_, _ int) (container.Cone, []float64) {
	return container.ConeBox, nil
}
func (huberTemplate) QuadraticFactorization(n int) (QuadraticFactor, bool) {
	return identityFactor(n), true
}
func (huberTemplate) Properties(n int) Properties {
	return Properties{IsQuad: true, Sense: empdag.SenseMin, ProbType: "QCP"}
}
func (huberTemplate) CreateUvar(c container.Facade, args []identity.VarIndex, prefix string) ([]identity.VarIndex, error) {
	return createBlockVar(c, len(args), prefix)
}
func (huberTemplate) AddK(c container.Facade, target identity.EquIndex, y []identity.VarIndex) error {
	return addNegatedK(c, target, "huber", y, 0)
}
func (huberTemplate) AffineTransformation(args []identity.VarIndex) AffineTransform {
	return identityAffine(len(args))
}

// hingeTemplate is k(y) = max(0, 1-y); its conjugate's domain is the unit
// box [0, 1] shifted by the constant term, so sense is min with no quadratic.
type hingeTemplate struct{}

func (hingeTemplate) Name() string              { return "hinge" }
func (hingeTemplate) DefaultSense() empdag.Sense { return empdag.SenseMin }
func (hingeTemplate) ConjugateSupported() bool  { return false }
func (hingeTemplate) VarLB(_, _ int) float64    { return 0 }
func (hingeTemplate) VarUB(_, _ int) float64    { return 1 }
func (hingeTemplate) SetNonbox(int) PolyhedralSet { return boxNonbox() }
func (hingeTemplate) ConeNonbox(_, _ int) (container.Cone, []float64) {
	return container.ConeBox, nil
}
func (hingeTemplate) QuadraticFactorization(int) (QuadraticFactor, bool) { return QuadraticFactor{}, false }
func (hingeTemplate) Properties(n int) Properties {
	return Properties{IsQuad: false, Sense: empdag.SenseMin, ProbType: "LP"}
}
func (hingeTemplate) CreateUvar(c container.Facade, args []identity.VarIndex, prefix string) ([]identity.VarIndex, error) {
	return createBlockVar(c, len(args), prefix)
}
func (hingeTemplate) AddK(c container.Facade, target identity.EquIndex, y []identity.VarIndex) error {
	return addNegatedK(c, target, "hinge", y, 0)
}
func (hingeTemplate) AffineTransformation(args []identity.VarIndex) AffineTransform {
	return identityAffine(len(args))
}

// vapnikTemplate is the epsilon-insensitive loss; its dual box is
// [-1, 1]^n, and epsilon is carried on the template and passed by AddK as the
// Rho field of the spliced -k(y) node.
type vapnikTemplate struct{ epsilon float64 }

func (vapnikTemplate) Name() string              { return "vapnik" }
func (vapnikTemplate) DefaultSense() empdag.Sense { return empdag.SenseMin }
func (vapnikTemplate) ConjugateSupported() bool  { return false }
func (vapnikTemplate) VarLB(_, _ int) float64    { return -1 }
func (vapnikTemplate) VarUB(_, _ int) float64    { return 1 }
func (vapnikTemplate) SetNonbox(int) PolyhedralSet { return boxNonbox() }
func (vapnikTemplate) ConeNonbox(_, _ int) (container.Cone, []float64) {
	return container.ConeBox, nil
}
func (vapnikTemplate) QuadraticFactorization(int) (QuadraticFactor, bool) { return QuadraticFactor{}, false }
func (vapnikTemplate) Properties(n int) Properties {
	return Properties{IsQuad: false, Sense: empdag.SenseMin, ProbType: "LP"}
}
func (vapnikTemplate) CreateUvar(c container.Facade, args []identity.VarIndex, prefix string) ([]identity.VarIndex, error) {
	return createBlockVar(c, len(args), prefix)
}
func (t vapnikTemplate) AddK(c container.Facade, target identity.EquIndex, y []identity.VarIndex) error {
	return addNegatedK(c, target, "vapnik", y, t.epsilon)
}
func (vapnikTemplate) AffineTransformation(args []identity.VarIndex) AffineTransform {
	return identityAffine(len(args))
}

// cvarQuantileTemplate is the Conditional Value-at-Risk loss at a fixed
// quantile level alpha; its conjugate's domain is the box [0, 1/(1-alpha)]
// with one extra polyhedral row pinning the sum to 1 (the "budget"
// constraint characteristic of CVaR's dual representation).
type cvarQuantileTemplate struct{ alpha float64 }

func (cvarQuantileTemplate) Name() string              { return "cvar_quantile" }
func (cvarQuantileTemplate) DefaultSense() empdag.Sense { return empdag.SenseMin }
func (cvarQuantileTemplate) ConjugateSupported() bool  { return false }
func (cvarQuantileTemplate) VarLB(_, _ int) float64    { return 0 }
func (t cvarQuantileTemplate) VarUB(_, _ int) float64  { return 1 / (1 - t.alpha) }
func (t cvarQuantileTemplate) SetNonbox(n int) PolyhedralSet {
	a := make([]float64, n)
	for i := range a {
		a[i] = 1
	}

	return PolyhedralSet{A: rowVector(a), Shift: []float64{-1}, Cones: []container.Cone{container.ConeZero}}
}
func (cvarQuantileTemplate) ConeNonbox(_, row int) (container.Cone, []float64) {
	if row == 0 {
		return container.ConeZero, nil
	}

	return container.ConeFree, nil
}
func (cvarQuantileTemplate) QuadraticFactorization(int) (QuadraticFactor, bool) { return QuadraticFactor{}, false }
func (cvarQuantileTemplate) Properties(n int) Properties {
	return Properties{IsQuad: false, Sense: empdag.SenseMin, ProbType: "LP"}
}
func (cvarQuantileTemplate) CreateUvar(c container.Facade, args []identity.VarIndex, prefix string) ([]identity.VarIndex, error) {
	return createBlockVar(c, len(args), prefix)
}
func (t cvarQuantileTemplate) AddK(c container.Facade, target identity.EquIndex, y []identity.VarIndex) error {
	return addNegatedK(c, target, "cvar_quantile", y, t.alpha)
}
func (cvarQuantileTemplate) AffineTransformation(args []identity.VarIndex) AffineTransform {
	return identityAffine(len(args))
}

// expectedValueTemplate is k(y) = 0: the trivial OVF whose value is just the
// expectation of its arguments. y is unbounded and SetNonbox carries no
// polyhedral row. It has a closed-form conjugate, so it is eligible for
// reform.Conjugate like l2Template.
type expectedValueTemplate struct{}

func (expectedValueTemplate) Name() string              { return "expected_value" }
func (expectedValueTemplate) DefaultSense() empdag.Sense { return empdag.SenseMin }
func (expectedValueTemplate) ConjugateSupported() bool  { return true }
func (expectedValueTemplate) VarLB(int, int) float64    { return negInf }
func (expectedValueTemplate) VarUB(int, int) float64    { return posInf }
func (expectedValueTemplate) SetNonbox(int) PolyhedralSet { return boxNonbox() }
func (expectedValueTemplate) ConeNonbox(_, _ int) (container.Cone, []float64) {
	return container.ConeZero, nil
}
func (expectedValueTemplate) QuadraticFactorization(int) (QuadraticFactor, bool) { return QuadraticFactor{}, false }
func (expectedValueTemplate) Properties(n int) Properties {
	return Properties{IsQuad: false, Sense: empdag.SenseMin, ProbType: "LP"}
}
func (expectedValueTemplate) CreateUvar(c container.Facade, args []identity.VarIndex, prefix string) ([]identity.VarIndex, error) {
	return createBlockVar(c, len(args), prefix)
}
func (expectedValueTemplate) AddK(c container.Facade, target identity.EquIndex, y []identity.VarIndex) error {
	return addNegatedK(c, target, "expected_value", y, 0)
}
func (expectedValueTemplate) AffineTransformation(args []identity.VarIndex) AffineTransform {
	return identityAffine(len(args))
}
