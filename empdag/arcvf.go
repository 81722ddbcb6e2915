package empdag

import (
	"github.com/reshop/reshop-core/identity"
)

// ArcVF is the weight carried by a value-function edge (spec.md §3's "ArcVF
// (value-function arc)"). Per spec.md §9's guidance to replace a
// struct-plus-type-tag union with a sum type, ArcVF is an interface closed by
// its unexported isArcVF marker method, so only the exported variant types in
// this file implement it; callers discriminate via a type switch (see
// IsInObjectiveOf, Multiply) instead of inspecting a discriminant field. Go
// does not check those switches for exhaustiveness.
type ArcVF interface {
	// Clone returns a deep copy of the variant's payload. Appending an ArcVF
	// to a Varcs list always stores Clone()'s result, per spec.md §3's
	// Lifecycles: "ArcVF weights are values; appending to a Varcs list
	// deep-copies the variant payload."
	Clone() ArcVF
	isArcVF()
}

// ArcUnset is the zero value of ArcVF: an arc that has been allocated but not
// yet assigned a weight.
type ArcUnset struct{}

func (ArcUnset) Clone() ArcVF { return ArcUnset{} }
func (ArcUnset) isArcVF()     {}

// ArcBasic carries a single variable's coefficient plus a constant:
// weight = Const + Coeff*x[Var] (or weight = Const if Var is identity.VarNA,
// the "scalar constant" case from spec.md §3).
type ArcBasic struct {
	Equ   identity.EquIndex
	Var   identity.VarIndex // identity.VarNA for the scalar-constant case
	Coeff float64
	Const float64
}

func (a ArcBasic) Clone() ArcVF { return a }
func (ArcBasic) isArcVF()       {}

// ArcMultipleBasic is a linear combination of several ArcBasic terms sharing
// one owning equation.
type ArcMultipleBasic struct {
	Equ   identity.EquIndex
	Terms []ArcBasic
}

func (a ArcMultipleBasic) Clone() ArcVF {
	out := ArcMultipleBasic{Equ: a.Equ, Terms: make([]ArcBasic, len(a.Terms))}
	copy(out.Terms, a.Terms)

	return out
}
func (ArcMultipleBasic) isArcVF() {}

// ArcLequ is a full linear combination of variables (spec.md §3: "linear
// combination"), tied to one owning equation ei.
type ArcLequ struct {
	Equ    identity.EquIndex
	Vars   []identity.VarIndex
	Coeffs []float64
}

func (a ArcLequ) Clone() ArcVF {
	out := ArcLequ{Equ: a.Equ, Vars: make([]identity.VarIndex, len(a.Vars)), Coeffs: make([]float64, len(a.Coeffs))}
	copy(out.Vars, a.Vars)
	copy(out.Coeffs, a.Coeffs)

	return out
}
func (ArcLequ) isArcVF() {}

// ArcMultipleLequ groups several ArcLequ terms.
type ArcMultipleLequ struct {
	Terms []ArcLequ
}

func (a ArcMultipleLequ) Clone() ArcVF {
	out := ArcMultipleLequ{Terms: make([]ArcLequ, len(a.Terms))}
	for i, t := range a.Terms {
		out.Terms[i] = t.Clone().(ArcLequ)
	}

	return out
}
func (ArcMultipleLequ) isArcVF() {}

// ArcEqu carries a full, possibly-nonlinear expression tree (spec.md §3:
// "full equation"), owned by equation ei. The tree is opaque to the core.
type ArcEqu struct {
	Equ  identity.EquIndex
	Tree interface{}
}

func (a ArcEqu) Clone() ArcVF { return a }
func (ArcEqu) isArcVF()       {}

// ArcMultipleEqu groups several ArcEqu terms.
type ArcMultipleEqu struct {
	Terms []ArcEqu
}

func (a ArcMultipleEqu) Clone() ArcVF {
	out := ArcMultipleEqu{Terms: make([]ArcEqu, len(a.Terms))}
	copy(out.Terms, a.Terms)

	return out
}
func (ArcMultipleEqu) isArcVF() {}

// InitArcVF constructs the scalar-constant form of ArcBasic tied to equation
// ei, the spec.md §3 "init(ei)" operation.
func InitArcVF(ei identity.EquIndex) ArcVF {
	return ArcBasic{Equ: ei, Var: identity.VarNA}
}

// MultiplyByLequ composes arc with a linear combination (vars, coeffs),
// producing (or extending) an ArcLequ/ArcMultipleLequ, the spec.md §3
// "multiply_by_lequ(vars, coeffs)" operation.
func MultiplyByLequ(arc ArcVF, ei identity.EquIndex, vars []identity.VarIndex, coeffs []float64) ArcVF {
	lequ := ArcLequ{Equ: ei, Vars: append([]identity.VarIndex(nil), vars...), Coeffs: append([]float64(nil), coeffs...)}
	switch a := arc.(type) {
	case ArcUnset:
		return lequ
	case ArcLequ:
		return ArcMultipleLequ{Terms: []ArcLequ{a, lequ}}
	case ArcMultipleLequ:
		out := a.Clone().(ArcMultipleLequ)
		out.Terms = append(out.Terms, lequ)

		return out
	default:
		// Any other existing payload is superseded: multiplying a basic/equ
		// arc by a linear combination yields a fresh linear arc carrying the
		// same owning equation context as the caller supplied.
		return lequ
	}
}

// Multiply composes two ArcVF values carried by the same parent-child pair
// into one, the spec.md §3 "multiply_by(other)" operation. An ArcUnset a
// yields a copy of b; an ArcBasic b joins an ArcBasic or ArcMultipleBasic a
// in an ArcMultipleBasic, an ArcLequ b likewise joins an ArcLequ or
// ArcMultipleLequ a, and two ArcEqu values form an ArcMultipleEqu. Any other
// pairing returns a copy of b and a is not kept.
func Multiply(a, b ArcVF) ArcVF {
	switch av := a.(type) {
	case ArcUnset:
		return b.Clone()
	case ArcBasic:
		if bv, ok := b.(ArcBasic); ok {
			return ArcMultipleBasic{Equ: av.Equ, Terms: []ArcBasic{av, bv}}
		}
	case ArcMultipleBasic:
		if bv, ok := b.(ArcBasic); ok {
			out := av.Clone().(ArcMultipleBasic)
			out.Terms = append(out.Terms, bv)

			return out
		}
	case ArcLequ:
		if bv, ok := b.(ArcLequ); ok {
			return ArcMultipleLequ{Terms: []ArcLequ{av, bv}}
		}
	case ArcMultipleLequ:
		if bv, ok := b.(ArcLequ); ok {
			out := av.Clone().(ArcMultipleLequ)
			out.Terms = append(out.Terms, bv)

			return out
		}
	}
	aEqu, aIsEqu := toArcEqu(a)
	bEqu, bIsEqu := toArcEqu(b)
	if aIsEqu && bIsEqu {
		return ArcMultipleEqu{Terms: []ArcEqu{aEqu, bEqu}}
	}

	return b.Clone()
}

func toArcEqu(a ArcVF) (ArcEqu, bool) {
	e, ok := a.(ArcEqu)

	return e, ok
}

// IsInObjectiveOf reports whether arc's owning equation is mp's objective
// equation, the spec.md §3 "is_in_objective_of(mp)" query, used by the
// analyzer/reformulators to decide whether a VF weight directly augments the
// parent's objective.
func IsInObjectiveOf(arc ArcVF, mp *MathPrgm) bool {
	if mp.ObjEqu == identity.EquInvalid {
		return false
	}
	switch a := arc.(type) {
	case ArcBasic:
		return a.Equ == mp.ObjEqu
	case ArcMultipleBasic:
		return a.Equ == mp.ObjEqu
	case ArcLequ:
		return a.Equ == mp.ObjEqu
	case ArcMultipleLequ:
		for _, t := range a.Terms {
			if t.Equ == mp.ObjEqu {
				return true
			}
		}

		return false
	case ArcEqu:
		return a.Equ == mp.ObjEqu
	case ArcMultipleEqu:
		for _, t := range a.Terms {
			if t.Equ == mp.ObjEqu {
				return true
			}
		}

		return false
	default:
		return false
	}
}
