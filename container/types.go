// Package container implements ReSHOP's ContainerFacade: the narrow surface
// through which the core reads and writes variables and equations. Per
// spec.md §1, the real numeric container (sparse expression trees, bound and
// metadata storage) is an external collaborator; this package models the
// contract the core consumes (Facade) and ships one concrete, in-memory
// implementation (InMemory) used by tests and by orchestrator examples.
//
// Locking follows the teacher's two-mutex split in core/types.go: muVars
// guards the variable catalog and bounds, muEqus guards the equation catalog
// and its linear/quadratic/nonlinear contribution lists, because the two
// concerns have independent read/write traffic (variable bounds rarely change
// once a model is built; equations are edited continuously by reformulators).
package container

import (
	"sort"
	"sync"

	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/rhperr"
)

// Cone identifies the cone a variable or equation's cone-inclusion residual
// must lie in.
type Cone int

const (
	ConeFree Cone = iota
	ConeNonNeg
	ConeNonPos
	ConeZero
	ConeBox
)

func (c Cone) String() string {
	switch c {
	case ConeNonNeg:
		return "R+"
	case ConeNonPos:
		return "R-"
	case ConeZero:
		return "{0}"
	case ConeBox:
		return "box"
	default:
		return "R"
	}
}

// EquKind distinguishes the three equation roles spec.md §4.1 names.
type EquKind int

const (
	EquMapping EquKind = iota
	EquDefinedMapping
	EquConeInclusion
)

// Variable is the in-memory representation of one container variable.
type Variable struct {
	ID      identity.VarIndex
	Name    string
	LB, UB  float64
	Fixed   bool
	FixVal  float64
	Integer bool
	Owner   identity.MPIndex
	Deleted bool
}

// QuadTerm is one (row, col, coefficient) entry of a quadratic contribution.
type QuadTerm struct {
	I, J  identity.VarIndex
	Value float64
}

// BilinearTerm is one v1*v2*coeff contribution.
type BilinearTerm struct {
	V1, V2 identity.VarIndex
	Coeff  float64
}

// NonlinearTerm is an opaque, structurally-spliced nonlinear sub-expression
// with an outer multiplier. The core never interprets the tree itself (per
// spec.md §1 Non-goals: "any nonlinear-tree manipulation it performs is
// structural"); Tree is an opaque handle owned by the external container.
type NonlinearTerm struct {
	Tree        interface{}
	OuterCoeff  float64
}

// Equation is the in-memory representation of one container equation.
type Equation struct {
	ID   identity.EquIndex
	Name string
	Kind EquKind
	Cone Cone

	// Linear holds accumulated coefficients per variable; equ_add_linear is
	// additive (spec.md §4.1: "successive calls accumulate").
	Linear map[identity.VarIndex]float64
	// linearOrder preserves first-insertion order so iteration (e.g. for
	// classification or printing) is deterministic, mirroring core.Graph's
	// sorted-enumeration discipline.
	linearOrder []identity.VarIndex

	Quadratic  []QuadTerm
	Bilinear   []BilinearTerm
	Nonlinear  []NonlinearTerm

	Constant float64
	RHS      float64

	Owner   identity.MPIndex
	Deleted bool

	// dirty is set by any structural edit and cleared by Sync; queries that
	// consume the incidence index (SortedVars) must not be trusted until
	// Sync has run, per spec.md §4.1's "incidence index must be brought back
	// in sync before any query that consumes it".
	dirty bool
}

// SortedVars returns the equation's distinct touched variables in ascending
// VarIndex order. Panics if called while the equation is dirty (caller must
// call Facade.SyncLequ first) — this mirrors the container_sync_lequ
// contract rather than silently returning a stale view.
func (e *Equation) SortedVars() []identity.VarIndex {
	if e.dirty {
		panic("container: Equation.SortedVars called before Sync")
	}
	out := make([]identity.VarIndex, 0, len(e.Linear)+2*len(e.Quadratic)+2*len(e.Bilinear))
	seen := make(map[identity.VarIndex]struct{}, cap(out))
	add := func(vi identity.VarIndex) {
		if _, ok := seen[vi]; !ok {
			seen[vi] = struct{}{}
			out = append(out, vi)
		}
	}
	for _, vi := range e.linearOrder {
		add(vi)
	}
	for _, q := range e.Quadratic {
		add(q.I)
		add(q.J)
	}
	for _, b := range e.Bilinear {
		add(b.V1)
		add(b.V2)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// errNotFound builds an rhperr.IndexOutOfRange error naming the missing
// entity kind and id.
func errNotFound(kind, id string) *rhperr.Error {
	return rhperr.New(rhperr.IndexOutOfRange, "%s %s not found", kind, id)
}

// Facade is the contract the core consumes from the numeric container,
// per spec.md §4.1, supplemented with VarName/EquName/EquType per
// SPEC_FULL.md §4 (needed by diagnostics and by the analyzer's per-equation
// classification).
type Facade interface {
	AddVar(lb, ub float64) (identity.VarIndex, error)
	AddVarInBox(lb, ub float64) (identity.VarIndex, error)
	AddPositiveVars(n int) ([]identity.VarIndex, error)
	AddNegativeVars(n int) ([]identity.VarIndex, error)

	AddEquation(kind EquKind, cone Cone) (identity.EquIndex, error)
	AddGreaterThan(rhs float64) (identity.EquIndex, error)
	AddLessThan(rhs float64) (identity.EquIndex, error)
	AddEquality(rhs float64) (identity.EquIndex, error)

	EquAddLinear(ei identity.EquIndex, vars []identity.VarIndex, coeffs []float64, globalCoeff float64) error
	EquAddQuadraticAbsolute(ei identity.EquIndex, terms []QuadTerm, globalCoeff float64) error
	EquAddQuadraticRelative(ei identity.EquIndex, rowVars, colVars []identity.VarIndex, terms []QuadTerm, globalCoeff float64) error
	EquAddNewLinearVar(ei identity.EquIndex, vi identity.VarIndex, val float64) error
	EquAddBilinear(ei identity.EquIndex, v1, v2 identity.VarIndex, coeff float64) error
	EquSetConstant(ei identity.EquIndex, c float64) error
	EquSetRHS(ei identity.EquIndex, c float64) error
	EquAddNonlinearExpression(ei identity.EquIndex, tree interface{}, outerCoeff float64) error
	EquCopyExcept(srcEi identity.EquIndex, exclude identity.VarIndex) (identity.EquIndex, error)
	SyncLequ(ei identity.EquIndex) error

	VarSetBounds(vi identity.VarIndex, lb, ub float64) error
	VarFix(vi identity.VarIndex, val float64) error
	VarSetInteger(vi identity.VarIndex, isInteger bool) error
	VarDelete(vi identity.VarIndex) error
	EquDelete(ei identity.EquIndex) error

	VarName(vi identity.VarIndex) (string, bool)
	EquName(ei identity.EquIndex) (string, bool)
	EquType(ei identity.EquIndex) (EquKind, Cone, bool)

	SetVarName(vi identity.VarIndex, name string) error
	SetEquName(ei identity.EquIndex, name string) error
	SetVarOwner(vi identity.VarIndex, mp identity.MPIndex) error
	SetEquOwner(ei identity.EquIndex, mp identity.MPIndex) error
	VarOwner(vi identity.VarIndex) (identity.MPIndex, bool)
	EquOwner(ei identity.EquIndex) (identity.MPIndex, bool)

	Variable(vi identity.VarIndex) (Variable, bool)
	Equation(ei identity.EquIndex) (*Equation, bool)

	NumVars() int
	NumEqus() int
	NumVarSlots() int
	NumEquSlots() int
}

// InMemory is the one concrete Facade implementation the core ships.
type InMemory struct {
	muVars sync.RWMutex
	muEqus sync.RWMutex

	vars []Variable
	equs []*Equation
}

// NewInMemory returns an empty container.
func NewInMemory() *InMemory {
	return &InMemory{}
}
