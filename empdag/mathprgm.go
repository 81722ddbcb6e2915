// Package empdag implements ReSHOP's EmpDag component: the typed directed
// graph of Mathematical Programs (MP) and Nash-equilibrium nodes, connected
// by CTRL and VF edges, per spec.md §3/§4.2.
//
// The struct shape generalizes the teacher's core.Graph (parallel
// vertex/edge maps guarded by two independent mutexes) from a single
// adjacency list to two typed forward-arc kinds per node and two node kinds;
// see DESIGN.md for why core.Graph itself was not reused directly.
package empdag

import (
	"sort"

	"github.com/reshop/reshop-core/identity"
)

// Sense is an MP's optimization sense.
type Sense int

const (
	SenseMin Sense = iota
	SenseMax
	SenseFeasibility
)

func (s Sense) String() string {
	switch s {
	case SenseMax:
		return "max"
	case SenseFeasibility:
		return "feasibility"
	default:
		return "min"
	}
}

// Opposite returns the sense that is adversarial to s: min<->max;
// feasibility has no opposite (returns itself) since it carries no
// minimax semantics, per spec.md §4.5's saddle-path rule only comparing
// min/max.
func (s Sense) Opposite() Sense {
	switch s {
	case SenseMin:
		return SenseMax
	case SenseMax:
		return SenseMin
	default:
		return s
	}
}

// PrgmType is an MP's reformulation-relevant type.
type PrgmType int

const (
	TypeUndef PrgmType = iota
	TypeOpt
	TypeVi
	TypeCcflib
	// TypeReplaced is spec.md §4.5's terminal "Replaced-By-Dual-MP-Pair" state:
	// a Ccflib MP a reformulator has already rewritten into a peer MP (and,
	// for Equilibrium/Conjugate, a Nash node). See MarkReplaced.
	TypeReplaced
)

// MathPrgm is a finalized-or-in-progress Mathematical Program: its owned
// variables/equations, objective, sense and type, per spec.md §3.
type MathPrgm struct {
	ID        identity.MPIndex
	Name      string
	Sense     Sense
	Type      PrgmType
	ProbType  string // optional, e.g. "LP", "QCP"; empty if unset
	Finalized bool

	ObjEqu      identity.EquIndex
	ObjVar      identity.VarIndex
	ObjVarCoeff float64

	// ownedVars / ownedEqus are kept strictly sorted with no duplicates at
	// all times (spec.md §8 "Sorted-list invariant"); use OwnedVars/OwnedEqus
	// to read and AddVar/AddEqu to mutate.
	ownedVars []identity.VarIndex
	ownedEqus []identity.EquIndex

	// VI-type bookkeeping (spec.md §3 MathPrgm paragraph).
	ZeroFuncCount   int
	ConstraintCount int

	// ReplacedPeer / ReplacedNash record what a reformulator produced the one
	// time it is allowed to run on this MP (spec.md §4.5's terminal state,
	// §8's idempotence property); see MarkReplaced and Replaced.
	ReplacedPeer identity.MPIndex
	ReplacedNash identity.NashIndex
}

// NewMathPrgm constructs an unfinalized MP with the given id and sense.
func NewMathPrgm(id identity.MPIndex, sense Sense, name string) *MathPrgm {
	return &MathPrgm{
		ID:           id,
		Name:         name,
		Sense:        sense,
		Type:         TypeUndef,
		ObjEqu:       identity.EquInvalid,
		ObjVar:       identity.VarInvalid,
		ReplacedPeer: identity.MPInvalid,
		ReplacedNash: identity.NashInvalid,
	}
}

// Replaced reports whether mp already went through a reformulator, per
// spec.md §4.5's terminal "Replaced-By-Dual-MP-Pair" state.
func (mp *MathPrgm) Replaced() bool { return mp.Type == TypeReplaced }

// MarkReplaced transitions mp into the terminal Replaced-By-Dual-MP-Pair
// state and records the peer MP (and Nash node, when the reformulator
// created one; NashInvalid for Fenchel, which creates no Nash node) a
// reformulator produced, so a later call on the same MP can be answered
// as an idempotent no-op (spec.md §8) instead of allocating a duplicate.
func (mp *MathPrgm) MarkReplaced(peer identity.MPIndex, nash identity.NashIndex) {
	mp.Type = TypeReplaced
	mp.ReplacedPeer = peer
	mp.ReplacedNash = nash
}

// OwnedVars returns the MP's owned variables in ascending, duplicate-free
// order.
func (mp *MathPrgm) OwnedVars() []identity.VarIndex { return mp.ownedVars }

// OwnedEqus returns the MP's owned equations in ascending, duplicate-free
// order.
func (mp *MathPrgm) OwnedEqus() []identity.EquIndex { return mp.ownedEqus }

// AddVar inserts vi into the owned-variable set, preserving the sorted,
// duplicate-free invariant.
func (mp *MathPrgm) AddVar(vi identity.VarIndex) {
	mp.ownedVars = insertSortedVar(mp.ownedVars, vi)
}

// AddEqu inserts ei into the owned-equation set, preserving the sorted,
// duplicate-free invariant.
func (mp *MathPrgm) AddEqu(ei identity.EquIndex) {
	mp.ownedEqus = insertSortedEqu(mp.ownedEqus, ei)
}

// OwnsVar reports whether vi is in the owned-variable set (O(log n)).
func (mp *MathPrgm) OwnsVar(vi identity.VarIndex) bool {
	i := sort.Search(len(mp.ownedVars), func(i int) bool { return mp.ownedVars[i] >= vi })

	return i < len(mp.ownedVars) && mp.ownedVars[i] == vi
}

// OwnsEqu reports whether ei is in the owned-equation set (O(log n)).
func (mp *MathPrgm) OwnsEqu(ei identity.EquIndex) bool {
	i := sort.Search(len(mp.ownedEqus), func(i int) bool { return mp.ownedEqus[i] >= ei })

	return i < len(mp.ownedEqus) && mp.ownedEqus[i] == ei
}

// SetObjEqu sets the (at most one) objective equation.
func (mp *MathPrgm) SetObjEqu(ei identity.EquIndex) { mp.ObjEqu = ei }

// SetObjVar sets the (at most one) objective variable and its coefficient.
func (mp *MathPrgm) SetObjVar(vi identity.VarIndex, coeff float64) {
	mp.ObjVar = vi
	mp.ObjVarCoeff = coeff
}

// ViCounts returns the VI-type MP's zero-function and constraint counts
// (spec.md §3: "For VI-type MPs: counts of zero functions ... and
// constraints").
func (mp *MathPrgm) ViCounts() (zeroFuncs, constraints int) {
	return mp.ZeroFuncCount, mp.ConstraintCount
}

// Finalize seals the MP's invariants: every opt-type MP must have exactly one
// of ObjEqu/ObjVar set; a feasibility MP must have neither.
func (mp *MathPrgm) Finalize() error {
	if mp.Type == TypeOpt {
		hasEqu := mp.ObjEqu != identity.EquInvalid
		hasVar := mp.ObjVar != identity.VarInvalid
		if hasEqu == hasVar {
			return finalizeErr(mp, "an opt MP requires exactly one of objequ/objvar")
		}
	}
	if mp.Sense == SenseFeasibility && (mp.ObjEqu != identity.EquInvalid || mp.ObjVar != identity.VarInvalid) {
		return finalizeErr(mp, "a feasibility MP must have neither objequ nor objvar")
	}
	mp.Finalized = true

	return nil
}

func insertSortedVar(s []identity.VarIndex, v identity.VarIndex) []identity.VarIndex {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= v })
	if i < len(s) && s[i] == v {
		return s
	}
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v

	return s
}

func insertSortedEqu(s []identity.EquIndex, v identity.EquIndex) []identity.EquIndex {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= v })
	if i < len(s) && s[i] == v {
		return s
	}
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v

	return s
}
