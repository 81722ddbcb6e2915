// Package orchestrator implements ReSHOP's Orchestrator: the pipeline that
// clones a source model, rebases its EmpDag, runs the analyzer, dispatches
// each CCFLIB occurrence to its selected reformulator, and recomputes the
// resulting model's type, per spec.md §4.6.
package orchestrator

import (
	"github.com/reshop/reshop-core/container"
	"github.com/reshop/reshop-core/empdag"
	"github.com/reshop/reshop-core/reform"
)

// ReformKind selects which reformulator family handles one OVF occurrence,
// per spec.md §4.5's "Reformulator selection per OVF instance is driven by
// an explicit reformulation option on the OVF definition."
type ReformKind int

const (
	ReformEquilibrium ReformKind = iota
	ReformFenchel
	ReformConjugate
)

func (k ReformKind) String() string {
	switch k {
	case ReformFenchel:
		return "fenchel"
	case ReformConjugate:
		return "conjugate"
	default:
		return "equilibrium"
	}
}

// Config replaces the global backend/color/reformulation-choice state spec.md
// §9 flags as a design smell: every process call is parameterized explicitly
// instead of reading process-wide globals.
type Config struct {
	// Backend names the originating system (GAMS, ReSHOP-internal, Julia,
	// AMPL per spec.md §6); carried through for diagnostics only.
	Backend string

	// DefaultReform names a default reformulation family. Process does not
	// read it: each Occurrence's own Kind selects the reformulator, and a
	// zero-valued Kind is ReformEquilibrium.
	DefaultReform ReformKind
}

// Model bundles the two collaborators the Orchestrator threads through a
// pipeline run — the ContainerFacade and the EmpDag built over it — plus the
// classification RecomputeModelType assigns once reformulation is done.
type Model struct {
	Container *container.InMemory
	Dag       *empdag.EmpDag

	// Type is the LP/NLP/MIP/MINLP/QCP/QP classification from
	// RecomputeModelType (spec.md §4.6 step 5).
	Type ModelType
	// IsEMP is false once a single root MP with no children lets the model
	// flatten into a classical Opt/Vi problem.
	IsEMP bool
}

// Occurrence pairs one CCFLIB reformulation occurrence with the family
// selected to handle it.
type Occurrence struct {
	Data reform.Occurrence
	Kind ReformKind
}
