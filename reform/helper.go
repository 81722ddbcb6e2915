// Package reform implements ReSHOP's three reformulator families —
// Equilibrium, Fenchel, and Conjugate — that rewrite an OVF/CCF occurrence
// into standard optimization MPs spliced into the EMPDAG, per spec.md §4.5.
//
// Structurally these mirror the teacher's builder package: each reformulator
// is a Constructor-shaped function taking a shared "config" (here, the
// container + EmpDag + library) and applying a deterministic, validated
// mutation, returning a sentinel error rather than panicking.
package reform

import (
	"github.com/reshop/reshop-core/empdag"
	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/rhperr"
)

// ReplaceChildWithNash inserts a fresh Nash node between parent and its
// former CTRL child, per spec.md §4.2: "the reformulator library provides a
// replace_child_with_nash helper that wraps the common pattern of inserting
// a fresh Nash node between an MP and its former CTRL child." The Nash node
// becomes parent's new CTRL child, and child becomes the Nash node's first
// child; callers typically then attach a second peer MP as the Nash node's
// other child.
func ReplaceChildWithNash(d *empdag.EmpDag, parent, child identity.MPIndex) (identity.NashIndex, error) {
	if d.MP(parent) == nil || d.MP(child) == nil {
		return identity.NashInvalid, rhperr.New(rhperr.IndexOutOfRange, "ReplaceChildWithNash: unknown MP endpoint")
	}
	if !hasCtrlEdge(d, parent, child) {
		return identity.NashInvalid, rhperr.New(rhperr.EMPIncorrectInput,
			"ReplaceChildWithNash: no existing CTRL edge %s -> %s", parent, child)
	}

	nash := d.NewNash("")
	if err := d.NashAddMP(nash, child); err != nil {
		return identity.NashInvalid, err
	}
	if err := d.RemoveMPViaCtrl(parent, child); err != nil {
		return identity.NashInvalid, err
	}
	if err := d.MPAddNashViaCtrl(parent, nash); err != nil {
		return identity.NashInvalid, err
	}

	return nash, nil
}

func hasCtrlEdge(d *empdag.EmpDag, parent, child identity.MPIndex) bool {
	target := identity.MPUid(child.ID())
	for _, c := range d.CtrlChildren(parent) {
		if c == target {
			return true
		}
	}

	return false
}

// errSharedTag is returned whenever a reformulator path would need to
// interpret a shared-variable or shared-equation MP tag, per SPEC_FULL.md §7:
// the semantics of those tags are an open question this engine deliberately
// declines to guess at.
func errSharedTag(mi identity.MPIndex) error {
	return rhperr.New(rhperr.NotImplemented, "reform: shared-group MP tag %s is not interpreted by any reformulator", mi)
}

// checkNotSharedTag rejects mi if it carries a shared-variable or
// shared-equation special tag.
func checkNotSharedTag(mi identity.MPIndex) error {
	if mi.IsSharedVar() || mi.IsSharedEqu() {
		return errSharedTag(mi)
	}

	return nil
}
