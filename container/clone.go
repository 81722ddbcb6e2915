package container

import "github.com/reshop/reshop-core/identity"

// Clone returns a deep structural copy of c: every variable and equation at
// the same index it occupies in c (deleted slots stay deleted), per
// SPEC_FULL.md §8's "deep for equations, shallow for metadata arrays whose
// layouts are identical" — the layout here is literally identical since no
// index is renumbered, only orchestrator.Process's destination model is new.
func (c *InMemory) Clone() *InMemory {
	c.muVars.RLock()
	defer c.muVars.RUnlock()
	c.muEqus.RLock()
	defer c.muEqus.RUnlock()

	out := &InMemory{
		vars: make([]Variable, len(c.vars)),
		equs: make([]*Equation, len(c.equs)),
	}
	copy(out.vars, c.vars)

	for i, e := range c.equs {
		clone := &Equation{
			ID:       e.ID,
			Name:     e.Name,
			Kind:     e.Kind,
			Cone:     e.Cone,
			Linear:   make(map[identity.VarIndex]float64, len(e.Linear)),
			Constant: e.Constant,
			RHS:      e.RHS,
			Owner:    e.Owner,
			Deleted:  e.Deleted,
			dirty:    e.dirty,
		}
		for vi, v := range e.Linear {
			clone.Linear[vi] = v
		}
		clone.linearOrder = append(clone.linearOrder, e.linearOrder...)
		clone.Quadratic = append(clone.Quadratic, e.Quadratic...)
		clone.Bilinear = append(clone.Bilinear, e.Bilinear...)
		clone.Nonlinear = append(clone.Nonlinear, e.Nonlinear...)
		out.equs[i] = clone
	}

	return out
}
