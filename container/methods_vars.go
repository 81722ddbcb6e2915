package container

import (
	"fmt"
	"math"

	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/rhperr"
)

// AddVar appends a new variable with bounds [lb, ub] and returns its index.
// Indices are permanent: once returned, vi remains valid for the life of the
// container unless VarDelete is called (spec.md §4.1), and indices are never
// reused.
func (c *InMemory) AddVar(lb, ub float64) (identity.VarIndex, error) {
	if lb > ub {
		return identity.VarInvalid, rhperr.New(rhperr.InvalidValue, "AddVar: lb=%g > ub=%g", lb, ub)
	}
	c.muVars.Lock()
	defer c.muVars.Unlock()

	vi := identity.VarIndex(len(c.vars))
	c.vars = append(c.vars, Variable{ID: vi, LB: lb, UB: ub, Owner: identity.MPInvalid})

	return vi, nil
}

// AddVarInBox is an alias over AddVar kept distinct per spec.md §4.1's naming,
// reserved for callers that want to signal "this is a box-bounded variable"
// at the call site even though the storage is identical.
func (c *InMemory) AddVarInBox(lb, ub float64) (identity.VarIndex, error) {
	return c.AddVar(lb, ub)
}

// AddPositiveVars allocates n variables in [0, +Inf).
func (c *InMemory) AddPositiveVars(n int) ([]identity.VarIndex, error) {
	return c.addVarsBatch(n, 0, math.Inf(1))
}

// AddNegativeVars allocates n variables in (-Inf, 0].
func (c *InMemory) AddNegativeVars(n int) ([]identity.VarIndex, error) {
	return c.addVarsBatch(n, math.Inf(-1), 0)
}

func (c *InMemory) addVarsBatch(n int, lb, ub float64) ([]identity.VarIndex, error) {
	if n < 0 {
		return nil, rhperr.New(rhperr.InvalidArgument, "addVarsBatch: n=%d < 0", n)
	}
	out := make([]identity.VarIndex, 0, n)
	for i := 0; i < n; i++ {
		vi, err := c.AddVar(lb, ub)
		if err != nil {
			return nil, err
		}
		out = append(out, vi)
	}

	return out, nil
}

func (c *InMemory) checkVar(vi identity.VarIndex) (*Variable, error) {
	if int(vi) < 0 || int(vi) >= len(c.vars) {
		return nil, errNotFound("variable", vi.String())
	}
	v := &c.vars[vi]
	if v.Deleted {
		return nil, rhperr.New(rhperr.IndexOutOfRange, "variable %s was deleted", vi)
	}

	return v, nil
}

// VarSetBounds updates the bounds of an existing, non-deleted variable.
func (c *InMemory) VarSetBounds(vi identity.VarIndex, lb, ub float64) error {
	if lb > ub {
		return rhperr.New(rhperr.InvalidValue, "VarSetBounds: lb=%g > ub=%g", lb, ub)
	}
	c.muVars.Lock()
	defer c.muVars.Unlock()
	v, err := c.checkVar(vi)
	if err != nil {
		return err
	}
	v.LB, v.UB = lb, ub

	return nil
}

// VarFix fixes vi at val, collapsing its bounds to {val}.
func (c *InMemory) VarFix(vi identity.VarIndex, val float64) error {
	c.muVars.Lock()
	defer c.muVars.Unlock()
	v, err := c.checkVar(vi)
	if err != nil {
		return err
	}
	v.Fixed = true
	v.FixVal = val
	v.LB, v.UB = val, val

	return nil
}

// VarDelete permanently removes vi. Deletion is irreversible and the index is
// never reused, per spec.md §4.1.
func (c *InMemory) VarDelete(vi identity.VarIndex) error {
	c.muVars.Lock()
	defer c.muVars.Unlock()
	v, err := c.checkVar(vi)
	if err != nil {
		return err
	}
	v.Deleted = true

	return nil
}

// VarSetInteger marks vi as an integer (or binary, via bounds [0,1])
// variable, the detail recompute_modeltype needs to distinguish MIP/MINLP
// from LP/NLP.
func (c *InMemory) VarSetInteger(vi identity.VarIndex, isInteger bool) error {
	c.muVars.Lock()
	defer c.muVars.Unlock()
	v, err := c.checkVar(vi)
	if err != nil {
		return err
	}
	v.Integer = isInteger

	return nil
}

// SetVarName assigns a display name to vi.
func (c *InMemory) SetVarName(vi identity.VarIndex, name string) error {
	c.muVars.Lock()
	defer c.muVars.Unlock()
	v, err := c.checkVar(vi)
	if err != nil {
		return err
	}
	v.Name = name

	return nil
}

// VarName returns vi's display name, falling back to a synthesized name.
func (c *InMemory) VarName(vi identity.VarIndex) (string, bool) {
	c.muVars.RLock()
	defer c.muVars.RUnlock()
	if int(vi) < 0 || int(vi) >= len(c.vars) || c.vars[vi].Deleted {
		return "", false
	}
	if c.vars[vi].Name != "" {
		return c.vars[vi].Name, true
	}

	return fmt.Sprintf("x%d", vi), true
}

// SetVarOwner records which MP owns vi. Every owned variable must map back
// to its MP via this metadata once the MP is finalized (spec.md §3).
func (c *InMemory) SetVarOwner(vi identity.VarIndex, mp identity.MPIndex) error {
	c.muVars.Lock()
	defer c.muVars.Unlock()
	v, err := c.checkVar(vi)
	if err != nil {
		return err
	}
	v.Owner = mp

	return nil
}

// VarOwner returns the MP that owns vi, if any.
func (c *InMemory) VarOwner(vi identity.VarIndex) (identity.MPIndex, bool) {
	c.muVars.RLock()
	defer c.muVars.RUnlock()
	if int(vi) < 0 || int(vi) >= len(c.vars) || c.vars[vi].Deleted {
		return identity.MPInvalid, false
	}

	return c.vars[vi].Owner, true
}

// Variable returns a copy of vi's current state.
func (c *InMemory) Variable(vi identity.VarIndex) (Variable, bool) {
	c.muVars.RLock()
	defer c.muVars.RUnlock()
	if int(vi) < 0 || int(vi) >= len(c.vars) || c.vars[vi].Deleted {
		return Variable{}, false
	}

	return c.vars[vi], true
}

// NumVarSlots returns the total number of variable slots ever allocated,
// including deleted ones — the range orchestrator's model-type classifier
// iterates to visit every variable exactly once regardless of deletion.
func (c *InMemory) NumVarSlots() int {
	c.muVars.RLock()
	defer c.muVars.RUnlock()

	return len(c.vars)
}

// NumVars returns the number of non-deleted variables.
func (c *InMemory) NumVars() int {
	c.muVars.RLock()
	defer c.muVars.RUnlock()
	n := 0
	for i := range c.vars {
		if !c.vars[i].Deleted {
			n++
		}
	}

	return n
}
