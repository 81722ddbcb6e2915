package container

import (
	"fmt"

	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/rhperr"
)

// AddEquation appends a new equation of the given kind/cone and returns its
// index.
func (c *InMemory) AddEquation(kind EquKind, cone Cone) (identity.EquIndex, error) {
	c.muEqus.Lock()
	defer c.muEqus.Unlock()

	ei := identity.EquIndex(len(c.equs))
	c.equs = append(c.equs, &Equation{
		ID:     ei,
		Kind:   kind,
		Cone:   cone,
		Linear: make(map[identity.VarIndex]float64),
		Owner:  identity.MPInvalid,
	})

	return ei, nil
}

// AddGreaterThan is shorthand for a cone-inclusion equation g(x) >= rhs.
func (c *InMemory) AddGreaterThan(rhs float64) (identity.EquIndex, error) {
	ei, err := c.AddEquation(EquConeInclusion, ConeNonNeg)
	if err != nil {
		return identity.EquInvalid, err
	}

	return ei, c.EquSetRHS(ei, rhs)
}

// AddLessThan is shorthand for a cone-inclusion equation g(x) <= rhs.
func (c *InMemory) AddLessThan(rhs float64) (identity.EquIndex, error) {
	ei, err := c.AddEquation(EquConeInclusion, ConeNonPos)
	if err != nil {
		return identity.EquInvalid, err
	}

	return ei, c.EquSetRHS(ei, rhs)
}

// AddEquality is shorthand for a cone-inclusion equation g(x) == rhs.
func (c *InMemory) AddEquality(rhs float64) (identity.EquIndex, error) {
	ei, err := c.AddEquation(EquConeInclusion, ConeZero)
	if err != nil {
		return identity.EquInvalid, err
	}

	return ei, c.EquSetRHS(ei, rhs)
}

func (c *InMemory) checkEqu(ei identity.EquIndex) (*Equation, error) {
	if int(ei) < 0 || int(ei) >= len(c.equs) {
		return nil, errNotFound("equation", ei.String())
	}
	e := c.equs[ei]
	if e.Deleted {
		return nil, rhperr.New(rhperr.IndexOutOfRange, "equation %s was deleted", ei)
	}

	return e, nil
}

// EquAddLinear accumulates sum(coeffs[k]*globalCoeff * x[vars[k]]) into ei.
// Additive: repeated calls accumulate rather than replace (spec.md §4.1).
func (c *InMemory) EquAddLinear(ei identity.EquIndex, vars []identity.VarIndex, coeffs []float64, globalCoeff float64) error {
	if len(vars) != len(coeffs) {
		return rhperr.New(rhperr.DimensionDifferent, "EquAddLinear: %d vars vs %d coeffs", len(vars), len(coeffs))
	}
	c.muEqus.Lock()
	defer c.muEqus.Unlock()
	e, err := c.checkEqu(ei)
	if err != nil {
		return err
	}
	for k, vi := range vars {
		if _, ok := e.Linear[vi]; !ok {
			e.linearOrder = append(e.linearOrder, vi)
		}
		e.Linear[vi] += coeffs[k] * globalCoeff
	}
	e.dirty = true

	return nil
}

// EquAddNewLinearVar adds a single fresh linear contribution val*x[vi].
func (c *InMemory) EquAddNewLinearVar(ei identity.EquIndex, vi identity.VarIndex, val float64) error {
	return c.EquAddLinear(ei, []identity.VarIndex{vi}, []float64{val}, 1)
}

// EquAddQuadraticAbsolute accumulates globalCoeff * sum(v*x_i*x_j) into ei,
// where each term's (i, j) pair is taken as already-absolute indices (as
// opposed to EquAddQuadraticRelative's row/col index lists).
func (c *InMemory) EquAddQuadraticAbsolute(ei identity.EquIndex, terms []QuadTerm, globalCoeff float64) error {
	c.muEqus.Lock()
	defer c.muEqus.Unlock()
	e, err := c.checkEqu(ei)
	if err != nil {
		return err
	}
	for _, t := range terms {
		e.Quadratic = append(e.Quadratic, QuadTerm{I: t.I, J: t.J, Value: t.Value * globalCoeff})
	}
	e.dirty = true

	return nil
}

// EquAddQuadraticRelative accumulates globalCoeff * sum(v*x_rowVars[i]*x_colVars[j])
// into ei, resolving each term's (i, j) through the given row/col index lists.
func (c *InMemory) EquAddQuadraticRelative(ei identity.EquIndex, rowVars, colVars []identity.VarIndex, terms []QuadTerm, globalCoeff float64) error {
	c.muEqus.Lock()
	defer c.muEqus.Unlock()
	e, err := c.checkEqu(ei)
	if err != nil {
		return err
	}
	for _, t := range terms {
		ri, ci := int(t.I), int(t.J)
		if ri < 0 || ri >= len(rowVars) || ci < 0 || ci >= len(colVars) {
			return rhperr.New(rhperr.IndexOutOfRange, "EquAddQuadraticRelative: term (%d,%d) out of row/col range", ri, ci)
		}
		e.Quadratic = append(e.Quadratic, QuadTerm{I: rowVars[ri], J: colVars[ci], Value: t.Value * globalCoeff})
	}
	e.dirty = true

	return nil
}

// EquAddBilinear accumulates coeff*x[v1]*x[v2] into ei.
func (c *InMemory) EquAddBilinear(ei identity.EquIndex, v1, v2 identity.VarIndex, coeff float64) error {
	c.muEqus.Lock()
	defer c.muEqus.Unlock()
	e, err := c.checkEqu(ei)
	if err != nil {
		return err
	}
	e.Bilinear = append(e.Bilinear, BilinearTerm{V1: v1, V2: v2, Coeff: coeff})
	e.dirty = true

	return nil
}

// EquAddNonlinearExpression splices an existing nonlinear sub-expression into
// ei with a scalar multiplier, without interpreting the tree (spec.md §1/§4.1).
func (c *InMemory) EquAddNonlinearExpression(ei identity.EquIndex, tree interface{}, outerCoeff float64) error {
	c.muEqus.Lock()
	defer c.muEqus.Unlock()
	e, err := c.checkEqu(ei)
	if err != nil {
		return err
	}
	e.Nonlinear = append(e.Nonlinear, NonlinearTerm{Tree: tree, OuterCoeff: outerCoeff})
	e.dirty = true

	return nil
}

// EquSetConstant overwrites ei's constant term.
func (c *InMemory) EquSetConstant(ei identity.EquIndex, v float64) error {
	c.muEqus.Lock()
	defer c.muEqus.Unlock()
	e, err := c.checkEqu(ei)
	if err != nil {
		return err
	}
	e.Constant = v

	return nil
}

// EquSetRHS overwrites ei's right-hand side.
func (c *InMemory) EquSetRHS(ei identity.EquIndex, v float64) error {
	c.muEqus.Lock()
	defer c.muEqus.Unlock()
	e, err := c.checkEqu(ei)
	if err != nil {
		return err
	}
	e.RHS = v

	return nil
}

// EquCopyExcept duplicates ei, omitting exclude's linear/quadratic/bilinear
// contributions, and returns the new equation's index. This is the primitive
// the Equilibrium/Fenchel reformulators use to consume an objective-variable
// occurrence in two places with different substitutions (spec.md §4.1/§4.5).
// The copy's evaluation on any point equals ei's evaluation minus exclude's
// contribution, per spec.md §8's "Equation-copy-except preserves residual".
func (c *InMemory) EquCopyExcept(srcEi identity.EquIndex, exclude identity.VarIndex) (identity.EquIndex, error) {
	c.muEqus.Lock()
	defer c.muEqus.Unlock()
	src, err := c.checkEqu(srcEi)
	if err != nil {
		return identity.EquInvalid, err
	}

	dstEi := identity.EquIndex(len(c.equs))
	dst := &Equation{
		ID:       dstEi,
		Name:     src.Name,
		Kind:     src.Kind,
		Cone:     src.Cone,
		Linear:   make(map[identity.VarIndex]float64, len(src.Linear)),
		Constant: src.Constant,
		RHS:      src.RHS,
		Owner:    src.Owner,
	}
	for _, vi := range src.linearOrder {
		if vi == exclude {
			continue
		}
		dst.Linear[vi] = src.Linear[vi]
		dst.linearOrder = append(dst.linearOrder, vi)
	}
	for _, q := range src.Quadratic {
		if q.I == exclude || q.J == exclude {
			continue
		}
		dst.Quadratic = append(dst.Quadratic, q)
	}
	for _, b := range src.Bilinear {
		if b.V1 == exclude || b.V2 == exclude {
			continue
		}
		dst.Bilinear = append(dst.Bilinear, b)
	}
	dst.Nonlinear = append(dst.Nonlinear, src.Nonlinear...)
	dst.dirty = true
	c.equs = append(c.equs, dst)

	return dstEi, nil
}

// SyncLequ rebuilds ei's row-major/column-major incidence view after
// structural edits, per spec.md §4.1: "callers are responsible for ordering a
// final sync call per batch." In this in-memory implementation the
// incidence view is derived on demand by Equation.SortedVars, so Sync's only
// job is to clear the dirty flag that guards that derivation.
func (c *InMemory) SyncLequ(ei identity.EquIndex) error {
	c.muEqus.Lock()
	defer c.muEqus.Unlock()
	e, err := c.checkEqu(ei)
	if err != nil {
		return err
	}
	e.dirty = false

	return nil
}

// EquDelete permanently removes ei.
func (c *InMemory) EquDelete(ei identity.EquIndex) error {
	c.muEqus.Lock()
	defer c.muEqus.Unlock()
	e, err := c.checkEqu(ei)
	if err != nil {
		return err
	}
	e.Deleted = true

	return nil
}

// SetEquName assigns a display name to ei.
func (c *InMemory) SetEquName(ei identity.EquIndex, name string) error {
	c.muEqus.Lock()
	defer c.muEqus.Unlock()
	e, err := c.checkEqu(ei)
	if err != nil {
		return err
	}
	e.Name = name

	return nil
}

// EquName returns ei's display name, falling back to a synthesized name.
func (c *InMemory) EquName(ei identity.EquIndex) (string, bool) {
	c.muEqus.RLock()
	defer c.muEqus.RUnlock()
	if int(ei) < 0 || int(ei) >= len(c.equs) || c.equs[ei].Deleted {
		return "", false
	}
	if c.equs[ei].Name != "" {
		return c.equs[ei].Name, true
	}

	return fmt.Sprintf("e%d", ei), true
}

// EquType returns ei's kind and cone.
func (c *InMemory) EquType(ei identity.EquIndex) (EquKind, Cone, bool) {
	c.muEqus.RLock()
	defer c.muEqus.RUnlock()
	if int(ei) < 0 || int(ei) >= len(c.equs) || c.equs[ei].Deleted {
		return 0, 0, false
	}

	return c.equs[ei].Kind, c.equs[ei].Cone, true
}

// SetEquOwner records which MP owns ei.
func (c *InMemory) SetEquOwner(ei identity.EquIndex, mp identity.MPIndex) error {
	c.muEqus.Lock()
	defer c.muEqus.Unlock()
	e, err := c.checkEqu(ei)
	if err != nil {
		return err
	}
	e.Owner = mp

	return nil
}

// EquOwner returns the MP that owns ei, if any.
func (c *InMemory) EquOwner(ei identity.EquIndex) (identity.MPIndex, bool) {
	c.muEqus.RLock()
	defer c.muEqus.RUnlock()
	if int(ei) < 0 || int(ei) >= len(c.equs) || c.equs[ei].Deleted {
		return identity.MPInvalid, false
	}

	return c.equs[ei].Owner, true
}

// Equation returns the live equation record for ei. Callers must not mutate
// linearOrder/Linear directly; use the Equ* methods so dirty-tracking stays
// correct.
func (c *InMemory) Equation(ei identity.EquIndex) (*Equation, bool) {
	c.muEqus.RLock()
	defer c.muEqus.RUnlock()
	if int(ei) < 0 || int(ei) >= len(c.equs) || c.equs[ei].Deleted {
		return nil, false
	}

	return c.equs[ei], true
}

// NumEquSlots returns the total number of equation slots ever allocated,
// including deleted ones — the range orchestrator's model-type classifier
// iterates to visit every equation exactly once regardless of deletion.
func (c *InMemory) NumEquSlots() int {
	c.muEqus.RLock()
	defer c.muEqus.RUnlock()

	return len(c.equs)
}

// NumEqus returns the number of non-deleted equations.
func (c *InMemory) NumEqus() int {
	c.muEqus.RLock()
	defer c.muEqus.RUnlock()
	n := 0
	for _, e := range c.equs {
		if !e.Deleted {
			n++
		}
	}

	return n
}
