package reform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reshop/reshop-core/container"
	"github.com/reshop/reshop-core/empdag"
	"github.com/reshop/reshop-core/identity"
	"github.com/reshop/reshop-core/ovf"
)

func TestEquilibrium_CreatesPeerAndNashParent(t *testing.T) {
	c := container.NewInMemory()
	d := empdag.New()
	lib := ovf.NewLibrary()
	tpl, err := lib.Lookup("l2")
	require.NoError(t, err)

	x, err := c.AddPositiveVars(2)
	require.NoError(t, err)
	rho, err := c.AddVar(-1e300, 1e300)
	require.NoError(t, err)

	mp := d.NewMP(empdag.SenseMin, "outer")
	require.NoError(t, d.MPAddVar(mp, rho, c.SetVarOwner))
	d.SetRoot(identity.MPUid(mp.ID()))

	target, err := c.AddEquality(0)
	require.NoError(t, err)
	require.NoError(t, c.EquAddNewLinearVar(target, rho, 1))
	require.NoError(t, c.SyncLequ(target))
	require.NoError(t, d.MPAddEqu(mp, target, c.SetEquOwner))

	occ := Occurrence{
		MP:       mp,
		Rho:      rho,
		Args:     x,
		Template: tpl,
		Targets:  map[identity.EquIndex]float64{target: 1},
	}

	peer, nash, err := Equilibrium(c, d, occ)
	require.NoError(t, err)
	assert.NotEqual(t, identity.MPInvalid, peer)
	assert.NotEqual(t, identity.NashInvalid, nash)

	children := d.Nash(nash)
	require.NotNil(t, children)

	peerMP := d.MP(peer)
	require.NotNil(t, peerMP)
	assert.NotEqual(t, identity.EquInvalid, peerMP.ObjEqu)
	assert.Len(t, peerMP.OwnedVars(), 2)

	root, ok := d.SingleRoot()
	require.True(t, ok)
	assert.Equal(t, identity.NashUid(int(nash)), root)
}

func TestEquilibrium_RewritesTargetEquation(t *testing.T) {
	c := container.NewInMemory()
	d := empdag.New()
	lib := ovf.NewLibrary()
	tpl, err := lib.Lookup("l1")
	require.NoError(t, err)

	x, err := c.AddPositiveVars(1)
	require.NoError(t, err)
	rho, err := c.AddVar(-1e300, 1e300)
	require.NoError(t, err)

	mp := d.NewMP(empdag.SenseMin, "outer")
	require.NoError(t, d.MPAddVar(mp, rho, c.SetVarOwner))
	d.SetRoot(identity.MPUid(mp.ID()))

	target, err := c.AddEquality(5)
	require.NoError(t, err)
	require.NoError(t, c.EquAddNewLinearVar(target, rho, 2))
	require.NoError(t, c.SyncLequ(target))

	occ := Occurrence{
		MP:       mp,
		Rho:      rho,
		Args:     x,
		Template: tpl,
		Targets:  map[identity.EquIndex]float64{target: 2},
	}
	_, _, err = Equilibrium(c, d, occ)
	require.NoError(t, err)

	for ei, e := range allEquations(c) {
		if ei == target {
			continue
		}
		require.NotEmpty(t, e.Nonlinear)
		assert.NotContains(t, e.SortedVars(), rho)
	}
}

func TestEquilibrium_SecondCallIsNoOp(t *testing.T) {
	c := container.NewInMemory()
	d := empdag.New()
	lib := ovf.NewLibrary()
	tpl, err := lib.Lookup("l2")
	require.NoError(t, err)

	x, err := c.AddPositiveVars(2)
	require.NoError(t, err)
	rho, err := c.AddVar(-1e300, 1e300)
	require.NoError(t, err)

	mp := d.NewMP(empdag.SenseMin, "outer")
	require.NoError(t, d.MPAddVar(mp, rho, c.SetVarOwner))
	d.SetRoot(identity.MPUid(mp.ID()))

	target, err := c.AddEquality(0)
	require.NoError(t, err)
	require.NoError(t, c.EquAddNewLinearVar(target, rho, 1))
	require.NoError(t, c.SyncLequ(target))
	require.NoError(t, d.MPAddEqu(mp, target, c.SetEquOwner))

	occ := Occurrence{
		MP:       mp,
		Rho:      rho,
		Args:     x,
		Template: tpl,
		Targets:  map[identity.EquIndex]float64{target: 1},
	}

	peer1, nash1, err := Equilibrium(c, d, occ)
	require.NoError(t, err)
	numMPBefore := d.NumMP()
	varsBefore := c.NumVars()

	peer2, nash2, err := Equilibrium(c, d, occ)
	require.NoError(t, err)
	assert.Equal(t, peer1, peer2)
	assert.Equal(t, nash1, nash2)
	assert.Equal(t, numMPBefore, d.NumMP(), "second call must not allocate another peer MP")
	assert.Equal(t, varsBefore, c.NumVars(), "second call must not allocate another y block")

	outerMP := d.MP(mp)
	require.NotNil(t, outerMP)
	assert.True(t, outerMP.Replaced())
}

func TestEquilibrium_RejectsSharedTag(t *testing.T) {
	c := container.NewInMemory()
	d := empdag.New()
	lib := ovf.NewLibrary()
	tpl, err := lib.Lookup("l2")
	require.NoError(t, err)

	occ := Occurrence{MP: identity.NewSpecialMP(identity.MPSharedVarGroup, 0), Template: tpl}
	_, _, err = Equilibrium(c, d, occ)
	require.Error(t, err)
}

func allEquations(c *container.InMemory) map[identity.EquIndex]*container.Equation {
	out := make(map[identity.EquIndex]*container.Equation)
	for i := 0; i < c.NumEqus(); i++ {
		ei := identity.EquIndex(i)
		if e, ok := c.Equation(ei); ok {
			out[ei] = e
		}
	}

	return out
}
