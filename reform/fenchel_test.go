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

func TestFenchel_AllocatesDualBlocksAndBuildsDualObjective(t *testing.T) {
	c := container.NewInMemory()
	d := empdag.New()
	lib := ovf.NewLibrary()
	tpl, err := lib.Lookup("cvar_quantile")
	require.NoError(t, err)

	x, err := c.AddPositiveVars(4)
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

	before := c.NumVars()

	occ := Occurrence{
		MP:       mp,
		Rho:      rho,
		Args:     x,
		Template: tpl,
		Targets:  map[identity.EquIndex]float64{target: 1},
	}
	dualID, err := Fenchel(c, d, occ)
	require.NoError(t, err)
	assert.NotEqual(t, identity.MPInvalid, dualID)

	dualMP := d.MP(dualID)
	require.NotNil(t, dualMP)
	assert.NotEqual(t, identity.EquInvalid, dualMP.ObjEqu)
	assert.Greater(t, c.NumVars(), before)
	assert.NotEmpty(t, dualMP.OwnedVars())
}

func TestFenchel_AttachesDualAsRootWhenNoParent(t *testing.T) {
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

	target, err := c.AddEquality(0)
	require.NoError(t, err)
	require.NoError(t, c.EquAddNewLinearVar(target, rho, 1))
	require.NoError(t, c.SyncLequ(target))

	occ := Occurrence{
		MP:       mp,
		Rho:      rho,
		Args:     x,
		Template: tpl,
		Targets:  map[identity.EquIndex]float64{target: 1},
	}
	dualID, err := Fenchel(c, d, occ)
	require.NoError(t, err)

	root, ok := d.SingleRoot()
	require.True(t, ok)
	assert.Equal(t, identity.MPUid(dualID.ID()), root)
}

func TestFenchel_SecondCallIsNoOp(t *testing.T) {
	c := container.NewInMemory()
	d := empdag.New()
	lib := ovf.NewLibrary()
	tpl, err := lib.Lookup("cvar_quantile")
	require.NoError(t, err)

	x, err := c.AddPositiveVars(4)
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

	occ := Occurrence{
		MP:       mp,
		Rho:      rho,
		Args:     x,
		Template: tpl,
		Targets:  map[identity.EquIndex]float64{target: 1},
	}

	dualID1, err := Fenchel(c, d, occ)
	require.NoError(t, err)
	numMPBefore := d.NumMP()
	varsBefore := c.NumVars()

	dualID2, err := Fenchel(c, d, occ)
	require.NoError(t, err)
	assert.Equal(t, dualID1, dualID2)
	assert.Equal(t, numMPBefore, d.NumMP(), "second call must not allocate another dual MP")
	assert.Equal(t, varsBefore, c.NumVars(), "second call must not allocate another dual block")

	outerMP := d.MP(mp)
	require.NotNil(t, outerMP)
	assert.True(t, outerMP.Replaced())
}

func TestFenchel_RejectsSharedTag(t *testing.T) {
	c := container.NewInMemory()
	d := empdag.New()
	lib := ovf.NewLibrary()
	tpl, err := lib.Lookup("l2")
	require.NoError(t, err)

	occ := Occurrence{MP: identity.NewSpecialMP(identity.MPSharedEquGroup, 0), Template: tpl}
	_, err = Fenchel(c, d, occ)
	require.Error(t, err)
}
