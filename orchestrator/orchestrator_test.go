package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reshop/reshop-core/container"
	"github.com/reshop/reshop-core/empdag"
	"github.com/reshop/reshop-core/identity"
)

func buildLinearModel(t *testing.T) *Model {
	t.Helper()
	c := container.NewInMemory()
	d := empdag.New()

	x, err := c.AddPositiveVars(2)
	require.NoError(t, err)

	mp := d.NewMP(empdag.SenseMin, "root")
	obj, err := c.AddEquation(container.EquMapping, container.ConeFree)
	require.NoError(t, err)
	require.NoError(t, c.EquAddNewLinearVar(obj, x[0], 1))
	require.NoError(t, c.EquAddNewLinearVar(obj, x[1], 1))
	require.NoError(t, c.SyncLequ(obj))
	require.NoError(t, d.MPAddEqu(mp, obj, c.SetEquOwner))
	require.NoError(t, d.MPSetObjEqu(mp, obj))
	for _, vi := range x {
		require.NoError(t, d.MPAddVar(mp, vi, c.SetVarOwner))
	}

	cons, err := c.AddLessThan(10)
	require.NoError(t, err)
	require.NoError(t, c.EquAddNewLinearVar(cons, x[0], 1))
	require.NoError(t, c.SyncLequ(cons))
	require.NoError(t, d.MPAddConstraint(mp, cons, c.SetEquOwner))

	d.SetRoot(identity.MPUid(mp.ID()))

	return &Model{Container: c, Dag: d}
}

func TestProcess_FlattensSingleRootAndClassifiesLP(t *testing.T) {
	src := buildLinearModel(t)

	dst, res, err := Process(Config{}, src, nil)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.False(t, dst.IsEMP)
	assert.Equal(t, ModelLP, dst.Type)

	root, ok := dst.Dag.SingleRoot()
	require.True(t, ok)
	mp := dst.Dag.MP(identity.NewRegularMP(root.ID()))
	require.NotNil(t, mp)
	assert.Equal(t, "LP", mp.ProbType)
	assert.Equal(t, empdag.RootOpt, dst.Dag.Features.RootKind)
}

func TestProcess_MultiMPStaysEMP(t *testing.T) {
	c := container.NewInMemory()
	d := empdag.New()

	leader := d.NewMP(empdag.SenseMin, "leader")
	follower := d.NewMP(empdag.SenseMax, "follower")
	require.NoError(t, d.MPAddMPViaCtrl(leader, follower))
	d.SetRoot(identity.MPUid(leader.ID()))

	src := &Model{Container: c, Dag: d}
	dst, _, err := Process(Config{}, src, nil)
	require.NoError(t, err)
	assert.True(t, dst.IsEMP)
}

func TestProcess_AbortsOnUnreachableMP(t *testing.T) {
	c := container.NewInMemory()
	d := empdag.New()

	reachable := d.NewMP(empdag.SenseMin, "reachable")
	d.NewMP(empdag.SenseMin, "orphan")
	d.SetRoot(identity.MPUid(reachable.ID()))

	src := &Model{Container: c, Dag: d}
	_, _, err := Process(Config{}, src, nil)
	require.Error(t, err)
}

func TestProcess_RejectsNilModel(t *testing.T) {
	_, _, err := Process(Config{}, nil, nil)
	require.Error(t, err)
}
