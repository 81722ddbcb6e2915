package empdag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reshop/reshop-core/identity"
)

func TestEmpDag_NewMP_NewNash(t *testing.T) {
	d := New()
	mp1 := d.NewMP(SenseMin, "mp1")
	mp2 := d.NewMP(SenseMax, "mp2")
	n1 := d.NewNash("n1")

	assert.Equal(t, 2, d.NumMP())
	assert.Equal(t, 1, d.NumNash())
	assert.NotEqual(t, mp1, mp2)
	assert.Equal(t, "mp1", d.MP(mp1).Name)
	assert.Equal(t, "n1", d.Nash(n1).Name)
}

func TestEmpDag_CtrlEdge_ForwardReverseSymmetry(t *testing.T) {
	d := New()
	leader := d.NewMP(SenseMin, "leader")
	follower := d.NewMP(SenseMin, "follower")

	require.NoError(t, d.MPAddMPViaCtrl(leader, follower))

	children := d.CtrlChildren(leader)
	require.Len(t, children, 1)
	assert.True(t, children[0].IsMP())
	assert.Equal(t, follower.ID(), children[0].ID())

	rarcs := d.ReverseArcs(identity.MPUid(follower.ID()))
	require.Len(t, rarcs, 1)
	assert.Equal(t, identity.EdgeCTRL, rarcs[0].EdgeKind())
	assert.Equal(t, leader.ID(), rarcs[0].ID())
}

func TestEmpDag_RemoveMPViaCtrl_DropsForwardAndReverseArc(t *testing.T) {
	d := New()
	leader := d.NewMP(SenseMin, "leader")
	follower := d.NewMP(SenseMin, "follower")
	require.NoError(t, d.MPAddMPViaCtrl(leader, follower))

	require.NoError(t, d.RemoveMPViaCtrl(leader, follower))

	assert.Empty(t, d.CtrlChildren(leader))
	assert.Empty(t, d.ReverseArcs(identity.MPUid(follower.ID())))
}

func TestEmpDag_RemoveMPViaCtrl_NoopWhenAbsent(t *testing.T) {
	d := New()
	a := d.NewMP(SenseMin, "a")
	b := d.NewMP(SenseMin, "b")

	require.NoError(t, d.RemoveMPViaCtrl(a, b))
}

func TestEmpDag_MPAddNashViaCtrl_WiresForwardAndReverseArc(t *testing.T) {
	d := New()
	parent := d.NewMP(SenseMin, "parent")
	nash := d.NewNash("")

	require.NoError(t, d.MPAddNashViaCtrl(parent, nash))

	children := d.CtrlChildren(parent)
	require.Len(t, children, 1)
	assert.True(t, children[0].IsNash())

	rarcs := d.ReverseArcs(identity.NashUid(int(nash)))
	require.Len(t, rarcs, 1)
	assert.Equal(t, parent.ID(), rarcs[0].ID())
	assert.Equal(t, identity.EdgeCTRL, rarcs[0].EdgeKind())
}

func TestEmpDag_MPAddNashViaCtrl_Idempotent(t *testing.T) {
	d := New()
	parent := d.NewMP(SenseMin, "parent")
	nash := d.NewNash("")

	require.NoError(t, d.MPAddNashViaCtrl(parent, nash))
	require.NoError(t, d.MPAddNashViaCtrl(parent, nash))
	assert.Len(t, d.CtrlChildren(parent), 1)
}

func TestEmpDag_CtrlEdge_RejectsSelfLoop(t *testing.T) {
	d := New()
	mp := d.NewMP(SenseMin, "mp")
	err := d.MPAddMPViaCtrl(mp, mp)
	require.Error(t, err)
}

func TestEmpDag_VFEdge_RejectsMaxToFeasibility(t *testing.T) {
	d := New()
	parent := d.NewMP(SenseMax, "parent")
	child := d.NewMP(SenseFeasibility, "child")

	err := d.MPAddMPViaVF(parent, child, InitArcVF(identity.EquInvalid))
	require.Error(t, err)
}

func TestEmpDag_VFEdge_RoundTripsWeight(t *testing.T) {
	d := New()
	parent := d.NewMP(SenseMin, "parent")
	child := d.NewMP(SenseMin, "child")

	w := ArcBasic{Equ: identity.EquIndex(3), Var: identity.VarIndex(1), Coeff: 2.0}
	require.NoError(t, d.MPAddMPViaVF(parent, child, w))

	got, ok := d.FindArcVF(parent, child)
	require.True(t, ok)
	basic, ok := got.(ArcBasic)
	require.True(t, ok)
	assert.Equal(t, 2.0, basic.Coeff)

	rarcs := d.ReverseArcs(identity.MPUid(child.ID()))
	require.Len(t, rarcs, 1)
	assert.Equal(t, identity.EdgeVF, rarcs[0].EdgeKind())
	assert.True(t, d.Features.HasVFPath)
}

func TestEmpDag_NashAddMP_OnlyLegalParentIsCtrl(t *testing.T) {
	d := New()
	nash := d.NewNash("n")
	mp := d.NewMP(SenseMin, "mp")

	require.NoError(t, d.NashAddMP(nash, mp))

	rarcs := d.ReverseArcs(identity.MPUid(mp.ID()))
	require.Len(t, rarcs, 1)
	assert.True(t, rarcs[0].IsNash())
	assert.Equal(t, identity.EdgeCTRL, rarcs[0].EdgeKind())
}

func TestEmpDag_NashAddMP_Idempotent(t *testing.T) {
	d := New()
	nash := d.NewNash("n")
	mp := d.NewMP(SenseMin, "mp")

	require.NoError(t, d.NashAddMP(nash, mp))
	require.NoError(t, d.NashAddMP(nash, mp))
	assert.Len(t, d.Nash(nash).Children, 1)
}

func TestEmpDag_ComputeRoots(t *testing.T) {
	d := New()
	leader := d.NewMP(SenseMin, "leader")
	follower := d.NewMP(SenseMin, "follower")
	require.NoError(t, d.MPAddMPViaCtrl(leader, follower))

	d.ComputeRoots()
	roots := d.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, leader.ID(), roots[0].ID())

	root, ok := d.SingleRoot()
	require.True(t, ok)
	assert.Equal(t, leader.ID(), root.ID())
}

func TestEmpDag_ResetType(t *testing.T) {
	d := New()
	mp := d.NewMP(SenseMin, "mp")
	d.MP(mp).Type = TypeOpt
	d.Features.RootKind = RootOpt

	d.ResetType()
	assert.Equal(t, TypeUndef, d.MP(mp).Type)
	assert.Equal(t, RootUndef, d.Features.RootKind)
}

func TestEmpDag_Clone_PreservesStructure(t *testing.T) {
	d := New()
	leader := d.NewMP(SenseMin, "leader")
	follower := d.NewMP(SenseMin, "follower")
	require.NoError(t, d.MPAddMPViaCtrl(leader, follower))
	d.ComputeRoots()

	clone, err := d.Clone(nil)
	require.NoError(t, err)
	assert.Equal(t, d.NumMP(), clone.NumMP())
	assert.Len(t, clone.CtrlChildren(leader), 1)
	assert.Len(t, clone.Roots(), 1)
}

func TestEmpDag_Clone_RequiresFullRenameMap(t *testing.T) {
	d := New()
	mp1 := d.NewMP(SenseMin, "mp1")
	d.NewMP(SenseMin, "mp2")

	partial := map[identity.MPIndex]identity.MPIndex{mp1: mp1}
	_, err := d.Clone(partial)
	require.Error(t, err)
}

func TestEmpDag_Clone_RemapsMPIds(t *testing.T) {
	d := New()
	leader := d.NewMP(SenseMin, "leader")
	follower := d.NewMP(SenseMin, "follower")
	require.NoError(t, d.MPAddMPViaCtrl(leader, follower))

	newLeader := identity.NewRegularMP(10)
	newFollower := identity.NewRegularMP(11)
	renameMap := map[identity.MPIndex]identity.MPIndex{
		leader:   newLeader,
		follower: newFollower,
	}

	clone, err := d.Clone(renameMap)
	require.NoError(t, err)
	children := clone.CtrlChildren(newLeader)
	require.Len(t, children, 1)
	assert.Equal(t, newFollower.ID(), children[0].ID())
}
