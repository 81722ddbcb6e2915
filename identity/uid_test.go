package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reshop/reshop-core/identity"
)

func TestNodeUID_RoundTrip(t *testing.T) {
	cases := []struct {
		kind identity.NodeKind
		edge identity.EdgeKind
		id   int
	}{
		{identity.KindMP, identity.EdgeCTRL, 0},
		{identity.KindMP, identity.EdgeVF, 42},
		{identity.KindNash, identity.EdgeCTRL, 7},
		{identity.KindNash, identity.EdgeVF, 1 << 20},
	}
	for _, c := range cases {
		u := identity.PackUID(c.kind, c.edge, c.id)
		gotKind, gotEdge, gotID := u.Unpack()
		assert.Equal(t, c.kind, gotKind)
		assert.Equal(t, c.edge, gotEdge)
		assert.Equal(t, c.id, gotID)
	}
}

func TestNodeUID_WithEdgeKind(t *testing.T) {
	u := identity.MPUid(3)
	assert.Equal(t, identity.EdgeCTRL, u.EdgeKind())

	v := u.WithEdgeKind(identity.EdgeVF)
	assert.Equal(t, identity.EdgeVF, v.EdgeKind())
	assert.Equal(t, u.ID(), v.ID())
	assert.Equal(t, u.Kind(), v.Kind())
}

func TestMPIndex_SpecialTags(t *testing.T) {
	reg := identity.NewRegularMP(5)
	assert.True(t, reg.Valid())
	assert.Equal(t, identity.MPRegular, reg.Tag())

	shared := identity.NewSpecialMP(identity.MPSharedVarGroup, 5)
	assert.False(t, shared.Valid())
	assert.True(t, shared.IsSharedVar())
	assert.Equal(t, 5, shared.ID())

	ovf := identity.NewSpecialMP(identity.MPOvfPayload, 9)
	assert.True(t, ovf.IsOvfPayload())
	assert.Equal(t, 9, ovf.ID())
}

func TestIndexSentinels(t *testing.T) {
	assert.False(t, identity.VarInvalid.Valid())
	assert.False(t, identity.EquDeleted.Valid())
	assert.False(t, identity.NashOutOfRange.Valid())
	assert.True(t, identity.VarIndex(0).Valid())
}
