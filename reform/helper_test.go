package reform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reshop/reshop-core/empdag"
	"github.com/reshop/reshop-core/identity"
)

func TestReplaceChildWithNash_SplicesOutOriginalEdge(t *testing.T) {
	d := empdag.New()
	parent := d.NewMP(empdag.SenseMin, "parent")
	child := d.NewMP(empdag.SenseMin, "child")
	require.NoError(t, d.MPAddMPViaCtrl(parent, child))

	nash, err := ReplaceChildWithNash(d, parent, child)
	require.NoError(t, err)

	children := d.CtrlChildren(parent)
	require.Len(t, children, 1)
	assert.True(t, children[0].IsNash())
	assert.Equal(t, int(nash), children[0].ID())

	nashChildren := d.Nash(nash).Children
	require.Len(t, nashChildren, 1)
	assert.Equal(t, child.ID(), nashChildren[0].ID())

	rarcs := d.ReverseArcs(identity.MPUid(child.ID()))
	require.Len(t, rarcs, 1)
	assert.True(t, rarcs[0].IsNash())
}

func TestReplaceChildWithNash_RejectsMissingEdge(t *testing.T) {
	d := empdag.New()
	parent := d.NewMP(empdag.SenseMin, "parent")
	child := d.NewMP(empdag.SenseMin, "child")

	_, err := ReplaceChildWithNash(d, parent, child)
	require.Error(t, err)
}
