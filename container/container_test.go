package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reshop/reshop-core/container"
	"github.com/reshop/reshop-core/identity"
)

func TestAddVar_SequentialIndices(t *testing.T) {
	c := container.NewInMemory()
	v0, err := c.AddVar(0, 1)
	require.NoError(t, err)
	v1, err := c.AddVar(-1, 1)
	require.NoError(t, err)
	assert.Equal(t, identity.VarIndex(0), v0)
	assert.Equal(t, identity.VarIndex(1), v1)
	assert.Equal(t, 2, c.NumVars())
}

func TestAddVar_BadBounds(t *testing.T) {
	c := container.NewInMemory()
	_, err := c.AddVar(5, 1)
	assert.Error(t, err)
}

func TestVarDelete_IndexNeverReused(t *testing.T) {
	c := container.NewInMemory()
	v0, _ := c.AddVar(0, 1)
	require.NoError(t, c.VarDelete(v0))
	assert.Equal(t, 0, c.NumVars())

	v1, _ := c.AddVar(0, 1)
	assert.NotEqual(t, v0, v1)
	assert.Equal(t, identity.VarIndex(1), v1)

	_, ok := c.Variable(v0)
	assert.False(t, ok)
}

func TestEquAddLinear_Accumulates(t *testing.T) {
	c := container.NewInMemory()
	v0, _ := c.AddVar(0, 10)
	v1, _ := c.AddVar(0, 10)
	ei, _ := c.AddEquation(container.EquMapping, container.ConeFree)

	require.NoError(t, c.EquAddLinear(ei, []identity.VarIndex{v0, v1}, []float64{2, 3}, 1))
	require.NoError(t, c.EquAddLinear(ei, []identity.VarIndex{v0}, []float64{5}, 1))
	require.NoError(t, c.SyncLequ(ei))

	eq, ok := c.Equation(ei)
	require.True(t, ok)
	assert.Equal(t, float64(7), eq.Linear[v0])
	assert.Equal(t, float64(3), eq.Linear[v1])
	assert.Equal(t, []identity.VarIndex{v0, v1}, eq.SortedVars())
}

func TestEquCopyExcept_PreservesResidual(t *testing.T) {
	c := container.NewInMemory()
	v0, _ := c.AddVar(0, 10)
	v1, _ := c.AddVar(0, 10)
	ei, _ := c.AddEquation(container.EquMapping, container.ConeFree)
	require.NoError(t, c.EquAddLinear(ei, []identity.VarIndex{v0, v1}, []float64{2, 3}, 1))
	require.NoError(t, c.EquSetConstant(ei, 7))
	require.NoError(t, c.SyncLequ(ei))

	dstEi, err := c.EquCopyExcept(ei, v1)
	require.NoError(t, err)
	require.NoError(t, c.SyncLequ(dstEi))

	dst, ok := c.Equation(dstEi)
	require.True(t, ok)

	// Evaluate both equations at an arbitrary point and confirm
	// eval(dst) == eval(src) - contribution(v1).
	x0, x1 := 4.0, 6.0
	src, _ := c.Equation(ei)
	evalSrc := src.Constant + src.Linear[v0]*x0 + src.Linear[v1]*x1
	evalDst := dst.Constant + dst.Linear[v0]*x0
	contribV1 := src.Linear[v1] * x1
	assert.InDelta(t, evalSrc-contribV1, evalDst, 1e-9)
	_, hasV1 := dst.Linear[v1]
	assert.False(t, hasV1)
}

func TestSortedVars_PanicsWhenDirty(t *testing.T) {
	c := container.NewInMemory()
	v0, _ := c.AddVar(0, 1)
	ei, _ := c.AddEquation(container.EquMapping, container.ConeFree)
	require.NoError(t, c.EquAddLinear(ei, []identity.VarIndex{v0}, []float64{1}, 1))

	eq, _ := c.Equation(ei)
	assert.Panics(t, func() { eq.SortedVars() })
}

func TestAddGreaterThan_LessThan_Equality(t *testing.T) {
	c := container.NewInMemory()
	ge, _ := c.AddGreaterThan(3)
	kind, cone, ok := c.EquType(ge)
	require.True(t, ok)
	assert.Equal(t, container.EquConeInclusion, kind)
	assert.Equal(t, container.ConeNonNeg, cone)

	le, _ := c.AddLessThan(3)
	_, cone, _ = c.EquType(le)
	assert.Equal(t, container.ConeNonPos, cone)

	eq, _ := c.AddEquality(3)
	_, cone, _ = c.EquType(eq)
	assert.Equal(t, container.ConeZero, cone)
}

func TestVarOwner(t *testing.T) {
	c := container.NewInMemory()
	v0, _ := c.AddVar(0, 1)
	mp := identity.NewRegularMP(2)
	require.NoError(t, c.SetVarOwner(v0, mp))
	got, ok := c.VarOwner(v0)
	require.True(t, ok)
	assert.Equal(t, mp, got)
}
