package ovf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reshop/reshop-core/container"
)

func TestLibrary_LookupKnownTemplates(t *testing.T) {
	lib := NewLibrary()
	names := []string{"l1", "l2", "elastic_net", "huber", "hinge", "vapnik", "cvar_quantile", "expected_value"}
	for _, name := range names {
		tpl, err := lib.Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, tpl.Name())
	}
}

func TestLibrary_LookupUnknown(t *testing.T) {
	lib := NewLibrary()
	_, err := lib.Lookup("does-not-exist")
	require.Error(t, err)
}

func TestConjugateSupported_OnlyL2AndExpectedValue(t *testing.T) {
	lib := NewLibrary()
	for _, name := range lib.Names() {
		tpl, err := lib.Lookup(name)
		require.NoError(t, err)
		want := name == "l2" || name == "expected_value"
		assert.Equal(t, want, tpl.ConjugateSupported(), name)
	}
}

func TestTemplate_CreateUvar_AllocatesBlock(t *testing.T) {
	lib := NewLibrary()
	tpl, err := lib.Lookup("l1")
	require.NoError(t, err)

	c := container.NewInMemory()
	args, err := c.AddPositiveVars(3)
	require.NoError(t, err)

	y, err := tpl.CreateUvar(c, args, "y")
	require.NoError(t, err)
	assert.Len(t, y, 3)
	assert.Equal(t, 6, c.NumVars())
}

func TestTemplate_AddK_SplicesNonlinearTerm(t *testing.T) {
	lib := NewLibrary()
	tpl, err := lib.Lookup("l2")
	require.NoError(t, err)

	c := container.NewInMemory()
	ei, err := c.AddEquality(0)
	require.NoError(t, err)
	y, err := c.AddPositiveVars(2)
	require.NoError(t, err)

	require.NoError(t, tpl.AddK(c, ei, y))
	equ, ok := c.Equation(ei)
	require.True(t, ok)
	require.Len(t, equ.Nonlinear, 1)
	assert.Equal(t, -1.0, equ.Nonlinear[0].OuterCoeff)
}

func TestL2_QuadraticFactorizationIsIdentity(t *testing.T) {
	tpl := l2Template{}
	qf, ok := tpl.QuadraticFactorization(3)
	require.True(t, ok)
	assert.Equal(t, 3, qf.D.Rows())
	for _, j := range qf.J {
		assert.Equal(t, 1.0, j)
	}
}

func TestElasticNet_QuadraticFactorizationIsScaledIdentity(t *testing.T) {
	tpl := elasticNetTemplate{rho: 0.25}
	qf, ok := tpl.QuadraticFactorization(2)
	require.True(t, ok)
	require.Equal(t, 2, qf.D.Rows())
	for _, j := range qf.J {
		assert.Equal(t, 0.25, j)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			v, err := qf.D.At(i, j)
			require.NoError(t, err)
			if i == j {
				assert.Equal(t, 1.0, v)
			} else {
				assert.Equal(t, 0.0, v)
			}
		}
	}
}

func TestCvarQuantile_HasBudgetRow(t *testing.T) {
	tpl := cvarQuantileTemplate{alpha: 0.95}
	set := tpl.SetNonbox(4)
	require.NotNil(t, set.A)
	assert.Equal(t, 1, set.A.Rows())
	assert.Equal(t, 4, set.A.Cols())
}
