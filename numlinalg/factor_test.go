package numlinalg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reshop/reshop-core/numlinalg"
)

func diag(vals ...float64) *numlinalg.Dense {
	n := len(vals)
	m, _ := numlinalg.NewDense(n, n)
	for i, v := range vals {
		_ = m.Set(i, i, v)
	}

	return m
}

func TestCholesky_Diagonal(t *testing.T) {
	m := diag(4, 9, 1)
	D, J, err := numlinalg.Cholesky(m)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 9, 1}, J)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v, _ := D.At(i, j)
			if i == j {
				assert.Equal(t, float64(1), v)
			} else {
				assert.Equal(t, float64(0), v)
			}
		}
	}
}

func TestCholesky_Dense(t *testing.T) {
	// m = [[4,2],[2,3]] is SPD.
	m, _ := numlinalg.NewDense(2, 2)
	_ = m.Set(0, 0, 4)
	_ = m.Set(0, 1, 2)
	_ = m.Set(1, 0, 2)
	_ = m.Set(1, 1, 3)

	D, J, err := numlinalg.Cholesky(m)
	require.NoError(t, err)
	require.Len(t, J, 2)
	assert.InDelta(t, 4, J[0], 1e-9)
	assert.InDelta(t, 2, J[1], 1e-9)
	d01, _ := D.At(0, 1)
	assert.InDelta(t, 0.5, d01, 1e-9)
}
