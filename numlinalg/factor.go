package numlinalg

import "fmt"

// Cholesky factors the symmetric matrix m as m == Dᵀ*J*D, where D is unit
// upper-triangular and J is diagonal, the "LDLᵀ" variant of Cholesky used by
// ovf.Template.GetD (spec.md §4.4: "return a Cholesky factorization M = DᵀJD
// of the quadratic part"). Unlike a plain Cholesky factor, this variant
// tolerates a positive-semidefinite m (zero diagonal entries of J are
// allowed).
//
// Time complexity: O(n^3); memory: O(n^2).
func Cholesky(m *Dense) (D *Dense, J []float64, err error) {
	n := m.Rows()
	if n != m.Cols() {
		return nil, nil, fmt.Errorf("numlinalg: Cholesky: non-square matrix %dx%d: %w", n, m.Cols(), ErrNotSquare)
	}

	D, err = NewDense(n, n)
	if err != nil {
		return nil, nil, fmt.Errorf("numlinalg: Cholesky: %w", err)
	}
	for i := 0; i < n; i++ {
		_ = D.Set(i, i, 1)
	}
	J = make([]float64, n)

	// Stage: compute D (unit upper triangular) and J (diagonal) column by
	// column following the standard LDLᵀ recurrence.
	var i, j, k int
	var sum, mij, djk, dik float64
	for j = 0; j < n; j++ {
		sum = 0
		for k = 0; k < j; k++ {
			djk, _ = D.At(k, j)
			sum += djk * djk * J[k]
		}
		mij, _ = m.At(j, j)
		J[j] = mij - sum
		if J[j] < -1e-9 {
			return nil, nil, fmt.Errorf("numlinalg: Cholesky: %w at pivot %d (J=%g)", ErrNotPositiveDefinite, j, J[j])
		}
		for i = j + 1; i < n; i++ {
			sum = 0
			for k = 0; k < j; k++ {
				dik, _ = D.At(k, i)
				djk, _ = D.At(k, j)
				sum += dik * djk * J[k]
			}
			mij, _ = m.At(j, i)
			if J[j] == 0 {
				// A zero pivot with a nonzero off-diagonal entry means m is not
				// PSD in a way LDLᵀ can represent without pivoting; report it.
				if mij-sum != 0 {
					return nil, nil, fmt.Errorf("numlinalg: Cholesky: %w: zero pivot %d with nonzero residual", ErrNotPositiveDefinite, j)
				}
				_ = D.Set(j, i, 0)

				continue
			}
			_ = D.Set(j, i, (mij-sum)/J[j])
		}
	}

	return D, J, nil
}
