// Package numlinalg provides the small dense-matrix building blocks the OVF
// templates and the Fenchel reformulator need: a row-major Dense matrix and
// an LDLᵀ-style Cholesky factorization (no LU). It is adapted from the teacher's
// lvlath/matrix and lvlath/matrix/ops packages, narrowed to the dense,
// in-memory case ReSHOP needs (per-OVF-instance blocks of a few dozen rows,
// never the sparse adjacency/incidence views the teacher's matrix package
// also supports).
package numlinalg

import (
	"errors"
	"fmt"
)

// ErrDimensionMismatch mirrors matrix.ErrDimensionMismatch in the teacher.
var ErrDimensionMismatch = errors.New("numlinalg: dimension mismatch")

// ErrNotSquare is returned by factorizations that require a square matrix.
var ErrNotSquare = errors.New("numlinalg: matrix is not square")

// ErrNotPositiveDefinite is returned by Cholesky when a diagonal pivot is
// non-positive.
var ErrNotPositiveDefinite = errors.New("numlinalg: matrix is not positive definite")

// Dense is a row-major dense matrix of float64 entries.
type Dense struct {
	rows, cols int
	data       []float64
}

// NewDense allocates a zero-filled rows x cols matrix.
func NewDense(rows, cols int) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("numlinalg: NewDense(%d, %d): %w", rows, cols, ErrDimensionMismatch)
	}

	return &Dense{rows: rows, cols: cols, data: make([]float64, rows*cols)}, nil
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Dense {
	m, _ := NewDense(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}

	return m
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.cols }

// At returns the entry at (i, j).
func (m *Dense) At(i, j int) (float64, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return 0, fmt.Errorf("numlinalg: At(%d,%d) out of bounds for %dx%d: %w", i, j, m.rows, m.cols, ErrDimensionMismatch)
	}

	return m.data[i*m.cols+j], nil
}

// Set assigns v to the entry at (i, j).
func (m *Dense) Set(i, j int, v float64) error {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return fmt.Errorf("numlinalg: Set(%d,%d) out of bounds for %dx%d: %w", i, j, m.rows, m.cols, ErrDimensionMismatch)
	}
	m.data[i*m.cols+j] = v

	return nil
}

// Clone returns a deep copy of m.
func (m *Dense) Clone() *Dense {
	out := &Dense{rows: m.rows, cols: m.cols, data: make([]float64, len(m.data))}
	copy(out.data, m.data)

	return out
}

// Transpose returns the transpose of m.
func (m *Dense) Transpose() *Dense {
	out, _ := NewDense(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			v, _ := m.At(i, j)
			_ = out.Set(j, i, v)
		}
	}

	return out
}

// MulVec computes m*x, where x has length m.Cols().
func (m *Dense) MulVec(x []float64) ([]float64, error) {
	if len(x) != m.cols {
		return nil, fmt.Errorf("numlinalg: MulVec: x has %d entries, want %d: %w", len(x), m.cols, ErrDimensionMismatch)
	}
	out := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		var sum float64
		for j := 0; j < m.cols; j++ {
			sum += m.data[i*m.cols+j] * x[j]
		}
		out[i] = sum
	}

	return out, nil
}

// Dot computes the Euclidean inner product of equal-length vectors a, b.
func Dot(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("numlinalg: Dot: len(a)=%d len(b)=%d: %w", len(a), len(b), ErrDimensionMismatch)
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}

	return sum, nil
}
