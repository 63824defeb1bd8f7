package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/mr1hm/go-water-safety/internal/models"
)

// MinSamples is the fewest samples for which the normal equations are solvable.
const MinSamples = 3

const pivotEpsilon = 1e-10

var ErrSingularMatrix = errors.New("normal matrix is singular")

// InsufficientSamplesError is returned when there are too few samples to fit.
type InsufficientSamplesError struct {
	Count    int
	Required int
}

func (e *InsufficientSamplesError) Error() string {
	return fmt.Sprintf("insufficient training samples: have %d, need %d", e.Count, e.Required)
}

// SingularMatrixError reports a fit whose normal matrix could not be inverted.
// It matches ErrSingularMatrix with errors.Is.
type SingularMatrixError struct {
	Count int
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("%v: fitted %d samples", ErrSingularMatrix, e.Count)
}

func (e *SingularMatrixError) Is(target error) bool {
	return target == ErrSingularMatrix
}

// FitLinearModel fits least-squares weights of length dim with the normal
// equations w = (X'X)^-1 X'y. Rows whose feature count differs from dim are
// skipped and do not count towards MinSamples. On failure no weights are
// returned.
func FitLinearModel(samples []models.TrainingSample, dim int) ([]float64, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid feature dimension %d", dim)
	}
	xtx := newMatrix(dim)
	xty := make([]float64, dim)

	used := 0
	for _, s := range samples {
		x := s.Features
		if len(x) != dim {
			continue
		}
		used++
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				xtx[i][j] += x[i] * x[j]
			}
			xty[i] += x[i] * s.Score
		}
	}
	if used < MinSamples {
		return nil, &InsufficientSamplesError{Count: used, Required: MinSamples}
	}

	inv, err := invert(xtx)
	if err != nil {
		return nil, &SingularMatrixError{Count: used}
	}

	weights := make([]float64, dim)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			weights[i] += inv[i][j] * xty[j]
		}
	}
	return weights, nil
}

func newMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

// invert returns the inverse of m by Gauss-Jordan elimination with partial
// pivoting. m is not modified.
func invert(m [][]float64) ([][]float64, error) {
	n := len(m)
	a := newMatrix(n)
	inv := newMatrix(n)
	for i := 0; i < n; i++ {
		copy(a[i], m[i])
		inv[i][i] = 1
	}

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		a[col], a[pivot] = a[pivot], a[col]
		inv[col], inv[pivot] = inv[pivot], inv[col]

		div := a[col][col]
		if math.Abs(div) < pivotEpsilon {
			return nil, ErrSingularMatrix
		}
		for j := 0; j < n; j++ {
			a[col][j] /= div
			inv[col][j] /= div
		}

		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			factor := a[row][col]
			if factor == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				a[row][j] -= factor * a[col][j]
				inv[row][j] -= factor * inv[col][j]
			}
		}
	}
	return inv, nil
}
