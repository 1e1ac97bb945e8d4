// Package matrix wraps github.com/edp1096/sparse for a real-valued,
// purely numeric MNA solve. No other package of this module imports
// it: pkg/symbolic builds and solves its X0 matrix with gonum.
// Adapted from the teacher's matrix.CircuitMatrix
// (pkg/matrix/circuit.go in edp1096-toy-spice) with every AC/complex
// code path removed — a WDF simulator never runs a frequency sweep, so
// Complex/SeparatedComplexVectors/AddComplexElement/SolveComplex have
// no caller here — and its fmt.Printf-based bounds warnings replaced
// with structured zap logging.
package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
	"go.uber.org/zap"
)

// CircuitMatrix is a reusable, real-valued MNA system of the given
// Size unknowns (node voltages plus any branch-current auxiliaries).
type CircuitMatrix struct {
	Size   int
	matrix *sparse.Matrix
	rhs    []float64
	sol    []float64
	log    *zap.Logger
}

// New allocates an empty Size x Size MNA system.
func New(size int, log *zap.Logger) (*CircuitMatrix, error) {
	if log == nil {
		log = zap.NewNop()
	}
	config := &sparse.Configuration{
		Real:           true,
		Complex:        false,
		Expandable:     true,
		ModifiedNodal:  true,
		TiesMultiplier: 5,
		PrinterWidth:   140,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %w", err)
	}

	return &CircuitMatrix{
		Size:   size,
		matrix: mat,
		rhs:    make([]float64, size+1), // 1-based indexing, 0 unused
		log:    log,
	}, nil
}

// AddElement accumulates value into the (i,j) matrix entry. i or j == 0
// (the datum node) is silently ignored, matching the MNA convention
// that the ground node is never stamped.
func (m *CircuitMatrix) AddElement(i, j int, value float64) {
	if i == 0 || j == 0 {
		return
	}
	if i < 0 || j < 0 || i > m.Size || j > m.Size {
		m.log.Warn("matrix index out of bounds", zap.Int("i", i), zap.Int("j", j), zap.Int("size", m.Size))
		return
	}
	m.matrix.GetElement(int64(i), int64(j)).Real += value
}

// AddRHS accumulates value into the i'th right-hand-side entry.
func (m *CircuitMatrix) AddRHS(i int, value float64) {
	if i == 0 {
		return
	}
	if i < 0 || i > m.Size {
		m.log.Warn("rhs index out of bounds", zap.Int("i", i), zap.Int("size", m.Size))
		return
	}
	m.rhs[i] += value
}

// Clear zeroes every stamped entry and RHS value so the matrix can be
// re-stamped for another solve of the same topology.
func (m *CircuitMatrix) Clear() {
	m.matrix.Clear()
	for i := range m.rhs {
		m.rhs[i] = 0
	}
}

// Solve factors and solves the system, leaving the result retrievable
// via Solution.
func (m *CircuitMatrix) Solve() error {
	if err := m.matrix.Factor(); err != nil {
		return fmt.Errorf("matrix factorization failed: %w", err)
	}
	sol, err := m.matrix.Solve(m.rhs)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %w", err)
	}
	m.sol = sol
	return nil
}

// Solution returns the most recent Solve result, 1-based indexed.
func (m *CircuitMatrix) Solution() []float64 {
	return m.sol
}

// RHS returns the live right-hand-side vector (for callers that want
// to inspect or restamp it directly).
func (m *CircuitMatrix) RHS() []float64 {
	return m.rhs
}

// Destroy releases the underlying sparse matrix's native resources.
func (m *CircuitMatrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
	}
}
