package matrix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// stampResistor adds the standard two-terminal conductance stamp
// directly (mirrors element.Resistor.Stamp without importing pkg/element,
// keeping this package's tests independent of the catalog).
func stampResistor(m *CircuitMatrix, i, j int, r float64) {
	g := 1 / r
	if i != 0 {
		m.AddElement(i, i, g)
		if j != 0 {
			m.AddElement(i, j, -g)
		}
	}
	if j != 0 {
		if i != 0 {
			m.AddElement(j, i, -g)
		}
		m.AddElement(j, j, g)
	}
}

func TestVoltageDividerSolve(t *testing.T) {
	// Node 1: 5V ideal source. Node 2: divider midpoint. 1k/1k divider
	// to ground should settle node 2 at 2.5V.
	m, err := New(3, nil)
	require.NoError(t, err)
	defer m.Destroy()

	stampResistor(m, 1, 2, 1000)
	stampResistor(m, 2, 0, 1000)

	// Ideal voltage source branch: node 1 pinned to 5V via extra var 3.
	m.AddElement(3, 1, 1)
	m.AddElement(1, 3, 1)
	m.AddRHS(3, 5)

	require.NoError(t, m.Solve())
	sol := m.Solution()
	require.InDelta(t, 5.0, sol[1], 1e-6)
	require.InDelta(t, 2.5, sol[2], 1e-6)
}

func TestAddElementIgnoresDatumNode(t *testing.T) {
	m, err := New(2, nil)
	require.NoError(t, err)
	defer m.Destroy()

	require.NotPanics(t, func() {
		m.AddElement(0, 1, 5)
		m.AddElement(1, 0, 5)
		m.AddRHS(0, 5)
	})
}

func TestClearResetsState(t *testing.T) {
	m, err := New(2, nil)
	require.NoError(t, err)
	defer m.Destroy()

	stampResistor(m, 1, 0, 100)
	m.AddRHS(1, 1)
	m.Clear()

	stampResistor(m, 1, 0, 50)
	m.AddRHS(1, 2)
	require.NoError(t, m.Solve())
	require.InDelta(t, 100.0, m.Solution()[1], 1e-6) // I=2, R=50 -> V=100
}
