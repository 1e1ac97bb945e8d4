package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gowdf/wdfsim/pkg/element"
	"github.com/gowdf/wdfsim/pkg/netlist"
)

func TestBuildTwoTerminalEdges(t *testing.T) {
	nl := netlist.New(nil)
	require.NoError(t, nl.Add("R1", element.NewResistor(1000), []int{1, 2}))
	require.NoError(t, nl.Add("C1", element.NewCapacitor(1e-6), []int{2, 0}))

	g := Build(nl)
	require.Len(t, g.Edges, 2)
	require.Contains(t, g.Vertices, 0)
	require.Contains(t, g.Vertices, 1)
	require.Contains(t, g.Vertices, 2)
}

func TestBuildTriangleFansMultiTerminalElement(t *testing.T) {
	nl := netlist.New(nil)
	require.NoError(t, nl.Add("E1", element.NewVCVS(2), []int{1, 0, 2, 0}))

	g := Build(nl)
	// Three artificial vertices, each wired to all 4 real terminals:
	// 3*4=12 edges, all tagged with the same element key, none between
	// the artificials themselves.
	require.Len(t, g.Edges, 12)
	for _, e := range g.Edges {
		require.Equal(t, "E1", e.ElementKey)
	}
}

func TestBiconnectedComponentsSeriesChain(t *testing.T) {
	// A simple series chain 1-2-3-0 forms one cycle once closed back to
	// 0 through a voltage source: classic Series SPQR node.
	nl := netlist.New(nil)
	require.NoError(t, nl.Add("Vin", element.NewVoltageSource(0, 1), []int{1, 0}))
	require.NoError(t, nl.Add("R1", element.NewResistor(1000), []int{1, 2}))
	require.NoError(t, nl.Add("R2", element.NewResistor(500), []int{2, 0}))

	g := Build(nl)
	comps := g.biconnectedComponents()
	require.Len(t, comps, 1, "a single cycle is one biconnected component")
	require.Len(t, comps[0], 3, "all three edges belong to the one cycle")
}

func TestBiconnectedComponentsIncludesRootsFirstEdge(t *testing.T) {
	// Regression test: the root vertex of a DFS tree must not have its
	// edge index 0 mistakenly treated as "already used to reach the
	// parent" (there is no parent edge for a root).
	nl := netlist.New(nil)
	require.NoError(t, nl.Add("Vin", element.NewVoltageSource(0, 1), []int{1, 0}))
	require.NoError(t, nl.Add("R1", element.NewResistor(1000), []int{1, 2}))
	require.NoError(t, nl.Add("R2", element.NewResistor(500), []int{2, 0}))

	g := Build(nl)
	comps := g.biconnectedComponents()

	total := 0
	for _, c := range comps {
		total += len(c)
	}
	require.Equal(t, len(g.Edges), total, "every edge must end up in exactly one biconnected component")
}

func TestDecomposeClassifiesSeriesLoop(t *testing.T) {
	nl := netlist.New(nil)
	require.NoError(t, nl.Add("Vin", element.NewVoltageSource(0, 1), []int{1, 0}))
	require.NoError(t, nl.Add("R1", element.NewResistor(1000), []int{1, 2}))
	require.NoError(t, nl.Add("R2", element.NewResistor(500), []int{2, 0}))

	g := Build(nl)
	tree := Decompose(g)

	require.Len(t, tree.Nodes, 1)
	require.Equal(t, Series, tree.Nodes[0].Type)
}

func TestDecomposeClassifiesParallelBundle(t *testing.T) {
	nl := netlist.New(nil)
	require.NoError(t, nl.Add("Vin", element.NewVoltageSource(0, 1), []int{1, 0}))
	require.NoError(t, nl.Add("R1", element.NewResistor(1000), []int{1, 0}))
	require.NoError(t, nl.Add("R2", element.NewResistor(500), []int{1, 0}))

	g := Build(nl)
	tree := Decompose(g)

	var sawParallel bool
	for _, n := range tree.Nodes {
		if n.Type == Parallel && len(n.Edges) >= 2 {
			sawParallel = true
		}
	}
	require.True(t, sawParallel, "two elements sharing the same vertex pair must form a Parallel node")
}

func TestDecomposeSplitsAtCutVertex(t *testing.T) {
	// Two independent cycles sharing only node 2: 0-1-2-0 (Vin,R1,R2)
	// and 2-3-4-2 (R3,R4,R5). Node 2 is an articulation point, so the
	// decomposition must yield two separate SPQR nodes linked by a
	// TreeEdge at cut vertex 2.
	nl := netlist.New(nil)
	require.NoError(t, nl.Add("Vin", element.NewVoltageSource(0, 1), []int{1, 0}))
	require.NoError(t, nl.Add("R1", element.NewResistor(1000), []int{1, 2}))
	require.NoError(t, nl.Add("R2", element.NewResistor(500), []int{2, 0}))
	require.NoError(t, nl.Add("R3", element.NewResistor(200), []int{2, 3}))
	require.NoError(t, nl.Add("R4", element.NewResistor(300), []int{3, 4}))
	require.NoError(t, nl.Add("R5", element.NewResistor(400), []int{4, 2}))

	g := Build(nl)
	tree := Decompose(g)

	require.Len(t, tree.Nodes, 2)
	require.Len(t, tree.TreeEdges, 1)
	require.Equal(t, 2, tree.TreeEdges[0].U)
	require.Equal(t, 2, tree.TreeEdges[0].V)
	for _, n := range tree.Nodes {
		require.Equal(t, Series, n.Type)
	}
}

func TestDecomposeSplitsRigidLadderIntoNestedSeriesAndParallel(t *testing.T) {
	// A 4-cycle (0-1-2-3-0) plus a diagonal 1-3 is biconnected but not
	// triconnected: {1,3} is a genuine split pair. A correct SPQR
	// decomposition nests S/P nodes joined by a virtual edge at {1,3}
	// rather than classifying the whole thing as one Rigid node.
	nl := netlist.New(nil)
	require.NoError(t, nl.Add("E1", element.NewResistor(100), []int{0, 1}))
	require.NoError(t, nl.Add("E2", element.NewResistor(100), []int{1, 2}))
	require.NoError(t, nl.Add("E3", element.NewResistor(100), []int{2, 3}))
	require.NoError(t, nl.Add("E4", element.NewResistor(100), []int{3, 0}))
	require.NoError(t, nl.Add("E5", element.NewResistor(100), []int{1, 3}))

	g := Build(nl)
	tree := Decompose(g)

	require.Len(t, tree.Nodes, 3, "S0{E1,E4}, P0{virtual,E5}, S1{E2,virtual,E3}")
	require.Len(t, tree.TreeEdges, 2)

	var seriesCount, parallelCount, rigidCount, totalRealEdges int
	for _, n := range tree.Nodes {
		switch n.Type {
		case Series:
			seriesCount++
		case Parallel:
			parallelCount++
		case Rigid:
			rigidCount++
		}
		totalRealEdges += len(n.Edges)
	}
	require.Equal(t, 2, seriesCount)
	require.Equal(t, 1, parallelCount)
	require.Equal(t, 0, rigidCount, "this graph is series-parallel reducible, no genuine Rigid core remains")
	require.Equal(t, 5, totalRealEdges, "every element is bound to exactly one SPQR node")

	for _, te := range tree.TreeEdges {
		pair := [2]int{te.U, te.V}
		if pair[0] > pair[1] {
			pair[0], pair[1] = pair[1], pair[0]
		}
		require.Equal(t, [2]int{1, 3}, pair, "both virtual edges sit at the {1,3} split pair")
	}
}
