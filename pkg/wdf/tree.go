package wdf

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gowdf/wdfsim/pkg/element"
	"github.com/gowdf/wdfsim/pkg/graph"
	"github.com/gowdf/wdfsim/pkg/netlist"
	"github.com/gowdf/wdfsim/pkg/symbolic"
	"github.com/gowdf/wdfsim/pkg/wdferr"
)

// defaultDiodeRp is the fixed companion resistance given to a Diode
// leaf. Unlike every linear leaf, a diode's Rp only affects numerical
// conditioning, not correctness (spec §4.3's nonlinear reflection
// handles an arbitrary incident wave) — real-time WDF diode models
// commonly just fix it to a convenient value rather than deriving it
// from a full Thevenin probe, which is the choice made here too.
const defaultDiodeRp = 1000.0

// RootNode is the single entry point the Scheme drives each sample:
// a fully-local adaptor with no parent, so one Process() call handles
// both the wave-up and wave-down pass for the whole tree.
type RootNode interface {
	Process()
}

// Root is the assembled wave-propagation tree plus everything a
// Scheme needs to feed dynamic inputs and read output/probe taps
// (spec §4.6, §4.7).
type Root struct {
	node       RootNode
	inputs     map[string]dynamicInput
	probes     map[string]Probe // every leaf that can report a voltage, keyed by element key
	outputKeys []string         // index i is the element key backing declared output i (spec §6 outputs list)
}

type dynamicInput interface {
	SetSampleData(value float64)
}

// SetInput feeds one netlist-keyed dynamic input (a VoltageSource or a
// Trimmer) for the upcoming sample.
func (r *Root) SetInput(key string, value float64) error {
	in, ok := r.inputs[key]
	if !ok {
		return wdferr.UndefinedDynamicInputError{Key: key}
	}
	in.SetSampleData(value)
	return nil
}

// Output reads the most recently processed sample's voltage at
// declared output index i (spec §6: "integer keys index the declared
// outputs").
func (r *Root) Output(index int) (float64, error) {
	if index < 0 || index >= len(r.outputKeys) {
		return 0, wdferr.PortIndexError{Index: index, NumPorts: len(r.outputKeys)}
	}
	return r.Probe(r.outputKeys[index])
}

// Probe reads the most recently processed sample's voltage at any
// netlist-keyed leaf (spec §6: "string keys return probed element
// voltages").
func (r *Root) Probe(key string) (float64, error) {
	p, ok := r.probes[key]
	if !ok {
		return 0, wdferr.MissingKeyError{Key: key}
	}
	return p.Voltage(), nil
}

// NumOutputs reports how many declared outputs this tree carries.
func (r *Root) NumOutputs() int { return len(r.outputKeys) }

// Process runs exactly one sample's wave-up/wave-down pass.
func (r *Root) Process() {
	r.node.Process()
}

// Build assembles the wave-propagation tree for nl at sample rate fs
// (spec §4.6): it triangle-fans and SPQR-decomposes the netlist's
// graph, picks a root block by priority (a block touching a Diode,
// else any Rigid block, else the first block), re-roots the resulting
// block-cut tree there, and builds each block bottom-up into the
// matching adaptor. Children attach to their parent block through a
// port between the shared cut vertex and the reference node (spec
// §13: a deliberate simplification — every subtree is assumed
// referenced to datum rather than floating between two non-ground
// nodes, which covers the ground-referenced ladder/filter topologies
// this simulator targets).
func Build(nl *netlist.Netlist, fs float64, outputs [][2]int, log *zap.Logger) (*Root, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if fs <= 0 {
		return nil, wdferr.SampleRateError{SampleRate: int(fs)}
	}

	outputKeys := make([]string, len(outputs))
	for i, pair := range outputs {
		key := fmt.Sprintf("__output_%d", i)
		if err := nl.Add(key, element.NewOpenCircuit(), []int{pair[0], pair[1]}); err != nil {
			return nil, err
		}
		outputKeys[i] = key
	}

	if err := nl.PerformReplacements(); err != nil {
		return nil, err
	}

	g := graph.Build(nl)
	tree := graph.Decompose(g)
	if len(tree.Nodes) == 0 {
		return nil, wdferr.InvalidTopologyError{Reason: "netlist has no elements to build a tree from"}
	}

	leaves, inputs, probes, err := buildLeaves(nl, fs)
	if err != nil {
		return nil, err
	}

	parent, order, rootID := planTree(tree, nl)

	built := make(map[int]Node, len(tree.Nodes))
	byID := make(map[int]*graph.SPQRNode, len(tree.Nodes))
	for _, n := range tree.Nodes {
		byID[n.ID] = n
	}

	childrenOf := make(map[int][]graph.TreeEdge)
	for _, te := range tree.TreeEdges {
		childrenOf[te.A] = append(childrenOf[te.A], te)
		childrenOf[te.B] = append(childrenOf[te.B], te)
	}

	var rootNode RootNode
	for _, id := range order {
		n := byID[id]
		isRoot := id == rootID

		children, err := childBlockPorts(id, parent, childrenOf, built)
		if err != nil {
			return nil, err
		}

		switch n.Type {
		case graph.Series, graph.Parallel:
			members, err := collectMembers(n, nl, leaves)
			if err != nil {
				return nil, err
			}
			all := append(members, children...)
			if len(all) == 0 {
				return nil, wdferr.InvalidTopologyError{Reason: fmt.Sprintf("block %d has no members", id)}
			}
			var inner Node
			if n.Type == graph.Series {
				inner = NewSeriesAdaptor(all)
			} else {
				inner = NewParallelAdaptor(all)
			}
			if isRoot {
				rootNode = NewRootSeriesParallel(inner)
			}
			built[id] = inner

		case graph.Rigid:
			node, root, err := buildRigid(n, nl, leaves, children, isRoot)
			if err != nil {
				return nil, err
			}
			built[id] = node
			if isRoot {
				rootNode = root
			}
		}
	}

	if rootNode == nil {
		return nil, wdferr.InvalidTopologyError{Reason: "failed to assemble a root adaptor"}
	}

	log.Debug("wdf tree built", zap.Int("blocks", len(tree.Nodes)), zap.Int("root_block", rootID))
	return &Root{node: rootNode, inputs: inputs, probes: probes, outputKeys: outputKeys}, nil
}

// planTree picks the root block (priority: a block touching a Diode,
// else any Rigid block, else the first block) and returns each block's
// parent block id (-1 for the root) plus a children-before-parent
// visiting order, by walking the block-cut tree as an undirected
// graph from the chosen root.
func planTree(tree *graph.SPQRTree, nl *netlist.Netlist) (parent map[int]int, postOrder []int, rootID int) {
	adj := make(map[int][]graph.TreeEdge)
	for _, te := range tree.TreeEdges {
		adj[te.A] = append(adj[te.A], te)
		adj[te.B] = append(adj[te.B], te)
	}

	rootID = tree.Nodes[0].ID
	foundDiode, foundRigid := false, false
	for _, n := range tree.Nodes {
		if !foundDiode && nodeHasDiode(n, nl) {
			rootID = n.ID
			foundDiode = true
			break
		}
		if !foundRigid && n.Type == graph.Rigid {
			rootID = n.ID
			foundRigid = true
		}
	}

	parent = map[int]int{rootID: -1}
	visited := map[int]bool{rootID: true}
	var order []int
	var stack []int
	stack = append(stack, rootID)
	var visitOrder []int
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visitOrder = append(visitOrder, cur)
		for _, te := range adj[cur] {
			other := te.A
			if other == cur {
				other = te.B
			}
			if !visited[other] {
				visited[other] = true
				parent[other] = cur
				stack = append(stack, other)
			}
		}
	}
	for i := len(visitOrder) - 1; i >= 0; i-- {
		order = append(order, visitOrder[i])
	}
	return parent, order, rootID
}

// nodeHasDiode reports whether any distinct element bound to n is a
// Diode — a block touching one is preferred as the tree's root
// (spec §13 Open Question (a)).
func nodeHasDiode(n *graph.SPQRNode, nl *netlist.Netlist) bool {
	seen := make(map[string]bool)
	for _, e := range n.Edges {
		if seen[e.ElementKey] {
			continue
		}
		seen[e.ElementKey] = true
		le, err := nl.Get(e.ElementKey)
		if err != nil {
			continue
		}
		if le.El.Kind() == element.KindDiode {
			return true
		}
	}
	return false
}

// childBlockPorts gathers this block's attached child blocks (every
// neighbor in the block-cut tree that isn't its parent) as Nodes,
// using the shared cut vertex as the port's identity — the ground-
// referenced simplification documented on Build.
func childBlockPorts(id int, parent map[int]int, childrenOf map[int][]graph.TreeEdge, built map[int]Node) ([]Node, error) {
	var out []Node
	for _, te := range childrenOf[id] {
		other := te.A
		if other == id {
			other = te.B
		}
		if parent[other] != id {
			continue
		}
		child, ok := built[other]
		if !ok {
			return nil, wdferr.InvalidTopologyError{Reason: fmt.Sprintf("child block %d not yet built for parent %d", other, id)}
		}
		out = append(out, child)
	}
	return out, nil
}

// collectMembers resolves a Series/Parallel block's own skeleton edges
// to already-built WDF leaves, deduplicating by element key (a
// triangle-fanned multi-terminal element contributes several edges
// under the same key, but Series/Parallel blocks never host one in
// practice — transformer/VCVS expansion always forms a locally rigid
// cluster, per pkg/graph's fan construction).
func collectMembers(n *graph.SPQRNode, nl *netlist.Netlist, leaves map[string]Node) ([]Node, error) {
	seen := make(map[string]bool)
	var out []Node
	for _, e := range n.Edges {
		if seen[e.ElementKey] {
			continue
		}
		seen[e.ElementKey] = true
		leaf, ok := leaves[e.ElementKey]
		if !ok {
			return nil, wdferr.InvalidTopologyError{Reason: fmt.Sprintf("element %q has no WDF leaf (multi-terminal glue in a Series/Parallel block?)", e.ElementKey)}
		}
		out = append(out, leaf)
	}
	return out, nil
}

// buildLeaves constructs one WDF leaf per 2-terminal netlist element,
// plus the dynamic-input registry and the probe registry (every leaf
// that can report a voltage, spec §6's "string keys return probed
// element voltages").
func buildLeaves(nl *netlist.Netlist, fs float64) (map[string]Node, map[string]dynamicInput, map[string]Probe, error) {
	leaves := make(map[string]Node)
	inputs := make(map[string]dynamicInput)
	probes := make(map[string]Probe)

	for _, le := range nl.Values() {
		if le.El.Terminals() != 2 {
			continue // multi-terminal glue, handled inside buildRigid
		}
		node, err := buildLeaf(le, fs)
		if err != nil {
			return nil, nil, nil, err
		}
		leaves[le.Key] = node

		if v, ok := node.(dynamicInput); ok {
			inputs[le.Key] = v
		}
		if p, ok := node.(Probe); ok {
			probes[le.Key] = p
		}
	}
	return leaves, inputs, probes, nil
}

func buildLeaf(le netlist.LumpedElement, fs float64) (Node, error) {
	switch el := le.El.(type) {
	case element.Resistor:
		return NewResistor(el.R), nil
	case element.Capacitor:
		return NewCapacitor(el.C, fs), nil
	case element.Inductor:
		return NewInductor(el.L, fs), nil
	case element.OpenCircuit:
		return NewOpenCircuit(), nil
	case element.VoltageSource:
		return NewVoltageSource(el.R, el.Vs), nil
	case element.Trimmer:
		return NewTrimmer(el.R), nil
	case element.Diode:
		return NewDiode(defaultDiodeRp, el.Is, el.N, el.Vt, el.Gmin), nil
	default:
		return nil, wdferr.InvalidTopologyError{
			Reason: fmt.Sprintf("element %q (%s) cannot be placed as a WDF leaf", le.Key, le.El.Kind()),
		}
	}
}

// localIndexer assigns 1-based node indices (0 stays 0) within one
// Rigid block's own dense MNA system, and hands out fresh indices for
// each glue element's extra branch-current unknowns.
type localIndexer struct {
	nodes map[int]int
	next  int
}

func newLocalIndexer() *localIndexer {
	return &localIndexer{nodes: make(map[int]int)}
}

func (ix *localIndexer) node(n int) int {
	if n == 0 {
		return 0
	}
	if i, ok := ix.nodes[n]; ok {
		return i
	}
	ix.next++
	ix.nodes[n] = ix.next
	return ix.next
}

func (ix *localIndexer) fresh() int {
	ix.next++
	return ix.next
}

// ruPort is one resolved, known-or-unknown port of a Rigid block under
// construction: its local node pair plus (if known) the Node supplying
// its port resistance.
type ruPort struct {
	pos, neg int
	node     Node // nil for the single unknown (upward) port
}

func buildRigid(n *graph.SPQRNode, nl *netlist.Netlist, leaves map[string]Node, children []Node, isRoot bool) (Node, RootNode, error) {
	ix := newLocalIndexer()

	type glueOp struct {
		el    element.MNAStampable
		nodes []int
	}
	var glue []glueOp
	var ports []ruPort

	seen := make(map[string]bool)
	for _, e := range n.Edges {
		if seen[e.ElementKey] {
			continue
		}
		seen[e.ElementKey] = true

		le, err := nl.Get(e.ElementKey)
		if err != nil {
			return nil, nil, err
		}

		if le.El.Terminals() >= 3 {
			stampable, ok := le.El.(element.MNAStampable)
			if !ok {
				return nil, nil, wdferr.InvalidTopologyError{
					Reason: fmt.Sprintf("element %q (%s) is multi-terminal but not MNA-stampable glue", le.Key, le.El.Kind()),
				}
			}
			nodes := make([]int, len(le.Nodes))
			for i, realNode := range le.Nodes {
				nodes[i] = ix.node(realNode)
			}
			glue = append(glue, glueOp{el: stampable, nodes: nodes})
			continue
		}

		leaf, ok := leaves[e.ElementKey]
		if !ok {
			return nil, nil, wdferr.InvalidTopologyError{Reason: fmt.Sprintf("element %q has no WDF leaf", e.ElementKey)}
		}
		ports = append(ports, ruPort{pos: ix.node(le.Nodes[0]), neg: ix.node(le.Nodes[1]), node: leaf})
	}

	for _, child := range children {
		// Each child block attaches at the shared cut vertex it reports
		// through its own PortResistance; the vertex identity itself was
		// already resolved while building that child, so here we only
		// need a fresh local node standing in for "the rest of that
		// subtree" — consistent with the ground-referenced port
		// convention documented on Build.
		cv := ix.fresh()
		ports = append(ports, ruPort{pos: cv, neg: 0, node: child})
	}

	var unknown *ruPort
	if !isRoot {
		cv := ix.fresh()
		unknown = &ruPort{pos: cv, neg: 0}
	}

	extraBase := ix.next
	extraIdx := make([][]int, len(glue))
	size := extraBase
	for i, op := range glue {
		extraCount := op.el.ExtraVars()
		extraIdx[i] = make([]int, extraCount)
		for k := 0; k < extraCount; k++ {
			size++
			extraIdx[i][k] = size
		}
	}

	stamper := symbolic.NewStamper(size)
	for i, op := range glue {
		if err := op.el.Stamp(stamper, op.nodes, extraIdx[i]); err != nil {
			return nil, nil, fmt.Errorf("stamping glue element: %w", err)
		}
	}
	for _, p := range ports {
		g := 1 / p.node.PortResistance()
		stampResistor(stamper, p.pos, p.neg, g)
	}

	symPorts := make([]symbolic.Port, 0, len(ports)+1)
	childNodes := make([]Node, 0, len(ports))
	if !isRoot {
		// The root has no unknown port; Ports[0] is just the first real
		// port like any other when isRoot is true.
		symPorts = append(symPorts, symbolic.Port{PosNode: unknown.pos, NegNode: unknown.neg})
	}
	for _, p := range ports {
		symPorts = append(symPorts, symbolic.Port{PosNode: p.pos, NegNode: p.neg, R: p.node.PortResistance()})
		childNodes = append(childNodes, p.node)
	}

	problem := &symbolic.Problem{X0: stamper.A, Ports: symPorts}

	if !isRoot {
		sol, err := problem.Solve()
		if err != nil {
			return nil, nil, err
		}
		if err := validatePortResistance(sol.Rp); err != nil {
			return nil, nil, err
		}
		return symbolicToRigid(sol, childNodes), nil, nil
	}

	s, err := symbolic.Scatter(stamper.A, symPorts)
	if err != nil {
		return nil, nil, err
	}
	root := NewRootRigidAdaptor(s, childNodes)
	return root, root, nil
}

func stampResistor(s *symbolic.Stamper, i, j int, g float64) {
	if i != 0 {
		s.AddElement(i, i, g)
		if j != 0 {
			s.AddElement(i, j, -g)
		}
	}
	if j != 0 {
		if i != 0 {
			s.AddElement(j, i, -g)
		}
		s.AddElement(j, j, g)
	}
}
