// Package element is the lumped-element catalog: immutable value types
// describing two- and multi-terminal circuit elements, plus the two
// optional capability interfaces the netlist and Thevenin-construction
// layers project against (MNAStampable, Replaceable). See spec §2.1
// and §4.1.
package element

// Kind names a catalog entry. Kept as a short string (mirroring the
// teacher's device.GetType() convention) rather than an int enum so
// log fields and error messages stay readable without a lookup table.
type Kind string

const (
	KindResistor           Kind = "R"
	KindCapacitor          Kind = "C"
	KindInductor           Kind = "L"
	KindOpenCircuit        Kind = "O"
	KindVoltageSource      Kind = "V"
	KindIdealVoltageSource Kind = "EV"
	KindVCVS               Kind = "E"
	KindIdealTransformer   Kind = "TF"
	KindLinearTransformer  Kind = "XFMR"
	KindMutualInductor     Kind = "K"
	KindTrimmer            Kind = "TRIM"
	KindDiode              Kind = "D"
)

// Element is the common surface every catalog entry satisfies. Values
// are immutable; a LumpedElement (pkg/netlist) pairs one with a node
// tuple.
type Element interface {
	Kind() Kind
	// Terminals reports the element's terminal count. The netlist
	// rejects elements with fewer than two (spec §7, InvalidTopology);
	// n>=3 triggers triangle-fan expansion before SPQR decomposition
	// (spec §4.6).
	Terminals() int
}

// MNAStamper receives Modified Nodal Analysis contributions, 1-based
// node/extra-variable indexing (index 0 is always the datum and is
// never stamped), matching the teacher's matrix.DeviceMatrix
// convention (pkg/matrix/device.go in edp1096-toy-spice).
type MNAStamper interface {
	AddElement(i, j int, value float64)
	AddRHS(i int, value float64)
}

// MNAStampable is the subset of the catalog usable as glue inside an
// R-adaptor's auxiliary Thevenin netlist (spec §4.5): plain resistors,
// ideal sources, and the linear multi-terminal primitives (VCVS,
// IdealTransformer). The tree builder (pkg/wdf) stamps only elements
// with three or more terminals this way. Dynamic/nonlinear WDF-only
// elements (VoltageSource, Trimmer, Diode, Capacitor, Inductor,
// OpenCircuit) do not implement this — their run-time behavior lives
// entirely in pkg/wdf, and they are never themselves inserted into a
// Thevenin netlist (only their *port resistance* is, stamped by the
// tree builder as a port conductance).
type MNAStampable interface {
	Element
	// ExtraVars reports how many additional branch-current unknowns
	// (beyond the element's own terminal nodes) this element's stamp
	// needs, e.g. 0 for a resistor, 1 for an ideal voltage source or an
	// ideal transformer.
	ExtraVars() int
	// Stamp adds this element's contribution. nodes has len==Terminals(),
	// extra has len==ExtraVars(); both are already-resolved indices
	// into the owning MNA system.
	Stamp(m MNAStamper, nodes []int, extra []int) error
}

// ReplacementPart is one piece of a Replaceable element's expansion.
// Suffix is appended to the replaced element's key to build a unique
// child key; Nodes are resolved node indices (existing nodes carried
// through, or fresh ones allocated by the caller starting at freeNode).
type ReplacementPart struct {
	Suffix string
	El     Element
	Nodes  []int
}

// Replaceable marks a macro element that expands into simpler
// primitives (spec §4.1). Netlist.PerformReplacements calls
// Replacement repeatedly (removing the replaced element, inserting its
// parts) until no replaceable element remains.
type Replaceable interface {
	Element
	// Replacement returns this element's expansion given its own
	// (already-resolved) node tuple and the netlist's next free node
	// index. It must not mutate shared state — Element values are
	// immutable.
	Replacement(nodes []int, freeNode int) ([]ReplacementPart, error)
}

// Nonlinear marks a catalog entry whose WDF wrapper solves a per-sample
// nonlinearity rather than exposing a fixed port resistance (spec §4.6
// root-selection priority, Open Question (a)). Only Diode implements
// it today; Trimmer's adjustable-but-linear port resistance does not
// qualify even though it also recomputes Rp per control change.
type Nonlinear interface {
	Element
	nonlinear()
}
