// Package wdf is the mutable wave-digital-filter runtime: per-sample
// element wrappers, S/P/R adaptors, the tree builder that turns a
// graph.SPQRTree into a rooted wave-propagation tree, and the Scheme
// that drives process_sample/process_signal (spec §4.3, §4.4, §4.6,
// §4.7). The retrieval pack carries no wave-digital-filter precedent,
// so this package's algorithms are grounded directly on spec.md rather
// than on a teacher file; its ambient texture (error handling via
// pkg/wdferr, structured logging via zap, dense linear algebra via
// gonum/mat) follows the rest of this module.
package wdf

import "github.com/gowdf/wdfsim/pkg/wdferr"

// Node is one element of the wave-propagation tree: a leaf element
// wrapper or an adaptor. WaveUp computes this node's outgoing wave
// toward its parent from its own state (leaves) or its children's
// outgoing waves (adaptors) — called bottom-up, once per sample.
// WaveDown receives the incident wave arriving from the parent and
// updates internal state, recursing into children for adaptors —
// called top-down, once per sample, after WaveUp has reached the root.
type Node interface {
	PortResistance() float64
	WaveUp() float64
	WaveDown(a float64)
}

// Probe is satisfied by any leaf that can report the instantaneous
// port voltage/current it last computed, used for output taps
// (spec §4.7: an OpenCircuit inserted at a requested output port).
type Probe interface {
	Node
	Voltage() float64
	Current() float64
}

func voltageCurrent(a, b, rp float64) (v, i float64) {
	return (a + b) / 2, (a - b) / (2 * rp)
}

// Resistor is a matched (adapted) linear resistor: Rp equals its own
// resistance, so it never reflects (spec §4.3).
type Resistor struct {
	rp     float64
	lastA  float64
	lastB  float64
}

func NewResistor(r float64) *Resistor { return &Resistor{rp: r} }

func (r *Resistor) PortResistance() float64 { return r.rp }
func (r *Resistor) WaveUp() float64         { r.lastB = 0; return 0 }
func (r *Resistor) WaveDown(a float64)      { r.lastA = a }
func (r *Resistor) Voltage() float64        { v, _ := voltageCurrent(r.lastA, r.lastB, r.rp); return v }
func (r *Resistor) Current() float64        { _, i := voltageCurrent(r.lastA, r.lastB, r.rp); return i }

// OpenCircuit has a very large port resistance and a one-sample-
// delayed reflection coefficient of +1, matching a true open circuit
// in the limit Rp->infinity while staying realizable as a WDF leaf
// (spec §4.3). Used for user-requested output taps (spec §4.6); the
// graph package's triangle fan inserts none.
type OpenCircuit struct {
	state float64
	lastA float64
}

const openCircuitRp = 1e20

func NewOpenCircuit() *OpenCircuit { return &OpenCircuit{} }

func (o *OpenCircuit) PortResistance() float64 { return openCircuitRp }
func (o *OpenCircuit) WaveUp() float64         { return o.state }
func (o *OpenCircuit) WaveDown(a float64)      { o.lastA = o.state; o.state = a }
func (o *OpenCircuit) Voltage() float64        { v, _ := voltageCurrent(o.lastA, o.state, openCircuitRp); return v }
func (o *OpenCircuit) Current() float64        { _, i := voltageCurrent(o.lastA, o.state, openCircuitRp); return i }

// Capacitor discretizes dv/dt=i/C with the bilinear (trapezoidal)
// transform at port resistance Rp=1/(2*fs*C): the outgoing wave this
// sample is exactly the incoming wave from last sample (spec §4.3).
type Capacitor struct {
	rp    float64
	state float64
}

func NewCapacitor(c, fs float64) *Capacitor {
	return &Capacitor{rp: 1 / (2 * fs * c)}
}

func (c *Capacitor) PortResistance() float64 { return c.rp }
func (c *Capacitor) WaveUp() float64         { return c.state }
func (c *Capacitor) WaveDown(a float64)      { c.state = a }
func (c *Capacitor) Voltage() float64        { v, _ := voltageCurrent(c.state, c.state, c.rp); return v }
func (c *Capacitor) Current() float64        { return 0 }

// Inductor is the capacitor's dual: port resistance Rp=2*fs*L, reflect
// coefficient -1 (spec §4.3).
type Inductor struct {
	rp    float64
	state float64
}

func NewInductor(l, fs float64) *Inductor {
	return &Inductor{rp: 2 * fs * l}
}

func (l *Inductor) PortResistance() float64 { return l.rp }
func (l *Inductor) WaveUp() float64         { return -l.state }
func (l *Inductor) WaveDown(a float64)      { l.state = a }
func (l *Inductor) Voltage() float64        { v, _ := voltageCurrent(l.state, -l.state, l.rp); return v }
func (l *Inductor) Current() float64        { _, i := voltageCurrent(l.state, -l.state, l.rp); return i }

// VoltageSource is an ideal source behind series resistance R: its
// outgoing wave is always its (dynamic) source value Vs, independent
// of whatever comes in (spec §4.3). SetSampleData feeds the per-sample
// dynamic input named by the netlist key this wrapper came from;
// ProcessSample rejects an undefined one via UndefinedDynamicInputError.
type VoltageSource struct {
	rp    float64
	vs    float64
	lastA float64
}

func NewVoltageSource(r, vs float64) *VoltageSource {
	return &VoltageSource{rp: r, vs: vs}
}

func (v *VoltageSource) PortResistance() float64 { return v.rp }
func (v *VoltageSource) WaveUp() float64         { return v.vs }
func (v *VoltageSource) WaveDown(a float64)      { v.lastA = a }
func (v *VoltageSource) SetSampleData(value float64) { v.vs = value }
func (v *VoltageSource) Voltage() float64 {
	vv, _ := voltageCurrent(v.lastA, v.vs, v.rp)
	return vv
}
func (v *VoltageSource) Current() float64 {
	_, i := voltageCurrent(v.lastA, v.vs, v.rp)
	return i
}

// Trimmer is a Resistor whose value can change between samples without
// forcing a tree rebuild (Open Question (a), SPEC_FULL.md §13): only
// this leaf's own Rp changes; any adaptor above it keeps the
// scattering matrix it derived when the tree was built.
type Trimmer struct {
	rp    float64
	lastA float64
}

func NewTrimmer(r float64) *Trimmer { return &Trimmer{rp: r} }

func (t *Trimmer) PortResistance() float64 { return t.rp }
func (t *Trimmer) WaveUp() float64         { return 0 }
func (t *Trimmer) WaveDown(a float64)      { t.lastA = a }
func (t *Trimmer) SetR(r float64)          { t.rp = r }

// SetSampleData is Trimmer's dynamic-input hook (spec §4.3: "nonlinear-
// typed though linear" — its per-sample value is its own Rp, not a
// wave, so it just forwards to SetR).
func (t *Trimmer) SetSampleData(value float64) { t.rp = value }
func (t *Trimmer) Voltage() float64            { v, _ := voltageCurrent(t.lastA, 0, t.rp); return v }
func (t *Trimmer) Current() float64            { _, i := voltageCurrent(t.lastA, 0, t.rp); return i }

// Diode is the tree's single permitted nonlinear element (spec §4.3,
// §12). Its port resistance is the value passed to NewDiode; the tree
// builder passes defaultDiodeRp, not a resistance derived from the
// surrounding circuit.
// Reflect solves a-b = 2*Rp*(Is*(exp((a+b)/(2*N*Vt))-1) + Gmin*(a+b)/2)
// for b using the Wright-Omega approximation (Banbrook/Yeh/Abel closed-form, the
// standard single-Newton-step cubic fit), avoiding a per-sample
// iterative Newton-Raphson loop.
type Diode struct {
	rp   float64
	is   float64
	vt   float64
	gmin float64

	lastA float64
	lastB float64
}

func NewDiode(rp, is, n, vt, gmin float64) *Diode {
	return &Diode{rp: rp, is: is, vt: n * vt, gmin: gmin}
}

func (d *Diode) PortResistance() float64 { return d.rp }

// WaveUp returns the reflection computed by the previous WaveDown. The
// diode sits as an ordinary leaf inside its parent adaptor's child
// list; each WaveDown computes the next reflection through Reflect, so
// the parent sees it one sample later.
func (d *Diode) WaveUp() float64 { return d.lastB }

func (d *Diode) WaveDown(a float64) {
	d.lastA = a
	d.lastB = d.Reflect(a)
}

// Reflect computes this sample's outgoing wave given incident wave a,
// by solving the diode's scattering relation via the Wright-Omega
// function. Logarithmic/exponential scaling constants mirror the
// closed-form piecewise-cubic approximation plus one Newton correction
// step (spec §4.3).
func (d *Diode) Reflect(a float64) float64 {
	// Gmin sits in parallel with the junction; k = 1 + Rp*Gmin folds it
	// into the port. With Gmin=0 this is the plain closed form.
	k := 1 + d.rp*d.gmin
	ris := d.rp * d.is
	x := logf(ris/(k*d.vt)) + (a+ris)/(k*d.vt)

	w := wrightOmega(x)

	b := a*(1-2*d.rp*d.gmin/k) + 2*ris/k - 2*d.vt*w
	d.lastA = a
	d.lastB = b
	return b
}

func (d *Diode) Voltage() float64 { v, _ := voltageCurrent(d.lastA, d.lastB, d.rp); return v }
func (d *Diode) Current() float64 { _, i := voltageCurrent(d.lastA, d.lastB, d.rp); return i }

// validatePortResistance guards against a degenerate (non-positive or
// non-finite) Rp ever reaching a leaf, surfacing it as
// RAdaptorSolveError instead of propagating NaN through the tree.
func validatePortResistance(rp float64) error {
	if rp != rp || rp <= 0 { // rp != rp is the NaN check
		return wdferr.RAdaptorSolveError{Reason: "non-positive or NaN port resistance"}
	}
	return nil
}
