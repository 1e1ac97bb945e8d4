package element

// Trimmer is a two-terminal resistor whose value can be changed after
// construction (a potentiometer arm or any other runtime-adjustable
// resistance). Its WDF wrapper reports the live Rp on every query
// rather than a value frozen at tree-build time (Open Question (a)):
// the tree is built once from the *initial* R, and subsequent SetR
// calls only update the leaf's own Rp — any R-adaptor sitting above a
// Trimmer in the tree keeps the scattering matrix it derived at build
// time, so changing a Trimmer does not trigger a tree rebuild.
type Trimmer struct {
	R float64
}

func NewTrimmer(r float64) Trimmer { return Trimmer{R: r} }

func (Trimmer) Kind() Kind     { return KindTrimmer }
func (Trimmer) Terminals() int { return 2 }
