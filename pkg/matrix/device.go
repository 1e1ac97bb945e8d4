package matrix

// DeviceMatrix is the stamping surface elements see, real-valued only
// now that AC analysis is out of scope. It is satisfied by
// *CircuitMatrix and is structurally identical to
// element.MNAStamper — kept as a distinct type (mirroring the
// teacher's own separation of matrix.DeviceMatrix from the stamping
// caller) so pkg/element never needs to import pkg/matrix.
type DeviceMatrix interface {
	AddElement(i, j int, value float64) // 1-based indexing
	AddRHS(i int, value float64)
}
