// Package wdferr defines the distinct error kinds raised by the netlist
// and WDF packages (see spec §7, ERROR HANDLING DESIGN).
package wdferr

import "fmt"

// DuplicateKeyError is raised when adding an element whose key already
// exists in a Netlist.
type DuplicateKeyError struct {
	Key string
}

func (e DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key: %q", e.Key)
}

// MissingKeyError is raised when getting or removing an unknown key.
type MissingKeyError struct {
	Key string
}

func (e MissingKeyError) Error() string {
	return fmt.Sprintf("missing key: %q", e.Key)
}

// InvalidTopologyError is raised when an element declares fewer than
// two terminals or is given the wrong number of nodes, when macro
// expansion does not converge, or when the WDF tree builder cannot
// place the netlist's elements. A netlist made of disconnected parts
// is not detected.
type InvalidTopologyError struct {
	Reason string
}

func (e InvalidTopologyError) Error() string {
	return fmt.Sprintf("invalid topology: %s", e.Reason)
}

// UndefinedDynamicInputError is raised when an input value is supplied
// for a key that names no dynamic element (voltage source, trimmer). A
// dynamic element given no value for a sample is not an error: it keeps
// its previous value.
type UndefinedDynamicInputError struct {
	Key string
}

func (e UndefinedDynamicInputError) Error() string {
	return fmt.Sprintf("undefined dynamic input: %q", e.Key)
}

// RAdaptorSolveError is raised when the symbolic MNA inversion or the
// adapted-port equation S[0,0](Rp)=0 cannot be solved.
type RAdaptorSolveError struct {
	Reason string
}

func (e RAdaptorSolveError) Error() string {
	return fmt.Sprintf("R-adaptor solve failed: %s", e.Reason)
}

// SampleRateError is raised for a non-positive sample rate.
type SampleRateError struct {
	SampleRate int
}

func (e SampleRateError) Error() string {
	return fmt.Sprintf("invalid sample rate: %d", e.SampleRate)
}

// PortIndexError is raised when a requested output index is out of range.
type PortIndexError struct {
	Index, NumPorts int
}

func (e PortIndexError) Error() string {
	return fmt.Sprintf("port index %d out of range [0,%d)", e.Index, e.NumPorts)
}
