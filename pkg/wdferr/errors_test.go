package wdferr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"duplicate key", DuplicateKeyError{Key: "R1"}, `duplicate key: "R1"`},
		{"missing key", MissingKeyError{Key: "C2"}, `missing key: "C2"`},
		{"invalid topology", InvalidTopologyError{Reason: "disconnected"}, "invalid topology: disconnected"},
		{"undefined dynamic input", UndefinedDynamicInputError{Key: "Vin"}, `undefined dynamic input: "Vin"`},
		{"r-adaptor solve", RAdaptorSolveError{Reason: "singular"}, "R-adaptor solve failed: singular"},
		{"sample rate", SampleRateError{SampleRate: -1}, "invalid sample rate: -1"},
		{"port index", PortIndexError{Index: 3, NumPorts: 2}, "port index 3 out of range [0,2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.EqualError(t, tt.err, tt.want)
		})
	}
}

func TestErrorsSatisfyErrorInterface(t *testing.T) {
	// Every kind must be usable as a plain `error` return value (not
	// just via a pointer) since the rest of the module returns them by
	// value.
	var errs = []error{
		DuplicateKeyError{},
		MissingKeyError{},
		InvalidTopologyError{},
		UndefinedDynamicInputError{},
		RAdaptorSolveError{},
		SampleRateError{},
		PortIndexError{},
	}
	for _, err := range errs {
		require.NotEmpty(t, err.Error())
	}
}
