package wdf

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gowdf/wdfsim/pkg/element"
	"github.com/gowdf/wdfsim/pkg/netlist"
)

func resistiveDivider(t *testing.T) *netlist.Netlist {
	nl := netlist.New(nil)
	require.NoError(t, nl.Add("Vin", element.NewVoltageSource(1e-6, 10), []int{1, 0}))
	require.NoError(t, nl.Add("R1", element.NewResistor(1000), []int{1, 2}))
	require.NoError(t, nl.Add("R2", element.NewResistor(1000), []int{2, 0}))
	return nl
}

func TestBuildRejectsNonPositiveSampleRate(t *testing.T) {
	nl := resistiveDivider(t)
	_, err := Build(nl, 0, nil, nil)
	require.Error(t, err)
}

func TestSchemeVoltageDividerReachesSteadyState(t *testing.T) {
	nl := resistiveDivider(t)
	s, err := NewScheme(48000, nl, [][2]int{{2, 0}}, nil)
	require.NoError(t, err)

	var out map[string]float64
	for i := 0; i < 8; i++ {
		out, err = s.ProcessSample(map[string]float64{"Vin": 10}, nil)
		require.NoError(t, err)
	}
	// 1k/1k divider off a 10V source with negligible source resistance:
	// node 2 must settle at 5V.
	require.InDelta(t, 5.0, out["0"], 1e-3)
}

func TestSchemeExtraProbeReadsElementVoltage(t *testing.T) {
	nl := resistiveDivider(t)
	s, err := NewScheme(48000, nl, [][2]int{{2, 0}}, nil)
	require.NoError(t, err)

	var out map[string]float64
	for i := 0; i < 8; i++ {
		out, err = s.ProcessSample(map[string]float64{"Vin": 10}, []string{"R1"})
		require.NoError(t, err)
	}
	// R1 carries the other half of the drop.
	require.InDelta(t, 5.0, out["R1"], 1e-3)
}

func TestSchemeRCLowPassConvergesToInputAtDC(t *testing.T) {
	nl := netlist.New(nil)
	require.NoError(t, nl.Add("Vin", element.NewVoltageSource(1e-6, 5), []int{1, 0}))
	require.NoError(t, nl.Add("R1", element.NewResistor(1000), []int{1, 2}))
	require.NoError(t, nl.Add("C1", element.NewCapacitor(1e-6), []int{2, 0}))

	s, err := NewScheme(48000, nl, [][2]int{{2, 0}}, nil)
	require.NoError(t, err)

	input := make([]float64, 2000)
	for i := range input {
		input[i] = 5
	}
	result, err := s.ProcessSignal(map[string][]float64{"Vin": input}, nil)
	require.NoError(t, err)

	out := result["0"]
	require.Len(t, out, len(input))
	// A capacitor blocks no current at DC steady state: output settles
	// at the source voltage well before 2000 samples (tau=RC=1ms=48
	// samples at 48kHz).
	require.InDelta(t, 5.0, out[len(out)-1], 1e-2)
}

func TestSchemeRejectsUndefinedDynamicInput(t *testing.T) {
	nl := resistiveDivider(t)
	s, err := NewScheme(48000, nl, nil, nil)
	require.NoError(t, err)

	_, err = s.ProcessSample(map[string]float64{"NoSuchKey": 1}, nil)
	require.Error(t, err)
}

func TestProcessSignalSkipsShortInputsPastTheirLength(t *testing.T) {
	nl := netlist.New(nil)
	require.NoError(t, nl.Add("Vin", element.NewVoltageSource(1e-6, 0), []int{1, 0}))
	require.NoError(t, nl.Add("Trim", element.NewTrimmer(1000), []int{1, 2}))
	require.NoError(t, nl.Add("R2", element.NewResistor(1000), []int{2, 0}))

	s, err := NewScheme(48000, nl, [][2]int{{2, 0}}, nil)
	require.NoError(t, err)

	// Vin runs the full 3 samples; Trim's dynamic resistance input only
	// supplies 1 — the remaining 2 samples must reuse Trim's last value
	// rather than erroring.
	result, err := s.ProcessSignal(map[string][]float64{
		"Vin":  {9, 9, 9},
		"Trim": {1000},
	}, nil)
	require.NoError(t, err)
	require.Len(t, result["0"], 3)
}
