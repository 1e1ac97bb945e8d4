package wdf

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/gowdf/wdfsim/pkg/netlist"
)

// Scheme is the public run-time driver (spec §4.7, §6's WDFScheme):
// it owns one built Root tree and walks it one sample at a time.
// Single-threaded and cooperative — no suspension points, no shared
// mutable state between distinct Scheme instances.
type Scheme struct {
	root *Root
	log  *zap.Logger
}

// NewScheme builds the wave-propagation tree for nl at the given
// sample rate and declares outputs as (posNode, negNode) pairs (spec
// §6). Build-time errors (SampleRateError, InvalidTopologyError,
// RAdaptorSolveError, ...) propagate from here.
func NewScheme(sampleRate int, nl *netlist.Netlist, outputs [][2]int, log *zap.Logger) (*Scheme, error) {
	if log == nil {
		log = zap.NewNop()
	}
	root, err := Build(nl, float64(sampleRate), outputs, log)
	if err != nil {
		return nil, err
	}
	return &Scheme{root: root, log: log}, nil
}

// ProcessSample runs exactly one sample: inputs are written before the
// wave-up pass, wave-up completes before wave-down, and outputs/probes
// are read only after wave-down (spec §5 ordering guarantee). A
// failure mid-sample leaves the tree state undefined; the caller must
// Reset before reusing this Scheme.
//
// Returned keys are either the declared output index (as a base-10
// string, e.g. "0") or, for an extra probe key, the netlist element
// key itself — callers that need the numeric form back can parse it,
// but within one process this module just hands back the string form
// spec §6 describes as "int|key".
func (s *Scheme) ProcessSample(inputs map[string]float64, extraProbeKeys []string) (map[string]float64, error) {
	for key, value := range inputs {
		if err := s.root.SetInput(key, value); err != nil {
			return nil, err
		}
	}

	s.root.Process()

	out := make(map[string]float64, s.root.NumOutputs()+len(extraProbeKeys))
	for i := 0; i < s.root.NumOutputs(); i++ {
		v, err := s.root.Output(i)
		if err != nil {
			return nil, err
		}
		out[strconv.Itoa(i)] = v
	}
	for _, key := range extraProbeKeys {
		v, err := s.root.Probe(key)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

// ProcessSignal drives a whole signal: it calls Reset first (which does
// not clear wave state, see Reset), then calls ProcessSample once per
// sample index up to the longest input list's length. A netlist key whose input list is shorter than the
// signal is simply not written for the samples past its own length —
// its WDF leaf keeps whatever dynamic value it last had (spec §6:
// "missing per-key samples are skipped for that step").
func (s *Scheme) ProcessSignal(inputs map[string][]float64, extraProbeKeys []string) (map[string][]float64, error) {
	s.Reset()

	n := 0
	for _, samples := range inputs {
		if len(samples) > n {
			n = len(samples)
		}
	}

	out := make(map[string][]float64)
	for step := 0; step < n; step++ {
		stepInputs := make(map[string]float64, len(inputs))
		for key, samples := range inputs {
			if step < len(samples) {
				stepInputs[key] = samples[step]
			}
		}
		result, err := s.ProcessSample(stepInputs, extraProbeKeys)
		if err != nil {
			return nil, err
		}
		for key, value := range result {
			out[key] = append(out[key], value)
		}
	}
	return out, nil
}

// Reset only logs at Debug level. It does not zero any wave state or
// restore dynamic defaults: leaf and adaptor state, and the last value
// written to each dynamic input, carry over into the next sample.
func (s *Scheme) Reset() {
	s.log.Debug("wdf scheme reset")
}

// NumOutputs reports how many declared outputs this scheme carries.
func (s *Scheme) NumOutputs() int { return s.root.NumOutputs() }
