// Command wdfdemo assembles a small RC low-pass filter netlist,
// drives it with a 100 Hz square wave for -cycles cycles (2 by default)
// through wdf.Scheme, and
// prints the filtered output — a smoke test for the whole build
// pipeline (netlist -> SPQR decomposition -> WDF tree -> sample loop).
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"go.uber.org/zap"

	"github.com/gowdf/wdfsim/pkg/element"
	"github.com/gowdf/wdfsim/pkg/netlist"
	"github.com/gowdf/wdfsim/pkg/util"
	"github.com/gowdf/wdfsim/pkg/wdf"
)

func main() {
	sampleRate := flag.Int("fs", 48000, "sample rate in Hz")
	cutoff := flag.Float64("cutoff", 1000, "RC low-pass cutoff frequency in Hz")
	cycles := flag.Int("cycles", 2, "number of 100Hz square-wave cycles to simulate")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("building logger: %v", err)
		}
		logger = dev
	}
	defer logger.Sync()

	// R-C low-pass: node 1 = source node, node 2 = filtered output.
	// Pick R=1k and derive C from the requested cutoff, fc=1/(2*pi*R*C).
	r := 1000.0
	c := 1 / (2 * math.Pi * r * *cutoff)

	// A WDF VoltageSource leaf needs strictly positive series resistance
	// to present a finite port resistance; a negligible value stands in
	// for an ideal source here.
	const sourceR = 1e-6

	nl := netlist.New(logger)
	if err := nl.Add("Vin", element.NewVoltageSource(sourceR, 0), []int{1, 0}); err != nil {
		log.Fatalf("adding source: %v", err)
	}
	if err := nl.Add("R1", element.NewResistor(r), []int{1, 2}); err != nil {
		log.Fatalf("adding resistor: %v", err)
	}
	if err := nl.Add("C1", element.NewCapacitor(c), []int{2, 0}); err != nil {
		log.Fatalf("adding capacitor: %v", err)
	}

	scheme, err := wdf.NewScheme(*sampleRate, nl, [][2]int{{2, 0}}, logger)
	if err != nil {
		log.Fatalf("building WDF tree: %v", err)
	}

	const toneHz = 100.0
	samplesPerCycle := int(float64(*sampleRate) / toneHz)
	n := samplesPerCycle * *cycles

	input := make([]float64, n)
	for i := range input {
		phase := math.Mod(float64(i)/float64(samplesPerCycle), 1.0)
		if phase < 0.5 {
			input[i] = 1.0
		} else {
			input[i] = -1.0
		}
	}

	result, err := scheme.ProcessSignal(map[string][]float64{"Vin": input}, nil)
	if err != nil {
		log.Fatalf("processing signal: %v", err)
	}

	out := result["0"]
	fmt.Printf("RC low-pass: R=%s C=%s fc=%s fs=%s\n",
		util.FormatValueFactor(r, "Ohm"), util.FormatValueFactor(c, "F"),
		util.FormatValueFactor(*cutoff, "Hz"), util.FormatValueFactor(float64(*sampleRate), "Hz"))
	fmt.Println("sample  input     output")
	for i := 0; i < len(out); i += samplesPerCycle / 8 {
		fmt.Printf("%6d  %8.4f  %8.4f\n", i, input[i], out[i])
	}
}
