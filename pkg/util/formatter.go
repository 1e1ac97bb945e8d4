// Package util holds small, domain-independent helpers shared by the
// core packages and the demo command: engineering-notation value
// formatting/parsing.
package util

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FormatValueFactor renders value with an SI unit prefix chosen from
// its magnitude, e.g. FormatValueFactor(0.0015, "V") -> "1.500 mV".
func FormatValueFactor(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue >= 1:
		return fmt.Sprintf("%.3f %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.3f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.3f u%s", value*1e6, unit)
	case absValue >= 1e-9:
		return fmt.Sprintf("%.3f n%s", value*1e9, unit)
	case absValue >= 1e-12:
		return fmt.Sprintf("%.3f p%s", value*1e12, unit)
	default:
		return fmt.Sprintf("%.3e %s", value, unit)
	}
}

var unitMap = map[string]float64{
	"T":   1e12,
	"G":   1e9,
	"meg": 1e6,
	"K":   1e3,
	"k":   1e3,
	"m":   1e-3,
	"u":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
	"f":   1e-15,
}

var engValueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+)(meg|[TGKkmunpf])?$`)

// ParseEngineeringValue parses a number optionally suffixed with an SI
// unit prefix, e.g. "4.7k" -> 4700, "100n" -> 1e-7.
func ParseEngineeringValue(val string) (float64, error) {
	matches := engValueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %q", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	if matches[2] != "" {
		if multiplier, ok := unitMap[matches[2]]; ok {
			num *= multiplier
		}
	}

	return num, nil
}
