// Package format turns raw telemetry numbers into spoken phrases.
package format

import (
	"fmt"
	"math"
	"strconv"
)

// Power describes a wattage reading.
func Power(watts float64) string {
	if math.IsNaN(watts) || math.IsInf(watts, 0) {
		return "an unknown amount of power"
	}

	abs := math.Abs(watts)
	switch {
	case watts == 0:
		return "0 watts"
	case abs < 1:
		return "almost zero watts"
	case abs >= 1000:
		return tenths(watts/1000) + " kilowatts"
	}

	// half up, so -2.5 rounds to -2
	rounded := math.Floor(watts + 0.5)
	if rounded == 1 {
		return "1 watt"
	}
	return fmt.Sprintf("%d watts", int64(rounded))
}

// Energy describes an energy total in kilowatt hours.
func Energy(kWh float64) string {
	if math.IsNaN(kWh) || math.IsInf(kWh, 0) {
		return "an unknown amount of energy"
	}
	return tenths(kWh) + " kilowatt hours"
}

// tenths renders v with one decimal. Values sitting exactly on a half round
// away from zero; fmt alone would round them to even.
func tenths(v float64) string {
	r := v * 10
	if math.FMA(v, 10, -r) == 0 && math.Abs(r-math.Trunc(r)) == 0.5 {
		return strconv.FormatFloat(math.Round(r)/10, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
