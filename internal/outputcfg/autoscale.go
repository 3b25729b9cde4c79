package outputcfg

import "image"

// AutoScale implements spec §4.6.1: pick an integer scale from an output's
// physical size and its preferred mode's pixel size, with no configuration
// input.
//
// Grounded on original_source/desktop/wsm_output.c's calculate_scale
// heuristic; the "<1200 short axis or placeholder physical size" guard
// mirrors wlroots' own treatment of bogus/zero EDID physical dimensions.
func AutoScale(pixels image.Point, physicalMM image.Point) float64 {
	shortAxis := pixels.X
	if pixels.Y < shortAxis {
		shortAxis = pixels.Y
	}
	if shortAxis < 1200 {
		return 1
	}
	if physicalMM.X <= 0 || physicalMM.Y <= 0 {
		return 1
	}
	// A placeholder physical size (many cheap/virtual panels report the
	// aspect ratio itself, e.g. 16x9 or 16x10, in place of millimetres) is
	// rejected by treating anything under 20mm on either axis as not a real
	// display.
	if physicalMM.X < 20 || physicalMM.Y < 20 {
		return 1
	}

	dpiX := float64(pixels.X) / mmToInches(physicalMM.X)
	dpiY := float64(pixels.Y) / mmToInches(physicalMM.Y)

	if dpiX > 2*96 && dpiY > 2*96 {
		return 2
	}
	return 1
}

func mmToInches(mm int) float64 {
	return float64(mm) / 25.4
}

// QuantizeFractionalScale rounds a user-requested fractional scale to the
// nearest 1/120th, matching the fractional-scale protocol's wire unit
// (spec §4.6.1 final sentence).
func QuantizeFractionalScale(scale float64) float64 {
	const denom = 120.0
	steps := scale*denom + 0.5
	return float64(int(steps)) / denom
}
