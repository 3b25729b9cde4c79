package outputcfg

import "github.com/wsmwm/wsm/internal/wsmlog"

// GammaLUT is a client-supplied gamma ramp (spec §4.6.2). Nothing in this
// package passes it to the toolkit; PendingOutputState has no LUT field.
type GammaLUT struct {
	Red, Green, Blue []uint16
}

// GammaState tracks one output's pending LUT and whether it needs to be
// folded into the next commit.
type GammaState struct {
	Pending *GammaLUT
	Changed bool
}

// SetLUT marks the output as needing its gamma LUT rebuilt on the next
// frame (spec §4.6.2 "mark the output gamma_lut_changed").
func (g *GammaState) SetLUT(lut *GammaLUT) {
	g.Pending = lut
	g.Changed = true
}

// ApplyGamma clears the changed flag and reports whether a changed,
// non-nil LUT is pending. It does not modify e: the LUT is not written into
// the entry's resolved state, and no commit is triggered.
func ApplyGamma(e *Entry, g *GammaState, outputName string) bool {
	if !g.Changed {
		return false
	}
	g.Changed = false
	if g.Pending == nil {
		return false
	}
	wsmlog.Debugf(wsmlog.CatOutput, "folding gamma LUT into next commit", "output", outputName)
	return true
}

// RejectLUT notifies a client its gamma control is invalid after a commit
// carrying its LUT failed (spec §4.6.2 final sentence).
func RejectLUT(outputName string) {
	wsmlog.Infof(wsmlog.CatOutput, "gamma commit failed, notifying client of invalid control", "output", outputName)
}
