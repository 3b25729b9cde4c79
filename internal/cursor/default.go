package cursor

// DefaultOp is the idle state (spec §4.5): no button is driving a
// gesture. Its only job is to track button state (done by Machine itself)
// and let every other event pass through to the toolkit/seat's normal
// routing (SPEC_FULL.md supplement #5).
type DefaultOp struct {
	Base
	m *Machine
}

func (d *DefaultOp) Button(btn Button, pressed bool) {
	// Whether a press here starts a Move/Resize/Down op is the seat's
	// decision (it knows which container and modifier state apply); the
	// Default op itself just stays idle otherwise.
}
