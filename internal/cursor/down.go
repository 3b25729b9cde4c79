package cursor

import "github.com/wsmwm/wsm/internal/node"

// Down tracks a plain button press that hasn't (yet) turned into a
// Move/Resize gesture -- e.g. a press used only to focus a container under
// the pointer (spec §4.5 table). It degrades back to Default on release
// without having mutated any geometry.
type Down struct {
	Base
	m      *Machine
	target node.ID
}

func NewDown(m *Machine, target node.ID) *Down {
	return &Down{m: m, target: target}
}

func (op *Down) Button(btn Button, pressed bool) {
	if !pressed && op.m.PressedCount() == 0 {
		op.m.Enter(&DefaultOp{m: op.m})
	}
}

func (op *Down) Unref(id node.ID) {
	if id == op.target {
		op.m.Enter(&DefaultOp{m: op.m})
	}
}
