package cursor

import "github.com/wsmwm/wsm/internal/node"

// TouchDown mirrors Down for a touch point that is driving the simulated
// pointer (spec §4.5 table, touch-to-pointer simulation).
type TouchDown struct {
	Base
	m      *Machine
	id     TouchID
	target node.ID
}

func NewTouchDown(m *Machine, id TouchID, target node.ID) *TouchDown {
	return &TouchDown{m: m, id: id, target: target}
}

func (op *TouchDown) TouchUp(id TouchID) {
	if id == op.id {
		op.m.Enter(&DefaultOp{m: op.m})
	}
}

func (op *TouchDown) TouchCancel(id TouchID) {
	if id == op.id {
		op.m.Enter(&DefaultOp{m: op.m})
	}
}

func (op *TouchDown) Unref(id node.ID) {
	if id == op.target {
		op.m.Enter(&DefaultOp{m: op.m})
	}
}
