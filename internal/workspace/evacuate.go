package workspace

import "github.com/wsmwm/wsm/internal/node"

// Evacuate moves every workspace owned by "from" onto "to" (a sibling
// output, or the fallback output when no sibling exists), per spec §3
// Output destroy path and scenario S6. Evacuate does not call
// AttachStickyFloaters; sticky floaters ride along with whichever
// workspace they are attached to.
//
// After evacuation, empty, non-sticky-hosting workspaces that aren't
// visible and aren't referenced by any focus stack are destroyed by the
// caller (this package doesn't know about seats' focus stacks); Evacuate
// only performs the re-parenting and returns the set of workspace ids that
// became empty so the caller can run that check.
func Evacuate(a *node.Arena, from, to *Output) []node.ID {
	var nowEmpty []node.ID
	for _, wsID := range from.Manager.Workspaces {
		ws := Lookup(a, wsID)
		if ws == nil {
			continue
		}
		ws.OutputID = to.NodeID
		to.Manager.Workspaces = append(to.Manager.Workspaces, wsID)
		if n := a.Get(wsID); n != nil {
			a.MarkDirty(n)
		}
		if ws.Empty() {
			nowEmpty = append(nowEmpty, wsID)
		}
	}
	from.Manager.Workspaces = nil
	from.Manager.ActiveID = 0
	if to.Manager.ActiveID == 0 && len(to.Manager.Workspaces) > 0 {
		to.Manager.SetActive(a, to.Manager.Workspaces[0])
	}
	return nowEmpty
}

// ShouldDestroy reports whether ws meets spec §3's destruction
// precondition: empty, not the active workspace of any output, not
// referenced by a focus stack, and not hosting any sticky container. The
// focus-stack and sticky-hosting checks are supplied by the caller (seat
// package owns focus stacks; this package only knows about Floating/Tiling
// lists, which being empty already implies no sticky container is hosted).
func ShouldDestroy(a *node.Arena, ws *Workspace, isActiveAnywhere, inAnyFocusStack bool) bool {
	return ws.Empty() && !isActiveAnywhere && !inAnyFocusStack
}
