package server

import (
	"github.com/wsmwm/wsm/internal/container"
	"github.com/wsmwm/wsm/internal/node"
	ws "github.com/wsmwm/wsm/internal/workspace"
)

// ScratchpadHide detaches c from its workspace and parks it in
// root.scratchpad, reparenting its scene node into the staging tree so it
// renders nowhere without being destroyed (spec §4.2 Scratchpad: "a
// scratchpad-hidden container is present in root.scratchpad and detached
// from any workspace; its scene node lives in the staging tree").
func (s *Server) ScratchpadHide(c *container.Container) {
	if w := ws.Lookup(s.Arena, c.Pending.Workspace); w != nil {
		w.RemoveContainer(s.Arena, c.NodeID)
		if w.Fullscreen == c.NodeID {
			w.Fullscreen = 0
		}
	}
	c.Pending.Workspace = 0

	if r := s.root(); r != nil && !containsID(r.Scratchpad, c.NodeID) {
		r.Scratchpad = append(r.Scratchpad, c.NodeID)
	}
	if c.SceneTree != nil {
		s.Global.Hide(c.SceneTree)
	}
	markDirty(s.Arena, c.NodeID)
}

// ScratchpadShow removes c from root.scratchpad, re-attaches it to target as
// a floater, and centers it within the workspace's geometry (spec §4.2
// Scratchpad: "show re-attaches it to the current workspace as a floater
// and centers it").
func (s *Server) ScratchpadShow(c *container.Container, target *ws.Workspace) {
	if r := s.root(); r != nil {
		r.Scratchpad = removeID(r.Scratchpad, c.NodeID)
	}

	c.Pending.X = target.Geometry.Min.X + (target.Geometry.Dx()-c.Pending.Width)/2
	c.Pending.Y = target.Geometry.Min.Y + (target.Geometry.Dy()-c.Pending.Height)/2
	target.AddFloating(s.Arena, c)

	if c.SceneTree != nil && target.NonFullscreenTree != nil {
		c.SceneTree.Reparent(target.NonFullscreenTree)
		c.SceneTree.SetEnabled(true)
	}
	markDirty(s.Arena, c.NodeID)
}

// InScratchpad reports whether c is currently hidden in root.scratchpad.
func (s *Server) InScratchpad(c *container.Container) bool {
	r := s.root()
	if r == nil {
		return false
	}
	return containsID(r.Scratchpad, c.NodeID)
}

func containsID(ids []node.ID, target node.ID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
