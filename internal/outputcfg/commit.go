package outputcfg

import (
	"github.com/wsmwm/wsm/internal/toolkit"
	"github.com/wsmwm/wsm/internal/wsmlog"
)

// Apply runs the full five-step pipeline (spec §4.6) over entries, which
// must already have been built and sorted. It returns the entries that
// were successfully committed and whether any fallback disabling was
// needed.
//
// Step 4's fallback (SPEC_FULL.md supplement #4): if the swapchain prepare
// fails across all entries, drop entries one at a time from the end of the
// sort order (lowest priority: the ones ranked last by Sort) and retry.
// Dropped entries are not committed, so those outputs keep their previous
// state. If no entry is left, nothing is committed.
func (p *Pipeline) Apply(entries []*Entry) (committed []*Entry, fellBack bool) {
	for _, e := range entries {
		p.Translate(e)
	}

	active := append([]*Entry(nil), entries...)
	for len(active) > 0 {
		states := statesOf(active)
		if p.Swapchain.Prepare(states) {
			break
		}
		fellBack = true
		worst := active[len(active)-1]
		wsmlog.Infof(wsmlog.CatOutput, "swapchain prepare failed, disabling output and retrying", "output", worst.Backend.Name())
		active = active[:len(active)-1]
	}

	if len(active) == 0 {
		wsmlog.Errorf(wsmlog.CatOutput, "swapchain prepare failed for every fallback, keeping previous state")
		return nil, fellBack
	}

	for _, e := range active {
		if !e.Backend.CommitState(e.resolved) {
			wsmlog.Errorf(wsmlog.CatOutput, "output commit failed after successful prepare", "output", e.Backend.Name())
			continue
		}
		committed = append(committed, e)
	}
	return committed, fellBack
}

func statesOf(entries []*Entry) map[string]toolkit.PendingOutputState {
	m := make(map[string]toolkit.PendingOutputState, len(entries))
	for _, e := range entries {
		m[e.Backend.Name()] = e.resolved
	}
	return m
}
