// Package outputcfg implements the output configuration pipeline of spec
// §4.6: building per-output target configs, translating them into toolkit
// pending state, a swapchain-wide prepare/commit pass, and the auto-scale
// and gamma-LUT policies.
//
// Grounded on original_source/desktop/wsm_output_manager.c's
// apply_output_config multi-step pipeline; the fallback-on-prepare-failure
// detail is SPEC_FULL.md's supplemented feature (disable outputs in
// ascending priority order and retry) drawn from the same file's
// output_manager_apply's retry loop.
package outputcfg

import (
	"image"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/wsmwm/wsm/internal/toolkit"
	"github.com/wsmwm/wsm/internal/wsmlog"
)

// Transform mirrors wl_output_transform's eight values; only used opaquely
// here and passed through to the toolkit.
type Transform int

// Config is a single output's explicit or default target configuration
// (spec §4.6 step 1).
type Config struct {
	Name string

	Disabled bool

	Mode      *toolkit.OutputMode // nil: pick automatically (step 3)
	Scale     float64             // 0: auto-scale (§4.6.1)
	Transform Transform
	AdaptiveSync bool
	TenBit       bool

	X, Y int
}

// Entry is one output's resolved target alongside its live backend (spec
// §4.6 step 1's matched_output_config).
type Entry struct {
	Backend toolkit.OutputBackend
	Config  Config

	resolved toolkit.PendingOutputState
}

// Pipeline runs the five-step output configuration algorithm across all
// live outputs at once.
type Pipeline struct {
	Swapchain toolkit.SwapchainManager

	// scaleCache memoizes auto-scale decisions per output name (standing
	// in for an EDID signature) so a burst of hotplug events doesn't
	// re-run the DPI math on every call (SPEC_FULL.md DOMAIN STACK:
	// github.com/patrickmn/go-cache).
	scaleCache *cache.Cache
}

// NewPipeline constructs a Pipeline whose auto-scale memoization entries
// expire after ttl (a monitor's EDID/mode change is picked up once its
// cache entry expires).
func NewPipeline(sc toolkit.SwapchainManager, ttl time.Duration) *Pipeline {
	return &Pipeline{
		Swapchain:  sc,
		scaleCache: cache.New(ttl, ttl*2),
	}
}

// BuildEntries is step 1: one Entry per live output, each paired with its
// explicit config or a Config zero value meaning "default".
func BuildEntries(backends []toolkit.OutputBackend, configs map[string]Config) []*Entry {
	entries := make([]*Entry, 0, len(backends))
	for _, b := range backends {
		cfg, ok := configs[b.Name()]
		if !ok {
			cfg = Config{Name: b.Name()}
		}
		entries = append(entries, &Entry{Backend: b, Config: cfg})
	}
	return entries
}

// Sort orders entries per step 2: already-enabled-and-staying-enabled
// first, then outputs needing enable, then disabling/disabled ones. A
// stable sort preserves the caller's tie-break order within each group.
func Sort(entries []*Entry, currentlyEnabled map[string]bool) {
	rank := func(e *Entry) int {
		wasOn := currentlyEnabled[e.Config.Name]
		switch {
		case wasOn && !e.Config.Disabled:
			return 0
		case !wasOn && !e.Config.Disabled:
			return 1
		default:
			return 2
		}
	}
	// Insertion sort: entry counts are small (a handful of outputs) and
	// this keeps the ranking function the single source of truth without
	// pulling in sort.Slice's closure-capture boilerplate for a 3-bucket
	// split.
	for i := 1; i < len(entries); i++ {
		j := i
		for j > 0 && rank(entries[j-1]) > rank(entries[j]) {
			entries[j-1], entries[j] = entries[j], entries[j-1]
			j--
		}
	}
}

// Translate is step 3: resolve each entry's Config into the toolkit's
// PendingOutputState, picking a concrete mode, scale, and render format.
func (p *Pipeline) Translate(e *Entry) {
	if e.Config.Disabled {
		e.resolved = toolkit.PendingOutputState{Enabled: false}
		return
	}

	mode := pickMode(e.Backend, e.Config.Mode)
	scale := e.Config.Scale
	if scale == 0 {
		scale = p.autoScale(e.Backend, mode)
	} else {
		scale = QuantizeFractionalScale(scale)
	}

	format := toolkit.FormatXRGB8888
	if e.Config.TenBit {
		format = toolkit.FormatXRGB2101010
	}

	e.resolved = toolkit.PendingOutputState{
		Enabled:      true,
		Mode:         mode,
		Scale:        scale,
		Transform:    int(e.Config.Transform),
		AdaptiveSync: e.Config.AdaptiveSync,
		RenderFormat: format,
		X:            e.Config.X,
		Y:            e.Config.Y,
	}
}

// pickMode resolves step 3's mode-selection order: exact match, else
// smallest refresh-rate delta, else preferred.
func pickMode(b toolkit.OutputBackend, want *toolkit.OutputMode) toolkit.OutputMode {
	modes := b.Modes()
	if want == nil {
		return b.PreferredMode()
	}
	for _, m := range modes {
		if m.Width == want.Width && m.Height == want.Height && m.RefreshMilliHz == want.RefreshMilliHz {
			return m
		}
	}
	var best toolkit.OutputMode
	bestDelta := -1
	for _, m := range modes {
		if m.Width != want.Width || m.Height != want.Height {
			continue
		}
		delta := m.RefreshMilliHz - want.RefreshMilliHz
		if delta < 0 {
			delta = -delta
		}
		if bestDelta < 0 || delta < bestDelta {
			best, bestDelta = m, delta
		}
	}
	if bestDelta >= 0 {
		return best
	}
	wsmlog.Infof(wsmlog.CatOutput, "requested mode unavailable, falling back to preferred", "output", b.Name())
	return b.PreferredMode()
}

func (p *Pipeline) autoScale(b toolkit.OutputBackend, mode toolkit.OutputMode) float64 {
	key := b.Name()
	if v, ok := p.scaleCache.Get(key); ok {
		return v.(float64)
	}
	scale := AutoScale(image.Pt(mode.Width, mode.Height), b.PhysicalSize())
	p.scaleCache.Set(key, scale, cache.DefaultExpiration)
	return scale
}
