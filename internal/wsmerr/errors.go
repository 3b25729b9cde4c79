// Package wsmerr classifies errors per the taxonomy in spec §7, so callers
// can branch on policy (ignore, log, abort, fall back) with errors.Is
// instead of string matching.
package wsmerr

import "errors"

// Kind sentinels. Wrap them with fmt.Errorf("...: %w", kind) at the call
// site that detects the condition.
var (
	// FatalInit means the process cannot continue starting up (no
	// renderer, no socket). Policy: log, destroy display, exit 1.
	FatalInit = errors.New("fatal initialization error")

	// TransientClient means a client did something ignorable (stale ack,
	// invalid geometry). Policy: ignore, log at debug.
	TransientClient = errors.New("transient client error")

	// ClientFatal means a client violated the protocol badly enough to be
	// killed. Policy: post no_memory / destroy the offending resource.
	ClientFatal = errors.New("client protocol violation")

	// CapabilityDenied means an unprivileged client reached a privileged
	// protocol. Policy: filter-hide the global from that client.
	CapabilityDenied = errors.New("capability denied")

	// RecoverableConfig means an output config couldn't be honored exactly.
	// Policy: fall back to preferred mode, log info.
	RecoverableConfig = errors.New("recoverable configuration error")

	// TransactionTimeout means a view didn't ack within the timeout.
	// Policy: force-apply, continue, keep the saved buffer this frame.
	TransactionTimeout = errors.New("transaction timed out")

	// Allocation means an internal helper failed to allocate. Policy:
	// return null/zero, caller propagates.
	Allocation = errors.New("allocation failed")
)

// Is reports whether err is classified as kind, per errors.Is semantics.
func Is(err, kind error) bool {
	return errors.Is(err, kind)
}
