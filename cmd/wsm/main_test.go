package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wsmwm/wsm/internal/config"
	"github.com/wsmwm/wsm/internal/toolkit"
	"github.com/wsmwm/wsm/internal/toolkit/faketk"
)

func TestProbeSocketNamePicksFirstFreeSlot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wayland-1"), nil, 0o644))

	require.Equal(t, "wayland-2", probeSocketName(dir))
}

func TestProbeSocketNameFallsBackToEmptyWhenRuntimeDirUnset(t *testing.T) {
	require.Equal(t, "", probeSocketName(""))
}

func TestProbeSocketNameFallsBackToEmptyWhenAllSlotsTaken(t *testing.T) {
	dir := t.TempDir()
	for n := 1; n <= maxSocketSlot; n++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "wayland-"+itoa(n)), nil, 0o644))
	}
	require.Equal(t, "", probeSocketName(dir))
}

func itoa(n int) string {
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestBootstrapSetsWaylandDisplayFromBackendListen(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("WAYLAND_DISPLAY", "")

	backend := &faketk.Backend{
		SocketName: "wayland-7",
		RunFn: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // pre-cancelled: bootstrap should return cleanly, not hang

	err := bootstrap(ctx, config.Options{}, func(string) (toolkit.Backend, error) { return backend, nil })
	require.NoError(t, err)
	require.Equal(t, "wayland-7", os.Getenv("WAYLAND_DISPLAY"))
}

func TestBootstrapPropagatesBackendConstructionFailure(t *testing.T) {
	boom := errors.New("no drm devices")
	err := bootstrap(context.Background(), config.Options{}, func(string) (toolkit.Backend, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
}

func TestBootstrapTreatsRunFailureAfterShutdownSignalAsClean(t *testing.T) {
	backend := &faketk.Backend{
		RunFn: func(ctx context.Context) error {
			<-ctx.Done()
			return errors.New("event loop teardown raced the signal")
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bootstrap(ctx, config.Options{}, func(string) (toolkit.Backend, error) { return backend, nil })
	require.NoError(t, err, "a Run error after our own shutdown signal must not be fatal")
}

func TestBootstrapPropagatesRunFailureWithoutShutdownSignal(t *testing.T) {
	boom := errors.New("compositor crashed")
	backend := &faketk.Backend{
		RunFn: func(ctx context.Context) error { return boom },
	}

	err := bootstrap(context.Background(), config.Options{}, func(string) (toolkit.Backend, error) { return backend, nil })
	require.ErrorIs(t, err, boom)
}

func TestRunReturnsExitCodeOneWhenBackendConstructionFails(t *testing.T) {
	orig := newBackend
	defer func() { newBackend = orig }()
	newBackend = func(string) (toolkit.Backend, error) { return nil, errors.New("no toolkit backend") }

	code := run(nil)
	require.Equal(t, 1, code)
}

