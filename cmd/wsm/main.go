// Command wsm is the compositor core's process entry point (spec §6):
// flag parsing, signal handling, the display socket name, and the
// toolkit event loop.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/wsmwm/wsm/internal/config"
	"github.com/wsmwm/wsm/internal/server"
	"github.com/wsmwm/wsm/internal/toolkit"
	"github.com/wsmwm/wsm/internal/wsmlog"
)

// maxSocketSlot is the highest wayland-N slot the core probes for itself
// before leaving socket naming to the toolkit (spec §6 Socket).
const maxSocketSlot = 32

type backendFactory func(candidateSocket string) (toolkit.Backend, error)

// newBackend is the toolkit bootstrap hook. wsm's core never implements the
// toolkit itself (spec §1); a production build links in a concrete
// implementation (DRM/KMS output backend, renderer, protocol dispatch) and
// overrides this var, the way gio's app package selects a platform backend
// at build time via per-OS files. No such implementation ships in this
// module, so the default reports the fatal-init error spec §7 calls for
// rather than pretending to be one.
var newBackend backendFactory = func(candidateSocket string) (toolkit.Backend, error) {
	return nil, fmt.Errorf("no toolkit backend compiled in (candidate socket %q)", candidateSocket)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run builds and executes the root command, returning the process exit
// code spec §6 specifies: 0 on clean shutdown, 1 on fatal init error.
func run(args []string) int {
	var opts config.Options
	var logLevel int
	code := 0

	root := &cobra.Command{
		Use:           "wsm",
		Short:         "wsm is the core of a Wayland compositor",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.LogLevel = wsmlog.Level(logLevel)
			wsmlog.Init(opts.LogLevel, os.Stderr)

			if err := bootstrap(context.Background(), opts, newBackend); err != nil {
				wsmlog.Errorf(wsmlog.CatServer, "fatal", "error", err)
				code = 1
				return err
			}
			return nil
		},
	}

	root.Flags().BoolVar(&opts.XWayland, "xwayland", false, "enable the XWayland sub-system")
	root.Flags().IntVarP(&logLevel, "log-level", "l", int(wsmlog.Error), "log verbosity: 0=silent 1=error 2=info 3=debug")
	root.Flags().StringVarP(&opts.StartupCommand, "startup", "s", "", "shell command to fork and exec after startup")

	root.SetArgs(args)
	if err := root.Execute(); err != nil && code == 0 {
		code = 1
	}
	return code
}

// bootstrap wires the toolkit backend and the compositor core together and
// blocks until a clean shutdown signal arrives (spec §6 Signals).
func bootstrap(ctx context.Context, opts config.Options, newBackend backendFactory) error {
	signal.Ignore(unix.SIGPIPE)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, unix.SIGTERM)
	defer stop()

	candidate := probeSocketName(os.Getenv("XDG_RUNTIME_DIR"))

	backend, err := newBackend(candidate)
	if err != nil {
		return fmt.Errorf("constructing toolkit backend: %w", err)
	}

	socketName, err := backend.Listen(candidate)
	if err != nil {
		return fmt.Errorf("opening wayland socket: %w", err)
	}
	os.Setenv("WAYLAND_DISPLAY", socketName)

	srv := server.New(backend.Root(), backend.Swapchain())
	srv.XWayland = opts.XWayland
	if opts.XWayland {
		os.Setenv("DISPLAY", probeXDisplayName())
	}

	if opts.StartupCommand != "" {
		if err := startCommand(opts.StartupCommand); err != nil {
			wsmlog.Errorf(wsmlog.CatServer, "startup command failed", "command", opts.StartupCommand, "error", err)
		}
	}

	wsmlog.Infof(wsmlog.CatServer, "wsm started", "socket", socketName, "xwayland", opts.XWayland)
	runErr := backend.Run(runCtx)
	wsmlog.Infof(wsmlog.CatServer, "wsm shutting down")

	if runErr != nil && runCtx.Err() == nil {
		// The event loop failed for a reason other than our own shutdown
		// signal: that's a fatal-init-class failure discovered late.
		return fmt.Errorf("running toolkit backend: %w", runErr)
	}
	return nil
}

// probeSocketName returns the first free "wayland-N" candidate under
// runtimeDir, or "" if none are free or runtimeDir is unset -- the toolkit's
// automatic naming takes over in that case (spec §6 Socket).
func probeSocketName(runtimeDir string) string {
	if runtimeDir == "" {
		return ""
	}
	for n := 1; n <= maxSocketSlot; n++ {
		name := "wayland-" + strconv.Itoa(n)
		if unix.Access(filepath.Join(runtimeDir, name), unix.F_OK) != nil {
			return name
		}
	}
	return ""
}

// probeXDisplayName picks the first free X11 display number by the same
// existence-probe idiom as probeSocketName, for the DISPLAY env var spec §6
// sets when XWayland is enabled.
func probeXDisplayName() string {
	for n := 0; n <= maxSocketSlot; n++ {
		if unix.Access(filepath.Join("/tmp/.X11-unix", "X"+strconv.Itoa(n)), unix.F_OK) != nil {
			return ":" + strconv.Itoa(n)
		}
	}
	return ":0"
}

// startCommand forks and execs "/bin/sh -c shellCmd" without waiting for it
// (spec §6's "-s" flag), inheriting the compositor's stdio.
func startCommand(shellCmd string) error {
	c := exec.Command("/bin/sh", "-c", shellCmd)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Start()
}
