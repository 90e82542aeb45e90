// Package session launches one client per configured account, waits for
// their windows to appear and drives each window through its login.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Norgate-AV/wizql/internal/config"
	"github.com/Norgate-AV/wizql/internal/interfaces"
	"github.com/Norgate-AV/wizql/internal/logger"
	"github.com/Norgate-AV/wizql/internal/process"
	"github.com/Norgate-AV/wizql/internal/snapshot"
	"github.com/Norgate-AV/wizql/internal/timeouts"
	"github.com/Norgate-AV/wizql/internal/wizard101"
)

// BindStrategy decides which new window belongs to which account
type BindStrategy string

const (
	// BindPositional pairs the i-th new window, in registry order, with the
	// i-th account. Nothing guarantees the registry lists windows in launch
	// order, so a pairing may be swapped.
	BindPositional BindStrategy = "positional"

	// BindProcess pairs each account with the window owned by the process
	// its launch returned. Requires the launcher to report the client's own
	// PID (process.ModeDirect).
	BindProcess BindStrategy = "process"
)

// ParseBindStrategy converts a flag value into a BindStrategy
func ParseBindStrategy(s string) (BindStrategy, error) {
	switch BindStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case BindPositional, "":
		return BindPositional, nil
	case BindProcess:
		return BindProcess, nil
	default:
		return "", fmt.Errorf("unknown bind strategy %q (use %q or %q)", s, BindPositional, BindProcess)
	}
}

// Options tunes a run. Zero values for ClassFilter, TitleFormat,
// PollInterval and Strategy fall back to DefaultOptions.
type Options struct {
	ClassFilter  string
	TitleFormat  string        // fmt pattern taking the username
	WarmUp       time.Duration // wait after the last launch before polling
	PollInterval time.Duration
	StallTimeout time.Duration // 0 = wait until the context ends
	Strategy     BindStrategy
}

// DefaultOptions returns the settings used for Wizard101 clients
func DefaultOptions() Options {
	return Options{
		ClassFilter:  wizard101.WindowClass,
		TitleFormat:  wizard101.TitleFormat,
		WarmUp:       timeouts.LaunchWarmUpDelay,
		PollInterval: timeouts.WindowPollInterval,
		StallTimeout: timeouts.WindowStallTimeout,
		Strategy:     BindPositional,
	}
}

// Dependencies holds all host-facing collaborators
type Dependencies struct {
	Registry interfaces.WindowRegistry
	Launcher interfaces.ProcessLauncher
	Input    interfaces.InputInjector
	Placer   interfaces.WindowPlacer
}

// LaunchResult is the outcome of starting the client for one account
type LaunchResult struct {
	Username string
	Info     process.Info
	Err      error
}

// Binding assigns one account to one newly observed window
type Binding struct {
	Account config.Account
	Window  snapshot.Window
}

// Report describes what a run did. Run returns it even on error.
type Report struct {
	Baseline snapshot.Snapshot
	Target   int
	Launches []LaunchResult
	Bindings []Binding
	Polls    int
	Waited   time.Duration
	State    State
}

// FailedLaunches counts launches that returned an error
func (r *Report) FailedLaunches() int {
	n := 0
	for _, l := range r.Launches {
		if l.Err != nil {
			n++
		}
	}

	return n
}

// Orchestrator runs the launch, poll, bind and login sequence with injected
// dependencies
type Orchestrator struct {
	log      logger.LoggerInterface
	registry interfaces.WindowRegistry
	launcher interfaces.ProcessLauncher
	input    interfaces.InputInjector
	placer   interfaces.WindowPlacer
	opts     Options
	state    State
}

// NewOrchestrator creates an Orchestrator. Every field of deps must be set.
func NewOrchestrator(log logger.LoggerInterface, deps *Dependencies, opts Options) *Orchestrator {
	defaults := DefaultOptions()
	if opts.ClassFilter == "" {
		opts.ClassFilter = defaults.ClassFilter
	}

	if opts.TitleFormat == "" {
		opts.TitleFormat = defaults.TitleFormat
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = defaults.PollInterval
	}

	if opts.Strategy == "" {
		opts.Strategy = defaults.Strategy
	}

	return &Orchestrator{
		log:      log,
		registry: deps.Registry,
		launcher: deps.Launcher,
		input:    deps.Input,
		placer:   deps.Placer,
		opts:     opts,
		state:    StateIdle,
	}
}

// State returns the step the last or current run reached
func (o *Orchestrator) State() State {
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.log.Trace("Session state", slog.String("from", o.state.String()), slog.String("to", s.String()))
	o.state = s
}

// Run launches one client per account in cfg, waits until their windows
// exist and logs each window in. Launch failures are logged and recorded in
// the report but do not stop the run. A shortfall of windows ends the run
// with a *StallError once StallTimeout elapses; cancelling ctx ends it with
// the context's error.
func (o *Orchestrator) Run(ctx context.Context, cfg *config.Configuration) (*Report, error) {
	o.state = StateIdle
	report := &Report{Target: len(cfg.Accounts)}
	defer func() { report.State = o.state }()

	if err := ctx.Err(); err != nil {
		return report, o.cancelled(err)
	}

	// Idle -> BaselineCaptured
	report.Baseline = o.registry.Snapshot(o.opts.ClassFilter)
	o.setState(StateBaselineCaptured)
	o.log.Debug("Captured baseline",
		slog.Int("existing", report.Baseline.Len()),
		slog.Int("target", report.Target),
	)

	// BaselineCaptured -> Launching
	o.setState(StateLaunching)
	for _, acc := range cfg.Accounts {
		if err := ctx.Err(); err != nil {
			return report, o.cancelled(err)
		}

		report.Launches = append(report.Launches, o.launch(cfg.LaunchPath, acc))
	}

	// Launching -> Polling
	o.setState(StatePolling)
	ready, expected := o.readiness(report)
	if o.opts.Strategy == BindProcess && expected == 0 {
		o.log.Warn("No client launched successfully, nothing to bind")
		o.setState(StateDone)
		return report, nil
	}

	current, err := o.waitForWindows(ctx, report, ready, expected)
	if err != nil {
		return report, err
	}

	// Polling -> Bound
	newWindows := current.Difference(report.Baseline)
	report.Bindings = o.bind(cfg.Accounts, newWindows, report)
	o.setState(StateBound)

	// Bound -> Done
	for _, b := range report.Bindings {
		if err := ctx.Err(); err != nil {
			return report, o.cancelled(err)
		}

		o.login(b)
	}

	o.setState(StateDone)
	return report, nil
}

func (o *Orchestrator) launch(dir string, acc config.Account) LaunchResult {
	info, err := o.launcher.Launch(dir)
	if err != nil {
		o.log.Error(fmt.Sprintf("Failed to launch client for %s", acc.Username),
			slog.String("account", acc.Username),
			slog.Any("error", err),
		)

		return LaunchResult{Username: acc.Username, Err: err}
	}

	o.log.Info(fmt.Sprintf("Launched client for %s", acc.Username),
		slog.String("account", acc.Username),
		slog.Uint64("pid", uint64(info.PID)),
	)

	return LaunchResult{Username: acc.Username, Info: info}
}

// readiness returns the poll exit condition for the configured strategy and
// the window count that satisfies it
func (o *Orchestrator) readiness(report *Report) (func(snapshot.Snapshot) (bool, int), int) {
	baseline := report.Baseline

	if o.opts.Strategy == BindProcess {
		var pids []uint32
		for _, l := range report.Launches {
			if l.Err == nil {
				pids = append(pids, l.Info.PID)
			}
		}

		return func(current snapshot.Snapshot) (bool, int) {
			owned := ownersOf(current.Difference(baseline))
			found := 0
			for _, pid := range pids {
				if owned[pid] {
					found++
				}
			}

			return found == len(pids), found
		}, len(pids)
	}

	// Every account is expected even when its launch failed, so a failed
	// launch stalls the run.
	want := baseline.Len() + report.Target
	return func(current snapshot.Snapshot) (bool, int) {
		return current.Len() == want, current.Len()
	}, want
}

// waitForWindows polls the registry until ready reports true. The wait is
// bounded by StallTimeout when it is positive, and always by ctx.
func (o *Orchestrator) waitForWindows(
	ctx context.Context,
	report *Report,
	ready func(snapshot.Snapshot) (bool, int),
	expected int,
) (snapshot.Snapshot, error) {
	if o.opts.WarmUp > 0 {
		o.log.Debug("Waiting for clients to start", slog.Duration("warmup", o.opts.WarmUp))
		if err := sleepContext(ctx, o.opts.WarmUp); err != nil {
			return snapshot.Snapshot{}, o.cancelled(err)
		}
	}

	start := time.Now()
	pollCtx := ctx
	if o.opts.StallTimeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, o.opts.StallTimeout)
		defer cancel()
	}

	for {
		current := o.registry.Snapshot(o.opts.ClassFilter)
		report.Polls++

		ok, observed := ready(current)
		o.log.Trace("Polled window registry",
			slog.Int("poll", report.Polls),
			slog.Int("observed", observed),
			slog.Int("expected", expected),
		)

		if ok {
			report.Waited = time.Since(start)
			o.log.Debug("All client windows present",
				slog.Int("polls", report.Polls),
				slog.Duration("waited", report.Waited),
			)

			return current, nil
		}

		if err := sleepContext(pollCtx, o.opts.PollInterval); err != nil {
			report.Waited = time.Since(start)

			if ctxErr := ctx.Err(); ctxErr != nil {
				return current, o.cancelled(ctxErr)
			}

			o.setState(StateStalled)
			stall := &StallError{
				Expected: expected,
				Observed: observed,
				Waited:   report.Waited,
				Failed:   report.FailedLaunches(),
			}

			o.log.Error("Gave up waiting for client windows",
				slog.Int("expected", stall.Expected),
				slog.Int("observed", stall.Observed),
				slog.Duration("waited", stall.Waited),
			)

			return current, stall
		}
	}
}

// bind pairs accounts with windows from newWindows
func (o *Orchestrator) bind(accounts []config.Account, newWindows snapshot.Snapshot, report *Report) []Binding {
	windows := newWindows.Windows()

	if o.opts.Strategy == BindProcess {
		byPID := make(map[uint32]snapshot.Window, len(windows))
		for _, w := range windows {
			if _, seen := byPID[w.PID]; !seen {
				byPID[w.PID] = w
			}
		}

		bindings := make([]Binding, 0, len(accounts))
		for i, acc := range accounts {
			launch := report.Launches[i]
			if launch.Err != nil {
				continue
			}

			if w, ok := byPID[launch.Info.PID]; ok {
				bindings = append(bindings, Binding{Account: acc, Window: w})
			}
		}

		return bindings
	}

	if len(windows) > len(accounts) {
		o.log.Warn("More new windows than accounts, extra windows left untouched",
			slog.Int("windows", len(windows)),
			slog.Int("accounts", len(accounts)),
		)
	}

	n := min(len(windows), len(accounts))
	bindings := make([]Binding, 0, n)
	for i := 0; i < n; i++ {
		bindings = append(bindings, Binding{Account: accounts[i], Window: windows[i]})
	}

	return bindings
}

// login types the credentials into the window, renames it and moves it.
// Nothing confirms the client accepted any of it.
func (o *Orchestrator) login(b Binding) {
	h := b.Window.Handle

	o.input.SendText(h, b.Account.Username)
	o.input.SendText(h, "\t")
	o.input.SendText(h, b.Account.Password)
	o.input.SendText(h, "\r")
	o.input.SetTitle(h, wizard101.LoginTitle(o.opts.TitleFormat, b.Account.Username))
	o.placer.MoveTo(h, b.Account.X, b.Account.Y)

	o.log.Debug("Sent login sequence",
		slog.String("account", b.Account.Username),
		slog.String("hwnd", h.String()),
		slog.Int("x", b.Account.X),
		slog.Int("y", b.Account.Y),
	)
}

func (o *Orchestrator) cancelled(err error) error {
	o.setState(StateCancelled)
	return fmt.Errorf("launch run cancelled: %w", err)
}

func ownersOf(s snapshot.Snapshot) map[uint32]bool {
	owned := make(map[uint32]bool, s.Len())
	for _, w := range s.Windows() {
		owned[w.PID] = true
	}

	return owned
}

// sleepContext waits for d or until ctx is done, whichever comes first
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
