package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/wizql/internal/config"
	"github.com/Norgate-AV/wizql/internal/logger"
	"github.com/Norgate-AV/wizql/internal/process"
	"github.com/Norgate-AV/wizql/internal/session"
	"github.com/Norgate-AV/wizql/internal/timeouts"
	"github.com/Norgate-AV/wizql/internal/version"
	"github.com/Norgate-AV/wizql/internal/windows"
	"github.com/Norgate-AV/wizql/internal/wizard101"
)

const (
	exitError       = 1
	exitInterrupted = 130
)

// ExecutionContext holds state needed by the signal handlers
type ExecutionContext struct {
	log         logger.LoggerInterface
	cancel      context.CancelFunc
	exitFunc    func(int) // Injectable for testing; defaults to os.Exit
	interrupted atomic.Bool
}

// RootCmd is the root command for the wizql CLI application.
var RootCmd = &cobra.Command{
	Use:   "wizql",
	Short: "wizql - Launch and log in several Wizard101 clients at once",
	Long: `wizql starts one Wizard101 client per configured account, waits for their
windows to appear, types each account's credentials into its window, renames
the window after the account and moves it to the configured position.`,
	Version:      version.GetVersion(),
	Args:         cobra.NoArgs,
	RunE:         Execute,
	SilenceUsage: true, // Don't show usage on runtime errors
}

func init() {
	// Set custom version template to show full version info
	RootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	registerFlags(RootCmd)
}

// registerFlags adds the root command's flags to cmd
func registerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("config", "c", config.DefaultPath, "path to the configuration file (.json, .yaml or .toml)")
	cmd.PersistentFlags().BoolP("verbose", "V", false, "enable verbose output")
	cmd.PersistentFlags().BoolP("logs", "l", false, "print the current log file to stdout and exit")

	cmd.Flags().Duration("stall-timeout", timeouts.WindowStallTimeout, "give up when the client windows have not all appeared after this long (0 waits forever)")
	cmd.Flags().Duration("warmup", timeouts.LaunchWarmUpDelay, "delay between the last launch and the first window poll")
	cmd.Flags().Duration("poll-interval", timeouts.WindowPollInterval, "delay between window polls")
	cmd.Flags().String("bind", string(session.BindPositional), "how windows are matched to accounts: positional or process")
	cmd.Flags().String("launch-mode", string(process.ModeShell), "how clients are started: shell or direct (process binding always uses direct)")
	cmd.Flags().Bool("elevate", false, "relaunch as administrator before starting clients")
}

// ExitCode maps an error returned by RootCmd to a process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		return exitError
	}
}

// handleLogsFlag processes the --logs flag and exits if needed
func handleLogsFlag(cfg *Config, exitFunc func(int)) error {
	if !cfg.ShowLogs {
		return nil
	}

	if err := logger.PrintLogFile(nil, logger.LoggerOptions{}); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logPath := logger.GetLogPath(logger.LoggerOptions{})
			fmt.Fprintf(os.Stderr, "Log file does not exist: %s\n", logPath)
			exitFunc(1)
			return nil
		}

		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		exitFunc(1)
		return nil
	}

	exitFunc(0)
	return nil // Won't actually reach here due to exitFunc
}

// initializeLogger creates a logger and logs startup information
func initializeLogger(cfg *Config) (logger.LoggerInterface, error) {
	log, err := logger.NewLogger(logger.LoggerOptions{
		Verbose:  cfg.Verbose,
		Compress: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

// ensureElevated checks for admin privileges and relaunches if needed
func ensureElevated(log logger.LoggerInterface) error {
	return ensureElevatedWithDeps(log, windows.IsElevated, windows.RelaunchAsAdmin, os.Exit)
}

// ensureElevatedWithDeps is the testable version with injected dependencies
func ensureElevatedWithDeps(
	log logger.LoggerInterface,
	isElevated func() bool,
	relaunchAsAdmin func() error,
	exitFunc func(int),
) error {
	log.Debug("Checking elevation status")
	if !isElevated() {
		log.Info("Relaunching as administrator")

		if err := relaunchAsAdmin(); err != nil {
			log.Error("RelaunchAsAdmin failed", slog.Any("error", err))
			return fmt.Errorf("error relaunching as admin: %w", err)
		}

		// Exit this instance, the elevated one will continue
		log.Debug("Relaunched successfully, exiting non-elevated instance")
		log.Close()
		exitFunc(0)
		return nil
	}

	log.Debug("Running with administrator privileges")
	return nil
}

// configPrompt supplies the generator's input and output
type configPrompt struct {
	in         io.Reader
	out        io.Writer
	readSecret config.SecretReader
}

func terminalPrompt() configPrompt {
	return configPrompt{in: os.Stdin, out: os.Stdout, readSecret: config.TerminalSecretReader}
}

// loadOrGenerateConfig loads the configuration at path, running the
// generator first when no file exists yet
func loadOrGenerateConfig(path string, prompt configPrompt, log logger.LoggerInterface) (*config.Configuration, error) {
	var opts config.LoadOptions

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Info(fmt.Sprintf("Configuration file %s not found, starting the generator", path))

		gen := config.NewGenerator(prompt.in, prompt.out, prompt.readSecret)
		if err := gen.Run(path); err != nil {
			return nil, fmt.Errorf("configuration generator failed: %w", err)
		}

		if !gen.Saved() {
			return nil, fmt.Errorf("no configuration was saved to %s", path)
		}

		opts.Passphrase = gen.Passphrase()
	}

	cfg, err := config.Load(path, opts)
	if err != nil {
		return nil, err
	}

	log.Debug("Configuration loaded",
		slog.String("path", path),
		slog.Int("accounts", len(cfg.Accounts)),
		slog.Bool("encrypted", cfg.UsesEncryption),
	)

	return cfg, nil
}

// setupSignalHandlers cancels the run on the first interrupt and exits on
// the second
func setupSignalHandlers(ctx context.Context, ec *ExecutionContext) {
	_ = windows.SetConsoleCtrlHandler(func(ctrlType uint32) uintptr {
		ec.log.Debug("Received console control event",
			slog.String("type", windows.GetCtrlTypeName(ctrlType)),
			slog.Uint64("code", uint64(ctrlType)),
		)

		ec.interrupt()
		return 1
	})

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)

		for {
			select {
			case sig := <-sigChan:
				ec.log.Debug("Received signal", slog.Any("signal", sig))
				ec.interrupt()
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (ec *ExecutionContext) interrupt() {
	if ec.interrupted.Swap(true) {
		ec.exitFunc(exitInterrupted)
		return
	}

	ec.log.Info("Interrupt received, stopping (press Ctrl+C again to force exit)")
	ec.cancel()
}

// newOrchestrator wires the Windows layer into a session orchestrator
func newOrchestrator(cfg *Config, log logger.LoggerInterface) *session.Orchestrator {
	api := windows.NewWindowsAPI(log, wizard101.LaunchSpec(cfg.LaunchMode()))

	return session.NewOrchestrator(log, &session.Dependencies{
		Registry: api,
		Launcher: api,
		Input:    api,
		Placer:   api,
	}, cfg.SessionOptions())
}

// displayReport shows the run summary to the user
func displayReport(report *session.Report, log logger.LoggerInterface) {
	if report == nil {
		return
	}

	log.Info("Run finished",
		slog.String("state", report.State.String()),
		slog.Int("launched", len(report.Launches)-report.FailedLaunches()),
		slog.Int("failed", report.FailedLaunches()),
		slog.Int("bound", len(report.Bindings)),
		slog.Int("polls", report.Polls),
	)

	if len(report.Bindings) == 0 {
		return
	}

	log.Info("")
	log.Info("Logged in:")
	for i, b := range report.Bindings {
		log.Info(fmt.Sprintf("  %d. %s -> %s", i+1, b.Account.Username, b.Window.Handle),
			slog.Int("number", i+1),
			slog.String("account", b.Account.Username),
			slog.String("hwnd", b.Window.Handle.String()),
			slog.Uint64("pid", uint64(b.Window.PID)),
		)
	}

	log.Info("")
}

// Execute runs the provided command with the given arguments.
func Execute(cmd *cobra.Command, args []string) error {
	cfg, err := NewConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	if err := handleLogsFlag(cfg, os.Exit); err != nil {
		return err
	}

	log, err := initializeLogger(cfg)
	if err != nil {
		return err
	}

	defer log.Close()

	log.Debug("Starting wizql", slog.String("version", version.GetFullVersion()))
	log.Debug("Flags set",
		slog.String("config", cfg.ConfigPath),
		slog.Bool("verbose", cfg.Verbose),
		slog.Duration("stallTimeout", cfg.StallTimeout),
		slog.Duration("warmup", cfg.WarmUp),
		slog.Duration("pollInterval", cfg.PollInterval),
		slog.String("bind", string(cfg.Bind)),
		slog.String("launchMode", string(cfg.LaunchMode())),
	)

	// Recover from panics and log them
	defer func() {
		if r := recover(); r != nil {
			log.Error("PANIC RECOVERED",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)

			fmt.Fprintf(os.Stderr, "\n*** PANIC: %v ***\n", r)
			fmt.Fprintf(os.Stderr, "Check log file for details\n")
		}
	}()

	if cfg.Elevate {
		if err := ensureElevated(log); err != nil {
			return err
		}
	}

	appCfg, err := loadOrGenerateConfig(cfg.ConfigPath, terminalPrompt(), log)
	if err != nil {
		log.Error("Configuration error", slog.Any("error", err))
		return err
	}

	if err := wizard101.ValidateInstallation(appCfg.LaunchPath); err != nil {
		log.Error("Wizard101 installation check failed", slog.Any("error", err))
		return err
	}

	log.Info(fmt.Sprintf("Loaded %d account(s) from %s", len(appCfg.Accounts), cfg.ConfigPath))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandlers(ctx, &ExecutionContext{
		log:      log,
		cancel:   cancel,
		exitFunc: os.Exit,
	})

	report, err := newOrchestrator(cfg, log).Run(ctx, appCfg)
	displayReport(report, log)

	if err != nil {
		var stall *session.StallError
		if errors.As(err, &stall) {
			log.Info("Check that every client started, or raise --stall-timeout if clients are patching")
		}

		return err
	}

	return nil
}
