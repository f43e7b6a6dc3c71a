// screentime is a terminal countdown timer that pauses for regular breaks.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/joho/godotenv"

	"github.com/acolita/screentime/internal/adapters/realclock"
	"github.com/acolita/screentime/internal/adapters/realdialog"
	"github.com/acolita/screentime/internal/adapters/realfs"
	"github.com/acolita/screentime/internal/config"
	"github.com/acolita/screentime/internal/logging"
	"github.com/acolita/screentime/internal/ports"
	"github.com/acolita/screentime/internal/timer"
	"github.com/acolita/screentime/internal/tui"
)

// Version information - set at build time.
var (
	Version   = "0.3.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "screentime: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	configPath  string
	preset      int
	setup       bool
	noAlerts    bool
	debug       bool
	showVersion bool
}

func run(args []string, out io.Writer) error {
	// .env is read before flags so it can supply SCREENTIME_* defaults.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	fsys := realfs.New()
	opts, err := parseFlags(args, out, fsys)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	if opts.showVersion {
		fmt.Fprintf(out, "screentime version %s\n", Version)
		fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		return nil
	}

	cfg, err := loadConfig(opts, fsys)
	if err != nil {
		return err
	}

	logCloser, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Path, fsys)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logCloser.Close()

	slog.Info("starting screentime",
		slog.String("version", Version),
		slog.String("config", opts.configPath),
	)

	preset := opts.preset
	if opts.setup {
		preset, err = runSetup(realdialog.New(cfg.PresetList()), cfg, preset)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid setup: %w", err)
		}
	}

	machine := timer.New(
		timer.WithAlertConfig(cfg.AlertConfig()),
		timer.WithTransitionHook(tui.LogTransition),
	)
	if preset > 0 {
		if err := machine.ApplyPreset(preset); err != nil {
			return err
		}
	}

	model := tui.New(machine, realclock.New(), tui.Options{
		TickInterval: cfg.TickInterval,
		Presets:      cfg.PresetList(),
	})
	defer model.Close()

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Set up config hot-reload when there is a config file to watch
	if opts.configPath != "" {
		watcher, err := config.NewWatcher(opts.configPath, func(newCfg *config.Config) {
			applyOverrides(newCfg, opts, fsys)
			program.Send(tui.ConfigMsg{
				Alerts:  newCfg.AlertConfig(),
				Presets: newCfg.PresetList(),
			})
		})
		if err != nil {
			slog.Warn("config hot-reload disabled", slog.String("error", err.Error()))
		} else {
			defer watcher.Close()
			slog.Info("config hot-reload enabled", slog.String("path", opts.configPath))
		}
	}

	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		slog.Info("received shutdown signal")
		return nil
	}
	if err != nil {
		slog.Error("program error", slog.String("error", err.Error()))
		return err
	}

	slog.Info("screentime exited", slog.Int("remaining", machine.Snapshot().Total))
	return nil
}

// parseFlags reads the command line. The config path defaults to
// SCREENTIME_CONFIG, then to the per-user config file.
func parseFlags(args []string, out io.Writer, fsys ports.FileSystem) (options, error) {
	defaultPath := fsys.Getenv(config.EnvConfigPath)
	if defaultPath == "" {
		defaultPath = config.DefaultConfigPath(fsys)
	}

	var opts options
	fset := flag.NewFlagSet("screentime", flag.ContinueOnError)
	fset.SetOutput(out)
	fset.StringVar(&opts.configPath, "config", defaultPath, "Path to configuration file (env "+config.EnvConfigPath+")")
	fset.IntVar(&opts.preset, "preset", 0, "Start with this many minutes on the clock")
	fset.BoolVar(&opts.setup, "setup", false, "Choose duration and break settings in a form before starting")
	fset.BoolVar(&opts.noAlerts, "no-alerts", false, "Disable break reminders (overrides config)")
	fset.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fset.BoolVar(&opts.showVersion, "version", false, "Show version information")

	if err := fset.Parse(args); err != nil {
		return options{}, err
	}
	if fset.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fset.Args())
	}
	if opts.preset < 0 {
		return options{}, fmt.Errorf("-preset must not be negative, got %d", opts.preset)
	}
	return opts, nil
}

// loadConfig loads the config file, applies environment and flag
// overrides, and validates the result.
func loadConfig(opts options, fsys ports.FileSystem) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath, fsys)
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg, opts, fsys)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyOverrides layers SCREENTIME_LOG_LEVEL and the command line flags on
// top of a loaded config. Reloaded configs go through it too.
func applyOverrides(cfg *config.Config, opts options, fsys ports.FileSystem) {
	if level := fsys.Getenv(config.EnvLogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if opts.debug {
		cfg.Logging.Level = "debug"
	}
	if opts.noAlerts {
		cfg.Alerts.Enabled = false
	}
}
