// Command nuki-device runs the lock component against a simulated lock.
//
// The device is built from a system document with the same pipeline the
// compiler uses, then driven by the runtime loop: pairing timer, status
// polling, trigger dispatch, event recording and the periodic refreshes.
// While pairing mode is on the device is advertised over mDNS.
//
// Usage:
//
//	nuki-device [flags]
//
// Flags:
//
//	-system string      System document (YAML)
//	-config string      Runtime configuration file (YAML)
//	-state-dir string   Directory of the persisted state (default ".")
//	-event-log string   Binary event log file
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-interactive        Start the interactive console
//	-mdns               Advertise the pairing window over mDNS (default true)
//	-paired             Start the simulator already paired
//
// Examples:
//
//	# Run the front door lock with a console
//	nuki-device -system front-door.yaml -interactive
//
//	# Run headless with an event log
//	nuki-device -config /etc/nuki/device.yaml -event-log events.nlog
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"golang.org/x/sync/errgroup"

	"github.com/nuki-esphome/nuki-go/cmd/nuki-device/interactive"
	"github.com/nuki-esphome/nuki-go/pkg/compiler"
	"github.com/nuki-esphome/nuki-go/pkg/config"
	"github.com/nuki-esphome/nuki-go/pkg/discovery"
	"github.com/nuki-esphome/nuki-go/pkg/event"
	"github.com/nuki-esphome/nuki-go/pkg/eventlog"
	"github.com/nuki-esphome/nuki-go/pkg/lock"
	"github.com/nuki-esphome/nuki-go/pkg/persistence"
)

var (
	configFile string
	flags      = defaultConfig()
)

func init() {
	flag.StringVar(&configFile, "config", "", "Runtime configuration file (YAML)")
	flag.StringVar(&flags.System, "system", "", "System document (YAML)")
	flag.StringVar(&flags.StateDir, "state-dir", flags.StateDir, "Directory of the persisted state")
	flag.StringVar(&flags.EventLog, "event-log", "", "Binary event log file")
	flag.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	flag.BoolVar(&flags.Interactive, "interactive", false, "Start the interactive console")
	flag.BoolVar(&flags.MDNS.Enabled, "mdns", flags.MDNS.Enabled, "Advertise the pairing window over mDNS")
	flag.StringVar(&flags.MDNS.Interface, "interface", "", "Network interface for mDNS (default: all)")
	flag.BoolVar(&flags.Simulate.Paired, "paired", false, "Start the simulator already paired")
}

func main() {
	flag.Parse()

	cfg, err := loadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg = overrideConfig(cfg, flags, setFlags())
	if err := cfg.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setFlags returns the names of the flags given on the command line.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// overrideConfig applies explicitly set flags over the file configuration.
func overrideConfig(file, fl Config, set map[string]bool) Config {
	if set["system"] {
		file.System = fl.System
	}
	if set["state-dir"] {
		file.StateDir = fl.StateDir
	}
	if set["event-log"] {
		file.EventLog = fl.EventLog
	}
	if set["log-level"] {
		file.LogLevel = fl.LogLevel
	}
	if set["interactive"] {
		file.Interactive = fl.Interactive
	}
	if set["mdns"] {
		file.MDNS.Enabled = fl.MDNS.Enabled
	}
	if set["interface"] {
		file.MDNS.Interface = fl.MDNS.Interface
	}
	if set["paired"] {
		file.Simulate.Paired = fl.Simulate.Paired
	}
	return file
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

func run(cfg Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var logOut io.Writer = os.Stderr
	var rl *readline.Instance
	if cfg.Interactive {
		var err error
		if rl, err = interactive.NewReadline(); err != nil {
			return err
		}
		logOut = rl.Stderr()
	}

	logger, err := newLogger(cfg.LogLevel, logOut)
	if err != nil {
		return err
	}

	res, err := compiler.CompileFile(cfg.System, compiler.Options{
		StopAfter: compiler.StageBuild,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	dev := res.Device
	logger.Info("device built", "system", cfg.System, "entities", dev.Len(), "triggers", len(dev.Triggers()))

	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		return fmt.Errorf("state dir: %w", err)
	}
	store := persistence.NewLockStateStore(cfg.StatePath())
	saved, err := store.Load()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	recorders := []eventlog.Logger{eventlog.NewSlogAdapter(logger)}
	if cfg.EventLog != "" {
		fl, err := eventlog.NewFileLogger(cfg.EventLog)
		if err != nil {
			return fmt.Errorf("event log: %w", err)
		}
		defer fl.Close()
		recorders = append(recorders, fl)
	}

	sim := NewSimulatedLock(cfg.Simulate.Paired || (saved != nil && saved.Paired), cfg.Simulate.PairAfter)
	sim.Seed(dev)

	bus := event.NewBus(0)
	defer bus.Close()

	comp, err := lock.New(lock.Config{
		Device:         dev,
		Protocol:       sim,
		Bus:            bus,
		Store:          store,
		Recorder:       eventlog.NewMultiLogger(recorders...),
		Runner:         &lock.LogRunner{Logger: logger},
		Logger:         logger,
		SessionID:      res.RunID,
		UpdateInterval: cfg.Update,
	})
	if err != nil {
		return err
	}
	sim.OnChange(comp.Notify)

	if err := comp.Setup(ctx); err != nil {
		return err
	}
	logger.Info("lock ready", "session", comp.SessionID(), "paired", sim.IsPaired())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return comp.Run(ctx) })
	g.Go(func() error { return runSimulation(ctx, sim, cfg.Simulate.Drain, logger) })

	if cfg.MDNS.Enabled {
		sub, err := discovery.Subscribe(bus)
		if err != nil {
			return err
		}
		window := discovery.NewPairingWindow(
			discovery.NewMDNSAdvertiser(cfg.advertiserConfig()),
			discovery.PairingInfo{
				DeviceID:   lock.DeviceID,
				DeviceName: instanceName(res.Document),
				Role:       dev.Config().Enum("pairing_as"),
				Port:       cfg.MDNS.Port,
			},
			dev.PairingTimeout(),
			logger,
		)
		g.Go(func() error { return window.Run(ctx, sub) })
	}

	if rl != nil {
		console := interactive.New(comp, sim, rl)
		g.Go(func() error { return console.Run(ctx, cancel) })
	}

	err = g.Wait()
	logger.Info("shutting down")
	return err
}

// instanceName is the node name from the esphome section, or the
// component's default name.
func instanceName(doc *config.Document) string {
	if sec, ok := doc.Section("esphome"); ok {
		if name, _ := sec["name"].(string); name != "" {
			return name
		}
	}
	return lock.DeviceName
}
