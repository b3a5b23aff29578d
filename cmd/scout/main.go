package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/scoutpb/scout/internal/config"
	"github.com/scoutpb/scout/internal/influx"
	"github.com/scoutpb/scout/internal/logging"
	intOtel "github.com/scoutpb/scout/internal/otel"
	"github.com/scoutpb/scout/internal/palette"
	"github.com/scoutpb/scout/internal/program"
	"github.com/scoutpb/scout/internal/sim"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	AppName string = "scout"
)

var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	LogFilePath string
	LogFile     *os.File

	SessionStartTime time.Time = time.Now()
)

func main() {
	configDir := "."
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	if err := run(configDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configDir string) error {
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, "info", nil)
	Logger = SlogManager.Logger()

	// defaults are applied even when the file is missing
	if err := config.Load(configDir); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config", "dir", configDir)
	}

	setupLogging()
	defer shutdownLogging()

	Logger.Info("Starting up...", "version", CurrentVersion, "buildDate", BuildDate)

	dbLogger := logging.NewZerolog(logWriter(), config.GetString("logLevel"))
	owner := config.GetString("owner")

	backend, err := createStorageBackend(config.GetStorageConfig(), dbLogger)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			Logger.Error("Failed to close storage backend", "error", err)
		}
	}()

	scenario, err := loadScenario(config.GetString("world.scenarioPath"))
	if err != nil {
		return err
	}
	seeded, err := seedWaypoints(backend, owner, scenario)
	if err != nil {
		return fmt.Errorf("failed to seed waypoints: %w", err)
	}
	if seeded > 0 {
		Logger.Info("Seeded waypoints from scenario", "count", seeded)
	}
	world := sim.NewWorld(scenario)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reporter program.TickReporter
	metrics := influx.NewManager(config.GetInfluxConfig(), dbLogger)
	switch err := metrics.Connect(ctx); {
	case err == nil:
		reporter = metrics
		defer metrics.Close()
	case errors.Is(err, influx.ErrDisabled):
		Logger.Debug("Tick metrics disabled")
	default:
		Logger.Warn("Tick metrics unavailable", "error", err)
	}

	var prog *program.Program
	SlogManager.SetTickSource(func() (logging.TickContext, bool) {
		if prog == nil {
			return logging.TickContext{}, false
		}
		return prog.TickContext(), true
	})
	Logger = SlogManager.Logger()

	prog, err = program.New(program.Options{
		Owner:     owner,
		Sensor:    config.GetSensorConfig(),
		Store:     backend,
		Grid:      world,
		Directory: world,
		Echo:      program.NewEcho(os.Stdout, Logger),
		Palette:   palette.New(int64(config.GetInt("palette.seed"))),
		Reporter:  reporter,
		Logger:    Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create program: %w", err)
	}

	fmt.Println("Commands: create, test, lcd, quit")
	return loop(ctx, prog, world, readCommands(os.Stdin), config.GetTickInterval())
}

// loop drives the program from one goroutine: ticks from the ticker and
// commands from the reader.
func loop(ctx context.Context, prog *program.Program, world *sim.World, commands <-chan string, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			Logger.Info("Shutting down", "ticks", prog.Ticks())
			return nil

		case now := <-ticker.C:
			world.Advance(now.Sub(last))
			last = now
			prog.Main("", program.TriggerTick)

		case line, ok := <-commands:
			if !ok {
				// stdin closed, keep ticking until signalled
				commands = nil
				continue
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "quit", "exit":
				Logger.Info("Shutting down", "ticks", prog.Ticks())
				return nil
			case "lcd":
				fmt.Print(world.Panel().Text())
				continue
			}
			prog.Main(line, program.TriggerTerminal)
		}
	}
}

// readCommands forwards stdin lines until EOF.
func readCommands(r io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			out <- scanner.Text()
		}
	}()
	return out
}

func loadScenario(path string) (sim.Scenario, error) {
	if path == "" {
		Logger.Info("No scenario configured, using the built-in one")
		return sim.DefaultScenario(), nil
	}
	s, err := sim.LoadScenario(path)
	if err != nil {
		return s, fmt.Errorf("failed to load scenario: %w", err)
	}
	Logger.Info("Loaded scenario", "path", path, "asteroids", len(s.Asteroids))
	return s, nil
}

// setupLogging moves logging to the session log file and attaches the
// optional OTel and Graylog sinks.
func setupLogging() {
	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		Logger.Error("Failed to create logs dir", "error", err, "path", logsDir)
	}

	LogFilePath = logging.LogFilePath(logsDir, AppName, SessionStartTime)
	if _, err := os.Stat(LogFilePath); err == nil {
		os.Rename(LogFilePath, LogFilePath+".old")
	}

	var err error
	LogFile, err = os.OpenFile(filepath.Clean(LogFilePath), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", LogFilePath)
		LogFile = nil
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(otelCfg, logWriter())
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			Logger.Info("OTel provider initialized", "endpoint", otelCfg.Endpoint)
		}
	}

	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}

	level := viper.GetString("logLevel")
	var extra []slog.Handler
	if viper.GetBool("graylog.enabled") {
		h, err := logging.NewGraylogHandler(viper.GetString("graylog.address"), level)
		if err != nil {
			Logger.Error("Failed to set up Graylog", "error", err)
		} else {
			extra = append(extra, h)
		}
	}

	var file io.Writer
	if LogFile != nil {
		file = LogFile
	}
	SlogManager.Setup(file, level, otelLogProvider, extra...)
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", LogFilePath)
}

func shutdownLogging() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := SlogManager.Flush(ctx); err != nil {
		Logger.Warn("Failed to flush logs", "error", err)
	}
	if OTelProvider != nil {
		if err := OTelProvider.Shutdown(ctx); err != nil {
			Logger.Warn("Failed to shut down OTel provider", "error", err)
		}
	}
	if LogFile != nil {
		LogFile.Close()
	}
}

// logWriter is where zerolog and OTel copies go: the log file if open.
func logWriter() io.Writer {
	if LogFile != nil {
		return LogFile
	}
	return os.Stdout
}
