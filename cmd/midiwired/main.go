package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/midiwire-io/midiwire/internal/config"
	"github.com/midiwire-io/midiwire/internal/logging"
	"github.com/midiwire-io/midiwire/internal/metrics"
	"github.com/midiwire-io/midiwire/internal/midi"
	"github.com/midiwire-io/midiwire/internal/port"
	"github.com/midiwire-io/midiwire/internal/ring"
	"github.com/midiwire-io/midiwire/internal/server"
	"github.com/midiwire-io/midiwire/internal/transport"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	// Handle version flag before subcommand parsing
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-version") {
		fmt.Printf("midiwired version %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	subcommand := os.Args[1]
	switch subcommand {
	case "serve":
		runServe(os.Args[2:])
	case "decode":
		runDecode(os.Args[2:])
	case "version":
		fmt.Printf("midiwired version %s (built %s, commit %s)\n", version, buildTime, gitCommit)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: midiwired <command> [options]

Commands:
  serve       Start the MIDI hub (TCP relay between raw MIDI streams)
  decode      Decode a raw MIDI byte stream from a file or stdin
  version     Print version information

Run 'midiwired <command> --help' for more information on a command.`)
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	listenAddr := fs.String("listen", "", "Override listen address (e.g., :5004)")
	metricsAddr := fs.String("metrics-addr", "", "Override metrics endpoint address (e.g., :9090)")
	inChannels := fs.String("in-channels", "", "Override input channel filter (e.g., all, 9, 1,2,3)")
	outChannel := fs.Int("out-channel", -1, "Override default output channel (0-15)")
	serialDevice := fs.String("serial", "", "Attach a serial MIDI device to the hub (e.g., /dev/ttyUSB0)")
	instanceID := fs.String("instance-id", "", "Override instance ID (default: auto-generated UUID)")

	fs.Usage = func() {
		fmt.Println(`Usage: midiwired serve [options]

Start the midiwire hub. Every TCP connection carries a raw MIDI byte
stream; decoded messages are relayed to all other connections.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	// Load configuration
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromPath(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Apply CLI overrides
	if *listenAddr != "" {
		cfg.Listener.ListenAddr = *listenAddr
	}
	if *metricsAddr != "" {
		cfg.Observability.MetricsAddr = *metricsAddr
	}
	if *inChannels != "" {
		cfg.Port.InChannels = *inChannels
	}
	if *outChannel >= 0 {
		cfg.Port.OutChannel = *outChannel
	}
	if *serialDevice != "" {
		cfg.Listener.SerialDevice = *serialDevice
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// Set up logger
	logger := logging.Configure(cfg.Observability.LogLevel, cfg.Observability.LogFormat)

	id := *instanceID
	if id == "" {
		id = uuid.New().String()
	}
	logger = logger.With(map[string]any{"instanceId": id})
	logger.Infof("starting midiwired", map[string]any{
		"version": version,
		"commit":  gitCommit,
	})

	portCfg, err := buildPortConfig(cfg)
	if err != nil {
		logger.Errorf("invalid port config", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	hub := server.New(server.Config{
		ListenAddr: cfg.Listener.ListenAddr,
		ReadPoll:   time.Duration(cfg.Listener.ReadPollMs) * time.Millisecond,
		Port:       portCfg,
	}, logger).
		WithConnectionMetrics(metrics.NewConnectionMetrics()).
		WithPortMetrics(metrics.NewPortMetrics())

	// Bridge a local serial device into the hub, if configured.
	if dev := cfg.Listener.SerialDevice; dev != "" {
		serial, err := transport.OpenSerial(dev)
		if err != nil {
			logger.Errorf("failed to open serial device", map[string]any{
				"device": dev,
				"error":  err.Error(),
			})
			os.Exit(1)
		}
		if err := hub.Attach("serial:"+dev, serial); err != nil {
			logger.Errorf("failed to attach serial device", map[string]any{
				"device": dev,
				"error":  err.Error(),
			})
			os.Exit(1)
		}
	}

	// Metrics endpoint
	var metricsServer *metrics.Server
	if cfg.Observability.MetricsAddr != "" {
		metricsServer = metrics.NewServer(cfg.Observability.MetricsAddr).WithLogger(logger)
		if err := metricsServer.Start(); err != nil {
			logger.Errorf("failed to start metrics server", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- hub.ListenAndServe()
	}()

	select {
	case sig := <-sigCh:
		logger.Infof("received shutdown signal", map[string]any{"signal": sig.String()})
	case err := <-errCh:
		if err != nil && err != server.ErrServerClosed {
			logger.Errorf("hub error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}

	// Graceful shutdown
	logger.Info("initiating graceful shutdown")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := hub.Shutdown(shutdownCtx); err != nil && err != server.ErrServerClosed {
		logger.Errorf("shutdown error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("metrics shutdown error", map[string]any{"error": err.Error()})
		}
	}

	logger.Info("hub shutdown complete")
}

func buildPortConfig(cfg *config.Config) (port.Config, error) {
	filter, err := cfg.InChannelFilter()
	if err != nil {
		return port.Config{}, err
	}
	return port.Config{
		InBufferSize: cfg.Port.InBufferSize,
		ScratchSize:  cfg.Port.ScratchSize,
		InChannels:   filter,
		OutChannel:   cfg.Port.OutChannel,
	}, nil
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	inPath := fs.String("in", "", "Input file with raw MIDI bytes (default: stdin)")
	channels := fs.String("channels", "all", "Channel filter (e.g., all, 9, 1,2,3)")

	fs.Usage = func() {
		fmt.Println(`Usage: midiwired decode [options]

Decode a raw MIDI byte stream and print one line per message. Bytes
that cannot start a message are skipped and reported.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	filter, err := midi.ParseChannelFilter(*channels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid channel filter: %v\n", err)
		os.Exit(1)
	}

	var in io.Reader = os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open input: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read input: %v\n", err)
		os.Exit(1)
	}
	if len(data) == 0 {
		return
	}

	registry := midi.Builtin()
	buf := ring.New(len(data))
	for _, b := range data {
		if err := buf.Append(b); err != nil {
			fmt.Fprintf(os.Stderr, "buffer error: %v\n", err)
			os.Exit(1)
		}
	}

	var skipped int
	for {
		res := registry.DecodeNext(buf, filter)
		for i := 0; i < res.Consumed; i++ {
			if _, err := buf.PopFront(); err != nil {
				fmt.Fprintf(os.Stderr, "buffer error: %v\n", err)
				os.Exit(1)
			}
		}
		skipped += res.Skipped

		if res.Message != nil {
			printMessage(registry, res.Message, res.Channel)
			continue
		}
		if res.Filtered {
			continue
		}
		if res.Consumed == 0 {
			break
		}
	}

	if skipped > 0 {
		fmt.Fprintf(os.Stderr, "skipped %d byte(s) while resynchronizing\n", skipped)
	}
	if n := buf.Len(); n > 0 {
		fmt.Fprintf(os.Stderr, "%d trailing byte(s) form an incomplete message\n", n)
	}
}

func printMessage(registry *midi.Registry, msg midi.Message, channel int) {
	if bad, ok := msg.(midi.BadEvent); ok {
		fmt.Printf("BadEvent            bytes=% X error=%v\n", bad.Data, bad.Err)
		return
	}

	name := "Unknown"
	if d := registry.Lookup(msg.Status()); d != nil {
		name = d.Name
	}
	if channel != midi.NoChannel {
		fmt.Printf("%-19s channel=%d %+v\n", name, channel, msg)
	} else {
		fmt.Printf("%-19s %+v\n", name, msg)
	}
}
