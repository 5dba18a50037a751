// Package main implements the wirelens command line tool: decode binary
// payloads (protobuf or Avro) against optional schemas, or follow a NATS
// JetStream subject and render each message as it arrives.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/Ender-Wang/Swifka-sub000/config"
	"github.com/Ender-Wang/Swifka-sub000/metric"
	"github.com/Ender-Wang/Swifka-sub000/stream"
)

const (
	Version = "0.1.0"
	appName = "wirelens"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(os.Args[1:]); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("no command given")
	}

	switch args[0] {
	case "decode":
		return runDecode(args[1:])
	case "consume":
		return runConsume(args[1:])
	case "version":
		fmt.Printf("%s %s\n", appName, Version)
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  %[1]s decode [flags] <payload-file>   decode one payload and print it
  %[1]s consume [flags]                 follow a JetStream subject
  %[1]s version                         print the version

run "%[1]s decode -h" or "%[1]s consume -h" for flags
`, appName)
}

func setupLogging(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Logging.SlogLevel(),
	}))
	slog.SetDefault(logger)
	return logger
}

// runConsume follows the configured subject until interrupted.
func runConsume(args []string) error {
	cfg, err := loadConsumeConfig(args)
	if err != nil {
		return err
	}
	logger := setupLogging(cfg)

	caches, err := stream.NewCaches()
	if err != nil {
		return err
	}
	pipeline, err := stream.BuildPipeline(cfg.Decoder, caches)
	if err != nil {
		return err
	}

	registry := metric.NewMetricsRegistry()
	if cfg.Metrics.Enabled {
		server := metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			_ = server.Stop(context.Background())
		}()
		logger.Info("metrics server listening", "address", server.Address())
	}

	consumer, err := stream.New(cfg.Stream, cfg.Decoder.Format, pipeline,
		stream.WithLogger(logger),
		stream.WithMetrics(registry.CoreMetrics()),
		stream.WithOnMessage(func(msg stream.Message) {
			fmt.Printf("[%s #%d %dB] %s\n", msg.Subject, msg.Seq, msg.Size, msg.Flat)
		}))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			logger.Warn("close failed", "error", err)
		}
	}()

	err = consumer.Run(ctx)
	if ctx.Err() != nil {
		logger.Info("shutting down")
		return nil
	}
	return err
}
