package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/crowd-density-mcp/internal/config"
	"github.com/ironsheep/crowd-density-mcp/internal/logging"
	"github.com/ironsheep/crowd-density-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("crowd-density-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("crowd-density-mcp - MCP server for simulated crowd density analysis")
			fmt.Println()
			fmt.Println("Usage: crowd-density-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Println("  CROWD_MCP_LOG_LEVEL=info         trace, debug, info, warn, error")
			fmt.Println("  CROWD_MCP_LOG_FILE=              Also log to this rotated file")
			fmt.Println("  CROWD_MCP_HEATMAP_WIDTH=640      Default render width")
			fmt.Println("  CROWD_MCP_HEATMAP_HEIGHT=360     Default render height")
			fmt.Println("  CROWD_MCP_FPS=25                 Frames analyzed per second")
			fmt.Println("  CROWD_MCP_TOTAL_FRAMES=300       Frames in a simulated video")
			fmt.Println("  CROWD_MCP_HISTORY=100            Frames kept for the heatmap")
			fmt.Println("  CROWD_MCP_SEED=0                 Detection seed, 0 for time-based")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "crowd-density-mcp: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr; stdout is for the MCP protocol.
	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		File:   cfg.LogFile,
		Caller: cfg.LogLevel == "debug" || cfg.LogLevel == "trace",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "crowd-density-mcp: %v\n", err)
		os.Exit(1)
	}
	logger.WithFields(logging.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
		"fps":     cfg.FPS,
		"frames":  cfg.TotalFrames,
	}).Debug("crowd density MCP server starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		Config:  cfg,
		Logger:  logger,
		Version: Version,
	})
	if err := srv.Run(ctx); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}
