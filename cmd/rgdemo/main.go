// Command rgdemo drives a render graph backed by an in-memory fake GPU
// through a fixed number of frames and prints a profiler report, without
// requiring a real Vulkan/D3D12/Metal device.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rgcore/rendergraph/internal/app"
	"github.com/rgcore/rendergraph/internal/cli"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the demo's main logic for easier testing and error
// handling.
func run(outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	demoApp, err := app.NewApp(context.Background(), outW, appConfig)
	if err != nil {
		return fmt.Errorf("application startup failed: %w", err)
	}

	return demoApp.Run(context.Background())
}
