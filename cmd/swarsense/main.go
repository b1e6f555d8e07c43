package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/swarsense/internal"
	"codeberg.org/snonux/swarsense/internal/cli"
	"codeberg.org/snonux/swarsense/internal/logging"
	"codeberg.org/snonux/swarsense/internal/observe"
	"codeberg.org/snonux/swarsense/internal/processor"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Create flags instance
	flags := cli.NewFlags()

	provider, err := observe.NewProvider(internal.Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: metrics disabled: %v\n", err)
	}
	var metrics *observe.Metrics
	if provider != nil {
		metrics = provider.Metrics()
		defer provider.Shutdown(context.Background())
	}

	// Create processor and root command
	proc := processor.NewProcessor(flags, metrics)
	rootCmd := cli.CreateRootCommand(flags, proc)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
		setupLogging()
	})

	// Execute command
	code := 0
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code = 1
	}

	if flags.Metrics && provider != nil {
		if err := provider.WriteTotals(context.Background(), os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	return code
}

func setupLogging() {
	logger, err := logging.Setup(logging.Config{
		Level: viper.GetString("log.level"),
		JSON:  viper.GetBool("log.json"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using default log level\n", err)
		return
	}
	slog.SetDefault(logger)
}
