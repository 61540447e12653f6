// Command jbooks normalizes the FY2026 budget justification exports into
// the uniform grid model consumed by the viewer, and can download the
// published source files.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/jbooks/internal/config"
	"github.com/dgallion1/jbooks/internal/fetch"
	"github.com/dgallion1/jbooks/internal/pipeline"
)

var (
	inDir    string
	outDir   string
	strict   bool
	fetchDir string
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.SlogLevel()
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
	}()

	rootCmd := &cobra.Command{
		Use:           "jbooks",
		Short:         "Normalize DoD budget justification exports into uniform grids",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Walk the input tree and write normalized documents plus the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := pipeline.NewRunner(cfg.Workers, cfg.MaxGridRows, log)
			summary, err := runner.Run(ctx, inDir, outDir)
			if err != nil {
				return err
			}
			summary.Report(log)
			if strict && summary.Errored > 0 {
				return fmt.Errorf("%d files failed", summary.Errored)
			}
			return nil
		},
	}
	convertCmd.Flags().StringVar(&inDir, "in", cfg.InputDir, "Input root directory")
	convertCmd.Flags().StringVar(&outDir, "out", cfg.OutputDir, "Output root directory")
	convertCmd.Flags().BoolVar(&strict, "strict", false, "Exit nonzero when any file failed")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the published FY2026 source files into the input tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := fetch.NewFetcher(cfg.FetchDelay, cfg.FetchTimeout, cfg.UserAgent, cfg.FetchRetries, log)
			defer f.Close()
			_, err := f.Download(ctx, fetchDir, fetch.Manifest())
			return err
		},
	}
	fetchCmd.Flags().StringVar(&fetchDir, "out", cfg.InputDir, "Directory to download into")

	rootCmd.AddCommand(convertCmd, fetchCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}
