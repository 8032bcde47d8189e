// Package main provides the kcmap binary entry point.
// Kcmap curates a knowledge compilation map: a catalog of propositional
// languages, the succinctness relations between them, and the queries and
// transformations each language supports in polynomial time.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkahdian/kcmap/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "kcmap"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath  string
		datasetPath string
		logLevel    string
	)

	cmd := &cobra.Command{
		Use:   "kcmap",
		Short: "Knowledge compilation map curator",
		Long: `Kcmap curates a knowledge compilation map: a catalog of propositional
languages, the succinctness relations between them, and the queries and
transformations each language supports in polynomial time.

It provides:
- Fixed-point propagation of derived succinctness and support facts
- Consistency checking of the curated claims
- Watch mode that re-propagates whenever the dataset changes`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&datasetPath, "dataset", "", "Dataset JSON file (overrides config)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	newApp := func() (*App, error) {
		cfg, err := buildConfig(configPath, datasetPath, logLevel)
		if err != nil {
			return nil, err
		}
		return NewApp(cfg, newLogger(cfg.Log.Level)), nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "propagate",
		Short: "Derive implied facts and save the dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return app.Propagate(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the dataset for contradictions",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return app.Validate(cmd.Context())
		},
	})

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Reset parts of the dataset",
	}
	clearCmd.AddCommand(&cobra.Command{
		Use:   "matrix",
		Short: "Reset the adjacency matrix to all-unknown",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return app.ClearMatrix()
		},
	})
	clearCmd.AddCommand(&cobra.Command{
		Use:   "database",
		Short: "Reset the dataset to an empty skeleton",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return app.ClearDatabase()
		},
	})
	cmd.AddCommand(clearCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Re-propagate whenever the dataset changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return app.Watch(cmd.Context())
		},
	})

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// buildConfig resolves configuration with flag overrides on top of the
// layered loader.
func buildConfig(configPath, datasetPath, logLevel string) (*config.Config, error) {
	var cfg *config.Config

	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	} else {
		loaded, err := config.NewLoader(slog.Default()).Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if datasetPath != "" {
		cfg.Dataset.Path = datasetPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
