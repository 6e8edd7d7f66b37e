package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"surveycli/internal/app"
	"surveycli/internal/config"
	"surveycli/internal/dataprocessing"
	"surveycli/internal/infrastructure"
	"surveycli/internal/operations"
)

type rootOptions struct {
	configPath  string
	logLevel    string
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Clean longitudinal survey extracts into indexed panel tables",
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default survey.yaml or configs/survey.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level")
	root.PersistentFlags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve /healthz, /metrics and /runs/latest on this address")

	root.AddCommand(
		newCleanCmd(opts),
		newPanelCmd(opts),
		newRunCmd(opts),
		newProfileCmd(opts),
		newMappingCmd(opts),
		newDatasetsCmd(opts),
	)
	return root
}

// open loads the configuration, applies flag overrides and wires the
// application. The returned func shuts it down.
func (o *rootOptions) open(ctx context.Context) (*app.Application, func(), error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.metricsAddr != "" {
		cfg.Telemetry.MetricsAddr = o.metricsAddr
		cfg.Telemetry.Enabled = true
		cfg.Telemetry.MetricExporter = "prometheus"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	a, err := app.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if _, err := a.StartStatusServer(ctx); err != nil {
		_ = a.Shutdown(ctx)
		return nil, nil, fmt.Errorf("failed to start status server: %w", err)
	}

	closeFn := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown failed", slog.String("error", err.Error()))
		}
		_ = infrastructure.CloseLogFile()
	}
	return a, closeFn, nil
}

func printRun(w io.Writer, state *operations.RunState) {
	if state == nil {
		return
	}
	sum := state.Summary()
	fmt.Fprintf(w, "run %s: %s\n", sum.ID, sum.Status)
	for _, ds := range sum.Datasets {
		line := fmt.Sprintf("  %-30s %-10s", ds.Name, ds.Status)
		if ds.Rows > 0 {
			line += fmt.Sprintf(" rows=%d", ds.Rows)
		}
		if ds.Output != "" {
			line += " -> " + ds.Output
		}
		if ds.Error != "" {
			line += " error: " + ds.Error
		}
		fmt.Fprintln(w, line)
	}
}

func newCleanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [dataset...]",
		Short: "Clean the named datasets, or every dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			state, err := a.Clean(cmd.Context(), args)
			printRun(cmd.OutOrStdout(), state)
			return err
		},
	}
}

func newPanelCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "panel [panel...]",
		Short: "Assemble configured panels from cleaned datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			paths, err := a.BuildPanels(cmd.Context(), args)
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		},
	}
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Clean every configured dataset, then build every panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeFn, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			state, err := a.Clean(cmd.Context(), nil)
			printRun(cmd.OutOrStdout(), state)
			if err != nil {
				return err
			}
			paths, err := a.BuildPanels(cmd.Context(), nil)
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		},
	}
}

func newProfileCmd(opts *rootOptions) *cobra.Command {
	var maxUnique int
	cmd := &cobra.Command{
		Use:   "profile <dataset|file>",
		Short: "Write a YAML column profile of a cleaned dataset or a raw file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			path, err := a.Profile(cmd.Context(), args[0], dataprocessing.ProfilerConfig{MaxUniqueValues: maxUnique})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxUnique, "max-unique", dataprocessing.DefaultProfilerConfig().MaxUniqueValues,
		"distinct values listed per column")
	return cmd
}

func newMappingCmd(opts *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "mapping <dictionary>",
		Short: "Turn a variable dictionary sheet into per-file raw codes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, closeFn, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			path, mapping, err := a.Mapping(cmd.Context(), args[0], out)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d variables -> %s\n", len(mapping), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output YAML file")
	return cmd
}

func newDatasetsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List registered datasets in run order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeFn, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			infos, err := a.Datasets()
			if err != nil {
				return err
			}
			body, err := yaml.Marshal(infos)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}
}
