package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/linalg/internal/batch"
	"github.com/Faultbox/linalg/internal/config"
	"github.com/Faultbox/linalg/internal/logger"
)

// app carries state shared by the subcommands once the root has loaded config.
type app struct {
	flags *config.Flags
	cfg   *config.Config
}

func newRootCmd(ctx context.Context) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "linalg",
		Short:         "Batched 3D transform math",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.flags)
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
				return err
			}
			a.cfg = cfg
			logger.Sugar.Debugf("config: %+v", *cfg)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}
	a.flags = config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		evalCmd(ctx, a),
		opsCmd(),
		configCmd(a),
		versionCmd(),
	)
	return root
}

func evalCmd(ctx context.Context, a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "eval <job.yaml>",
		Short: "Run a batch job and print its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			job, err := batch.Parse(data)
			if err != nil {
				return err
			}
			logger.Info("running job", zap.String("file", args[0]), zap.Int("steps", len(job.Steps)))

			results, err := batch.Run(ctx, job, a.cfg)
			if err != nil {
				return err
			}
			out, err := batch.Encode(results, a.cfg.Output.Format, a.cfg.Output.Precision)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0644); err != nil {
				return err
			}
			logger.Info("results written", zap.String("path", output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write results to this file instead of stdout")
	return cmd
}

func opsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List supported operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "OPERATION\tARGS\tOUTPUTS")
			for _, op := range batch.Ops() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", op.Name, strings.Join(op.Args, ", "), strings.Join(op.Outputs, ", "))
			}
			return w.Flush()
		},
	}
}

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save the effective configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the merged configuration as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := yaml.Marshal(a.cfg)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "save [path]",
			Short: "Write the merged configuration to path or the user config directory",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 1 {
					return a.cfg.SaveTo(args[0])
				}
				return a.cfg.Save()
			},
		},
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "linalg", version)
		},
	}
}
