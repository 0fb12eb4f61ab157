package main

import (
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arbordata/saaddr/internal/export"
	"github.com/arbordata/saaddr/internal/generator"
)

var (
	generatePreset  string
	generateSeed    int64
	generateFormat  string
	generateOut     string
	generateSummary bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <count>",
	Short: "Generate synthetic SA addresses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		count, err := strconv.Atoi(args[0])
		if err != nil {
			return eris.Wrapf(err, "invalid count %q", args[0])
		}
		if count <= 0 {
			return eris.Errorf("count must be positive, got %d", count)
		}

		format, err := export.ParseFormat(generateFormat)
		if err != nil {
			return err
		}

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		preset := generatePreset
		if !cmd.Flags().Changed("preset") && cfg.Generate.DefaultPreset != "" {
			preset = cfg.Generate.DefaultPreset
		}
		weights, err := e.presets.Resolve(preset)
		if err != nil {
			return err
		}

		batch, err := e.gen.Generate(ctx, generator.Request{
			Count:   count,
			Weights: weights,
			Seed:    generateSeed,
		})
		if err != nil {
			return eris.Wrap(err, "generate batch")
		}

		out := os.Stdout
		if generateOut != "" {
			f, err := os.Create(generateOut)
			if err != nil {
				return eris.Wrapf(err, "create %s", generateOut)
			}
			defer f.Close()
			out = f
		}

		if err := export.Write(out, format, batch.Addresses); err != nil {
			return err
		}
		if generateOut != "" {
			zap.L().Info("addresses written",
				zap.String("path", generateOut), zap.Int("count", len(batch.Addresses)))
		}

		if generateSummary {
			if err := export.WriteSummary(os.Stderr, batch); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generatePreset, "preset", "balanced", "weight preset name")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "random seed for reproducible batches (0 = random)")
	generateCmd.Flags().StringVar(&generateFormat, "format", "csv", "output format: csv, json, table")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "output file (default stdout)")
	generateCmd.Flags().BoolVar(&generateSummary, "summary", false, "print batch summary to stderr")
	rootCmd.AddCommand(generateCmd)
}
