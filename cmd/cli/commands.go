package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"wealth-dashboard/internal/config"
	"wealth-dashboard/internal/data"
	"wealth-dashboard/internal/derive"
	"wealth-dashboard/internal/logging"
	"wealth-dashboard/internal/model"
	"wealth-dashboard/internal/params"
	"wealth-dashboard/internal/present"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dataPath   string
	listFields bool
)

// runCmd submits the configured parameters and exports the result
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation and export the derived series",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		client := data.NewSimulationClient(cfg.Service.BaseURL, cfg.Service.Timeout, log)
		log.WithField("service_url", cfg.Service.BaseURL).Info("submitting simulation")
		raw, err := client.RunRaw(ctx, cfg.Simulation)
		if err != nil {
			return err
		}
		snaps, err := model.DecodeSnapshots(raw)
		if err != nil {
			return err
		}

		rawPath := filepath.Join(outDir, "snapshots.json")
		if err := data.SaveSnapshotsJSON(rawPath, raw); err != nil {
			return err
		}
		log.WithField("file", rawPath).Info("saved simulation response")

		return export(ctx, cfg, log, snaps)
	},
}

// deriveCmd re-derives a saved simulation response without calling the service
var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive and export series from a saved simulation response",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		snaps, err := data.LoadSnapshotsJSON(dataPath)
		if err != nil {
			return err
		}
		return export(cmd.Context(), cfg, log, snaps)
	},
}

// paramsCmd prints the submission payload the resolved config produces
var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the resolved simulation parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if listFields {
			for _, f := range params.Fields() {
				fmt.Fprintf(out, "%-22s %-14s %-24s\n", f.Name, f.Kind, f.Label)
			}
			return nil
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(params.New(cfg.Simulation).ToPayload()); err != nil {
			return err
		}
		return enc.Close()
	},
}

func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	// CLI output is read by people; text is easier on the eye than JSON.
	log := logging.New(logLevel, "text")
	return cfg, log, nil
}

func export(ctx context.Context, cfg *config.Config, log *logrus.Logger, snaps []model.Snapshot) error {
	set := derive.New(derive.Options{Labels: cfg.LabelPolicy()}).Derive(snaps)

	seriesPath := filepath.Join(outDir, "series.csv")
	if err := present.WriteSeriesCSVFile(seriesPath, set); err != nil {
		return err
	}
	matricesPath := filepath.Join(outDir, "matrices.csv")
	if err := present.WriteMatricesCSVFile(matricesPath, set); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"steps":    len(set.Time),
		"series":   seriesPath,
		"matrices": matricesPath,
	}).Info("wrote series")

	if !withPNG {
		return nil
	}

	catalog, err := present.DefaultCatalog()
	if err != nil {
		return err
	}
	dash := present.NewAdapter(catalog).Build(set)
	renderer := present.NewRenderer(cfg.Charts.Width, cfg.Charts.Height, log)
	rendered, err := renderer.RenderAll(ctx, dash.Charts)
	if err != nil {
		return err
	}

	chartDir := filepath.Join(outDir, "charts")
	if err := os.MkdirAll(chartDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	for _, r := range rendered {
		if err := os.WriteFile(filepath.Join(chartDir, r.ID+".png"), r.PNG, 0o644); err != nil {
			return err
		}
	}
	log.WithFields(logrus.Fields{
		"charts": len(rendered),
		"dir":    chartDir,
	}).Info("rendered charts")
	return nil
}
