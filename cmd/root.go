package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/assetsim/config"
	"github.com/kilianp07/assetsim/core/agent"
	"github.com/kilianp07/assetsim/core/asset"
	"github.com/kilianp07/assetsim/core/forecast"
	"github.com/kilianp07/assetsim/core/product"
	"github.com/kilianp07/assetsim/core/sim"
	"github.com/kilianp07/assetsim/core/tariff"
	"github.com/kilianp07/assetsim/core/timeseries"
	"github.com/kilianp07/assetsim/core/weather"
	"github.com/kilianp07/assetsim/infra/logger"
	"github.com/kilianp07/assetsim/infra/metrics"
	"github.com/kilianp07/assetsim/infra/mqtt"
	infraweather "github.com/kilianp07/assetsim/infra/weather"
	"github.com/kilianp07/assetsim/pkg/export"
)

var (
	cfgPath string
	outPath string
)

var rootCmd = &cobra.Command{
	Use:   "assetsim",
	Short: "Energy asset simulation and rollout engine",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the first asset's augmented history as CSV")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("assetsim")

	sink, err := metrics.NewSinks(cfg.Metrics, logg)
	if err != nil {
		return fmt.Errorf("metric sinks: %w", err)
	}
	if cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(cfg.Metrics.PrometheusPort); err != nil {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}

	var telemetry sim.Telemetry
	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPublisher(cfg.MQTT, logg)
		if err != nil {
			return fmt.Errorf("mqtt publisher: %w", err)
		}
		defer pub.Close()
		telemetry = pub
	}

	start, err := cfg.Time.Start()
	if err != nil {
		return err
	}
	end, err := cfg.Time.End()
	if err != nil {
		return err
	}

	var weatherRef weather.Ref
	if cfg.Weather.Enabled {
		client := infraweather.NewClient(cfg.Weather.BaseURL, logg)
		ref, err := client.FetchSeries(context.Background(),
			cfg.Geography.LocationLat, cfg.Geography.LocationLon, cfg.Geography.LocationAlt,
			start, end)
		if err != nil {
			return fmt.Errorf("weather: %w", err)
		}
		weatherRef = ref
	}

	mapping, err := cfg.Assets.Storage.PowerMapping()
	if err != nil {
		return err
	}
	storageCfg := asset.StorageConfig{
		CapacityWh:          cfg.Assets.Storage.CapacityWh,
		InitialEnergyWh:     cfg.Assets.Storage.InitialEnergyWh,
		ControlPowerMapping: mapping,
		EfficiencyIn:        cfg.Assets.Storage.EfficiencyIn,
		EfficiencyOut:       cfg.Assets.Storage.EfficiencyOut,
		TrackedVariables:    cfg.Assets.Storage.TrackedVariables,
	}
	agentCfg := agent.Config{
		ControlPowerMapping: mapping,
		TrackedSignals:      cfg.Agent.TrackedSignals,
		TrajectoryLength:    cfg.Agent.TrajectoryLength,
		TrajectorySamples:   cfg.Agent.TrajectorySamples,
		RolloutStep:         cfg.Agent.RolloutStep(),
		SignalInputs:        cfg.Agent.SignalInputs,
		SignalOutputs:       cfg.Agent.SignalOutputs,
	}

	simulation, err := sim.New(sim.Options{
		Start:        timeseries.Wall(start),
		End:          timeseries.Wall(end),
		Step:         cfg.Time.Step(),
		StorageCount: cfg.Assets.NEnergyStorages,
		Storage:      storageCfg,
		Agent:        agentCfg,
		NewTariff:    newTariffFactory(cfg.Tariff),
		NewModel: func() forecast.Model {
			m := forecast.NewStorageModel(mapping)
			m.Step = cfg.Agent.RolloutStep()
			return m
		},
		Products:  []product.Product{product.NewDemandResponse()},
		Seed:      cfg.Seed,
		Logger:    logg,
		Sink:      sink,
		Telemetry: telemetry,
		Weather:   weatherRef,
	})
	if err != nil {
		return fmt.Errorf("build simulation: %w", err)
	}

	if err := simulation.Run(); err != nil {
		return fmt.Errorf("run simulation: %w", err)
	}

	if outPath != "" {
		uid := simulation.Agents()[0].UID()
		table, err := simulation.Store().AugmentedHistory(uid, mapping)
		if err != nil {
			return err
		}
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				logg.Errorf("close output: %v", cerr)
			}
		}()
		if err := export.WriteCSV(f, table); err != nil {
			return fmt.Errorf("export history: %w", err)
		}
		logg.Infof("augmented history for %s written to %s", uid, outPath)
	}
	return nil
}

func newTariffFactory(cfg config.TariffConfig) func() tariff.Tariff {
	return func() tariff.Tariff {
		switch cfg.Type {
		case "tou":
			return tariff.NewTimeOfUse()
		case "tiered":
			return tariff.NewTiered()
		default:
			return tariff.FlatRate{Rate: cfg.Rate}
		}
	}
}
