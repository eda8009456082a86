package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"dronedelivery/internal/factories"
	"dronedelivery/internal/pkg/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewRootCommand builds the CLI: "serve" runs the API, "generate" prints a
// random scenario file.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var envFile string

	root := &cobra.Command{
		Use:           "dronedelivery",
		Short:         "Drone delivery fleet scheduling and simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(newServeCommand(v, &envFile), newGenerateCommand())
	return root
}

func newServeCommand(v *viper.Viper, envFile *string) *cobra.Command {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the fleet API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := LoadConfig(v, *envFile)
			if err != nil {
				return err
			}
			return Serve(cmd.Context(), config, cmd.OutOrStdout())
		},
	}

	flags := serve.Flags()
	flags.String("http-port", "8080", "HTTP listen port")
	flags.Float64("http-rate-limit", 0, "requests per second per client; 0 disables limiting")
	flags.Float64("depot-x", 0, "depot x coordinate")
	flags.Float64("depot-y", 0, "depot y coordinate")
	flags.String("journal-driver", "", "delivery journal driver: postgres, sqlite or empty to disable")
	flags.String("journal-dsn", "", "journal DSN; for sqlite a file path")
	flags.StringSlice("kafka-brokers", nil, "Kafka brokers for notification publishing")
	flags.String("kafka-topic", "drone-notifications", "Kafka topic for notifications")
	flags.String("auto-allocate-schedule", "", "cron spec with seconds for periodic allocation passes")
	flags.Bool("auto-allocate-optimizer", true, "use the route optimizer for periodic passes")
	flags.Float64("simulation-speed", 60, "simulated seconds per wall-clock second")
	flags.Bool("auto-start-simulation", false, "start the simulation on boot")
	flags.Int("combination-cap", 50, "optimizer combination cap")
	flags.String("scenario-file", "", "YAML scenario registered on boot")
	flags.Int("random-vehicles", 0, "random vehicles registered on boot")
	flags.Int("random-orders", 0, "random orders created on boot")
	flags.Int("random-zones", 0, "random exclusion zones added on boot")
	flags.Int64("random-seed", 0, "seed for random entities; 0 is unseeded")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "text", "text or json")
	flags.Duration("shutdown-timeout", 0, "graceful shutdown timeout")

	flags.VisitAll(func(f *pflag.Flag) {
		key := flagKey(f.Name)
		cobra.CheckErr(v.BindPFlag(key, f))
	})
	return serve
}

// Serve runs the API until ctx is cancelled or SIGINT/SIGTERM arrives.
func Serve(ctx context.Context, config Config, out io.Writer) error {
	logger := logging.New(out, config.LogLevel, config.LogFormat)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, err := NewCompositionRoot(ctx, config, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := root.Close(); err != nil {
			logger.Error("Shutdown failed", "error", err)
		}
	}()

	if err := root.JobManager().StartAll(); err != nil {
		return err
	}
	defer root.JobManager().StopAll()

	if config.AutoStartSimulation {
		if _, err := root.Controller().StartSimulation(ctx, config.SimulationSpeed); err != nil {
			return err
		}
	}

	e := root.Router()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "port", config.HTTPPort)
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort))
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// flagKey maps a flag name to its config key: "http-port" -> "http_port".
func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func newGenerateCommand() *cobra.Command {
	var vehicles, orders, zones int
	var seed int64

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Print a random scenario file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := factories.New(seed, factories.DefaultBounds()).Scenario(vehicles, orders, zones)
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(s); err != nil {
				return fmt.Errorf("encode scenario: %w", err)
			}
			return enc.Close()
		},
	}

	generate.Flags().IntVar(&vehicles, "vehicles", 5, "number of vehicles")
	generate.Flags().IntVar(&orders, "orders", 20, "number of orders")
	generate.Flags().IntVar(&zones, "zones", 2, "number of exclusion zones")
	generate.Flags().Int64Var(&seed, "seed", 0, "random seed; 0 is unseeded")
	return generate
}
