package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/FarisRizvanovic/Mock-BacNET-Device/sim"
	"github.com/FarisRizvanovic/Mock-BacNET-Device/sim/loader"
	"github.com/FarisRizvanovic/Mock-BacNET-Device/sim/telemetry"
)

var (
	seed        int64   // Seed for all simulation randomness
	logLevel    string  // Log verbosity level
	configFile  string  // Device configuration file (INI or YAML)
	pointsFile  string  // Point definition file (CSV or YAML)
	deviceID    int     // Device instance, used for client identity
	step        float64 // Simulation step override (seconds, 0 = from config)
	ticks       int     // Fast-forward this many ticks and exit (0 = run until signal)
	vavProfile  bool    // Enable the closed-loop VAV behavior profile
	broker      string  // MQTT broker for COV telemetry (empty disables)
	metricsAddr string  // Prometheus listen address (empty disables)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "virtual-device",
	Short: "Virtual BACnet VAV device simulator",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the device simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, cfgPoints, err := loadDeviceConfig(configFile)
		if err != nil {
			logrus.Fatalf("unable to read device config: %v", err)
		}
		if step > 0 {
			cfg.StepInterval = step
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}

		points := pointsFile
		if !cmd.Flags().Changed("points") && cfgPoints != "" {
			points = cfgPoints
		}

		records, err := loader.LoadFile(points)
		if err != nil {
			logrus.Fatalf("unable to load points from %s: %v", points, err)
		}
		registry := sim.NewRegistry()
		created, failed := loader.Populate(registry, records)
		logrus.Infof("registered %d points from %s (%d skipped)", created, points, len(failed))
		if created == 0 {
			logrus.Fatalf("no usable points in %s", points)
		}

		engine := sim.NewEngine(registry, cfg, sim.NewSimulationKey(seed))

		if metricsAddr != "" {
			engine.SetMetrics(sim.NewMetrics(prometheus.DefaultRegisterer))
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			go func() {
				if err := http.ListenAndServe(metricsAddr, mux); err != nil {
					logrus.Errorf("metrics server: %v", err)
				}
			}()
			logrus.Infof("metrics listening on %s", metricsAddr)
		}

		if vavProfile {
			engine.AttachProfile(sim.NewVAVProfile(registry, engine.SubsystemRNG(sim.SubsystemProfile)))
			logrus.Info("VAV closed-loop profile enabled")
		}

		if broker != "" {
			pub, err := telemetry.NewRealPublisher(broker, fmt.Sprintf("virtual-vav-%d", deviceID))
			if err != nil {
				logrus.Fatalf("mqtt connect: %v", err)
			}
			defer pub.Close()
			engine.SetObserver(telemetry.NewNotifier(registry, pub))
			logrus.Infof("publishing COV telemetry to %s", broker)
		}

		logrus.Infof("virtual device %d ready: step=%.3fs, priorityAware=%v",
			deviceID, cfg.StepInterval, cfg.PriorityAwareSimulation)

		if ticks > 0 {
			for i := 0; i < ticks; i++ {
				engine.Tick()
			}
			logrus.Infof("fast-forwarded %d ticks (%.1fs simulated)",
				ticks, float64(ticks)*cfg.StepInterval)
			return
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		engine.Run(ctx)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for simulation randomness")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "Device configuration file (INI or YAML)")
	runCmd.Flags().StringVarP(&pointsFile, "points", "p", "points.csv", "Point definition file (CSV or YAML)")
	runCmd.Flags().IntVarP(&deviceID, "device-id", "d", 2001, "Device instance number")
	runCmd.Flags().Float64VarP(&step, "step", "s", 0, "Simulation step in seconds (overrides config)")
	runCmd.Flags().IntVar(&ticks, "ticks", 0, "Fast-forward this many ticks and exit (0 = run until signal)")
	runCmd.Flags().BoolVar(&vavProfile, "vav-profile", false, "Enable the closed-loop VAV behavior profile")
	runCmd.Flags().StringVar(&broker, "broker", "", "MQTT broker URL for COV telemetry (empty disables)")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Prometheus listen address (empty disables)")

	rootCmd.AddCommand(runCmd)
}
