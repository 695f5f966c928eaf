package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.temporal.io/sdk/client"
	sdklog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"order-fulfillment/activities"
	"order-fulfillment/config"
	"order-fulfillment/metrics"
	"order-fulfillment/simulation"
	"order-fulfillment/workflows"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := cfg.Logging.NewLogger()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	logger.Info("worker starting",
		"taskQueue", cfg.Temporal.TaskQueue, "hostPort", cfg.Temporal.HostPort)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    sdklog.NewStructuredLogger(logger),
	})
	if err != nil {
		return fmt.Errorf("creating Temporal client: %w", err)
	}
	defer c.Close()

	stepMetrics := metrics.New(prometheus.DefaultRegisterer)
	if cfg.Metrics.ListenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.ListenAddr, mux); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
		logger.Info("serving metrics", "addr", cfg.Metrics.ListenAddr)
	}

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	source := simulation.NewLockedRand(seed)

	orderActivities := &activities.OrderActivities{
		Inventory: &simulation.InventorySimulator{Config: cfg.Simulation.Inventory, Rand: source},
		Payments:  &simulation.PaymentSimulator{Config: cfg.Simulation.Payment, Rand: source},
		Notifier:  &simulation.NotificationSimulator{Config: cfg.Simulation.Notification, Rand: source},
		Metrics:   stepMetrics,
	}

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{
		Identity: "order-fulfillment-worker-" + hostname(),
	})

	w.RegisterWorkflow(workflows.OrderWorkflow)
	w.RegisterActivity(orderActivities.ReserveInventory)
	w.RegisterActivity(orderActivities.ProcessPayment)
	w.RegisterActivity(orderActivities.SendNotification)

	return w.Run(worker.InterruptCh())
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
