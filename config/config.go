// Package config loads the application configuration from a yaml file,
// applying defaults for anything left unset.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"order-fulfillment/simulation"
)

const (
	defaultHostPort  = "localhost:7233"
	defaultNamespace = "default"
	defaultTaskQueue = "order-fulfillment"

	defaultBranchTimeout    = 10 * time.Second
	defaultExecutionBudget  = 30 * time.Second
	defaultMaxAttempts      = 3
	defaultPreferredChannel = "email"

	defaultMetricsListenAddr = ":9090"

	defaultLogLevel  = "info"
	defaultLogFormat = "json"
)

// Config is the complete application configuration.
type Config struct {
	Temporal   TemporalConfig   `yaml:"temporal"`
	Workflow   WorkflowConfig   `yaml:"workflow"`
	Simulation SimulationConfig `yaml:"simulation"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// TemporalConfig holds the Temporal connection settings.
type TemporalConfig struct {
	HostPort  string `yaml:"host_port"`
	Namespace string `yaml:"namespace"`
	TaskQueue string `yaml:"task_queue"`
}

// WorkflowConfig holds the per-execution knobs passed into the workflow.
type WorkflowConfig struct {
	BranchTimeout    time.Duration `yaml:"branch_timeout"`
	ExecutionBudget  time.Duration `yaml:"execution_budget"`
	MaxAttempts      int32         `yaml:"max_attempts"`
	PreferredChannel string        `yaml:"preferred_channel"`
}

// SimulationConfig holds the rates and latency ranges of the simulated
// external systems. Seed fixes the random source; zero means seed from the
// clock.
type SimulationConfig struct {
	Seed         int64                         `yaml:"seed"`
	Inventory    simulation.InventoryConfig    `yaml:"inventory"`
	Payment      simulation.PaymentConfig      `yaml:"payment"`
	Notification simulation.NotificationConfig `yaml:"notification"`
}

// MetricsConfig holds the prometheus endpoint settings. An empty
// ListenAddr disables the endpoint.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// LoggingConfig holds the structured logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Load reads the configuration from path. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Temporal: TemporalConfig{
			HostPort:  defaultHostPort,
			Namespace: defaultNamespace,
			TaskQueue: defaultTaskQueue,
		},
		Workflow: WorkflowConfig{
			BranchTimeout:    defaultBranchTimeout,
			ExecutionBudget:  defaultExecutionBudget,
			MaxAttempts:      defaultMaxAttempts,
			PreferredChannel: defaultPreferredChannel,
		},
		Simulation: SimulationConfig{
			Inventory:    simulation.DefaultInventoryConfig(),
			Payment:      simulation.DefaultPaymentConfig(),
			Notification: simulation.DefaultNotificationConfig(),
		},
		Metrics: MetricsConfig{
			ListenAddr: defaultMetricsListenAddr,
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Temporal.HostPort == "" {
		return fmt.Errorf("temporal.host_port is required")
	}
	if c.Temporal.TaskQueue == "" {
		return fmt.Errorf("temporal.task_queue is required")
	}
	if c.Workflow.BranchTimeout <= 0 {
		return fmt.Errorf("workflow.branch_timeout must be positive")
	}
	if c.Workflow.ExecutionBudget <= 0 {
		return fmt.Errorf("workflow.execution_budget must be positive")
	}
	if c.Workflow.MaxAttempts <= 0 {
		return fmt.Errorf("workflow.max_attempts must be positive")
	}
	for name, rate := range map[string]float64{
		"simulation.inventory.out_of_stock_rate":      c.Simulation.Inventory.OutOfStockRate,
		"simulation.inventory.error_rate":             c.Simulation.Inventory.ErrorRate,
		"simulation.payment.gateway_timeout_rate":     c.Simulation.Payment.GatewayTimeoutRate,
		"simulation.payment.insufficient_funds_rate":  c.Simulation.Payment.InsufficientFundsRate,
		"simulation.payment.card_declined_rate":       c.Simulation.Payment.CardDeclinedRate,
		"simulation.notification.delivery_fault_rate": c.Simulation.Notification.DeliveryFaultRate,
		"simulation.notification.email_reliability":   c.Simulation.Notification.EmailReliability,
		"simulation.notification.sms_reliability":     c.Simulation.Notification.SMSReliability,
		"simulation.notification.push_reliability":    c.Simulation.Notification.PushReliability,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	return nil
}

// NewLogger builds an slog logger from the logging settings.
func (c LoggingConfig) NewLogger() (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler), nil
}

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", level)
	}
}
