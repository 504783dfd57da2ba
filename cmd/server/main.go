// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/unclebandit/customer-service/internal/config"
	"github.com/unclebandit/customer-service/internal/controller"
	"github.com/unclebandit/customer-service/internal/handler"
	"github.com/unclebandit/customer-service/internal/logging"
	"github.com/unclebandit/customer-service/internal/queue"
	"github.com/unclebandit/customer-service/internal/repository"
	"github.com/unclebandit/customer-service/internal/server"
	"github.com/unclebandit/customer-service/internal/service"
)

type options struct {
	configPath  string
	port        int
	gracePeriod time.Duration
	logLevel    string
	logFormat   string
	amqpURL     string
}

func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "customer-server",
		Short:         "Serve the in-memory customer API over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	f.IntVarP(&opts.port, "port", "p", config.DefaultPort, "port to listen on")
	f.DurationVar(&opts.gracePeriod, "grace-period", config.DefaultGracePeriod, "shutdown drain window, clamped to 1s-5s")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")
	f.StringVar(&opts.amqpURL, "amqp-url", "", "RabbitMQ URL for customer events (in-process when empty)")

	return cmd
}

// resolveConfig layers explicitly set flags over the loaded configuration.
func resolveConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}

	f := cmd.Flags()
	if f.Changed("port") {
		cfg.Port = opts.port
	}
	if f.Changed("grace-period") {
		cfg.GracePeriod = opts.gracePeriod
	}
	if f.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if f.Changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}
	if f.Changed("amqp-url") {
		cfg.AMQPURL = opts.amqpURL
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{Level: level, Format: format}), nil
}

// newEventQueue returns the queue customer events are published on and a
// function releasing it.
func newEventQueue(cfg config.Config, logger *slog.Logger) (queue.Queue, func() error, error) {
	if cfg.AMQPURL == "" {
		q := queue.NewInMemoryQueue(logger)
		if err := queue.StartCustomerEventSubscriber(q, logger); err != nil {
			return nil, nil, err
		}
		return q, func() error { q.Wait(); return nil }, nil
	}

	q, err := queue.DialAMQP(cfg.AMQPURL, cfg.AMQPQueue)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("publishing customer events to RabbitMQ", "queue", cfg.AMQPQueue)
	return q, q.Close, nil
}

// newApp wires repository, service, controller and router into a server.
func newApp(cfg config.Config, q queue.Queue, logger *slog.Logger) *server.Server {
	customerRepo := repository.NewSeededCustomerRepository()

	customerService := &service.CustomerService{
		CustomerRepo: customerRepo,
		Queue:        q,
		Logger:       logger,
	}

	customerController := &controller.CustomerController{
		CustomerService: customerService,
	}

	return server.New(server.Options{
		Port:        cfg.Port,
		GracePeriod: cfg.GracePeriod,
		Handler:     handler.NewRouter(customerController, logger),
		Logger:      logger,
	})
}

func run(ctx context.Context, cfg config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	q, closeQueue, err := newEventQueue(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeQueue(); err != nil {
			logger.Error("failed to close event queue", "error", err)
		}
	}()

	srv := newApp(cfg, q, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

func main() {
	if err := newRootCommand(&options{}).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
