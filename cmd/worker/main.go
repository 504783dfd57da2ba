package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/streadway/amqp"

	"github.com/unclebandit/customer-service/internal/config"
	"github.com/unclebandit/customer-service/internal/logging"
	"github.com/unclebandit/customer-service/internal/model"
	"github.com/unclebandit/customer-service/internal/queue"
	"github.com/unclebandit/customer-service/internal/service"
)

type options struct {
	configPath string
	amqpURL    string
	queueName  string
}

func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "customer-worker",
		Short:         "Consume customer events from RabbitMQ",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("amqp-url") {
				cfg.AMQPURL = opts.amqpURL
			}
			if cmd.Flags().Changed("queue") {
				cfg.AMQPQueue = opts.queueName
			}
			if cfg.AMQPURL == "" {
				return errors.New("an amqp url is required (--amqp-url or AMQP_URL)")
			}

			level, err := logging.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			format, err := logging.ParseFormat(cfg.LogFormat)
			if err != nil {
				return err
			}
			logger := logging.New(logging.Config{Level: level, Format: format})

			return run(cmd.Context(), cfg, logger)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	f.StringVar(&opts.amqpURL, "amqp-url", "", "RabbitMQ URL")
	f.StringVar(&opts.queueName, "queue", config.DefaultAMQPQueue, "queue to consume")
	return cmd
}

// handleEvent is the worker's event sink.
func handleEvent(logger *slog.Logger) func(event model.CustomerEvent) error {
	return func(event model.CustomerEvent) error {
		if event.Type != model.EventCustomerCreated {
			logger.Warn("ignoring unknown event type", "event_id", event.ID, "type", event.Type)
			return nil
		}
		logger.Info("customer created",
			"event_id", event.ID,
			"customer", event.Customer.String(),
			"occurred_at", event.OccurredAt,
		)
		return nil
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open a channel: %w", err)
	}
	defer ch.Close()

	q, err := queue.DeclareQueue(ch, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	worker := service.NewWorker(msgs, handleEvent(logger), logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Start()
	}()

	logger.Info("Worker running, waiting for messages...", "queue", q.Name)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down worker")
		// closing the channel ends the delivery stream
		if err := ch.Close(); err != nil {
			logger.Warn("failed to close channel", "error", err)
		}
		<-done
	case <-done:
		logger.Warn("delivery stream closed by broker")
	}
	return nil
}

func main() {
	if err := newRootCommand(&options{}).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
