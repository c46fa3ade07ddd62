// Воркер рассылки: читает уведомления из RabbitMQ и отправляет письма
// пользователям столовой по SMTP.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/cafeteria-backend/internal/config"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/smtp"
	"github.com/magabrotheeeer/cafeteria-backend/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/cafeteria-backend/internal/services/sender"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("starting notification-sender", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := rabbitmq.Connect(cfg.RabbitConnection, cfg.RabbitRetries, cfg.RabbitRetryDelay)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		_ = conn.Close()
	}()

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues)
	if err != nil {
		logger.Error("failed to setup RabbitMQ channel", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		_ = ch.Close()
	}()

	transport := smtp.NewTransport(cfg, logger)
	sender := senderservice.NewSenderService(logger, transport)

	for _, q := range rabbitmq.NotificationQueues {
		if err := rabbitmq.ConsumeMessages(ctx, logger, ch, q.QueueName, sender.SendNotificationEmail); err != nil {
			logger.Error("failed to start consumer",
				slog.String("queue", q.QueueName), sl.Err(err))
			os.Exit(1)
		}
		logger.Info("consumer started", slog.String("queue", q.QueueName))
	}

	<-ctx.Done()
	logger.Info("notification-sender shutting down gracefully")
}
