// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/roomscout/attendance-service/internal/domain"
	"github.com/roomscout/attendance-service/internal/domain/models"
	"github.com/roomscout/attendance-service/internal/infrastructure/messaging"
	"github.com/roomscout/attendance-service/internal/logging"
)

const (
	// natsQueueName is the queue group so only one instance handles each event.
	natsQueueName = "attendance-service"

	gracefulShutdownSeconds = 25
)

// setupNATS connects to NATS with reconnection handling. An unexpected
// connection close triggers a service shutdown via the done channel.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
		nats.DrainTimeout(gracefulShutdownSeconds*time.Second),
		nats.ClosedHandler(func(nc *nats.Conn) {
			gracefulCloseWG.Done()
			if ctx.Err() != nil {
				// Graceful shutdown already in progress.
				return
			}
			slog.With(logging.ErrKey, nc.LastError()).Error("NATS connection closed unexpectedly, shutting down")
			done <- syscall.SIGTERM
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, err
	}

	slog.With("nats_url", env.NatsURL).Debug("connected to NATS")
	return natsConn, nil
}

// createNatsSubscriptions subscribes the webhook event handler to every
// routed webhook subject.
func createNatsSubscriptions(ctx context.Context, handler domain.MessageHandler, natsConn *nats.Conn) error {
	if !handler.HandlerReady() {
		return errors.New("webhook event handler is not ready")
	}

	subjects := []string{
		models.WebhookParticipantJoinedSubject,
		models.WebhookParticipantLeftSubject,
		models.WebhookBreakoutRoomJoinedSubject,
		models.WebhookBreakoutRoomLeftSubject,
		models.WebhookVideoOnSubject,
		models.WebhookVideoOffSubject,
		models.WebhookMeetingEndedSubject,
	}

	for _, subject := range subjects {
		_, err := natsConn.QueueSubscribe(subject, natsQueueName, func(msg *nats.Msg) {
			handler.HandleMessage(ctx, messaging.NewNatsMessage(msg))
		})
		if err != nil {
			slog.With(logging.ErrKey, err, "subject", subject).Error("error subscribing to NATS subject")
			return err
		}
		slog.With("subject", subject, "queue", natsQueueName).Debug("subscribed to NATS subject")
	}

	return nil
}

// gracefulShutdown stops the HTTP listener, drains NATS so in-flight webhook
// events finish, and waits for both to close.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("shutting down attendance service")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("error shutting down http server")
	}
	gracefulCloseWG.Done()

	if natsConn != nil && !natsConn.IsClosed() {
		// Drain triggers the closed handler which releases the wait group.
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
		}
	}

	gracefulCloseWG.Wait()
}
