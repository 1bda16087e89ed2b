// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

// Package main is the attendance service API that receives Zoom webhook
// events over HTTP, routes them through NATS, and tracks breakout room
// attendance for daily reporting.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/roomscout/attendance-service/internal/handlers"
	"github.com/roomscout/attendance-service/internal/infrastructure/messaging"
	"github.com/roomscout/attendance-service/internal/infrastructure/store"
	"github.com/roomscout/attendance-service/internal/infrastructure/zoom/webhook"
	"github.com/roomscout/attendance-service/internal/logging"
	"github.com/roomscout/attendance-service/internal/service"
	"github.com/roomscout/attendance-service/pkg/concurrent"
)

// version is set at build time via -ldflags.
var version = "dev"

const trailingTaskConcurrency = 2

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	location, err := time.LoadLocation(env.ReferenceTimezone)
	if err != nil {
		slog.With(logging.ErrKey, err, "timezone", env.ReferenceTimezone).Error("invalid reference timezone")
		os.Exit(1)
	}

	// Initialize email service (independent of NATS)
	emailService, err := setupEmailService(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up email service")
		return
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Open the attendance warehouse.
	warehouse, err := store.NewWarehouse(ctx, env.WarehousePath)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error opening attendance warehouse")
		return
	}
	defer func() {
		if err := warehouse.Close(); err != nil {
			slog.With(logging.ErrKey, err).Error("error closing attendance warehouse")
		}
	}()

	eventRepo := store.NewWarehouseParticipantEventRepository(warehouse)
	cameraRepo := store.NewWarehouseCameraEventRepository(warehouse)
	roomMappingRepo := store.NewWarehouseRoomMappingRepository(warehouse)
	qosRepo := store.NewWarehouseQoSRepository(warehouse)

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	// Initialize services
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	stateService := service.NewMeetingStateService(roomMappingRepo, location)
	calibrationService := service.NewCalibrationService(stateService, roomMappingRepo)
	actorMatcher := service.NewCalibrationActorMatcher(
		service.BotIdentity{Name: env.ScoutBotName, Email: env.ScoutBotEmail},
		stateService.CalibrationInfo,
	)
	webhookEventService := service.NewWebhookEventService(
		stateService,
		calibrationService,
		actorMatcher,
		eventRepo,
		cameraRepo,
	)
	qosService := service.NewQoSCollectionService(
		setupZoomPlatform(env),
		qosRepo,
		eventRepo,
		concurrent.NewTaskRunner(trailingTaskConcurrency),
	)
	stateService.SetTrailingCollector(qosService)
	webhookEventService.SetTrailingCollector(qosService)
	reportService := service.NewReportService(eventRepo, cameraRepo, emailService)
	zoomWebhookService := service.NewZoomWebhookService(
		messageBuilder,
		webhook.NewZoomWebhookValidator(env.ZoomWebhookSecretToken),
	)

	// Restore today's calibrated room mappings after a cold start.
	if restored, err := stateService.Rehydrate(ctx); err != nil {
		slog.With(logging.ErrKey, err).Error("error restoring room mappings from warehouse")
	} else if restored > 0 {
		slog.With("mappings", restored).Info("restored room mappings from warehouse")
	}

	// Initialize handlers
	httpHandler := handlers.NewHTTPHandler(
		zoomWebhookService,
		calibrationService,
		stateService,
		qosService,
		reportService,
		warehouse,
		version,
	)
	zoomWebhookHandler := handlers.NewZoomWebhookHandler(webhookEventService)

	httpServer := setupHTTPServer(flags, httpHandler, &gracefulCloseWG)

	// Create NATS subscriptions for the service.
	err = createNatsSubscriptions(ctx, zoomWebhookHandler, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
		return
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel)
}
