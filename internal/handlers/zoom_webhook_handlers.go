// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

// Package handlers contains the NATS message handlers and HTTP handlers for
// the attendance service.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/roomscout/attendance-service/internal/domain"
	"github.com/roomscout/attendance-service/internal/domain/models"
	"github.com/roomscout/attendance-service/internal/logging"
	"github.com/roomscout/attendance-service/internal/service"
)

// ZoomWebhookHandler consumes validated Zoom webhook events from NATS and
// routes them into the attendance engine.
type ZoomWebhookHandler struct {
	webhookEventService *service.WebhookEventService
}

// NewZoomWebhookHandler creates a new ZoomWebhookHandler
func NewZoomWebhookHandler(webhookEventService *service.WebhookEventService) *ZoomWebhookHandler {
	return &ZoomWebhookHandler{
		webhookEventService: webhookEventService,
	}
}

// HandlerReady implements [domain.MessageHandler] interface
func (s *ZoomWebhookHandler) HandlerReady() bool {
	return s.webhookEventService.ServiceReady()
}

// HandleMessage implements [domain.MessageHandler] interface
func (s *ZoomWebhookHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	handlers := map[string]func(ctx context.Context, msg domain.Message) ([]byte, error){
		models.WebhookParticipantJoinedSubject:  s.HandleParticipantJoined,
		models.WebhookParticipantLeftSubject:    s.HandleParticipantLeft,
		models.WebhookBreakoutRoomJoinedSubject: s.HandleBreakoutRoomJoined,
		models.WebhookBreakoutRoomLeftSubject:   s.HandleBreakoutRoomLeft,
		models.WebhookVideoOnSubject:            s.HandleVideoEvent,
		models.WebhookVideoOffSubject:           s.HandleVideoEvent,
		models.WebhookMeetingEndedSubject:       s.HandleMeetingEnded,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		s.respond(ctx, msg, nil)
		return
	}

	response, err := handler(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error handling message",
			logging.ErrKey, err,
		)
		s.respond(ctx, msg, nil)
		return
	}

	s.respond(ctx, msg, response)
}

func (s *ZoomWebhookHandler) respond(ctx context.Context, msg domain.Message, response []byte) {
	if !msg.HasReply() {
		slog.DebugContext(ctx, "handled NATS message (no reply expected)")
		return
	}
	if err := msg.Respond(response); err != nil {
		slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
	}
}

// parseZoomWebhookEvent is a helper to parse webhook event messages
func (s *ZoomWebhookHandler) parseZoomWebhookEvent(ctx context.Context, msg domain.Message) (*models.ZoomWebhookEventMessage, error) {
	var webhookEvent models.ZoomWebhookEventMessage
	if err := json.Unmarshal(msg.Data(), &webhookEvent); err != nil {
		slog.ErrorContext(ctx, "failed to unmarshal Zoom webhook event", logging.ErrKey, err)
		return nil, err
	}
	return &webhookEvent, nil
}

// HandleParticipantJoined handles meeting.participant_joined webhook events
func (s *ZoomWebhookHandler) HandleParticipantJoined(ctx context.Context, msg domain.Message) ([]byte, error) {
	webhookEvent, err := s.parseZoomWebhookEvent(ctx, msg)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_type", webhookEvent.EventType))
	if err := s.webhookEventService.HandleParticipantJoined(ctx, *webhookEvent); err != nil {
		slog.ErrorContext(ctx, "failed to handle participant joined event", logging.ErrKey, err)
		return nil, err
	}

	slog.InfoContext(ctx, "successfully processed participant joined event")
	return nil, nil
}

// HandleParticipantLeft handles meeting.participant_left webhook events
func (s *ZoomWebhookHandler) HandleParticipantLeft(ctx context.Context, msg domain.Message) ([]byte, error) {
	webhookEvent, err := s.parseZoomWebhookEvent(ctx, msg)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_type", webhookEvent.EventType))
	if err := s.webhookEventService.HandleParticipantLeft(ctx, *webhookEvent); err != nil {
		slog.ErrorContext(ctx, "failed to handle participant left event", logging.ErrKey, err)
		return nil, err
	}

	slog.InfoContext(ctx, "successfully processed participant left event")
	return nil, nil
}

// HandleBreakoutRoomJoined handles meeting.participant_joined_breakout_room webhook events
func (s *ZoomWebhookHandler) HandleBreakoutRoomJoined(ctx context.Context, msg domain.Message) ([]byte, error) {
	webhookEvent, err := s.parseZoomWebhookEvent(ctx, msg)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_type", webhookEvent.EventType))
	if err := s.webhookEventService.HandleBreakoutRoomJoined(ctx, *webhookEvent); err != nil {
		slog.ErrorContext(ctx, "failed to handle breakout room joined event", logging.ErrKey, err)
		return nil, err
	}

	slog.InfoContext(ctx, "successfully processed breakout room joined event")
	return nil, nil
}

// HandleBreakoutRoomLeft handles meeting.participant_left_breakout_room webhook events
func (s *ZoomWebhookHandler) HandleBreakoutRoomLeft(ctx context.Context, msg domain.Message) ([]byte, error) {
	webhookEvent, err := s.parseZoomWebhookEvent(ctx, msg)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_type", webhookEvent.EventType))
	if err := s.webhookEventService.HandleBreakoutRoomLeft(ctx, *webhookEvent); err != nil {
		slog.ErrorContext(ctx, "failed to handle breakout room left event", logging.ErrKey, err)
		return nil, err
	}

	slog.InfoContext(ctx, "successfully processed breakout room left event")
	return nil, nil
}

// HandleVideoEvent handles participant video on/off webhook events. The
// on/off direction comes from the event type, since both directions have two
// Zoom spellings (video_on/video_started, video_off/video_stopped).
func (s *ZoomWebhookHandler) HandleVideoEvent(ctx context.Context, msg domain.Message) ([]byte, error) {
	webhookEvent, err := s.parseZoomWebhookEvent(ctx, msg)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_type", webhookEvent.EventType))
	eventType, ok := models.ClassifyZoomEvent(webhookEvent.EventType)
	if !ok {
		slog.WarnContext(ctx, "unrecognized camera event type, ignoring")
		return nil, nil
	}

	cameraOn := eventType == models.EventCameraOn
	if err := s.webhookEventService.HandleCameraEvent(ctx, *webhookEvent, cameraOn); err != nil {
		slog.ErrorContext(ctx, "failed to handle camera event", logging.ErrKey, err)
		return nil, err
	}

	slog.InfoContext(ctx, "successfully processed camera event", "camera_on", cameraOn)
	return nil, nil
}

// HandleMeetingEnded handles meeting.ended webhook events
func (s *ZoomWebhookHandler) HandleMeetingEnded(ctx context.Context, msg domain.Message) ([]byte, error) {
	webhookEvent, err := s.parseZoomWebhookEvent(ctx, msg)
	if err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_type", webhookEvent.EventType))
	if err := s.webhookEventService.HandleMeetingEnded(ctx, *webhookEvent); err != nil {
		slog.ErrorContext(ctx, "failed to handle meeting ended event", logging.ErrKey, err)
		return nil, err
	}

	slog.InfoContext(ctx, "successfully processed meeting ended event")
	return nil, nil
}
