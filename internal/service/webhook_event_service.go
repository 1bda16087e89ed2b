// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roomscout/attendance-service/internal/domain"
	"github.com/roomscout/attendance-service/internal/domain/models"
	"github.com/roomscout/attendance-service/pkg/utils"
)

const mainRoomName = "Main Room"

// maxCameraDurationSeconds caps a plausible single camera-on interval.
const maxCameraDurationSeconds = 86400

// WebhookEventService turns validated webhook events into meeting state
// transitions and warehouse rows. Calibration-actor events feed the
// calibration correlator and are never persisted as attendance.
type WebhookEventService struct {
	state       *MeetingStateService
	calibration *CalibrationService
	matcher     ActorMatcher
	events      domain.ParticipantEventRepository
	cameras     domain.CameraEventRepository
	collector   TrailingCollector
}

// NewWebhookEventService creates a new WebhookEventService
func NewWebhookEventService(
	state *MeetingStateService,
	calibration *CalibrationService,
	matcher ActorMatcher,
	events domain.ParticipantEventRepository,
	cameras domain.CameraEventRepository,
) *WebhookEventService {
	return &WebhookEventService{
		state:       state,
		calibration: calibration,
		matcher:     matcher,
		events:      events,
		cameras:     cameras,
	}
}

// SetTrailingCollector wires the collector triggered on meeting.ended.
func (s *WebhookEventService) SetTrailingCollector(collector TrailingCollector) {
	s.collector = collector
}

// ServiceReady checks if the service is ready to process requests
func (s *WebhookEventService) ServiceReady() bool {
	return s.state != nil && s.calibration != nil && s.matcher != nil && s.events != nil && s.cameras != nil
}

// HandleParticipantJoined processes a main-meeting join.
func (s *WebhookEventService) HandleParticipantJoined(ctx context.Context, msg models.ZoomWebhookEventMessage) error {
	p := ExtractParticipant(msg.Payload)
	meetingID, meetingUUID, _ := ExtractMeetingInfo(msg.Payload)
	at := EventTime(msg)

	if s.matcher.IsScoutBot(p) {
		slog.DebugContext(ctx, "Scout bot joined, skipping event storage", "participant", p.Name)
		return nil
	}
	if meetingID == "" {
		return domain.NewValidationError("participant joined event missing meeting id")
	}

	s.state.SetMeeting(ctx, meetingID, meetingUUID)
	s.state.Update(func(mc *models.MeetingContext) {
		session := mc.Session(p.ID)
		session.Name = p.Name
		session.Email = p.Email
		session.JoinedAt = utils.TimePtr(at)
		session.CurrentRoom = mainRoomName
	})

	return s.insertParticipantEvent(ctx, &models.ParticipantEvent{
		ID:              uuid.New().String(),
		MeetingID:       meetingID,
		MeetingUUID:     meetingUUID,
		EventType:       models.EventParticipantJoined,
		EventTime:       at,
		ParticipantID:   p.ID,
		ParticipantName: p.Name,
		Email:           p.Email,
		RoomName:        mainRoomName,
	})
}

// HandleParticipantLeft processes a main-meeting leave.
func (s *WebhookEventService) HandleParticipantLeft(ctx context.Context, msg models.ZoomWebhookEventMessage) error {
	p := ExtractParticipant(msg.Payload)
	meetingID, meetingUUID, _ := ExtractMeetingInfo(msg.Payload)
	at := EventTime(msg)

	if s.matcher.IsScoutBot(p) {
		slog.DebugContext(ctx, "Scout bot left, skipping event storage", "participant", p.Name)
		return nil
	}
	if meetingID == "" {
		return domain.NewValidationError("participant left event missing meeting id")
	}

	s.state.SetMeeting(ctx, meetingID, meetingUUID)
	s.state.Update(func(mc *models.MeetingContext) {
		session := mc.Session(p.ID)
		session.JoinedAt = nil
		session.CurrentRoom = ""
	})

	return s.insertParticipantEvent(ctx, &models.ParticipantEvent{
		ID:              uuid.New().String(),
		MeetingID:       meetingID,
		MeetingUUID:     meetingUUID,
		EventType:       models.EventParticipantLeft,
		EventTime:       at,
		ParticipantID:   p.ID,
		ParticipantName: p.Name,
		Email:           p.Email,
	})
}

// HandleBreakoutRoomJoined processes a breakout-room join. Calibration-actor
// joins feed the correlator instead of being stored as attendance.
func (s *WebhookEventService) HandleBreakoutRoomJoined(ctx context.Context, msg models.ZoomWebhookEventMessage) error {
	p := ExtractParticipant(msg.Payload)
	meetingID, meetingUUID, _ := ExtractMeetingInfo(msg.Payload)
	roomIdentifier := ExtractRoomIdentifier(msg.Payload)
	at := EventTime(msg)

	if meetingID == "" {
		return domain.NewValidationError("breakout room joined event missing meeting id")
	}

	s.state.SetMeeting(ctx, meetingID, meetingUUID)

	if s.matcher.IsCalibrationActor(p) {
		s.calibration.HandleActorRoomJoin(ctx, roomIdentifier, meetingID, meetingUUID)
		return nil
	}

	roomName, mapped := s.state.ResolveRoomName(roomIdentifier)
	if !mapped && roomIdentifier != "" {
		slog.DebugContext(ctx, "Breakout room has no calibrated mapping, using fallback name",
			"room_identifier", roomIdentifier, "room_name", roomName)
	}

	s.state.Update(func(mc *models.MeetingContext) {
		session := mc.Session(p.ID)
		session.Name = p.Name
		session.Email = p.Email
		session.CurrentRoom = roomName
	})

	return s.insertParticipantEvent(ctx, &models.ParticipantEvent{
		ID:              uuid.New().String(),
		MeetingID:       meetingID,
		MeetingUUID:     meetingUUID,
		EventType:       models.EventBreakoutJoined,
		EventTime:       at,
		ParticipantID:   p.ID,
		ParticipantName: p.Name,
		Email:           p.Email,
		RoomIdentifier:  roomIdentifier,
		RoomName:        roomName,
	})
}

// HandleBreakoutRoomLeft processes a breakout-room leave.
func (s *WebhookEventService) HandleBreakoutRoomLeft(ctx context.Context, msg models.ZoomWebhookEventMessage) error {
	p := ExtractParticipant(msg.Payload)
	meetingID, meetingUUID, _ := ExtractMeetingInfo(msg.Payload)
	roomIdentifier := ExtractRoomIdentifier(msg.Payload)
	at := EventTime(msg)

	if s.matcher.IsCalibrationActor(p) {
		slog.DebugContext(ctx, "Calibration actor left breakout room, skipping", "participant", p.Name)
		return nil
	}
	if meetingID == "" {
		return domain.NewValidationError("breakout room left event missing meeting id")
	}

	s.state.SetMeeting(ctx, meetingID, meetingUUID)
	roomName, _ := s.state.ResolveRoomName(roomIdentifier)

	return s.insertParticipantEvent(ctx, &models.ParticipantEvent{
		ID:              uuid.New().String(),
		MeetingID:       meetingID,
		MeetingUUID:     meetingUUID,
		EventType:       models.EventBreakoutLeft,
		EventTime:       at,
		ParticipantID:   p.ID,
		ParticipantName: p.Name,
		Email:           p.Email,
		RoomIdentifier:  roomIdentifier,
		RoomName:        roomName,
	})
}

// HandleCameraEvent processes a camera on/off transition.
func (s *WebhookEventService) HandleCameraEvent(ctx context.Context, msg models.ZoomWebhookEventMessage, cameraOn bool) error {
	p := ExtractParticipant(msg.Payload)
	meetingID, meetingUUID, _ := ExtractMeetingInfo(msg.Payload)
	at := EventTime(msg)

	if s.matcher.IsScoutBot(p) {
		slog.DebugContext(ctx, "Scout bot camera event, skipping", "participant", p.Name)
		return nil
	}
	if meetingID == "" {
		return domain.NewValidationError("camera event missing meeting id")
	}

	s.state.SetMeeting(ctx, meetingID, meetingUUID)
	currentRoom := mainRoomName
	var duration *int64
	s.state.Update(func(mc *models.MeetingContext) {
		if room := mc.Session(p.ID).CurrentRoom; room != "" {
			currentRoom = room
		}
		prevOnSince, _ := mc.UpdateCamera(p.ID, cameraOn, at)
		if !cameraOn {
			duration = cameraDurationSeconds(prevOnSince, at)
		}
	})

	eventType := models.EventCameraOn
	if !cameraOn {
		eventType = models.EventCameraOff
	}

	event := &models.CameraEvent{
		ID:              uuid.New().String(),
		MeetingID:       meetingID,
		MeetingUUID:     meetingUUID,
		EventType:       eventType,
		EventTime:       at,
		ParticipantID:   p.ID,
		ParticipantName: p.Name,
		Email:           p.Email,
		RoomName:        currentRoom,
		DurationSeconds: duration,
	}
	if err := s.cameras.Insert(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to insert camera event", "error", err,
			"event_type", eventType, "participant", p.Name)
		return domain.NewInternalError("failed to insert camera event", err)
	}
	return nil
}

// HandleMeetingEnded processes meeting.ended by scheduling trailing metrics
// collection for the finished meeting.
func (s *WebhookEventService) HandleMeetingEnded(ctx context.Context, msg models.ZoomWebhookEventMessage) error {
	meetingID, meetingUUID, _ := ExtractMeetingInfo(msg.Payload)
	if meetingUUID == "" && meetingID == "" {
		return domain.NewValidationError("meeting ended event missing identifiers")
	}

	slog.InfoContext(ctx, "Meeting ended", "meeting_id", meetingID, "meeting_uuid", meetingUUID)

	if s.collector != nil {
		s.collector.CollectPreviousMeeting(ctx, meetingUUID, meetingID)
	}
	return nil
}

// cameraDurationSeconds derives the camera-on duration ending at a camera-off
// event. Negative clock skew clamps to zero; intervals beyond 24 hours are
// discarded as implausible.
func cameraDurationSeconds(onSince *time.Time, at time.Time) *int64 {
	if onSince == nil {
		return nil
	}
	seconds := int64(at.Sub(*onSince) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	if seconds > maxCameraDurationSeconds {
		return nil
	}
	return &seconds
}

// insertParticipantEvent writes one attendance row, logging the rejected row
// on failure.
func (s *WebhookEventService) insertParticipantEvent(ctx context.Context, event *models.ParticipantEvent) error {
	if err := s.events.Insert(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to insert participant event", "error", err,
			"event_type", event.EventType, "participant", event.ParticipantName, "room_name", event.RoomName)
		return domain.NewInternalError("failed to insert participant event", err)
	}
	return nil
}
