// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roomscout/attendance-service/internal/domain/mocks"
	"github.com/roomscout/attendance-service/internal/domain/models"
	"github.com/roomscout/attendance-service/internal/service"
)

func newWebhookHandlerFixture(t *testing.T) (*ZoomWebhookHandler, *mocks.MockParticipantEventRepository, *mocks.MockCameraEventRepository, *mocks.MockRoomMappingRepository) {
	t.Helper()

	mappings := &mocks.MockRoomMappingRepository{}
	events := &mocks.MockParticipantEventRepository{}
	cameras := &mocks.MockCameraEventRepository{}

	state := service.NewMeetingStateService(mappings, time.UTC)
	calibration := service.NewCalibrationService(state, mappings)
	matcher := service.NewCalibrationActorMatcher(
		service.BotIdentity{Name: "RoomScout Bot"},
		state.CalibrationInfo,
	)
	webhookEventService := service.NewWebhookEventService(state, calibration, matcher, events, cameras)

	return NewZoomWebhookHandler(webhookEventService), events, cameras, mappings
}

func natsEventMessage(t *testing.T, subject, eventType string, payload map[string]any) *mocks.MockMessage {
	t.Helper()
	data, err := json.Marshal(models.ZoomWebhookEventMessage{
		EventType: eventType,
		EventTS:   1757700000000,
		Payload:   payload,
	})
	require.NoError(t, err)

	msg := &mocks.MockMessage{}
	msg.On("Subject").Return(subject)
	msg.On("Data").Return(data)
	msg.On("HasReply").Return(false)
	return msg
}

func TestHandlerReady(t *testing.T) {
	handler, _, _, _ := newWebhookHandlerFixture(t)
	assert.True(t, handler.HandlerReady())
}

func TestHandleMessageParticipantJoined(t *testing.T) {
	handler, events, _, mappings := newWebhookHandlerFixture(t)
	mappings.On("DeleteForDate", mock.Anything, mock.Anything).Return(int64(0), nil)

	var stored *models.ParticipantEvent
	events.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*models.ParticipantEvent)
	}).Return(nil).Once()

	msg := natsEventMessage(t, models.WebhookParticipantJoinedSubject, models.ZoomEventParticipantJoined, map[string]any{
		"object": map[string]any{
			"id":   "111",
			"uuid": "uuid-1",
			"participant": map[string]any{
				"user_id":   "p-1",
				"user_name": "Alice",
			},
		},
	})
	handler.HandleMessage(t.Context(), msg)

	require.NotNil(t, stored)
	assert.Equal(t, models.EventParticipantJoined, stored.EventType)
	assert.Equal(t, "Alice", stored.ParticipantName)
	events.AssertExpectations(t)
}

func TestHandleMessageUnknownSubject(t *testing.T) {
	handler, events, _, _ := newWebhookHandlerFixture(t)

	msg := &mocks.MockMessage{}
	msg.On("Subject").Return("roomscout.webhook.meeting.unknown")
	msg.On("HasReply").Return(false)

	handler.HandleMessage(t.Context(), msg)
	events.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestHandleMessageMalformedData(t *testing.T) {
	handler, events, _, _ := newWebhookHandlerFixture(t)

	msg := &mocks.MockMessage{}
	msg.On("Subject").Return(models.WebhookMeetingEndedSubject)
	msg.On("Data").Return([]byte("{not json"))
	msg.On("HasReply").Return(false)

	handler.HandleMessage(t.Context(), msg)
	events.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestHandleMessageVideoEventDirection(t *testing.T) {
	handler, _, cameras, mappings := newWebhookHandlerFixture(t)
	mappings.On("DeleteForDate", mock.Anything, mock.Anything).Return(int64(0), nil)

	var stored []*models.CameraEvent
	cameras.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = append(stored, args.Get(1).(*models.CameraEvent))
	}).Return(nil)

	payload := map[string]any{
		"object": map[string]any{
			"id":   "111",
			"uuid": "uuid-1",
			"participant": map[string]any{
				"user_id":   "p-1",
				"user_name": "Alice",
			},
		},
	}

	// Both Zoom spellings of each direction arrive on the same subject; the
	// event type decides on vs off.
	on := natsEventMessage(t, models.WebhookVideoOnSubject, models.ZoomEventParticipantVideoStarted, payload)
	handler.HandleMessage(t.Context(), on)

	off := natsEventMessage(t, models.WebhookVideoOffSubject, models.ZoomEventParticipantVideoStopped, payload)
	handler.HandleMessage(t.Context(), off)

	require.Len(t, stored, 2)
	assert.Equal(t, models.EventCameraOn, stored[0].EventType)
	assert.Equal(t, models.EventCameraOff, stored[1].EventType)
}

func TestHandleMessageRespondsWhenReplyExpected(t *testing.T) {
	handler, _, _, _ := newWebhookHandlerFixture(t)

	data, err := json.Marshal(models.ZoomWebhookEventMessage{
		EventType: models.ZoomEventMeetingEnded,
		Payload:   map[string]any{"object": map[string]any{"id": "111", "uuid": "uuid-1"}},
	})
	require.NoError(t, err)

	msg := &mocks.MockMessage{}
	msg.On("Subject").Return(models.WebhookMeetingEndedSubject)
	msg.On("Data").Return(data)
	msg.On("HasReply").Return(true)
	msg.On("Respond", mock.Anything).Return(nil).Once()

	handler.HandleMessage(t.Context(), msg)
	msg.AssertExpectations(t)
}
