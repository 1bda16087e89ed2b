// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomscout/attendance-service/internal/domain/models"
)

type fakeNatsConn struct {
	connected   bool
	publishErr  error
	lastSubject string
	lastData    []byte
}

func (f *fakeNatsConn) IsConnected() bool {
	return f.connected
}

func (f *fakeNatsConn) Publish(subj string, data []byte) error {
	f.lastSubject = subj
	f.lastData = data
	return f.publishErr
}

func TestPublishZoomWebhookEvent(t *testing.T) {
	conn := &fakeNatsConn{connected: true}
	builder := NewMessageBuilder(conn)

	message := models.ZoomWebhookEventMessage{
		EventType: models.ZoomEventParticipantJoined,
		EventTS:   1757000000000,
		Payload: map[string]any{
			"object": map[string]any{"id": "123456"},
		},
	}

	err := builder.PublishZoomWebhookEvent(context.Background(), models.WebhookParticipantJoinedSubject, message)
	require.NoError(t, err)
	assert.Equal(t, models.WebhookParticipantJoinedSubject, conn.lastSubject)

	var decoded models.ZoomWebhookEventMessage
	require.NoError(t, json.Unmarshal(conn.lastData, &decoded))
	assert.Equal(t, message.EventType, decoded.EventType)
	assert.Equal(t, message.EventTS, decoded.EventTS)
}

func TestPublishZoomWebhookEventPublishError(t *testing.T) {
	conn := &fakeNatsConn{connected: true, publishErr: errors.New("nats unavailable")}
	builder := NewMessageBuilder(conn)

	err := builder.PublishZoomWebhookEvent(context.Background(), models.WebhookMeetingEndedSubject, models.ZoomWebhookEventMessage{
		EventType: models.ZoomEventMeetingEnded,
	})
	assert.Error(t, err)
}
