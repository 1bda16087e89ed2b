// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roomscout/attendance-service/internal/domain/models"
)

func TestExtractParticipant(t *testing.T) {
	tests := []struct {
		name     string
		payload  map[string]any
		expected ExtractedParticipant
	}{
		{
			name: "nested participant with all fields",
			payload: map[string]any{
				"object": map[string]any{
					"participant": map[string]any{
						"user_id":   "u-123",
						"user_name": "Alice Johnson",
						"email":     "alice@example.com",
					},
				},
			},
			expected: ExtractedParticipant{ID: "u-123", Name: "Alice Johnson", Email: "alice@example.com"},
		},
		{
			name: "participant at payload root",
			payload: map[string]any{
				"participant": map[string]any{
					"id":   "p-9",
					"name": "Bob",
				},
			},
			expected: ExtractedParticipant{ID: "p-9", Name: "Bob"},
		},
		{
			name: "identifier fallback to object participant_user_id",
			payload: map[string]any{
				"object": map[string]any{
					"participant":         map[string]any{"user_name": "Carol"},
					"participant_user_id": "pu-7",
				},
			},
			expected: ExtractedParticipant{ID: "pu-7", Name: "Carol"},
		},
		{
			name: "alternate email key",
			payload: map[string]any{
				"participant": map[string]any{
					"user_id":    "u-5",
					"user_name":  "Dora",
					"user_email": "dora@example.com",
				},
			},
			expected: ExtractedParticipant{ID: "u-5", Name: "Dora", Email: "dora@example.com"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractParticipant(tc.payload))
		})
	}
}

func TestExtractParticipantSynthesizesMissingID(t *testing.T) {
	payload := map[string]any{
		"participant": map[string]any{
			"user_name": "Eve Example",
			"email":     "eve@example.com",
		},
	}

	first := ExtractParticipant(payload)
	second := ExtractParticipant(payload)

	assert.True(t, first.Synthesized)
	assert.NotEmpty(t, first.ID)
	assert.Contains(t, first.ID, "syn-")
	// Deterministic: repeated events for the same person correlate.
	assert.Equal(t, first.ID, second.ID)

	// Different identity yields a different synthesized id.
	other := ExtractParticipant(map[string]any{
		"participant": map[string]any{"user_name": "Someone Else"},
	})
	assert.NotEqual(t, first.ID, other.ID)
}

func TestExtractParticipantEmptyPayload(t *testing.T) {
	p := ExtractParticipant(map[string]any{})
	assert.Equal(t, unknownParticipantName, p.Name)
	assert.True(t, p.Synthesized)
	assert.NotEmpty(t, p.ID)
}

func TestExtractRoomIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		payload  map[string]any
		expected string
	}{
		{
			name: "participant breakout_room_uuid",
			payload: map[string]any{
				"object": map[string]any{
					"participant": map[string]any{"breakout_room_uuid": "{abc-123}"},
				},
			},
			expected: "{abc-123}",
		},
		{
			name: "object breakout_room_uuid",
			payload: map[string]any{
				"object": map[string]any{"breakout_room_uuid": "def-456"},
			},
			expected: "def-456",
		},
		{
			name: "object room_uuid",
			payload: map[string]any{
				"object": map[string]any{"room_uuid": "ghi-789"},
			},
			expected: "ghi-789",
		},
		{
			name:     "no room",
			payload:  map[string]any{"object": map[string]any{}},
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractRoomIdentifier(tc.payload))
		})
	}
}

func TestExtractMeetingInfo(t *testing.T) {
	meetingID, meetingUUID, topic := ExtractMeetingInfo(map[string]any{
		"object": map[string]any{
			"id":    "987654321",
			"uuid":  "uuid-abc==",
			"topic": "Weekly Sync",
		},
	})
	assert.Equal(t, "987654321", meetingID)
	assert.Equal(t, "uuid-abc==", meetingUUID)
	assert.Equal(t, "Weekly Sync", topic)

	// Numeric meeting ids arrive as JSON numbers.
	meetingID, _, _ = ExtractMeetingInfo(map[string]any{
		"object": map[string]any{"id": float64(123456789)},
	})
	assert.Equal(t, "123456789", meetingID)

	// Root-level fallbacks.
	meetingID, meetingUUID, _ = ExtractMeetingInfo(map[string]any{
		"meeting_id":   "111",
		"meeting_uuid": "uuid-root",
	})
	assert.Equal(t, "111", meetingID)
	assert.Equal(t, "uuid-root", meetingUUID)
}

func TestEventTime(t *testing.T) {
	// Milliseconds.
	at := EventTime(models.ZoomWebhookEventMessage{EventTS: 1757700000000})
	assert.Equal(t, time.UnixMilli(1757700000000).UTC(), at)

	// Seconds from client emitters.
	at = EventTime(models.ZoomWebhookEventMessage{EventTS: 1757700000})
	assert.Equal(t, time.Unix(1757700000, 0).UTC(), at)

	// Zero timestamp falls back to now.
	before := time.Now().UTC()
	at = EventTime(models.ZoomWebhookEventMessage{})
	assert.False(t, at.Before(before.Add(-time.Second)))
}
