// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/akamensky/base58"

	"github.com/roomscout/attendance-service/internal/domain/models"
)

// ExtractedParticipant is a participant identity recovered from a webhook
// payload. Extraction never fails: when every identifier field is absent the
// identifier is synthesized so downstream tracking still has a stable key.
type ExtractedParticipant struct {
	ID          string
	Name        string
	Email       string
	Synthesized bool
}

const unknownParticipantName = "Unknown"

// participantBlock digs the participant object out of a webhook payload.
// Some event shapes carry the participant at the payload root.
func participantBlock(payload map[string]any) map[string]any {
	if object, ok := payload["object"].(map[string]any); ok {
		if participant, ok := object["participant"].(map[string]any); ok && len(participant) > 0 {
			return participant
		}
	}
	if participant, ok := payload["participant"].(map[string]any); ok {
		return participant
	}
	return nil
}

func stringField(m map[string]any, keys ...string) string {
	if m == nil {
		return ""
	}
	for _, key := range keys {
		if v, ok := m[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// ExtractParticipant recovers the participant identity from a webhook
// payload. Identifier fields are tried in order of how reliably Zoom
// populates them; the name falls back to "Unknown" and a missing identifier
// is synthesized from the name and email so repeated events for the same
// person still correlate.
func ExtractParticipant(payload map[string]any) ExtractedParticipant {
	participant := participantBlock(payload)
	object, _ := payload["object"].(map[string]any)

	name := stringField(participant, "user_name", "name", "participant_name", "display_name")
	if name == "" {
		name = unknownParticipantName
	}
	email := stringField(participant, "email", "user_email", "participant_email")

	id := stringField(participant, "user_id", "id", "participant_user_id", "participant_id")
	if id == "" {
		id = stringField(object, "participant_user_id")
	}

	synthesized := false
	if id == "" {
		id = synthesizeParticipantID(name, email)
		synthesized = true
	}

	return ExtractedParticipant{
		ID:          id,
		Name:        name,
		Email:       email,
		Synthesized: synthesized,
	}
}

// synthesizeParticipantID derives a compact deterministic identifier from the
// participant's name and email.
func synthesizeParticipantID(name, email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(name) + "|" + strings.ToLower(email)))
	return "syn-" + base58.Encode(sum[:8])
}

// ExtractRoomIdentifier recovers the breakout room identifier from a webhook
// payload, trying the participant block before the meeting object. Empty when
// the event carries no room.
func ExtractRoomIdentifier(payload map[string]any) string {
	if id := stringField(participantBlock(payload), "breakout_room_uuid", "breakout_room_id"); id != "" {
		return id
	}
	if object, ok := payload["object"].(map[string]any); ok {
		return stringField(object, "breakout_room_uuid", "room_uuid")
	}
	return ""
}

// ExtractMeetingInfo recovers the meeting id, uuid and topic from a webhook
// payload.
func ExtractMeetingInfo(payload map[string]any) (meetingID, meetingUUID, topic string) {
	object, _ := payload["object"].(map[string]any)

	if object != nil {
		switch id := object["id"].(type) {
		case string:
			meetingID = id
		case float64:
			meetingID = fmt.Sprintf("%.0f", id)
		}
	}
	if meetingID == "" {
		meetingID = stringField(object, "meeting_id")
	}
	if meetingID == "" {
		meetingID = stringField(payload, "meeting_id")
	}

	meetingUUID = stringField(object, "uuid", "meeting_uuid")
	if meetingUUID == "" {
		meetingUUID = stringField(payload, "meeting_uuid")
	}

	topic = stringField(object, "topic")
	return meetingID, meetingUUID, topic
}

// EventTime converts the webhook event timestamp to a time.Time. Zoom sends
// event_ts in milliseconds but some client emitters use seconds; values small
// enough to be seconds are treated as such. A zero timestamp yields now.
func EventTime(msg models.ZoomWebhookEventMessage) time.Time {
	ts := msg.EventTS
	if ts <= 0 {
		return time.Now().UTC()
	}
	if ts < 1_000_000_000_000 {
		return time.Unix(ts, 0).UTC()
	}
	return time.UnixMilli(ts).UTC()
}
