// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package models

// Zoom webhook event types the service consumes.
const (
	ZoomEventParticipantJoined       = "meeting.participant_joined"
	ZoomEventParticipantLeft         = "meeting.participant_left"
	ZoomEventBreakoutRoomJoined      = "meeting.participant_joined_breakout_room"
	ZoomEventBreakoutRoomLeft        = "meeting.participant_left_breakout_room"
	ZoomEventParticipantVideoOn      = "meeting.participant_video_on"
	ZoomEventParticipantVideoStarted = "meeting.participant_video_started"
	ZoomEventParticipantVideoOff     = "meeting.participant_video_off"
	ZoomEventParticipantVideoStopped = "meeting.participant_video_stopped"
	ZoomEventMeetingEnded            = "meeting.ended"
	ZoomEventEndpointURLValidation   = "endpoint.url_validation"
)

// NATS subjects the webhook receiver publishes validated events to.
// The subject mirrors the Zoom event name.
const (
	WebhookParticipantJoinedSubject  = "roomscout.webhook.meeting.participant_joined"
	WebhookParticipantLeftSubject    = "roomscout.webhook.meeting.participant_left"
	WebhookBreakoutRoomJoinedSubject = "roomscout.webhook.meeting.participant_joined_breakout_room"
	WebhookBreakoutRoomLeftSubject   = "roomscout.webhook.meeting.participant_left_breakout_room"
	WebhookVideoOnSubject            = "roomscout.webhook.meeting.participant_video_on"
	WebhookVideoOffSubject           = "roomscout.webhook.meeting.participant_video_off"
	WebhookMeetingEndedSubject       = "roomscout.webhook.meeting.ended"
)

// ZoomWebhookEventMessage is the NATS message schema for validated Zoom
// webhook events.
type ZoomWebhookEventMessage struct {
	EventType string                 `json:"event_type"`
	EventTS   int64                  `json:"event_ts"`
	Payload   map[string]interface{} `json:"payload"`
}

// SubjectForZoomEvent maps a Zoom webhook event type to its NATS subject.
// The second return is false for event types the service does not track.
func SubjectForZoomEvent(eventType string) (string, bool) {
	switch eventType {
	case ZoomEventParticipantJoined:
		return WebhookParticipantJoinedSubject, true
	case ZoomEventParticipantLeft:
		return WebhookParticipantLeftSubject, true
	case ZoomEventBreakoutRoomJoined:
		return WebhookBreakoutRoomJoinedSubject, true
	case ZoomEventBreakoutRoomLeft:
		return WebhookBreakoutRoomLeftSubject, true
	case ZoomEventParticipantVideoOn, ZoomEventParticipantVideoStarted:
		return WebhookVideoOnSubject, true
	case ZoomEventParticipantVideoOff, ZoomEventParticipantVideoStopped:
		return WebhookVideoOffSubject, true
	case ZoomEventMeetingEnded:
		return WebhookMeetingEndedSubject, true
	default:
		return "", false
	}
}

// ClassifyZoomEvent maps a Zoom webhook event type to the normalized
// attendance event type.
func ClassifyZoomEvent(eventType string) (EventType, bool) {
	switch eventType {
	case ZoomEventParticipantJoined:
		return EventParticipantJoined, true
	case ZoomEventParticipantLeft:
		return EventParticipantLeft, true
	case ZoomEventBreakoutRoomJoined:
		return EventBreakoutJoined, true
	case ZoomEventBreakoutRoomLeft:
		return EventBreakoutLeft, true
	case ZoomEventParticipantVideoOn, ZoomEventParticipantVideoStarted:
		return EventCameraOn, true
	case ZoomEventParticipantVideoOff, ZoomEventParticipantVideoStopped:
		return EventCameraOff, true
	case ZoomEventMeetingEnded:
		return EventMeetingEnded, true
	default:
		return "", false
	}
}
