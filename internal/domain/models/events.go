// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package models

import "time"

// EventType classifies a normalized attendance event.
type EventType string

const (
	EventParticipantJoined EventType = "participant_joined"
	EventParticipantLeft   EventType = "participant_left"
	EventBreakoutJoined    EventType = "breakout_room_joined"
	EventBreakoutLeft      EventType = "breakout_room_left"
	EventCameraOn          EventType = "camera_on"
	EventCameraOff         EventType = "camera_off"
	EventMeetingEnded      EventType = "meeting_ended"
)

// Mapping provenance values stored with room mapping rows.
const (
	MappingSourceWebhookCalibration = "webhook_calibration"
	MappingSourceSDKApp             = "zoom_sdk_app"
)

// ParticipantEvent is a warehouse row for a join/leave/breakout transition.
type ParticipantEvent struct {
	ID              string    `json:"id"`
	MeetingID       string    `json:"meeting_id"`
	MeetingUUID     string    `json:"meeting_uuid"`
	EventType       EventType `json:"event_type"`
	EventTime       time.Time `json:"event_time"`
	ParticipantID   string    `json:"participant_id"`
	ParticipantName string    `json:"participant_name"`
	Email           string    `json:"email"`
	RoomIdentifier  string    `json:"room_identifier,omitempty"`
	RoomName        string    `json:"room_name,omitempty"`
}

// CameraEvent is a warehouse row for a camera transition. DurationSeconds is
// set on camera-off rows when the preceding on-time is known and plausible.
type CameraEvent struct {
	ID              string    `json:"id"`
	MeetingID       string    `json:"meeting_id"`
	MeetingUUID     string    `json:"meeting_uuid"`
	EventType       EventType `json:"event_type"`
	EventTime       time.Time `json:"event_time"`
	ParticipantID   string    `json:"participant_id"`
	ParticipantName string    `json:"participant_name"`
	Email           string    `json:"email"`
	RoomName        string    `json:"room_name,omitempty"`
	DurationSeconds *int64    `json:"duration_seconds,omitempty"`
}

// RoomMapping is a warehouse row binding a room identifier variant to a name.
type RoomMapping struct {
	ID             string    `json:"id"`
	MeetingID      string    `json:"meeting_id"`
	MeetingUUID    string    `json:"meeting_uuid"`
	Date           string    `json:"date"`
	RoomIdentifier string    `json:"room_identifier"`
	RoomName       string    `json:"room_name"`
	Source         string    `json:"source"`
	CreatedAt      time.Time `json:"created_at"`
}

// QoSRecord is a warehouse row for one participant's quality-of-service
// summary in a past meeting.
type QoSRecord struct {
	ID               string    `json:"id"`
	MeetingUUID      string    `json:"meeting_uuid"`
	Date             string    `json:"date"`
	ParticipantID    string    `json:"participant_id"`
	ParticipantName  string    `json:"participant_name"`
	Email            string    `json:"email"`
	JoinTime         time.Time `json:"join_time"`
	LeaveTime        time.Time `json:"leave_time"`
	DurationSeconds  int64     `json:"duration_seconds"`
	CameraOnSeconds  int64     `json:"camera_on_seconds"`
	CameraOnObserved bool      `json:"camera_on_observed"`
	CollectedAt      time.Time `json:"collected_at"`
}

// ReportRow is one participant's compiled attendance for a day.
type ReportRow struct {
	ParticipantName string         `json:"participant_name"`
	Email           string         `json:"email"`
	FirstJoin       *time.Time     `json:"first_join,omitempty"`
	LastLeave       *time.Time     `json:"last_leave,omitempty"`
	RoomVisits      map[string]int `json:"room_visits"`
	CameraOnSeconds int64          `json:"camera_on_seconds"`
}

// DailyReport is the compiled attendance report for one date.
type DailyReport struct {
	Date         string      `json:"date"`
	MeetingID    string      `json:"meeting_id"`
	GeneratedAt  time.Time   `json:"generated_at"`
	Participants []ReportRow `json:"participants"`
	RoomNames    []string    `json:"room_names"`
}
