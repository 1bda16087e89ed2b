// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"
)

// PastParticipant is one participant row from the platform's past-meeting
// participants API. Duration is reported in seconds.
type PastParticipant struct {
	ID              string
	UserID          string
	Name            string
	Email           string
	JoinTime        time.Time
	LeaveTime       time.Time
	DurationSeconds int64
}

// ParticipantQoS is one participant's quality-of-service sample set from the
// platform dashboard API.
type ParticipantQoS struct {
	ParticipantID   string
	Name            string
	Email           string
	CameraOnSeconds int64
	CameraObserved  bool
}

// MeetingPlatformAPI is the outbound surface of the meeting platform used for
// trailing metrics collection.
type MeetingPlatformAPI interface {
	// PastMeetingParticipants fetches the participant report for a finished
	// meeting instance, trying progressively more permissive identifier
	// encodings before giving up.
	PastMeetingParticipants(ctx context.Context, meetingUUID string) ([]*PastParticipant, error)

	// ParticipantsQoS fetches per-participant quality-of-service summaries
	// for a finished meeting instance.
	ParticipantsQoS(ctx context.Context, meetingUUID string) ([]*ParticipantQoS, error)
}
