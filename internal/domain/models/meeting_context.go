// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package models

import "time"

// CalibrationState tracks the lifecycle of a calibration run.
type CalibrationState string

const (
	CalibrationNotStarted CalibrationState = "not_started"
	CalibrationInProgress CalibrationState = "in_progress"
	CalibrationComplete   CalibrationState = "complete"
)

// CalibrationMode distinguishes who performs the calibration walk.
type CalibrationMode string

const (
	// CalibrationModeScoutBot is calibration driven by the dedicated bot account.
	CalibrationModeScoutBot CalibrationMode = "scout_bot"
	// CalibrationModeSelf is calibration performed by the meeting host themselves.
	CalibrationModeSelf CalibrationMode = "self"
)

// PendingRoomMove is one declared hop of the calibration walk awaiting its
// matching breakout-join webhook.
type PendingRoomMove struct {
	RoomName           string
	DeclaredIdentifier string
	DeclaredAt         time.Time
	Matched            bool
	ResolvedIdentifier string
}

// ParticipantSession is the per-participant in-meeting state.
type ParticipantSession struct {
	ParticipantID string
	Name          string
	Email         string
	CurrentRoom   string
	JoinedAt      *time.Time
	CameraOn      bool
	CameraOnSince *time.Time
}

// CalibrationMatch is the outcome of correlating a calibration-actor
// breakout join with the pending move queue.
type CalibrationMatch struct {
	RoomName string
	// Move is the pending move consumed by the match, nil when the match fell
	// back to the last declared room.
	Move *PendingRoomMove
	// Rebound lists identifier variants whose binding changed room names.
	Rebound []string
}

// MeetingContext is the complete in-memory state for the single tracked
// meeting. Its methods are pure state transitions; MeetingStateService owns
// the instance and serializes access.
type MeetingContext struct {
	MeetingID   string
	MeetingUUID string
	Topic       string
	Date        string // YYYY-MM-DD in the reference timezone
	StartedAt   time.Time

	Calibration          CalibrationState
	CalibrationMode      CalibrationMode
	CalibrationActorName string
	CalibrationStarted   *time.Time
	CalibrationFinished  *time.Time
	LastDeclaredRoom     string

	Rooms        *RoomIdentifierMap
	PendingMoves []*PendingRoomMove
	Sessions     map[string]*ParticipantSession
}

// NewMeetingContext creates the state for a freshly observed meeting.
func NewMeetingContext(meetingID, meetingUUID, date string, startedAt time.Time) *MeetingContext {
	return &MeetingContext{
		MeetingID:   meetingID,
		MeetingUUID: meetingUUID,
		Date:        date,
		StartedAt:   startedAt,
		Calibration: CalibrationNotStarted,
		Rooms:       NewRoomIdentifierMap(),
		Sessions:    make(map[string]*ParticipantSession),
	}
}

// Session returns the session for a participant, creating it on first touch.
func (mc *MeetingContext) Session(participantID string) *ParticipantSession {
	if s, ok := mc.Sessions[participantID]; ok {
		return s
	}
	s := &ParticipantSession{ParticipantID: participantID}
	mc.Sessions[participantID] = s
	return s
}

// UpdateCamera applies a camera on/off transition for a participant. It
// returns the time the camera was previously turned on (for off transitions)
// and whether the state actually changed. Repeated events in the same state
// are no-ops.
func (mc *MeetingContext) UpdateCamera(participantID string, on bool, at time.Time) (prevOnSince *time.Time, changed bool) {
	s := mc.Session(participantID)
	if s.CameraOn == on {
		return nil, false
	}

	prevOnSince = s.CameraOnSince
	s.CameraOn = on
	if on {
		s.CameraOnSince = &at
	} else {
		s.CameraOnSince = nil
	}
	return prevOnSince, true
}

// StartCalibration begins a calibration run, clearing the pending move queue.
// Existing room bindings are kept; they are invalidated by meeting rotation,
// not by recalibrating the same meeting.
func (mc *MeetingContext) StartCalibration(mode CalibrationMode, actorName string, at time.Time) {
	mc.Calibration = CalibrationInProgress
	mc.CalibrationMode = mode
	mc.CalibrationActorName = actorName
	mc.CalibrationStarted = &at
	mc.CalibrationFinished = nil
	mc.LastDeclaredRoom = ""
	mc.PendingMoves = nil
}

// DeclareMove appends a declared room hop to the pending queue. The declared
// identifier may be empty when the driving client only knows the room name.
func (mc *MeetingContext) DeclareMove(roomName, declaredIdentifier string, at time.Time) *PendingRoomMove {
	move := &PendingRoomMove{
		RoomName:           roomName,
		DeclaredIdentifier: declaredIdentifier,
		DeclaredAt:         at,
	}
	mc.PendingMoves = append(mc.PendingMoves, move)
	mc.LastDeclaredRoom = roomName
	return move
}

// MatchCalibrationJoin correlates a calibration-actor breakout join, carrying
// the room identifier resolved from the webhook, with the declared walk. The
// oldest unmatched pending move wins. When the whole queue is already matched
// the last declared room is used so a late or duplicate join still binds.
// Returns false when there is no declared context at all.
func (mc *MeetingContext) MatchCalibrationJoin(resolvedIdentifier string) (*CalibrationMatch, bool) {
	for _, move := range mc.PendingMoves {
		if move.Matched {
			continue
		}
		move.Matched = true
		move.ResolvedIdentifier = resolvedIdentifier
		rebound := mc.Rooms.Bind(resolvedIdentifier, move.RoomName)
		return &CalibrationMatch{RoomName: move.RoomName, Move: move, Rebound: rebound}, true
	}

	if mc.LastDeclaredRoom != "" {
		rebound := mc.Rooms.Bind(resolvedIdentifier, mc.LastDeclaredRoom)
		return &CalibrationMatch{RoomName: mc.LastDeclaredRoom, Rebound: rebound}, true
	}

	return nil, false
}

// CompleteCalibration finishes the run. The room map stays live so attendance
// resolution keeps working; only the pending queue stops accepting matches.
// Returns how many declared moves were matched and how many were not.
func (mc *MeetingContext) CompleteCalibration(success bool, at time.Time) (matched, unmatched int) {
	if success {
		mc.Calibration = CalibrationComplete
	} else {
		mc.Calibration = CalibrationNotStarted
	}
	mc.CalibrationFinished = &at
	for _, move := range mc.PendingMoves {
		if move.Matched {
			matched++
		} else {
			unmatched++
		}
	}
	return matched, unmatched
}

// ActiveParticipants counts sessions currently in the meeting.
func (mc *MeetingContext) ActiveParticipants() int {
	n := 0
	for _, s := range mc.Sessions {
		if s.JoinedAt != nil {
			n++
		}
	}
	return n
}
