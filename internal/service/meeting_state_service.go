// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/roomscout/attendance-service/internal/domain"
	"github.com/roomscout/attendance-service/internal/domain/models"
)

// TrailingCollector collects quality-of-service metrics for a meeting that
// has just rotated out of the tracked slot.
type TrailingCollector interface {
	CollectPreviousMeeting(ctx context.Context, meetingUUID, meetingID string)
}

// MeetingStateService owns the single tracked MeetingContext and serializes
// all access to it behind one mutex. Webhook handlers and the calibration API
// both mutate meeting state, so every read and write goes through here.
type MeetingStateService struct {
	mu  sync.Mutex
	ctx *models.MeetingContext

	previousMeetingUUID string
	previousMeetingID   string

	roomMappingRepo domain.RoomMappingRepository
	collector       TrailingCollector
	location        *time.Location
	now             func() time.Time
}

// NewMeetingStateService creates the state service. location is the reference
// timezone used to derive the tracking date.
func NewMeetingStateService(roomMappingRepo domain.RoomMappingRepository, location *time.Location) *MeetingStateService {
	if location == nil {
		location = time.UTC
	}
	return &MeetingStateService{
		roomMappingRepo: roomMappingRepo,
		location:        location,
		now:             time.Now,
	}
}

// SetTrailingCollector wires the collector invoked when a meeting rotates.
// Set after construction because the collector depends on this service.
func (s *MeetingStateService) SetTrailingCollector(collector TrailingCollector) {
	s.collector = collector
}

// ServiceReady checks if the service is ready to process requests
func (s *MeetingStateService) ServiceReady() bool {
	return s.roomMappingRepo != nil
}

// Today returns the current date in the reference timezone.
func (s *MeetingStateService) Today() string {
	return s.now().In(s.location).Format("2006-01-02")
}

// SetMeeting ensures the tracked context belongs to (meetingID, today),
// rotating state when either differs. On rotation the previous meeting is
// handed to the trailing collector and today's persisted mappings are
// invalidated so stale calibration cannot leak into the new meeting. A repeat
// call for the current meeting only backfills a missing uuid.
func (s *MeetingStateService) SetMeeting(ctx context.Context, meetingID, meetingUUID string) {
	if meetingID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.Today()

	if s.ctx != nil && s.ctx.MeetingID == meetingID && s.ctx.Date == today {
		if meetingUUID != "" && s.ctx.MeetingUUID == "" {
			s.ctx.MeetingUUID = meetingUUID
		}
		return
	}

	if s.ctx != nil {
		oldUUID := s.ctx.MeetingUUID
		oldID := s.ctx.MeetingID
		if oldUUID != "" && oldUUID != meetingUUID {
			slog.InfoContext(ctx, "Meeting rotated, scheduling trailing metrics collection",
				"previous_meeting_uuid", oldUUID, "previous_meeting_id", oldID, "meeting_id", meetingID)
			s.previousMeetingUUID = oldUUID
			s.previousMeetingID = oldID
			if s.collector != nil {
				s.collector.CollectPreviousMeeting(ctx, oldUUID, oldID)
			}
		}
	}

	slog.InfoContext(ctx, "Tracking new meeting", "meeting_id", meetingID, "meeting_uuid", meetingUUID, "date", today)
	s.ctx = models.NewMeetingContext(meetingID, meetingUUID, today, s.now().In(s.location))

	if deleted, err := s.roomMappingRepo.DeleteForDate(ctx, today); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate persisted room mappings", "error", err, "date", today)
	} else if deleted > 0 {
		slog.InfoContext(ctx, "Invalidated persisted room mappings", "date", today, "deleted", deleted)
	}
}

// Rehydrate restores today's calibrated room mappings from the warehouse
// after a cold start. When mappings exist the restored context is marked
// calibration-complete so attendance resolution works immediately.
func (s *MeetingStateService) Rehydrate(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.Today()
	mappings, err := s.roomMappingRepo.ListForDate(ctx, today)
	if err != nil {
		return 0, domain.NewInternalError("failed to load persisted room mappings", err)
	}
	if len(mappings) == 0 {
		return 0, nil
	}

	meetingID := ""
	meetingUUID := ""
	for _, m := range mappings {
		if m.MeetingID != "" {
			meetingID = m.MeetingID
			meetingUUID = m.MeetingUUID
			break
		}
	}

	mc := models.NewMeetingContext(meetingID, meetingUUID, today, s.now().In(s.location))
	count := 0
	for _, m := range mappings {
		if m.RoomIdentifier == "" || m.RoomName == "" {
			continue
		}
		mc.Rooms.Bind(m.RoomIdentifier, m.RoomName)
		count++
	}

	finishedAt := s.now().In(s.location)
	mc.Calibration = models.CalibrationComplete
	mc.CalibrationFinished = &finishedAt
	s.ctx = mc

	slog.InfoContext(ctx, "Restored room mappings from warehouse", "date", today, "mappings", count, "meeting_id", meetingID)
	return count, nil
}

// Reset drops all tracked state. Debug use only; persisted warehouse rows are
// untouched.
func (s *MeetingStateService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = nil
	s.previousMeetingUUID = ""
	s.previousMeetingID = ""
}

// Update runs fn with exclusive access to the tracked context. Returns false
// without calling fn when no meeting is tracked yet.
func (s *MeetingStateService) Update(fn func(mc *models.MeetingContext)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return false
	}
	fn(s.ctx)
	return true
}

// ResolveRoomName resolves a room identifier against the calibrated map,
// falling back to a name derived from the identifier itself.
func (s *MeetingStateService) ResolveRoomName(identifier string) (name string, mapped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		if name, ok := s.ctx.Rooms.Lookup(identifier); ok {
			return name, true
		}
	}
	return models.FallbackRoomName(identifier), false
}

// CurrentMeeting returns the identifiers of the tracked meeting.
func (s *MeetingStateService) CurrentMeeting() (meetingID, meetingUUID, date string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return "", "", "", false
	}
	return s.ctx.MeetingID, s.ctx.MeetingUUID, s.ctx.Date, true
}

// CalibrationInfo reports the current calibration mode, the declared actor
// name, and whether a run is in progress.
func (s *MeetingStateService) CalibrationInfo() (models.CalibrationMode, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return "", "", false
	}
	return s.ctx.CalibrationMode, s.ctx.CalibrationActorName, s.ctx.Calibration == models.CalibrationInProgress
}

// PreviousMeeting returns the identifiers of the last rotated-out meeting.
func (s *MeetingStateService) PreviousMeeting() (meetingUUID, meetingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previousMeetingUUID, s.previousMeetingID
}

// StateSnapshot is a point-in-time copy of the tracked state for status and
// debug endpoints.
type StateSnapshot struct {
	MeetingID           string            `json:"meeting_id"`
	MeetingUUID         string            `json:"meeting_uuid"`
	Date                string            `json:"date"`
	Calibration         string            `json:"calibration"`
	CalibrationMode     string            `json:"calibration_mode,omitempty"`
	RoomNames           []string          `json:"room_names"`
	MappingCount        int               `json:"mapping_count"`
	Mappings            map[string]string `json:"mappings,omitempty"`
	PendingMoves        int               `json:"pending_moves"`
	ActiveParticipants  int               `json:"active_participants"`
	TrackedParticipants int               `json:"tracked_participants"`
}

// Snapshot copies the tracked state. includeMappings controls whether the
// full identifier map is attached (it can be large).
func (s *MeetingStateService) Snapshot(includeMappings bool) (*StateSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return nil, false
	}

	snap := &StateSnapshot{
		MeetingID:           s.ctx.MeetingID,
		MeetingUUID:         s.ctx.MeetingUUID,
		Date:                s.ctx.Date,
		Calibration:         string(s.ctx.Calibration),
		CalibrationMode:     string(s.ctx.CalibrationMode),
		RoomNames:           s.ctx.Rooms.Names(),
		MappingCount:        s.ctx.Rooms.Len(),
		PendingMoves:        len(s.ctx.PendingMoves),
		ActiveParticipants:  s.ctx.ActiveParticipants(),
		TrackedParticipants: len(s.ctx.Sessions),
	}
	if includeMappings {
		snap.Mappings = s.ctx.Rooms.Mappings()
	}
	return snap, true
}
