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
)

// CalibrationService drives room calibration: starting a run, accepting the
// declared room walk from the driving client, correlating calibration-actor
// breakout joins with the walk, and persisting learned mappings.
type CalibrationService struct {
	state           *MeetingStateService
	roomMappingRepo domain.RoomMappingRepository
}

// NewCalibrationService creates a new CalibrationService
func NewCalibrationService(state *MeetingStateService, roomMappingRepo domain.RoomMappingRepository) *CalibrationService {
	return &CalibrationService{
		state:           state,
		roomMappingRepo: roomMappingRepo,
	}
}

// ServiceReady checks if the service is ready to process requests
func (s *CalibrationService) ServiceReady() bool {
	return s.state != nil && s.roomMappingRepo != nil
}

// StartCalibrationRequest is the payload for starting a calibration run.
type StartCalibrationRequest struct {
	MeetingID   string                 `json:"meeting_id"`
	MeetingUUID string                 `json:"meeting_uuid"`
	Mode        models.CalibrationMode `json:"calibration_mode"`
	ActorName   string                 `json:"calibration_participant_name"`
}

// StartCalibrationResult reports the started run.
type StartCalibrationResult struct {
	MeetingID string                 `json:"meeting_id"`
	Mode      models.CalibrationMode `json:"calibration_mode"`
	ActorName string                 `json:"calibration_participant"`
}

// Start begins a calibration run for the given meeting.
func (s *CalibrationService) Start(ctx context.Context, req StartCalibrationRequest) (*StartCalibrationResult, error) {
	if req.MeetingID == "" {
		return nil, domain.NewValidationError("meeting_id is required")
	}

	mode := req.Mode
	if mode == "" {
		mode = models.CalibrationModeScoutBot
	}
	if mode != models.CalibrationModeScoutBot && mode != models.CalibrationModeSelf {
		return nil, domain.NewValidationError("unknown calibration mode: " + string(mode))
	}
	if mode == models.CalibrationModeSelf && req.ActorName == "" {
		return nil, domain.NewValidationError("calibration_participant_name is required for self calibration")
	}

	s.state.SetMeeting(ctx, req.MeetingID, req.MeetingUUID)
	now := time.Now().UTC()
	s.state.Update(func(mc *models.MeetingContext) {
		mc.StartCalibration(mode, req.ActorName, now)
	})

	slog.InfoContext(ctx, "Calibration started", "meeting_id", req.MeetingID, "mode", mode, "actor", req.ActorName)

	return &StartCalibrationResult{
		MeetingID: req.MeetingID,
		Mode:      mode,
		ActorName: req.ActorName,
	}, nil
}

// DeclaredRoom is one room announced by the driving client.
type DeclaredRoom struct {
	RoomUUID  string `json:"room_uuid"`
	RoomName  string `json:"room_name"`
	RoomIndex int    `json:"room_index"`
}

// DeclareMappingsRequest is the payload for the declared room walk.
type DeclareMappingsRequest struct {
	MeetingID   string         `json:"meeting_id"`
	MeetingUUID string         `json:"meeting_uuid"`
	Rooms       []DeclaredRoom `json:"room_mapping"`
}

// DeclareMappingsResult reports how the declared walk was absorbed.
type DeclareMappingsResult struct {
	MappingsReceived      int `json:"mappings_received"`
	TotalStored           int `json:"total_stored"`
	PendingWebhookMatches int `json:"pending_webhook_matches"`
}

// DeclareMappings absorbs the room list declared by the driving client. Each
// declared room is bound under its client-side identifier, queued as a
// pending move for webhook correlation, and persisted with zoom_sdk_app
// provenance.
func (s *CalibrationService) DeclareMappings(ctx context.Context, req DeclareMappingsRequest) (*DeclareMappingsResult, error) {
	if req.MeetingID == "" || len(req.Rooms) == 0 {
		return nil, domain.NewValidationError("meeting_id and room_mapping are required")
	}

	s.state.SetMeeting(ctx, req.MeetingID, req.MeetingUUID)

	now := time.Now().UTC()
	result := &DeclareMappingsResult{MappingsReceived: len(req.Rooms)}

	s.state.Update(func(mc *models.MeetingContext) {
		for _, room := range req.Rooms {
			if room.RoomUUID == "" || room.RoomName == "" {
				continue
			}
			mc.Rooms.Bind(room.RoomUUID, room.RoomName)
			mc.DeclareMove(room.RoomName, room.RoomUUID, now)
			slog.DebugContext(ctx, "Declared calibration move", "room_name", room.RoomName)
		}
		result.TotalStored = mc.Rooms.Len()
		for _, move := range mc.PendingMoves {
			if !move.Matched {
				result.PendingWebhookMatches++
			}
		}
	})

	for _, room := range req.Rooms {
		if room.RoomUUID == "" || room.RoomName == "" {
			continue
		}
		s.persistMapping(ctx, req.MeetingID, req.MeetingUUID, room.RoomUUID, room.RoomName, models.MappingSourceSDKApp)
	}

	slog.InfoContext(ctx, "Calibration mappings declared",
		"meeting_id", req.MeetingID, "received", result.MappingsReceived, "pending", result.PendingWebhookMatches)

	return result, nil
}

// HandleActorRoomJoin correlates a calibration-actor breakout join with the
// declared walk and persists the learned webhook mapping. Returns the bound
// room name, or false when there was no declared context to match against.
func (s *CalibrationService) HandleActorRoomJoin(ctx context.Context, roomIdentifier string, meetingID, meetingUUID string) (string, bool) {
	if roomIdentifier == "" {
		slog.WarnContext(ctx, "Calibration actor joined a breakout room without an identifier, dropping")
		return "", false
	}

	var match *models.CalibrationMatch
	matched := false
	s.state.Update(func(mc *models.MeetingContext) {
		match, matched = mc.MatchCalibrationJoin(roomIdentifier)
	})
	if !matched {
		slog.WarnContext(ctx, "Calibration actor join had no declared room context, dropping",
			"room_identifier", roomIdentifier)
		return "", false
	}

	if len(match.Rebound) > 0 {
		slog.WarnContext(ctx, "Room identifier rebound to a different name",
			"room_name", match.RoomName, "rebound_variants", len(match.Rebound))
	}

	s.persistMapping(ctx, meetingID, meetingUUID, roomIdentifier, match.RoomName, models.MappingSourceWebhookCalibration)

	slog.InfoContext(ctx, "Learned webhook room mapping", "room_name", match.RoomName, "fallback", match.Move == nil)
	return match.RoomName, true
}

// CompleteCalibrationRequest is the payload for finishing a run.
type CompleteCalibrationRequest struct {
	MeetingID string `json:"meeting_id"`
	Success   bool   `json:"success"`
}

// CompleteCalibrationResult reports the finished run.
type CompleteCalibrationResult struct {
	WebhookMatches int `json:"webhook_uuid_matches"`
	UnmatchedRooms int `json:"unmatched_rooms"`
	TotalMappings  int `json:"total_mappings"`
}

// Complete finishes the calibration run. The learned room map stays live.
func (s *CalibrationService) Complete(ctx context.Context, req CompleteCalibrationRequest) (*CompleteCalibrationResult, error) {
	now := time.Now().UTC()
	result := &CompleteCalibrationResult{}

	ok := s.state.Update(func(mc *models.MeetingContext) {
		result.WebhookMatches, result.UnmatchedRooms = mc.CompleteCalibration(req.Success, now)
		result.TotalMappings = mc.Rooms.Len()
	})
	if !ok {
		return nil, domain.NewNotFoundError("no meeting is being tracked")
	}

	slog.InfoContext(ctx, "Calibration complete",
		"matched", result.WebhookMatches, "unmatched", result.UnmatchedRooms, "success", req.Success)

	return result, nil
}

// CalibrationStatus is the live status of the tracked calibration.
type CalibrationStatus struct {
	MeetingID           string   `json:"meeting_id"`
	CalibrationState    string   `json:"calibration_state"`
	CalibrationComplete bool     `json:"calibration_complete"`
	CalibratedAt        *string  `json:"calibrated_at,omitempty"`
	RoomsMapped         int      `json:"rooms_mapped"`
	RoomNames           []string `json:"room_names"`
}

// Status reports the current calibration state.
func (s *CalibrationService) Status(ctx context.Context) *CalibrationStatus {
	status := &CalibrationStatus{CalibrationState: string(models.CalibrationNotStarted)}
	s.state.Update(func(mc *models.MeetingContext) {
		status.MeetingID = mc.MeetingID
		status.CalibrationState = string(mc.Calibration)
		status.CalibrationComplete = mc.Calibration == models.CalibrationComplete
		if mc.CalibrationFinished != nil {
			at := mc.CalibrationFinished.Format(time.RFC3339)
			status.CalibratedAt = &at
		}
		status.RoomsMapped = mc.Rooms.Len()
		status.RoomNames = mc.Rooms.Names()
	})
	return status
}

// RoomMappingEntry is one room binding in the mappings listing.
type RoomMappingEntry struct {
	RoomName string `json:"room_name"`
	RoomUUID string `json:"room_uuid"`
}

// MappingsListing is the full current room mapping set.
type MappingsListing struct {
	MeetingID           string             `json:"meeting_id"`
	CalibrationComplete bool               `json:"calibration_complete"`
	Mappings            []RoomMappingEntry `json:"mappings"`
	Total               int                `json:"total"`
}

// Mappings lists the current room-name bindings.
func (s *CalibrationService) Mappings(ctx context.Context) *MappingsListing {
	listing := &MappingsListing{Mappings: []RoomMappingEntry{}}
	s.state.Update(func(mc *models.MeetingContext) {
		listing.MeetingID = mc.MeetingID
		listing.CalibrationComplete = mc.Calibration == models.CalibrationComplete
		for _, name := range mc.Rooms.Names() {
			id, _ := mc.Rooms.IdentifierFor(name)
			listing.Mappings = append(listing.Mappings, RoomMappingEntry{RoomName: name, RoomUUID: id})
		}
		listing.Total = len(listing.Mappings)
	})
	return listing
}

// persistMapping writes one mapping row. Failures are logged, never returned;
// the in-memory map is authoritative for the live meeting.
func (s *CalibrationService) persistMapping(ctx context.Context, meetingID, meetingUUID, roomIdentifier, roomName, source string) {
	mapping := &models.RoomMapping{
		ID:             uuid.New().String(),
		MeetingID:      meetingID,
		MeetingUUID:    meetingUUID,
		Date:           s.state.Today(),
		RoomIdentifier: roomIdentifier,
		RoomName:       roomName,
		Source:         source,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.roomMappingRepo.Insert(ctx, mapping); err != nil {
		slog.ErrorContext(ctx, "Failed to persist room mapping", "error", err,
			"room_name", roomName, "source", source)
	}
}
