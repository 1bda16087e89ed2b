// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/roomscout/attendance-service/internal/domain"
	"github.com/roomscout/attendance-service/internal/domain/mocks"
	"github.com/roomscout/attendance-service/internal/domain/models"
)

func newTestCalibration(t *testing.T) (*CalibrationService, *MeetingStateService, *mocks.MockRoomMappingRepository) {
	t.Helper()
	state, repo := newTestState(t)
	return NewCalibrationService(state, repo), state, repo
}

func TestStartCalibrationValidation(t *testing.T) {
	calibration, _, _ := newTestCalibration(t)

	tests := []struct {
		name string
		req  StartCalibrationRequest
	}{
		{"missing meeting id", StartCalibrationRequest{}},
		{"unknown mode", StartCalibrationRequest{MeetingID: "111", Mode: "drone"}},
		{"self mode without actor", StartCalibrationRequest{MeetingID: "111", Mode: models.CalibrationModeSelf}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calibration.Start(t.Context(), tc.req)
			require.Error(t, err)
			assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
		})
	}
}

func TestStartCalibrationDefaultsToScoutBot(t *testing.T) {
	calibration, state, repo := newTestCalibration(t)
	repo.On("DeleteForDate", mock.Anything, mock.Anything).Return(int64(0), nil)

	result, err := calibration.Start(t.Context(), StartCalibrationRequest{MeetingID: "111", MeetingUUID: "uuid-1"})
	require.NoError(t, err)
	assert.Equal(t, models.CalibrationModeScoutBot, result.Mode)

	mode, _, inProgress := state.CalibrationInfo()
	assert.Equal(t, models.CalibrationModeScoutBot, mode)
	assert.True(t, inProgress)
}

func TestDeclareMappingsBindsAndPersists(t *testing.T) {
	calibration, state, repo := newTestCalibration(t)
	repo.On("DeleteForDate", mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(m *models.RoomMapping) bool {
		return m.Source == models.MappingSourceSDKApp && m.MeetingID == "111"
	})).Return(nil).Twice()

	result, err := calibration.DeclareMappings(t.Context(), DeclareMappingsRequest{
		MeetingID:   "111",
		MeetingUUID: "uuid-1",
		Rooms: []DeclaredRoom{
			{RoomUUID: "{abc-123}", RoomName: "Room A", RoomIndex: 0},
			{RoomUUID: "{def-456}", RoomName: "Room B", RoomIndex: 1},
			{RoomUUID: "", RoomName: "Skipped"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.MappingsReceived)
	assert.Equal(t, 2, result.PendingWebhookMatches)

	// Declared identifiers resolve immediately, braces or not.
	name, mapped := state.ResolveRoomName("{abc-123}")
	assert.True(t, mapped)
	assert.Equal(t, "Room A", name)
	name, mapped = state.ResolveRoomName("abc-123")
	assert.True(t, mapped)
	assert.Equal(t, "Room A", name)

	repo.AssertExpectations(t)
}

func TestDeclareMappingsValidation(t *testing.T) {
	calibration, _, _ := newTestCalibration(t)

	_, err := calibration.DeclareMappings(t.Context(), DeclareMappingsRequest{MeetingID: "111"})
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))

	_, err = calibration.DeclareMappings(t.Context(), DeclareMappingsRequest{Rooms: []DeclaredRoom{{RoomUUID: "x", RoomName: "Y"}}})
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}

func TestHandleActorRoomJoinMatchesFIFO(t *testing.T) {
	calibration, state, repo := newTestCalibration(t)
	repo.On("DeleteForDate", mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	_, err := calibration.DeclareMappings(t.Context(), DeclareMappingsRequest{
		MeetingID: "111",
		Rooms: []DeclaredRoom{
			{RoomUUID: "sdk-a", RoomName: "Room A"},
			{RoomUUID: "sdk-b", RoomName: "Room B"},
		},
	})
	require.NoError(t, err)

	// Webhook identifiers differ from the declared SDK identifiers; the
	// oldest unmatched declared move wins.
	name, ok := calibration.HandleActorRoomJoin(t.Context(), "{wh-1111}", "111", "uuid-1")
	require.True(t, ok)
	assert.Equal(t, "Room A", name)

	name, ok = calibration.HandleActorRoomJoin(t.Context(), "{wh-2222}", "111", "uuid-1")
	require.True(t, ok)
	assert.Equal(t, "Room B", name)

	// Queue exhausted: a duplicate join binds to the last declared room.
	name, ok = calibration.HandleActorRoomJoin(t.Context(), "{wh-3333}", "111", "uuid-1")
	require.True(t, ok)
	assert.Equal(t, "Room B", name)

	// Both the declared and the webhook-learned identifiers resolve.
	for identifier, expected := range map[string]string{
		"sdk-a":     "Room A",
		"{wh-1111}": "Room A",
		"wh-1111":   "Room A",
		"sdk-b":     "Room B",
		"{wh-2222}": "Room B",
	} {
		name, mapped := state.ResolveRoomName(identifier)
		assert.True(t, mapped, identifier)
		assert.Equal(t, expected, name, identifier)
	}

	// Webhook-learned mappings persisted with webhook provenance.
	webhookPersists := 0
	for _, call := range repo.Calls {
		if call.Method != "Insert" {
			continue
		}
		if call.Arguments.Get(1).(*models.RoomMapping).Source == models.MappingSourceWebhookCalibration {
			webhookPersists++
		}
	}
	assert.Equal(t, 3, webhookPersists)
}

func TestHandleActorRoomJoinNoContext(t *testing.T) {
	calibration, state, repo := newTestCalibration(t)
	repo.On("DeleteForDate", mock.Anything, mock.Anything).Return(int64(0), nil)
	state.SetMeeting(t.Context(), "111", "uuid-1")

	_, ok := calibration.HandleActorRoomJoin(t.Context(), "{wh-1111}", "111", "uuid-1")
	assert.False(t, ok)

	_, ok = calibration.HandleActorRoomJoin(t.Context(), "", "111", "uuid-1")
	assert.False(t, ok)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCompleteCalibration(t *testing.T) {
	calibration, state, repo := newTestCalibration(t)
	repo.On("DeleteForDate", mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	_, err := calibration.DeclareMappings(t.Context(), DeclareMappingsRequest{
		MeetingID: "111",
		Rooms: []DeclaredRoom{
			{RoomUUID: "sdk-a", RoomName: "Room A"},
			{RoomUUID: "sdk-b", RoomName: "Room B"},
		},
	})
	require.NoError(t, err)
	_, ok := calibration.HandleActorRoomJoin(t.Context(), "{wh-1111}", "111", "")
	require.True(t, ok)

	result, err := calibration.Complete(t.Context(), CompleteCalibrationRequest{MeetingID: "111", Success: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.WebhookMatches)
	assert.Equal(t, 1, result.UnmatchedRooms)

	status := calibration.Status(t.Context())
	assert.True(t, status.CalibrationComplete)
	assert.NotNil(t, status.CalibratedAt)

	// The learned map stays live after completion.
	name, mapped := state.ResolveRoomName("sdk-b")
	assert.True(t, mapped)
	assert.Equal(t, "Room B", name)
}

func TestCompleteCalibrationWithoutMeeting(t *testing.T) {
	calibration, _, _ := newTestCalibration(t)
	_, err := calibration.Complete(t.Context(), CompleteCalibrationRequest{MeetingID: "111", Success: true})
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestMappingsListing(t *testing.T) {
	calibration, _, repo := newTestCalibration(t)

	listing := calibration.Mappings(t.Context())
	assert.Zero(t, listing.Total)
	assert.NotNil(t, listing.Mappings)

	repo.On("DeleteForDate", mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	_, err := calibration.DeclareMappings(t.Context(), DeclareMappingsRequest{
		MeetingID: "111",
		Rooms:     []DeclaredRoom{{RoomUUID: "{abc-123}", RoomName: "Room A"}},
	})
	require.NoError(t, err)

	listing = calibration.Mappings(t.Context())
	require.Equal(t, 1, listing.Total)
	assert.Equal(t, "Room A", listing.Mappings[0].RoomName)
	assert.Equal(t, "abc-123", listing.Mappings[0].RoomUUID)
}
