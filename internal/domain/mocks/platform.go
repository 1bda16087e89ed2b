// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/roomscout/attendance-service/internal/domain"
)

// MockMeetingPlatformAPI implements MeetingPlatformAPI for testing
type MockMeetingPlatformAPI struct {
	mock.Mock
}

func (m *MockMeetingPlatformAPI) PastMeetingParticipants(ctx context.Context, meetingUUID string) ([]*domain.PastParticipant, error) {
	args := m.Called(ctx, meetingUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PastParticipant), args.Error(1)
}

func (m *MockMeetingPlatformAPI) ParticipantsQoS(ctx context.Context, meetingUUID string) ([]*domain.ParticipantQoS, error) {
	args := m.Called(ctx, meetingUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ParticipantQoS), args.Error(1)
}
