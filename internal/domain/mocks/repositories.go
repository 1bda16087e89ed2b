// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/roomscout/attendance-service/internal/domain/models"
)

// MockParticipantEventRepository implements ParticipantEventRepository for testing
type MockParticipantEventRepository struct {
	mock.Mock
}

func (m *MockParticipantEventRepository) Insert(ctx context.Context, event *models.ParticipantEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockParticipantEventRepository) ListForDate(ctx context.Context, date string) ([]*models.ParticipantEvent, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ParticipantEvent), args.Error(1)
}

func (m *MockParticipantEventRepository) MeetingUUIDsForDate(ctx context.Context, date string) ([]string, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockCameraEventRepository implements CameraEventRepository for testing
type MockCameraEventRepository struct {
	mock.Mock
}

func (m *MockCameraEventRepository) Insert(ctx context.Context, event *models.CameraEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockCameraEventRepository) ListForDate(ctx context.Context, date string) ([]*models.CameraEvent, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CameraEvent), args.Error(1)
}

// MockRoomMappingRepository implements RoomMappingRepository for testing
type MockRoomMappingRepository struct {
	mock.Mock
}

func (m *MockRoomMappingRepository) Insert(ctx context.Context, mapping *models.RoomMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockRoomMappingRepository) ListForDate(ctx context.Context, date string) ([]*models.RoomMapping, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RoomMapping), args.Error(1)
}

func (m *MockRoomMappingRepository) DeleteForDate(ctx context.Context, date string) (int64, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(int64), args.Error(1)
}

// MockQoSRepository implements QoSRepository for testing
type MockQoSRepository struct {
	mock.Mock
}

func (m *MockQoSRepository) Insert(ctx context.Context, record *models.QoSRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockQoSRepository) CountForMeeting(ctx context.Context, meetingUUID string) (int64, error) {
	args := m.Called(ctx, meetingUUID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQoSRepository) DeleteBefore(ctx context.Context, date string) (int64, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(int64), args.Error(1)
}
