// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/roomscout/attendance-service/internal/domain/models"
)

// ParticipantEventRepository persists normalized attendance events.
type ParticipantEventRepository interface {
	Insert(ctx context.Context, event *models.ParticipantEvent) error
	ListForDate(ctx context.Context, date string) ([]*models.ParticipantEvent, error)
	MeetingUUIDsForDate(ctx context.Context, date string) ([]string, error)
}

// CameraEventRepository persists camera on/off transitions.
type CameraEventRepository interface {
	Insert(ctx context.Context, event *models.CameraEvent) error
	ListForDate(ctx context.Context, date string) ([]*models.CameraEvent, error)
}

// RoomMappingRepository persists calibrated room identifier mappings.
type RoomMappingRepository interface {
	Insert(ctx context.Context, mapping *models.RoomMapping) error
	ListForDate(ctx context.Context, date string) ([]*models.RoomMapping, error)
	DeleteForDate(ctx context.Context, date string) (int64, error)
}

// QoSRepository persists per-participant quality-of-service summaries.
type QoSRepository interface {
	Insert(ctx context.Context, record *models.QoSRecord) error
	CountForMeeting(ctx context.Context, meetingUUID string) (int64, error)
	DeleteBefore(ctx context.Context, date string) (int64, error)
}

// WarehouseReadiness reports whether the backing warehouse is reachable.
type WarehouseReadiness interface {
	IsReady(ctx context.Context) error
}
