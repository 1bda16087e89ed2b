// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/roomscout/attendance-service/internal/domain"
	"github.com/roomscout/attendance-service/internal/domain/models"
	"github.com/roomscout/attendance-service/internal/logging"
)

// WarehouseCameraEventRepository stores camera transitions in DuckDB.
type WarehouseCameraEventRepository struct {
	db *sql.DB
}

// NewWarehouseCameraEventRepository creates a new WarehouseCameraEventRepository
func NewWarehouseCameraEventRepository(warehouse *Warehouse) *WarehouseCameraEventRepository {
	return &WarehouseCameraEventRepository{db: warehouse.DB()}
}

// Insert implements [domain.CameraEventRepository].
func (r *WarehouseCameraEventRepository) Insert(ctx context.Context, event *models.CameraEvent) error {
	ctx, span := startSpan(ctx, "insert", TableCameraEvents)
	var err error
	defer func() { endSpan(span, err) }()

	var duration sql.NullInt64
	if event.DurationSeconds != nil {
		duration = sql.NullInt64{Int64: *event.DurationSeconds, Valid: true}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO camera_events
			(id, meeting_id, meeting_uuid, event_type, event_time, event_date,
			 participant_id, participant_name, email, room_name, duration_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.MeetingID, event.MeetingUUID, string(event.EventType),
		event.EventTime.UTC(), event.EventTime.UTC().Format("2006-01-02"),
		event.ParticipantID, event.ParticipantName, event.Email,
		event.RoomName, duration,
	)
	if err != nil {
		slog.ErrorContext(ctx, "error inserting camera event", logging.ErrKey, err, "event_id", event.ID)
		err = domain.NewInternalError("failed to insert camera event", err)
		return err
	}
	return nil
}

// ListForDate implements [domain.CameraEventRepository].
func (r *WarehouseCameraEventRepository) ListForDate(ctx context.Context, date string) ([]*models.CameraEvent, error) {
	ctx, span := startSpan(ctx, "select", TableCameraEvents)
	var err error
	defer func() { endSpan(span, err) }()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, meeting_id, meeting_uuid, event_type, event_time,
			participant_id, participant_name, email, room_name, duration_seconds
		 FROM camera_events
		 WHERE event_date = ?
		 ORDER BY event_time`,
		date,
	)
	if err != nil {
		err = domain.NewInternalError("failed to query camera events", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []*models.CameraEvent
	for rows.Next() {
		var ev models.CameraEvent
		var eventType string
		var duration sql.NullInt64
		if err = rows.Scan(&ev.ID, &ev.MeetingID, &ev.MeetingUUID, &eventType, &ev.EventTime,
			&ev.ParticipantID, &ev.ParticipantName, &ev.Email, &ev.RoomName, &duration); err != nil {
			err = domain.NewInternalError("failed to scan camera event row", err)
			return nil, err
		}
		ev.EventType = models.EventType(eventType)
		if duration.Valid {
			ev.DurationSeconds = &duration.Int64
		}
		events = append(events, &ev)
	}
	if err = rows.Err(); err != nil {
		err = domain.NewInternalError("failed to read camera event rows", err)
		return nil, err
	}
	return events, nil
}
