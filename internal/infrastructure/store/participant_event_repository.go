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

// WarehouseParticipantEventRepository stores attendance events in DuckDB.
type WarehouseParticipantEventRepository struct {
	db *sql.DB
}

// NewWarehouseParticipantEventRepository creates a new WarehouseParticipantEventRepository
func NewWarehouseParticipantEventRepository(warehouse *Warehouse) *WarehouseParticipantEventRepository {
	return &WarehouseParticipantEventRepository{db: warehouse.DB()}
}

// Insert implements [domain.ParticipantEventRepository].
func (r *WarehouseParticipantEventRepository) Insert(ctx context.Context, event *models.ParticipantEvent) error {
	ctx, span := startSpan(ctx, "insert", TableParticipantEvents)
	var err error
	defer func() { endSpan(span, err) }()

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO participant_events
			(id, meeting_id, meeting_uuid, event_type, event_time, event_date,
			 participant_id, participant_name, email, room_identifier, room_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.MeetingID, event.MeetingUUID, string(event.EventType),
		event.EventTime.UTC(), event.EventTime.UTC().Format("2006-01-02"),
		event.ParticipantID, event.ParticipantName, event.Email,
		event.RoomIdentifier, event.RoomName,
	)
	if err != nil {
		slog.ErrorContext(ctx, "error inserting participant event", logging.ErrKey, err, "event_id", event.ID)
		err = domain.NewInternalError("failed to insert participant event", err)
		return err
	}
	return nil
}

// ListForDate implements [domain.ParticipantEventRepository].
func (r *WarehouseParticipantEventRepository) ListForDate(ctx context.Context, date string) ([]*models.ParticipantEvent, error) {
	ctx, span := startSpan(ctx, "select", TableParticipantEvents)
	var err error
	defer func() { endSpan(span, err) }()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, meeting_id, meeting_uuid, event_type, event_time,
			participant_id, participant_name, email, room_identifier, room_name
		 FROM participant_events
		 WHERE event_date = ?
		 ORDER BY event_time`,
		date,
	)
	if err != nil {
		err = domain.NewInternalError("failed to query participant events", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []*models.ParticipantEvent
	for rows.Next() {
		var ev models.ParticipantEvent
		var eventType string
		if err = rows.Scan(&ev.ID, &ev.MeetingID, &ev.MeetingUUID, &eventType, &ev.EventTime,
			&ev.ParticipantID, &ev.ParticipantName, &ev.Email, &ev.RoomIdentifier, &ev.RoomName); err != nil {
			err = domain.NewInternalError("failed to scan participant event row", err)
			return nil, err
		}
		ev.EventType = models.EventType(eventType)
		events = append(events, &ev)
	}
	if err = rows.Err(); err != nil {
		err = domain.NewInternalError("failed to read participant event rows", err)
		return nil, err
	}
	return events, nil
}

// MeetingUUIDsForDate implements [domain.ParticipantEventRepository].
func (r *WarehouseParticipantEventRepository) MeetingUUIDsForDate(ctx context.Context, date string) ([]string, error) {
	ctx, span := startSpan(ctx, "select", TableParticipantEvents)
	var err error
	defer func() { endSpan(span, err) }()

	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT meeting_uuid FROM participant_events
		 WHERE event_date = ? AND meeting_uuid <> ''`,
		date,
	)
	if err != nil {
		err = domain.NewInternalError("failed to query meeting uuids", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var uuids []string
	for rows.Next() {
		var meetingUUID string
		if err = rows.Scan(&meetingUUID); err != nil {
			err = domain.NewInternalError("failed to scan meeting uuid row", err)
			return nil, err
		}
		uuids = append(uuids, meetingUUID)
	}
	if err = rows.Err(); err != nil {
		err = domain.NewInternalError("failed to read meeting uuid rows", err)
		return nil, err
	}
	return uuids, nil
}
