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

// WarehouseRoomMappingRepository stores room identifier bindings in DuckDB.
type WarehouseRoomMappingRepository struct {
	db *sql.DB
}

// NewWarehouseRoomMappingRepository creates a new WarehouseRoomMappingRepository
func NewWarehouseRoomMappingRepository(warehouse *Warehouse) *WarehouseRoomMappingRepository {
	return &WarehouseRoomMappingRepository{db: warehouse.DB()}
}

// Insert implements [domain.RoomMappingRepository].
func (r *WarehouseRoomMappingRepository) Insert(ctx context.Context, mapping *models.RoomMapping) error {
	ctx, span := startSpan(ctx, "insert", TableRoomMappings)
	var err error
	defer func() { endSpan(span, err) }()

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO room_mappings
			(id, meeting_id, meeting_uuid, event_date, room_identifier, room_name, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		mapping.ID, mapping.MeetingID, mapping.MeetingUUID, mapping.Date,
		mapping.RoomIdentifier, mapping.RoomName, mapping.Source, mapping.CreatedAt.UTC(),
	)
	if err != nil {
		slog.ErrorContext(ctx, "error inserting room mapping", logging.ErrKey, err,
			"room_identifier", mapping.RoomIdentifier, "room_name", mapping.RoomName)
		err = domain.NewInternalError("failed to insert room mapping", err)
		return err
	}
	return nil
}

// ListForDate implements [domain.RoomMappingRepository].
func (r *WarehouseRoomMappingRepository) ListForDate(ctx context.Context, date string) ([]*models.RoomMapping, error) {
	ctx, span := startSpan(ctx, "select", TableRoomMappings)
	var err error
	defer func() { endSpan(span, err) }()

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, meeting_id, meeting_uuid, event_date, room_identifier, room_name, source, created_at
		 FROM room_mappings
		 WHERE event_date = ?
		 ORDER BY created_at`,
		date,
	)
	if err != nil {
		err = domain.NewInternalError("failed to query room mappings", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var mappings []*models.RoomMapping
	for rows.Next() {
		var m models.RoomMapping
		if err = rows.Scan(&m.ID, &m.MeetingID, &m.MeetingUUID, &m.Date,
			&m.RoomIdentifier, &m.RoomName, &m.Source, &m.CreatedAt); err != nil {
			err = domain.NewInternalError("failed to scan room mapping row", err)
			return nil, err
		}
		mappings = append(mappings, &m)
	}
	if err = rows.Err(); err != nil {
		err = domain.NewInternalError("failed to read room mapping rows", err)
		return nil, err
	}
	return mappings, nil
}

// DeleteForDate implements [domain.RoomMappingRepository].
func (r *WarehouseRoomMappingRepository) DeleteForDate(ctx context.Context, date string) (int64, error) {
	ctx, span := startSpan(ctx, "delete", TableRoomMappings)
	var err error
	defer func() { endSpan(span, err) }()

	result, err := r.db.ExecContext(ctx, `DELETE FROM room_mappings WHERE event_date = ?`, date)
	if err != nil {
		err = domain.NewInternalError("failed to delete room mappings", err)
		return 0, err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		err = domain.NewInternalError("failed to count deleted room mappings", err)
		return 0, err
	}
	return deleted, nil
}
