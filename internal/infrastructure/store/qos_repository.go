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

// WarehouseQoSRepository stores trailing quality-of-service rows in DuckDB.
type WarehouseQoSRepository struct {
	db *sql.DB
}

// NewWarehouseQoSRepository creates a new WarehouseQoSRepository
func NewWarehouseQoSRepository(warehouse *Warehouse) *WarehouseQoSRepository {
	return &WarehouseQoSRepository{db: warehouse.DB()}
}

// Insert implements [domain.QoSRepository].
func (r *WarehouseQoSRepository) Insert(ctx context.Context, record *models.QoSRecord) error {
	ctx, span := startSpan(ctx, "insert", TableQoSData)
	var err error
	defer func() { endSpan(span, err) }()

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO qos_data
			(id, meeting_uuid, event_date, participant_id, participant_name, email,
			 join_time, leave_time, duration_seconds, camera_on_seconds, camera_on_observed, collected_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.MeetingUUID, record.Date,
		record.ParticipantID, record.ParticipantName, record.Email,
		record.JoinTime.UTC(), record.LeaveTime.UTC(), record.DurationSeconds,
		record.CameraOnSeconds, record.CameraOnObserved, record.CollectedAt.UTC(),
	)
	if err != nil {
		slog.ErrorContext(ctx, "error inserting QoS record", logging.ErrKey, err,
			"meeting_uuid", record.MeetingUUID, "participant", record.ParticipantName)
		err = domain.NewInternalError("failed to insert QoS record", err)
		return err
	}
	return nil
}

// CountForMeeting implements [domain.QoSRepository].
func (r *WarehouseQoSRepository) CountForMeeting(ctx context.Context, meetingUUID string) (int64, error) {
	ctx, span := startSpan(ctx, "select", TableQoSData)
	var err error
	defer func() { endSpan(span, err) }()

	var count int64
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM qos_data WHERE meeting_uuid = ?`, meetingUUID,
	).Scan(&count)
	if err != nil {
		err = domain.NewInternalError("failed to count QoS records", err)
		return 0, err
	}
	return count, nil
}

// DeleteBefore implements [domain.QoSRepository].
func (r *WarehouseQoSRepository) DeleteBefore(ctx context.Context, date string) (int64, error) {
	ctx, span := startSpan(ctx, "delete", TableQoSData)
	var err error
	defer func() { endSpan(span, err) }()

	result, err := r.db.ExecContext(ctx, `DELETE FROM qos_data WHERE event_date < ?`, date)
	if err != nil {
		err = domain.NewInternalError("failed to prune QoS records", err)
		return 0, err
	}
	pruned, err := result.RowsAffected()
	if err != nil {
		err = domain.NewInternalError("failed to count pruned QoS records", err)
		return 0, err
	}
	return pruned, nil
}
