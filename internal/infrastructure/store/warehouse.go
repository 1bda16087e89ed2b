// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

// Package store contains the DuckDB-backed warehouse repositories for
// attendance, camera, room mapping, and QoS rows.
package store

import (
	"context"
	"database/sql"
	"log/slog"

	_ "github.com/duckdb/duckdb-go/v2" // registers the duckdb database/sql driver
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/roomscout/attendance-service/internal/domain"
	"github.com/roomscout/attendance-service/internal/logging"
)

// tracerName is the instrumentation name for the store package.
const tracerName = "github.com/roomscout/attendance-service/internal/infrastructure/store"

// Warehouse table names
const (
	TableParticipantEvents = "participant_events"
	TableCameraEvents      = "camera_events"
	TableRoomMappings      = "room_mappings"
	TableQoSData           = "qos_data"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS participant_events (
		id VARCHAR PRIMARY KEY,
		meeting_id VARCHAR,
		meeting_uuid VARCHAR,
		event_type VARCHAR,
		event_time TIMESTAMP,
		event_date VARCHAR,
		participant_id VARCHAR,
		participant_name VARCHAR,
		email VARCHAR,
		room_identifier VARCHAR,
		room_name VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS camera_events (
		id VARCHAR PRIMARY KEY,
		meeting_id VARCHAR,
		meeting_uuid VARCHAR,
		event_type VARCHAR,
		event_time TIMESTAMP,
		event_date VARCHAR,
		participant_id VARCHAR,
		participant_name VARCHAR,
		email VARCHAR,
		room_name VARCHAR,
		duration_seconds BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS room_mappings (
		id VARCHAR PRIMARY KEY,
		meeting_id VARCHAR,
		meeting_uuid VARCHAR,
		event_date VARCHAR,
		room_identifier VARCHAR,
		room_name VARCHAR,
		source VARCHAR,
		created_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS qos_data (
		id VARCHAR PRIMARY KEY,
		meeting_uuid VARCHAR,
		event_date VARCHAR,
		participant_id VARCHAR,
		participant_name VARCHAR,
		email VARCHAR,
		join_time TIMESTAMP,
		leave_time TIMESTAMP,
		duration_seconds BIGINT,
		camera_on_seconds BIGINT,
		camera_on_observed BOOLEAN,
		collected_at TIMESTAMP
	)`,
}

// Warehouse wraps the DuckDB connection shared by all repositories.
type Warehouse struct {
	db *sql.DB
}

// NewWarehouse opens (or creates) the DuckDB database at path and ensures the
// schema exists. An empty path opens an in-memory database.
func NewWarehouse(ctx context.Context, path string) (*Warehouse, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, domain.NewUnavailableError("failed to open warehouse database", err)
	}

	// DuckDB is an embedded single-writer engine; a connection pool only
	// produces lock contention.
	db.SetMaxOpenConns(1)

	w := &Warehouse{db: db}
	if err := w.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	slog.InfoContext(ctx, "warehouse database ready", "path", path)
	return w, nil
}

// migrate creates the warehouse tables if they do not exist.
func (w *Warehouse) migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := w.db.ExecContext(ctx, stmt); err != nil {
			slog.ErrorContext(ctx, "error creating warehouse table", logging.ErrKey, err)
			return domain.NewInternalError("failed to create warehouse schema", err)
		}
	}
	return nil
}

// IsReady implements [domain.WarehouseReadiness].
func (w *Warehouse) IsReady(ctx context.Context) error {
	if err := w.db.PingContext(ctx); err != nil {
		return domain.NewUnavailableError("warehouse database is not available", err)
	}
	return nil
}

// DB exposes the underlying handle for repositories.
func (w *Warehouse) DB() *sql.DB {
	return w.db
}

// Close closes the database handle.
func (w *Warehouse) Close() error {
	return w.db.Close()
}

// startSpan opens a client span for a warehouse operation.
func startSpan(ctx context.Context, operation, table string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "duckdb."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "duckdb"),
			attribute.String("db.operation", operation),
			attribute.String("db.sql.table", table),
		),
	)
}

// endSpan records the outcome on a span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
