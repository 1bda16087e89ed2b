// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"log/slog"

	"github.com/roomscout/attendance-service/internal/domain/models"
	"github.com/roomscout/attendance-service/internal/logging"
)

// NoOpService is a no-operation email service that logs but doesn't send emails
type NoOpService struct{}

// NewNoOpService creates a new no-op email service
func NewNoOpService() *NoOpService {
	return &NoOpService{}
}

// SendDailyReport logs the report but doesn't send an email
func (s *NoOpService) SendDailyReport(ctx context.Context, report *models.DailyReport) error {
	ctx = logging.AppendCtx(ctx, slog.String("report_date", report.Date))

	slog.DebugContext(ctx, "email service disabled, skipping daily report email",
		"participants", len(report.Participants))
	return nil
}
