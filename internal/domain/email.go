// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/roomscout/attendance-service/internal/domain/models"
)

// EmailService sends compiled attendance reports.
type EmailService interface {
	SendDailyReport(ctx context.Context, report *models.DailyReport) error
}
