// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/roomscout/attendance-service/internal/domain/models"
)

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendDailyReport(ctx context.Context, report *models.DailyReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}
