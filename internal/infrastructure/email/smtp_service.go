// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roomscout/attendance-service/internal/domain/models"
	"github.com/roomscout/attendance-service/internal/logging"
)

// SMTPService implements the EmailService interface using SMTP
type SMTPService struct {
	config    SMTPConfig
	templates *TemplateManager
}

// SMTPConfig holds the SMTP server configuration
type SMTPConfig struct {
	Host       string
	Port       int
	From       string
	Recipients []string
	Username   string // Optional for authenticated SMTP
	Password   string // Optional for authenticated SMTP
}

// NewSMTPService creates a new SMTP email service
func NewSMTPService(config SMTPConfig) (*SMTPService, error) {
	if len(config.Recipients) == 0 {
		return nil, fmt.Errorf("at least one report recipient is required")
	}

	templates, err := NewTemplateManager()
	if err != nil {
		return nil, err
	}

	return &SMTPService{
		config:    config,
		templates: templates,
	}, nil
}

// SendDailyReport renders and sends the daily attendance report.
func (s *SMTPService) SendDailyReport(ctx context.Context, report *models.DailyReport) error {
	ctx = logging.AppendCtx(ctx, slog.String("report_date", report.Date))

	rendered, err := s.templates.RenderDailyReport(report)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render daily report email", logging.ErrKey, err)
		return err
	}

	subject := fmt.Sprintf("Breakout Room Attendance Report - %s", report.Date)
	message := buildEmailMessage(s.config.Recipients, subject, rendered.HTML, rendered.Text, s.config)
	if err := sendEmailMessage(s.config.Recipients, message, s.config); err != nil {
		slog.ErrorContext(ctx, "failed to send daily report email", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "daily report email sent successfully", "recipients", len(s.config.Recipients))
	return nil
}
