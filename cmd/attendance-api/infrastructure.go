// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"

	"github.com/roomscout/attendance-service/internal/domain"
	"github.com/roomscout/attendance-service/internal/infrastructure/email"
	"github.com/roomscout/attendance-service/internal/infrastructure/zoom"
	"github.com/roomscout/attendance-service/internal/infrastructure/zoom/api"
)

// setupEmailService builds the report email sender. Without an SMTP host and
// at least one recipient the no-op sender is used and reports are only logged.
func setupEmailService(env environment) (domain.EmailService, error) {
	if env.SMTP.Host == "" || len(env.SMTP.Recipients) == 0 {
		slog.Info("SMTP not configured, daily report emails disabled")
		return email.NewNoOpService(), nil
	}

	return email.NewSMTPService(email.SMTPConfig{
		Host:       env.SMTP.Host,
		Port:       env.SMTP.Port,
		From:       env.SMTP.From,
		Recipients: env.SMTP.Recipients,
		Username:   env.SMTP.Username,
		Password:   env.SMTP.Password,
	})
}

// setupZoomPlatform builds the Zoom API adapter used for trailing
// participant and QoS collection.
func setupZoomPlatform(env environment) domain.MeetingPlatformAPI {
	client := api.NewClient(api.Config{
		AccountID:    env.Zoom.AccountID,
		ClientID:     env.Zoom.ClientID,
		ClientSecret: env.Zoom.ClientSecret,
	})
	return zoom.NewPlatformAPI(client)
}
