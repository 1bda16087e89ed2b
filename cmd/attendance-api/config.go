// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/roomscout/attendance-service/internal/logging"
)

// flags are the command line flags for the attendance service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the attendance service.
type environment struct {
	Port                   string
	WarehousePath          string
	NatsURL                string
	ReferenceTimezone      string
	ZoomWebhookSecretToken string
	Zoom                   zoomConfig
	ScoutBotName           string
	ScoutBotEmail          string
	SMTP                   smtpConfig
}

// zoomConfig holds the Zoom Server-to-Server OAuth credentials.
type zoomConfig struct {
	AccountID    string
	ClientID     string
	ClientSecret string
}

// smtpConfig holds the outbound report email configuration. All fields are
// optional; without a host and recipients the service logs reports instead of
// emailing them.
type smtpConfig struct {
	Host       string
	Port       int
	From       string
	Recipients []string
	Username   string
	Password   string
}

// parseFlags parses command line flags for the attendance service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv parses environment variables for the attendance service
func parseEnv() environment {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	warehousePath := os.Getenv("WAREHOUSE_PATH")
	if warehousePath == "" {
		warehousePath = "attendance.duckdb"
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	referenceTimezone := os.Getenv("REFERENCE_TIMEZONE")
	if referenceTimezone == "" {
		referenceTimezone = "UTC"
	}

	webhookSecretToken := os.Getenv("ZOOM_WEBHOOK_SECRET_TOKEN")
	if webhookSecretToken == "" {
		slog.Error("ZOOM_WEBHOOK_SECRET_TOKEN environment variable is required but not set")
		os.Exit(1)
	}

	scoutBotName := os.Getenv("SCOUT_BOT_NAME")
	if scoutBotName == "" {
		scoutBotName = "RoomScout Bot"
	}

	return environment{
		Port:                   port,
		WarehousePath:          warehousePath,
		NatsURL:                natsURL,
		ReferenceTimezone:      referenceTimezone,
		ZoomWebhookSecretToken: webhookSecretToken,
		Zoom:                   parseZoomConfig(),
		ScoutBotName:           scoutBotName,
		ScoutBotEmail:          os.Getenv("SCOUT_BOT_EMAIL"),
		SMTP:                   parseSMTPConfig(),
	}
}

// parseZoomConfig parses the Zoom API credentials from environment variables
func parseZoomConfig() zoomConfig {
	accountID := os.Getenv("ZOOM_ACCOUNT_ID")
	if accountID == "" {
		slog.Error("ZOOM_ACCOUNT_ID environment variable is required but not set")
		os.Exit(1)
	}

	clientID := os.Getenv("ZOOM_CLIENT_ID")
	if clientID == "" {
		slog.Error("ZOOM_CLIENT_ID environment variable is required but not set")
		os.Exit(1)
	}

	clientSecret := os.Getenv("ZOOM_CLIENT_SECRET")
	if clientSecret == "" {
		slog.Error("ZOOM_CLIENT_SECRET environment variable is required but not set")
		os.Exit(1)
	}

	return zoomConfig{
		AccountID:    accountID,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}
}

// parseSMTPConfig parses the report email configuration from environment variables
func parseSMTPConfig() smtpConfig {
	port := 587
	if portRaw := os.Getenv("SMTP_PORT"); portRaw != "" {
		parsed, err := strconv.Atoi(portRaw)
		if err != nil {
			slog.With(logging.ErrKey, err, "port", portRaw).Error("invalid SMTP_PORT provided, using default")
		} else {
			port = parsed
		}
	}

	var recipients []string
	for _, recipient := range strings.Split(os.Getenv("REPORT_RECIPIENTS"), ",") {
		recipient = strings.TrimSpace(recipient)
		if recipient != "" {
			recipients = append(recipients, recipient)
		}
	}

	return smtpConfig{
		Host:       os.Getenv("SMTP_HOST"),
		Port:       port,
		From:       os.Getenv("SMTP_FROM"),
		Recipients: recipients,
		Username:   os.Getenv("SMTP_USERNAME"),
		Password:   os.Getenv("SMTP_PASSWORD"),
	}
}
