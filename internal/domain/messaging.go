// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/roomscout/attendance-service/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// WebhookEventSender handles webhook event publishing.
type WebhookEventSender interface {
	PublishZoomWebhookEvent(ctx context.Context, subject string, message models.ZoomWebhookEventMessage) error
}

// MessageBuilder composes the messaging capabilities the service needs.
type MessageBuilder interface {
	WebhookEventSender
}
