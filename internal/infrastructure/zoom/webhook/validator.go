// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

// Package webhook contains the Zoom webhook signature validator.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ZoomWebhookValidator handles validation of Zoom webhook signatures
type ZoomWebhookValidator struct {
	secretToken string
}

// NewZoomWebhookValidator creates a new Zoom webhook validator
func NewZoomWebhookValidator(secretToken string) *ZoomWebhookValidator {
	return &ZoomWebhookValidator{
		secretToken: secretToken,
	}
}

// ValidateSignature validates the Zoom webhook signature over the raw body.
// Zoom signs the string "v0:{timestamp}:{body}" with HMAC-SHA256 and sends
// the digest as "v0={hex}".
func (v *ZoomWebhookValidator) ValidateSignature(body []byte, signature, timestamp string) error {
	if v.secretToken == "" {
		return fmt.Errorf("webhook secret token not configured")
	}
	if signature == "" {
		return fmt.Errorf("missing webhook signature")
	}
	if timestamp == "" {
		return fmt.Errorf("missing webhook timestamp")
	}

	message := fmt.Sprintf("v0:%s:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(v.secretToken))
	h.Write([]byte(message))
	expectedSignature := "v0=" + hex.EncodeToString(h.Sum(nil))

	if !hmac.Equal([]byte(signature), []byte(expectedSignature)) {
		return fmt.Errorf("zoom webhook signature does not match expected signature")
	}

	return nil
}

// GetSecretToken returns the configured secret token.
func (v *ZoomWebhookValidator) GetSecretToken() string {
	return v.secretToken
}
