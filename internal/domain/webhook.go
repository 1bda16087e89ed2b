// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package domain

// WebhookValidator validates inbound webhook requests.
type WebhookValidator interface {
	// ValidateSignature checks the HMAC signature over the raw body and
	// timestamp header.
	ValidateSignature(body []byte, signature, timestamp string) error

	// GetSecretToken returns the shared secret used for the URL-validation
	// handshake.
	GetSecretToken() string
}
