// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signBody(secret, timestamp string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(fmt.Sprintf("v0:%s:%s", timestamp, body)))
	return "v0=" + hex.EncodeToString(h.Sum(nil))
}

func TestValidateSignature(t *testing.T) {
	secret := "test-secret-token"
	body := []byte(`{"event":"meeting.participant_joined","payload":{}}`)
	timestamp := "1757000000"

	validator := NewZoomWebhookValidator(secret)

	t.Run("accepts valid signature", func(t *testing.T) {
		err := validator.ValidateSignature(body, signBody(secret, timestamp, body), timestamp)
		assert.NoError(t, err)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		err := validator.ValidateSignature(body, signBody("other-secret", timestamp, body), timestamp)
		assert.Error(t, err)
	})

	t.Run("rejects tampered body", func(t *testing.T) {
		signature := signBody(secret, timestamp, body)
		err := validator.ValidateSignature([]byte(`{"event":"tampered"}`), signature, timestamp)
		assert.Error(t, err)
	})

	t.Run("rejects missing signature", func(t *testing.T) {
		err := validator.ValidateSignature(body, "", timestamp)
		assert.Error(t, err)
	})

	t.Run("rejects missing timestamp", func(t *testing.T) {
		err := validator.ValidateSignature(body, signBody(secret, timestamp, body), "")
		assert.Error(t, err)
	})

	t.Run("rejects unconfigured secret", func(t *testing.T) {
		unconfigured := NewZoomWebhookValidator("")
		err := unconfigured.ValidateSignature(body, signBody(secret, timestamp, body), timestamp)
		assert.Error(t, err)
	})
}

func TestGetSecretToken(t *testing.T) {
	validator := NewZoomWebhookValidator("abc123")
	assert.Equal(t, "abc123", validator.GetSecretToken())
}
