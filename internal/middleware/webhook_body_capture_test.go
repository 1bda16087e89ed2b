// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookBodyCaptureMiddleware(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "captures webhook request body",
			body: `{"event": "meeting.participant_joined", "payload": {"object": {"id": "123"}}}`,
		},
		{
			name: "handles empty body",
			body: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var downstreamBody []byte
			var bodyFromContext []byte
			var contextHasBody bool

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				bodyFromContext, contextHasBody = WebhookBodyFromContext(r.Context())

				// The body must still be readable after capture.
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				downstreamBody = body

				w.WriteHeader(http.StatusOK)
			})

			wrappedHandler := WebhookBodyCaptureMiddleware(handler)

			req := httptest.NewRequest("POST", "/webhook", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			wrappedHandler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.body, string(downstreamBody))
			assert.True(t, contextHasBody)
			assert.Equal(t, tt.body, string(bodyFromContext))
		})
	}
}

func TestWebhookBodyFromContext(t *testing.T) {
	tests := []struct {
		name          string
		setupContext  func() context.Context
		expectedBody  []byte
		expectedFound bool
	}{
		{
			name: "returns body when present in context",
			setupContext: func() context.Context {
				body := []byte(`{"test": "data"}`)
				return context.WithValue(context.Background(), webhookBodyContextKey{}, body)
			},
			expectedBody:  []byte(`{"test": "data"}`),
			expectedFound: true,
		},
		{
			name: "returns false when body not in context",
			setupContext: func() context.Context {
				return context.Background()
			},
			expectedBody:  nil,
			expectedFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.setupContext()
			body, found := WebhookBodyFromContext(ctx)

			assert.Equal(t, tt.expectedFound, found)
			assert.Equal(t, tt.expectedBody, body)
		})
	}
}
