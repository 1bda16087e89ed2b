// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		err        error
		expected   bool
	}{
		{name: "retries on network error", err: errors.New("connection refused"), expected: true},
		{name: "retries on 500", statusCode: http.StatusInternalServerError, expected: true},
		{name: "retries on 503", statusCode: http.StatusServiceUnavailable, expected: true},
		{name: "retries on 429", statusCode: http.StatusTooManyRequests, expected: true},
		{name: "does not retry on 400", statusCode: http.StatusBadRequest, expected: false},
		{name: "does not retry on 404", statusCode: http.StatusNotFound, expected: false},
		{name: "does not retry on 200", statusCode: http.StatusOK, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shouldRetry(tt.statusCode, tt.err))
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	client := NewClient(Config{
		AccountID:         "account",
		ClientID:          "client",
		ClientSecret:      "secret",
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	})

	assert.Equal(t, 1*time.Second, client.calculateBackoff(0))

	// Attempt 1 doubles to ~2s with ±25% jitter.
	backoff := client.calculateBackoff(1)
	assert.GreaterOrEqual(t, backoff, 1*time.Second)
	assert.LessOrEqual(t, backoff, 2500*time.Millisecond)

	// Large attempts are capped at max backoff plus jitter.
	backoff = client.calculateBackoff(10)
	assert.LessOrEqual(t, backoff, 12500*time.Millisecond)
}

// newTestClient points a client at a fake API and token server.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"bearer","expires_in":3600}`))
	}))
	t.Cleanup(tokenServer.Close)

	apiServer := httptest.NewServer(handler)
	t.Cleanup(apiServer.Close)

	return NewClient(Config{
		AccountID:      "account",
		ClientID:       "client",
		ClientSecret:   "secret",
		BaseURL:        apiServer.URL,
		AuthURL:        tokenServer.URL,
		MaxRetries:     1,
		InitialBackoff: 1 * time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	})
}

func TestGetPastMeetingParticipantsPagination(t *testing.T) {
	requests := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("next_page_token") == "" {
			_, _ = w.Write([]byte(`{
				"participants": [{"id": "p1", "name": "Alice Johnson", "user_email": "alice@example.com", "duration": 3600}],
				"next_page_token": "page2"
			}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"participants": [{"id": "p2", "user_name": "Bob Smith", "duration": 1800}],
			"next_page_token": ""
		}`))
	})

	participants, err := client.GetPastMeetingParticipants(t.Context(), "123456789")
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, "Alice Johnson", participants[0].DisplayName())
	assert.Equal(t, "Bob Smith", participants[1].DisplayName())
	assert.Equal(t, int64(3600), participants[0].Duration)
	assert.Equal(t, 2, requests)
}

func TestGetPastMeetingParticipantsFallsBackAcrossEndpoints(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if len(paths) < 3 {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code": 3001, "message": "Meeting does not exist"}`))
			return
		}
		_, _ = w.Write([]byte(`{"participants": [{"id": "p1", "name": "Alice Johnson"}]}`))
	})

	// A UUID with a slash produces distinct single- and double-encoded paths.
	participants, err := client.GetPastMeetingParticipants(t.Context(), "abc/def==")
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.GreaterOrEqual(t, len(paths), 3)
}

func TestGetMeetingParticipantsQoSCameraExtraction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("page_size"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"participants": [
				{
					"id": "p1", "user_name": "Alice Johnson", "email": "alice@example.com",
					"user_qos": [
						{"video_output": {"bitrate": "512 kbps"}},
						{"video_output": {"bitrate": ""}},
						{"video_output": {"bitrate": "600 kbps"}}
					]
				},
				{"id": "p2", "user_name": "Bob Smith", "user_qos": [{"video_output": {}}]}
			]
		}`))
	})

	metrics, err := client.GetMeetingParticipantsQoS(t.Context(), "123456789")
	require.NoError(t, err)
	require.Len(t, metrics, 2)
	assert.Equal(t, 2, metrics[0].CameraOnSamples)
	assert.Equal(t, int64(120), metrics[0].CameraOnSeconds())
	assert.Zero(t, metrics[1].CameraOnSamples)
}

func TestGetPastMeetingParticipantsRequiresUUID(t *testing.T) {
	client := NewClient(Config{AccountID: "a", ClientID: "c", ClientSecret: "s"})
	_, err := client.GetPastMeetingParticipants(t.Context(), "")
	assert.Error(t, err)
}
