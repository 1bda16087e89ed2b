// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/roomscout/attendance-service/internal/logging"
)

const (
	// participantsPageSize is the page size for the past meeting participants APIs.
	participantsPageSize = 300

	// maxParticipantPages is a safety cap on pagination.
	maxParticipantPages = 50
)

// PastParticipant is one row from the past meeting participants report.
// Duration is reported by Zoom in seconds.
type PastParticipant struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	JoinTime  string `json:"join_time"`
	LeaveTime string `json:"leave_time"`
	Duration  int64  `json:"duration"`
}

// DisplayName returns the first non-empty name field.
func (p PastParticipant) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.UserName
}

type pastParticipantsResponse struct {
	Participants  []PastParticipant `json:"participants"`
	NextPageToken string            `json:"next_page_token"`
}

// participantEndpoints builds the candidate URL paths for a meeting UUID.
// Zoom UUIDs containing '/' or starting with '/' must be double URL-encoded;
// plain numeric meeting ids work raw. Each candidate is tried in order until
// one returns participants.
func participantEndpoints(meetingUUID string) []string {
	singleEncoded := url.QueryEscape(meetingUUID)
	doubleEncoded := url.QueryEscape(singleEncoded)

	paths := []string{"/past_meetings/" + doubleEncoded + "/participants"}
	if singleEncoded != doubleEncoded {
		paths = append(paths, "/past_meetings/"+singleEncoded+"/participants")
	}
	if meetingUUID != "" && !strings.ContainsAny(meetingUUID, "/+=") {
		paths = append(paths, "/past_meetings/"+meetingUUID+"/participants")
	}
	paths = append(paths, "/report/meetings/"+singleEncoded+"/participants")
	return paths
}

// GetPastMeetingParticipants fetches all participants of a finished meeting,
// following pagination and falling back across the endpoint variants.
func (c *Client) GetPastMeetingParticipants(ctx context.Context, meetingUUID string) ([]PastParticipant, error) {
	if meetingUUID == "" {
		return nil, fmt.Errorf("meeting uuid is required")
	}

	var lastErr error
	for _, path := range participantEndpoints(meetingUUID) {
		participants, err := c.fetchParticipantPages(ctx, path)
		if err != nil {
			lastErr = err
			slog.DebugContext(ctx, "participant endpoint variant failed, trying next",
				"path", path, logging.ErrKey, err)
			continue
		}
		if len(participants) > 0 {
			slog.InfoContext(ctx, "fetched past meeting participants",
				"path", path, "participants", len(participants))
			return participants, nil
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all participant endpoints failed: %w", lastErr)
	}
	return nil, nil
}

// fetchParticipantPages follows next_page_token until exhausted.
func (c *Client) fetchParticipantPages(ctx context.Context, path string) ([]PastParticipant, error) {
	var all []PastParticipant
	nextPageToken := ""

	for page := 0; page < maxParticipantPages; page++ {
		query := url.Values{"page_size": []string{fmt.Sprint(participantsPageSize)}}
		if nextPageToken != "" {
			query.Set("next_page_token", nextPageToken)
		}

		var resp pastParticipantsResponse
		if _, err := c.getJSON(ctx, path, query, &resp); err != nil {
			return nil, err
		}

		all = append(all, resp.Participants...)
		nextPageToken = resp.NextPageToken
		if nextPageToken == "" {
			break
		}
	}

	return all, nil
}
