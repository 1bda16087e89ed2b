// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
)

const (
	// qosPageSize is the maximum page size the dashboard QoS API accepts.
	qosPageSize = 10

	// maxQoSPages caps pagination for very large meetings.
	maxQoSPages = 200

	// qosSampleSeconds is the sampling interval of dashboard QoS entries.
	qosSampleSeconds = 60
)

// ParticipantQoS is one participant from the dashboard metrics QoS API with
// the camera-on samples extracted. Each user_qos entry with video output
// bitrate represents one sampling interval where the camera was on.
type ParticipantQoS struct {
	ID              string `json:"id"`
	UserName        string `json:"user_name"`
	Email           string `json:"email"`
	CameraOnSamples int    `json:"camera_on_samples"`
}

// CameraOnSeconds converts the sampled camera-on intervals to seconds.
func (p ParticipantQoS) CameraOnSeconds() int64 {
	return int64(p.CameraOnSamples) * qosSampleSeconds
}

type qosParticipant struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	UserQoS  []struct {
		VideoOutput struct {
			Bitrate string `json:"bitrate"`
		} `json:"video_output"`
	} `json:"user_qos"`
}

type qosResponse struct {
	Participants  []qosParticipant `json:"participants"`
	NextPageToken string           `json:"next_page_token"`
}

// GetMeetingParticipantsQoS fetches per-participant QoS samples from the
// dashboard metrics API. Camera state is derived from video output: samples
// with a bitrate mean the camera was on. Requires a Business+ plan with the
// dashboard_meetings:read:admin scope.
func (c *Client) GetMeetingParticipantsQoS(ctx context.Context, meetingID string) ([]ParticipantQoS, error) {
	if meetingID == "" {
		return nil, fmt.Errorf("meeting id is required")
	}

	// Same double-encoding rule as the past meetings API.
	path := "/metrics/meetings/" + url.QueryEscape(url.QueryEscape(meetingID)) + "/participants/qos"

	var all []ParticipantQoS
	nextPageToken := ""

	for page := 0; page < maxQoSPages; page++ {
		query := url.Values{"page_size": []string{fmt.Sprint(qosPageSize)}}
		if nextPageToken != "" {
			query.Set("next_page_token", nextPageToken)
		}

		var resp qosResponse
		if _, err := c.getJSON(ctx, path, query, &resp); err != nil {
			return nil, err
		}

		for _, p := range resp.Participants {
			qos := ParticipantQoS{
				ID:       p.ID,
				UserName: p.UserName,
				Email:    p.Email,
			}
			for _, entry := range p.UserQoS {
				if entry.VideoOutput.Bitrate != "" {
					qos.CameraOnSamples++
				}
			}
			all = append(all, qos)
		}

		nextPageToken = resp.NextPageToken
		if nextPageToken == "" {
			break
		}
	}

	slog.DebugContext(ctx, "fetched dashboard QoS participants",
		"meeting_id", meetingID, "participants", len(all))
	return all, nil
}
