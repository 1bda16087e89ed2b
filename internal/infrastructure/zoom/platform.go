// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

// Package zoom adapts the Zoom REST API to the platform interface consumed by
// the trailing collection service.
package zoom

import (
	"context"
	"log/slog"
	"time"

	"github.com/roomscout/attendance-service/internal/domain"
	"github.com/roomscout/attendance-service/internal/infrastructure/zoom/api"
	"github.com/roomscout/attendance-service/internal/logging"
)

// PlatformAPI implements [domain.MeetingPlatformAPI] over the Zoom client.
type PlatformAPI struct {
	client api.ClientAPI
}

// NewPlatformAPI creates a new PlatformAPI
func NewPlatformAPI(client api.ClientAPI) *PlatformAPI {
	return &PlatformAPI{client: client}
}

// PastMeetingParticipants fetches the participant report for a finished
// meeting and converts it to domain participants.
func (p *PlatformAPI) PastMeetingParticipants(ctx context.Context, meetingUUID string) ([]*domain.PastParticipant, error) {
	raw, err := p.client.GetPastMeetingParticipants(ctx, meetingUUID)
	if err != nil {
		return nil, domain.NewUnavailableError("failed to fetch past meeting participants", err)
	}

	participants := make([]*domain.PastParticipant, 0, len(raw))
	for _, rp := range raw {
		participants = append(participants, &domain.PastParticipant{
			ID:              rp.ID,
			UserID:          rp.UserID,
			Name:            rp.DisplayName(),
			Email:           rp.UserEmail,
			JoinTime:        parseZoomTime(ctx, rp.JoinTime),
			LeaveTime:       parseZoomTime(ctx, rp.LeaveTime),
			DurationSeconds: rp.Duration,
		})
	}
	return participants, nil
}

// ParticipantsQoS fetches dashboard camera metrics for a meeting.
func (p *PlatformAPI) ParticipantsQoS(ctx context.Context, meetingUUID string) ([]*domain.ParticipantQoS, error) {
	raw, err := p.client.GetMeetingParticipantsQoS(ctx, meetingUUID)
	if err != nil {
		return nil, domain.NewUnavailableError("failed to fetch participant QoS metrics", err)
	}

	metrics := make([]*domain.ParticipantQoS, 0, len(raw))
	for _, rq := range raw {
		metrics = append(metrics, &domain.ParticipantQoS{
			ParticipantID:   rq.ID,
			Name:            rq.UserName,
			Email:           rq.Email,
			CameraOnSeconds: rq.CameraOnSeconds(),
			CameraObserved:  rq.CameraOnSamples > 0,
		})
	}
	return metrics, nil
}

// parseZoomTime parses the RFC3339 timestamps the Zoom report APIs return.
// Unparseable values log and return the zero time instead of failing the
// whole collection.
func parseZoomTime(ctx context.Context, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		slog.WarnContext(ctx, "unparseable timestamp in Zoom response", "value", value, logging.ErrKey, err)
		return time.Time{}
	}
	return t.UTC()
}
