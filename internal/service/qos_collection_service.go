// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roomscout/attendance-service/internal/domain"
	"github.com/roomscout/attendance-service/internal/domain/models"
	"github.com/roomscout/attendance-service/pkg/concurrent"
	"github.com/roomscout/attendance-service/pkg/utils"
)

const (
	// trailingCollectionDelay gives Zoom time to finalize post-meeting data
	// before the participant and dashboard APIs are queried.
	trailingCollectionDelay = 30 * time.Second

	// qosAlreadyCollectedThreshold is the row count above which a meeting is
	// considered already collected by the scheduled sweep.
	qosAlreadyCollectedThreshold = 50

	// qosRetentionDays is how many days of QoS rows the scheduled sweep keeps.
	qosRetentionDays = 2

	qosInsertWorkers = 4
)

// QoSCollectionService collects trailing per-participant metrics for finished
// meetings from the platform APIs and lands them in the warehouse.
type QoSCollectionService struct {
	platform  domain.MeetingPlatformAPI
	qosRepo   domain.QoSRepository
	events    domain.ParticipantEventRepository
	scheduler domain.TaskScheduler
	pool      *concurrent.WorkerPool
	now       func() time.Time
}

// NewQoSCollectionService creates a new QoSCollectionService
func NewQoSCollectionService(
	platform domain.MeetingPlatformAPI,
	qosRepo domain.QoSRepository,
	events domain.ParticipantEventRepository,
	scheduler domain.TaskScheduler,
) *QoSCollectionService {
	return &QoSCollectionService{
		platform:  platform,
		qosRepo:   qosRepo,
		events:    events,
		scheduler: scheduler,
		pool:      concurrent.NewWorkerPool(qosInsertWorkers),
		now:       time.Now,
	}
}

// ServiceReady checks if the service is ready to process requests
func (s *QoSCollectionService) ServiceReady() bool {
	return s.platform != nil && s.qosRepo != nil && s.events != nil && s.scheduler != nil
}

// CollectPreviousMeeting schedules trailing collection for a meeting that
// just finished or rotated out. Fire-and-forget; failures are logged.
func (s *QoSCollectionService) CollectPreviousMeeting(ctx context.Context, meetingUUID, meetingID string) {
	name := fmt.Sprintf("qos-collect-%s", meetingUUID)
	s.scheduler.Defer(ctx, name, trailingCollectionDelay, func(taskCtx context.Context) error {
		_, err := s.Collect(taskCtx, meetingUUID, meetingID)
		return err
	})
}

// CollectionResult reports one collection run.
type CollectionResult struct {
	MeetingUUID string `json:"meeting_uuid"`
	Collected   int    `json:"collected"`
	Errors      int    `json:"errors"`
}

// Collect fetches the participant report and dashboard camera metrics for a
// finished meeting and inserts one QoS row per participant.
func (s *QoSCollectionService) Collect(ctx context.Context, meetingUUID, meetingID string) (*CollectionResult, error) {
	if meetingUUID == "" && meetingID == "" {
		return nil, domain.NewValidationError("meeting uuid or id is required")
	}

	logger := slog.With("component", "qos_collection_service", "meeting_uuid", meetingUUID)

	// Dashboard camera metrics are only available shortly after the meeting;
	// a failure here is non-fatal.
	cameraByParticipant := map[string]*domain.ParticipantQoS{}
	qosKey := utils.CoalesceString(meetingID, meetingUUID)
	if cameraMetrics, err := s.platform.ParticipantsQoS(ctx, qosKey); err != nil {
		logger.WarnContext(ctx, "Dashboard QoS collection failed", "error", err)
	} else {
		for _, cm := range cameraMetrics {
			cameraByParticipant[cameraKey(cm.Name, cm.Email)] = cm
		}
		logger.InfoContext(ctx, "Collected dashboard camera metrics", "participants", len(cameraByParticipant))
	}

	participants, err := s.platform.PastMeetingParticipants(ctx, meetingUUID)
	if (err != nil || len(participants) == 0) && meetingID != "" && meetingID != meetingUUID {
		participants, err = s.platform.PastMeetingParticipants(ctx, meetingID)
	}
	if err != nil {
		return nil, domain.NewUnavailableError("failed to fetch past meeting participants", err)
	}
	if len(participants) == 0 {
		logger.WarnContext(ctx, "No participants found for finished meeting")
		return &CollectionResult{MeetingUUID: meetingUUID}, nil
	}

	collectedAt := s.now().UTC()
	date := collectedAt.Format("2006-01-02")

	inserts := make([]func() error, 0, len(participants))
	for _, p := range participants {
		record := &models.QoSRecord{
			ID:              uuid.New().String(),
			MeetingUUID:     meetingUUID,
			Date:            date,
			ParticipantID:   p.ID,
			ParticipantName: p.Name,
			Email:           p.Email,
			JoinTime:        p.JoinTime,
			LeaveTime:       p.LeaveTime,
			DurationSeconds: p.DurationSeconds,
			CollectedAt:     collectedAt,
		}
		if record.ParticipantID == "" {
			record.ParticipantID = p.UserID
		}
		if cm, ok := cameraByParticipant[cameraKey(p.Name, p.Email)]; ok {
			record.CameraOnSeconds = cm.CameraOnSeconds
			record.CameraOnObserved = cm.CameraObserved
		}
		inserts = append(inserts, func() error {
			return s.qosRepo.Insert(ctx, record)
		})
	}

	errs := s.pool.RunAll(ctx, inserts...)
	for _, insertErr := range errs {
		logger.ErrorContext(ctx, "Failed to insert QoS record", "error", insertErr)
	}

	result := &CollectionResult{
		MeetingUUID: meetingUUID,
		Collected:   len(inserts) - len(errs),
		Errors:      len(errs),
	}
	logger.InfoContext(ctx, "QoS collection complete", "collected", result.Collected, "errors", result.Errors)
	return result, nil
}

// ScheduledSweepResult reports a scheduled collection sweep.
type ScheduledSweepResult struct {
	Date      string   `json:"date"`
	Meetings  []string `json:"meetings"`
	Collected int      `json:"collected"`
	Skipped   int      `json:"skipped"`
	Pruned    int64    `json:"pruned"`
}

// CollectScheduled sweeps the given date (yesterday when empty): every
// meeting uuid seen in that day's attendance events is collected unless rows
// for it already exist, and QoS rows older than the retention window are
// pruned.
func (s *QoSCollectionService) CollectScheduled(ctx context.Context, date string) (*ScheduledSweepResult, error) {
	if date == "" {
		date = s.now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	}

	logger := slog.With("component", "qos_collection_service", "date", date)

	uuids, err := s.events.MeetingUUIDsForDate(ctx, date)
	if err != nil {
		return nil, domain.NewInternalError("failed to list meeting uuids for date", err)
	}

	result := &ScheduledSweepResult{Date: date, Meetings: uuids}
	for _, meetingUUID := range uuids {
		if meetingUUID == "" {
			continue
		}
		count, err := s.qosRepo.CountForMeeting(ctx, meetingUUID)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to count existing QoS rows", "error", err, "meeting_uuid", meetingUUID)
			continue
		}
		if count > qosAlreadyCollectedThreshold {
			logger.InfoContext(ctx, "Skipping already collected meeting", "meeting_uuid", meetingUUID, "rows", count)
			result.Skipped++
			continue
		}
		if _, err := s.Collect(ctx, meetingUUID, ""); err != nil {
			logger.ErrorContext(ctx, "Scheduled collection failed", "error", err, "meeting_uuid", meetingUUID)
			continue
		}
		result.Collected++
	}

	cutoff := s.now().UTC().AddDate(0, 0, -qosRetentionDays).Format("2006-01-02")
	pruned, err := s.qosRepo.DeleteBefore(ctx, cutoff)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to prune old QoS rows", "error", err, "cutoff", cutoff)
	} else {
		result.Pruned = pruned
	}

	return result, nil
}

func cameraKey(name, email string) string {
	return strings.ToLower(name + "|" + email)
}
