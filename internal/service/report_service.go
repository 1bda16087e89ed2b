// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/roomscout/attendance-service/internal/domain"
	"github.com/roomscout/attendance-service/internal/domain/models"
	"github.com/roomscout/attendance-service/pkg/utils"
)

// ReportService compiles daily attendance reports from warehouse rows and
// hands them to the email service.
type ReportService struct {
	events  domain.ParticipantEventRepository
	cameras domain.CameraEventRepository
	email   domain.EmailService
	now     func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(
	events domain.ParticipantEventRepository,
	cameras domain.CameraEventRepository,
	email domain.EmailService,
) *ReportService {
	return &ReportService{
		events:  events,
		cameras: cameras,
		email:   email,
		now:     time.Now,
	}
}

// ServiceReady checks if the service is ready to process requests
func (s *ReportService) ServiceReady() bool {
	return s.events != nil && s.cameras != nil
}

// Compile builds the attendance report for a date. date defaults to
// yesterday when empty.
func (s *ReportService) Compile(ctx context.Context, date string) (*models.DailyReport, error) {
	if date == "" {
		date = s.now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	}

	events, err := s.events.ListForDate(ctx, date)
	if err != nil {
		return nil, domain.NewInternalError("failed to load participant events", err)
	}
	cameraEvents, err := s.cameras.ListForDate(ctx, date)
	if err != nil {
		return nil, domain.NewInternalError("failed to load camera events", err)
	}

	rows := map[string]*models.ReportRow{}
	roomNames := map[string]bool{}
	meetingID := ""

	rowFor := func(id, name, email string) *models.ReportRow {
		row, ok := rows[id]
		if !ok {
			row = &models.ReportRow{
				ParticipantName: name,
				Email:           email,
				RoomVisits:      map[string]int{},
			}
			rows[id] = row
		}
		if row.ParticipantName == unknownParticipantName && name != unknownParticipantName {
			row.ParticipantName = name
		}
		if row.Email == "" {
			row.Email = email
		}
		return row
	}

	for _, ev := range events {
		if meetingID == "" && ev.MeetingID != "" {
			meetingID = ev.MeetingID
		}
		row := rowFor(ev.ParticipantID, ev.ParticipantName, ev.Email)

		switch ev.EventType {
		case models.EventParticipantJoined:
			if row.FirstJoin == nil || ev.EventTime.Before(*row.FirstJoin) {
				row.FirstJoin = utils.TimePtr(ev.EventTime)
			}
		case models.EventParticipantLeft:
			if row.LastLeave == nil || ev.EventTime.After(*row.LastLeave) {
				row.LastLeave = utils.TimePtr(ev.EventTime)
			}
		case models.EventBreakoutJoined:
			if ev.RoomName != "" {
				row.RoomVisits[ev.RoomName]++
				roomNames[ev.RoomName] = true
			}
		}
	}

	for _, ev := range cameraEvents {
		if ev.EventType != models.EventCameraOff || ev.DurationSeconds == nil {
			continue
		}
		row := rowFor(ev.ParticipantID, ev.ParticipantName, ev.Email)
		row.CameraOnSeconds += *ev.DurationSeconds
	}

	report := &models.DailyReport{
		Date:        date,
		MeetingID:   meetingID,
		GeneratedAt: s.now().UTC(),
	}
	for _, row := range rows {
		report.Participants = append(report.Participants, *row)
	}
	sort.Slice(report.Participants, func(i, j int) bool {
		return report.Participants[i].ParticipantName < report.Participants[j].ParticipantName
	})
	for name := range roomNames {
		report.RoomNames = append(report.RoomNames, name)
	}
	sort.Strings(report.RoomNames)

	return report, nil
}

// GenerateResult reports a generation run.
type GenerateResult struct {
	Date      string `json:"date"`
	Emailed   bool   `json:"emailed"`
	Rows      int    `json:"rows"`
	RoomCount int    `json:"room_count"`
}

// Generate compiles the report for a date and emails it when an email
// service is configured.
func (s *ReportService) Generate(ctx context.Context, date string) (*GenerateResult, *models.DailyReport, error) {
	report, err := s.Compile(ctx, date)
	if err != nil {
		return nil, nil, err
	}

	result := &GenerateResult{
		Date:      report.Date,
		Rows:      len(report.Participants),
		RoomCount: len(report.RoomNames),
	}

	if s.email != nil {
		if err := s.email.SendDailyReport(ctx, report); err != nil {
			slog.ErrorContext(ctx, "Failed to send daily report", "error", err, "date", report.Date)
			return nil, nil, domain.NewInternalError("failed to send daily report", err)
		}
		result.Emailed = true
	}

	slog.InfoContext(ctx, "Daily report generated", "date", report.Date, "rows", result.Rows, "emailed", result.Emailed)
	return result, report, nil
}
