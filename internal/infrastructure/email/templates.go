// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

// Package email contains the SMTP email infrastructure for delivering the
// daily attendance report.
package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/roomscout/attendance-service/internal/domain/models"
)

//go:embed templates/*
var templateFS embed.FS

// RenderedEmail holds both HTML and text versions of a rendered email
type RenderedEmail struct {
	HTML string
	Text string
}

// TemplateSet holds the HTML and text variants of one email template.
type TemplateSet struct {
	HTML *template.Template
	Text *template.Template
}

// TemplateManager loads and renders the report email templates.
type TemplateManager struct {
	dailyReport TemplateSet
}

// NewTemplateManager creates a new template manager with all templates loaded
func NewTemplateManager() (*TemplateManager, error) {
	htmlTmpl, err := template.ParseFS(templateFS, "templates/daily_report.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load daily report HTML template: %w", err)
	}
	textTmpl, err := template.ParseFS(templateFS, "templates/daily_report.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to load daily report text template: %w", err)
	}

	return &TemplateManager{
		dailyReport: TemplateSet{HTML: htmlTmpl, Text: textTmpl},
	}, nil
}

// reportTemplateRow is one pre-formatted participant row for the templates.
type reportTemplateRow struct {
	Name       string
	Email      string
	FirstJoin  string
	LastLeave  string
	CameraOn   string
	RoomVisits string
}

// reportTemplateData is the root object both templates render.
type reportTemplateData struct {
	Report      *models.DailyReport
	Rows        []reportTemplateRow
	GeneratedAt string
}

// RenderDailyReport renders the daily report into HTML and text bodies.
func (tm *TemplateManager) RenderDailyReport(report *models.DailyReport) (*RenderedEmail, error) {
	data := reportTemplateData{
		Report:      report,
		Rows:        make([]reportTemplateRow, 0, len(report.Participants)),
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
	}
	for _, row := range report.Participants {
		data.Rows = append(data.Rows, reportTemplateRow{
			Name:       row.ParticipantName,
			Email:      row.Email,
			FirstJoin:  formatReportTime(row.FirstJoin),
			LastLeave:  formatReportTime(row.LastLeave),
			CameraOn:   formatCameraDuration(row.CameraOnSeconds),
			RoomVisits: formatRoomVisits(row.RoomVisits),
		})
	}

	var htmlBuf bytes.Buffer
	if err := tm.dailyReport.HTML.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render daily report HTML: %w", err)
	}
	var textBuf bytes.Buffer
	if err := tm.dailyReport.Text.Execute(&textBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render daily report text: %w", err)
	}

	return &RenderedEmail{HTML: htmlBuf.String(), Text: textBuf.String()}, nil
}

func formatReportTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format("15:04:05")
}

func formatCameraDuration(seconds int64) string {
	if seconds <= 0 {
		return "-"
	}
	d := time.Duration(seconds) * time.Second
	return d.String()
}

func formatRoomVisits(visits map[string]int) string {
	if len(visits) == 0 {
		return "-"
	}
	names := make([]string, 0, len(visits))
	for name := range visits {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s (%d)", name, visits[name]))
	}
	return strings.Join(parts, ", ")
}
