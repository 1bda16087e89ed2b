// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"strings"

	"github.com/roomscout/attendance-service/internal/domain/models"
)

// BotIdentity is the configured identity of the scout bot account that walks
// breakout rooms during calibration.
type BotIdentity struct {
	Name  string
	Email string
}

// ActorMatcher decides whether a participant event belongs to the calibration
// actor rather than a tracked attendee.
type ActorMatcher interface {
	// IsCalibrationActor matches the scout bot and, during a self-mode run,
	// the participant driving the calibration walk.
	IsCalibrationActor(participant ExtractedParticipant) bool
	// IsScoutBot matches only the dedicated bot account.
	IsScoutBot(participant ExtractedParticipant) bool
}

// CalibrationActorMatcher matches the scout bot always, and the
// self-calibrating participant while a self-mode run is in progress.
type CalibrationActorMatcher struct {
	bot BotIdentity

	// calibrationInfo reports the current calibration mode, the declared
	// actor name, and whether a run is in progress.
	calibrationInfo func() (models.CalibrationMode, string, bool)
}

// NewCalibrationActorMatcher creates a matcher for the given bot identity.
// calibrationInfo supplies the live calibration state at match time.
func NewCalibrationActorMatcher(bot BotIdentity, calibrationInfo func() (models.CalibrationMode, string, bool)) *CalibrationActorMatcher {
	return &CalibrationActorMatcher{bot: bot, calibrationInfo: calibrationInfo}
}

// IsCalibrationActor reports whether the participant is the scout bot or, in
// a self-mode calibration, the participant driving the walk.
func (m *CalibrationActorMatcher) IsCalibrationActor(participant ExtractedParticipant) bool {
	if m.isScoutBot(participant.Name, participant.Email) {
		return true
	}

	if m.calibrationInfo == nil {
		return false
	}
	mode, actorName, inProgress := m.calibrationInfo()
	if !inProgress || mode != models.CalibrationModeSelf {
		return false
	}

	return matchesParticipantName(actorName, participant.Name)
}

// IsScoutBot reports whether the participant is the dedicated bot account.
func (m *CalibrationActorMatcher) IsScoutBot(participant ExtractedParticipant) bool {
	return m.isScoutBot(participant.Name, participant.Email)
}

func (m *CalibrationActorMatcher) isScoutBot(name, email string) bool {
	if email != "" && m.bot.Email != "" && strings.EqualFold(email, m.bot.Email) {
		return true
	}
	if name != "" && m.bot.Name != "" && strings.Contains(strings.ToLower(name), strings.ToLower(m.bot.Name)) {
		return true
	}
	return false
}

// matchesParticipantName fuzzily compares a declared actor name with the name
// reported in a webhook. Display names drift between the client that declares
// the walk and the webhook feed (truncation, appended surnames), so exact,
// substring-in-both-directions and first-token comparisons all count.
func matchesParticipantName(declared, reported string) bool {
	declared = strings.ToLower(strings.TrimSpace(declared))
	reported = strings.ToLower(strings.TrimSpace(reported))
	if declared == "" || reported == "" {
		return false
	}

	if declared == reported {
		return true
	}
	if strings.Contains(reported, declared) || strings.Contains(declared, reported) {
		return true
	}

	declaredFirst := strings.Fields(declared)
	reportedFirst := strings.Fields(reported)
	if len(declaredFirst) > 0 && len(reportedFirst) > 0 && declaredFirst[0] == reportedFirst[0] {
		return true
	}

	return false
}
