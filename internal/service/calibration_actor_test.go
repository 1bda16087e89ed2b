// Copyright The RoomScout Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roomscout/attendance-service/internal/domain/models"
)

func staticCalibrationInfo(mode models.CalibrationMode, actor string, inProgress bool) func() (models.CalibrationMode, string, bool) {
	return func() (models.CalibrationMode, string, bool) {
		return mode, actor, inProgress
	}
}

func TestIsScoutBot(t *testing.T) {
	matcher := NewCalibrationActorMatcher(
		BotIdentity{Name: "RoomScout Bot", Email: "bot@roomscout.example"},
		nil,
	)

	tests := []struct {
		name        string
		participant ExtractedParticipant
		expected    bool
	}{
		{"exact email match", ExtractedParticipant{Name: "Whatever", Email: "bot@roomscout.example"}, true},
		{"email match is case insensitive", ExtractedParticipant{Email: "Bot@RoomScout.Example"}, true},
		{"name containment", ExtractedParticipant{Name: "roomscout bot (calibrating)"}, true},
		{"regular participant", ExtractedParticipant{Name: "Alice", Email: "alice@example.com"}, false},
		{"empty identity", ExtractedParticipant{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, matcher.IsScoutBot(tc.participant))
		})
	}
}

func TestIsCalibrationActorSelfMode(t *testing.T) {
	bot := BotIdentity{Name: "RoomScout Bot"}

	// Self calibration in progress: the declared actor matches fuzzily.
	matcher := NewCalibrationActorMatcher(bot, staticCalibrationInfo(models.CalibrationModeSelf, "Jane Doe", true))
	assert.True(t, matcher.IsCalibrationActor(ExtractedParticipant{Name: "Jane Doe"}))
	assert.True(t, matcher.IsCalibrationActor(ExtractedParticipant{Name: "jane doe (host)"}))
	assert.True(t, matcher.IsCalibrationActor(ExtractedParticipant{Name: "Jane Smith"}), "first token match")
	assert.False(t, matcher.IsCalibrationActor(ExtractedParticipant{Name: "Bob"}))

	// Run finished: only the bot matches.
	matcher = NewCalibrationActorMatcher(bot, staticCalibrationInfo(models.CalibrationModeSelf, "Jane Doe", false))
	assert.False(t, matcher.IsCalibrationActor(ExtractedParticipant{Name: "Jane Doe"}))
	assert.True(t, matcher.IsCalibrationActor(ExtractedParticipant{Name: "RoomScout Bot"}))

	// Scout-bot mode run: the declared actor is irrelevant.
	matcher = NewCalibrationActorMatcher(bot, staticCalibrationInfo(models.CalibrationModeScoutBot, "Jane Doe", true))
	assert.False(t, matcher.IsCalibrationActor(ExtractedParticipant{Name: "Jane Doe"}))
}

func TestMatchesParticipantName(t *testing.T) {
	tests := []struct {
		declared string
		reported string
		expected bool
	}{
		{"Jane Doe", "Jane Doe", true},
		{"jane doe", "JANE DOE", true},
		{"Jane", "Jane Doe", true},
		{"Jane Doe", "Jane", true},
		{"Jane Doe", "Jane Smith", true},
		{"Jane Doe", "Bob Smith", false},
		{"", "Jane", false},
		{"Jane", "", false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, matchesParticipantName(tc.declared, tc.reported),
			"declared=%q reported=%q", tc.declared, tc.reported)
	}
}
