// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "testing"

func TestNewScoreMetadata(t *testing.T) {
	meta := NewScoreMetadata()

	if meta.MinScore != 1 || meta.MaxScore != 5 {
		t.Errorf("Expected range 1-5, got %d-%d", meta.MinScore, meta.MaxScore)
	}
	if meta.MinChoice != "Hate it" {
		t.Errorf("Expected min choice 'Hate it', got '%s'", meta.MinChoice)
	}
	if meta.MaxChoice != "Love it" {
		t.Errorf("Expected max choice 'Love it', got '%s'", meta.MaxChoice)
	}
	if meta.DefaultScore != DefaultScore {
		t.Errorf("Expected default %d, got %d", DefaultScore, meta.DefaultScore)
	}
	if len(meta.Choices) != len(ScoreChoices()) {
		t.Errorf("Expected %d choices, got %d", len(ScoreChoices()), len(meta.Choices))
	}
	if meta.Choices["3"] != "Indifferent" {
		t.Errorf("Expected choice 3 to be 'Indifferent', got '%s'", meta.Choices["3"])
	}
}

func TestDefaultScoreIsLegal(t *testing.T) {
	if !ValidScore(DefaultScore) {
		t.Errorf("Default score %d is not in the choice set", DefaultScore)
	}
}

func TestValidScore(t *testing.T) {
	tests := []struct {
		score int
		want  bool
	}{
		{0, false},
		{1, true},
		{3, true},
		{5, true},
		{6, false},
		{-1, false},
	}

	for _, tt := range tests {
		if got := ValidScore(tt.score); got != tt.want {
			t.Errorf("ValidScore(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestScoreChoicesReturnsCopy(t *testing.T) {
	choices := ScoreChoices()
	choices[0].Label = "changed"

	if label, _ := ScoreLabel(1); label != "Hate it" {
		t.Errorf("Mutating the returned slice changed the choice set: %s", label)
	}
}
