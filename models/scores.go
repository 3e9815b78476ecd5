// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "strconv"

// ScoreChoice is one legal value of Grade.Score.
type ScoreChoice struct {
	Value int
	Label string
}

// DefaultScore is the score a slider starts at before a homebuyer grades.
const DefaultScore = 3

// scoreChoices is ordered by value.
var scoreChoices = [...]ScoreChoice{
	{1, "Hate it"},
	{2, "Dislike it"},
	{3, "Indifferent"},
	{4, "Like it"},
	{5, "Love it"},
}

// ScoreChoices returns the ordered choice set.
func ScoreChoices() []ScoreChoice {
	out := make([]ScoreChoice, len(scoreChoices))
	copy(out, scoreChoices[:])
	return out
}

// ValidScore reports whether v is one of the legal choices.
func ValidScore(v int) bool {
	_, ok := ScoreLabel(v)
	return ok
}

// ScoreLabel returns the label of a legal score.
func ScoreLabel(v int) (string, bool) {
	for _, c := range scoreChoices {
		if c.Value == v {
			return c.Label, true
		}
	}
	return "", false
}

// ScoreMetadata describes the choice set for clients drawing a slider.
type ScoreMetadata struct {
	MinScore     int               `json:"min_score"`
	MaxScore     int               `json:"max_score"`
	MinChoice    string            `json:"min_choice"`
	MaxChoice    string            `json:"max_choice"`
	DefaultScore int               `json:"default_score"`
	Choices      map[string]string `json:"choices"`
}

// NewScoreMetadata derives min/max and labels from the choice set.
func NewScoreMetadata() ScoreMetadata {
	meta := ScoreMetadata{
		MinScore:     scoreChoices[0].Value,
		MaxScore:     scoreChoices[0].Value,
		DefaultScore: DefaultScore,
		Choices:      make(map[string]string, len(scoreChoices)),
	}
	for _, c := range scoreChoices {
		if c.Value < meta.MinScore {
			meta.MinScore = c.Value
		}
		if c.Value > meta.MaxScore {
			meta.MaxScore = c.Value
		}
		meta.Choices[strconv.Itoa(c.Value)] = c.Label
	}
	meta.MinChoice, _ = ScoreLabel(meta.MinScore)
	meta.MaxChoice, _ = ScoreLabel(meta.MaxScore)
	return meta
}
