package models

import "time"

// Prediction strength tags.
const (
	StrengthHigh     = "High"
	StrengthModerate = "Moderate"
)

// HighConfidenceThreshold is the confidence above which a prediction is tagged High.
const HighConfidenceThreshold = 65

// ClassProbability is the classifier's probability for one label.
type ClassProbability struct {
	Label       int     `json:"label"`
	Probability float64 `json:"probability"`
}

// MatchPrediction is the outcome of one pre-match prediction
type MatchPrediction struct {
	ID            string             `json:"id"`
	Label         int                `json:"label"`  // 1 = first team wins, 0 = second team wins
	Winner        string             `json:"winner"` // "Team 1" or "Team 2"
	Confidence    int                `json:"confidence"`
	Strength      string             `json:"strength"`
	Probabilities []ClassProbability `json:"probabilities"`
	FeatureCount  int                `json:"feature_count"`
	CreatedAt     time.Time          `json:"created_at"`
}

// FirstTeamWins reports whether the first-team card should be shown.
func (p *MatchPrediction) FirstTeamWins() bool {
	return p.Label == 1
}

// BatchPredictions holds predictions in request order
type BatchPredictions struct {
	Predictions []*MatchPrediction `json:"predictions"`
}
