// Package types contains common types used across the application
package types

import "github.com/okian/aigi/internal/domain/model"

// Entry represents a leaderboard entry
type Entry struct {
	Rank              int         `json:"rank"`
	Name              string      `json:"name"`
	Tier              model.Tier  `json:"tier"`
	ModelScore        model.Value `json:"model_score"`
	IntelligenceScore model.Value `json:"intelligence_score"`
	AdoptionScore     model.Value `json:"adoption_score"`
	MomentumScore     model.Value `json:"momentum_score"`
}

// CIS is the headline figure of the latest snapshot.
type CIS struct {
	RunID         string  `json:"run_id,omitempty"`
	EpochID       string  `json:"epoch_id"`
	Timestamp     string  `json:"timestamp"`
	CIS           float64 `json:"cis"`
	ModelsCount   int     `json:"models_count"`
	EngineVersion string  `json:"engine_version"`
	SHA256        string  `json:"sha256"`
	Filename      string  `json:"filename,omitempty"`
	Path          string  `json:"path,omitempty"`
	Tiers         []Tier  `json:"tiers,omitempty"`
}

// Tier is one tier's share of the CIS.
type Tier struct {
	Tier         model.Tier `json:"tier"`
	Weight       float64    `json:"weight"`
	Members      int        `json:"members"`
	Mean         float64    `json:"mean"`
	Contribution float64    `json:"contribution"`
}
