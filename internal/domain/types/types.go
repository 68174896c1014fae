// Package types contains the read shapes shared by the service and the API.
package types

import "time"

// Entry is one row of a ranking.
type Entry struct {
	Rank              int     `json:"rank"`
	CompetitorID      string  `json:"competitor_id"`
	FullName          string  `json:"full_name"`
	Team              string  `json:"team,omitempty"`
	Sector            string  `json:"sector"`
	BoxNumber         int     `json:"box_number"`
	BoxCode           string  `json:"box_code,omitempty"`
	FishCount         int     `json:"fish_count"`
	TotalWeight       float64 `json:"total_weight"`
	BiggestCatch      float64 `json:"biggest_catch"`
	Points            float64 `json:"points"`
	SectorCoefficient float64 `json:"sector_coefficient"`
}

// Standings groups the general ranking and the per-sector rankings.
type Standings struct {
	ComputedAt time.Time          `json:"computed_at"`
	General    []Entry            `json:"general,omitempty"`
	Sectors    map[string][]Entry `json:"sectors"`
}

// Summary reports one recomputation run.
type Summary struct {
	RunID     string        `json:"run_id"`
	Success   bool          `json:"success"`
	Processed int           `json:"processed"`
	Updated   int           `json:"updated"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"errors"`
	Details   []string      `json:"details"`
	Warnings  []string      `json:"warnings,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}

// MigrationSummary reports one big-catch field migration run.
type MigrationSummary struct {
	RunID     string        `json:"run_id"`
	Success   bool          `json:"success"`
	Processed int           `json:"processed"`
	Migrated  int           `json:"migrated"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"errors"`
	Details   []string      `json:"details"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}
