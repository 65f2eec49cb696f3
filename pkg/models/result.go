package models

import "time"

// DiscoveredScript is one recognized tag-management script found during a
// crawl run. Identity is the normalized URL.
type DiscoveredScript struct {
	URL          string    `json:"url"`
	DiscoveredAt time.Time `json:"discoveredAt"`
}

// ExtractionResult is the outcome of a single-script extraction.
type ExtractionResult struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Container   *Container `json:"container"`
	ExtractedAt time.Time  `json:"extractedAt"`
}

// ScriptRecord is the per-script success/failure record of a recursive
// run. Error carries the failure message when Success is false.
type ScriptRecord struct {
	URL       string `json:"url"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	RuleCount int    `json:"ruleCount"`
}

// MergedResult is the outcome of a recursive run: the ordered list of
// source script URLs, the merged container and one record per discovered
// script.
type MergedResult struct {
	ID        string         `json:"id"`
	StartURL  string         `json:"startUrl"`
	Sources   []string       `json:"sources"`
	Container *Container     `json:"container"`
	Scripts   []ScriptRecord `json:"scripts"`
}
