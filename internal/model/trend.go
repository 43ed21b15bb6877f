package model

import "time"

// Trend source labels, in merge priority order (platform-native first).
const (
	SourceTikTok = "tiktok"
	SourceX      = "x"
	SourceGoogle = "google"
)

// SourcePriority returns the merge tie-break rank of a source label.
// Lower ranks win; unknown labels sort last.
func SourcePriority(source string) int {
	switch source {
	case SourceTikTok:
		return 0
	case SourceX:
		return 1
	case SourceGoogle:
		return 2
	default:
		return 3
	}
}

// TrendItem is one trending topic term. Regenerated per fetch, never persisted.
type TrendItem struct {
	Rank     int    `json:"rank"`
	Term     string `json:"term"`
	Source   string `json:"source"`
	Category string `json:"category"`
	Volume   *int   `json:"volume,omitempty"`
}

// TrendsSnapshot is the result of one (possibly cached) trend fetch.
type TrendsSnapshot struct {
	TikTok    []TrendItem `json:"tiktok"`
	X         []TrendItem `json:"x"`
	Google    []TrendItem `json:"google"`
	Merged    []TrendItem `json:"merged"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// EmptyTrendsSnapshot returns a snapshot whose lists serialize as empty
// JSON arrays rather than null, so consumers can always iterate them.
func EmptyTrendsSnapshot(fetchedAt time.Time) *TrendsSnapshot {
	return &TrendsSnapshot{
		TikTok:    []TrendItem{},
		X:         []TrendItem{},
		Google:    []TrendItem{},
		Merged:    []TrendItem{},
		FetchedAt: fetchedAt,
	}
}

// TrendsResponse is the API envelope for GET /api/trends.
type TrendsResponse struct {
	Success   bool            `json:"success"`
	Trends    *TrendsSnapshot `json:"trends"`
	Location  string          `json:"location,omitempty"`
	UpdatedAt string          `json:"updated_at,omitempty"`
}
