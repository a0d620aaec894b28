package models

import "time"

// Keyword represents a tracked search phrase and its coverage state.
// The strategic score and matched app are supplied by the external
// scoring/classification process; this service only stores and filters
// on them.
type Keyword struct {
	ID             int64     `json:"id"`
	Term           string    `json:"term"`
	StrategicScore float64   `json:"strategic_score"`
	MatchedApp     *string   `json:"matched_app"`
	PageExists     bool      `json:"page_exists"`
	LastSeen       time.Time `json:"last_seen"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsGap returns true if the keyword still represents an unmet content
// opportunity: no existing app match and no published page.
func (k *Keyword) IsGap() bool {
	return k.MatchedApp == nil && !k.PageExists
}

// KeywordFilter narrows an admin keyword listing. Zero values mean
// "no filter" for the corresponding field.
type KeywordFilter struct {
	UncoveredOnly bool
	MinScore      float64
	Term          string
	Limit         int
}
