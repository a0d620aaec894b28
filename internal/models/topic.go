package models

import "time"

// Topic status constants
const (
	TopicPlanned    = "planned"
	TopicInProgress = "in_progress"
	TopicPublished  = "published"
	TopicArchived   = "archived"
)

// Topic is a configured unit of content work spanning one or more
// related search queries.
type Topic struct {
	ID            int64     `json:"id"`
	Label         string    `json:"label"`
	SearchQueries []string  `json:"search_queries"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	StandaloneURL string    `json:"standalone_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ValidTopicStatus reports whether s is one of the known lifecycle states.
func ValidTopicStatus(s string) bool {
	switch s {
	case TopicPlanned, TopicInProgress, TopicPublished, TopicArchived:
		return true
	}
	return false
}
