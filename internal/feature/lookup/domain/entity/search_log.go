package entity

import "time"

// SearchLog は完了したlookup 1件分の記録です。
type SearchLog struct {
	ID         string
	RequestID  string
	Query      string
	Brand      string
	Category   string
	Outcome    Outcome
	MatchCount int
	Duration   time.Duration
	CreatedAt  time.Time
}
