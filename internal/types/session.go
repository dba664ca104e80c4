package types

import (
	"time"

	"github.com/google/uuid"
)

// SessionMatchSummary is the compact per-job summary stored in a matching
// session. Full job records are re-fetched on session retrieval.
type SessionMatchSummary struct {
	JobID          uuid.UUID           `json:"job_id"`
	JobTitle       string              `json:"job_title"`
	MatchScore     int                 `json:"match_score"`
	Recommendation MatchRecommendation `json:"recommendation"`
}

// MatchingSession is the summarized, time-limited record of one matching
// run. The cache may physically retain a session past ExpiresAt; readers
// must check Expired explicitly instead of trusting storage-level eviction.
type MatchingSession struct {
	SessionID string    `json:"session_id"`
	CompanyID uuid.UUID `json:"company_id"`
	UserID    uuid.UUID `json:"user_id,omitempty"`

	MatchesFound      int                   `json:"matches_found"`
	TopMatches        []SessionMatchSummary `json:"top_matches"`
	Method            MatchMethod           `json:"method"`
	ProcessingTime    time.Duration         `json:"processing_time"`
	TotalJobsAnalyzed int                   `json:"total_jobs_analyzed"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session's logical TTL has passed at now.
func (s *MatchingSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
