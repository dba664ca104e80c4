package types

import (
	"time"

	"github.com/google/uuid"
)

// MatchRecommendation is the per-job recommendation produced by the matcher.
type MatchRecommendation string

// Match recommendation bands.
const (
	StrongMatch   MatchRecommendation = "strong-match"
	GoodMatch     MatchRecommendation = "good-match"
	PossibleMatch MatchRecommendation = "possible-match"
	PoorMatch     MatchRecommendation = "poor-match"
)

// MatchRecommendationForScore bands a 0-100 match score. The banding is
// shared by all matcher tiers.
func MatchRecommendationForScore(score int) MatchRecommendation {
	switch {
	case score >= 85:
		return StrongMatch
	case score >= 70:
		return GoodMatch
	case score >= 50:
		return PossibleMatch
	default:
		return PoorMatch
	}
}

// Confidence is the matcher's confidence tier for one result.
type Confidence string

// Confidence tiers.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ConfidenceForScore derives a confidence tier from a score alone. Used for
// cache hits and heuristic scores, where no fresh reasoning was computed.
func ConfidenceForScore(score int) Confidence {
	switch {
	case score >= 85:
		return ConfidenceHigh
	case score >= 70:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// MatchMethod reports which tier produced a matching run's results.
type MatchMethod string

// Match methods, in decreasing precedence of how they are reported.
const (
	MethodCached     MatchMethod = "cached"
	MethodEnhanced   MatchMethod = "llm-enhanced"
	MethodTitleBased MatchMethod = "title-based"
)

// UserMatchingProfile is the ephemeral candidate profile a matching run
// operates on. UserID is only used to look up cached scores and may be nil.
type UserMatchingProfile struct {
	ResumeText string
	Interests  []string
	UserID     uuid.UUID
}

// MatchingConfig carries the matcher's tuning knobs. DefaultMatchingConfig
// returns the standard settings; a zero value disables caching and
// enhancement entirely.
type MatchingConfig struct {
	// MinScoreThreshold is advisory: all jobs are returned regardless, so
	// callers can render the full ranked list.
	MinScoreThreshold int
	// MaxResults truncates the sorted result list. 0 means unlimited.
	MaxResults int
	UseCachedScores   bool
	UseLLMEnhancement bool
	// EnhancementLimit bounds how many top matches one enhancement call
	// re-scores.
	EnhancementLimit int
}

// DefaultMatchingConfig returns the matcher defaults.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		MinScoreThreshold: 30,
		UseCachedScores:   true,
		EnhancementLimit:  5,
	}
}

// MatchDetails carries the sub-scores behind one match result.
type MatchDetails struct {
	TitleMatch        int        `json:"title_match"`
	InterestAlignment string     `json:"interest_alignment"`
	Confidence        Confidence `json:"confidence"`
}

// JobMatchResult is one ranked job in a matching run.
type JobMatchResult struct {
	Job            Job                 `json:"job"`
	MatchScore     int                 `json:"match_score"`
	Recommendation MatchRecommendation `json:"recommendation"`
	Reasoning      string              `json:"reasoning"`
	MatchDetails   MatchDetails        `json:"match_details"`
}

// MatchingResults is the outcome of one matching run.
type MatchingResults struct {
	Matches           []JobMatchResult `json:"matches"`
	TotalJobsAnalyzed int              `json:"total_jobs_analyzed"`
	ProcessingTime    time.Duration    `json:"processing_time"`
	Method            MatchMethod      `json:"method"`
}

// CachedJobScore is a fit score from a prior completed application, reused
// to shortcut matching for the same user and job. Never mutated; a newer
// application supersedes it with a fresh entry.
type CachedJobScore struct {
	JobID     uuid.UUID `json:"job_id"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}
