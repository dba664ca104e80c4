package matching

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hexcelerate/jobfit/internal/llm"
	"github.com/hexcelerate/jobfit/internal/logger"
	"github.com/hexcelerate/jobfit/internal/types"
)

// CachedScoreSource looks up previously computed fit scores for a user over
// a set of jobs. Implemented by the document store; absent scores are
// simply missing from the returned map.
type CachedScoreSource interface {
	FetchCachedScores(ctx context.Context, userID uuid.UUID, jobIDs []uuid.UUID) (map[uuid.UUID]types.CachedJobScore, error)
}

// Matcher ranks job postings against a user profile with a three-tier
// strategy: cached score reuse, deterministic title scoring, and optional
// batched LLM re-scoring of the top matches.
type Matcher struct {
	client llm.Client
	scores CachedScoreSource
	log    *zap.Logger
}

// NewMatcher creates a matcher. scores may be nil when no cache backend is
// available; the deterministic tier then handles every job.
func NewMatcher(client llm.Client, scores CachedScoreSource, log *zap.Logger) *Matcher {
	return &Matcher{client: client, scores: scores, log: logger.Or(log)}
}

// MatchJobs scores every job in the pool against the profile and returns
// the ranked results. Every job is scored and returned; MinScoreThreshold
// does not filter. Cache and enhancement failures degrade to deterministic
// scores instead of failing the run.
func (m *Matcher) MatchJobs(ctx context.Context, jobs []types.Job, profile *types.UserMatchingProfile, config types.MatchingConfig) *types.MatchingResults {
	start := time.Now()

	cached := m.lookupCachedScores(ctx, jobs, profile, config)

	matches := make([]types.JobMatchResult, 0, len(jobs))
	for _, job := range jobs {
		if score, ok := cached[job.ID]; ok {
			matches = append(matches, m.cachedResult(job, score, profile))
			continue
		}
		matches = append(matches, m.titleResult(job, profile))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	enhanced := false
	if config.UseLLMEnhancement && len(matches) > 0 {
		enhanced = m.enhanceTopMatches(ctx, matches, cached, profile, config.EnhancementLimit)
	}

	if config.MaxResults > 0 && len(matches) > config.MaxResults {
		matches = matches[:config.MaxResults]
	}

	method := types.MethodTitleBased
	switch {
	case len(cached) > 0:
		method = types.MethodCached
	case enhanced:
		method = types.MethodEnhanced
	}

	return &types.MatchingResults{
		Matches:           matches,
		TotalJobsAnalyzed: len(jobs),
		ProcessingTime:    time.Since(start),
		Method:            method,
	}
}

func (m *Matcher) lookupCachedScores(ctx context.Context, jobs []types.Job, profile *types.UserMatchingProfile, config types.MatchingConfig) map[uuid.UUID]types.CachedJobScore {
	if !config.UseCachedScores || m.scores == nil || profile.UserID == uuid.Nil || len(jobs) == 0 {
		return nil
	}

	jobIDs := make([]uuid.UUID, len(jobs))
	for i, job := range jobs {
		jobIDs[i] = job.ID
	}

	cached, err := m.scores.FetchCachedScores(ctx, profile.UserID, jobIDs)
	if err != nil {
		m.log.Warn("cached score lookup failed, scoring from scratch",
			zap.Error(err), zap.String("user_id", profile.UserID.String()))
		return nil
	}
	return cached
}

// cachedResult reuses a prior application score verbatim. Confidence is
// derived from the score alone since no fresh reasoning exists.
func (m *Matcher) cachedResult(job types.Job, score types.CachedJobScore, profile *types.UserMatchingProfile) types.JobMatchResult {
	return types.JobMatchResult{
		Job:            job,
		MatchScore:     score.Score,
		Recommendation: types.MatchRecommendationForScore(score.Score),
		Reasoning:      "Based on your previous application analysis",
		MatchDetails: types.MatchDetails{
			TitleMatch:        score.Score,
			InterestAlignment: FindBestInterestMatch(job.Title, profile.Interests),
			Confidence:        types.ConfidenceForScore(score.Score),
		},
	}
}

func (m *Matcher) titleResult(job types.Job, profile *types.UserMatchingProfile) types.JobMatchResult {
	score := TitleMatchScore(job.Title, profile.Interests)
	return types.JobMatchResult{
		Job:            job,
		MatchScore:     score,
		Recommendation: types.MatchRecommendationForScore(score),
		Reasoning:      matchReasoning(job.Title, profile.Interests),
		MatchDetails: types.MatchDetails{
			TitleMatch:        score,
			InterestAlignment: FindBestInterestMatch(job.Title, profile.Interests),
			Confidence:        types.ConfidenceForScore(score),
		},
	}
}
