package pipeline

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/hexcelerate/jobfit/internal/llm"
	"github.com/hexcelerate/jobfit/internal/logger"
	"github.com/hexcelerate/jobfit/internal/matching"
	"github.com/hexcelerate/jobfit/internal/session"
	"github.com/hexcelerate/jobfit/internal/store"
	"github.com/hexcelerate/jobfit/internal/types"
)

// topMatchesCached caps how many match summaries one session stores.
const topMatchesCached = 10

// MatchingStore is the persistence surface the matching orchestrator
// drives.
type MatchingStore interface {
	ListActiveJobs(ctx context.Context, companyID uuid.UUID) ([]types.Job, error)
	GetJobsByIDs(ctx context.Context, ids []uuid.UUID) ([]types.Job, error)
	FetchCompanyCachedScores(ctx context.Context, userID, companyID uuid.UUID) (map[uuid.UUID]types.CachedJobScore, error)
	RecordMatchingEvent(ctx context.Context, event store.MatchingEvent) error
}

// SessionCache stores and retrieves summarized matching sessions.
type SessionCache interface {
	Save(ctx context.Context, s *types.MatchingSession) error
	Get(ctx context.Context, sessionID string) (*types.MatchingSession, error)
}

// MatchingOptions tunes one matching run.
type MatchingOptions struct {
	// CompanyID scopes the job pool.
	CompanyID uuid.UUID
	// UserID enables cached score reuse; uuid.Nil means anonymous.
	UserID uuid.UUID
	// SessionID tracks anonymous callers across requests. Empty means a
	// new identifier is derived from the document itself.
	SessionID string
	// Config overrides the matcher defaults.
	Config *types.MatchingConfig
	// SkipResultCache disables the session write for this run.
	SkipResultCache bool
}

// MatchingOutcome is the result of one matching run.
type MatchingOutcome struct {
	Results       *types.MatchingResults `json:"results"`
	SessionID     string                 `json:"session_id"`
	TrackingToken string                 `json:"tracking_token,omitempty"`
	Cached        bool                   `json:"cached"`
}

// MatchingProcessor drives one matching request through extraction, job
// fetch, matching, and best-effort session caching and analytics.
type MatchingProcessor struct {
	store     MatchingStore
	extractor Extractor
	client    llm.Client
	sessions  SessionCache
	tokens    *session.TokenService
	log       *zap.Logger
}

// NewMatchingProcessor creates the matching orchestrator. sessions and
// tokens may be nil to disable session caching and tracking tokens.
func NewMatchingProcessor(store MatchingStore, extractor Extractor, client llm.Client, sessions SessionCache, tokens *session.TokenService, log *zap.Logger) *MatchingProcessor {
	return &MatchingProcessor{
		store:     store,
		extractor: extractor,
		client:    client,
		sessions:  sessions,
		tokens:    tokens,
		log:       logger.Or(log),
	}
}

// ProcessMatching matches a resume and declared interests against a
// company's active job pool. Session caching and analytics are best-effort;
// only extraction and the job fetch can fail the run.
func (p *MatchingProcessor) ProcessMatching(ctx context.Context, resume []byte, interests []string, opts MatchingOptions) (*MatchingOutcome, error) {
	trackingID := p.trackingID(resume, opts)
	log := p.log.With(logger.TrackingID(trackingID))

	log.Info("job matching started", zap.Strings("interests", interests))

	resumeText, err := p.extractor.ExtractText(ctx, resume)
	if err != nil {
		err = fmt.Errorf("resume extraction failed: %w", err)
		p.recordFailure(ctx, trackingID, opts.CompanyID, err, log)
		return nil, err
	}

	profile := &types.UserMatchingProfile{
		ResumeText: resumeText,
		Interests:  interests,
		UserID:     opts.UserID,
	}

	jobs, err := p.store.ListActiveJobs(ctx, opts.CompanyID)
	if err != nil {
		err = fmt.Errorf("failed to fetch job pool: %w", err)
		p.recordFailure(ctx, trackingID, opts.CompanyID, err, log)
		return nil, err
	}
	log.Info("job pool fetched", zap.Int("jobs", len(jobs)))

	config := types.DefaultMatchingConfig()
	if opts.Config != nil {
		config = *opts.Config
	}

	matcher := matching.NewMatcher(p.client, p.companyScores(ctx, opts, log), log)
	results := matcher.MatchJobs(ctx, jobs, profile, config)

	log.Info("matching complete",
		zap.Int("matches", len(results.Matches)),
		zap.String("method", string(results.Method)),
		zap.Duration("took", results.ProcessingTime))

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = trackingID
	}

	p.runSideEffects(ctx, sessionID, trackingID, results, interests, opts, log)

	return &MatchingOutcome{
		Results:       results,
		SessionID:     sessionID,
		TrackingToken: p.issueToken(sessionID, opts.UserID, log),
		Cached:        false,
	}, nil
}

// GetCachedMatchingResults reads back a previously cached matching session.
// Returns nil for a missing or logically expired session. Match results are
// reconstructed by re-fetching the referenced jobs; summaries whose job has
// since disappeared are dropped.
func (p *MatchingProcessor) GetCachedMatchingResults(ctx context.Context, sessionID string) (*MatchingOutcome, error) {
	if p.sessions == nil {
		return nil, nil
	}

	cached, err := p.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read matching session: %w", err)
	}
	if cached == nil {
		return nil, nil
	}

	jobIDs := make([]uuid.UUID, len(cached.TopMatches))
	for i, summary := range cached.TopMatches {
		jobIDs[i] = summary.JobID
	}

	jobs, err := p.store.GetJobsByIDs(ctx, jobIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to rehydrate session jobs: %w", err)
	}
	jobsByID := make(map[uuid.UUID]types.Job, len(jobs))
	for _, job := range jobs {
		jobsByID[job.ID] = job
	}

	matches := make([]types.JobMatchResult, 0, len(cached.TopMatches))
	for _, summary := range cached.TopMatches {
		job, ok := jobsByID[summary.JobID]
		if !ok {
			continue
		}
		matches = append(matches, types.JobMatchResult{
			Job:            job,
			MatchScore:     summary.MatchScore,
			Recommendation: summary.Recommendation,
			Reasoning:      "Cached match result",
			MatchDetails: types.MatchDetails{
				TitleMatch:        summary.MatchScore,
				InterestAlignment: "cached",
				Confidence:        types.ConfidenceMedium,
			},
		})
	}

	return &MatchingOutcome{
		Results: &types.MatchingResults{
			Matches:           matches,
			TotalJobsAnalyzed: cached.TotalJobsAnalyzed,
			ProcessingTime:    0,
			Method:            types.MethodCached,
		},
		SessionID: sessionID,
		Cached:    true,
	}, nil
}

// trackingID identifies one matching run: the user ID when authenticated,
// the caller's session ID when present, otherwise a fingerprint of the
// document so repeat anonymous uploads correlate.
func (p *MatchingProcessor) trackingID(resume []byte, opts MatchingOptions) string {
	if opts.UserID != uuid.Nil {
		return opts.UserID.String()
	}
	if opts.SessionID != "" {
		return opts.SessionID
	}
	sum := blake2b.Sum256(resume)
	return "anon-" + hex.EncodeToString(sum[:8])
}

// companyScores snapshots the user's cached scores for the company. A
// lookup failure degrades to no cache rather than failing the run.
func (p *MatchingProcessor) companyScores(ctx context.Context, opts MatchingOptions, log *zap.Logger) matching.CachedScoreSource {
	if opts.UserID == uuid.Nil {
		return nil
	}

	scores, err := p.store.FetchCompanyCachedScores(ctx, opts.UserID, opts.CompanyID)
	if err != nil {
		log.Warn("cached score snapshot failed", zap.Error(err))
		return nil
	}
	log.Info("cached scores fetched", zap.Int("scores", len(scores)))
	return snapshotScores(scores)
}

// snapshotScores serves a pre-fetched score map as a CachedScoreSource.
type snapshotScores map[uuid.UUID]types.CachedJobScore

func (s snapshotScores) FetchCachedScores(_ context.Context, _ uuid.UUID, jobIDs []uuid.UUID) (map[uuid.UUID]types.CachedJobScore, error) {
	out := make(map[uuid.UUID]types.CachedJobScore, len(jobIDs))
	for _, id := range jobIDs {
		if score, ok := s[id]; ok {
			out[id] = score
		}
	}
	return out, nil
}

// runSideEffects caches the session summary and records the analytics
// event. Both are best-effort and run concurrently; failures are logged and
// never propagate.
func (p *MatchingProcessor) runSideEffects(ctx context.Context, sessionID, trackingID string, results *types.MatchingResults, interests []string, opts MatchingOptions, log *zap.Logger) {
	g, gctx := errgroup.WithContext(ctx)

	if p.sessions != nil && !opts.SkipResultCache {
		g.Go(func() error {
			if err := p.sessions.Save(gctx, p.buildSession(sessionID, results, opts)); err != nil {
				log.Warn("session cache write failed", zap.Error(err))
			}
			return nil
		})
	}

	g.Go(func() error {
		event := store.MatchingEvent{
			EventType:  store.EventMatchingCompleted,
			SessionID:  sessionID,
			CompanyID:  opts.CompanyID,
			TrackingID: trackingID,
			JobsTotal:  results.TotalJobsAnalyzed,
			Matches:    len(results.Matches),
			Method:     results.Method,
			Interests:  interests,
			Duration:   results.ProcessingTime,
		}
		if err := p.store.RecordMatchingEvent(gctx, event); err != nil {
			log.Warn("analytics event failed", zap.Error(err))
		}
		return nil
	})

	_ = g.Wait()
}

func (p *MatchingProcessor) buildSession(sessionID string, results *types.MatchingResults, opts MatchingOptions) *types.MatchingSession {
	top := results.Matches
	if len(top) > topMatchesCached {
		top = top[:topMatchesCached]
	}

	summaries := make([]types.SessionMatchSummary, len(top))
	for i, match := range top {
		summaries[i] = types.SessionMatchSummary{
			JobID:          match.Job.ID,
			JobTitle:       match.Job.Title,
			MatchScore:     match.MatchScore,
			Recommendation: match.Recommendation,
		}
	}

	return &types.MatchingSession{
		SessionID:         sessionID,
		CompanyID:         opts.CompanyID,
		UserID:            opts.UserID,
		MatchesFound:      len(results.Matches),
		TopMatches:        summaries,
		Method:            results.Method,
		ProcessingTime:    results.ProcessingTime,
		TotalJobsAnalyzed: results.TotalJobsAnalyzed,
	}
}

func (p *MatchingProcessor) issueToken(sessionID string, userID uuid.UUID, log *zap.Logger) string {
	if p.tokens == nil {
		return ""
	}
	token, err := p.tokens.Issue(sessionID, userID)
	if err != nil {
		log.Warn("tracking token issue failed", zap.Error(err))
		return ""
	}
	return token
}

func (p *MatchingProcessor) recordFailure(ctx context.Context, trackingID string, companyID uuid.UUID, cause error, log *zap.Logger) {
	log.Error("job matching failed", zap.Error(cause))

	event := store.MatchingEvent{
		EventType:  store.EventMatchingFailed,
		SessionID:  trackingID,
		CompanyID:  companyID,
		TrackingID: trackingID,
		Error:      cause.Error(),
	}
	if err := p.store.RecordMatchingEvent(ctx, event); err != nil {
		log.Warn("failure analytics event failed", zap.Error(err))
	}
}
