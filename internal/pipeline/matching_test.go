package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexcelerate/jobfit/internal/session"
	"github.com/hexcelerate/jobfit/internal/store"
	"github.com/hexcelerate/jobfit/internal/types"
)

type fakeMatchingStore struct {
	jobs         []types.Job
	jobsErr      error
	companyScore map[uuid.UUID]types.CachedJobScore
	scoresErr    error

	events    []store.MatchingEvent
	eventsErr error

	byIDs    []types.Job
	byIDsErr error
}

func (f *fakeMatchingStore) ListActiveJobs(context.Context, uuid.UUID) ([]types.Job, error) {
	if f.jobsErr != nil {
		return nil, f.jobsErr
	}
	return f.jobs, nil
}

func (f *fakeMatchingStore) GetJobsByIDs(context.Context, []uuid.UUID) ([]types.Job, error) {
	if f.byIDsErr != nil {
		return nil, f.byIDsErr
	}
	return f.byIDs, nil
}

func (f *fakeMatchingStore) FetchCompanyCachedScores(context.Context, uuid.UUID, uuid.UUID) (map[uuid.UUID]types.CachedJobScore, error) {
	if f.scoresErr != nil {
		return nil, f.scoresErr
	}
	return f.companyScore, nil
}

func (f *fakeMatchingStore) RecordMatchingEvent(_ context.Context, event store.MatchingEvent) error {
	if f.eventsErr != nil {
		return f.eventsErr
	}
	f.events = append(f.events, event)
	return nil
}

type fakeSessionCache struct {
	saved   *types.MatchingSession
	saveErr error
	stored  *types.MatchingSession
	getErr  error
}

func (f *fakeSessionCache) Save(_ context.Context, s *types.MatchingSession) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = s
	return nil
}

func (f *fakeSessionCache) Get(context.Context, string) (*types.MatchingSession, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.stored, nil
}

func matchingJobs() []types.Job {
	return []types.Job{
		{ID: uuid.New(), Title: "Software Engineer", Status: types.JobActive},
		{ID: uuid.New(), Title: "Registered Nurse", Status: types.JobActive},
	}
}

func newMatchingProcessor(ms *fakeMatchingStore, sessions SessionCache) *MatchingProcessor {
	tokens := session.NewTokenService("test-secret", time.Hour)
	return NewMatchingProcessor(ms, &fakeExtractor{text: "React developer."},
		&fakeLLM{response: "[]"}, sessions, tokens, nil)
}

func TestProcessMatching(t *testing.T) {
	ms := &fakeMatchingStore{jobs: matchingJobs()}
	sessions := &fakeSessionCache{}
	processor := newMatchingProcessor(ms, sessions)

	outcome, err := processor.ProcessMatching(context.Background(), []byte("%PDF"),
		[]string{"Software Engineer"}, MatchingOptions{CompanyID: uuid.New()})

	require.NoError(t, err)
	assert.False(t, outcome.Cached)
	assert.NotEmpty(t, outcome.SessionID)
	assert.NotEmpty(t, outcome.TrackingToken)

	require.Len(t, outcome.Results.Matches, 2)
	assert.Equal(t, 100, outcome.Results.Matches[0].MatchScore)
	assert.Equal(t, types.MethodTitleBased, outcome.Results.Method)

	// Session summary cached with the run's outcome.
	require.NotNil(t, sessions.saved)
	assert.Equal(t, outcome.SessionID, sessions.saved.SessionID)
	assert.Equal(t, 2, sessions.saved.MatchesFound)
	require.Len(t, sessions.saved.TopMatches, 2)
	assert.Equal(t, "Software Engineer", sessions.saved.TopMatches[0].JobTitle)

	// Analytics event recorded.
	require.Len(t, ms.events, 1)
	assert.Equal(t, store.EventMatchingCompleted, ms.events[0].EventType)
	assert.Equal(t, 2, ms.events[0].JobsTotal)
	assert.Equal(t, []string{"Software Engineer"}, ms.events[0].Interests)
}

func TestProcessMatchingAnonymousTrackingIDStable(t *testing.T) {
	ms := &fakeMatchingStore{jobs: matchingJobs()}
	processor := newMatchingProcessor(ms, nil)

	resume := []byte("identical document")
	first, err := processor.ProcessMatching(context.Background(), resume,
		[]string{"Engineer"}, MatchingOptions{CompanyID: uuid.New()})
	require.NoError(t, err)

	second, err := processor.ProcessMatching(context.Background(), resume,
		[]string{"Engineer"}, MatchingOptions{CompanyID: uuid.New()})
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Contains(t, first.SessionID, "anon-")
}

func TestProcessMatchingUsesCompanyCachedScores(t *testing.T) {
	jobs := matchingJobs()
	userID := uuid.New()
	ms := &fakeMatchingStore{
		jobs: jobs,
		companyScore: map[uuid.UUID]types.CachedJobScore{
			jobs[1].ID: {JobID: jobs[1].ID, Score: 93, Source: "application"},
		},
	}
	processor := newMatchingProcessor(ms, nil)

	outcome, err := processor.ProcessMatching(context.Background(), []byte("%PDF"),
		[]string{"Software Engineer"}, MatchingOptions{CompanyID: uuid.New(), UserID: userID})

	require.NoError(t, err)
	assert.Equal(t, types.MethodCached, outcome.Results.Method)
	assert.Equal(t, userID.String(), outcome.SessionID)

	// The nurse job would score 0 deterministically but carries a cached 93.
	require.Len(t, outcome.Results.Matches, 2)
	assert.Equal(t, jobs[1].ID, outcome.Results.Matches[1].Job.ID)
	assert.Equal(t, 93, outcome.Results.Matches[1].MatchScore)
}

func TestProcessMatchingExtractionFailure(t *testing.T) {
	ms := &fakeMatchingStore{jobs: matchingJobs()}
	processor := NewMatchingProcessor(ms,
		&fakeExtractor{err: errors.New("document rejected")},
		&fakeLLM{}, nil, nil, nil)

	_, err := processor.ProcessMatching(context.Background(), []byte("%PDF"),
		[]string{"Engineer"}, MatchingOptions{CompanyID: uuid.New()})

	require.Error(t, err)
	require.Len(t, ms.events, 1)
	assert.Equal(t, store.EventMatchingFailed, ms.events[0].EventType)
	assert.Contains(t, ms.events[0].Error, "document rejected")
}

func TestProcessMatchingSideEffectFailuresIsolated(t *testing.T) {
	ms := &fakeMatchingStore{jobs: matchingJobs(), eventsErr: errors.New("analytics down")}
	sessions := &fakeSessionCache{saveErr: errors.New("redis down")}
	processor := newMatchingProcessor(ms, sessions)

	outcome, err := processor.ProcessMatching(context.Background(), []byte("%PDF"),
		[]string{"Software Engineer"}, MatchingOptions{CompanyID: uuid.New()})

	require.NoError(t, err)
	require.Len(t, outcome.Results.Matches, 2)
	assert.Equal(t, 100, outcome.Results.Matches[0].MatchScore)
}

func TestGetCachedMatchingResults(t *testing.T) {
	liveJob := types.Job{ID: uuid.New(), Title: "Software Engineer"}
	goneJobID := uuid.New()

	sessions := &fakeSessionCache{stored: &types.MatchingSession{
		SessionID: "session-1",
		TopMatches: []types.SessionMatchSummary{
			{JobID: liveJob.ID, JobTitle: "Software Engineer", MatchScore: 92, Recommendation: types.StrongMatch},
			{JobID: goneJobID, JobTitle: "Closed Role", MatchScore: 60, Recommendation: types.PossibleMatch},
		},
		TotalJobsAnalyzed: 5,
		ExpiresAt:         time.Now().Add(time.Hour),
	}}
	ms := &fakeMatchingStore{byIDs: []types.Job{liveJob}}
	processor := newMatchingProcessor(ms, sessions)

	outcome, err := processor.GetCachedMatchingResults(context.Background(), "session-1")

	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.True(t, outcome.Cached)
	assert.Equal(t, "session-1", outcome.SessionID)
	assert.Equal(t, types.MethodCached, outcome.Results.Method)
	assert.Equal(t, 5, outcome.Results.TotalJobsAnalyzed)

	// The job that no longer exists is dropped from the reconstruction.
	require.Len(t, outcome.Results.Matches, 1)
	match := outcome.Results.Matches[0]
	assert.Equal(t, liveJob.ID, match.Job.ID)
	assert.Equal(t, 92, match.MatchScore)
	assert.Equal(t, "Cached match result", match.Reasoning)
	assert.Equal(t, types.ConfidenceMedium, match.MatchDetails.Confidence)
}

func TestGetCachedMatchingResultsMissingSession(t *testing.T) {
	processor := newMatchingProcessor(&fakeMatchingStore{}, &fakeSessionCache{})

	outcome, err := processor.GetCachedMatchingResults(context.Background(), "absent")

	require.NoError(t, err)
	assert.Nil(t, outcome)
}
