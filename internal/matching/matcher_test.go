package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexcelerate/jobfit/internal/llm"
	"github.com/hexcelerate/jobfit/internal/types"
)

type fakeClient struct {
	response string
	err      error
	calls    int
	lastTier llm.ModelTier
}

func (f *fakeClient) CompleteJSON(_ context.Context, _, _ string, tier llm.ModelTier) (string, error) {
	f.calls++
	f.lastTier = tier
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeClient) Close() error { return nil }

type fakeScoreSource struct {
	scores map[uuid.UUID]types.CachedJobScore
	err    error
	calls  int
}

func (f *fakeScoreSource) FetchCachedScores(_ context.Context, _ uuid.UUID, _ []uuid.UUID) (map[uuid.UUID]types.CachedJobScore, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.scores, nil
}

func jobWithTitle(title string) types.Job {
	return types.Job{
		ID:     uuid.New(),
		Title:  title,
		Status: types.JobActive,
	}
}

func profileWith(userID uuid.UUID, interests ...string) *types.UserMatchingProfile {
	return &types.UserMatchingProfile{
		ResumeText: "Experienced candidate.",
		Interests:  interests,
		UserID:     userID,
	}
}

func TestMatchJobsTitleBased(t *testing.T) {
	matcher := NewMatcher(&fakeClient{}, nil, nil)

	jobs := []types.Job{
		jobWithTitle("Registered Nurse"),
		jobWithTitle("Software Engineer"),
		jobWithTitle("Senior Software Engineer"),
	}

	results := matcher.MatchJobs(context.Background(), jobs,
		profileWith(uuid.Nil, "Software Engineer"), types.DefaultMatchingConfig())

	require.Len(t, results.Matches, 3)
	assert.Equal(t, types.MethodTitleBased, results.Method)
	assert.Equal(t, 3, results.TotalJobsAnalyzed)

	// Sorted descending by score; zero-score jobs are still returned.
	assert.Equal(t, "Software Engineer", results.Matches[0].Job.Title)
	assert.Equal(t, 100, results.Matches[0].MatchScore)
	assert.Equal(t, types.StrongMatch, results.Matches[0].Recommendation)
	assert.Equal(t, 90, results.Matches[1].MatchScore)
	assert.Equal(t, "Registered Nurse", results.Matches[2].Job.Title)
	assert.Equal(t, 0, results.Matches[2].MatchScore)
	assert.Equal(t, types.PoorMatch, results.Matches[2].Recommendation)
}

func TestMatchJobsCachePrecedence(t *testing.T) {
	userID := uuid.New()
	job := jobWithTitle("Software Engineer")

	// The cached score disagrees with what title scoring would produce
	// (100); the cached value must win unchanged.
	source := &fakeScoreSource{scores: map[uuid.UUID]types.CachedJobScore{
		job.ID: {JobID: job.ID, Score: 62, Timestamp: time.Now(), Source: "application"},
	}}

	matcher := NewMatcher(&fakeClient{}, source, nil)
	results := matcher.MatchJobs(context.Background(), []types.Job{job},
		profileWith(userID, "Software Engineer"), types.DefaultMatchingConfig())

	require.Len(t, results.Matches, 1)
	match := results.Matches[0]
	assert.Equal(t, 62, match.MatchScore)
	assert.Equal(t, types.PossibleMatch, match.Recommendation)
	assert.Equal(t, "Based on your previous application analysis", match.Reasoning)
	assert.Equal(t, types.ConfidenceLow, match.MatchDetails.Confidence)
	assert.Equal(t, types.MethodCached, results.Method)
	assert.Equal(t, 1, source.calls)
}

func TestMatchJobsCacheSkippedWithoutUser(t *testing.T) {
	source := &fakeScoreSource{}
	matcher := NewMatcher(&fakeClient{}, source, nil)

	matcher.MatchJobs(context.Background(), []types.Job{jobWithTitle("Clerk")},
		profileWith(uuid.Nil, "Clerk"), types.DefaultMatchingConfig())

	assert.Equal(t, 0, source.calls)
}

func TestMatchJobsCacheLookupFailureDegrades(t *testing.T) {
	source := &fakeScoreSource{err: errors.New("store unavailable")}
	matcher := NewMatcher(&fakeClient{}, source, nil)

	results := matcher.MatchJobs(context.Background(), []types.Job{jobWithTitle("Clerk")},
		profileWith(uuid.New(), "Clerk"), types.DefaultMatchingConfig())

	require.Len(t, results.Matches, 1)
	assert.Equal(t, 100, results.Matches[0].MatchScore)
	assert.Equal(t, types.MethodTitleBased, results.Method)
}

func TestMatchJobsMaxResults(t *testing.T) {
	matcher := NewMatcher(&fakeClient{}, nil, nil)

	jobs := []types.Job{
		jobWithTitle("Software Engineer"),
		jobWithTitle("Senior Software Engineer"),
		jobWithTitle("Registered Nurse"),
	}
	config := types.DefaultMatchingConfig()
	config.MaxResults = 2

	results := matcher.MatchJobs(context.Background(), jobs,
		profileWith(uuid.Nil, "Software Engineer"), config)

	require.Len(t, results.Matches, 2)
	assert.Equal(t, 3, results.TotalJobsAnalyzed)
	assert.Equal(t, 100, results.Matches[0].MatchScore)
	assert.Equal(t, 90, results.Matches[1].MatchScore)
}

func TestMatchJobsEnhancementOverwrites(t *testing.T) {
	client := &fakeClient{response: `[
		{"score": 95, "reasoning": "Exact match for Software Engineer"},
		{"score": 40, "reasoning": "Weak alignment"}
	]`}
	matcher := NewMatcher(client, nil, nil)

	jobs := []types.Job{
		jobWithTitle("Software Engineer"),
		jobWithTitle("Senior Software Engineer"),
	}
	config := types.DefaultMatchingConfig()
	config.UseLLMEnhancement = true

	results := matcher.MatchJobs(context.Background(), jobs,
		profileWith(uuid.Nil, "Software Engineer"), config)

	require.Len(t, results.Matches, 2)
	assert.Equal(t, types.MethodEnhanced, results.Method)
	assert.Equal(t, llm.TierLite, client.lastTier)

	first := results.Matches[0]
	assert.Equal(t, 95, first.MatchScore)
	assert.Equal(t, "Exact match for Software Engineer", first.Reasoning)
	assert.Equal(t, types.StrongMatch, first.Recommendation)
	assert.Equal(t, types.ConfidenceHigh, first.MatchDetails.Confidence)

	second := results.Matches[1]
	assert.Equal(t, 40, second.MatchScore)
	assert.Equal(t, types.PoorMatch, second.Recommendation)
}

func TestMatchJobsEnhancementFailureKeepsDeterministicScores(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeClient
	}{
		{"call error", &fakeClient{err: errors.New("model unavailable")}},
		{"malformed response", &fakeClient{response: "no json here"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matcher := NewMatcher(tt.client, nil, nil)
			config := types.DefaultMatchingConfig()
			config.UseLLMEnhancement = true

			results := matcher.MatchJobs(context.Background(),
				[]types.Job{jobWithTitle("Software Engineer")},
				profileWith(uuid.Nil, "Software Engineer"), config)

			require.Len(t, results.Matches, 1)
			assert.Equal(t, 100, results.Matches[0].MatchScore)
			assert.Equal(t, types.MethodTitleBased, results.Method)
		})
	}
}

func TestMatchJobsEnhancementSkipsCachedMatches(t *testing.T) {
	userID := uuid.New()
	cachedJob := jobWithTitle("Software Engineer")
	freshJob := jobWithTitle("Senior Software Engineer")

	source := &fakeScoreSource{scores: map[uuid.UUID]types.CachedJobScore{
		cachedJob.ID: {JobID: cachedJob.ID, Score: 97, Source: "application"},
	}}
	client := &fakeClient{response: `[{"score": 88, "reasoning": "Strong alignment"}]`}
	matcher := NewMatcher(client, source, nil)

	config := types.DefaultMatchingConfig()
	config.UseLLMEnhancement = true

	results := matcher.MatchJobs(context.Background(),
		[]types.Job{cachedJob, freshJob}, profileWith(userID, "Software Engineer"), config)

	require.Len(t, results.Matches, 2)
	// Any cache hit wins the method label even when enhancement also ran.
	assert.Equal(t, types.MethodCached, results.Method)

	assert.Equal(t, cachedJob.ID, results.Matches[0].Job.ID)
	assert.Equal(t, 97, results.Matches[0].MatchScore)

	assert.Equal(t, freshJob.ID, results.Matches[1].Job.ID)
	assert.Equal(t, 88, results.Matches[1].MatchScore)
	assert.Equal(t, types.ConfidenceHigh, results.Matches[1].MatchDetails.Confidence)
}

func TestMatchJobsEmptyPool(t *testing.T) {
	matcher := NewMatcher(&fakeClient{}, &fakeScoreSource{}, nil)

	results := matcher.MatchJobs(context.Background(), nil,
		profileWith(uuid.New(), "Software Engineer"), types.DefaultMatchingConfig())

	assert.Empty(t, results.Matches)
	assert.Equal(t, 0, results.TotalJobsAnalyzed)
	assert.Equal(t, types.MethodTitleBased, results.Method)
}
