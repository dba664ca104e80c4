package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hexcelerate/jobfit/internal/llm"
	"github.com/hexcelerate/jobfit/internal/prompts"
	"github.com/hexcelerate/jobfit/internal/types"
)

// enhancedScore is one entry of the batch re-scoring response, index-aligned
// with the submitted job titles.
type enhancedScore struct {
	Score     *int   `json:"score"`
	Reasoning string `json:"reasoning"`
}

// enhanceTopMatches re-scores the top matches with one batched
// classification call and overwrites their score, recommendation, and
// reasoning in place. Cache hits are skipped; their scores are already
// grounded in a full application analysis. Returns whether any match was
// actually enhanced. Failures leave the deterministic scores untouched.
func (m *Matcher) enhanceTopMatches(ctx context.Context, matches []types.JobMatchResult, cached map[uuid.UUID]types.CachedJobScore, profile *types.UserMatchingProfile, limit int) bool {
	if limit <= 0 {
		limit = types.DefaultMatchingConfig().EnhancementLimit
	}

	top := matches
	if len(top) > limit {
		top = top[:limit]
	}

	indexes := make([]int, 0, len(top))
	for i := range top {
		if _, ok := cached[top[i].Job.ID]; ok {
			continue
		}
		indexes = append(indexes, i)
	}
	if len(indexes) == 0 {
		return false
	}

	scores, err := m.requestBatchScores(ctx, matches, indexes, profile)
	if err != nil {
		m.log.Warn("batch enhancement failed, keeping deterministic scores",
			zap.Error(err), zap.Int("batch_size", len(indexes)))
		return false
	}

	applied := false
	for pos, idx := range indexes {
		if pos >= len(scores) || scores[pos].Score == nil {
			continue
		}
		score := clampMatchScore(*scores[pos].Score)

		matches[idx].MatchScore = score
		matches[idx].Recommendation = types.MatchRecommendationForScore(score)
		if scores[pos].Reasoning != "" {
			matches[idx].Reasoning = scores[pos].Reasoning
		}
		matches[idx].MatchDetails.Confidence = types.ConfidenceHigh
		applied = true
	}
	return applied
}

func (m *Matcher) requestBatchScores(ctx context.Context, matches []types.JobMatchResult, indexes []int, profile *types.UserMatchingProfile) ([]enhancedScore, error) {
	var interests strings.Builder
	for _, interest := range profile.Interests {
		fmt.Fprintf(&interests, "- %s\n", interest)
	}

	var jobsList strings.Builder
	for pos, idx := range indexes {
		fmt.Fprintf(&jobsList, "%d. %q\n", pos, matches[idx].Job.Title)
	}

	prompt := prompts.Format(prompts.MustGet("matching.json", "batch-title-match"), map[string]string{
		"Interests": strings.TrimRight(interests.String(), "\n"),
		"Jobs":      strings.TrimRight(jobsList.String(), "\n"),
	})
	system := prompts.MustGet("matching.json", "system")

	raw, err := m.client.CompleteJSON(ctx, system, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("batch scoring call failed: %w", err)
	}

	var scores []enhancedScore
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &scores); err != nil {
		return nil, fmt.Errorf("batch scoring response unparseable: %w", err)
	}
	return scores, nil
}

func clampMatchScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
