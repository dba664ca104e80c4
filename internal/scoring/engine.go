// Package scoring provides the swappable fit-scoring engines. Every engine
// implements one contract: given extracted resume data, a job posting, and
// optional verified application data, produce a FitScoreBreakdown. Engines
// never surface AI or parsing failures to the caller; an unscorable
// application gets a zero-score breakdown with a system-error concern so it
// lands in the manual-review bucket instead of aborting the pipeline.
package scoring

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hexcelerate/jobfit/internal/llm"
	"github.com/hexcelerate/jobfit/internal/types"
)

// Engine scores one application against one job posting.
type Engine interface {
	Version() types.ScoringVersion
	CalculateFit(ctx context.Context, resume *types.ParsedResumeData, job *types.Job, formData *types.ApplicationFormData) *types.FitScoreBreakdown
}

// DefaultThreshold is the second-round eligibility cutoff when callers do
// not override it.
const DefaultThreshold = 70

// fitResponse is the JSON shape engines expect back from the classifier.
type fitResponse struct {
	OverallScore    int      `json:"overall_score"`
	Recommendation  string   `json:"recommendation"`
	SkillsMatched   []string `json:"skills_matched"`
	SkillsMissing   []string `json:"skills_missing"`
	Strengths       []string `json:"strengths"`
	Concerns        []string `json:"concerns"`
	Reasoning       string   `json:"reasoning"`
	ComponentScores *struct {
		RelevanceScore     int `json:"relevance_score"`
		QualificationScore int `json:"qualification_score"`
	} `json:"component_scores"`
}

// parseFitResponse validates the raw completion against the given schema
// and unmarshals it. Responses are untrusted text; anything that fails
// validation is treated the same as a failed call.
func parseFitResponse(raw, schema string) (*fitResponse, error) {
	cleaned := llm.CleanJSONBlock(raw)

	if err := validateResponse(schema, cleaned); err != nil {
		return nil, err
	}

	var resp fitResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse fit response: %w", err)
	}
	return &resp, nil
}

// clampScore bounds a score to [0,100].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// nonNil keeps persisted breakdowns free of null arrays.
func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// fallbackBreakdown is the zero-score result every engine returns when the
// classifier call or response parsing fails.
func fallbackBreakdown(version types.ScoringVersion, concern string) *types.FitScoreBreakdown {
	return &types.FitScoreBreakdown{
		OverallScore:   0,
		Recommendation: types.PoorFit,
		SkillsMatched:  []string{},
		SkillsMissing:  []string{},
		Strengths:      []string{},
		Concerns:       []string{concern},
		Reasoning:      "Error during analysis",
		ScoringMethod:  types.ScoringMethod{Version: version},
	}
}
