package scoring

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/hexcelerate/jobfit/internal/llm"
	"github.com/hexcelerate/jobfit/internal/logger"
	"github.com/hexcelerate/jobfit/internal/prompts"
	"github.com/hexcelerate/jobfit/internal/types"
)

// Weights of the enhanced engine's score blend. Qualification keeps a
// small floor for candidates with zero domain relevance; relevance
// dominates the penalty for domain mismatch.
const (
	qualificationWeight = 0.3
	relevanceWeight     = 0.7
)

// EnhancedEngine folds verified application-form data into the prompt ahead
// of the resume text and derives the overall score as a fixed weighted
// blend of the classifier's relevance and qualification sub-scores. The
// blend is recomputed locally so determinism never depends on the model
// doing arithmetic.
type EnhancedEngine struct {
	client llm.Client
	log    *zap.Logger
}

// NewEnhancedEngine creates the weighted-blend engine.
func NewEnhancedEngine(client llm.Client, log *zap.Logger) *EnhancedEngine {
	return &EnhancedEngine{client: client, log: logger.Or(log)}
}

// Version returns the engine's version tag.
func (e *EnhancedEngine) Version() types.ScoringVersion {
	return types.VersionEnhanced
}

// BlendScores computes the enhanced engine's overall score from its
// component scores. Exported so tests and audits can verify persisted
// breakdowns against the documented formula.
func BlendScores(qualification, relevance int) int {
	blended := float64(clampScore(qualification))*qualificationWeight +
		float64(clampScore(relevance))*relevanceWeight
	return int(math.Round(blended))
}

// CalculateFit scores the candidate using verified form data plus resume
// text.
func (e *EnhancedEngine) CalculateFit(ctx context.Context, resume *types.ParsedResumeData, job *types.Job, formData *types.ApplicationFormData) *types.FitScoreBreakdown {
	prompt := e.buildPrompt(resume, job, formData)
	system := prompts.MustGet("scoring.json", "system-enhanced")

	raw, err := e.client.CompleteJSON(ctx, system, prompt, llm.TierStandard)
	if err != nil {
		e.log.Error("fit analysis call failed", zap.Error(err), logger.EngineVersion(string(e.Version())))
		return fallbackBreakdown(e.Version(), "Failed to analyze application - system error")
	}

	resp, err := parseFitResponse(raw, enhancedFitResponseSchema)
	if err != nil {
		e.log.Error("fit analysis response unusable", zap.Error(err), logger.EngineVersion(string(e.Version())))
		return fallbackBreakdown(e.Version(), "Failed to analyze application - system error")
	}

	relevance := clampScore(resp.ComponentScores.RelevanceScore)
	qualification := clampScore(resp.ComponentScores.QualificationScore)
	overall := BlendScores(qualification, relevance)

	return &types.FitScoreBreakdown{
		OverallScore:   overall,
		Recommendation: e.recommendationForScore(overall),
		SkillsMatched:  FilterMatchedSkills(nonNil(resp.SkillsMatched), job, e.log),
		SkillsMissing:  nonNil(resp.SkillsMissing),
		Strengths:      nonNil(resp.Strengths),
		Concerns:       nonNil(resp.Concerns),
		Reasoning:      resp.Reasoning,
		ComponentScores: &types.ComponentScores{
			RelevanceScore:     relevance,
			QualificationScore: qualification,
		},
		ScoringMethod: types.ScoringMethod{
			Version:  e.Version(),
			AIWeight: 1.0,
		},
	}
}

// recommendationForScore bands the blended score. Bands are owned per
// engine version; these are the enhanced engine's.
func (e *EnhancedEngine) recommendationForScore(score int) types.Recommendation {
	switch {
	case score >= 85:
		return types.StrongFit
	case score >= 70:
		return types.GoodFit
	case score >= 50:
		return types.PossibleFit
	default:
		return types.PoorFit
	}
}

func (e *EnhancedEngine) buildPrompt(resume *types.ParsedResumeData, job *types.Job, formData *types.ApplicationFormData) string {
	var candidate string
	if formatted := formData.FormatForScoring(); formatted != "" {
		candidate = fmt.Sprintf("Structured Application Data:\n%s\n\nResume Document:\n%s",
			formatted, resume.ResumeText)
	} else {
		candidate = fmt.Sprintf("Resume Document:\n%s\n\n(No structured application data provided)",
			resume.ResumeText)
	}

	template := prompts.MustGet("scoring.json", "enhanced-fit")
	return prompts.Format(template, map[string]string{
		"CandidateSection":    candidate,
		"JobTitle":            job.Title,
		"JobType":             orNotSpecified(job.Type),
		"JobCategory":         orNotSpecified(job.Category),
		"JobDescription":      job.Description,
		"JobRequirements":     joinedOrNotSpecified(job.Requirements),
		"JobResponsibilities": joinedOrNotSpecified(job.Responsibilities),
	})
}
