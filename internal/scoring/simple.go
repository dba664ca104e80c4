package scoring

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/hexcelerate/jobfit/internal/llm"
	"github.com/hexcelerate/jobfit/internal/logger"
	"github.com/hexcelerate/jobfit/internal/prompts"
	"github.com/hexcelerate/jobfit/internal/types"
)

// SimpleEngine is the baseline strategy: one classification call over the
// resume text and the job posting, returned mostly verbatim with defensive
// defaults. It ignores structured application data.
type SimpleEngine struct {
	client llm.Client
	log    *zap.Logger
}

// NewSimpleEngine creates the baseline engine.
func NewSimpleEngine(client llm.Client, log *zap.Logger) *SimpleEngine {
	return &SimpleEngine{client: client, log: logger.Or(log)}
}

// Version returns the engine's version tag.
func (e *SimpleEngine) Version() types.ScoringVersion {
	return types.VersionSimple
}

// CalculateFit scores the resume against the job in a single pass.
func (e *SimpleEngine) CalculateFit(ctx context.Context, resume *types.ParsedResumeData, job *types.Job, _ *types.ApplicationFormData) *types.FitScoreBreakdown {
	prompt := e.buildPrompt(resume, job)
	system := prompts.MustGet("scoring.json", "system-simple")

	raw, err := e.client.CompleteJSON(ctx, system, prompt, llm.TierStandard)
	if err != nil {
		e.log.Error("fit analysis call failed", zap.Error(err), logger.EngineVersion(string(e.Version())))
		return fallbackBreakdown(e.Version(), "Failed to analyze resume - system error")
	}

	resp, err := parseFitResponse(raw, fitResponseSchema)
	if err != nil {
		e.log.Error("fit analysis response unusable", zap.Error(err), logger.EngineVersion(string(e.Version())))
		return fallbackBreakdown(e.Version(), "Failed to analyze resume - system error")
	}

	recommendation := types.Recommendation(resp.Recommendation)
	switch recommendation {
	case types.StrongFit, types.GoodFit, types.PossibleFit, types.PoorFit:
	default:
		recommendation = types.PoorFit
	}

	return &types.FitScoreBreakdown{
		OverallScore:   clampScore(resp.OverallScore),
		Recommendation: recommendation,
		SkillsMatched:  FilterMatchedSkills(nonNil(resp.SkillsMatched), job, e.log),
		SkillsMissing:  nonNil(resp.SkillsMissing),
		Strengths:      nonNil(resp.Strengths),
		Concerns:       nonNil(resp.Concerns),
		Reasoning:      resp.Reasoning,
		ScoringMethod: types.ScoringMethod{
			Version:  e.Version(),
			AIWeight: 1.0,
		},
	}
}

func (e *SimpleEngine) buildPrompt(resume *types.ParsedResumeData, job *types.Job) string {
	template := prompts.MustGet("scoring.json", "simple-fit")
	return prompts.Format(template, map[string]string{
		"ResumeText":          resume.ResumeText,
		"JobTitle":            job.Title,
		"JobType":             orNotSpecified(job.Type),
		"JobCategory":         orNotSpecified(job.Category),
		"JobDescription":      job.Description,
		"JobRequirements":     joinedOrNotSpecified(job.Requirements),
		"JobResponsibilities": joinedOrNotSpecified(job.Responsibilities),
	})
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

func joinedOrNotSpecified(items []string) string {
	if len(items) == 0 {
		return "Not specified"
	}
	return strings.Join(items, "\n")
}
