// Package types provides type definitions for structured data used throughout the evaluation pipeline.
package types

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingStatus tracks the background evaluation lifecycle of an application.
type ProcessingStatus string

// Processing status values. An application enters "processing" when the
// orchestrator picks it up and terminates in "completed" or "failed".
// The only way out of a terminal status is an explicit reprocessing run.
const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// ScoringVersion identifies which scoring algorithm produced a fit score.
type ScoringVersion string

// Known scoring engine versions.
const (
	VersionSimple   ScoringVersion = "v1-simple-llm"
	VersionEnhanced ScoringVersion = "v2-enhanced-llm"
)

// Recommendation is the hiring recommendation derived from a fit score.
type Recommendation string

// Fit recommendation bands.
const (
	StrongFit   Recommendation = "strong-fit"
	GoodFit     Recommendation = "good-fit"
	PossibleFit Recommendation = "possible-fit"
	PoorFit     Recommendation = "poor-fit"
)

// ComponentScores holds the named sub-scores produced by engines that
// decompose the overall score. All values are 0-100.
type ComponentScores struct {
	RelevanceScore     int `json:"relevance_score"`
	QualificationScore int `json:"qualification_score"`
}

// ScoringMethod records which engine version produced a breakdown and the
// relative AI/deterministic weights it applied.
type ScoringMethod struct {
	Version             ScoringVersion `json:"version"`
	AIWeight            float64        `json:"ai_weight,omitempty"`
	DeterministicWeight float64        `json:"deterministic_weight,omitempty"`
}

// FitScoreBreakdown is the structured result of scoring one application
// against one job posting. SkillsMatched only contains skills traceable to
// the job posting's own text; generic soft skills belong in Strengths.
type FitScoreBreakdown struct {
	OverallScore   int            `json:"overall_score"`
	Recommendation Recommendation `json:"recommendation"`

	SkillsMatched []string `json:"skills_matched"`
	SkillsMissing []string `json:"skills_missing"`
	Strengths     []string `json:"strengths"`
	Concerns      []string `json:"concerns"`
	Reasoning     string   `json:"reasoning"`

	ComponentScores *ComponentScores `json:"component_scores,omitempty"`
	ScoringMethod   ScoringMethod    `json:"scoring_method"`
}

// ParsedResumeData wraps extracted resume content plus parsing metadata.
// ParsingQuality is "text-only" today; structured parsing is a seam for
// future versions.
type ParsedResumeData struct {
	ResumeText     string    `json:"resume_text"`
	ParsingQuality string    `json:"parsing_quality"`
	ParsedAt       time.Time `json:"parsed_at"`
}

// Application is one submitted job application and its evaluation state.
// Created at submission time outside this pipeline; mutated exclusively by
// the processing orchestrator afterward.
type Application struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	CompanyID uuid.UUID `json:"company_id"`
	UserID    uuid.UUID `json:"user_id,omitempty"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`

	FormData *ApplicationFormData `json:"form_data,omitempty"`

	ParsedResume      *ParsedResumeData  `json:"parsed_resume,omitempty"`
	FitScoreBreakdown *FitScoreBreakdown `json:"fit_score_breakdown,omitempty"`
	ScoringVersion    ScoringVersion     `json:"scoring_version,omitempty"`

	EligibleForSecondRound bool `json:"eligible_for_second_round"`

	ProcessingStatus      ProcessingStatus `json:"processing_status,omitempty"`
	ProcessingError       string           `json:"processing_error,omitempty"`
	ProcessingStartedAt   *time.Time       `json:"processing_started_at,omitempty"`
	ProcessingCompletedAt *time.Time       `json:"processing_completed_at,omitempty"`

	AppliedAt    time.Time `json:"applied_at"`
	LastModified time.Time `json:"last_modified"`
}

// ApplicantName returns the applicant's display name for notifications.
func (a *Application) ApplicantName() string {
	if a.FirstName == "" && a.LastName == "" {
		return ""
	}
	if a.LastName == "" {
		return a.FirstName
	}
	if a.FirstName == "" {
		return a.LastName
	}
	return a.FirstName + " " + a.LastName
}
