// Package pipeline orchestrates application evaluation and job matching
// runs: extraction, scoring, persistence, and best-effort side effects.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hexcelerate/jobfit/internal/logger"
	"github.com/hexcelerate/jobfit/internal/notify"
	"github.com/hexcelerate/jobfit/internal/scoring"
	"github.com/hexcelerate/jobfit/internal/types"
)

// Interview invitations go out at this score regardless of the configured
// eligibility threshold. The two coincide by default but are separate knobs
// so tuning eligibility never silently gates notifications.
const notificationThreshold = 70

// Extractor converts a binary document into plain text.
type Extractor interface {
	ExtractText(ctx context.Context, document []byte) (string, error)
}

// ApplicationStore is the persistence surface the application orchestrator
// drives.
type ApplicationStore interface {
	GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error)
	GetJob(ctx context.Context, id uuid.UUID) (*types.Job, error)
	MarkProcessing(ctx context.Context, id uuid.UUID, startedAt time.Time) error
	SaveScoringResult(ctx context.Context, id uuid.UUID, resume *types.ParsedResumeData, breakdown *types.FitScoreBreakdown, version types.ScoringVersion, eligible bool) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
}

// Notifier sends applicant-facing notifications. Failures are logged and
// swallowed, never escalated.
type Notifier interface {
	SendInterviewInvitation(ctx context.Context, recipient string, invitation notify.InterviewInvitation) error
}

// ProcessingOptions tunes one application processing run.
type ProcessingOptions struct {
	// ScoringVersion selects the engine; empty means the current default.
	ScoringVersion types.ScoringVersion
	// Threshold is the minimum score for second-round eligibility.
	// Zero means the default of 70.
	Threshold int
	// FormData is the verified application-form data, passed through to
	// engines that use it.
	FormData *types.ApplicationFormData
}

func (o ProcessingOptions) withDefaults() ProcessingOptions {
	if o.ScoringVersion == "" {
		o.ScoringVersion = types.VersionEnhanced
	}
	if o.Threshold <= 0 {
		o.Threshold = scoring.DefaultThreshold
	}
	return o
}

// ApplicationProcessor drives one application through extraction, scoring,
// persistence, and conditional notification.
type ApplicationProcessor struct {
	store     ApplicationStore
	extractor Extractor
	engines   *scoring.Factory
	notifier  Notifier
	log       *zap.Logger
}

// NewApplicationProcessor creates the application orchestrator. notifier
// may be nil to disable invitations.
func NewApplicationProcessor(store ApplicationStore, extractor Extractor, engines *scoring.Factory, notifier Notifier, log *zap.Logger) *ApplicationProcessor {
	return &ApplicationProcessor{
		store:     store,
		extractor: extractor,
		engines:   engines,
		notifier:  notifier,
		log:       logger.Or(log),
	}
}

// ProcessApplication runs the full evaluation for one submitted
// application. A failure in extraction or persistence marks the record
// failed and returns the error; scoring itself never fails the run, and
// notification failures are swallowed.
func (p *ApplicationProcessor) ProcessApplication(ctx context.Context, applicationID uuid.UUID, resume []byte, job *types.Job, opts ProcessingOptions) (*types.FitScoreBreakdown, error) {
	opts = opts.withDefaults()
	log := p.log.With(logger.ApplicationID(applicationID.String()),
		logger.EngineVersion(string(opts.ScoringVersion)))

	log.Info("application processing started")
	if err := p.store.MarkProcessing(ctx, applicationID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to start processing: %w", err)
	}

	log.Info("extracting resume text", logger.Stage("extract"))
	resumeText, err := p.extractor.ExtractText(ctx, resume)
	if err != nil {
		return nil, p.fail(ctx, applicationID, log, fmt.Errorf("resume extraction failed: %w", err))
	}

	parsed := &types.ParsedResumeData{
		ResumeText:     resumeText,
		ParsingQuality: "text-only",
		ParsedAt:       time.Now().UTC(),
	}

	breakdown, err := p.scoreAndPersist(ctx, applicationID, parsed, job, opts, log)
	if err != nil {
		return nil, err
	}

	p.maybeSendInvitation(ctx, applicationID, job, breakdown, log)

	return breakdown, nil
}

// ReprocessApplication re-runs scoring for a record that already holds
// extracted resume text, under a possibly different engine version.
// Extraction is skipped; a record without resume text cannot be
// reprocessed.
func (p *ApplicationProcessor) ReprocessApplication(ctx context.Context, applicationID uuid.UUID, opts ProcessingOptions) (*types.FitScoreBreakdown, error) {
	opts = opts.withDefaults()
	log := p.log.With(logger.ApplicationID(applicationID.String()),
		logger.EngineVersion(string(opts.ScoringVersion)))

	app, err := p.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.ParsedResume == nil || app.ParsedResume.ResumeText == "" {
		return nil, fmt.Errorf("application %s has no extracted resume text, cannot reprocess", applicationID)
	}

	job, err := p.store.GetJob(ctx, app.JobID)
	if err != nil {
		return nil, err
	}

	if opts.FormData == nil {
		opts.FormData = app.FormData
	}

	log.Info("application reprocessing started")
	if err := p.store.MarkProcessing(ctx, applicationID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to start reprocessing: %w", err)
	}

	return p.scoreAndPersist(ctx, applicationID, app.ParsedResume, job, opts, log)
}

func (p *ApplicationProcessor) scoreAndPersist(ctx context.Context, applicationID uuid.UUID, resume *types.ParsedResumeData, job *types.Job, opts ProcessingOptions, log *zap.Logger) (*types.FitScoreBreakdown, error) {
	log.Info("calculating fit score", logger.Stage("score"))
	engine := p.engines.Engine(opts.ScoringVersion)
	breakdown := engine.CalculateFit(ctx, resume, job, opts.FormData)

	eligible := breakdown.OverallScore >= opts.Threshold
	log.Info("persisting scoring result", logger.Stage("persist"),
		zap.Int("score", breakdown.OverallScore), zap.Bool("eligible", eligible))

	if err := p.store.SaveScoringResult(ctx, applicationID, resume, breakdown, engine.Version(), eligible); err != nil {
		return nil, p.fail(ctx, applicationID, log, fmt.Errorf("failed to persist scoring result: %w", err))
	}

	log.Info("application processing complete", zap.Int("score", breakdown.OverallScore))
	return breakdown, nil
}

// maybeSendInvitation sends the interview invitation when the score clears
// the notification threshold. Runs after the record is completed; nothing
// here may flip that outcome.
func (p *ApplicationProcessor) maybeSendInvitation(ctx context.Context, applicationID uuid.UUID, job *types.Job, breakdown *types.FitScoreBreakdown, log *zap.Logger) {
	if p.notifier == nil || breakdown.OverallScore < notificationThreshold {
		return
	}

	app, err := p.store.GetApplication(ctx, applicationID)
	if err != nil {
		log.Warn("skipping interview invitation, application lookup failed", zap.Error(err))
		return
	}
	if app.Email == "" {
		log.Warn("skipping interview invitation, applicant email missing")
		return
	}

	companyName := job.CompanyName
	if companyName == "" {
		companyName = "our organization"
	}

	err = p.notifier.SendInterviewInvitation(ctx, app.Email, notify.InterviewInvitation{
		ApplicantName: app.ApplicantName(),
		JobTitle:      job.Title,
		CompanyName:   companyName,
	})
	if err != nil {
		log.Warn("interview invitation failed", zap.Error(err))
		return
	}
	log.Info("interview invitation sent")
}

// fail records a processing failure and returns the original error. A
// failed status write is logged but cannot mask the root cause.
func (p *ApplicationProcessor) fail(ctx context.Context, applicationID uuid.UUID, log *zap.Logger, cause error) error {
	log.Error("application processing failed", zap.Error(cause))
	if err := p.store.MarkFailed(ctx, applicationID, cause.Error()); err != nil {
		log.Error("failed to record processing failure", zap.Error(err))
	}
	return cause
}
