package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hexcelerate/jobfit/internal/types"
)

// ErrApplicationNotFound is returned when an application ID does not exist.
var ErrApplicationNotFound = errors.New("application not found")

const applicationColumns = `
	id, job_id, company_id, user_id,
	first_name, last_name, email,
	form_data, parsed_resume, fit_score_breakdown,
	scoring_version, eligible_for_second_round,
	processing_status, processing_error,
	processing_started_at, processing_completed_at,
	applied_at, last_modified`

// GetApplication loads one application record.
func (s *Store) GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT`+applicationColumns+` FROM applications WHERE id = $1`, id)

	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrApplicationNotFound, id)
		}
		return nil, fmt.Errorf("failed to get application %s: %w", id, err)
	}
	return app, nil
}

// MarkProcessing transitions an application into the processing status and
// records the start time. A previous error message is cleared so a
// reprocessing run starts clean.
func (s *Store) MarkProcessing(ctx context.Context, id uuid.UUID, startedAt time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE applications
		 SET processing_status = $1, processing_started_at = $2,
		     processing_error = NULL, last_modified = NOW()
		 WHERE id = $3`,
		types.StatusProcessing, startedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark application %s processing: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrApplicationNotFound, id)
	}
	return nil
}

// SaveScoringResult persists the extracted resume and fit score, derives
// second-round eligibility, and marks the application completed in one
// write.
func (s *Store) SaveScoringResult(ctx context.Context, id uuid.UUID, resume *types.ParsedResumeData, breakdown *types.FitScoreBreakdown, version types.ScoringVersion, eligible bool) error {
	resumeJSON, err := json.Marshal(resume)
	if err != nil {
		return fmt.Errorf("failed to marshal parsed resume: %w", err)
	}
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal fit score breakdown: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE applications
		 SET parsed_resume = $1, fit_score_breakdown = $2,
		     scoring_version = $3, eligible_for_second_round = $4,
		     processing_status = $5, processing_completed_at = NOW(),
		     processing_error = NULL, last_modified = NOW()
		 WHERE id = $6`,
		resumeJSON, breakdownJSON, version, eligible, types.StatusCompleted, id,
	)
	if err != nil {
		return fmt.Errorf("failed to save scoring result for application %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrApplicationNotFound, id)
	}
	return nil
}

// MarkFailed records a processing failure with a human-readable message.
func (s *Store) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE applications
		 SET processing_status = $1, processing_error = $2,
		     processing_completed_at = NOW(), last_modified = NOW()
		 WHERE id = $3`,
		types.StatusFailed, message, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark application %s failed: %w", id, err)
	}
	return nil
}

// FetchCachedScores returns the fit scores of the user's completed
// applications for the given jobs, keyed by job ID. Lookups are chunked to
// the store's batch query limit.
func (s *Store) FetchCachedScores(ctx context.Context, userID uuid.UUID, jobIDs []uuid.UUID) (map[uuid.UUID]types.CachedJobScore, error) {
	scores := make(map[uuid.UUID]types.CachedJobScore)
	if len(jobIDs) == 0 {
		return scores, nil
	}

	for _, chunk := range chunkIDs(jobIDs, batchQueryLimit) {
		rows, err := s.pool.Query(ctx,
			`SELECT job_id, fit_score_breakdown, applied_at
			 FROM applications
			 WHERE user_id = $1 AND job_id = ANY($2) AND processing_status = $3`,
			userID, chunk, types.StatusCompleted,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch cached scores: %w", err)
		}

		if err := collectCachedScores(rows, scores); err != nil {
			return nil, err
		}
	}
	return scores, nil
}

// FetchCompanyCachedScores returns cached scores for all of the user's
// completed applications within one company.
func (s *Store) FetchCompanyCachedScores(ctx context.Context, userID, companyID uuid.UUID) (map[uuid.UUID]types.CachedJobScore, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT job_id, fit_score_breakdown, applied_at
		 FROM applications
		 WHERE user_id = $1 AND company_id = $2 AND processing_status = $3`,
		userID, companyID, types.StatusCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch company cached scores: %w", err)
	}

	scores := make(map[uuid.UUID]types.CachedJobScore)
	if err := collectCachedScores(rows, scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func collectCachedScores(rows pgx.Rows, scores map[uuid.UUID]types.CachedJobScore) error {
	defer rows.Close()

	for rows.Next() {
		var (
			jobID         uuid.UUID
			breakdownJSON []byte
			appliedAt     time.Time
		)
		if err := rows.Scan(&jobID, &breakdownJSON, &appliedAt); err != nil {
			return fmt.Errorf("failed to scan cached score: %w", err)
		}
		if len(breakdownJSON) == 0 {
			continue
		}

		var breakdown types.FitScoreBreakdown
		if err := json.Unmarshal(breakdownJSON, &breakdown); err != nil {
			continue
		}

		// A newer application for the same job supersedes an older one.
		if existing, ok := scores[jobID]; ok && existing.Timestamp.After(appliedAt) {
			continue
		}
		scores[jobID] = types.CachedJobScore{
			JobID:     jobID,
			Score:     breakdown.OverallScore,
			Timestamp: appliedAt,
			Source:    "application",
		}
	}
	return rows.Err()
}

// scanApplication reads one application row, decoding the JSON columns.
func scanApplication(row pgx.Row) (*types.Application, error) {
	var (
		app           types.Application
		userID        *uuid.UUID
		formJSON      []byte
		resumeJSON    []byte
		breakdownJSON []byte
		version       *string
		procStatus    *string
		procError     *string
	)

	err := row.Scan(
		&app.ID, &app.JobID, &app.CompanyID, &userID,
		&app.FirstName, &app.LastName, &app.Email,
		&formJSON, &resumeJSON, &breakdownJSON,
		&version, &app.EligibleForSecondRound,
		&procStatus, &procError,
		&app.ProcessingStartedAt, &app.ProcessingCompletedAt,
		&app.AppliedAt, &app.LastModified,
	)
	if err != nil {
		return nil, err
	}

	if userID != nil {
		app.UserID = *userID
	}
	if version != nil {
		app.ScoringVersion = types.ScoringVersion(*version)
	}
	if procStatus != nil {
		app.ProcessingStatus = types.ProcessingStatus(*procStatus)
	}
	if procError != nil {
		app.ProcessingError = *procError
	}

	if len(formJSON) > 0 {
		app.FormData = &types.ApplicationFormData{}
		if err := json.Unmarshal(formJSON, app.FormData); err != nil {
			return nil, fmt.Errorf("failed to decode form data: %w", err)
		}
	}
	if len(resumeJSON) > 0 {
		app.ParsedResume = &types.ParsedResumeData{}
		if err := json.Unmarshal(resumeJSON, app.ParsedResume); err != nil {
			return nil, fmt.Errorf("failed to decode parsed resume: %w", err)
		}
	}
	if len(breakdownJSON) > 0 {
		app.FitScoreBreakdown = &types.FitScoreBreakdown{}
		if err := json.Unmarshal(breakdownJSON, app.FitScoreBreakdown); err != nil {
			return nil, fmt.Errorf("failed to decode fit score breakdown: %w", err)
		}
	}

	return &app, nil
}
