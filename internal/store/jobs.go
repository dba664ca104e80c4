package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hexcelerate/jobfit/internal/types"
)

// ErrJobNotFound is returned when a job posting ID does not exist.
var ErrJobNotFound = errors.New("job not found")

const jobColumns = `
	id, company_id, title, description, type, category, department, status,
	requirements, responsibilities, duties, company_name,
	posted_at, last_modified`

// GetJob loads one job posting.
func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*types.Job, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT`+jobColumns+` FROM jobs WHERE id = $1`, id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}
	return job, nil
}

// ListActiveJobs returns every active posting for one company, newest
// first. This is the matcher's job pool.
func (s *Store) ListActiveJobs(ctx context.Context, companyID uuid.UUID) ([]types.Job, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+jobColumns+` FROM jobs
		 WHERE company_id = $1 AND status = $2
		 ORDER BY posted_at DESC`,
		companyID, types.JobActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active jobs: %w", err)
	}
	return collectJobs(rows)
}

// GetJobsByIDs loads the given postings, chunking the lookup to the store's
// batch query limit. Missing IDs are silently absent from the result.
func (s *Store) GetJobsByIDs(ctx context.Context, ids []uuid.UUID) ([]types.Job, error) {
	jobs := make([]types.Job, 0, len(ids))

	for _, chunk := range chunkIDs(ids, batchQueryLimit) {
		rows, err := s.pool.Query(ctx,
			`SELECT`+jobColumns+` FROM jobs WHERE id = ANY($1)`, chunk)
		if err != nil {
			return nil, fmt.Errorf("failed to get jobs by ids: %w", err)
		}

		batch, err := collectJobs(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, batch...)
	}
	return jobs, nil
}

func collectJobs(rows pgx.Rows) ([]types.Job, error) {
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read jobs: %w", err)
	}
	return jobs, nil
}

func scanJob(row pgx.Row) (*types.Job, error) {
	var (
		job         types.Job
		jobType     *string
		category    *string
		department  *string
		companyName *string
	)

	err := row.Scan(
		&job.ID, &job.CompanyID, &job.Title, &job.Description,
		&jobType, &category, &department, &job.Status,
		&job.Requirements, &job.Responsibilities, &job.Duties, &companyName,
		&job.PostedAt, &job.LastModified,
	)
	if err != nil {
		return nil, err
	}

	if jobType != nil {
		job.Type = *jobType
	}
	if category != nil {
		job.Category = *category
	}
	if department != nil {
		job.Department = *department
	}
	if companyName != nil {
		job.CompanyName = *companyName
	}
	return &job, nil
}
