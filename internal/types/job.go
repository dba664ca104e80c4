package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the publication status of a job posting.
type JobStatus string

// Job posting statuses. Only active postings participate in matching.
const (
	JobActive JobStatus = "active"
	JobDraft  JobStatus = "draft"
	JobClosed JobStatus = "closed"
)

// Job is a job posting as read from the document store. Posting CRUD is
// owned by the surrounding application; the pipeline only reads these.
type Job struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`

	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type,omitempty"`
	Category    string    `json:"category,omitempty"`
	Department  string    `json:"department,omitempty"`
	Status      JobStatus `json:"status"`

	Requirements     []string `json:"requirements,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Duties           []string `json:"duties,omitempty"`

	CompanyName string `json:"company_name,omitempty"`

	PostedAt     time.Time `json:"posted_at"`
	LastModified time.Time `json:"last_modified"`
}

// PostingText concatenates every text surface of the posting. Used to build
// scoring prompts and the vocabulary that matched skills are validated
// against.
func (j *Job) PostingText() string {
	parts := make([]string, 0, 4+len(j.Requirements)+len(j.Responsibilities)+len(j.Duties))
	parts = append(parts, j.Title, j.Category, j.Description)
	parts = append(parts, j.Requirements...)
	parts = append(parts, j.Responsibilities...)
	parts = append(parts, j.Duties...)
	return strings.Join(parts, "\n")
}
