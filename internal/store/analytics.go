package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hexcelerate/jobfit/internal/types"
)

// Analytics event types emitted by the matching orchestrator.
const (
	EventMatchingCompleted = "matching_completed"
	EventMatchingFailed    = "matching_failed"
)

// MatchingEvent is one analytics record describing a matching run.
type MatchingEvent struct {
	EventType  string            `json:"event_type"`
	SessionID  string            `json:"session_id"`
	CompanyID  uuid.UUID         `json:"company_id"`
	TrackingID string            `json:"tracking_id,omitempty"`
	JobsTotal  int               `json:"jobs_total,omitempty"`
	Matches    int               `json:"matches,omitempty"`
	Method     types.MatchMethod `json:"method,omitempty"`
	Interests  []string          `json:"interests,omitempty"`
	Duration   time.Duration     `json:"duration,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// RecordMatchingEvent appends one analytics event. Callers treat failures
// as best-effort; the write is still reported so they can log it.
func (s *Store) RecordMatchingEvent(ctx context.Context, event MatchingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal matching event: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO matching_analytics (event_type, session_id, company_id, payload)
		 VALUES ($1, $2, $3, $4)`,
		event.EventType, event.SessionID, event.CompanyID, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to record matching event: %w", err)
	}
	return nil
}
