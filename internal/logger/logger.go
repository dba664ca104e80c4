// Package logger provides the shared zap logger construction and the
// structured field keys used across the pipeline.
package logger

import (
	"go.uber.org/zap"
)

// Structured log field keys shared by orchestrators and adapters.
const (
	// FieldApplicationID identifies one application processing run.
	FieldApplicationID = "application_id"
	// FieldTrackingID identifies one matching run (user id or session id).
	FieldTrackingID = "tracking_id"
	// FieldEngineVersion is the scoring engine version tag.
	FieldEngineVersion = "engine_version"
	// FieldStage is the orchestrator stage currently executing.
	FieldStage = "stage"
)

// New builds the process logger. Verbose mode switches to the development
// encoder with debug level enabled.
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// ApplicationID returns the standard application id field.
func ApplicationID(id string) zap.Field {
	return zap.String(FieldApplicationID, id)
}

// TrackingID returns the standard tracking id field.
func TrackingID(id string) zap.Field {
	return zap.String(FieldTrackingID, id)
}

// EngineVersion returns the standard engine version field.
func EngineVersion(version string) zap.Field {
	return zap.String(FieldEngineVersion, version)
}

// Stage returns the standard stage field.
func Stage(name string) zap.Field {
	return zap.String(FieldStage, name)
}

// Or returns the provided logger, or a no-op logger when nil. Keeps
// optional logger wiring panic-free.
func Or(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
