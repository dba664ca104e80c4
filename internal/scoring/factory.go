package scoring

import (
	"go.uber.org/zap"

	"github.com/hexcelerate/jobfit/internal/llm"
	"github.com/hexcelerate/jobfit/internal/logger"
	"github.com/hexcelerate/jobfit/internal/types"
)

// Factory resolves version tags to engine instances. Engines are stateless,
// so the factory hands out fresh values per call rather than caching.
type Factory struct {
	client llm.Client
	log    *zap.Logger
}

// NewFactory creates an engine factory backed by the given LLM client.
func NewFactory(client llm.Client, log *zap.Logger) *Factory {
	return &Factory{client: client, log: logger.Or(log)}
}

// Engine returns the engine registered for the given version tag. Unknown
// tags fall back to the baseline engine so historical records with retired
// tags stay processable.
func (f *Factory) Engine(version types.ScoringVersion) Engine {
	switch version {
	case types.VersionSimple:
		return NewSimpleEngine(f.client, f.log)
	case types.VersionEnhanced:
		return NewEnhancedEngine(f.client, f.log)
	default:
		f.log.Warn("unknown scoring version, falling back to baseline",
			logger.EngineVersion(string(version)))
		return NewSimpleEngine(f.client, f.log)
	}
}

// Default returns the engine used for new applications.
func (f *Factory) Default() Engine {
	return f.Engine(types.VersionEnhanced)
}
