// Package llm provides the AI classification client used by the scoring
// engines and the job matcher. Responses are untrusted free text expected
// to contain JSON; callers strip fences and validate before parsing.
package llm

// ModelTier selects the capability level of the model for a call.
type ModelTier string

const (
	// TierLite is for cheap batch classification such as title matching.
	TierLite ModelTier = "lite"
	// TierStandard is for full fit-score analysis.
	TierStandard ModelTier = "standard"
)

// Config holds the model configuration for the classification client.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini model mapping.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
	}
}

// Model returns the configured model name for a tier, falling back to the
// standard tier when the requested one is unset.
func (c *Config) Model(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	return c.Models[TierStandard]
}
