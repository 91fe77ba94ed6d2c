package domain

import "fmt"

// QuerySettings is per-request generation configuration. Out-of-range values
// are rejected by Validate, not clamped. Temperature is a pointer so that an
// explicit 0 is distinguishable from "not provided".
type QuerySettings struct {
	TopK        int      `json:"top_k"`
	ChunkSize   int      `json:"chunk_size"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens"`
}

// Float64 is a pointer helper for optional settings fields.
func Float64(v float64) *float64 {
	return &v
}

const (
	DefaultTopK        = 5
	DefaultChunkSize   = 1000
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 1024

	MaxTopK      = 20
	MinChunkSize = 100
	MaxChunkSize = 4000
	MaxTemp      = 2.0
	MaxMaxTokens = 8192
)

// DefaultQuerySettings fills every field with its documented default. The
// model comes from deployment configuration.
func DefaultQuerySettings(model string) QuerySettings {
	return QuerySettings{
		TopK:        DefaultTopK,
		ChunkSize:   DefaultChunkSize,
		Model:       model,
		Temperature: Float64(DefaultTemperature),
		MaxTokens:   DefaultMaxTokens,
	}
}

// WithDefaults fills only zero-valued fields, leaving caller overrides alone.
func (s QuerySettings) WithDefaults(model string) QuerySettings {
	out := s
	if out.TopK == 0 {
		out.TopK = DefaultTopK
	}
	if out.ChunkSize == 0 {
		out.ChunkSize = DefaultChunkSize
	}
	if out.Model == "" {
		out.Model = model
	}
	if out.Temperature == nil {
		out.Temperature = Float64(DefaultTemperature)
	}
	if out.MaxTokens == 0 {
		out.MaxTokens = DefaultMaxTokens
	}
	return out
}

func (s QuerySettings) Validate() error {
	if s.TopK < 1 || s.TopK > MaxTopK {
		return WrapError(ErrInvalidSettings, "validate settings",
			fmt.Errorf("top_k %d out of range [1,%d]", s.TopK, MaxTopK))
	}
	if s.ChunkSize < MinChunkSize || s.ChunkSize > MaxChunkSize {
		return WrapError(ErrInvalidSettings, "validate settings",
			fmt.Errorf("chunk_size %d out of range [%d,%d]", s.ChunkSize, MinChunkSize, MaxChunkSize))
	}
	if s.Temperature != nil && (*s.Temperature < 0 || *s.Temperature > MaxTemp) {
		return WrapError(ErrInvalidSettings, "validate settings",
			fmt.Errorf("temperature %.2f out of range [0,%.1f]", *s.Temperature, MaxTemp))
	}
	if s.MaxTokens < 1 || s.MaxTokens > MaxMaxTokens {
		return WrapError(ErrInvalidSettings, "validate settings",
			fmt.Errorf("max_tokens %d out of range [1,%d]", s.MaxTokens, MaxMaxTokens))
	}
	if s.Model == "" {
		return WrapError(ErrInvalidSettings, "validate settings",
			fmt.Errorf("model is required"))
	}
	return nil
}

// ContextBudget is the character budget for assembled prompt context.
func (s QuerySettings) ContextBudget() int {
	return s.ChunkSize * s.TopK
}

// GenerationOptions is the subset of settings passed to the answer generator.
type GenerationOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

func (s QuerySettings) GenerationOptions() GenerationOptions {
	temperature := float64(DefaultTemperature)
	if s.Temperature != nil {
		temperature = *s.Temperature
	}
	return GenerationOptions{
		Model:       s.Model,
		Temperature: temperature,
		MaxTokens:   s.MaxTokens,
	}
}
