package ai

// ModelPreset selects sampling settings for a generation call.
type ModelPreset string

const (
	PresetCreative ModelPreset = "creative"
	PresetPrecise  ModelPreset = "precise"
	PresetBalanced ModelPreset = "balanced"
	// PresetReport is tuned for long structured JSON reports such as personas.
	PresetReport ModelPreset = "report"
)

// ModelConfig holds model configuration
type ModelConfig struct {
	Temperature      float32
	TopP             float32
	TopK             int
	MaxOutputTokens  int
	ResponseMimeType string // "application/json" or "text/plain"
}

// OpenAIConfig holds OpenAI-specific configuration
type OpenAIConfig struct {
	Temperature float32
	MaxTokens   int
	TopP        float32
}

// GenerateMetadata describes which provider answered.
type GenerateMetadata struct {
	Provider     string
	Model        string
	UsedFallback bool
}

// GenerateOptions holds options for AI generation
type GenerateOptions struct {
	Model     string
	JSONMode  bool
	Overrides *ModelConfig
}

// GetPresetConfig returns the Gemini configuration for a preset
func GetPresetConfig(preset ModelPreset) ModelConfig {
	switch preset {
	case PresetCreative:
		return ModelConfig{Temperature: 0.7, TopP: 0.95, TopK: 40, MaxOutputTokens: 2048}
	case PresetPrecise:
		return ModelConfig{Temperature: 0.1, TopP: 0.9, TopK: 20, MaxOutputTokens: 1024}
	case PresetBalanced:
		return ModelConfig{Temperature: 0.1, TopP: 0.95, TopK: 40, MaxOutputTokens: 4096}
	case PresetReport:
		return ModelConfig{Temperature: 0.4, TopP: 0.95, TopK: 40, MaxOutputTokens: 8192}
	default:
		return GetPresetConfig(PresetBalanced)
	}
}

// GetOpenAIPresetConfig returns OpenAI configuration for a preset
func GetOpenAIPresetConfig(preset ModelPreset) OpenAIConfig {
	switch preset {
	case PresetCreative:
		return OpenAIConfig{Temperature: 0.7, MaxTokens: 2048, TopP: 0.95}
	case PresetPrecise:
		return OpenAIConfig{Temperature: 0.1, MaxTokens: 1024, TopP: 0.9}
	case PresetBalanced:
		return OpenAIConfig{Temperature: 0.1, MaxTokens: 4096, TopP: 0.95}
	case PresetReport:
		return OpenAIConfig{Temperature: 0.4, MaxTokens: 8192, TopP: 0.95}
	default:
		return GetOpenAIPresetConfig(PresetBalanced)
	}
}
