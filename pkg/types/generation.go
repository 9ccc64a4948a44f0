package types

// GenerationConfig holds the sampling parameters sent with every translation call.
type GenerationConfig struct {
	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
}

// HarmCategory names a content-safety category understood by the remote model.
type HarmCategory string

const (
	HarmCategoryHarassment       HarmCategory = "HARM_CATEGORY_HARASSMENT"
	HarmCategoryHateSpeech       HarmCategory = "HARM_CATEGORY_HATE_SPEECH"
	HarmCategorySexuallyExplicit HarmCategory = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	HarmCategoryDangerousContent HarmCategory = "HARM_CATEGORY_DANGEROUS_CONTENT"
)

// BlockLowAndAbove blocks content with a low or higher probability of harm.
const BlockLowAndAbove = "BLOCK_LOW_AND_ABOVE"

type SafetySetting struct {
	Category  HarmCategory
	Threshold string
}

// GenerationRequest is a single prompt sent to a text-generation provider.
// An empty Model means the provider's configured default.
type GenerationRequest struct {
	Model  string
	Prompt string
	Config GenerationConfig
	Safety []SafetySetting
}

// DefaultGenerationConfig returns low-temperature sampling suited to code output.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:     0.1,
		TopP:            0.8,
		TopK:            32,
		MaxOutputTokens: 8192,
	}
}

func DefaultSafetySettings() []SafetySetting {
	return []SafetySetting{
		{Category: HarmCategoryHarassment, Threshold: BlockLowAndAbove},
		{Category: HarmCategoryHateSpeech, Threshold: BlockLowAndAbove},
		{Category: HarmCategorySexuallyExplicit, Threshold: BlockLowAndAbove},
		{Category: HarmCategoryDangerousContent, Threshold: BlockLowAndAbove},
	}
}
