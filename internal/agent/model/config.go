package model

// ================ Config ================

type ChatModelConfig struct {
	Model       string  `envconfig:"CHAT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"CHAT_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"CHAT_TEMPERATURE" default:"0.4"`
}

type EngineConfig struct {
	MaxRoundTrips int    `envconfig:"ENGINE_MAX_ROUND_TRIPS" default:"10"`
	ModelTimeout  string `envconfig:"ENGINE_MODEL_TIMEOUT" default:"60s"`
	Streaming     bool   `envconfig:"ENGINE_STREAMING" default:"false"`
}

type PersonaConfig struct {
	AssistantName string `envconfig:"PROMPT_ASSISTANT_NAME" default:"Compass-AI"`
	BusinessType  string `envconfig:"PROMPT_BUSINESS_TYPE" default:"real estate agency"`
}

type HistoryConfig struct {
	// Backend selects where conversation history lives: "memory" or "redis".
	Backend string `envconfig:"HISTORY_BACKEND" default:"memory"`
	TTL     string `envconfig:"HISTORY_TTL" default:"15m"`
}
