package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config is read once at process start. Every binary uses the same keys;
// fields a binary does not need are ignored by it.
type Config struct {
	LLMProvider string  `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMBaseURL  string  `env:"LLM_BASE_URL" envDefault:"https://api.together.xyz/v1"`
	LLMModel    string  `env:"LLM_MODEL" envDefault:"meta-llama/Llama-3.3-70B-Instruct-Turbo-Free"`
	LLMAPIKey   string  `env:"LLM_API_KEY"`
	Temperature float64 `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	MaxTokens   int     `env:"LLM_MAX_TOKENS" envDefault:"150"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`

	// ParamPrefix switches secrets and knowledge text to SSM Parameter Store.
	ParamPrefix   string `env:"PARAM_PREFIX"`
	KnowledgePath string `env:"KNOWLEDGE_PATH" envDefault:"data/bank_info.txt"`

	ScoringModelPath string `env:"SCORING_MODEL_PATH" envDefault:"data/credit_model.json"`
	ScoringDataPath  string `env:"SCORING_DATA_PATH" envDefault:"data/credit_data.xlsx"`

	HistoryLimit     int           `env:"HISTORY_LIMIT" envDefault:"20"`
	MaxMessageLength int           `env:"MAX_MESSAGE_LENGTH" envDefault:"500"`
	SessionTable     string        `env:"SESSION_TABLE"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	// TTS_BASE_URL serves both speech directions.
	TTSAPIKey  string `env:"TTS_API_KEY"`
	STTAPIKey  string `env:"STT_API_KEY"`
	TTSBaseURL string `env:"TTS_BASE_URL" envDefault:"https://back.aisha.group"`
	TTSVoice   string `env:"TTS_VOICE" envDefault:"gulnoza"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":5000"`
}

// Load reads the optional dotenv files, then parses the environment.
// Variables already set in the environment win over dotenv values.
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Provider() {
	case ProviderOpenAI:
		if c.LLMAPIKey == "" && c.ParamPrefix == "" {
			return errors.New("config: LLM_API_KEY or PARAM_PREFIX is required for the openai provider")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("config: GEMINI_API_KEY is required for the gemini provider")
		}
	default:
		return fmt.Errorf("config: unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.HistoryLimit <= 0 {
		return errors.New("config: HISTORY_LIMIT must be positive")
	}
	if c.MaxMessageLength <= 0 {
		return errors.New("config: MAX_MESSAGE_LENGTH must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	return nil
}

// Provider is the normalized LLM_PROVIDER value.
func (c Config) Provider() string {
	return strings.ToLower(strings.TrimSpace(c.LLMProvider))
}

// SecretName is the SSM parameter holding the LLM API token.
func (c Config) SecretName() string {
	return c.paramPath("llm-token")
}

// KnowledgeParam is the SSM parameter holding the bank knowledge text.
func (c Config) KnowledgeParam() string {
	return c.paramPath("knowledge")
}

func (c Config) paramPath(name string) string {
	prefix := strings.TrimRight(strings.TrimSpace(c.ParamPrefix), "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/" + name
}
