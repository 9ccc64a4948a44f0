package types

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Log         LogConfig
	Translation TranslationConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	OpenAI      OpenAIConfig
	Gemini      GeminiConfig
	Ollama      OllamaConfig
}

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AppEnv          string
	LogLevel        string
	AllowedOrigins  []string
}

type LogConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type TranslationConfig struct {
	Provider           string
	Timeout            time.Duration
	CancelPollInterval time.Duration
}

type DatabaseConfig struct {
	Name     string
	Host     string
	Port     string
	User     string
	Password string
	SSLMode  string
}

// Enabled reports whether translation history should be persisted.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

type RedisConfig struct {
	URL  string
	Addr string
}

func (c RedisConfig) Enabled() bool {
	return c.URL != "" || c.Addr != ""
}

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	StreamModel string
	Backend     string
	Project     string
	Location    string
	// BaseURL overrides the API endpoint, e.g. for a proxy
	BaseURL     string
}

// UsesVertex reports whether the Gemini client should talk to Vertex AI instead of the Gemini API.
func (c GeminiConfig) UsesVertex() bool {
	return strings.EqualFold(c.Backend, "vertex")
}

type OllamaConfig struct {
	BaseURL string
	Model   string
}

func validateRequiredEnvs(v *viper.Viper, requiredEnvs []string) error {
	for _, env := range requiredEnvs {
		if v.GetString(env) == "" {
			return fmt.Errorf("%s is required", env)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "6777")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE_DAYS", 30)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("TRANSLATOR_PROVIDER", "gemini")
	v.SetDefault("TRANSLATION_TIMEOUT", 2*time.Minute)
	v.SetDefault("CANCEL_POLL_INTERVAL", 100*time.Millisecond)
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_STREAM_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_BACKEND", "gemini")
	v.SetDefault("GEMINI_LOCATION", "us-central1")
	v.SetDefault("OPENAI_MODEL", "gpt-5-nano")
	v.SetDefault("OLLAMA_BASE_URL", "http://localhost:11434")
	v.SetDefault("OLLAMA_MODEL", "qwen2.5-coder")
	v.SetDefault("KAFKA_TOPIC", "code-translations")
	v.SetDefault("KAFKA_CLIENT_ID", "codeshift")
}

// providerRequiredEnvs lists the credentials the selected translator provider cannot run without.
func providerRequiredEnvs(v *viper.Viper) ([]string, error) {
	switch strings.ToLower(v.GetString("TRANSLATOR_PROVIDER")) {
	case "gemini":
		if strings.EqualFold(v.GetString("GEMINI_BACKEND"), "vertex") {
			return []string{"GEMINI_PROJECT"}, nil
		}
		return []string{"GEMINI_API_KEY"}, nil
	case "openai":
		return []string{"OPENAI_API_KEY"}, nil
	case "ollama":
		return []string{"OLLAMA_BASE_URL"}, nil
	default:
		return nil, fmt.Errorf("unsupported translator provider: %s", v.GetString("TRANSLATOR_PROVIDER"))
	}
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	return loadConfig(".env")
}

func loadConfig(envFile string) (*Config, error) {
	v := viper.New()

	// Enable environment variable reading first
	v.AutomaticEnv()
	setDefaults(v)

	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	} else {
		log.Print("No config file found, falling back to environment variables")
	}

	requiredEnvs, err := providerRequiredEnvs(v)
	if err != nil {
		return nil, err
	}
	if v.GetString("DB_HOST") != "" {
		requiredEnvs = append(requiredEnvs, "DB_NAME", "DB_PORT", "DB_USER", "DB_SSLMODE")
	}
	if err := validateRequiredEnvs(v, requiredEnvs); err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetString("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			AppEnv:          v.GetString("APP_ENV"),
			LogLevel:        v.GetString("LOG_LEVEL"),
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Log: LogConfig{
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
			MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
		},
		Translation: TranslationConfig{
			Provider:           strings.ToLower(v.GetString("TRANSLATOR_PROVIDER")),
			Timeout:            v.GetDuration("TRANSLATION_TIMEOUT"),
			CancelPollInterval: v.GetDuration("CANCEL_POLL_INTERVAL"),
		},
		Database: DatabaseConfig{
			Name:     v.GetString("DB_NAME"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			URL:  v.GetString("REDIS_URL"),
			Addr: v.GetString("REDIS_ADDR"),
		},
		Kafka: KafkaConfig{
			Brokers:  splitList(v.GetString("KAFKA_BROKERS")),
			Topic:    v.GetString("KAFKA_TOPIC"),
			ClientID: v.GetString("KAFKA_CLIENT_ID"),
		},
		OpenAI: OpenAIConfig{
			APIKey: v.GetString("OPENAI_API_KEY"),
			Model:  v.GetString("OPENAI_MODEL"),
		},
		Gemini: GeminiConfig{
			APIKey:      v.GetString("GEMINI_API_KEY"),
			Model:       v.GetString("GEMINI_MODEL"),
			StreamModel: v.GetString("GEMINI_STREAM_MODEL"),
			Backend:     v.GetString("GEMINI_BACKEND"),
			Project:     v.GetString("GEMINI_PROJECT"),
			Location:    v.GetString("GEMINI_LOCATION"),
			BaseURL:     v.GetString("GEMINI_BASE_URL"),
		},
		Ollama: OllamaConfig{
			BaseURL: v.GetString("OLLAMA_BASE_URL"),
			Model:   v.GetString("OLLAMA_MODEL"),
		},
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Models returns the default and streaming model names for the selected provider.
func (c *Config) Models() (model, streamModel string) {
	switch c.Translation.Provider {
	case "openai":
		return c.OpenAI.Model, c.OpenAI.Model
	case "ollama":
		return c.Ollama.Model, c.Ollama.Model
	default:
		return c.Gemini.Model, c.Gemini.StreamModel
	}
}
