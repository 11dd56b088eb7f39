package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-tailor/internal/filtering"
	"github.com/spigell/resume-tailor/internal/jobsearch"
	"github.com/spigell/resume-tailor/internal/tailor"
)

const (
	app = "resume-tailor"
)

type Config struct {
	Tailor    *tailor.Config          `mapstructure:"tailor" validate:"required"`
	Search    *jobsearch.SearchParams `mapstructure:"search"`
	Filtering *filtering.Config       `mapstructure:"filtering"`
	CacheFile string                  `mapstructure:"cache_file"`
	Google    *GoogleConfig           `mapstructure:"google"`
	AI        *AIConfig               `mapstructure:"ai"`
	Notify    *NotifyConfig           `mapstructure:"notify"`
	Render    *RenderConfig           `mapstructure:"render"`
}

type GoogleConfig struct {
	APIKey     string `mapstructure:"api_key" json:"-"`
	APIKeyFile string `mapstructure:"api_key_file"`
	CX         string `mapstructure:"cx"`
}

type AIConfig struct {
	MaxLogLength int                `mapstructure:"max_log_length" validate:"gte=0"`
	Gemini       *GeminiConfig      `mapstructure:"gemini"`
	OpenAI       *OpenAIConfig      `mapstructure:"openai"`
	HuggingFace  *HuggingFaceConfig `mapstructure:"huggingface"`
}

type GeminiConfig struct {
	Disabled   bool          `mapstructure:"disabled"`
	APIKey     string        `mapstructure:"api_key" json:"-"`
	APIKeyFile string        `mapstructure:"api_key_file"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type OpenAIConfig struct {
	Disabled   bool          `mapstructure:"disabled"`
	APIKey     string        `mapstructure:"api_key" json:"-"`
	APIKeyFile string        `mapstructure:"api_key_file"`
	BaseURL    string        `mapstructure:"base_url" validate:"omitempty,url"`
	Model      string        `mapstructure:"model"`
	MaxTokens  int           `mapstructure:"max_tokens" validate:"gte=0"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type HuggingFaceConfig struct {
	Disabled   bool          `mapstructure:"disabled"`
	APIKey     string        `mapstructure:"api_key" json:"-"`
	APIKeyFile string        `mapstructure:"api_key_file"`
	URL        string        `mapstructure:"url" validate:"omitempty,url"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type NotifyConfig struct {
	Telegram *TelegramConfig `mapstructure:"telegram"`
	Email    *EmailConfig    `mapstructure:"email"`
}

type TelegramConfig struct {
	Token     string `mapstructure:"token" json:"-"`
	TokenFile string `mapstructure:"token_file"`
	ChatID    string `mapstructure:"chat_id"`
}

type EmailConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	Sender       string `mapstructure:"sender" validate:"omitempty,email"`
	Password     string `mapstructure:"password" json:"-"`
	PasswordFile string `mapstructure:"password_file"`
	To           string `mapstructure:"to" validate:"omitempty,email"`
	Subject      string `mapstructure:"subject"`
}

type RenderConfig struct {
	PDF     bool          `mapstructure:"pdf"`
	Binary  string        `mapstructure:"binary"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-tailor finds job postings and tailors a résumé for each of them",
	}

	envBindings = map[string]string{
		"ai.gemini.api_key":       "GEMINI_API_KEY",
		"ai.openai.api_key":       "OPENAI_API_KEY",
		"ai.huggingface.api_key":  "HUGGINGFACE_API_KEY",
		"google.api_key":          "GOOGLE_API_KEY",
		"google.cx":               "GOOGLE_CXID",
		"notify.telegram.token":   "TELEGRAM_BOT_TOKEN",
		"notify.telegram.chat_id": "TELEGRAM_CHAT_ID",
		"notify.email.sender":     "SENDER_EMAIL",
		"notify.email.password":   "EMAIL_PASSWORD",
		"notify.email.to":         "RECIPIENT_EMAIL",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults(viper.GetViper())

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-tailor.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tailor.base_resume", "base_resume.docx")
	v.SetDefault("tailor.base_pdf", "base_resume.pdf")
	v.SetDefault("tailor.resumes_dir", "resumes")
	v.SetDefault("tailor.descriptions_dir", "descriptions")
	v.SetDefault("tailor.prefix", "Resume")
	v.SetDefault("cache_file", "data/jobcatcher.json")
	v.SetDefault("filtering.exclude_file", "data/tailored.json")
	v.SetDefault("filtering.limit", filtering.DefaultLimit)
	v.SetDefault("search.query", "QA Automation Engineer")
	v.SetDefault("search.max_results", 10)
	v.SetDefault("ai.max_log_length", 2048)
}

func initConfig() {
	// Only commands that tailor need the config.
	if runCmd.CalledAs() == "" && tailorCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Defaults and the environment are enough without a config file.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if config == nil {
		return nil, fmt.Errorf("config is empty")
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return config, nil
}
