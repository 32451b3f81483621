// Package config loads canal-matches settings.
//
// Values are resolved in this order, later sources winning: built-in defaults, an
// optional YAML file, then the process environment (a .env file in the working
// directory is loaded first without overriding variables that are already set).
// Command-line flags are applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/canal-matches/internal/schedule"
)

// Config holds all runtime settings
type Config struct {
	PDFURL          string           `yaml:"pdf_url"`
	SourcePageURL   string           `yaml:"source_page_url"`
	Team            string           `yaml:"team"`
	OutputDir       string           `yaml:"output_dir"`
	DataDir         string           `yaml:"data_dir"`
	HistoryDB       string           `yaml:"history_db"`
	DocumentReader  string           `yaml:"document_reader"`
	LogLevel        string           `yaml:"log_level"`
	Markers         schedule.Markers `yaml:"markers"`
	RequiredPhrases []string         `yaml:"required_phrases"`
	MaxMessageLen   int              `yaml:"max_message_length"`
	Telegram        Telegram         `yaml:"telegram"`
	Twitter         Twitter          `yaml:"twitter"`
}

// Telegram holds Bot API credentials
type Telegram struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// Enabled reports whether both credentials are present
func (t Telegram) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Twitter holds OAuth1 credentials
type Twitter struct {
	APIKey       string `yaml:"api_key"`
	APISecret    string `yaml:"api_secret"`
	AccessToken  string `yaml:"access_token"`
	AccessSecret string `yaml:"access_secret"`
}

// Enabled reports whether all four credentials are present
func (t Twitter) Enabled() bool {
	return t.APIKey != "" && t.APISecret != "" && t.AccessToken != "" && t.AccessSecret != ""
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Team:            "I12",
		OutputDir:       "output",
		DataDir:         "~/.local/share/canal-matches",
		DocumentReader:  "pdf",
		LogLevel:        "info",
		Markers:         schedule.DefaultMarkers(),
		RequiredPhrases: []string{"CALENDARIO", "CAMPO"},
		MaxMessageLen:   4096,
	}
}

// Load builds the configuration from defaults, the YAML file at path (optional)
// and the environment.
func Load(path string) (*Config, error) {
	// a missing .env file is normal
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.PDFURL, "PDF_URL")
	setString(&c.SourcePageURL, "SOURCE_PAGE_URL")
	setString(&c.Team, "TEAM_CODE")
	setString(&c.OutputDir, "OUTPUT_DIR")
	setString(&c.DataDir, "DATA_DIR")
	setString(&c.HistoryDB, "HISTORY_DB")
	setString(&c.DocumentReader, "DOCUMENT_READER")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Markers.SectionStart, "SECTION_START")
	setString(&c.Markers.SectionEnd, "SECTION_END")
	setString(&c.Markers.PitchWord, "PITCH_WORD")
	setString(&c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&c.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setString(&c.Twitter.APIKey, "TWITTER_API_KEY")
	setString(&c.Twitter.APISecret, "TWITTER_API_SECRET")
	setString(&c.Twitter.AccessToken, "TWITTER_ACCESS_TOKEN")
	setString(&c.Twitter.AccessSecret, "TWITTER_ACCESS_SECRET")

	if v, ok := lookup("REQUIRED_PHRASES"); ok {
		c.RequiredPhrases = splitList(v)
	}

	if v, ok := lookup("MAX_MESSAGE_LENGTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_MESSAGE_LENGTH=%q is not an integer", v)
		}
		c.MaxMessageLen = n
	}

	return nil
}

// Validate checks settings every command needs
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Team) == "" {
		return errors.New("team code must not be empty")
	}
	if c.MaxMessageLen <= 0 {
		return fmt.Errorf("max message length must be positive, got %d", c.MaxMessageLen)
	}
	return nil
}

// lookup returns a non-empty environment value
func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
