package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/danielholmes839/nyutai-log-bot/internal/i18n"
	"github.com/danielholmes839/nyutai-log-bot/internal/nyutai"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

const DefaultFile = "./data/bot.yaml"

// Config holds everything the bot needs at startup.
type Config struct {
	DiscordToken  string
	ApplicationID string
	GuildID       string

	NyutaiToken   string
	NyutaiBaseURL string

	Locale        language.Tag
	Location      *time.Location
	LookbackDays  int
	SelectTimeout time.Duration
	HTTPTimeout   time.Duration
	MetricsAddr   string
	LogLevel      slog.Level

	Messages i18n.Messages
}

// File is the optional YAML config. Values from the environment win.
type File struct {
	Locale   string        `yaml:"locale"`
	Timezone string        `yaml:"timezone"`
	Messages i18n.Messages `yaml:"messages"`
}

// ReadFile loads path from fs. A missing file is not an error.
func ReadFile(fs afero.Fs, path string) (File, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return File{}, fmt.Errorf("stat config %s: %w", path, err)
	}
	if !exists {
		return File{}, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return File{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var file File
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return File{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return file, nil
}

// Load builds the config from getenv and the optional YAML file. Every problem
// found is reported in the returned error, not just the first.
func Load(fs afero.Fs, getenv func(string) string) (Config, error) {
	return load(fs, getenv, true)
}

// LoadAPI is Load for tools that only talk to the attendance API.
func LoadAPI(fs afero.Fs, getenv func(string) string) (Config, error) {
	return load(fs, getenv, false)
}

func load(fs afero.Fs, getenv func(string) string, discord bool) (Config, error) {
	env := func(key, fallback string) string {
		if val := getenv(key); val != "" {
			return val
		}
		return fallback
	}

	var errs error

	path := env("BOT_CONFIG_FILE", DefaultFile)
	file, err := ReadFile(fs, path)
	errs = multierr.Append(errs, err)

	cfg := Config{
		DiscordToken:  getenv("DISCORD_TOKEN"),
		ApplicationID: getenv("DISCORD_APPLICATION_ID"),
		GuildID:       getenv("DISCORD_GUILD_ID"),
		NyutaiToken:   getenv("NYUTAI_API_TOKEN"),
		NyutaiBaseURL: env("NYUTAI_BASE_URL", nyutai.DefaultBaseURL),
		MetricsAddr:   getenv("METRICS_ADDR"),
	}

	if discord && cfg.DiscordToken == "" {
		errs = multierr.Append(errs, errors.New("DISCORD_TOKEN is not set"))
	}
	if cfg.NyutaiToken == "" {
		errs = multierr.Append(errs, errors.New("NYUTAI_API_TOKEN is not set"))
	}

	locale, err := language.Parse(env("BOT_LOCALE", orDefault(file.Locale, "en")))
	errs = multierr.Append(errs, wrap("BOT_LOCALE", err))
	cfg.Locale = locale

	loc, err := time.LoadLocation(env("BOT_TIMEZONE", orDefault(file.Timezone, "Local")))
	errs = multierr.Append(errs, wrap("BOT_TIMEZONE", err))
	cfg.Location = loc

	cfg.LookbackDays, err = intEnv(getenv, "LOOKBACK_DAYS", 7)
	errs = multierr.Append(errs, err)
	if err == nil && cfg.LookbackDays < 0 {
		errs = multierr.Append(errs, fmt.Errorf("LOOKBACK_DAYS must not be negative, got %d", cfg.LookbackDays))
	}

	cfg.SelectTimeout, err = durationEnv(getenv, "SELECT_TIMEOUT", 60*time.Second)
	errs = multierr.Append(errs, err)

	cfg.HTTPTimeout, err = durationEnv(getenv, "HTTP_TIMEOUT", 30*time.Second)
	errs = multierr.Append(errs, err)

	if level := getenv("LOG_LEVEL"); level != "" {
		errs = multierr.Append(errs, wrap("LOG_LEVEL", cfg.LogLevel.UnmarshalText([]byte(level))))
	}

	cfg.Messages = i18n.ForLocale(cfg.Locale).Overlay(file.Messages)
	errs = multierr.Append(errs, cfg.Messages.Validate())

	if errs != nil {
		return Config{}, errs
	}
	return cfg, nil
}

func orDefault(val, fallback string) string {
	if val != "" {
		return val
	}
	return fallback
}

func wrap(key string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("invalid %s: %w", key, err)
}

func intEnv(getenv func(string) string, key string, fallback int) (int, error) {
	val := getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback, wrap(key, err)
	}
	return n, nil
}

func durationEnv(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	val := getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return fallback, wrap(key, err)
	}
	if d <= 0 {
		return fallback, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}
