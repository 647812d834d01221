package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/sociials/logs/shared/domain"
)

const (
	envBotToken             = "DISCORD_BOT_TOKEN"
	envAnnouncementsChannel = "DISCORD_ANNOUNCEMENTS_CHANNEL_ID"
	envStatusChannel        = "DISCORD_STATUS_CHANNEL_ID"
	defaultDiscordAPIURL    = "https://discord.com/api/v10"
	defaultRevalidate       = 60 * time.Second
	defaultRequestTimeout   = 10 * time.Second
	defaultBackendURL       = "http://localhost:8080"
	defaultTemplatesPath    = "frontend/templates"
	defaultStaticPath       = "frontend/static"
	defaultTimestampLayout  = "1/2/2006, 3:04:05 PM"
	defaultRateLimitRPS     = 5
	defaultRateLimitBurst   = 20
	defaultBackendPort      = "8080"
	defaultFrontendPort     = "8081"
	defaultLogLevel         = "info"
	defaultBreakerFailures  = 5
	defaultBreakerTimeout   = 30 * time.Second
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Log      Log      `yaml:"log"`
	Backend  Backend  `yaml:"backend"`
	Frontend Frontend `yaml:"frontend"`
}

type Log struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`
}

type Backend struct {
	Port           string        `yaml:"port" validate:"required,numeric"`
	DiscordAPIURL  string        `yaml:"discord_api_url" validate:"required,url"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`
	Revalidate     time.Duration `yaml:"revalidate" validate:"gte=1s"` // cache hint and upstream cache TTL; 0 means the default
	Redis          Redis         `yaml:"redis"`
	Breaker        Breaker       `yaml:"breaker"`
	AllowedOrigins []string      `yaml:"allowed_origins" validate:"dive,url"`
	RateLimitRPS   float64       `yaml:"rate_limit_rps" validate:"gte=0"` // 0 disables the inbound limiter
	RateLimitBurst int           `yaml:"rate_limit_burst" validate:"gte=0"`
	HTTPS          bool          `yaml:"https"`
}

// Redis is optional; an empty Addr selects the in-memory cache.
type Redis struct {
	Addr     string `yaml:"addr" validate:"omitempty,hostname_port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
}

// Breaker opens after MaxFailures consecutive server-side Discord failures and
// stays open for OpenTimeout.
type Breaker struct {
	MaxFailures uint32        `yaml:"max_failures"`
	OpenTimeout time.Duration `yaml:"open_timeout" validate:"gte=0"`
}

type Frontend struct {
	Port            string        `yaml:"port" validate:"required,numeric"`
	BackendURL      string        `yaml:"backend_url" validate:"required,url"`
	RefreshInterval time.Duration `yaml:"refresh_interval" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" validate:"gt=0"`
	Timezone        string        `yaml:"timezone"`
	TimestampLayout string        `yaml:"timestamp_layout" validate:"required"`
	TemplatesPath   string        `yaml:"templates_path" validate:"required"`
	StaticPath      string        `yaml:"static_path" validate:"required"`
	HTTPS           bool          `yaml:"https"`
}

// Private holds Discord credentials. They come from the environment only and
// may be empty: the API reports missing values per request.
type Private struct {
	BotToken               string
	AnnouncementsChannelID string
	StatusChannelID        string
}

func (c *Config) BotToken() string {
	return c.private.BotToken
}

// ChannelID returns the configured Discord channel for a feed, or "".
func (c *Config) ChannelID(t domain.ChannelType) string {
	if t == domain.Status {
		return c.private.StatusChannelID
	}
	return c.private.AnnouncementsChannelID
}

// Location resolves Frontend.Timezone, defaulting to UTC.
func (f Frontend) Location() *time.Location {
	if f.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// New builds a Config from already parsed values. Used by tests and tools.
func New(public Public, private Private) *Config {
	public.applyDefaults()
	return &Config{Public: public, private: private}
}

func (p *Public) applyDefaults() {
	if p.Log.Level == "" {
		p.Log.Level = defaultLogLevel
	}
	if p.Backend.Port == "" {
		p.Backend.Port = defaultBackendPort
	}
	if p.Backend.DiscordAPIURL == "" {
		p.Backend.DiscordAPIURL = defaultDiscordAPIURL
	}
	if p.Backend.RequestTimeout == 0 {
		p.Backend.RequestTimeout = defaultRequestTimeout
	}
	if p.Backend.Revalidate == 0 {
		p.Backend.Revalidate = defaultRevalidate
	}
	if p.Backend.RateLimitRPS == 0 && p.Backend.RateLimitBurst == 0 {
		p.Backend.RateLimitRPS = defaultRateLimitRPS
		p.Backend.RateLimitBurst = defaultRateLimitBurst
	}
	if p.Backend.Breaker.MaxFailures == 0 {
		p.Backend.Breaker.MaxFailures = defaultBreakerFailures
	}
	if p.Backend.Breaker.OpenTimeout == 0 {
		p.Backend.Breaker.OpenTimeout = defaultBreakerTimeout
	}
	if p.Frontend.Port == "" {
		p.Frontend.Port = defaultFrontendPort
	}
	if p.Frontend.BackendURL == "" {
		p.Frontend.BackendURL = defaultBackendURL
	}
	if p.Frontend.RefreshInterval == 0 {
		p.Frontend.RefreshInterval = defaultRevalidate
	}
	if p.Frontend.RequestTimeout == 0 {
		p.Frontend.RequestTimeout = defaultRequestTimeout
	}
	if p.Frontend.TimestampLayout == "" {
		p.Frontend.TimestampLayout = defaultTimestampLayout
	}
	if p.Frontend.TemplatesPath == "" {
		p.Frontend.TemplatesPath = defaultTemplatesPath
	}
	if p.Frontend.StaticPath == "" {
		p.Frontend.StaticPath = defaultStaticPath
	}
}

func loadPublic(configPath string) (Public, error) {
	var public Public
	configFile, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		public.applyDefaults()
		return public, nil
	}
	if err != nil {
		return public, fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.UnmarshalStrict(configFile, &public); err != nil {
		return public, fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	public.applyDefaults()
	return public, nil
}

func loadPrivate(configFolder string) (Private, error) {
	// .env is optional; real environment variables always win
	envPath := path.Join(configFolder, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Private{}, fmt.Errorf("can't load %s: %w", envPath, err)
	}
	return Private{
		BotToken:               os.Getenv(envBotToken),
		AnnouncementsChannelID: os.Getenv(envAnnouncementsChannel),
		StatusChannelID:        os.Getenv(envStatusChannel),
	}, nil
}

// Load reads public.yaml (defaults when absent) and Discord credentials from
// the environment, then validates the result.
func Load(configFolder string) (*Config, error) {
	public, err := loadPublic(path.Join(configFolder, "public.yaml"))
	if err != nil {
		return nil, err
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(public); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	private, err := loadPrivate(configFolder)
	if err != nil {
		return nil, err
	}
	return &Config{Public: public, private: private}, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err)
	}
	return cfg
}
