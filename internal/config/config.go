package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/username/workout-booking/internal/calendar"
	"github.com/username/workout-booking/internal/holiday"
)

// Holiday source types
const (
	SourceAPI    = "api"
	SourceStatic = "static"
	SourceFile   = "file"
)

// Config represents application configuration
type Config struct {
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Booking  BookingConfig  `mapstructure:"booking"`
	Daemon   DaemonConfig   `mapstructure:"daemon"`
	Log      LogConfig      `mapstructure:"log"`
}

// HolidaysConfig represents holiday provider configuration
type HolidaysConfig struct {
	Source         string `mapstructure:"source"` // "api", "static" or "file"
	APIURL         string `mapstructure:"api_url"`
	APIKey         string `mapstructure:"api_key"`
	Country        string `mapstructure:"country"`
	Year           int    `mapstructure:"year"` // 0 = current year
	Timeout        string `mapstructure:"timeout"`
	FallbackFile   string `mapstructure:"fallback_file"`   // Local holiday list used when the API fails
	StaticFallback bool   `mapstructure:"static_fallback"` // Computed holidays used when the API fails
}

// CacheConfig represents holiday cache configuration
type CacheConfig struct {
	TTL           string `mapstructure:"ttl"`
	RedisAddr     string `mapstructure:"redis_addr"` // Empty disables the shared cache
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

// CalendarConfig represents calendar view configuration
type CalendarConfig struct {
	TimeSlots []string `mapstructure:"time_slots"`
}

// BookingConfig represents the application submission endpoint
type BookingConfig struct {
	SubmitURL string `mapstructure:"submit_url"` // Empty means applications are only logged
	Timeout   string `mapstructure:"timeout"`
}

// DaemonConfig represents holiday cache refresher configuration
type DaemonConfig struct {
	RefreshInterval string `mapstructure:"refresh_interval"`
	YearsAhead      int    `mapstructure:"years_ahead"` // Years after the current one kept warm
	SystemTray      bool   `mapstructure:"system_tray"` // Show system tray icon (Windows only)
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Holidays: HolidaysConfig{
			Source:         SourceAPI,
			APIURL:         holiday.DefaultAPIURL,
			APIKey:         "${HOLIDAYS_API_KEY}",
			Country:        "PL",
			StaticFallback: true,
		},
		Daemon: DaemonConfig{YearsAhead: 1},
		Log:    LogConfig{Level: "info"},
	}
}

// Load loads configuration from file. A missing file is not an error when
// no explicit path was given.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("holidays.source", def.Holidays.Source)
	v.SetDefault("holidays.api_url", def.Holidays.APIURL)
	v.SetDefault("holidays.api_key", def.Holidays.APIKey)
	v.SetDefault("holidays.country", def.Holidays.Country)
	v.SetDefault("holidays.static_fallback", def.Holidays.StaticFallback)
	v.SetDefault("daemon.years_ahead", def.Daemon.YearsAhead)
	v.SetDefault("log.level", def.Log.Level)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.workout-booking")
		v.AddConfigPath("/etc/workout-booking")
	}

	// HOLIDAYS_COUNTRY overrides holidays.country, etc.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Holidays.Country) != 2 {
		return fmt.Errorf("holidays.country must be a two-letter ISO code, got '%s'", c.Holidays.Country)
	}
	if c.Holidays.Year != 0 && (c.Holidays.Year < 1900 || c.Holidays.Year > 9999) {
		return fmt.Errorf("holidays.year must be a four-digit year, got %d", c.Holidays.Year)
	}

	switch c.Holidays.Source {
	case SourceAPI:
		if c.Holidays.APIURL == "" {
			return fmt.Errorf("holidays.api_url is required for api source")
		}
	case SourceStatic:
		if !holiday.SupportsCountry(c.Holidays.Country) {
			return fmt.Errorf("no static holidays for country '%s'", c.Holidays.Country)
		}
	case SourceFile:
		if c.Holidays.FallbackFile == "" {
			return fmt.Errorf("holidays.fallback_file is required for file source")
		}
	default:
		return fmt.Errorf("holidays.source must be 'api', 'static' or 'file', got '%s'", c.Holidays.Source)
	}

	if c.Holidays.Timeout != "" {
		if _, err := time.ParseDuration(c.Holidays.Timeout); err != nil {
			return fmt.Errorf("holidays.timeout: %w", err)
		}
	}

	if _, err := calendar.ParseTimeSlots(c.Calendar.TimeSlots); err != nil {
		return fmt.Errorf("calendar.time_slots: %w", err)
	}

	if c.Booking.SubmitURL != "" {
		u, err := url.Parse(c.Booking.SubmitURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("booking.submit_url must be an http(s) URL, got '%s'", c.Booking.SubmitURL)
		}
	}
	if c.Booking.Timeout != "" {
		if _, err := time.ParseDuration(c.Booking.Timeout); err != nil {
			return fmt.Errorf("booking.timeout: %w", err)
		}
	}

	if c.Daemon.RefreshInterval != "" {
		if d, err := time.ParseDuration(c.Daemon.RefreshInterval); err != nil || d <= 0 {
			return fmt.Errorf("daemon.refresh_interval must be a positive duration, got '%s'", c.Daemon.RefreshInterval)
		}
	}
	if c.Daemon.YearsAhead < 0 || c.Daemon.YearsAhead > 5 {
		return fmt.Errorf("daemon.years_ahead must be between 0 and 5, got %d", c.Daemon.YearsAhead)
	}

	if c.Cache.RedisDB < 0 {
		return fmt.Errorf("cache.redis_db must not be negative")
	}

	return nil
}

// GetTimeout returns the holiday request timeout
func (c *HolidaysConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 10 * time.Second
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return duration
}

// GetTimeout returns the submission request timeout
func (c *BookingConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 30 * time.Second
	}
	duration, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return duration
}

// GetRefreshInterval returns how often the daemon refreshes the cache
func (c *DaemonConfig) GetRefreshInterval() time.Duration {
	if c.RefreshInterval == "" {
		return 12 * time.Hour
	}
	duration, err := time.ParseDuration(c.RefreshInterval)
	if err != nil || duration <= 0 {
		return 12 * time.Hour
	}
	return duration
}

// GetYear returns the configured year, or the year of now when unset
func (c *HolidaysConfig) GetYear(now time.Time) int {
	if c.Year == 0 {
		return now.Year()
	}
	return c.Year
}

// GetTTL returns cache TTL duration
func (c *CacheConfig) GetTTL() time.Duration {
	if c.TTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// GetTimeSlots returns the configured slots, or the defaults when none are set
func (c *CalendarConfig) GetTimeSlots() []calendar.TimeSlot {
	if len(c.TimeSlots) == 0 {
		return calendar.DefaultSlots
	}
	slots, err := calendar.ParseTimeSlots(c.TimeSlots)
	if err != nil {
		return calendar.DefaultSlots
	}
	return slots
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Holidays.APIKey = os.ExpandEnv(c.Holidays.APIKey)
	c.Cache.RedisPassword = os.ExpandEnv(c.Cache.RedisPassword)
}
