package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"github.com/username/gridcal/pkg/dateutil"
)

// EnvPrefix prefixes every environment override, e.g. GRIDCAL_CALENDAR_WEEK_START
const EnvPrefix = "GRIDCAL"

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Marks    MarksConfig    `mapstructure:"marks"`
	Render   RenderConfig   `mapstructure:"render"`
	Segment  SegmentConfig  `mapstructure:"segment"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig represents calendar arithmetic settings
type CalendarConfig struct {
	WeekStart string `mapstructure:"week_start"` // "sunday", "monday", ...
	Timezone  string `mapstructure:"timezone"`   // IANA name, "" or "Local" for the system zone
}

// MarksConfig represents marked-date sources
type MarksConfig struct {
	File    string `mapstructure:"file"`     // one date or range per line
	ICSFile string `mapstructure:"ics_file"` // iCalendar export
}

// RenderConfig represents output settings
type RenderConfig struct {
	Format string `mapstructure:"format"` // "text", "json" or "yaml"
	Color  bool   `mapstructure:"color"`
}

// SegmentConfig represents range highlighting settings
type SegmentConfig struct {
	TruncateAtToday bool `mapstructure:"truncate_at_today"`
}

// WatchConfig represents watch mode settings
type WatchConfig struct {
	Schedule string `mapstructure:"schedule"` // standard 5-field cron spec
}

// LogConfig represents logging settings
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("calendar.week_start", "sunday")
	v.SetDefault("calendar.timezone", "Local")
	v.SetDefault("marks.file", "")
	v.SetDefault("marks.ics_file", "")
	v.SetDefault("render.format", "text")
	v.SetDefault("render.color", true)
	v.SetDefault("segment.truncate_at_today", true)
	v.SetDefault("watch.schedule", "0 0 * * *")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Load loads configuration from file. An explicit path must exist; without
// one the default locations are searched and a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("gridcal")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.gridcal")
	}

	// Read environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
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
	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := dateutil.ParseWeekday(c.Calendar.WeekStart); err != nil {
		return fmt.Errorf("calendar.week_start: %w", err)
	}
	if _, err := c.Calendar.GetLocation(); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}

	switch c.Render.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("render.format must be 'text', 'json' or 'yaml', got '%s'", c.Render.Format)
	}

	if _, err := cron.ParseStandard(c.Watch.Schedule); err != nil {
		return fmt.Errorf("watch.schedule: %w", err)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got '%s'", c.Log.Level)
	}

	return nil
}

// GetWeekStart returns the configured first day of the week. Default: Sunday
func (c *CalendarConfig) GetWeekStart() time.Weekday {
	d, err := dateutil.ParseWeekday(c.WeekStart)
	if err != nil {
		return time.Sunday
	}
	return d
}

// GetLocation resolves the configured timezone
func (c *CalendarConfig) GetLocation() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}
	return loc, nil
}

// ExpandEnvVars expands environment variables in file paths
func (c *Config) ExpandEnvVars() {
	c.Marks.File = os.ExpandEnv(c.Marks.File)
	c.Marks.ICSFile = os.ExpandEnv(c.Marks.ICSFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
}
