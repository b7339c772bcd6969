package config

import (
	"fmt"
	"strings"
	"sync"

	"flowsite-api/core/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	GoogleCalendar GoogleCalendarConfig `mapstructure:"google_calendar"`
	Scheduling     SchedulingConfig     `mapstructure:"scheduling"`
	SMTP           SMTPConfig           `mapstructure:"smtp"`
	Auth           AuthConfig           `mapstructure:"auth"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	BaseURL     string `mapstructure:"base_url"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// GoogleCalendarConfig holds the service-account credentials used for all
// calendar reads and writes. Passed into the provider at construction time,
// never read ambiently by business logic.
type GoogleCalendarConfig struct {
	ServiceAccountEmail string `mapstructure:"service_account_email"`
	PrivateKey          string `mapstructure:"private_key"`
	CalendarID          string `mapstructure:"calendar_id"`
	BusinessInbox       string `mapstructure:"business_inbox"`
	// Subject, when set, impersonates a workspace user through domain-wide
	// delegation. Required for sendUpdates to reach external attendees.
	Subject string `mapstructure:"subject"`
}

type SchedulingConfig struct {
	BusinessHoursStart  int `mapstructure:"business_hours_start"`
	BusinessHoursEnd    int `mapstructure:"business_hours_end"`
	SlotDurationMinutes int `mapstructure:"slot_duration_minutes"`
	// UTCOffsetMinutes fixes the business time zone as a provider-side UTC
	// offset. DST transitions are not handled.
	UTCOffsetMinutes int `mapstructure:"utc_offset_minutes"`
	MaxAdvanceWeeks  int `mapstructure:"max_advance_weeks"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads .env (if present), environment variables and defaults into the
// global config instance.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("Config:Load:NoDotEnv", "error", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Private keys arrive through env with literal "\n" sequences.
	cfg.GoogleCalendar.PrivateKey = strings.ReplaceAll(cfg.GoogleCalendar.PrivateKey, `\n`, "\n")

	mu.Lock()
	instance = &cfg
	mu.Unlock()

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7070)
	v.SetDefault("server.environment", "development")

	v.SetDefault("database.port", 5432)

	v.SetDefault("redis.db", 0)

	v.SetDefault("google_calendar.calendar_id", "primary")

	v.SetDefault("scheduling.business_hours_start", 10)
	v.SetDefault("scheduling.business_hours_end", 19)
	v.SetDefault("scheduling.slot_duration_minutes", 30)
	v.SetDefault("scheduling.utc_offset_minutes", -300)
	v.SetDefault("scheduling.max_advance_weeks", 4)

	v.SetDefault("smtp.port", 587)
}

func bindEnv(v *viper.Viper) {
	keys := []string{
		"server.host", "server.port", "server.base_url", "server.environment",
		"database.host", "database.port", "database.user", "database.password", "database.dbname",
		"redis.addr", "redis.password", "redis.db",
		"google_calendar.service_account_email", "google_calendar.private_key",
		"google_calendar.calendar_id", "google_calendar.business_inbox",
		"google_calendar.subject",
		"scheduling.business_hours_start", "scheduling.business_hours_end",
		"scheduling.slot_duration_minutes", "scheduling.utc_offset_minutes",
		"scheduling.max_advance_weeks",
		"smtp.host", "smtp.port", "smtp.username", "smtp.password", "smtp.from",
		"auth.jwt_secret",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

// Get returns the loaded config. Panics when called before Load.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config not initialized, call config.Load first")
	}
	return instance
}

// GetSafe returns the loaded config and whether it has been initialized.
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
