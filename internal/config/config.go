package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Leave      LeaveConfig      `mapstructure:"leave"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	AI         AIConfig         `mapstructure:"ai"`
	Seed       SeedConfig       `mapstructure:"seed"`
}

type AppConfig struct {
	Env      string `mapstructure:"env" validate:"required,oneof=development staging production test"`
	Timezone string `mapstructure:"timezone" validate:"required"`
}

type HTTPConfig struct {
	Port           string        `mapstructure:"port" validate:"required"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" validate:"required"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" validate:"required"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host       string `mapstructure:"host" validate:"required"`
	User       string `mapstructure:"user" validate:"required"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name" validate:"required"`
	Port       string `mapstructure:"port" validate:"required"`
	SSLMode    string `mapstructure:"sslmode" validate:"required"`
	MaxRetries int    `mapstructure:"max_retries" validate:"min=1"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type KafkaConfig struct {
	Broker       string        `mapstructure:"broker"`
	GroupID      string        `mapstructure:"group_id"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	AccessTokenTTL  time.Duration `mapstructure:"access_ttl" validate:"required"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_ttl" validate:"required,gtfield=AccessTokenTTL"`
	DefaultPassword string        `mapstructure:"default_password" validate:"required,min=8"`
}

type LeaveConfig struct {
	EscalationThresholdDays int `mapstructure:"escalation_threshold_days" validate:"min=1"`
}

type AttendanceConfig struct {
	LateCutoff   string  `mapstructure:"late_cutoff" validate:"required"`
	HalfDayHours float64 `mapstructure:"half_day_hours" validate:"gt=0"`
}

type AIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SeedConfig struct {
	AdminEmail    string `mapstructure:"admin_email" validate:"omitempty,email"`
	AdminPassword string `mapstructure:"admin_password"`
}

type binding struct {
	key string
	env string
	def any
}

var bindings = []binding{
	{"app.env", "APP_ENV", "development"},
	{"app.timezone", "APP_TIMEZONE", "UTC"},
	{"http.port", "PORT", "3000"},
	{"http.read_timeout", "HTTP_READ_TIMEOUT", "5s"},
	{"http.write_timeout", "HTTP_WRITE_TIMEOUT", "10s"},
	{"http.idle_timeout", "HTTP_IDLE_TIMEOUT", "60s"},
	{"http.allowed_origins", "CORS_ALLOWED_ORIGINS", "http://localhost:5173"},
	{"database.host", "DB_HOST", "localhost"},
	{"database.user", "DB_USER", "postgres"},
	{"database.password", "DB_PASSWORD", ""},
	{"database.name", "DB_NAME", "ems"},
	{"database.port", "DB_PORT", "5432"},
	{"database.sslmode", "DB_SSLMODE", "disable"},
	{"database.max_retries", "DB_MAX_RETRIES", 5},
	{"redis.addr", "REDIS_ADDR", "localhost:6379"},
	{"kafka.broker", "KAFKA_BROKER", ""},
	{"kafka.group_id", "KAFKA_GROUP_ID", "ems-employee-lifecycle"},
	{"kafka.poll_interval", "KAFKA_POLL_INTERVAL", "3s"},
	{"auth.jwt_secret", "JWT_SECRET", ""},
	{"auth.access_ttl", "JWT_ACCESS_TTL", "15m"},
	{"auth.refresh_ttl", "JWT_REFRESH_TTL", "168h"},
	{"auth.default_password", "DEFAULT_PASSWORD", "password123"},
	{"leave.escalation_threshold_days", "LEAVE_ESCALATION_THRESHOLD_DAYS", 3},
	{"attendance.late_cutoff", "ATTENDANCE_LATE_CUTOFF", "09:30"},
	{"attendance.half_day_hours", "ATTENDANCE_HALF_DAY_HOURS", 4.0},
	{"ai.api_key", "OPENAI_API_KEY", ""},
	{"ai.model", "OPENAI_MODEL", "gpt-4o-mini"},
	{"ai.base_url", "OPENAI_BASE_URL", ""},
	{"ai.timeout", "AI_TIMEOUT", "20s"},
	{"seed.admin_email", "SEED_ADMIN_EMAIL", "admin@ems.local"},
	{"seed.admin_password", "SEED_ADMIN_PASSWORD", ""},
}

// Load reads configuration from the process environment. Callers load .env
// with godotenv beforehand.
func Load() (*Config, error) {
	v := viper.New()
	for _, b := range bindings {
		v.SetDefault(b.key, b.def)
		if err := v.BindEnv(b.key, b.env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", b.env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Attendance.CutoffClock(); err != nil {
		return fmt.Errorf("invalid config: attendance.late_cutoff: %w", err)
	}
	if _, err := c.App.Location(); err != nil {
		return fmt.Errorf("invalid config: app.timezone: %w", err)
	}
	return nil
}

func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func (c AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// CutoffClock parses LateCutoff ("HH:MM") into minutes after midnight.
func (c AttendanceConfig) CutoffClock() (int, error) {
	t, err := time.Parse("15:04", c.LateCutoff)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
