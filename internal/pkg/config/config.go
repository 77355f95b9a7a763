package config

import (
	"fmt"
	"time"

	"featured-slots/internal/domain/slot"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.)
// - default: Values common across all environments (timezone, capacity, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server ServerConfig
	DB     DBConfig
	CORS   CORSConfig
	Log    LogConfig
	Pools  PoolsConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

// PoolsConfig holds one PoolConfig per promotional tier. The two pools
// schedule independently and never share capacity.
type PoolsConfig struct {
	Timezone          string        `envconfig:"POOL_TIMEZONE" default:"Asia/Tokyo"`
	RecentEndedWindow time.Duration `envconfig:"POOL_RECENT_ENDED_WINDOW" default:"24h"`
	SpotlightCapacity int           `envconfig:"POOL_SPOTLIGHT_CAPACITY" default:"3"`
	PromotedCapacity  int           `envconfig:"POOL_PROMOTED_CAPACITY" default:"6"`
}

func (p PoolsConfig) Build(tier slot.Tier) (slot.PoolConfig, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return slot.PoolConfig{}, fmt.Errorf("invalid pool timezone %q: %w", p.Timezone, err)
	}

	capacity := p.SpotlightCapacity
	if tier == slot.TierPromoted {
		capacity = p.PromotedCapacity
	}
	if capacity < 1 {
		return slot.PoolConfig{}, fmt.Errorf("pool capacity for %s must be positive, got %d", tier, capacity)
	}

	return slot.PoolConfig{
		Tier:              tier,
		MaxConcurrent:     capacity,
		Location:          loc,
		RecentEndedWindow: p.RecentEndedWindow,
	}, nil
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		CORS: CORSConfig{
			AllowOrigins:  []string{"http://localhost:3000"},
			AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		Pools: PoolsConfig{
			Timezone:          "Asia/Tokyo",
			RecentEndedWindow: 24 * time.Hour,
			SpotlightCapacity: 3,
			PromotedCapacity:  6,
		},
	}
}
