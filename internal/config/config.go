package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port   string
	AppEnv string

	StoreDriver string
	StorePath   string
	SQLitePath  string
	DB          DBConfig

	RedisAddr     string
	KafkaBroker   string
	OutboxEnabled bool

	JWTSecret    string
	AuthRequired bool
	DefaultRole  string

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int

	DefaultCurrency string
	PhoneRegion     string
	SeedDefaults    bool
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STORE_DRIVER", "memory")
	v.SetDefault("STORE_PATH", "data/db.json")
	v.SetDefault("SQLITE_PATH", "data/sirh.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "sirh")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("KAFKA_BROKER", "")
	v.SetDefault("OUTBOX_ENABLED", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("AUTH_REQUIRED", false)
	v.SetDefault("DEFAULT_ROLE", "rh")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("DEFAULT_CURRENCY", "MAD")
	v.SetDefault("PHONE_REGION", "MA")
	v.SetDefault("SEED_DEFAULTS", true)
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Port:        v.GetString("PORT"),
		AppEnv:      strings.ToLower(v.GetString("APP_ENV")),
		StoreDriver: strings.ToLower(v.GetString("STORE_DRIVER")),
		StorePath:   v.GetString("STORE_PATH"),
		SQLitePath:  v.GetString("SQLITE_PATH"),
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			Port:     v.GetString("DB_PORT"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		RedisAddr:       v.GetString("REDIS_ADDR"),
		KafkaBroker:     v.GetString("KAFKA_BROKER"),
		OutboxEnabled:   v.GetBool("OUTBOX_ENABLED"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		AuthRequired:    v.GetBool("AUTH_REQUIRED"),
		DefaultRole:     strings.ToLower(v.GetString("DEFAULT_ROLE")),
		RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
		DefaultCurrency: strings.ToUpper(v.GetString("DEFAULT_CURRENCY")),
		PhoneRegion:     strings.ToUpper(v.GetString("PHONE_REGION")),
		SeedDefaults:    v.GetBool("SEED_DEFAULTS"),
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 20
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 40
	}

	return cfg
}
