package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	JWTTTLHours int    `mapstructure:"JWT_TTL_HOURS"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	CacheTTLSecs  int    `mapstructure:"CACHE_TTL_SECONDS"`

	// Business hours and slot grid for the availability generator.
	OpenHour    int `mapstructure:"OPEN_HOUR"`
	CloseHour   int `mapstructure:"CLOSE_HOUR"`
	SlotMinutes int `mapstructure:"SLOT_MINUTES"`
	HorizonDays int `mapstructure:"HORIZON_DAYS"`

	// Refund policy knobs.
	RefundNoticeDays    int     `mapstructure:"REFUND_NOTICE_DAYS"`
	CancellationFeeRate float64 `mapstructure:"CANCELLATION_FEE_RATE"`
}

// Load initializes viper to read config values from env, file, or defaults.
func Load() Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_URL", "fieldbook.db")
	viper.SetDefault("JWT_TTL_HOURS", 24)
	viper.SetDefault("CACHE_TTL_SECONDS", 30)
	viper.SetDefault("OPEN_HOUR", 8)
	viper.SetDefault("CLOSE_HOUR", 22)
	viper.SetDefault("SLOT_MINUTES", 90)
	viper.SetDefault("HORIZON_DAYS", 30)
	viper.SetDefault("REFUND_NOTICE_DAYS", 2)
	viper.SetDefault("CANCELLATION_FEE_RATE", 0.20)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}
