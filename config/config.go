package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	Withdrawal WithdrawalConfig
	Pickup     PickupConfig
	RateLimit  RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

type WithdrawalConfig struct {
	MinAmount float64 // minimum cash-out, in rupees
}

type PickupConfig struct {
	MinBillableKg float64 // submissions below this are billed at this weight
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Load reads configuration from config.yaml (if present) and environment
// variables, falling back to code defaults.
func Load() *Config {
	viper.AutomaticEnv()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.readTimeout", 10*time.Second)
	viper.SetDefault("server.writeTimeout", 10*time.Second)
	viper.SetDefault("database.dsn", "scrapto:scrapto@tcp(localhost:3306)/scrapto?charset=utf8mb4&parseTime=True&loc=Local")
	viper.SetDefault("database.maxIdleConns", 10)
	viper.SetDefault("database.maxOpenConns", 100)
	viper.SetDefault("database.connMaxLifetime", time.Hour)
	viper.SetDefault("jwt.accessSecret", "change-me-in-production")
	viper.SetDefault("jwt.refreshSecret", "change-me-refresh")
	viper.SetDefault("jwt.accessExpiry", 15*time.Minute)
	viper.SetDefault("jwt.refreshExpiry", 168*time.Hour)
	viper.SetDefault("jwt.issuer", "scrapto")
	viper.SetDefault("withdrawal.minAmount", 1.0)
	viper.SetDefault("pickup.minBillableKg", 1.0)
	viper.SetDefault("ratelimit.requests", 100)
	viper.SetDefault("ratelimit.window", time.Minute)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("config: error reading config file: %v", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("server.port"),
			Env:          viper.GetString("server.env"),
			ReadTimeout:  viper.GetDuration("server.readTimeout"),
			WriteTimeout: viper.GetDuration("server.writeTimeout"),
		},
		Database: DatabaseConfig{
			DSN:             viper.GetString("database.dsn"),
			MaxIdleConns:    viper.GetInt("database.maxIdleConns"),
			MaxOpenConns:    viper.GetInt("database.maxOpenConns"),
			ConnMaxLifetime: viper.GetDuration("database.connMaxLifetime"),
		},
		JWT: JWTConfig{
			AccessSecret:  viper.GetString("jwt.accessSecret"),
			RefreshSecret: viper.GetString("jwt.refreshSecret"),
			AccessExpiry:  viper.GetDuration("jwt.accessExpiry"),
			RefreshExpiry: viper.GetDuration("jwt.refreshExpiry"),
			Issuer:        viper.GetString("jwt.issuer"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: viper.GetString("cloudinary.cloudName"),
			APIKey:    viper.GetString("cloudinary.apiKey"),
			APISecret: viper.GetString("cloudinary.apiSecret"),
		},
		Withdrawal: WithdrawalConfig{
			MinAmount: viper.GetFloat64("withdrawal.minAmount"),
		},
		Pickup: PickupConfig{
			MinBillableKg: viper.GetFloat64("pickup.minBillableKg"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("ratelimit.requests"),
			Window:   viper.GetDuration("ratelimit.window"),
		},
	}
	return cfg
}
