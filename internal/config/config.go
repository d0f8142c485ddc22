package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Azure     AzureConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	Debug        bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AzureConfig describes the Entra ID (Azure AD) tenant this service accepts
// tokens from, plus the role/group alias lists used to derive application roles.
type AzureConfig struct {
	TenantID     string
	ClientID     string
	Authority    string // identity provider host, e.g. login.microsoftonline.com
	Audience     string // expected aud claim; defaults to ClientID
	Algorithm    string // signing algorithm, RS256 for Entra ID v2 tokens
	AdminRoles   []string
	WriterRoles  []string
	AdminGroups  []string
	WriterGroups []string
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("AZURE_AUTHORITY", "login.microsoftonline.com")
	viper.SetDefault("JWT_ALGORITHM", "RS256")
	viper.SetDefault("ADMIN_ROLES", "admin,administrator,fastapi.admin")
	viper.SetDefault("WRITER_ROLES", "writer,editor,fastapi.writer")
	viper.SetDefault("ADMIN_GROUPS", "fastapi-admins,system-administrators")
	viper.SetDefault("WRITER_GROUPS", "fastapi-writers,content-editors")
	viper.SetDefault("RATE_LIMIT_RPS", 10.0)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			Debug:        viper.GetBool("SERVER_DEBUG"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       0,
		},
		Azure: AzureConfig{
			TenantID:     viper.GetString("AZURE_TENANT_ID"),
			ClientID:     viper.GetString("AZURE_CLIENT_ID"),
			Authority:    viper.GetString("AZURE_AUTHORITY"),
			Audience:     viper.GetString("JWT_AUDIENCE"),
			Algorithm:    viper.GetString("JWT_ALGORITHM"),
			AdminRoles:   splitList(viper.GetString("ADMIN_ROLES")),
			WriterRoles:  splitList(viper.GetString("WRITER_ROLES")),
			AdminGroups:  splitList(viper.GetString("ADMIN_GROUPS")),
			WriterGroups: splitList(viper.GetString("WRITER_GROUPS")),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	// aud for Entra ID v2 access tokens is the application (client) id
	if cfg.Azure.Audience == "" {
		cfg.Azure.Audience = cfg.Azure.ClientID
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
// Debug-only endpoints (JWKS inspection, token validation) are disabled then.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production") && !c.Server.Debug
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
