package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port string

	SupabaseURL        string
	SupabaseServiceKey string

	GroqAPIKey string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
	MinIORegion    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StrictConfig bool
}

func Load() *Config {
	godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "3000"),
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		GroqAPIKey:         getEnv("GROQ_API_KEY", ""),
		MinIOEndpoint:      getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:     getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:        getEnv("MINIO_BUCKET", "media"),
		MinIOUseSSL:        getEnvBool("MINIO_USE_SSL", false),
		MinIORegion:        getEnv("MINIO_REGION", "us-east-1"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		StrictConfig:       getEnvBool("STRICT_CONFIG", true),
	}

	required := map[string]string{
		"SUPABASE_URL":              cfg.SupabaseURL,
		"SUPABASE_SERVICE_ROLE_KEY": cfg.SupabaseServiceKey,
		"GROQ_API_KEY":              cfg.GroqAPIKey,
		"MINIO_ENDPOINT":            cfg.MinIOEndpoint,
		"MINIO_ACCESS_KEY":          cfg.MinIOAccessKey,
		"MINIO_SECRET_KEY":          cfg.MinIOSecretKey,
	}

	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		if cfg.StrictConfig {
			log.Fatal().Strs("variables", missing).Msg("Missing required environment variables")
		}
		log.Error().Strs("variables", missing).Msg("Missing required environment variables, continuing degraded")
	}

	return cfg
}

// CacheEnabled reports whether the optional Redis media cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
