package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Cron specs for the background sweeps (robfig/cron format with seconds).
	AccrualCronSpec    string
	CompletionCronSpec string

	// Formatted rate for auth endpoints, e.g. "5-M".
	AuthRateLimit string

	// Maturity notification email; notifications are disabled when the API
	// key is empty.
	SendgridAPIKey string
	EmailFromName  string
	EmailFromAddr  string

	CORSAllowOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "lockin-backend")
	viper.SetDefault("ACCRUAL_CRON_SPEC", "0 10 0 * * *")    // daily 00:10 UTC
	viper.SetDefault("COMPLETION_CRON_SPEC", "0 40 0 * * *") // daily 00:40 UTC
	viper.SetDefault("AUTH_RATE_LIMIT", "5-M")
	viper.SetDefault("SENDGRID_API_KEY", "")
	viper.SetDefault("EMAIL_FROM_NAME", "NexaVault")
	viper.SetDefault("EMAIL_FROM_ADDR", "no-reply@nexavault.example")
	viper.SetDefault("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"})

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		log.Printf("Warning: Invalid JWT_EXPIRY_DURATION ('%s'). Defaulting to 1h.\n", jwtExpiryStr)
		jwtExpiry = time.Hour
	}
	cfg.JWTExpiryDuration = jwtExpiry
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.AccrualCronSpec = viper.GetString("ACCRUAL_CRON_SPEC")
	cfg.CompletionCronSpec = viper.GetString("COMPLETION_CRON_SPEC")
	cfg.AuthRateLimit = viper.GetString("AUTH_RATE_LIMIT")

	cfg.SendgridAPIKey = viper.GetString("SENDGRID_API_KEY")
	cfg.EmailFromName = viper.GetString("EMAIL_FROM_NAME")
	cfg.EmailFromAddr = viper.GetString("EMAIL_FROM_ADDR")

	cfg.CORSAllowOrigins = viper.GetStringSlice("CORS_ALLOW_ORIGINS")

	return cfg, nil
}
