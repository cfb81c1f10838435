package environments

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Twilio    TwilioConfig
	CallHippo CallHippoConfig
	Dialer    DialerConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type TwilioConfig struct {
	BaseURL     string
	AccountSID  string
	AuthToken   string
	FromNumber  string
	CallbackURL string
	Timeout     time.Duration
}

type CallHippoConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type DialerConfig struct {
	MaxAttempts int
	RetryDelay  time.Duration
}

type AuthConfig struct {
	CampaignsAPIKey string
	ContactsAPIKey  string
}

func Load() *Config {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: GetEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     GetEnv("DB_HOST", "localhost"),
			Port:     GetEnv("DB_PORT", "3306"),
			User:     GetEnv("DB_USER", "dialer"),
			Password: GetEnv("DB_PASSWORD", "dialer123"),
			DBName:   GetEnv("DB_NAME", "voice_campaigns"),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetEnvAsInt("REDIS_DB", 0),
		},
		Twilio: TwilioConfig{
			BaseURL:     GetEnv("TWILIO_BASE_URL", "https://api.twilio.com/2010-04-01"),
			AccountSID:  GetEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:   GetEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber:  GetEnv("TWILIO_PHONE_NUMBER", ""),
			CallbackURL: GetEnv("TWILIO_CALLBACK_URL", ""),
			Timeout:     time.Duration(GetEnvAsInt("TWILIO_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		CallHippo: CallHippoConfig{
			BaseURL: GetEnv("CALLHIPPO_BASE_URL", "https://api.callhippo.com/v1"),
			APIKey:  GetEnv("CALLHIPPO_API_KEY", ""),
			Timeout: time.Duration(GetEnvAsInt("CALLHIPPO_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Dialer: DialerConfig{
			MaxAttempts: GetEnvAsInt("DIALER_MAX_ATTEMPTS", 3),
			RetryDelay:  time.Duration(GetEnvAsInt("DIALER_RETRY_DELAY_SECONDS", 3)) * time.Second,
		},
		Auth: AuthConfig{
			CampaignsAPIKey: GetEnv("CAMPAIGNS_API_KEY", ""),
			ContactsAPIKey:  GetEnv("CONTACTS_API_KEY", ""),
		},
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
