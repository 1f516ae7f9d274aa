package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Redis    RedisConfig
	DB       DBConfig
	Auth     AuthConfig
	Sheets   SheetsConfig
	Mail     MailConfig
	HTTPPort string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  int // hours
}

type SheetsConfig struct {
	CredentialsJSON string
	CredentialsFile string
	OAuthClientJSON string
	OAuthTokenJSON  string
}

type MailConfig struct {
	SendGridAPIKey string
	FromAddress    string
	FeedbackInbox  string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTL, _ := strconv.Atoi(getEnv("AUTH_TOKEN_TTL_HOURS", "72"))

	return Config{
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "roaddog"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "roaddog"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  tokenTTL,
		},
		Sheets: SheetsConfig{
			CredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
			CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			OAuthClientJSON: getEnv("GOOGLE_OAUTH_CLIENT_JSON", ""),
			OAuthTokenJSON:  getEnv("GOOGLE_OAUTH_TOKEN_JSON", ""),
		},
		Mail: MailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromAddress:    getEnv("MAIL_FROM", "noreply@roaddog.app"),
			FeedbackInbox:  getEnv("MAIL_FEEDBACK_INBOX", "feedback@roaddog.app"),
		},
		HTTPPort: getEnv("HTTP_PORT", "8080"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
