package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	RecoveryTokenTTL time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RecoveryMailQueueName string

	AWSRegion    string
	MailFrom     string
	MailFromName string
	AppBaseURL   string
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort: getEnv("API_PORT", "8080"),
		JWTKey:  []byte(getEnv("JWT_SECRET", "defaultsecret")),
		// The legacy platform issued tokens valid for 60 seconds. Kept as
		// the default, but configurable.
		JWTExp:                time.Duration(getEnvAsInt("JWT_EXPIRATION_SECONDS", 60)) * time.Second,
		RecoveryTokenTTL:      time.Duration(getEnvAsInt("RECOVERY_TOKEN_TTL_MINUTES", 60)) * time.Minute,
		DBHost:                getEnv("DB_HOST", "localhost"),
		DBPort:                getEnv("DB_PORT", "5432"),
		DBUser:                getEnv("DB_USER", "user"),
		DBPassword:            getEnv("DB_PASSWORD", "password"),
		DBName:                getEnv("DB_NAME", "study_platform_db"),
		DBSslMode:             getEnv("DB_SSLMODE", "disable"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvAsInt("REDIS_DB", 0),
		RecoveryMailQueueName: getEnv("RECOVERY_MAIL_QUEUE_NAME", "recovery_mail_queue"),
		AWSRegion:             getEnv("AWS_REGION", "eu-west-1"),
		MailFrom:              getEnv("MAIL_FROM", ""),
		MailFromName:          getEnv("MAIL_FROM_NAME", "Study Platform"),
		AppBaseURL:            getEnv("APP_BASE_URL", "http://localhost:8080"),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
