package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	Database   DatabaseConfig
	JWT        JWTConfig
	Cookie     CookieConfig
	Mail       MailConfig
	Cloudinary CloudinaryConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds token configuration
type JWTConfig struct {
	Secret            string
	RefreshSecret     string
	AccessTokenMins   int
	RefreshTokenHours int
	ResetTokenMins    int
}

// CookieConfig holds refresh cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// MailConfig holds SMTP configuration for password reset mail
type MailConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	EmailDomain string
	FrontendURL string
}

// CloudinaryConfig holds proof-of-payment storage credentials
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:    appMode,
		Port:       getEnv("PORT", "5000"),
		Database:   loadDatabaseConfig(),
		JWT:        loadJWTConfig(),
		Cookie:     loadCookieConfig(appMode),
		Mail:       loadMailConfig(),
		Cloudinary: loadCloudinaryConfig(),
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		User:     getEnv("DB_USER", "root"),
		Password: getEnv("DB_PASS", ""),
		DBName:   getEnv("DB_NAME", "dofe_kas"),
	}
}

func loadJWTConfig() JWTConfig {
	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshHours, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_HOURS", "6"))
	resetMins, _ := strconv.Atoi(getEnv("RESET_TOKEN_MINUTES", "30"))

	return JWTConfig{
		Secret:            getEnv("ACCESS_TOKEN_SECRET", "default_secret"),
		RefreshSecret:     getEnv("REFRESH_TOKEN_SECRET", "default_refresh_secret"),
		AccessTokenMins:   accessMins,
		RefreshTokenHours: refreshHours,
		ResetTokenMins:    resetMins,
	}
}

func loadCookieConfig(mode string) CookieConfig {
	secure, _ := strconv.ParseBool(getEnv("COOKIE_SECURE", "false"))
	if mode == "prod" {
		secure = true
	}

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadMailConfig() MailConfig {
	port, _ := strconv.Atoi(getEnv("EMAIL_PORT", "587"))

	return MailConfig{
		Host:        getEnv("EMAIL_HOST", ""),
		Port:        port,
		User:        getEnv("EMAIL_USER", ""),
		Password:    getEnv("EMAIL_PASS", ""),
		EmailDomain: getEnv("EMAIL_DOMAIN", "@students.satyaterrabhinneka.ac.id"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
	}
}

func loadCloudinaryConfig() CloudinaryConfig {
	return CloudinaryConfig{
		CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		Folder:    getEnv("CLOUDINARY_FOLDER", "dofesystem/kas"),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return c.Mail.FrontendURL
	}
	return origins
}
