package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lobami/campaign-analytics/internal/models"
)

// Config carries every tunable of the process. It is constructed once in
// main and passed by reference; nothing reads the environment after load.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	KafkaAddress string

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	HTTPPort        string
	LogLevel        string
	FrontendOrigins []string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getenvDefault("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    getenvDefault("ES_INDEX", "campaigns"),

		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		AccessTTL:  time.Duration(getenvInt("ACCESS_TOKEN_TTL_MIN", 60)) * time.Minute,
		RefreshTTL: time.Duration(getenvInt("REFRESH_TOKEN_TTL_DAYS", 7)) * 24 * time.Hour,

		HTTPPort: getenvDefault("HTTP_PORT", "8080"),
		LogLevel: getenvDefault("LOG_LEVEL", "info"),
	}

	origins := getenvDefault("FRONTEND_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.FrontendOrigins = append(cfg.FrontendOrigins, o)
		}
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	return cfg, nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.RefreshToken{},
		&models.Campaign{},
		&models.CampaignPeriod{},
		&models.CampaignSite{},
	)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Notice: invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}
