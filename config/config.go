package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vnkhanh/visa-rent-server/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrDatabaseUnavailable is returned when no database connection is configured.
var ErrDatabaseUnavailable = errors.New("database is not configured")

// Config holds everything read from the environment.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME"`

	JWTSecret         string `env:"JWT_SECRET"`
	AdminEmail        string `env:"ADMIN_EMAIL" envDefault:"admin@vietnam-visa.ru"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	SupabaseURL    string `env:"SUPABASE_URL"`
	SupabaseKey    string `env:"SUPABASE_KEY"`
	SupabaseBucket string `env:"SUPABASE_BUCKET" envDefault:"apartments"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `env:"TELEGRAM_CHAT_ID"`

	SiteURL          string        `env:"SITE_URL" envDefault:"http://localhost:3000"`
	RevalidateSecret string        `env:"REVALIDATE_SECRET"`
	CORSOrigins      []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	PageCacheTTL     time.Duration `env:"PAGE_CACHE_TTL" envDefault:"5m"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON       bool   `env:"LOG_JSON" envDefault:"false"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"50"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
}

var (
	cfg   *Config
	cfgMu sync.Mutex

	DB   *gorm.DB
	dbMu sync.Mutex
)

// Load reads .env (if present) and the process environment. Later calls return the cached value.
func Load() (*Config, error) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	if cfg != nil {
		return cfg, nil
	}

	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file, using process environment")
	}

	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg = c
	return cfg, nil
}

// Get returns the loaded config, or defaults when Load was never called.
func Get() *Config {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	if cfg == nil {
		c := &Config{}
		_ = env.Parse(c)
		cfg = c
	}
	return cfg
}

// Set replaces the active config. Used by tests and the CLI.
func Set(c *Config) {
	cfgMu.Lock()
	cfg = c
	cfgMu.Unlock()
}

// DSN builds the postgres connection string, empty when nothing is configured.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBHost == "" || c.DBName == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Ho_Chi_Minh",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// AllowsOrigin reports whether origin is in CORS_ORIGINS ("*" allows all).
func (c *Config) AllowsOrigin(origin string) bool {
	for _, o := range c.CORSOrigins {
		o = strings.TrimSpace(o)
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// Database returns the shared connection, opening it on first use.
func Database() (*gorm.DB, error) {
	dbMu.Lock()
	defer dbMu.Unlock()
	if DB != nil {
		return DB, nil
	}

	dsn := Get().DSN()
	if dsn == "" {
		return nil, ErrDatabaseUnavailable
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseUnavailable, err)
	}
	DB = db
	logrus.Info("connected to PostgreSQL")
	return DB, nil
}

// SetDB swaps the shared connection; nil makes persistence unavailable again.
func SetDB(db *gorm.DB) {
	dbMu.Lock()
	DB = db
	dbMu.Unlock()
}

// Models lists every persisted entity in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.District{},
		&models.Amenity{},
		&models.Apartment{},
		&models.ApartmentImage{},
		&models.VisaType{},
		&models.FAQ{},
		&models.BlogPost{},
		&models.ViewingRequest{},
		&models.ContactRequest{},
		&models.NewsletterSubscription{},
		&models.ApartmentSubscription{},
	}
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
