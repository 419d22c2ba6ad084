package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Admin       AdminConfig
	Argon2      Argon2Config
	CORS        CORSConfig
	Monitoring  MonitoringConfig
	Institution InstitutionConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	LogLevel    string
	MaxUploadMB int64
}

type StoreConfig struct {
	Backend string
	Path    string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	DSN      string
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type AdminConfig struct {
	Email        string
	PasswordHash string
	Password     string
}

type Argon2Config struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

type CORSConfig struct {
	Origins []string
}

type MonitoringConfig struct {
	PrometheusEnabled bool
}

type InstitutionConfig struct {
	Name     string
	Subtitle string
}

const (
	StoreBackendFile     = "file"
	StoreBackendDatabase = "database"
)

// Load reads and fully validates the configuration the API server needs.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads the environment without requiring auth settings. Offline
// tools call it and check only what they use.
func Read() (*Config, error) {
	godotenv.Load()

	accessExpiry, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRY", "12h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRY: %w", err)
	}

	db := DatabaseConfig{
		Driver:   getEnv("DB_DRIVER", "postgres"),
		Host:     getEnv("DB_HOST", "localhost"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "results_portal"),
	}
	db.Port = getEnv("DB_PORT", defaultPort(db.Driver))
	db.DSN = getEnv("DATABASE_URL", buildDSN(db))

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "5000"),
			Env:         getEnv("ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			MaxUploadMB: int64(getEnvInt("MAX_UPLOAD_MB", 16)),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", StoreBackendFile),
			Path:    getEnv("STORE_PATH", "students_results.json"),
		},
		Database: db,
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", ""),
			AccessExpiry: accessExpiry,
		},
		Admin: AdminConfig{
			Email:        getEnv("ADMIN_EMAIL", "admin@college.com"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			Password:     getEnv("ADMIN_PASSWORD", ""),
		},
		Argon2: Argon2Config{
			Memory:      uint32(getEnvInt("ARGON2_MEMORY", 65536)),
			Iterations:  uint32(getEnvInt("ARGON2_ITERATIONS", 3)),
			Parallelism: uint8(getEnvInt("ARGON2_PARALLELISM", 2)),
			SaltLength:  uint32(getEnvInt("ARGON2_SALT_LENGTH", 16)),
			KeyLength:   uint32(getEnvInt("ARGON2_KEY_LENGTH", 32)),
		},
		CORS: CORSConfig{
			Origins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		},
		Monitoring: MonitoringConfig{
			PrometheusEnabled: getEnv("PROMETHEUS_ENABLED", "true") == "true",
		},
		Institution: InstitutionConfig{
			Name:     getEnv("INSTITUTION_NAME", "College of Engineering"),
			Subtitle: getEnv("INSTITUTION_SUBTITLE", "Statement of Grades"),
		},
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Admin.PasswordHash == "" && c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD_HASH or ADMIN_PASSWORD is required")
	}
	return c.ValidateStore()
}

// ValidateStore checks the settings used by the result store and uploads.
func (c *Config) ValidateStore() error {
	switch c.Store.Backend {
	case StoreBackendFile, StoreBackendDatabase:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// MaxUploadBytes is the request body limit for uploads.
func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}

func defaultPort(driver string) string {
	if driver == "mysql" {
		return "3306"
	}
	return "5432"
}

func buildDSN(db DatabaseConfig) string {
	switch db.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			db.User, db.Password, db.Host, db.Port, db.Name)
	case "sqlite":
		return db.Name + ".db"
	default:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			db.Host, db.Port, db.User, db.Password, db.Name)
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
