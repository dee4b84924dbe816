package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Numbering NumberingConfig
	App       AppConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

// NumberingConfig is the project-number scheme: a fixed year literal
// plus the evaluation-type → three-letter-code table. Rolling the year
// or adding a type only opens a new prefix namespace; it never requires
// a schema change.
type NumberingConfig struct {
	Year  string
	Types map[string]string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	Departments []string
}

// defaultTypes is the firm's evaluation-type table as shipped.
var defaultTypes = map[string]string{
	"资产评估":  "AAP",
	"土地评估":  "LAP",
	"珠宝评估":  "JAP",
	"矿业权评估": "MRV",
	"咨询":    "ACP",
}

var defaultDepartments = []string{
	"业务1组（房地产）",
	"业务2组（固定资产）",
	"业务3组（企业价值）",
	"矿业权小组",
	"质控部",
	"其他",
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "project_registry"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE", "pr_session"),
			TTL:        time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 12*60)) * time.Minute,
		},
		Numbering: NumberingConfig{
			Year:  getEnv("NUMBERING_YEAR", "2026"),
			Types: parseTypes(os.Getenv("NUMBERING_TYPES")),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Departments: parseList(os.Getenv("DEPARTMENTS"), defaultDepartments),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if len(c.Numbering.Year) != 4 {
		return fmt.Errorf("NUMBERING_YEAR must be a 4-digit year, got %q", c.Numbering.Year)
	}
	if _, err := strconv.Atoi(c.Numbering.Year); err != nil {
		return fmt.Errorf("NUMBERING_YEAR must be a 4-digit year, got %q", c.Numbering.Year)
	}

	if len(c.Numbering.Types) == 0 {
		return fmt.Errorf("NUMBERING_TYPES must define at least one project type")
	}
	for name, code := range c.Numbering.Types {
		if len(code) != 3 || strings.ToUpper(code) != code {
			return fmt.Errorf("type code for %q must be 3 uppercase letters, got %q", name, code)
		}
	}

	return nil
}

// parseTypes reads a "name:CODE,name:CODE" list. An empty value keeps
// the built-in table.
func parseTypes(raw string) map[string]string {
	if strings.TrimSpace(raw) == "" {
		out := make(map[string]string, len(defaultTypes))
		for k, v := range defaultTypes {
			out[k] = v
		}
		return out
	}

	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		name, code, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			log.Printf("Warning: ignoring malformed NUMBERING_TYPES entry %q", pair)
			continue
		}
		out[strings.TrimSpace(name)] = strings.ToUpper(strings.TrimSpace(code))
	}
	return out
}

func parseList(raw string, fallback []string) []string {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
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

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}
