package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port          string
	DBDriver      string
	DatabaseURL   string
	DBPath        string
	SeedPath      string
	RedisURL      string
	CacheTTL      time.Duration
	FleetFile     string
	FleetPreset   string
	TimeLimit     time.Duration
	Workers       int
	Metaheuristic string
	LogLevel      string
	// RateLimit is the sustained /solve rate per second; 0 disables limiting.
	RateLimit float64
	RateBurst int
}

// Get returns the environment value of key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// LoadDotenv loads .env into the environment; a missing file is not an error.
func LoadDotenv(paths ...string) (bool, error) {
	if err := godotenv.Load(paths...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("load dotenv: %w", err)
	}
	return true, nil
}

// Load reads Config from the environment. Call LoadDotenv first to pick up .env.
func Load() (Config, error) {
	cfg := Config{
		Port:          Get("PORT", "8080"),
		DBDriver:      Get("DB_DRIVER", "sqlite"),
		DatabaseURL:   Get("DATABASE_URL", ""),
		DBPath:        Get("DB_PATH", "data/app.db"),
		SeedPath:      Get("SEED_PATH", "data/seeds/nodes.json"),
		RedisURL:      Get("REDIS_URL", ""),
		FleetFile:     Get("FLEET_FILE", ""),
		FleetPreset:   Get("FLEET_PRESET", PresetDrone),
		Metaheuristic: Get("METAHEURISTIC", "guided_local_search"),
		LogLevel:      Get("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.TimeLimit, err = duration("SOLVE_TIME_LIMIT", time.Second); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = duration("CACHE_TTL", 0); err != nil {
		return Config{}, err
	}
	if cfg.Workers, err = integer("SOLVE_WORKERS", 0); err != nil {
		return Config{}, err
	}
	if cfg.RateBurst, err = integer("RATE_BURST", 5); err != nil {
		return Config{}, err
	}
	if v := Get("RATE_LIMIT", "2"); v != "" {
		cfg.RateLimit, err = strconv.ParseFloat(v, 64)
		if err != nil || cfg.RateLimit < 0 {
			return Config{}, fmt.Errorf("load config: RATE_LIMIT=%q must be a non-negative number", v)
		}
	}

	return cfg, nil
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		// bare numbers are seconds
		secs, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil {
			return 0, fmt.Errorf("load config: %s=%q: %w", key, v, err)
		}
		d = time.Duration(secs * float64(time.Second))
	}
	if d < 0 {
		return 0, fmt.Errorf("load config: %s must not be negative", key)
	}
	return d, nil
}

func integer(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("load config: %s=%q must be a non-negative integer", key, v)
	}
	return n, nil
}
