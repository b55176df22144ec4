package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/milk9111/pizzamerge/common"
)

const (
	PolicySettled  = "settled"
	PolicyBoundary = "boundary"

	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	// Environment
	Environment string
	Debug       bool

	// Simulation
	TPS            int
	Seed           uint64
	Scale          float64
	GameOverPolicy string
	DropCooldown   time.Duration

	// High score storage
	HighScoreBackend string
	HighScorePath    string
	HighScoreKey     string
	RedisURL         string

	// Prefabs
	PrefabDir   string
	PrefabWatch bool
	SpawnScript string
}

// Load reads .env (when present) and the environment. Missing values fall
// back to the defaults below.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Environment: getEnv("PIZZA_ENV", "development"),
		Debug:       getEnvBool("PIZZA_DEBUG", false),

		TPS:            getEnvInt("PIZZA_TPS", common.DefaultTPS),
		Seed:           uint64(getEnvInt("PIZZA_SEED", 0)),
		Scale:          getEnvFloat("PIZZA_SCALE", 1),
		GameOverPolicy: strings.ToLower(getEnv("GAME_OVER_POLICY", PolicySettled)),
		DropCooldown:   getEnvDuration("DROP_COOLDOWN", 500*time.Millisecond),

		HighScoreBackend: strings.ToLower(getEnv("HIGHSCORE_BACKEND", BackendFile)),
		HighScorePath:    getEnv("HIGHSCORE_PATH", "highscore.yaml"),
		HighScoreKey:     getEnv("HIGHSCORE_KEY", "pizza-highscore"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),

		PrefabDir:   getEnv("PREFAB_DIR", "prefabs"),
		PrefabWatch: getEnvBool("PREFAB_WATCH", false),
		SpawnScript: getEnv("SPAWN_SCRIPT", ""),
	}
}

// Validate normalizes the enum settings and rejects values the game cannot
// start with.
func (c *Config) Validate() error {
	c.GameOverPolicy = strings.ToLower(strings.TrimSpace(c.GameOverPolicy))
	c.HighScoreBackend = strings.ToLower(strings.TrimSpace(c.HighScoreBackend))

	if c.TPS <= 0 {
		return fmt.Errorf("config: PIZZA_TPS must be positive, got %d", c.TPS)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("config: PIZZA_SCALE must be positive, got %g", c.Scale)
	}
	if c.DropCooldown < 0 {
		return fmt.Errorf("config: DROP_COOLDOWN must not be negative, got %s", c.DropCooldown)
	}
	switch c.GameOverPolicy {
	case PolicySettled, PolicyBoundary:
	default:
		return fmt.Errorf("config: unknown GAME_OVER_POLICY %q", c.GameOverPolicy)
	}
	switch c.HighScoreBackend {
	case BackendFile, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("config: unknown HIGHSCORE_BACKEND %q", c.HighScoreBackend)
	}
	return nil
}

// CooldownFrames converts DropCooldown to whole ticks, rounding up.
func (c *Config) CooldownFrames() int {
	if c.DropCooldown <= 0 || c.TPS <= 0 {
		return 0
	}
	return int((c.DropCooldown*time.Duration(c.TPS) + time.Second - 1) / time.Second)
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

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
