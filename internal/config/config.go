// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all simulation and server settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds the parameters the combat core needs to run.
// The core itself never reads the environment; everything arrives through
// this struct so tests can construct worlds deterministically.
type SimConfig struct {
	TickRate    int     // Simulation ticks per second
	WorldWidth  float64 // Arena width in world units
	WorldHeight float64 // Arena height in world units

	SpawnInterval    float64 // Seconds between enemy spawns
	MaxEnemies       int     // Live enemy cap (wave pressure limit)
	VictoryThreshold int     // Kills needed to win the run (0 = endless)

	RandomSeed int64 // 0 = seed from wall clock
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate:         30,
		WorldWidth:       1280,
		WorldHeight:      720,
		SpawnInterval:    2.0,
		MaxEnemies:       20,
		VictoryThreshold: 0,
		RandomSeed:       0,
	}
}

// SimFromEnv returns simulation configuration with environment variable
// overrides. Environment variables take precedence over defaults.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if v := getEnvInt("SIM_TICK_RATE", 0); v > 0 {
		cfg.TickRate = v
	}
	if v := getEnvFloat("SIM_WORLD_WIDTH", 0); v > 0 {
		cfg.WorldWidth = v
	}
	if v := getEnvFloat("SIM_WORLD_HEIGHT", 0); v > 0 {
		cfg.WorldHeight = v
	}
	if v := getEnvFloat("SIM_SPAWN_INTERVAL", 0); v > 0 {
		cfg.SpawnInterval = v
	}
	if v := getEnvInt("SIM_MAX_ENEMIES", 0); v > 0 {
		cfg.MaxEnemies = v
	}
	if v := getEnvInt("SIM_VICTORY_THRESHOLD", -1); v >= 0 {
		cfg.VictoryThreshold = v
	}
	if v := getEnvInt64("SIM_RANDOM_SEED", 0); v != 0 {
		cfg.RandomSeed = v
	}

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection and performance limits.
// The simulation refuses to spawn past these caps instead of degrading.
type ResourceLimits struct {
	MaxProjectiles int // Live projectile cap
	MaxAttacks     int // Live area-effect attack cap
	MaxBodies      int // Hard cap on total collidable bodies
}

// DefaultLimits returns defaults sized for the entity counts the pairwise
// collision pass is designed for (tens of bodies).
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxProjectiles: 64,
		MaxAttacks:     32,
		MaxBodies:      256,
	}
}

// LimitsFromEnv returns resource limits with environment overrides.
func LimitsFromEnv() ResourceLimits {
	l := DefaultLimits()

	if v := getEnvInt("SIM_MAX_PROJECTILES", 0); v > 0 {
		l.MaxProjectiles = v
	}
	if v := getEnvInt("SIM_MAX_ATTACKS", 0); v > 0 {
		l.MaxAttacks = v
	}
	if v := getEnvInt("SIM_MAX_BODIES", 0); v > 0 {
		l.MaxBodies = v
	}

	return l
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds the HTTP shell settings.
type ServerConfig struct {
	Port            int    // HTTP listen port
	EventJournal    string // Path for the death-event journal ("" disables)
	AllowAllOrigins bool   // Relax CORS/WS origin checks (dev only)
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:            8080,
		EventJournal:    "events.jsonl",
		AllowAllOrigins: false,
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if v := getEnvInt("PORT", 0); v > 0 {
		cfg.Port = v
	}
	if v := os.Getenv("EVENT_JOURNAL_PATH"); v != "" {
		cfg.EventJournal = v
	}
	if v := os.Getenv("ALLOW_ALL_ORIGINS"); v == "true" || v == "1" {
		cfg.AllowAllOrigins = true
	}

	return cfg
}

// =============================================================================
// APPLICATION CONFIGURATION (AGGREGATE)
// =============================================================================

// AppConfig aggregates all configuration sections.
type AppConfig struct {
	Sim    SimConfig
	Limits ResourceLimits
	Server ServerConfig
}

// Load returns the complete application configuration with all
// environment overrides applied.
func Load() AppConfig {
	return AppConfig{
		Sim:    SimFromEnv(),
		Limits: LimitsFromEnv(),
		Server: ServerFromEnv(),
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// getEnvInt reads an integer environment variable with a fallback default.
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvInt64 reads a 64-bit integer environment variable with a fallback.
func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvFloat reads a float environment variable with a fallback default.
func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}
