package config

import "testing"

// TestDefaults verifies the baked-in configuration values.
func TestDefaults(t *testing.T) {
	sim := DefaultSim()
	if sim.TickRate != 30 {
		t.Errorf("TickRate = %d, want 30", sim.TickRate)
	}
	if sim.WorldWidth != 1280 || sim.WorldHeight != 720 {
		t.Errorf("world = %gx%g, want 1280x720", sim.WorldWidth, sim.WorldHeight)
	}
	if sim.SpawnInterval != 2.0 || sim.MaxEnemies != 20 {
		t.Errorf("spawner = %g/%d, want 2.0/20", sim.SpawnInterval, sim.MaxEnemies)
	}

	limits := DefaultLimits()
	if limits.MaxProjectiles != 64 || limits.MaxAttacks != 32 || limits.MaxBodies != 256 {
		t.Errorf("limits = %+v", limits)
	}

	server := DefaultServer()
	if server.Port != 8080 {
		t.Errorf("Port = %d, want 8080", server.Port)
	}
}

// TestEnvOverrides verifies environment variables take precedence over
// defaults.
func TestEnvOverrides(t *testing.T) {
	t.Setenv("SIM_TICK_RATE", "60")
	t.Setenv("SIM_WORLD_WIDTH", "1920")
	t.Setenv("SIM_MAX_ENEMIES", "40")
	t.Setenv("SIM_VICTORY_THRESHOLD", "100")
	t.Setenv("SIM_RANDOM_SEED", "42")
	t.Setenv("SIM_MAX_PROJECTILES", "128")
	t.Setenv("PORT", "9090")
	t.Setenv("EVENT_JOURNAL_PATH", "run.jsonl")
	t.Setenv("ALLOW_ALL_ORIGINS", "true")

	cfg := Load()
	if cfg.Sim.TickRate != 60 {
		t.Errorf("TickRate = %d, want 60", cfg.Sim.TickRate)
	}
	if cfg.Sim.WorldWidth != 1920 {
		t.Errorf("WorldWidth = %g, want 1920", cfg.Sim.WorldWidth)
	}
	if cfg.Sim.MaxEnemies != 40 {
		t.Errorf("MaxEnemies = %d, want 40", cfg.Sim.MaxEnemies)
	}
	if cfg.Sim.VictoryThreshold != 100 {
		t.Errorf("VictoryThreshold = %d, want 100", cfg.Sim.VictoryThreshold)
	}
	if cfg.Sim.RandomSeed != 42 {
		t.Errorf("RandomSeed = %d, want 42", cfg.Sim.RandomSeed)
	}
	if cfg.Limits.MaxProjectiles != 128 {
		t.Errorf("MaxProjectiles = %d, want 128", cfg.Limits.MaxProjectiles)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.EventJournal != "run.jsonl" {
		t.Errorf("EventJournal = %q", cfg.Server.EventJournal)
	}
	if !cfg.Server.AllowAllOrigins {
		t.Error("AllowAllOrigins not applied")
	}
}

// TestMalformedEnvIgnored verifies unparseable values fall back to
// defaults instead of failing startup.
func TestMalformedEnvIgnored(t *testing.T) {
	t.Setenv("SIM_TICK_RATE", "not-a-number")
	t.Setenv("SIM_WORLD_WIDTH", "")

	cfg := Load()
	if cfg.Sim.TickRate != 30 {
		t.Errorf("TickRate = %d, want default 30", cfg.Sim.TickRate)
	}
	if cfg.Sim.WorldWidth != 1280 {
		t.Errorf("WorldWidth = %g, want default 1280", cfg.Sim.WorldWidth)
	}
}
