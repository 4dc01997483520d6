package sim

import (
	"context"
	"log"
	"sync"
	"time"

	"arena-survival/internal/config"
)

// State is the engine's run-state machine. Only StateRunning advances
// the simulation; every other state freezes sim-time, which freezes all
// cooldowns and lifetimes with it.
type State uint8

const (
	StateRunning State = iota
	StateLevelUp       // frozen until an upgrade choice is confirmed
	StatePaused        // frozen by external request
	StateGameOver      // terminal: the player died
	StateVictory       // terminal: the kill goal was reached
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateLevelUp:
		return "level_up"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game_over"
	case StateVictory:
		return "victory"
	default:
		return "unknown"
	}
}

// ============================================================================
// ENGINE - single authority over the simulation
// ============================================================================

// Engine owns the world and serializes all access to it: the tick loop,
// intent updates and upgrade confirmations all contend on one mutex, so
// stages never observe a half-updated world.
type Engine struct {
	mu sync.Mutex

	cfg  config.SimConfig
	ctx  *Context
	sink EventSink

	state   State
	tick    uint64
	elapsed float64 // wall of sim-time actually simulated, frozen with the state machine
	kills   int
	intent  Vec2 // latest movement intent from the shell, zero when idle

	// tickObserver, when set, receives each Step's wall-clock duration.
	// The shell hooks its tick-latency histogram here without the core
	// depending on any metrics package.
	tickObserver func(time.Duration)
}

// NewEngine builds a world, spawns the player and returns a running
// engine. Configuration errors surface here, before any tick runs.
func NewEngine(cfg config.SimConfig, limits config.ResourceLimits, sink EventSink) (*Engine, error) {
	world, err := NewContext(cfg, limits)
	if err != nil {
		return nil, err
	}
	if _, err := world.SpawnPlayer(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Engine{
		cfg:   cfg,
		ctx:   world,
		sink:  sink,
		state: StateRunning,
	}, nil
}

// Run drives the fixed-rate tick loop until ctx is cancelled. The tick
// duration is 1/TickRate; a slow tick delays the next one rather than
// compressing dt, keeping the simulation step deterministic.
func (e *Engine) Run(ctx context.Context) error {
	dt := 1.0 / float64(e.cfg.TickRate)
	ticker := time.NewTicker(time.Duration(float64(time.Second) * dt))
	defer ticker.Stop()

	log.Printf("engine: tick loop started (%d ticks/s)", e.cfg.TickRate)
	for {
		select {
		case <-ctx.Done():
			log.Printf("engine: tick loop stopped after %d ticks", e.Tick())
			return ctx.Err()
		case <-ticker.C:
			e.Step(dt)
		}
	}
}

// SetTickObserver registers a callback receiving each Step's wall-clock
// duration. Pass nil to remove it.
func (e *Engine) SetTickObserver(fn func(time.Duration)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickObserver = fn
}

// Step advances the simulation by dt seconds. Exposed for tests and
// headless drivers; Run calls it on the ticker.
func (e *Engine) Step(dt float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := time.Now()
	e.step(dt)
	if e.tickObserver != nil {
		e.tickObserver(time.Since(start))
	}
}

// step runs one frame through the fixed stage pipeline. Caller holds mu.
//
// Ordering is load-bearing: detection sees post-movement positions,
// damage is resolved from a single queue drain, deaths are observed
// before progression consumes their rewards, and cleanup frees slots
// only after every stage has run.
func (e *Engine) step(dt float64) {
	if e.state != StateRunning {
		return
	}
	e.tick++
	e.elapsed += dt

	world := e.ctx
	world.advance(dt)

	// Movement: player and enemy intents plus separation pushback, then
	// orb vacuum and collection against the player's new position.
	world.physicsStage(dt, e.intent)
	world.pickupStage(dt)

	// Detection against a frozen enemy snapshot.
	snap := world.snapshotEnemies()
	world.rebuildGrid(snap)
	pairs := world.detectPairs(snap)
	pairs = append(pairs, world.sweepProjectiles(dt, snap)...)

	// Damage: pair conversion and area re-scans feed one queue, drained
	// exactly once.
	queue := &damageQueue{}
	world.convertPairs(pairs, queue)
	world.attackScanStage(queue)
	world.resolveDamage(queue)

	// Scheduling: new attacks and projectiles join the world now and
	// first collide next frame.
	world.weaponStage(dt)
	world.spawnStage(dt)
	world.lifetimeStage(dt)

	// Lifecycle: each dying entity is observed exactly once.
	deaths, playerDied := world.resolveDeaths(e.tick)
	for _, death := range deaths {
		if death.HasReward {
			world.dropReward(death)
		}
		if death.Kind == KindEnemy {
			e.kills++
		}
		e.sink.OnDeath(death)
	}

	if playerDied {
		e.state = StateGameOver
		world.cleanup()
		e.sink.OnGameOver(e.kills)
		log.Printf("engine: game over after %d ticks, %d kills", e.tick, e.kills)
		return
	}
	if e.cfg.VictoryThreshold > 0 && e.kills >= e.cfg.VictoryThreshold {
		e.state = StateVictory
		world.cleanup()
		log.Printf("engine: victory after %d ticks, %d kills", e.tick, e.kills)
		return
	}

	// Progression: at most one level-up per frame; an open selection
	// freezes the world until the shell confirms a choice.
	if event := world.progressionStage(e.tick); event != nil {
		e.state = StateLevelUp
		e.sink.OnLevelUp(*event)
	}

	world.cleanup()
}

// ============================================================================
// SHELL-FACING CONTROL SURFACE
// ============================================================================

// SetIntent replaces the player's movement intent. The vector is
// normalized by the physics stage, so callers may pass raw input axes.
func (e *Engine) SetIntent(intent Vec2) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.intent = intent
}

// ConfirmUpgrade applies the pending choice at index and resumes the
// simulation. Returns ErrNoPendingUpgrade when no selection is open.
func (e *Engine) ConfirmUpgrade(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ctx.ConfirmUpgrade(index); err != nil {
		return err
	}
	if e.state == StateLevelUp {
		e.state = StateRunning
	}
	return nil
}

// Pause freezes the simulation. A no-op outside StateRunning so a pause
// request can never clobber a level-up interrupt or a terminal state.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateRunning {
		e.state = StatePaused
	}
}

// Resume unfreezes a paused simulation.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StatePaused {
		e.state = StateRunning
	}
}

// State reports the current run state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Tick reports how many frames have been simulated.
func (e *Engine) Tick() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tick
}

// Kills reports enemies destroyed this run.
func (e *Engine) Kills() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.kills
}

// PendingUpgrades returns the open upgrade selection, empty when none.
func (e *Engine) PendingUpgrades() []ChoiceView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.PendingChoices()
}
