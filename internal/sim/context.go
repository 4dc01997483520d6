package sim

import (
	"errors"
	"math/rand"
	"time"

	"arena-survival/internal/config"
	"arena-survival/internal/sim/spatial"
)

// Construction errors. A context that cannot be built safely is a fatal
// startup condition, not something the simulation limps through.
var (
	ErrBadTickRate    = errors.New("sim: tick rate must be positive")
	ErrBadWorldBounds = errors.New("sim: world bounds must be positive")
	ErrPlayerExists   = errors.New("sim: context already has a player")
	ErrNoPlayer       = errors.New("sim: context has no player")
	ErrBodyLimit      = errors.New("sim: body limit reached")
)

// PlayerStats are the player-level multipliers recomputed from standing
// upgrades. They arrive from outside the core and scale weapon output at
// fire time.
type PlayerStats struct {
	DamageMultiplier  float64 // scales effective weapon damage
	AreaMultiplier    float64 // scales effective attack radius
	CooldownReduction float64 // 0..1, fraction shaved off effective cooldown
	Luck              int     // raises the chance of a 4th upgrade choice
}

// DefaultPlayerStats returns neutral multipliers.
func DefaultPlayerStats() PlayerStats {
	return PlayerStats{
		DamageMultiplier:  1.0,
		AreaMultiplier:    1.0,
		CooldownReduction: 0.0,
		Luck:              0,
	}
}

// Context is the explicitly owned simulation world: a slot-map arena of
// entities plus their typed component maps. Exactly one Context exists
// per run, enforced at construction rather than by runtime lookup, and
// every stage receives it by pointer.
//
// All access is single-threaded within a tick; the Engine serializes
// stage execution.
type Context struct {
	cfg    config.SimConfig
	limits config.ResourceLimits
	rng    *rand.Rand

	now    float64 // accumulated sim-time in seconds, frozen while paused
	nextID EntityID

	// Component maps keyed by entity ID. An entity owns its components;
	// they are destroyed together when the slot is freed.
	kinds       map[EntityID]Kind
	phases      map[EntityID]Phase
	Bodies      map[EntityID]*Body
	Healths     map[EntityID]*Health
	Cooldowns   map[EntityID]*DamageCooldown
	Projectiles map[EntityID]*ProjectileStats
	Enemies     map[EntityID]*Enemy
	Lifetimes   map[EntityID]*Lifetime
	Areas       map[EntityID]*AreaEffect
	Pickups     map[EntityID]*Pickup

	// The player is a singleton within the arena.
	player      EntityID // 0 = no player
	playerStats PlayerStats
	weapons     []*Weapon
	progression Progression
	autoAttack  AutoAttack
	shards      int // run currency from Void Shard pick-ups

	spawnElapsed float64 // accumulated time toward the next wave spawn

	grid *spatial.Grid
}

// NewContext validates the configuration and builds an empty world.
// Ambiguous or impossible topology aborts here rather than producing a
// context that cannot run safely.
func NewContext(cfg config.SimConfig, limits config.ResourceLimits) (*Context, error) {
	if cfg.TickRate <= 0 {
		return nil, ErrBadTickRate
	}
	if cfg.WorldWidth <= 0 || cfg.WorldHeight <= 0 {
		return nil, ErrBadWorldBounds
	}

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Context{
		cfg:         cfg,
		limits:      limits,
		rng:         rand.New(rand.NewSource(seed)),
		nextID:      1,
		kinds:       make(map[EntityID]Kind),
		phases:      make(map[EntityID]Phase),
		Bodies:      make(map[EntityID]*Body),
		Healths:     make(map[EntityID]*Health),
		Cooldowns:   make(map[EntityID]*DamageCooldown),
		Projectiles: make(map[EntityID]*ProjectileStats),
		Enemies:     make(map[EntityID]*Enemy),
		Lifetimes:   make(map[EntityID]*Lifetime),
		Areas:       make(map[EntityID]*AreaEffect),
		Pickups:     make(map[EntityID]*Pickup),
		playerStats: DefaultPlayerStats(),
		grid:        spatial.NewGrid(cfg.WorldWidth, cfg.WorldHeight, gridCellSize, limits.MaxBodies),
	}, nil
}

// Now returns the current sim-time in seconds.
func (c *Context) Now() float64 { return c.now }

// advance moves sim-time forward. Only the Engine calls this; a paused
// engine simply never advances, which freezes every timer in place
// without resetting accumulated progress.
func (c *Context) advance(dt float64) { c.now += dt }

// newEntity reserves a slot for a new entity of the given kind.
func (c *Context) newEntity(kind Kind) (EntityID, error) {
	if len(c.kinds) >= c.limits.MaxBodies {
		return 0, ErrBodyLimit
	}
	id := c.nextID
	c.nextID++
	c.kinds[id] = kind
	c.phases[id] = PhaseActive
	return id, nil
}

// KindOf returns the kind tag for an entity (KindNone once removed).
func (c *Context) KindOf(id EntityID) Kind { return c.kinds[id] }

// PhaseOf returns the lifecycle phase for an entity. Removed entities
// report PhaseActive zero-value; pair with KindOf when that matters.
func (c *Context) PhaseOf(id EntityID) Phase { return c.phases[id] }

// Alive reports whether the entity exists and has not begun dying.
// Systems must treat dying/despawning entities as already gone.
func (c *Context) Alive(id EntityID) bool {
	if _, ok := c.kinds[id]; !ok {
		return false
	}
	return c.phases[id] == PhaseActive
}

// MarkDying transitions an entity to PhaseDying. Re-marking an entity
// that is already dying or despawning is a no-op, which is what makes
// "hit by two lethal projectiles in one tick" emit a single death event.
func (c *Context) MarkDying(id EntityID) {
	if _, ok := c.kinds[id]; !ok {
		return
	}
	if c.phases[id] == PhaseActive {
		c.phases[id] = PhaseDying
	}
}

// markDespawning advances a dying entity to PhaseDespawning. Called only
// by the death resolver after the death event has been emitted.
func (c *Context) markDespawning(id EntityID) {
	if _, ok := c.kinds[id]; !ok {
		return
	}
	if c.phases[id] == PhaseDying {
		c.phases[id] = PhaseDespawning
	}
}

// remove frees an entity's slot and every component it owns. No system
// may read or write the entity afterwards.
func (c *Context) remove(id EntityID) {
	delete(c.kinds, id)
	delete(c.phases, id)
	delete(c.Bodies, id)
	delete(c.Healths, id)
	delete(c.Cooldowns, id)
	delete(c.Projectiles, id)
	delete(c.Enemies, id)
	delete(c.Lifetimes, id)
	delete(c.Areas, id)
	delete(c.Pickups, id)
	if id == c.player {
		c.player = 0
	}
}

// Player returns the player entity ID, or 0 when no player exists
// (an expected empty result after game over, not an error).
func (c *Context) Player() EntityID { return c.player }

// PlayerStats returns the current player-level multipliers.
func (c *Context) PlayerStats() PlayerStats { return c.playerStats }

// SetPlayerStats replaces the player-level multipliers. The surrounding
// application recomputes these from standing upgrades.
func (c *Context) SetPlayerStats(s PlayerStats) { c.playerStats = s }

// Weapons returns the player's equipped weapons.
func (c *Context) Weapons() []*Weapon { return c.weapons }

// AddWeapon equips a weapon on the player.
func (c *Context) AddWeapon(w *Weapon) { c.weapons = append(c.weapons, w) }

// Shards reports the run currency collected from Void Shard pick-ups.
func (c *Context) Shards() int { return c.shards }

// SpawnPlayer creates the singleton player entity. A second call while
// a player exists is an invariant violation and returns ErrPlayerExists.
func (c *Context) SpawnPlayer() (EntityID, error) {
	if c.player != 0 {
		return 0, ErrPlayerExists
	}

	id, err := c.newEntity(KindPlayer)
	if err != nil {
		return 0, err
	}
	c.Bodies[id] = &Body{
		Pos:    Vec2{c.cfg.WorldWidth / 2, c.cfg.WorldHeight / 2},
		Radius: playerRadius,
		Mass:   playerMass,
	}
	c.Healths[id] = &Health{Current: playerMaxHealth, Max: playerMaxHealth}
	// Backdated so the first contact is never gated.
	c.Cooldowns[id] = &DamageCooldown{Interval: playerDamageCooldown, Last: -playerDamageCooldown}
	c.player = id
	c.progression = Progression{Level: 1}
	c.autoAttack = AutoAttack{Damage: autoAttackDamage, Rate: autoAttackRate}

	c.AddWeapon(NewMagickCircle())
	return id, nil
}

// SpawnEnemy creates an enemy at the given position.
func (c *Context) SpawnEnemy(pos Vec2) (EntityID, error) {
	id, err := c.newEntity(KindEnemy)
	if err != nil {
		return 0, err
	}
	c.Bodies[id] = &Body{Pos: pos, Radius: enemyRadius, Mass: enemyMass}
	c.Healths[id] = &Health{Current: enemyMaxHealth, Max: enemyMaxHealth}
	c.Enemies[id] = &Enemy{
		Speed:           enemySpeed,
		ExperienceValue: enemyExperienceValue,
		SlowFactor:      1.0,
	}
	return id, nil
}

// SpawnProjectile creates a projectile travelling in dir from pos.
func (c *Context) SpawnProjectile(pos, dir Vec2, damage float64, pierce int) (EntityID, error) {
	if len(c.Projectiles) >= c.limits.MaxProjectiles {
		return 0, ErrBodyLimit
	}
	id, err := c.newEntity(KindProjectile)
	if err != nil {
		return 0, err
	}
	c.Bodies[id] = &Body{Pos: pos, Radius: projectileRadius, Mass: projectileMass}
	c.Projectiles[id] = &ProjectileStats{
		Damage:            damage,
		PierceRemaining:   pierce,
		RetriggerCooldown: projectileRetriggerCooldown,
		LastHit:           -projectileRetriggerCooldown, // first hit is never gated
		Dir:               dir.Normalize(),
		Speed:             projectileSpeed,
	}
	c.Lifetimes[id] = &Lifetime{Remaining: projectileLifetime}
	return id, nil
}

// SpawnPickup creates an experience orb at the given position.
func (c *Context) SpawnPickup(pos Vec2, value int) (EntityID, error) {
	id, err := c.newEntity(KindPickup)
	if err != nil {
		return 0, err
	}
	c.Bodies[id] = &Body{Pos: pos, Radius: orbRadius, Mass: 0}
	c.Pickups[id] = &Pickup{Value: value}
	return id, nil
}

// SpawnAttack creates a time-limited area-effect attack.
func (c *Context) SpawnAttack(pos Vec2, pattern PatternType, damage, radius, lifetime float64) (EntityID, error) {
	if len(c.Areas) >= c.limits.MaxAttacks {
		return 0, ErrBodyLimit
	}
	id, err := c.newEntity(KindAttack)
	if err != nil {
		return 0, err
	}
	c.Bodies[id] = &Body{Pos: pos, Radius: radius, Mass: 0}
	c.Lifetimes[id] = &Lifetime{Remaining: lifetime}
	c.Areas[id] = &AreaEffect{
		Pattern:      pattern,
		Damage:       damage,
		TickInterval: attackTickInterval,
		// Backdated so the attack's first re-scan fires on the tick it
		// spawns its scan stage, matching an attack that "just elapsed".
		LastTick: c.now - attackTickInterval,
	}
	return id, nil
}
