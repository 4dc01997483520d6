package sim

import (
	"encoding/json"
	"math"
)

// EntityID is a stable identifier for a simulation entity.
// IDs are assigned monotonically and never reused within a run, so a
// stale ID held across frames can never alias a different entity.
type EntityID uint32

// Kind tags an entity with its combat role. Collision pairs derive their
// semantic kind from these tags, not from the detector itself.
type Kind uint8

const (
	KindNone Kind = iota
	KindPlayer
	KindEnemy
	KindProjectile
	KindAttack // time-limited area effect spawned by a weapon
	KindPickup // experience orb dropped at an enemy's death position
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindProjectile:
		return "projectile"
	case KindAttack:
		return "attack"
	case KindPickup:
		return "pickup"
	default:
		return "none"
	}
}

// MarshalJSON serializes kinds as their names so event payloads stay
// readable off-process.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses a kind name back into the enum value.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "player":
		*k = KindPlayer
	case "enemy":
		*k = KindEnemy
	case "projectile":
		*k = KindProjectile
	case "attack":
		*k = KindAttack
	case "pickup":
		*k = KindPickup
	default:
		*k = KindNone
	}
	return nil
}

// Phase is the lifecycle state of an entity. Destruction is deferred:
// entities move through PhaseDying (observed exactly once by the death
// resolver) and PhaseDespawning (swept by cleanup) before their slot is
// freed. Transitions are one-way and idempotent.
type Phase uint8

const (
	PhaseActive Phase = iota
	PhaseDying
	PhaseDespawning
)

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the vector magnitude.
func (v Vec2) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Normalize returns a unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Body is a circle-shaped collidable. Every entity that participates in
// collision detection owns exactly one.
type Body struct {
	Pos    Vec2
	Radius float64
	Mass   float64

	// Intent is the displacement this entity wants to make during the
	// current physics stage. Separation pushback accumulates into it and
	// the total is applied once at the end of the stage, so pair visit
	// order does not bias any entity's final position.
	Intent Vec2
}

// Health tracks hit points. Current is allowed to go below zero so
// overkill amounts stay inspectable; the death check fires on <= 0.
type Health struct {
	Current float64
	Max     float64
}

// DamageCooldown rate-limits incoming damage for its owner. A target
// without this component is never rate-limited.
type DamageCooldown struct {
	Last     float64 // sim-time of the last accepted hit
	Interval float64 // minimum seconds between accepted hits
}

// ProjectileStats gates a projectile's damage output. PierceRemaining
// counts how many targets the projectile may still damage; the hit that
// brings it to zero also marks the projectile dying.
type ProjectileStats struct {
	Damage            float64
	PierceRemaining   int
	RetriggerCooldown float64 // minimum seconds between this projectile's own hits
	LastHit           float64 // sim-time of this projectile's last hit

	Dir   Vec2 // unit travel direction
	Speed float64
}

// Enemy carries per-enemy combat tuning and the experience reward
// granted on death.
type Enemy struct {
	Speed           float64
	ExperienceValue int

	// SlowUntil/SlowFactor implement the Binding pattern: movement speed
	// is multiplied by SlowFactor while sim-time < SlowUntil.
	SlowUntil  float64
	SlowFactor float64
}

// Pickup is an experience orb waiting on the ground. It drifts toward
// the player inside the magnet radius and grants Value experience on
// contact.
type Pickup struct {
	Value int
}

// Lifetime is a hard expiry independent of combat outcome. When it
// reaches zero the owner is marked dying.
type Lifetime struct {
	Remaining float64 // seconds
}

// AreaEffect re-scans for overlapping enemies on its own tick interval
// (a deliberate rate limiter distinct from per-target cooldowns) and
// forwards hits into the damage pipeline.
type AreaEffect struct {
	Pattern      PatternType
	Damage       float64
	TickInterval float64 // seconds between re-scans
	LastTick     float64 // sim-time of the last re-scan
}
