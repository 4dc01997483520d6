package sim

import (
	"log"
	"math"
)

// WeaponType identifies a weapon family.
type WeaponType uint8

const (
	WeaponMagickCircle WeaponType = iota
)

// String returns the display name of the weapon type.
func (t WeaponType) String() string {
	switch t {
	case WeaponMagickCircle:
		return "Magick Circle"
	default:
		return "Unknown"
	}
}

// PatternType selects the behavior of an area-effect attack.
type PatternType uint8

const (
	PatternProtection    PatternType = iota // defensive circle (not yet implemented)
	PatternBinding                          // slows enemies inside
	PatternBanishment                       // damages enemies inside
	PatternInvocation                       // pulls enemies (not yet implemented)
	PatternManifestation                    // effects over time (not yet implemented)
)

// String returns the display name of the pattern.
func (p PatternType) String() string {
	switch p {
	case PatternProtection:
		return "Protection"
	case PatternBinding:
		return "Binding"
	case PatternBanishment:
		return "Banishment"
	case PatternInvocation:
		return "Invocation"
	case PatternManifestation:
		return "Manifestation"
	default:
		return "Unknown"
	}
}

// MaxWeaponLevel is the last level with a defined progression entry;
// past it, upgrades come from the repeatable limit-break pool.
const MaxWeaponLevel = 8

// Weapon is one equipped weapon: its identity, level, base stats and the
// monotonically additive bonuses confirmed upgrades have granted.
// Bonuses are integer percentages applied at fire time and never reset
// during a run.
type Weapon struct {
	Type  WeaponType
	Level int

	BaseCooldown  float64 // seconds between firings
	CooldownBonus int     // percent; negative speeds the weapon up

	BaseDamage  float64
	DamageBonus int // percent

	BaseRadius float64
	AreaBonus  int // percent

	BaseLifetime  float64 // seconds each spawned attack persists
	DurationBonus int     // percent

	// Patterns spawns one attack each per firing: the first centered on
	// the owner, the rest evenly angularly offset.
	Patterns []PatternType

	elapsed float64 // accumulated time toward the next firing
}

// NewMagickCircle returns the starting weapon at level 1.
func NewMagickCircle() *Weapon {
	return &Weapon{
		Type:         WeaponMagickCircle,
		Level:        1,
		BaseCooldown: 3.5,
		BaseDamage:   10,
		BaseRadius:   64,
		BaseLifetime: attackLifetime,
		Patterns:     []PatternType{PatternBanishment},
	}
}

// EffectiveCooldown applies the weapon's cooldown bonus and the player's
// cooldown reduction to the base duration.
func (w *Weapon) EffectiveCooldown(stats PlayerStats) float64 {
	percent := float64(100+w.CooldownBonus) / 100.0
	return w.BaseCooldown * percent * (1.0 - stats.CooldownReduction)
}

// EffectiveDamage applies the weapon's damage bonus and the player's
// damage multiplier, floored to keep numbers inspection-friendly.
func (w *Weapon) EffectiveDamage(stats PlayerStats) float64 {
	percent := float64(100+w.DamageBonus) / 100.0
	return math.Floor(w.BaseDamage * percent * stats.DamageMultiplier)
}

// EffectiveRadius applies the weapon's area bonus and the player's area
// multiplier.
func (w *Weapon) EffectiveRadius(stats PlayerStats) float64 {
	percent := float64(100+w.AreaBonus) / 100.0
	return w.BaseRadius * percent * stats.AreaMultiplier
}

// EffectiveLifetime applies the weapon's duration bonus to the base
// attack lifetime.
func (w *Weapon) EffectiveLifetime() float64 {
	return w.BaseLifetime * float64(100+w.DurationBonus) / 100.0
}

// AutoAttack is the player's innate projectile attack: it fires at the
// nearest enemy whenever its own cooldown elapses.
type AutoAttack struct {
	Damage  float64
	Rate    float64 // attacks per second
	elapsed float64
}

// weaponStage advances weapon cooldowns and spawns attacks/projectiles.
// Spawned bodies join the world immediately but do not participate in
// this frame's already-computed collision pairs.
func (c *Context) weaponStage(dt float64) {
	player := c.player
	if player == 0 || !c.Alive(player) {
		return
	}
	ownerPos := c.Bodies[player].Pos
	stats := c.playerStats

	// Equipped weapons.
	for _, weapon := range c.weapons {
		weapon.elapsed += dt
		cooldown := weapon.EffectiveCooldown(stats)
		if weapon.elapsed < cooldown {
			continue
		}
		weapon.elapsed -= cooldown

		c.fireWeapon(weapon, ownerPos, stats)
	}

	// Innate auto attack: a projectile at the nearest enemy.
	c.autoAttack.elapsed += dt
	if c.autoAttack.Rate > 0 && c.autoAttack.elapsed >= 1.0/c.autoAttack.Rate {
		if target, ok := c.nearestEnemy(ownerPos); ok {
			c.autoAttack.elapsed = 0
			dir := c.Bodies[target].Pos.Sub(ownerPos)
			if _, err := c.SpawnProjectile(ownerPos, dir, c.autoAttack.Damage, projectilePierce); err != nil {
				log.Printf("sim: projectile spawn skipped: %v", err)
			}
		}
		// No enemy in range is an expected empty result: keep the
		// accumulated cooldown and retry next tick.
	}
}

// fireWeapon spawns one attack per owned pattern. The first is centered
// on the owner; the rest are evenly angularly offset around it.
func (c *Context) fireWeapon(weapon *Weapon, ownerPos Vec2, stats PlayerStats) {
	damage := weapon.EffectiveDamage(stats)
	radius := weapon.EffectiveRadius(stats)
	lifetime := weapon.EffectiveLifetime()

	if _, err := c.SpawnAttack(ownerPos, weapon.Patterns[0], damage, radius, lifetime); err != nil {
		log.Printf("sim: attack spawn skipped: %v", err)
		return
	}

	extra := weapon.Patterns[1:]
	if len(extra) == 0 {
		return
	}
	angleStep := 2 * math.Pi / float64(len(extra))
	offsetDistance := radius * attackOffsetFactor
	for i, pattern := range extra {
		angle := angleStep * float64(i)
		pos := ownerPos.Add(Vec2{math.Cos(angle), math.Sin(angle)}.Scale(offsetDistance))
		if _, err := c.SpawnAttack(pos, pattern, damage, radius, lifetime); err != nil {
			log.Printf("sim: attack spawn skipped: %v", err)
			return
		}
	}
}

// nearestEnemy returns the live enemy closest to pos.
func (c *Context) nearestEnemy(pos Vec2) (EntityID, bool) {
	best := EntityID(0)
	bestDist := math.MaxFloat64
	for id := range c.Enemies {
		if !c.Alive(id) {
			continue
		}
		d := c.Bodies[id].Pos.Sub(pos).Len()
		if d < bestDist {
			bestDist = d
			best = id
		}
	}
	return best, best != 0
}

// attackScanStage runs each live area effect's enemy re-scan when its
// own tick interval has elapsed, feeding hits into the damage queue.
// Re-scanning on an interval rather than every frame is a deliberate
// rate limiter distinct from per-target cooldowns: two overlapping
// attacks that each elapsed their interval produce two separate damage
// events, never one merged event.
func (c *Context) attackScanStage(queue *damageQueue) {
	for id, area := range c.Areas {
		if !c.Alive(id) {
			continue
		}
		if c.now-area.LastTick < area.TickInterval {
			continue
		}
		area.LastTick = c.now

		body := c.Bodies[id]
		for _, enemyID := range c.overlappingEnemies(body.Pos, body.Radius) {
			switch area.Pattern {
			case PatternBanishment:
				queue.enqueue(DamageRequest{Target: enemyID, Amount: area.Damage, Source: id})
			case PatternBinding:
				enemy := c.Enemies[enemyID]
				enemy.SlowFactor = bindingSlowFactor
				enemy.SlowUntil = c.now + bindingSlowDuration
			default:
				// Unhandled patterns are logged and skipped; they must
				// never abort the tick.
				log.Printf("sim: unhandled attack pattern %s, skipping", area.Pattern)
			}
		}
	}
}

// lifetimeStage expires every entity whose hard lifetime has elapsed.
// Expiry is independent of combat outcome and cooperative: checked once
// per tick, never preemptive.
func (c *Context) lifetimeStage(dt float64) {
	for id, lifetime := range c.Lifetimes {
		if !c.Alive(id) {
			continue
		}
		lifetime.Remaining -= dt
		if lifetime.Remaining <= 0 {
			c.MarkDying(id)
		}
	}
}
