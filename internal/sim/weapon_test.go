package sim

import (
	"math"
	"testing"
)

// TestEffectiveStats verifies the bonus/multiplier formulas.
func TestEffectiveStats(t *testing.T) {
	w := NewMagickCircle()
	w.DamageBonus = 20
	w.CooldownBonus = -10
	w.AreaBonus = 50
	w.DurationBonus = 2

	stats := DefaultPlayerStats()
	stats.DamageMultiplier = 2.0
	stats.AreaMultiplier = 1.5
	stats.CooldownReduction = 0.2

	if got, want := w.EffectiveDamage(stats), math.Floor(10*1.2*2.0); got != want {
		t.Errorf("EffectiveDamage = %g, want %g", got, want)
	}
	if got, want := w.EffectiveCooldown(stats), 3.5*0.9*0.8; math.Abs(got-want) > 1e-9 {
		t.Errorf("EffectiveCooldown = %g, want %g", got, want)
	}
	if got, want := w.EffectiveRadius(stats), 64*1.5*1.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("EffectiveRadius = %g, want %g", got, want)
	}
	if got, want := w.EffectiveLifetime(), 3.0*1.02; math.Abs(got-want) > 1e-9 {
		t.Errorf("EffectiveLifetime = %g, want %g", got, want)
	}
}

// TestEffectiveDamageFloored verifies fractional effective damage is
// floored, not rounded.
func TestEffectiveDamageFloored(t *testing.T) {
	w := NewMagickCircle()
	w.DamageBonus = 15 // 10 * 1.15 = 11.5

	if got := w.EffectiveDamage(DefaultPlayerStats()); got != 11 {
		t.Errorf("EffectiveDamage = %g, want 11", got)
	}
}

// TestWeaponFiresAfterCooldown verifies the scheduler spawns one attack
// per owned pattern when the effective cooldown elapses, and none
// before.
func TestWeaponFiresAfterCooldown(t *testing.T) {
	c := newTestContext(t)
	c.SpawnPlayer()
	weapon := c.Weapons()[0]

	c.weaponStage(weapon.EffectiveCooldown(c.PlayerStats()) / 2)
	if got := len(c.Areas); got != 0 {
		t.Fatalf("weapon fired early: %d attacks", got)
	}

	c.weaponStage(weapon.EffectiveCooldown(c.PlayerStats()))
	if got := len(c.Areas); got != len(weapon.Patterns) {
		t.Errorf("spawned %d attacks, want %d (one per pattern)", got, len(weapon.Patterns))
	}
}

// TestExtraCirclesOffset verifies additional patterns spawn away from
// the owner at the configured offset distance.
func TestExtraCirclesOffset(t *testing.T) {
	c := newTestContext(t)
	player, _ := c.SpawnPlayer()
	weapon := c.Weapons()[0]
	weapon.Patterns = append(weapon.Patterns, PatternBanishment, PatternBinding)

	ownerPos := c.Bodies[player].Pos
	c.fireWeapon(weapon, ownerPos, c.PlayerStats())

	radius := weapon.EffectiveRadius(c.PlayerStats())
	centered, offset := 0, 0
	for id := range c.Areas {
		d := c.Bodies[id].Pos.Sub(ownerPos).Len()
		switch {
		case d < 1e-9:
			centered++
		case math.Abs(d-radius*attackOffsetFactor) < 1e-6:
			offset++
		default:
			t.Errorf("attack at unexpected distance %g", d)
		}
	}
	if centered != 1 || offset != 2 {
		t.Errorf("centered=%d offset=%d, want 1 and 2", centered, offset)
	}
}

// TestBindingSlowsEnemy verifies the binding pattern applies a timed
// slow instead of damage.
func TestBindingSlowsEnemy(t *testing.T) {
	c := newTestContext(t)
	enemy, _ := c.SpawnEnemy(Vec2{X: 200, Y: 200})
	c.SpawnAttack(Vec2{X: 200, Y: 200}, PatternBinding, 10, 64, attackLifetime)

	queue := &damageQueue{}
	c.attackScanStage(queue)

	if len(queue.pending) != 0 {
		t.Errorf("binding enqueued %d damage requests, want 0", len(queue.pending))
	}
	e := c.Enemies[enemy]
	if e.SlowFactor != bindingSlowFactor {
		t.Errorf("slow factor = %g, want %g", e.SlowFactor, bindingSlowFactor)
	}
	if e.SlowUntil <= c.Now() {
		t.Error("slow expiry not in the future")
	}
}

// TestUnhandledPatternSkipped verifies an unknown pattern is skipped
// without panicking or damaging.
func TestUnhandledPatternSkipped(t *testing.T) {
	c := newTestContext(t)
	enemy, _ := c.SpawnEnemy(Vec2{X: 200, Y: 200})
	c.SpawnAttack(Vec2{X: 200, Y: 200}, PatternManifestation, 10, 64, attackLifetime)

	queue := &damageQueue{}
	c.attackScanStage(queue)

	if len(queue.pending) != 0 {
		t.Errorf("unhandled pattern enqueued %d requests", len(queue.pending))
	}
	if got := c.Healths[enemy].Current; got != enemyMaxHealth {
		t.Errorf("enemy health = %g, want untouched", got)
	}
}

// TestAttackScanInterval verifies an attack re-scans on its own tick
// interval, not every frame.
func TestAttackScanInterval(t *testing.T) {
	c := newTestContext(t)
	c.SpawnEnemy(Vec2{X: 200, Y: 200})
	c.SpawnAttack(Vec2{X: 200, Y: 200}, PatternBanishment, 10, 64, attackLifetime)

	queue := &damageQueue{}
	c.attackScanStage(queue) // backdated: first scan fires immediately
	if len(queue.pending) != 1 {
		t.Fatalf("first scan enqueued %d requests, want 1", len(queue.pending))
	}

	c.advance(attackTickInterval / 2)
	c.attackScanStage(queue)
	if len(queue.pending) != 1 {
		t.Errorf("scan inside interval enqueued, total %d", len(queue.pending))
	}

	c.advance(attackTickInterval)
	c.attackScanStage(queue)
	if len(queue.pending) != 2 {
		t.Errorf("scan past interval missing, total %d", len(queue.pending))
	}
}

// TestAutoAttackTargetsNearestEnemy verifies the innate attack fires a
// projectile toward the closest enemy once its rate allows.
func TestAutoAttackTargetsNearestEnemy(t *testing.T) {
	c := newTestContext(t)
	player, _ := c.SpawnPlayer()
	playerPos := c.Bodies[player].Pos
	near, _ := c.SpawnEnemy(Vec2{X: playerPos.X + 100, Y: playerPos.Y})
	c.SpawnEnemy(Vec2{X: playerPos.X - 400, Y: playerPos.Y})

	c.weaponStage(1.0 / autoAttackRate)

	if len(c.Projectiles) != 1 {
		t.Fatalf("auto attack spawned %d projectiles, want 1", len(c.Projectiles))
	}
	for _, stats := range c.Projectiles {
		want := c.Bodies[near].Pos.Sub(playerPos).Normalize()
		if math.Abs(stats.Dir.X-want.X) > 1e-9 || math.Abs(stats.Dir.Y-want.Y) > 1e-9 {
			t.Errorf("projectile dir %+v, want toward nearest enemy %+v", stats.Dir, want)
		}
	}
}

// TestAttackSpawnCapped verifies the attack limit returns ErrBodyLimit
// instead of degrading.
func TestAttackSpawnCapped(t *testing.T) {
	c := newTestContext(t)
	for i := 0; i < c.limits.MaxAttacks; i++ {
		if _, err := c.SpawnAttack(Vec2{X: 100, Y: 100}, PatternBanishment, 10, 64, attackLifetime); err != nil {
			t.Fatalf("spawn %d failed early: %v", i, err)
		}
	}
	if _, err := c.SpawnAttack(Vec2{X: 100, Y: 100}, PatternBanishment, 10, 64, attackLifetime); err != ErrBodyLimit {
		t.Errorf("over-cap spawn returned %v, want ErrBodyLimit", err)
	}
}
