package sim

import (
	"testing"

	"arena-survival/internal/config"
)

// newTestContext builds a deterministic empty world for tests.
func newTestContext(t *testing.T) *Context {
	t.Helper()
	cfg := config.DefaultSim()
	cfg.RandomSeed = 1
	c, err := NewContext(cfg, config.DefaultLimits())
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}
	return c
}

// TestProjectilePierceConsumed verifies the canonical pierce scenario:
// a pierce-1 projectile dealing 25 damage hits a 20-health enemy. The
// enemy dies, the projectile is marked dying on the same hit, and the
// overkill amount stays inspectable.
func TestProjectilePierceConsumed(t *testing.T) {
	c := newTestContext(t)

	enemy, err := c.SpawnEnemy(Vec2{X: 100, Y: 100})
	if err != nil {
		t.Fatalf("SpawnEnemy failed: %v", err)
	}
	c.Healths[enemy].Current = 20

	proj, err := c.SpawnProjectile(Vec2{X: 100, Y: 100}, Vec2{X: 1}, 25, 1)
	if err != nil {
		t.Fatalf("SpawnProjectile failed: %v", err)
	}

	queue := &damageQueue{}
	c.convertPairs([]Pair{{A: proj, B: enemy, Kind: PairProjectileEnemy}}, queue)
	c.resolveDamage(queue)

	if c.Alive(proj) {
		t.Error("projectile should be marked dying when pierce reaches zero")
	}
	if c.Alive(enemy) {
		t.Error("enemy should be marked dying at 20-25 health")
	}
	if got := c.Healths[enemy].Current; got != -5 {
		t.Errorf("expected health -5 (overkill inspectable), got %g", got)
	}
}

// TestProjectileConsumedDealsNoDamage verifies that a projectile whose
// pierce is already spent finishes on its next hit without damaging.
func TestProjectileConsumedDealsNoDamage(t *testing.T) {
	c := newTestContext(t)

	enemy, _ := c.SpawnEnemy(Vec2{X: 100, Y: 100})
	proj, _ := c.SpawnProjectile(Vec2{X: 100, Y: 100}, Vec2{X: 1}, 25, 1)
	c.Projectiles[proj].PierceRemaining = 0

	queue := &damageQueue{}
	c.convertPairs([]Pair{{A: proj, B: enemy, Kind: PairProjectileEnemy}}, queue)

	if len(queue.pending) != 0 {
		t.Errorf("consumed projectile enqueued %d damage requests, want 0", len(queue.pending))
	}
	if c.Alive(proj) {
		t.Error("consumed projectile should be marked dying on its next hit")
	}
	if got := c.Healths[enemy].Current; got != enemyMaxHealth {
		t.Errorf("enemy health changed to %g, want untouched %g", got, float64(enemyMaxHealth))
	}
}

// TestProjectileRetriggerCooldown verifies a projectile cannot hit twice
// inside its own re-trigger window.
func TestProjectileRetriggerCooldown(t *testing.T) {
	c := newTestContext(t)

	enemy, _ := c.SpawnEnemy(Vec2{X: 100, Y: 100})
	proj, _ := c.SpawnProjectile(Vec2{X: 100, Y: 100}, Vec2{X: 1}, 5, 3)
	pair := []Pair{{A: proj, B: enemy, Kind: PairProjectileEnemy}}

	queue := &damageQueue{}
	c.convertPairs(pair, queue)
	if len(queue.pending) != 1 {
		t.Fatalf("first hit enqueued %d requests, want 1", len(queue.pending))
	}

	// Within the window: ignored, pierce untouched.
	c.advance(projectileRetriggerCooldown / 2)
	c.convertPairs(pair, queue)
	if len(queue.pending) != 1 {
		t.Errorf("hit inside re-trigger window enqueued, total %d requests", len(queue.pending))
	}
	if got := c.Projectiles[proj].PierceRemaining; got != 2 {
		t.Errorf("pierce = %d after gated hit, want 2", got)
	}

	// Past the window: accepted.
	c.advance(projectileRetriggerCooldown)
	c.convertPairs(pair, queue)
	if len(queue.pending) != 2 {
		t.Errorf("hit past re-trigger window not accepted, total %d requests", len(queue.pending))
	}
}

// TestPierceNeverIncreases verifies pierce decrements monotonically
// across accepted hits.
func TestPierceNeverIncreases(t *testing.T) {
	c := newTestContext(t)

	enemy, _ := c.SpawnEnemy(Vec2{X: 100, Y: 100})
	proj, _ := c.SpawnProjectile(Vec2{X: 100, Y: 100}, Vec2{X: 1}, 5, 3)
	pair := []Pair{{A: proj, B: enemy, Kind: PairProjectileEnemy}}

	last := c.Projectiles[proj].PierceRemaining
	for i := 0; i < 5; i++ {
		queue := &damageQueue{}
		c.convertPairs(pair, queue)
		c.resolveDamage(queue)
		got := 0
		if stats, ok := c.Projectiles[proj]; ok {
			got = stats.PierceRemaining
		}
		if got > last {
			t.Fatalf("pierce increased from %d to %d", last, got)
		}
		last = got
		c.advance(projectileRetriggerCooldown * 2)
	}
}

// TestPlayerContactCooldown verifies enemy contact damage is flat and
// gated by the player's damage cooldown: hits inside the window are
// dropped silently, not queued.
func TestPlayerContactCooldown(t *testing.T) {
	c := newTestContext(t)

	player, err := c.SpawnPlayer()
	if err != nil {
		t.Fatalf("SpawnPlayer failed: %v", err)
	}
	enemy, _ := c.SpawnEnemy(Vec2{X: 100, Y: 100})
	pair := []Pair{{A: player, B: enemy, Kind: PairPlayerEnemy}}

	apply := func() {
		queue := &damageQueue{}
		c.convertPairs(pair, queue)
		c.resolveDamage(queue)
	}

	// First contact lands even at t=0.
	apply()
	if got := c.Healths[player].Current; got != playerMaxHealth-enemyContactDamage {
		t.Fatalf("health after first contact = %g, want %g", got, playerMaxHealth-enemyContactDamage)
	}

	// Inside the window: dropped.
	c.advance(playerDamageCooldown / 2)
	apply()
	if got := c.Healths[player].Current; got != playerMaxHealth-enemyContactDamage {
		t.Errorf("gated contact changed health to %g", got)
	}

	// Past the window: lands again.
	c.advance(playerDamageCooldown)
	apply()
	if got := c.Healths[player].Current; got != playerMaxHealth-2*enemyContactDamage {
		t.Errorf("health after second accepted contact = %g, want %g",
			got, playerMaxHealth-2*enemyContactDamage)
	}
}

// TestEnemyEnemyPairsDealNoDamage verifies enemy overlap never reaches
// the damage queue.
func TestEnemyEnemyPairsDealNoDamage(t *testing.T) {
	c := newTestContext(t)

	a, _ := c.SpawnEnemy(Vec2{X: 100, Y: 100})
	b, _ := c.SpawnEnemy(Vec2{X: 105, Y: 100})

	queue := &damageQueue{}
	c.convertPairs([]Pair{{A: a, B: b, Kind: PairEnemyEnemy}}, queue)
	if len(queue.pending) != 0 {
		t.Errorf("enemy-enemy pair enqueued %d damage requests", len(queue.pending))
	}
}

// TestOverlappingAttacksStackDamage verifies two area attacks covering
// the same enemy each produce their own damage event in one scan.
func TestOverlappingAttacksStackDamage(t *testing.T) {
	c := newTestContext(t)

	enemy, _ := c.SpawnEnemy(Vec2{X: 200, Y: 200})
	for i := 0; i < 2; i++ {
		if _, err := c.SpawnAttack(Vec2{X: 200, Y: 200}, PatternBanishment, 10, 64, attackLifetime); err != nil {
			t.Fatalf("SpawnAttack failed: %v", err)
		}
	}

	queue := &damageQueue{}
	c.attackScanStage(queue)
	if len(queue.pending) != 2 {
		t.Fatalf("overlapping attacks enqueued %d requests, want 2", len(queue.pending))
	}

	c.resolveDamage(queue)
	if got := c.Healths[enemy].Current; got != enemyMaxHealth-20 {
		t.Errorf("enemy health = %g, want %g", got, float64(enemyMaxHealth-20))
	}
}

// TestDamageQueueDrainedOnce verifies resolving twice does not
// double-apply a request.
func TestDamageQueueDrainedOnce(t *testing.T) {
	c := newTestContext(t)
	enemy, _ := c.SpawnEnemy(Vec2{X: 100, Y: 100})

	queue := &damageQueue{}
	queue.enqueue(DamageRequest{Target: enemy, Amount: 10})
	c.resolveDamage(queue)
	c.resolveDamage(queue)

	if got := c.Healths[enemy].Current; got != enemyMaxHealth-10 {
		t.Errorf("enemy health = %g after double resolve, want %g", got, float64(enemyMaxHealth-10))
	}
}
