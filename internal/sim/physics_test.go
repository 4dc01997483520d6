package sim

import "testing"

const testDt = 1.0 / 30.0

// TestSeparationIncreasesDistance verifies deeply overlapping enemies
// are pushed apart by the physics stage.
func TestSeparationIncreasesDistance(t *testing.T) {
	c := newTestContext(t)
	a, _ := c.SpawnEnemy(Vec2{X: 300, Y: 300})
	b, _ := c.SpawnEnemy(Vec2{X: 310, Y: 300})

	before := c.Bodies[b].Pos.Sub(c.Bodies[a].Pos).Len()
	c.physicsStage(testDt, Vec2{})
	after := c.Bodies[b].Pos.Sub(c.Bodies[a].Pos).Len()

	if after <= before {
		t.Errorf("distance %g -> %g, want strictly increasing", before, after)
	}
}

// TestSeparationSplitsByMass verifies the heavier body moves less. The
// player and an enemy share the same mass here, so the proxy is a light
// projectile-mass body: we fake it by lowering one enemy's mass.
func TestSeparationSplitsByMass(t *testing.T) {
	c := newTestContext(t)
	heavy, _ := c.SpawnEnemy(Vec2{X: 300, Y: 300})
	light, _ := c.SpawnEnemy(Vec2{X: 310, Y: 300})
	c.Bodies[heavy].Mass = 10
	c.Bodies[light].Mass = 1

	heavyBefore := c.Bodies[heavy].Pos
	lightBefore := c.Bodies[light].Pos
	c.physicsStage(testDt, Vec2{})

	heavyMoved := c.Bodies[heavy].Pos.Sub(heavyBefore).Len()
	lightMoved := c.Bodies[light].Pos.Sub(lightBefore).Len()
	if heavyMoved >= lightMoved {
		t.Errorf("heavy moved %g, light moved %g; want heavy < light", heavyMoved, lightMoved)
	}
}

// TestSeparationCoincidentCenters verifies two bodies at the exact same
// point still separate instead of dividing by zero.
func TestSeparationCoincidentCenters(t *testing.T) {
	c := newTestContext(t)
	a, _ := c.SpawnEnemy(Vec2{X: 300, Y: 300})
	b, _ := c.SpawnEnemy(Vec2{X: 300, Y: 300})

	c.physicsStage(testDt, Vec2{})

	if after := c.Bodies[b].Pos.Sub(c.Bodies[a].Pos).Len(); after == 0 {
		t.Error("coincident bodies did not separate")
	}
}

// TestPlayerMovementNormalized verifies diagonal input is not faster
// than axis-aligned input.
func TestPlayerMovementNormalized(t *testing.T) {
	c := newTestContext(t)
	player, _ := c.SpawnPlayer()
	start := c.Bodies[player].Pos

	c.physicsStage(testDt, Vec2{X: 1, Y: 1})

	moved := c.Bodies[player].Pos.Sub(start).Len()
	want := playerSpeed * testDt
	if diff := moved - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("diagonal move distance %g, want %g", moved, want)
	}
}

// TestPlayerClampedToArena verifies the player cannot leave the world.
func TestPlayerClampedToArena(t *testing.T) {
	c := newTestContext(t)
	player, _ := c.SpawnPlayer()
	c.Bodies[player].Pos = Vec2{X: playerRadius + 1, Y: playerRadius + 1}

	for i := 0; i < 100; i++ {
		c.physicsStage(testDt, Vec2{X: -1, Y: -1})
	}

	pos := c.Bodies[player].Pos
	if pos.X < playerRadius || pos.Y < playerRadius {
		t.Errorf("player escaped the arena at %+v", pos)
	}
}

// TestEnemiesPursuePlayer verifies a distant enemy closes on the
// player's position.
func TestEnemiesPursuePlayer(t *testing.T) {
	c := newTestContext(t)
	player, _ := c.SpawnPlayer()
	enemy, _ := c.SpawnEnemy(Vec2{X: 50, Y: 50})

	before := c.Bodies[player].Pos.Sub(c.Bodies[enemy].Pos).Len()
	c.physicsStage(testDt, Vec2{})
	after := c.Bodies[player].Pos.Sub(c.Bodies[enemy].Pos).Len()

	if after >= before {
		t.Errorf("enemy distance %g -> %g, want decreasing", before, after)
	}
}

// TestSlowedEnemyMovesSlower verifies the binding slow factor reduces
// covered distance while active.
func TestSlowedEnemyMovesSlower(t *testing.T) {
	c := newTestContext(t)
	c.SpawnPlayer()
	normal, _ := c.SpawnEnemy(Vec2{X: 50, Y: 50})
	slowed, _ := c.SpawnEnemy(Vec2{X: 1200, Y: 650})
	c.Enemies[slowed].SlowFactor = bindingSlowFactor
	c.Enemies[slowed].SlowUntil = c.Now() + bindingSlowDuration

	normalBefore := c.Bodies[normal].Pos
	slowedBefore := c.Bodies[slowed].Pos
	c.physicsStage(testDt, Vec2{})

	normalMoved := c.Bodies[normal].Pos.Sub(normalBefore).Len()
	slowedMoved := c.Bodies[slowed].Pos.Sub(slowedBefore).Len()
	if slowedMoved >= normalMoved {
		t.Errorf("slowed enemy moved %g, normal moved %g", slowedMoved, normalMoved)
	}
}
