package sim

import (
	"testing"

	"arena-survival/internal/config"
)

// TestPickupVacuumPullsOrbsInRange verifies orbs inside the magnet
// radius drift toward the player and orbs outside it stay put.
func TestPickupVacuumPullsOrbsInRange(t *testing.T) {
	c := newTestContext(t)
	c.SpawnPlayer()
	playerPos := c.Bodies[c.Player()].Pos

	near, _ := c.SpawnPickup(playerPos.Add(Vec2{X: magnetRadius - 10}), 10)
	far, _ := c.SpawnPickup(playerPos.Add(Vec2{X: magnetRadius + 50}), 10)

	nearBefore := c.Bodies[near].Pos.Sub(playerPos).Len()
	farBefore := c.Bodies[far].Pos

	c.pickupStage(testDt)

	nearAfter := c.Bodies[near].Pos.Sub(playerPos).Len()
	if nearAfter >= nearBefore {
		t.Errorf("orb inside magnet radius did not move closer: %g -> %g", nearBefore, nearAfter)
	}
	if c.Bodies[far].Pos != farBefore {
		t.Error("orb outside magnet radius moved")
	}
}

// TestPickupVacuumAcceleratesCloser verifies the pull strengthens as
// the orb closes in.
func TestPickupVacuumAcceleratesCloser(t *testing.T) {
	c := newTestContext(t)
	c.SpawnPlayer()
	playerPos := c.Bodies[c.Player()].Pos

	inner, _ := c.SpawnPickup(playerPos.Add(Vec2{X: 30}), 10)
	outer, _ := c.SpawnPickup(playerPos.Add(Vec2{Y: 80}), 10)

	innerBefore := c.Bodies[inner].Pos.Sub(playerPos).Len()
	outerBefore := c.Bodies[outer].Pos.Sub(playerPos).Len()

	c.pickupStage(testDt)

	innerStep := innerBefore - c.Bodies[inner].Pos.Sub(playerPos).Len()
	outerStep := outerBefore - c.Bodies[outer].Pos.Sub(playerPos).Len()
	if innerStep <= outerStep {
		t.Errorf("closer orb moved %g, farther orb moved %g; want closer to move more", innerStep, outerStep)
	}
}

// TestPickupCollectedOnContact verifies a touching orb credits its
// value once and is marked dying.
func TestPickupCollectedOnContact(t *testing.T) {
	c := newTestContext(t)
	c.SpawnPlayer()
	playerPos := c.Bodies[c.Player()].Pos

	orb, _ := c.SpawnPickup(playerPos.Add(Vec2{X: 5}), 25)

	c.pickupStage(testDt)

	if current, _ := c.Experience(); current != 25 {
		t.Errorf("experience = %g, want 25", current)
	}
	if c.Alive(orb) {
		t.Error("collected orb still active")
	}

	// A second pass must not double-credit the dying orb.
	c.pickupStage(testDt)
	if current, _ := c.Experience(); current != 25 {
		t.Errorf("experience after re-scan = %g, want 25", current)
	}
}

// TestDropRewardFallsBackWhenArenaFull verifies a body-limit spike
// credits the reward directly instead of losing it.
func TestDropRewardFallsBackWhenArenaFull(t *testing.T) {
	cfg := config.DefaultSim()
	cfg.RandomSeed = 1
	limits := config.DefaultLimits()
	limits.MaxBodies = 1

	c, err := NewContext(cfg, limits)
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}
	c.SpawnPlayer()

	c.dropReward(DeathEvent{Position: Vec2{X: 50, Y: 50}, Reward: 10, HasReward: true})

	if len(c.Pickups) != 0 {
		t.Fatalf("pickup spawned past the body limit")
	}
	if current, _ := c.Experience(); current != 10 {
		t.Errorf("experience = %g, want the direct credit of 10", current)
	}
}

// TestPickupIgnoredWithoutPlayer verifies orbs sit untouched after the
// player is gone.
func TestPickupIgnoredWithoutPlayer(t *testing.T) {
	c := newTestContext(t)

	orb, _ := c.SpawnPickup(Vec2{X: 100, Y: 100}, 10)
	before := c.Bodies[orb].Pos

	c.pickupStage(testDt)

	if c.Bodies[orb].Pos != before {
		t.Error("orb moved with no player in the arena")
	}
	if !c.Alive(orb) {
		t.Error("orb collected with no player in the arena")
	}
}
