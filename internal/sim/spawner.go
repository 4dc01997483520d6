package sim

import (
	"log"
	"math"
)

// spawnStage feeds the arena on a repeating timer: one enemy per
// elapsed interval, capped at the configured population. Spawns land on
// the arena rim so they never pop into existence on top of the player.
func (c *Context) spawnStage(dt float64) {
	c.spawnElapsed += dt
	if c.spawnElapsed < c.cfg.SpawnInterval {
		return
	}
	c.spawnElapsed -= c.cfg.SpawnInterval

	if c.liveEnemyCount() >= c.cfg.MaxEnemies {
		return
	}
	if _, err := c.SpawnEnemy(c.rimSpawnPosition()); err != nil {
		log.Printf("sim: enemy spawn skipped: %v", err)
	}
}

func (c *Context) liveEnemyCount() int {
	count := 0
	for id := range c.Enemies {
		if c.Alive(id) {
			count++
		}
	}
	return count
}

// rimSpawnPosition picks a uniformly random point along the arena
// perimeter, inset by the enemy radius so the body starts in bounds.
func (c *Context) rimSpawnPosition() Vec2 {
	w := c.cfg.WorldWidth - 2*enemyRadius
	h := c.cfg.WorldHeight - 2*enemyRadius
	perimeter := 2 * (w + h)
	d := c.rng.Float64() * perimeter

	var x, y float64
	switch {
	case d < w: // top edge
		x, y = d, 0
	case d < w+h: // right edge
		x, y = w, d-w
	case d < 2*w+h: // bottom edge
		x, y = d-w-h, h
	default: // left edge
		x, y = 0, d-2*w-h
	}
	return Vec2{X: enemyRadius + x, Y: enemyRadius + math.Min(y, h)}
}
