package sim

// PairKind is the semantic tag of a collision pair, derived from the
// entity kind tags rather than from the detector itself.
type PairKind uint8

const (
	PairPlayerEnemy PairKind = iota
	PairProjectileEnemy
	PairEnemyEnemy
	PairAttackEnemy
)

// Pair is one overlapping/intersecting body pair found this tick.
type Pair struct {
	A, B EntityID // A is the player/projectile/attack side, B the enemy
	Kind PairKind
}

// enemySnapshot is a frozen view of enemy positions for one detection
// pass. Mid-frame spawns do not appear in it; they participate starting
// next frame.
type enemySnapshot struct {
	ids    []EntityID
	pos    []Vec2
	radius []float64
}

// snapshotEnemies copies out the live enemy set. The copy makes the
// detection pass immune to mutation while iterating.
func (c *Context) snapshotEnemies() enemySnapshot {
	snap := enemySnapshot{
		ids:    make([]EntityID, 0, len(c.Enemies)),
		pos:    make([]Vec2, 0, len(c.Enemies)),
		radius: make([]float64, 0, len(c.Enemies)),
	}
	for id := range c.Enemies {
		if !c.Alive(id) {
			continue
		}
		body := c.Bodies[id]
		snap.ids = append(snap.ids, id)
		snap.pos = append(snap.pos, body.Pos)
		snap.radius = append(snap.radius, body.Radius)
	}
	return snap
}

// rebuildGrid reindexes the broad-phase grid from the snapshot.
func (c *Context) rebuildGrid(snap enemySnapshot) {
	c.grid.Clear()
	for i, id := range snap.ids {
		c.grid.Insert(uint32(id), snap.pos[i].X, snap.pos[i].Y)
	}
}

// detectPairs finds this tick's standard overlap pairs: player↔enemy
// contact and enemy↔enemy overlap (the latter never deals damage; it
// exists to drive separation). Distance test: centers closer than the
// sum of radii.
func (c *Context) detectPairs(snap enemySnapshot) []Pair {
	var pairs []Pair

	// Player vs enemies.
	if player := c.player; player != 0 && c.Alive(player) {
		pb := c.Bodies[player]
		for i, id := range snap.ids {
			combined := pb.Radius + snap.radius[i]
			if snap.pos[i].Sub(pb.Pos).Len() <= combined {
				pairs = append(pairs, Pair{A: player, B: id, Kind: PairPlayerEnemy})
			}
		}
	}

	// Enemy vs enemy, broad phase first. Pairs are deduplicated by only
	// reporting a < b.
	for i, a := range snap.ids {
		for _, raw := range c.grid.Query(snap.pos[i].X, snap.pos[i].Y, snap.radius[i]+enemyRadius+minSeparation) {
			b := EntityID(raw)
			if b <= a {
				continue
			}
			j := snapIndex(snap, b)
			if j < 0 {
				continue
			}
			combined := snap.radius[i] + snap.radius[j]
			if snap.pos[j].Sub(snap.pos[i]).Len() <= combined {
				pairs = append(pairs, Pair{A: a, B: b, Kind: PairEnemyEnemy})
			}
		}
	}

	return pairs
}

// snapIndex finds an entity's index in the snapshot. Linear scan;
// snapshots hold tens of entries.
func snapIndex(snap enemySnapshot, id EntityID) int {
	for i, candidate := range snap.ids {
		if candidate == id {
			return i
		}
	}
	return -1
}

// sweepProjectiles advances every live projectile through its motion for
// the tick in fixed substeps, reporting at most one hit per projectile.
// At each substep both a point-in-circle test at the substep position
// and a closest-point-on-segment test against the swept path run, so a
// projectile moving farther than its own diameter in one tick cannot
// tunnel through a thin target.
//
// When several targets could be hit in one substep the first found wins;
// this nondeterminism is accepted by design.
func (c *Context) sweepProjectiles(dt float64, snap enemySnapshot) []Pair {
	var pairs []Pair

	for id, proj := range c.Projectiles {
		if !c.Alive(id) {
			continue
		}
		body := c.Bodies[id]
		stepVel := proj.Dir.Scale(proj.Speed * dt / collisionSubsteps)

		hit := EntityID(0)
		pos := body.Pos
		for step := 0; step < collisionSubsteps && hit == 0; step++ {
			next := pos.Add(stepVel)

			for i, enemyID := range snap.ids {
				if !c.Alive(enemyID) {
					continue
				}
				combined := body.Radius + snap.radius[i]

				// Point test at the substep position.
				if snap.pos[i].Sub(pos).Len() <= combined {
					hit = enemyID
					break
				}

				// Segment test against the swept path.
				closest := closestPointOnSegment(pos, next, snap.pos[i])
				if snap.pos[i].Sub(closest).Len() <= combined {
					hit = enemyID
					break
				}
			}

			pos = next
		}

		// The projectile always completes its motion for the tick; a hit
		// only stops the remaining substep tests.
		body.Pos = body.Pos.Add(proj.Dir.Scale(proj.Speed * dt))

		if hit != 0 {
			pairs = append(pairs, Pair{A: id, B: hit, Kind: PairProjectileEnemy})
		} else if c.outOfBounds(body.Pos, body.Radius) {
			c.MarkDying(id)
		}
	}

	return pairs
}

// overlappingEnemies returns the live enemies intersecting the circle at
// pos. Used by area-effect re-scans.
func (c *Context) overlappingEnemies(pos Vec2, radius float64) []EntityID {
	var out []EntityID
	for id := range c.Enemies {
		if !c.Alive(id) {
			continue
		}
		body := c.Bodies[id]
		if body.Pos.Sub(pos).Len() <= radius+body.Radius {
			out = append(out, id)
		}
	}
	return out
}

// closestPointOnSegment returns the point on segment [start, end]
// closest to p.
func closestPointOnSegment(start, end, p Vec2) Vec2 {
	line := end.Sub(start)
	length := line.Len()
	if length == 0 {
		return start
	}
	t := p.Sub(start).Dot(line) / (length * length)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return start.Add(line.Scale(t))
}

// outOfBounds reports whether a body has left the arena with margin.
func (c *Context) outOfBounds(pos Vec2, radius float64) bool {
	const margin = 50.0
	return pos.X < -margin-radius || pos.X > c.cfg.WorldWidth+margin+radius ||
		pos.Y < -margin-radius || pos.Y > c.cfg.WorldHeight+margin+radius
}
