package sim

// physicsStage resolves this tick's movement: the player's externally
// supplied intent, enemy pursuit, pairwise separation pushback, and a
// single application of the accumulated displacement per entity.
//
// Separation writes into Body.Intent rather than into positions, and the
// totals apply once at the end of the stage, so the order in which pairs
// are visited never biases any one entity's final position.
func (c *Context) physicsStage(dt float64, intent Vec2) {
	c.playerMovementIntent(dt, intent)
	c.enemyMovementIntent(dt)
	c.separationIntent(dt)
	c.applyIntents()
}

// playerMovementIntent converts the resolved input vector into this
// tick's displacement. The vector is normalized so diagonals are not
// faster.
func (c *Context) playerMovementIntent(dt float64, intent Vec2) {
	player := c.player
	if player == 0 || !c.Alive(player) {
		return
	}
	body := c.Bodies[player]
	body.Intent = intent.Normalize().Scale(playerSpeed * dt)
}

// enemyMovementIntent points every enemy at the player. Enemies already
// in contact back off slightly instead of grinding into the player body.
func (c *Context) enemyMovementIntent(dt float64) {
	player := c.player
	if player == 0 || !c.Alive(player) {
		// No player is an expected empty result; enemies idle this tick.
		for id := range c.Enemies {
			if c.Alive(id) {
				c.Bodies[id].Intent = Vec2{}
			}
		}
		return
	}
	playerBody := c.Bodies[player]

	for id, enemy := range c.Enemies {
		if !c.Alive(id) {
			continue
		}
		body := c.Bodies[id]
		toPlayer := playerBody.Pos.Sub(body.Pos)
		distance := toPlayer.Len()
		minDistance := playerBody.Radius + body.Radius + minSeparation

		var direction Vec2
		if distance > minDistance {
			direction = toPlayer.Normalize()
		} else {
			direction = toPlayer.Normalize().Scale(-0.5)
		}

		speed := enemy.Speed
		if c.now < enemy.SlowUntil {
			speed *= enemy.SlowFactor
		}
		body.Intent = direction.Scale(speed * dt)
	}
}

// separationIntent accumulates pushback for every overlapping pair of
// solid bodies (player and enemies). Push strength scales with overlap
// depth and splits by mass ratio, so heavier bodies move less.
func (c *Context) separationIntent(dt float64) {
	solids := make([]EntityID, 0, len(c.Enemies)+1)
	if c.player != 0 && c.Alive(c.player) {
		solids = append(solids, c.player)
	}
	for id := range c.Enemies {
		if c.Alive(id) {
			solids = append(solids, id)
		}
	}

	// Positions are read from a frozen copy so the accumulated pushes do
	// not feed back into later pair tests within the same stage.
	positions := make([]Vec2, len(solids))
	for i, id := range solids {
		positions[i] = c.Bodies[id].Pos
	}

	for i := 0; i < len(solids); i++ {
		bodyA := c.Bodies[solids[i]]
		for j := i + 1; j < len(solids); j++ {
			bodyB := c.Bodies[solids[j]]

			delta := positions[j].Sub(positions[i])
			distance := delta.Len()
			minDistance := bodyA.Radius + bodyB.Radius + minSeparation
			if distance >= minDistance {
				continue
			}

			var pushDir Vec2
			if distance > 0 {
				pushDir = delta.Normalize()
			} else {
				// Coincident centers: pick a random direction so the
				// pair still separates.
				pushDir = Vec2{c.rng.Float64() - 0.5, c.rng.Float64() - 0.5}.Normalize()
			}

			pushStrength := (minDistance - distance) / minDistance * pushForce * dt
			totalMass := bodyA.Mass + bodyB.Mass
			bodyA.Intent = bodyA.Intent.Add(pushDir.Scale(-pushStrength * bodyB.Mass / totalMass))
			bodyB.Intent = bodyB.Intent.Add(pushDir.Scale(pushStrength * bodyA.Mass / totalMass))
		}
	}
}

// applyIntents commits the accumulated displacement and resets it.
// Solid bodies clamp to the arena; projectiles move in the sweep pass
// and attacks do not move at all.
func (c *Context) applyIntents() {
	for id, body := range c.Bodies {
		kind := c.kinds[id]
		if kind != KindPlayer && kind != KindEnemy {
			continue
		}
		body.Pos = body.Pos.Add(body.Intent)
		body.Intent = Vec2{}

		if kind == KindPlayer {
			body.Pos = c.clampToArena(body.Pos, body.Radius)
		}
	}
}

// clampToArena keeps a body inside the world bounds.
func (c *Context) clampToArena(pos Vec2, radius float64) Vec2 {
	if pos.X < radius {
		pos.X = radius
	}
	if pos.X > c.cfg.WorldWidth-radius {
		pos.X = c.cfg.WorldWidth - radius
	}
	if pos.Y < radius {
		pos.Y = radius
	}
	if pos.Y > c.cfg.WorldHeight-radius {
		pos.Y = c.cfg.WorldHeight - radius
	}
	return pos
}
