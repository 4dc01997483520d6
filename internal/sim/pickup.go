package sim

// Experience orb handling. Enemies do not credit experience on death;
// they drop an orb at their death position, and the orb grants its
// value when the player's body touches it. Orbs inside the magnet
// radius drift toward the player, faster the closer they get.

// dropReward places an orb for a death event's reward. When the arena
// is full the reward is credited directly so a body-limit spike never
// swallows experience.
func (c *Context) dropReward(event DeathEvent) {
	if _, err := c.SpawnPickup(event.Position, event.Reward); err != nil {
		c.gainExperience(event.Reward)
	}
}

// pickupStage vacuums orbs toward the player and collects the ones in
// contact. Collected orbs are marked dying and reaped by the normal
// lifecycle stages.
func (c *Context) pickupStage(dt float64) {
	player := c.player
	if player == 0 || !c.Alive(player) {
		return
	}
	playerBody := c.Bodies[player]

	for id, pickup := range c.Pickups {
		if !c.Alive(id) {
			continue
		}
		body := c.Bodies[id]
		toPlayer := playerBody.Pos.Sub(body.Pos)
		dist := toPlayer.Len()

		if dist <= playerBody.Radius+body.Radius {
			c.gainExperience(pickup.Value)
			c.MarkDying(id)
			continue
		}

		if dist >= magnetRadius {
			continue
		}

		// Pull strength ramps up as the orb closes in: quadratic
		// falloff of influence, cubic boost near the player.
		influence := 1.0 - (dist/magnetRadius)*(dist/magnetRadius)
		speed := orbVacuumSpeed * (influence*2 + influence*influence*influence)

		step := speed * dt
		if step > dist {
			step = dist
		}
		body.Pos = body.Pos.Add(toPlayer.Normalize().Scale(step))
	}
}
