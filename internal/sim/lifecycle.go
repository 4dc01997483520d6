package sim

// resolveDeaths is the dedicated death-resolution stage. It reads every
// PhaseDying entity exactly once this frame, emits one death event per
// entity, and advances it to PhaseDespawning. Reward/UI systems observe
// the death here without racing the actual removal, which happens later
// in cleanup.
//
// The player is special-cased: exhausted health removes the player
// directly and reports game over instead of emitting a death event.
// Returns the death events and whether the player died this frame.
func (c *Context) resolveDeaths(tick uint64) ([]DeathEvent, bool) {
	// Player death ends the run; no death event, no reward.
	if player := c.player; player != 0 {
		if health, ok := c.Healths[player]; ok && health.Current <= 0 {
			c.remove(player)
			return nil, true
		}
	}

	var events []DeathEvent
	for id, phase := range c.phases {
		if phase != PhaseDying {
			continue
		}

		event := DeathEvent{
			Entity: id,
			Kind:   c.kinds[id],
			Tick:   tick,
		}
		if body, ok := c.Bodies[id]; ok {
			event.Position = body.Pos
		}
		if enemy, ok := c.Enemies[id]; ok {
			event.Reward = enemy.ExperienceValue
			event.HasReward = true
		}
		events = append(events, event)

		c.markDespawning(id)
	}

	return events, false
}

// cleanup frees every PhaseDespawning entity. After this stage the slot
// is gone: next frame's collision pass never sees the body.
func (c *Context) cleanup() {
	for id, phase := range c.phases {
		if phase == PhaseDespawning {
			c.remove(id)
		}
	}
}
