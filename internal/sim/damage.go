package sim

// DamageRequest is one pending health mutation. Requests queue during
// the frame and the resolver drains the queue exactly once, so no hit is
// lost or double-applied regardless of which stage produced it.
type DamageRequest struct {
	Target EntityID
	Amount float64
	Source EntityID // 0 when the source is ambient (enemy contact)
}

// damageQueue is the frame-local message queue for the damage pipeline.
// Order within the queue carries no meaning.
type damageQueue struct {
	pending []DamageRequest
}

// enqueue appends a damage request for the next drain.
func (q *damageQueue) enqueue(req DamageRequest) {
	q.pending = append(q.pending, req)
}

// drain returns the pending requests and empties the queue.
func (q *damageQueue) drain() []DamageRequest {
	out := q.pending
	q.pending = nil
	return out
}

// convertPairs turns this tick's collision pairs into damage requests.
//
//   - player↔enemy: flat contact damage aimed at the player; the
//     player's DamageCooldown gates how often it lands.
//   - projectile↔enemy: gated by the projectile's own re-trigger
//     cooldown (distinct from any target cooldown); a valid hit
//     decrements pierce, and the hit that reaches zero also marks the
//     projectile dying, never before and never retroactively.
//   - enemy↔enemy: no damage ever; those pairs only drive separation.
func (c *Context) convertPairs(pairs []Pair, queue *damageQueue) {
	for _, pair := range pairs {
		switch pair.Kind {
		case PairPlayerEnemy:
			queue.enqueue(DamageRequest{Target: pair.A, Amount: enemyContactDamage, Source: pair.B})

		case PairProjectileEnemy:
			proj, ok := c.Projectiles[pair.A]
			if !ok || !c.Alive(pair.A) {
				continue
			}
			if proj.PierceRemaining <= 0 {
				// Already consumed: the next hit finishes the projectile
				// without dealing damage.
				c.MarkDying(pair.A)
				continue
			}
			if c.now-proj.LastHit < proj.RetriggerCooldown {
				continue
			}
			proj.LastHit = c.now
			proj.PierceRemaining--
			queue.enqueue(DamageRequest{Target: pair.B, Amount: proj.Damage, Source: pair.A})
			if proj.PierceRemaining == 0 {
				c.MarkDying(pair.A)
			}

		case PairEnemyEnemy:
			// Separation only.

		case PairAttackEnemy:
			// Attack pairs arrive as pre-formed requests from the area
			// scan; nothing to convert here.
		}
	}
}

// resolveDamage drains the queue and mutates health exactly once per
// valid hit. A target cooling down drops the hit silently, no queueing
// or retry; the next tick naturally re-attempts. Health is not
// clamped before the death check so overkill stays inspectable.
func (c *Context) resolveDamage(queue *damageQueue) {
	for _, req := range queue.drain() {
		if !c.Alive(req.Target) {
			continue
		}

		if cd, ok := c.Cooldowns[req.Target]; ok {
			if c.now-cd.Last < cd.Interval {
				continue
			}
			cd.Last = c.now
		}

		health, ok := c.Healths[req.Target]
		if !ok {
			continue
		}
		health.Current -= req.Amount

		if health.Current <= 0 {
			c.MarkDying(req.Target)
		}
	}
}
