package sim

// Snapshot is a point-in-time copy of the visible world, safe to hold
// and serialize after the engine has moved on. The shell never touches
// live component maps.
type Snapshot struct {
	Tick    uint64  `json:"tick"`
	Elapsed float64 `json:"elapsed"`
	State   string  `json:"state"`

	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`

	Level          int     `json:"level"`
	Experience     float64 `json:"experience"`
	ExperienceGoal float64 `json:"experienceGoal"`
	Kills          int     `json:"kills"`
	Shards         int     `json:"shards"`

	Player      *PlayerView      `json:"player,omitempty"`
	Enemies     []EnemyView      `json:"enemies"`
	Projectiles []ProjectileView `json:"projectiles"`
	Attacks     []AttackView     `json:"attacks"`
	Pickups     []PickupView     `json:"pickups,omitempty"`

	PendingUpgrades []ChoiceView `json:"pendingUpgrades,omitempty"`
}

// PlayerView is the player's visible state.
type PlayerView struct {
	ID        EntityID `json:"id"`
	Pos       Vec2     `json:"pos"`
	Radius    float64  `json:"radius"`
	Health    float64  `json:"health"`
	MaxHealth float64  `json:"maxHealth"`
}

// EnemyView is one enemy's visible state.
type EnemyView struct {
	ID        EntityID `json:"id"`
	Pos       Vec2     `json:"pos"`
	Radius    float64  `json:"radius"`
	Health    float64  `json:"health"`
	MaxHealth float64  `json:"maxHealth"`
	Slowed    bool     `json:"slowed"`
}

// ProjectileView is one projectile's visible state.
type ProjectileView struct {
	ID     EntityID `json:"id"`
	Pos    Vec2     `json:"pos"`
	Radius float64  `json:"radius"`
	Dir    Vec2     `json:"dir"`
}

// PickupView is one experience orb's visible state.
type PickupView struct {
	ID     EntityID `json:"id"`
	Pos    Vec2     `json:"pos"`
	Radius float64  `json:"radius"`
	Value  int      `json:"value"`
}

// AttackView is one area effect's visible state.
type AttackView struct {
	ID      EntityID `json:"id"`
	Pos     Vec2     `json:"pos"`
	Radius  float64  `json:"radius"`
	Pattern string   `json:"pattern"`
}

// Snapshot copies the visible world under the engine lock. Dying and
// despawning entities are already invisible here: the shell only ever
// sees active bodies.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	world := e.ctx
	current, goal := world.Experience()
	snap := Snapshot{
		Tick:           e.tick,
		Elapsed:        e.elapsed,
		State:          e.state.String(),
		WorldWidth:     e.cfg.WorldWidth,
		WorldHeight:    e.cfg.WorldHeight,
		Level:          world.Level(),
		Experience:     current,
		ExperienceGoal: goal,
		Kills:          e.kills,
		Shards:         world.Shards(),
		Enemies:        make([]EnemyView, 0, len(world.Enemies)),
		Projectiles:    make([]ProjectileView, 0, len(world.Projectiles)),
		Attacks:        make([]AttackView, 0, len(world.Areas)),
	}

	if player := world.Player(); player != 0 && world.Alive(player) {
		body := world.Bodies[player]
		health := world.Healths[player]
		snap.Player = &PlayerView{
			ID:        player,
			Pos:       body.Pos,
			Radius:    body.Radius,
			Health:    health.Current,
			MaxHealth: health.Max,
		}
	}

	for id, enemy := range world.Enemies {
		if !world.Alive(id) {
			continue
		}
		body := world.Bodies[id]
		health := world.Healths[id]
		snap.Enemies = append(snap.Enemies, EnemyView{
			ID:        id,
			Pos:       body.Pos,
			Radius:    body.Radius,
			Health:    health.Current,
			MaxHealth: health.Max,
			Slowed:    world.Now() < enemy.SlowUntil,
		})
	}

	for id, stats := range world.Projectiles {
		if !world.Alive(id) {
			continue
		}
		body := world.Bodies[id]
		snap.Projectiles = append(snap.Projectiles, ProjectileView{
			ID:     id,
			Pos:    body.Pos,
			Radius: body.Radius,
			Dir:    stats.Dir,
		})
	}

	for id, area := range world.Areas {
		if !world.Alive(id) {
			continue
		}
		body := world.Bodies[id]
		snap.Attacks = append(snap.Attacks, AttackView{
			ID:      id,
			Pos:     body.Pos,
			Radius:  body.Radius,
			Pattern: area.Pattern.String(),
		})
	}

	for id, pickup := range world.Pickups {
		if !world.Alive(id) {
			continue
		}
		body := world.Bodies[id]
		snap.Pickups = append(snap.Pickups, PickupView{
			ID:     id,
			Pos:    body.Pos,
			Radius: body.Radius,
			Value:  pickup.Value,
		})
	}

	if pending := world.PendingChoices(); len(pending) > 0 {
		snap.PendingUpgrades = pending
	}
	return snap
}
