package sim

// Balance parameters for the combat core. These are authoritative for the
// simulation; the shell never overrides them per-request.
const (
	// Bodies (world units)
	playerRadius     = 12.0
	enemyRadius      = 14.0
	projectileRadius = 8.0

	playerMass     = 1.0
	enemyMass      = 1.0
	projectileMass = 0.1

	// Health
	playerMaxHealth = 100.0
	enemyMaxHealth  = 50.0

	// Movement (units/second)
	playerSpeed = 150.0
	enemySpeed  = 100.0

	// Enemy contact damage: a flat amount per accepted contact, gated by
	// the player's damage cooldown: flat 10 every 0.25s, at most 40/s
	// under sustained contact.
	enemyContactDamage   = 10.0
	playerDamageCooldown = 0.25

	// Rewards
	enemyExperienceValue = 10

	// Auto attack (projectiles at the nearest enemy)
	autoAttackDamage = 25.0
	autoAttackRate   = 1.0 // attacks per second

	// Projectiles
	projectileSpeed             = 300.0 // units/second
	projectilePierce            = 1
	projectileRetriggerCooldown = 0.1 // seconds between one projectile's hits
	projectileLifetime          = 3.0 // seconds before a miss expires

	// Continuous collision detection
	collisionSubsteps = 4

	// Separation/pushback
	pushForce     = 150.0 // units/second of corrective push at full overlap
	minSeparation = 2.0   // extra clearance maintained between bodies

	// Area-effect attacks
	attackLifetime     = 3.0 // seconds before hard expiry
	attackTickInterval = 0.5 // seconds between enemy re-scans
	attackOffsetFactor = 1.5 // extra circles spawn at radius*factor from owner

	// Binding pattern
	bindingSlowFactor   = 0.4 // enemy speed multiplier while bound
	bindingSlowDuration = 1.0 // seconds

	// Spatial grid broad phase. Cell size covers the largest standard
	// query radius (attack radius twice over).
	gridCellSize = 128.0

	// Progression. Threshold for level N is base * growth^(N-1); overflow
	// experience banks toward the next level.
	experienceBase   = 100.0
	experienceGrowth = 1.25

	// Each point of luck adds a 2% chance of a fourth upgrade choice.
	luckChoiceFactor = 0.02

	// Generic upgrades
	healPickupAmount  = 20.0
	shardPickupAmount = 100

	// Experience orbs. Orbs drift toward the player inside the magnet
	// radius, accelerating as they close in, and are collected on body
	// contact.
	orbRadius      = 4.0
	orbVacuumSpeed = 200.0 // base drift speed in units/second
	magnetRadius   = 100.0 // pull range around the player
)
