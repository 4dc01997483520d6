package sim

// DeathEvent is emitted exactly once per entity by the death resolver,
// carrying the entity's last known position and an optional experience
// reward. The player never produces one; player death is a terminal
// game-over transition instead.
type DeathEvent struct {
	Entity    EntityID `json:"entity"`
	Kind      Kind     `json:"kind"`
	Position  Vec2     `json:"position"`
	Reward    int      `json:"reward"`
	HasReward bool     `json:"hasReward"`
	Tick      uint64   `json:"tick"`
}

// LevelUpEvent signals that the progression engine opened an
// upgrade-selection interrupt, carrying the freshly generated choices.
type LevelUpEvent struct {
	Level   int          `json:"level"`
	Choices []ChoiceView `json:"choices"`
	Tick    uint64       `json:"tick"`
}

// ChoiceView is the display form of an upgrade choice: what the
// surrounding menu shows, without exposing the live choice object.
type ChoiceView struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Rarity      string `json:"rarity"`
}

// EventSink receives life-cycle events as the engine produces them.
// Implementations must not block: callbacks run on the tick goroutine.
type EventSink interface {
	OnDeath(DeathEvent)
	OnLevelUp(LevelUpEvent)
	OnGameOver(kills int)
}

// NopSink discards all events. Useful as a default and in tests.
type NopSink struct{}

func (NopSink) OnDeath(DeathEvent)     {}
func (NopSink) OnLevelUp(LevelUpEvent) {}
func (NopSink) OnGameOver(int)         {}

// MultiSink fans events out to several sinks in order, e.g. a journal
// plus a live broadcast.
type MultiSink []EventSink

func (m MultiSink) OnDeath(event DeathEvent) {
	for _, s := range m {
		s.OnDeath(event)
	}
}

func (m MultiSink) OnLevelUp(event LevelUpEvent) {
	for _, s := range m {
		s.OnLevelUp(event)
	}
}

func (m MultiSink) OnGameOver(kills int) {
	for _, s := range m {
		s.OnGameOver(kills)
	}
}
