package sim

import (
	"errors"
	"math"
)

var (
	ErrNoPendingUpgrade = errors.New("sim: no upgrade selection pending")
	ErrBadUpgradeChoice = errors.New("sim: upgrade choice index out of range")
)

// Progression tracks banked experience and level. Experience past the
// current threshold is retained, so a large reward can chain into a
// second level-up on the following frame.
type Progression struct {
	Current float64  // experience banked toward the next level
	Level   int
	Pending []Choice // non-empty while a selection interrupt is open
}

// experienceThreshold is the cost of leaving the given level.
func experienceThreshold(level int) float64 {
	return experienceBase * math.Pow(experienceGrowth, float64(level-1))
}

// gainExperience banks a reward. Level-ups are resolved by the
// progression stage, never here.
func (c *Context) gainExperience(amount int) {
	c.progression.Current += float64(amount)
}

// progressionStage performs at most one level-up per frame: if the bank
// covers the current threshold and no selection is already open, it
// deducts the threshold, advances the level and generates the upgrade
// menu. Returns the event for the sink, or nil.
func (c *Context) progressionStage(tick uint64) *LevelUpEvent {
	if len(c.progression.Pending) > 0 {
		return nil
	}
	threshold := experienceThreshold(c.progression.Level)
	if c.progression.Current < threshold {
		return nil
	}

	c.progression.Current -= threshold
	c.progression.Level++
	c.progression.Pending = c.generateChoices()

	return &LevelUpEvent{
		Level:   c.progression.Level,
		Choices: c.PendingChoices(),
		Tick:    tick,
	}
}

// ConfirmUpgrade applies the pending choice at index and closes the
// selection interrupt.
func (c *Context) ConfirmUpgrade(index int) error {
	if len(c.progression.Pending) == 0 {
		return ErrNoPendingUpgrade
	}
	if index < 0 || index >= len(c.progression.Pending) {
		return ErrBadUpgradeChoice
	}
	c.progression.Pending[index].Apply(c)
	c.progression.Pending = nil
	return nil
}

// PendingChoices returns the open selection in display form. Empty when
// no level-up is awaiting confirmation.
func (c *Context) PendingChoices() []ChoiceView {
	views := make([]ChoiceView, 0, len(c.progression.Pending))
	for i, choice := range c.progression.Pending {
		views = append(views, ChoiceView{
			Index:       i,
			Description: choice.Description,
			Rarity:      choice.Rarity.String(),
		})
	}
	return views
}

// Level reports the player's current level.
func (c *Context) Level() int { return c.progression.Level }

// Experience reports the banked experience and the current threshold.
func (c *Context) Experience() (current, threshold float64) {
	return c.progression.Current, experienceThreshold(c.progression.Level)
}
