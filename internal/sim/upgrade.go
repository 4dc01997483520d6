package sim

import (
	"fmt"
	"log"
	"strings"
)

// Rarity ranks an upgrade choice for display purposes.
type Rarity uint8

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

// String returns the display name of the rarity.
func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityUncommon:
		return "Uncommon"
	case RarityRare:
		return "Rare"
	case RarityEpic:
		return "Epic"
	case RarityLegendary:
		return "Legendary"
	default:
		return "Unknown"
	}
}

// effectKind is one primitive change a confirmed upgrade makes.
type effectKind uint8

const (
	effectDamage     effectKind = iota // percent added to the weapon's damage bonus
	effectArea                         // percent added to the weapon's area bonus
	effectCooldown                     // percent added to the weapon's cooldown bonus (negative = faster)
	effectDuration                     // percent added to the weapon's duration bonus
	effectAddPattern                   // grants the weapon one more pattern circle
	effectHeal                         // restores player health, clamped to maximum
	effectShards                       // grants run-currency shards
)

type upgradeEffect struct {
	Kind    effectKind
	Amount  int
	Pattern PatternType
}

func (e upgradeEffect) describe() string {
	switch e.Kind {
	case effectDamage:
		return fmt.Sprintf("increase damage by %d%%", e.Amount)
	case effectArea:
		return fmt.Sprintf("increase area by %d%%", e.Amount)
	case effectCooldown:
		return fmt.Sprintf("decrease cooldown by %d%%", -e.Amount)
	case effectDuration:
		return fmt.Sprintf("increase duration by %d%%", e.Amount)
	case effectAddPattern:
		return fmt.Sprintf("add a %s circle", e.Pattern)
	case effectHeal:
		return fmt.Sprintf("restore %d health", e.Amount)
	case effectShards:
		return fmt.Sprintf("gather %d void shards", e.Amount)
	default:
		return "unknown effect"
	}
}

// Choice is one selectable upgrade offered on level-up. Applying a
// choice a second time is a logged no-op; the effects land exactly once.
type Choice struct {
	Description string
	Rarity      Rarity

	weapon  *Weapon // nil for generic pick-ups
	effects []upgradeEffect
	applied bool
}

// Apply commits the choice's effects to the world. Idempotent.
func (ch *Choice) Apply(c *Context) {
	if ch.applied {
		log.Printf("sim: upgrade %q already applied, ignoring", ch.Description)
		return
	}
	ch.applied = true

	// Weapon level advances once per confirmed weapon choice, regardless
	// of how many effects the choice bundles.
	if ch.weapon != nil {
		ch.weapon.Level++
	}

	for _, effect := range ch.effects {
		switch effect.Kind {
		case effectDamage:
			ch.weapon.DamageBonus += effect.Amount
		case effectArea:
			ch.weapon.AreaBonus += effect.Amount
		case effectCooldown:
			ch.weapon.CooldownBonus += effect.Amount
		case effectDuration:
			ch.weapon.DurationBonus += effect.Amount
		case effectAddPattern:
			ch.weapon.Patterns = append(ch.weapon.Patterns, effect.Pattern)
		case effectHeal:
			if health, ok := c.Healths[c.player]; ok {
				healed := health.Current + float64(effect.Amount)
				if healed > health.Max {
					healed = health.Max
				}
				health.Current = healed
			}
		case effectShards:
			c.shards += effect.Amount
		default:
			log.Printf("sim: unknown upgrade effect %d, skipping", effect.Kind)
		}
	}
}

// magickCircleProgression holds the fixed per-level upgrade for levels
// 2 through MaxWeaponLevel; entry i takes the weapon from level i+1 to
// level i+2.
var magickCircleProgression = [][]upgradeEffect{
	// Level 2: initial power boost
	{{Kind: effectDamage, Amount: 2}, {Kind: effectArea, Amount: 1}},
	// Level 3: first additional circle
	{{Kind: effectAddPattern, Pattern: PatternBanishment}},
	// Level 4: second circle plus minor boost
	{
		{Kind: effectAddPattern, Pattern: PatternBanishment},
		{Kind: effectDamage, Amount: 1},
		{Kind: effectArea, Amount: 1},
	},
	// Level 5: third circle
	{{Kind: effectAddPattern, Pattern: PatternBanishment}},
	// Level 6: fourth circle plus power boost
	{
		{Kind: effectAddPattern, Pattern: PatternBanishment},
		{Kind: effectDamage, Amount: 2},
		{Kind: effectArea, Amount: 1},
	},
	// Level 7: fifth circle plus minor boost
	{
		{Kind: effectAddPattern, Pattern: PatternBanishment},
		{Kind: effectDamage, Amount: 1},
		{Kind: effectArea, Amount: 1},
	},
	// Level 8: final circle plus major spike
	{
		{Kind: effectAddPattern, Pattern: PatternBanishment},
		{Kind: effectDamage, Amount: 3},
		{Kind: effectArea, Amount: 2},
	},
}

// magickCircleLimitBreaks is the repeatable pool offered once the
// progression table is exhausted. Each entry is its own choice.
var magickCircleLimitBreaks = [][]upgradeEffect{
	{{Kind: effectDamage, Amount: 2}},
	{{Kind: effectArea, Amount: 2}},
	{{Kind: effectDuration, Amount: 2}},
	{{Kind: effectCooldown, Amount: -2}},
}

// nextWeaponChoices returns the choices this weapon's current level
// unlocks: the single scripted progression step while one remains, the
// full limit-break pool afterwards.
func nextWeaponChoices(w *Weapon) []Choice {
	idx := w.Level - 1
	if idx >= 0 && idx < len(magickCircleProgression) {
		return []Choice{weaponChoice(w, w.Level+1, magickCircleProgression[idx])}
	}
	choices := make([]Choice, 0, len(magickCircleLimitBreaks))
	for _, effects := range magickCircleLimitBreaks {
		choices = append(choices, weaponChoice(w, w.Level+1, effects))
	}
	return choices
}

func weaponChoice(w *Weapon, nextLevel int, effects []upgradeEffect) Choice {
	parts := make([]string, 0, len(effects))
	for _, e := range effects {
		parts = append(parts, e.describe())
	}
	return Choice{
		Description: fmt.Sprintf("%s level %d: %s", w.Type, nextLevel, strings.Join(parts, ", ")),
		Rarity:      RarityCommon,
		weapon:      w,
		effects:     effects,
	}
}

// genericChoices returns the pick-ups used to pad the choice list when
// too few weapon upgrades are available.
func genericChoices() []Choice {
	return []Choice{
		{
			Description: "Restore health with a Philosopher's Elixir",
			Rarity:      RarityCommon,
			effects:     []upgradeEffect{{Kind: effectHeal, Amount: int(healPickupAmount)}},
		},
		{
			Description: "Gather Void Shards",
			Rarity:      RarityCommon,
			effects:     []upgradeEffect{{Kind: effectShards, Amount: shardPickupAmount}},
		},
	}
}

// generateChoices assembles the level-up menu: luck decides the target
// count, weapon upgrades fill it first, generic pick-ups pad the rest.
func (c *Context) generateChoices() []Choice {
	count := 3
	if c.rng.Float64() < float64(c.playerStats.Luck)*luckChoiceFactor {
		count = 4
	}

	var choices []Choice
	for _, weapon := range c.weapons {
		choices = append(choices, nextWeaponChoices(weapon)...)
	}

	switch {
	case len(choices) > count:
		c.rng.Shuffle(len(choices), func(i, j int) {
			choices[i], choices[j] = choices[j], choices[i]
		})
		choices = choices[:count]
	case len(choices) < count:
		generics := genericChoices()
		c.rng.Shuffle(len(generics), func(i, j int) {
			generics[i], generics[j] = generics[j], generics[i]
		})
		need := count - len(choices)
		if need > len(generics) {
			need = len(generics)
		}
		choices = append(choices, generics[:need]...)
	}
	return choices
}
