package estate

import "github.com/melvinsclub/club-backend/internal/platform/config"

// Base drop weights per rarity tier. With every card at multiplier 1.0 these
// produce the intended population-level 60/30/10 split.
var defaultRarityBaseWeights = map[string]float64{
	RarityCommon:   60.0,
	RarityUncommon: 30.0,
	RarityRare:     10.0,
}

// fallbackBaseWeight applies to cards whose rarity string is unrecognized.
const fallbackBaseWeight = 50.0

// Reveal reward tuning. Overridable through config; these are the shipped
// defaults.
var (
	rarityBaseWeights    = defaultRarityBaseWeights
	duplicateBonusPoints = 5
	milestoneCardCount   = 3
	milestoneBonusPoints = 100
)

// ConfigureModule applies card tuning from the loaded configuration.
func ConfigureModule(cfg config.CardConfig) {
	if len(cfg.RarityWeights) > 0 {
		merged := make(map[string]float64, len(defaultRarityBaseWeights))
		for rarity, w := range defaultRarityBaseWeights {
			merged[rarity] = w
		}
		for rarity, w := range cfg.RarityWeights {
			merged[rarity] = w
		}
		rarityBaseWeights = merged
	}
	if cfg.DuplicateBonusPoints > 0 {
		duplicateBonusPoints = cfg.DuplicateBonusPoints
	}
	if cfg.MilestoneCardCount > 0 {
		milestoneCardCount = cfg.MilestoneCardCount
	}
	if cfg.MilestoneBonusPoints > 0 {
		milestoneBonusPoints = cfg.MilestoneBonusPoints
	}
}

// EffectiveWeight is the card's actual drop weight: rarity base weight times
// the per-card multiplier.
func EffectiveWeight(card *EstateCard) float64 {
	base, ok := rarityBaseWeights[card.Rarity]
	if !ok {
		base = fallbackBaseWeight
	}
	return base * card.DropMultiplier
}
