package scoring

import (
	"fmt"

	"github.com/cyberescape/backend/go/internal/models"
)

// Tier maps a badge to the exclusive upper bound of finishing times that
// earn it. Bounds are seconds.
type Tier struct {
	Badge      models.Badge
	MaxSeconds int
}

// Engine awards badges from a fixed threshold table. Tiers are evaluated in
// ascending bound order and the first bound exceeding the duration wins;
// durations past every bound earn BadgeNone.
type Engine struct {
	tiers []Tier
}

// DefaultTiers is the threshold table the event originally ran with.
func DefaultTiers() []Tier {
	return []Tier{
		{Badge: models.BadgeGold, MaxSeconds: 120},
		{Badge: models.BadgeSilver, MaxSeconds: 300},
		{Badge: models.BadgeBronze, MaxSeconds: 480},
	}
}

// badgeRank orders tiers best to worst. Tables must not improve in rank as
// bounds ascend, so a smaller duration never earns a worse tier.
var badgeRank = map[models.Badge]int{
	models.BadgeGold:   0,
	models.BadgeSilver: 1,
	models.BadgeBronze: 2,
}

// NewEngine validates the threshold table. Bounds must be positive and
// strictly ascending, and badges must not improve as bounds ascend, which
// together keep Badge monotonic in duration.
func NewEngine(tiers []Tier) (*Engine, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("threshold table is empty")
	}

	prev := 0
	prevRank := -1
	for i, tier := range tiers {
		rank, ok := badgeRank[tier.Badge]
		if !ok {
			return nil, fmt.Errorf("tier %d: unknown badge %q", i, tier.Badge)
		}
		if tier.MaxSeconds <= prev {
			return nil, fmt.Errorf("tier %d: bound %d not above previous bound %d", i, tier.MaxSeconds, prev)
		}
		if rank <= prevRank {
			return nil, fmt.Errorf("tier %d: badge %q not below the previous tier", i, tier.Badge)
		}
		prev = tier.MaxSeconds
		prevRank = rank
	}

	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return &Engine{tiers: out}, nil
}

// Badge returns the tier earned by a finishing time.
func (e *Engine) Badge(durationSeconds int) models.Badge {
	for _, tier := range e.tiers {
		if durationSeconds < tier.MaxSeconds {
			return tier.Badge
		}
	}
	return models.BadgeNone
}
