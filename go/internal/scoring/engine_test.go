package scoring

import (
	"testing"

	"github.com/cyberescape/backend/go/internal/models"
)

func TestBadgeDefaultTiers(t *testing.T) {
	engine, err := NewEngine(DefaultTiers())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	tests := []struct {
		name     string
		duration int
		want     models.Badge
	}{
		{"instant finish", 0, models.BadgeGold},
		{"just under gold", 119, models.BadgeGold},
		{"gold bound is exclusive", 120, models.BadgeSilver},
		{"silver", 299, models.BadgeSilver},
		{"bronze", 479, models.BadgeBronze},
		{"past every bound", 480, models.BadgeNone},
		{"way past", 10000, models.BadgeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.Badge(tt.duration); got != tt.want {
				t.Errorf("Badge(%d) = %q, want %q", tt.duration, got, tt.want)
			}
		})
	}
}

func TestBadgeAlternateTiers(t *testing.T) {
	// Deployments ran different tables at different times; the contract
	// holds for any valid table.
	engine, err := NewEngine([]Tier{
		{Badge: models.BadgeGold, MaxSeconds: 600},
		{Badge: models.BadgeSilver, MaxSeconds: 900},
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	if got := engine.Badge(599); got != models.BadgeGold {
		t.Errorf("Badge(599) = %q, want gold", got)
	}
	if got := engine.Badge(899); got != models.BadgeSilver {
		t.Errorf("Badge(899) = %q, want silver", got)
	}
	if got := engine.Badge(900); got != models.BadgeNone {
		t.Errorf("Badge(900) = %q, want none", got)
	}
}

func TestBadgeMonotonic(t *testing.T) {
	rank := map[models.Badge]int{
		models.BadgeGold:   0,
		models.BadgeSilver: 1,
		models.BadgeBronze: 2,
		models.BadgeNone:   3,
	}

	tables := [][]Tier{
		DefaultTiers(),
		{
			{Badge: models.BadgeGold, MaxSeconds: 600},
			{Badge: models.BadgeSilver, MaxSeconds: 1200},
			{Badge: models.BadgeBronze, MaxSeconds: 1800},
		},
		{
			{Badge: models.BadgeBronze, MaxSeconds: 60},
		},
	}

	for _, tiers := range tables {
		engine, err := NewEngine(tiers)
		if err != nil {
			t.Fatalf("NewEngine: %v", err)
		}

		prev := engine.Badge(0)
		for d := 1; d <= 2000; d++ {
			got := engine.Badge(d)
			if rank[got] < rank[prev] {
				t.Fatalf("Badge not monotonic: Badge(%d) = %q better than Badge(%d) = %q", d, got, d-1, prev)
			}
			prev = got
		}
	}
}

func TestNewEngineRejectsBadTables(t *testing.T) {
	tests := []struct {
		name  string
		tiers []Tier
	}{
		{"empty", nil},
		{"zero bound", []Tier{{Badge: models.BadgeGold, MaxSeconds: 0}}},
		{"descending bounds", []Tier{
			{Badge: models.BadgeGold, MaxSeconds: 300},
			{Badge: models.BadgeSilver, MaxSeconds: 120},
		}},
		{"duplicate bound", []Tier{
			{Badge: models.BadgeGold, MaxSeconds: 120},
			{Badge: models.BadgeSilver, MaxSeconds: 120},
		}},
		{"unknown badge", []Tier{{Badge: "platinum", MaxSeconds: 60}}},
		{"badge improves with duration", []Tier{
			{Badge: models.BadgeBronze, MaxSeconds: 120},
			{Badge: models.BadgeGold, MaxSeconds: 300},
		}},
		{"repeated badge", []Tier{
			{Badge: models.BadgeSilver, MaxSeconds: 120},
			{Badge: models.BadgeSilver, MaxSeconds: 300},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEngine(tt.tiers); err == nil {
				t.Error("NewEngine accepted an invalid table")
			}
		})
	}
}
