// Package cost maps complexity tiers to dollar estimates.
package cost

import (
	"fmt"
	"math"

	"github.com/spiffcs/issuecost/internal/model"
)

// Band is an inclusive dollar range for one tier.
type Band struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Midpoint returns the band center rounded half away from zero.
func (b Band) Midpoint() int {
	return int(math.Round(float64(b.Min+b.Max) / 2))
}

// Validate checks that the band is a non-empty, non-negative range.
func (b Band) Validate() error {
	if b.Min < 0 || b.Max < 0 {
		return fmt.Errorf("band [%d,%d] must not be negative", b.Min, b.Max)
	}
	if b.Min > b.Max {
		return fmt.Errorf("band min %d exceeds max %d", b.Min, b.Max)
	}
	return nil
}

// Bands holds the cost range for every tier.
type Bands struct {
	Low    Band `yaml:"low" json:"low"`
	Medium Band `yaml:"medium" json:"medium"`
	High   Band `yaml:"high" json:"high"`
}

// DefaultBands returns the standard ranges: low [100,300], medium [300,600], high [600,1000].
func DefaultBands() Bands {
	return Bands{
		Low:    Band{Min: 100, Max: 300},
		Medium: Band{Min: 300, Max: 600},
		High:   Band{Min: 600, Max: 1000},
	}
}

// Validate checks every band.
func (b Bands) Validate() error {
	for _, tier := range model.AllTiers {
		if err := b.For(tier).Validate(); err != nil {
			return fmt.Errorf("%s cost band: %w", tier, err)
		}
	}
	return nil
}

// For returns the band of a tier.
func (b Bands) For(tier model.Tier) Band {
	switch tier {
	case model.TierLow:
		return b.Low
	case model.TierHigh:
		return b.High
	default:
		return b.Medium
	}
}

// Calculator turns tiers into point estimates.
type Calculator struct {
	estimates map[model.Tier]int
}

// NewCalculator precomputes the estimate of every tier.
func NewCalculator(bands Bands) (*Calculator, error) {
	if err := bands.Validate(); err != nil {
		return nil, err
	}

	estimates := make(map[model.Tier]int, len(model.AllTiers))
	for _, tier := range model.AllTiers {
		estimates[tier] = bands.For(tier).Midpoint()
	}
	return &Calculator{estimates: estimates}, nil
}

// Default returns a Calculator over DefaultBands.
func Default() *Calculator {
	c, _ := NewCalculator(DefaultBands())
	return c
}

// Estimate returns the cost of a tier. It depends on nothing else.
func (c *Calculator) Estimate(tier model.Tier) int {
	return c.estimates[tier]
}
