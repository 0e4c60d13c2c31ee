// Package simconfig loads the YAML tuning document for the simulation
// core: market price-drift bounds, production workforce constants, and
// the tick worker-pool size. Only the worker-pool sizes are read by the
// engine; the market and production values are parsed and resolved, but
// econmarket and econproduction use their own compile-time constants
// (with the same default values). It mirrors the teacher project's
// internal/sim/tuning package.
package simconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds every knob spec.md leaves to "implementation choice" or an
// external collaborator to configure. simtick.Driver reads the Tick
// section (via Resolved); nothing reads the resolved Market or Production
// values.
type Tuning struct {
	// Market holds the price-drift bounds from spec.md §4.6.
	Market MarketTuning `yaml:"market"`

	// Production holds RGO/artisan constants from spec.md §4.5.
	Production ProductionTuning `yaml:"production"`

	// Tick controls the concurrency shape of the daily tick (spec.md §5).
	Tick TickTuning `yaml:"tick"`
}

type MarketTuning struct {
	// MaxPriceMultiple bounds max_next at base_price * MaxPriceMultiple.
	MaxPriceMultiple string `yaml:"max_price_multiple"`
	// MinPriceMultiple bounds min_next at base_price * MinPriceMultiple.
	MinPriceMultiple string `yaml:"min_price_multiple"`
	// PriceStepCents is the one-cent drift bound per tick.
	PriceStepCents string `yaml:"price_step_cents"`
}

type ProductionTuning struct {
	// SizeMultiplierStep is the 1.5 multiplier applied to the ceil'd
	// workforce ratio in RGO sizing (spec.md §4.5 step 2).
	SizeMultiplierStep string `yaml:"size_multiplier_step"`
	// OwnerShareCap is the 0.5 cap on RGO owner revenue share
	// (spec.md §4.5 step 5).
	OwnerShareCap string `yaml:"owner_share_cap"`
	// OwnerShareRatio is the 2x multiplier on owner-population share
	// before the cap is applied.
	OwnerShareRatio string `yaml:"owner_share_ratio"`
}

type TickTuning struct {
	// OrderSubmissionWorkers bounds the province-fan-out worker pool for
	// phase 1 of the daily tick (spec.md §5). Zero means GOMAXPROCS.
	OrderSubmissionWorkers int `yaml:"order_submission_workers"`
	// ClearingWorkers bounds how many goods clear concurrently in phase 2.
	ClearingWorkers int `yaml:"clearing_workers"`
}

// Default returns the tuning document the teacher's engine ships when no
// override file is present.
func Default() Tuning {
	return Tuning{
		Market: MarketTuning{
			MaxPriceMultiple: "5",
			MinPriceMultiple: "0.22",
			PriceStepCents:   "0.01",
		},
		Production: ProductionTuning{
			SizeMultiplierStep: "1.5",
			OwnerShareCap:      "0.5",
			OwnerShareRatio:    "2",
		},
		Tick: TickTuning{
			OrderSubmissionWorkers: 0,
			ClearingWorkers:        0,
		},
	}
}

// Load reads and parses a tuning YAML document, falling back to Default
// for any zero-valued field the file leaves unset.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("simconfig: parse %s: %w", path, err)
	}
	return t, nil
}
