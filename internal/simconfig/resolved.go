package simconfig

import (
	"fmt"

	"openvic.dev/simcore/internal/fixed"
)

// Resolved holds the tuning document's numeric fields parsed once into
// fixed-point, so no floating point or repeated string parsing appears on
// any tick-loop path.
type Resolved struct {
	MaxPriceMultiple fixed.Fixed
	MinPriceMultiple fixed.Fixed
	PriceStepCents   fixed.Fixed

	SizeMultiplierStep fixed.Fixed
	OwnerShareCap      fixed.Fixed
	OwnerShareRatio    fixed.Fixed

	OrderSubmissionWorkers int
	ClearingWorkers        int
}

// Resolve parses every fixed-point field of t, failing loudly on a
// malformed tuning document rather than silently defaulting a value the
// pricing/production engines depend on.
func (t Tuning) Resolve() (Resolved, error) {
	var r Resolved
	var err error
	parse := func(field, s string) fixed.Fixed {
		v, e := fixed.Parse(s)
		if e != nil && err == nil {
			err = fmt.Errorf("simconfig: field %s: %w", field, e)
		}
		return v
	}
	r.MaxPriceMultiple = parse("market.max_price_multiple", t.Market.MaxPriceMultiple)
	r.MinPriceMultiple = parse("market.min_price_multiple", t.Market.MinPriceMultiple)
	r.PriceStepCents = parse("market.price_step_cents", t.Market.PriceStepCents)
	r.SizeMultiplierStep = parse("production.size_multiplier_step", t.Production.SizeMultiplierStep)
	r.OwnerShareCap = parse("production.owner_share_cap", t.Production.OwnerShareCap)
	r.OwnerShareRatio = parse("production.owner_share_ratio", t.Production.OwnerShareRatio)
	r.OrderSubmissionWorkers = t.Tick.OrderSubmissionWorkers
	r.ClearingWorkers = t.Tick.ClearingWorkers
	if err != nil {
		return Resolved{}, err
	}
	return r, nil
}
