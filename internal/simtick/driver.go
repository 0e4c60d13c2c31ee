// Package simtick drives the daily tick: phase 1 fans RGO and artisanal
// order submission out across a bounded worker pool of provinces, a
// barrier separates it from phase 2, which clears every good's market
// and then refreshes state/country aggregates (spec.md §5). The
// worker-pool shape is grounded on the teacher's
// internal/persistence/r2s3.Mirror upload pool: a fixed number of workers
// draining a shared job channel, bounded by a WaitGroup.
package simtick

import (
	"context"
	"runtime"
	"sync"

	"openvic.dev/simcore/internal/calendar"
	"openvic.dev/simcore/internal/econmarket"
	"openvic.dev/simcore/internal/econproduction"
	"openvic.dev/simcore/internal/modifier"
	"openvic.dev/simcore/internal/simconfig"
	"openvic.dev/simcore/internal/simlog"
	"openvic.dev/simcore/internal/simtelemetry"
	"openvic.dev/simcore/internal/worldstate"
)

// Driver runs one simulation day at a time over a fixed world (spec.md
// §5). It holds no game content of its own — only the manager references
// and tuning needed to fan work out and clear the market.
type Driver struct {
	Provinces *worldstate.ProvinceInstanceManager
	States    *worldstate.StateManager
	Countries *worldstate.CountryInstanceManager
	Goods     *econmarket.GoodInstanceManager

	Tuning simconfig.Resolved
	Log    simlog.Sink
	Audit  *simtelemetry.AuditTrail

	// RGOModifierEffectsFor resolves the effect set a province's
	// ProductionType should read from its modifier sum; nil means no
	// modifier lookups are performed (all effects contribute zero).
	RGOModifierEffectsFor func(*worldstate.ProvinceInstance) econproduction.RGOModifierEffects
}

func workerCount(configured int) int {
	if configured > 0 {
		return configured
	}
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return n
}

// RunDay executes one full daily tick and returns the audit summary
// written to telemetry.
func (d *Driver) RunDay(ctx context.Context, date calendar.Date) simtelemetry.TickAuditEntry {
	provinces := d.Provinces.Items()

	provincesTicked := d.submitOrders(ctx, provinces)
	ordersExecuted := d.clearMarkets(ctx, date)

	entry := simtelemetry.TickAuditEntry{
		Date:            date,
		ProvincesTicked: provincesTicked,
		OrdersExecuted:  ordersExecuted,
	}
	if d.Audit != nil {
		if err := d.Audit.WriteTick(entry); err != nil && d.Log != nil {
			d.Log.Warn("simtick: failed to write audit entry: %v", err)
		}
	}
	return entry
}

// submitOrders is phase 1: a bounded pool of workers pulls provinces off
// a shared channel and runs their RGO/artisan step, submitting orders
// into the market concurrently. The WaitGroup barrier at the end ensures
// every submission has landed before phase 2 starts clearing.
func (d *Driver) submitOrders(ctx context.Context, provinces []*worldstate.ProvinceInstance) int {
	jobs := make(chan *worldstate.ProvinceInstance, len(provinces))
	for _, p := range provinces {
		jobs <- p
	}
	close(jobs)

	var ticked int64
	var mu sync.Mutex
	var wg sync.WaitGroup
	workers := workerCount(d.Tuning.OrderSubmissionWorkers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				d.tickProvince(p)
				mu.Lock()
				ticked++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return int(ticked)
}

// tickProvince submits one province's RGO and per-pop artisan orders. A
// province with no ProductionType or no pops contributes no orders — this
// is the transient-tick-error path spec.md §7 describes ("job with null
// pop type... log and skip the offending sub-computation").
func (d *Driver) tickProvince(p *worldstate.ProvinceInstance) {
	if p.ProductionType == nil {
		return
	}

	var effects econproduction.RGOModifierEffects
	if d.RGOModifierEffectsFor != nil {
		effects = d.RGOModifierEffectsFor(p)
	}

	owner := ownerContext(p)
	result := econproduction.RunRGO(p.ProductionType, effects, p.ModifierSum, p.Pops, owner, d.Goods)
	p.RGOOutput = result.Output

	for _, pop := range p.Pops {
		if pop.Type != "artisan" {
			continue
		}
		econproduction.RunArtisan(pop, p.ProductionType, d.Goods)
	}
}

// ownerContext builds the state-level owner figures RunRGO needs (spec.md
// §4.5 step 4/5): the state's population of whichever pop type the
// province's production type designates as its owner job (aristocrats
// for farms, capitalists for mines and factories, ...), and the state's
// total population. A production type with no owner job (or no state)
// contributes no owner figures at all.
func ownerContext(p *worldstate.ProvinceInstance) econproduction.RGOOwnerContext {
	if p.State == nil || p.ProductionType == nil || p.ProductionType.OwnerJob == nil {
		return econproduction.RGOOwnerContext{}
	}
	ownerPopType := p.ProductionType.OwnerJob.PopType

	agg := p.State.Aggregates()
	var owners []*econproduction.Pop
	ownerCount := agg.PopTypeSizes[ownerPopType]
	for _, prov := range p.State.Provinces {
		for _, pop := range prov.Pops {
			if pop.Type == ownerPopType {
				owners = append(owners, pop)
			}
		}
	}
	return econproduction.RGOOwnerContext{
		OwnerPops:       owners,
		OwnerCount:      ownerCount,
		StatePopulation: agg.Population,
	}
}

// clearMarkets is phase 2: every good clears independently and
// concurrently (bounded by the same worker-pool pattern as phase 1), but
// a single good's own ExecuteOrders call always runs single-threaded
// against that good, per spec.md §5's "single-threaded per good" rule.
func (d *Driver) clearMarkets(ctx context.Context, date calendar.Date) int {
	goods := d.Goods.Items()
	jobs := make(chan *econmarket.GoodInstance, len(goods))
	for _, g := range goods {
		jobs <- g
	}
	close(jobs)

	var wg sync.WaitGroup
	workers := workerCount(d.Tuning.ClearingWorkers)
	if workers > len(goods) && len(goods) > 0 {
		workers = len(goods)
	}
	if workers < 1 {
		workers = 1
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				before := g.Price()
				g.ExecuteOrders()
				if d.Audit != nil && g.Price() != before {
					d.Audit.WritePriceMove(simtelemetry.PriceMoveEntry{
						Date:     date,
						Good:     g.Definition.ID,
						OldPrice: before.String(),
						NewPrice: g.Price().String(),
						Demand:   g.DemandYesterday().String(),
						Supply:   g.SupplyYesterday().String(),
					})
				}
			}
		}()
	}
	wg.Wait()

	for _, c := range d.Countries.Items() {
		refreshCountryModifierSum(c)
	}
	return len(goods)
}

// refreshCountryModifierSum climbs the modifier sum of every province in
// every owned state into the country's, skipping entries attributed to
// the country itself (spec.md §4.4's AddExcludingSource use case:
// "prevent a country from applying its own country-level modifiers to
// itself a second time via its states").
func refreshCountryModifierSum(c *worldstate.CountryInstance) {
	c.ModifierSum = modifier.NewSum()
	for _, s := range c.States {
		for _, p := range s.Provinces {
			c.ModifierSum.AddExcludingSource(p.ModifierSum, modifier.Source{Kind: modifier.SourceCountry, ID: c.ID})
		}
	}
}
