// Package econmarket implements the two-phase order-submission/clearing
// market described in spec.md §5: bounded buy-up-to and market-sell
// orders queue against a per-good instance during a parallel submission
// phase, then a single-threaded-per-good `ExecuteOrders` pass finds the
// day's clearing price and runs every order's continuation synchronously.
package econmarket

import (
	"sync"

	"openvic.dev/simcore/internal/fixed"
	"openvic.dev/simcore/internal/registry"
)

// GoodDefinition is the immutable identity of a tradeable good (spec.md
// §3). Production and pop-consumption code hold pointers into a locked
// GoodDefinitionManager for the lifetime of the process.
type GoodDefinition struct {
	ID                   string
	BasePrice            fixed.Fixed
	IsAvailableFromStart bool
}

func (g *GoodDefinition) Identifier() string { return g.ID }

// GoodDefinitionManager owns every GoodDefinition.
type GoodDefinitionManager struct {
	reg *registry.Registry[*GoodDefinition]
}

func NewGoodDefinitionManager() *GoodDefinitionManager {
	return &GoodDefinitionManager{reg: registry.New[*GoodDefinition]("good_definitions", 0)}
}

func (m *GoodDefinitionManager) Add(id string, basePrice fixed.Fixed, availableFromStart bool) (*GoodDefinition, bool) {
	g := &GoodDefinition{ID: id, BasePrice: basePrice, IsAvailableFromStart: availableFromStart}
	return g, m.reg.Add(g)
}

func (m *GoodDefinitionManager) Lock()                                     { m.reg.Lock() }
func (m *GoodDefinitionManager) Items() []*GoodDefinition                  { return m.reg.Items() }
func (m *GoodDefinitionManager) ByIdentifier(id string) (*GoodDefinition, bool) { return m.reg.ByIdentifier(id) }
func (m *GoodDefinitionManager) Len() int                                  { return m.reg.Len() }

// BuyResult is delivered synchronously to a BuyUpToOrder's continuation
// once ExecuteOrders finds the day's clearing price.
type BuyResult struct {
	QuantityBought fixed.Fixed
	MoneyLeft      fixed.Fixed
}

// SellResult is delivered synchronously to a MarketSellOrder's
// continuation once ExecuteOrders finds the day's clearing price.
type SellResult struct {
	QuantitySold fixed.Fixed
	MoneyPaid    fixed.Fixed
}

// BuyUpToOrder requests up to MaxQuantity of a good, spending no more
// than MoneyToSpend; the actual quantity bought is MoneyToSpend divided
// by the day's clearing price, which may exceed or fall short of
// MaxQuantity depending on where the price lands (spec.md §5, Design
// Notes: "the market does not enforce matching").
type BuyUpToOrder struct {
	MaxQuantity  fixed.Fixed
	MoneyToSpend fixed.Fixed
	AfterTrade   func(BuyResult)
}

// MarketSellOrder offers Quantity of a good for sale at whatever the
// day's clearing price turns out to be.
type MarketSellOrder struct {
	Quantity   fixed.Fixed
	AfterTrade func(SellResult)
}

// GoodInstance is the mutable per-good market state spec.md §3 and §5
// describe: current price, this tick's price bounds, yesterday's
// demand/supply, and two mutex-guarded order deques. Order submission
// (AddBuyUpToOrder/AddMarketSellOrder) is safe to call concurrently from
// many provinces; ExecuteOrders is not thread-safe with submission and
// must run only after the submission-phase barrier.
type GoodInstance struct {
	Definition *GoodDefinition

	buyMu  sync.Mutex
	sellMu sync.Mutex

	price                fixed.Fixed
	maxNextPrice         fixed.Fixed
	minNextPrice         fixed.Fixed
	isAvailable          bool
	totalDemandYesterday fixed.Fixed
	totalSupplyYesterday fixed.Fixed

	buyOrders  []BuyUpToOrder
	sellOrders []MarketSellOrder
}

// Identifier satisfies registry.Identified, delegating to the underlying
// definition's identifier.
func (g *GoodInstance) Identifier() string { return g.Definition.ID }

func newGoodInstance(def *GoodDefinition) *GoodInstance {
	g := &GoodInstance{
		Definition:  def,
		price:       def.BasePrice,
		isAvailable: def.IsAvailableFromStart,
	}
	g.updateNextPriceLimits()
	return g
}

var (
	priceCeilingMultiple = fixed.FromInt(5)
	priceFloorMultiple   = fixed.Div(fixed.FromInt(22), fixed.FromInt(100))
	priceStep            = fixed.Div(fixed.One, fixed.FromInt(100))
)

// updateNextPriceLimits recomputes [min_next, max_next] from the good's
// current price, per spec.md §5: "max_next = min(base_price*5, price +
// 0.01); min_next = max(base_price*0.22, price - 0.01)".
func (g *GoodInstance) updateNextPriceLimits() {
	ceiling := fixed.Mul(g.Definition.BasePrice, priceCeilingMultiple)
	stepUp := fixed.Add(g.price, priceStep)
	g.maxNextPrice = minFixed(ceiling, stepUp)

	floor := fixed.Mul(g.Definition.BasePrice, priceFloorMultiple)
	stepDown := fixed.Sub(g.price, priceStep)
	g.minNextPrice = maxFixed(floor, stepDown)
}

func minFixed(a, b fixed.Fixed) fixed.Fixed {
	if a < b {
		return a
	}
	return b
}

func maxFixed(a, b fixed.Fixed) fixed.Fixed {
	if a > b {
		return a
	}
	return b
}

// Price returns the good's current clearing price.
func (g *GoodInstance) Price() fixed.Fixed { return g.price }

// MinNextPrice and MaxNextPrice return this tick's price bounds.
func (g *GoodInstance) MinNextPrice() fixed.Fixed { return g.minNextPrice }
func (g *GoodInstance) MaxNextPrice() fixed.Fixed { return g.maxNextPrice }

// DemandYesterday and SupplyYesterday return the totals recorded by the
// most recent ExecuteOrders call.
func (g *GoodInstance) DemandYesterday() fixed.Fixed { return g.totalDemandYesterday }
func (g *GoodInstance) SupplyYesterday() fixed.Fixed { return g.totalSupplyYesterday }

// IsAvailable reports whether the good has been unlocked for trade.
func (g *GoodInstance) IsAvailable() bool { return g.isAvailable }

// SetAvailable marks the good tradeable, e.g. once a tech unlocks it.
func (g *GoodInstance) SetAvailable(v bool) { g.isAvailable = v }

// AddBuyUpToOrder enqueues a buy order. Safe for concurrent use during
// the order-submission phase.
func (g *GoodInstance) AddBuyUpToOrder(o BuyUpToOrder) {
	g.buyMu.Lock()
	defer g.buyMu.Unlock()
	g.buyOrders = append(g.buyOrders, o)
}

// AddMarketSellOrder enqueues a sell order. Safe for concurrent use
// during the order-submission phase.
func (g *GoodInstance) AddMarketSellOrder(o MarketSellOrder) {
	g.sellMu.Lock()
	defer g.sellMu.Unlock()
	g.sellOrders = append(g.sellOrders, o)
}

// ExecuteOrders finds the day's clearing price from aggregate demand vs
// supply, runs every queued order's continuation synchronously, records
// yesterday's totals, and clears both deques (spec.md §5). It is not
// safe to call concurrently with order submission or with itself for
// the same GoodInstance.
func (g *GoodInstance) ExecuteOrders() {
	demand := fixed.Zero
	for _, o := range g.buyOrders {
		demand = fixed.Add(demand, o.MaxQuantity)
	}
	supply := fixed.Zero
	for _, o := range g.sellOrders {
		supply = fixed.Add(supply, o.Quantity)
	}

	var newPrice fixed.Fixed
	switch {
	case demand > supply:
		newPrice = g.maxNextPrice
	case demand < supply:
		newPrice = g.minNextPrice
	default:
		newPrice = g.price
	}

	for _, o := range g.buyOrders {
		bought := fixed.Div(o.MoneyToSpend, newPrice)
		spent := fixed.Mul(bought, newPrice)
		if o.AfterTrade != nil {
			o.AfterTrade(BuyResult{QuantityBought: bought, MoneyLeft: fixed.Sub(o.MoneyToSpend, spent)})
		}
	}
	for _, o := range g.sellOrders {
		paid := fixed.Mul(o.Quantity, newPrice)
		if o.AfterTrade != nil {
			o.AfterTrade(SellResult{QuantitySold: o.Quantity, MoneyPaid: paid})
		}
	}

	g.totalDemandYesterday = demand
	g.totalSupplyYesterday = supply
	g.buyOrders = nil
	g.sellOrders = nil

	if newPrice != g.price {
		g.price = newPrice
		g.updateNextPriceLimits()
	}
}

// GoodInstanceManager owns one GoodInstance per registered
// GoodDefinition (spec.md §3).
type GoodInstanceManager struct {
	reg *registry.Registry[*GoodInstance]
}

func NewGoodInstanceManager() *GoodInstanceManager {
	return &GoodInstanceManager{reg: registry.New[*GoodInstance]("good_instances", 0)}
}

// Setup builds one GoodInstance per definition in defs, in registration
// order, and locks the instance registry.
func (m *GoodInstanceManager) Setup(defs *GoodDefinitionManager) bool {
	if m.reg.Locked() {
		return false
	}
	ok := true
	for _, def := range defs.Items() {
		inst := newGoodInstance(def)
		ok = m.reg.Add(inst) && ok
	}
	m.reg.Lock()
	return ok
}

func (m *GoodInstanceManager) ByIdentifier(id string) (*GoodInstance, bool) {
	return m.reg.ByIdentifier(id)
}

func (m *GoodInstanceManager) Items() []*GoodInstance { return m.reg.Items() }
func (m *GoodInstanceManager) Len() int               { return m.reg.Len() }
