package econproduction

import (
	"openvic.dev/simcore/internal/econmarket"
	"openvic.dev/simcore/internal/fixed"
)

// ArtisanResult reports what one pop's artisan tick produced, for
// telemetry and testing.
type ArtisanResult struct {
	InputsBoughtScalar fixed.Fixed
	Output             fixed.Fixed
}

// RunArtisan executes one day's artisanal production step for a single
// pop (spec.md §4.5): buy as much of the desired inputs as the pop's
// cash and stockpile allow, then produce and sell output scaled by how
// well those inputs were satisfied.
func RunArtisan(pop *Pop, pt *ProductionType, goods *econmarket.GoodInstanceManager) ArtisanResult {
	inputsBoughtScalar := fixed.One

	if len(pt.InputGoods) > 0 {
		demand := make(map[*econmarket.GoodDefinition]fixed.Fixed, len(pt.InputGoods))
		goodsToBuy := make(map[*econmarket.GoodDefinition]fixed.Fixed, len(pt.InputGoods))

		for good, baseDesired := range pt.InputGoods {
			desired := fixed.Div(fixed.Mul(baseDesired, pop.Size), pt.BaseWorkforceSize)
			demand[good] = desired

			inst, ok := goods.ByIdentifier(good.ID)
			if !ok || desired <= 0 {
				continue
			}
			ratio := fixed.Div(pop.Stockpile[good], desired)
			if ratio < inputsBoughtScalar {
				inputsBoughtScalar = ratio
			}
			goodsToBuy[good] = inst.MaxNextPrice()
		}

		if inputsBoughtScalar > 0 {
			for good, desired := range demand {
				consumed := fixed.Mul(desired, inputsBoughtScalar)
				remaining := fixed.Sub(pop.Stockpile[good], consumed)
				if remaining < 0 {
					remaining = fixed.Zero
				}
				pop.Stockpile[good] = remaining

				if pop.Stockpile[good] >= desired {
					delete(goodsToBuy, good)
				}
			}
		}

		totalCashToSpend := pop.Cash
		var maxPossibleSatisfaction fixed.Fixed
		if totalCashToSpend > 0 && len(goodsToBuy) > 0 {
			maxPossibleSatisfaction = fixed.One

			atOrBelowOptimum := false
			for !atOrBelowOptimum {
				atOrBelowOptimum = true
				totalDemandValue := fixed.Zero
				totalStockpileValue := fixed.Zero
				for good, maxPrice := range goodsToBuy {
					totalDemandValue = fixed.Add(totalDemandValue, fixed.Mul(maxPrice, demand[good]))
					totalStockpileValue = fixed.Add(totalStockpileValue, fixed.Mul(maxPrice, pop.Stockpile[good]))
				}

				if totalDemandValue > 0 {
					satisfaction := fixed.Div(fixed.Add(totalStockpileValue, totalCashToSpend), totalDemandValue)
					if satisfaction < maxPossibleSatisfaction {
						maxPossibleSatisfaction = satisfaction
					}
					if maxPossibleSatisfaction > fixed.One {
						maxPossibleSatisfaction = fixed.One
					}
				}

				for good := range goodsToBuy {
					optimal := fixed.Mul(demand[good], maxPossibleSatisfaction)
					if pop.Stockpile[good] >= optimal {
						delete(goodsToBuy, good)
						atOrBelowOptimum = false
					}
				}
			}

			for good, maxPrice := range goodsToBuy {
				optimalQuantity := fixed.Mul(demand[good], maxPossibleSatisfaction)
				moneyToSpend := fixed.Mul(optimalQuantity, maxPrice)

				inst, ok := goods.ByIdentifier(good.ID)
				if !ok {
					continue
				}
				g := good
				inst.AddBuyUpToOrder(econmarket.BuyUpToOrder{
					MaxQuantity:  optimalQuantity,
					MoneyToSpend: moneyToSpend,
					AfterTrade: func(r econmarket.BuyResult) {
						pop.Cash = fixed.Add(pop.Cash, r.MoneyLeft)
						pop.Stockpile[g] = fixed.Add(pop.Stockpile[g], r.QuantityBought)
					},
				})
				pop.Cash = fixed.Sub(pop.Cash, moneyToSpend)
			}
		}
	}

	output := fixed.Div(fixed.Mul(fixed.Mul(pt.BaseOutputQuantity, inputsBoughtScalar), pop.Size), pt.BaseWorkforceSize)

	result := ArtisanResult{InputsBoughtScalar: inputsBoughtScalar, Output: output}

	if output > 0 {
		if inst, ok := goods.ByIdentifier(pt.OutputGood.ID); ok {
			inst.AddMarketSellOrder(econmarket.MarketSellOrder{
				Quantity: output,
				AfterTrade: func(r econmarket.SellResult) {
					pop.Cash = fixed.Add(pop.Cash, r.MoneyPaid)
				},
			})
		}
	}

	return result
}
