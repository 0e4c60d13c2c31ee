package econproduction

import (
	"openvic.dev/simcore/internal/econmarket"
	"openvic.dev/simcore/internal/fixed"
	"openvic.dev/simcore/internal/modifier"
)

// Employee records how much of a hired pop's size actually worked the
// RGO this tick (spec.md §4.5 step 3).
type Employee struct {
	Pop       *Pop
	HiredSize fixed.Fixed
}

// RGOOwnerContext supplies the state-level figures RunRGO needs to
// compute the owner pop's contribution and revenue share (spec.md §4.5
// step 4 and step 5): the owner pops themselves, their combined size,
// and the state's total population.
type RGOOwnerContext struct {
	OwnerPops       []*Pop
	OwnerCount      fixed.Fixed
	StatePopulation fixed.Fixed
}

// RGOResult is what a completed RGO daily step reports back for revenue
// bookkeeping and telemetry.
type RGOResult struct {
	SizeModifier   fixed.Fixed
	SizeMultiplier fixed.Fixed
	MaxEmployees   fixed.Fixed
	Employees      []Employee
	Output         fixed.Fixed
}

func clampNonNegative(f fixed.Fixed) fixed.Fixed {
	if f < 0 {
		return fixed.Zero
	}
	return f
}

// sizeModifier implements spec.md §4.5 step 1.
func sizeModifier(pt *ProductionType, effects RGOModifierEffects, sum *modifier.Sum) fixed.Fixed {
	m := fixed.One
	if pt.Farm {
		m = fixed.Add(m, getOrZero(sum, effects.FarmSizeGlobal))
		m = fixed.Add(m, getOrZero(sum, effects.FarmSizeLocal))
	}
	if pt.Mine {
		m = fixed.Add(m, getOrZero(sum, effects.MineSizeGlobal))
		m = fixed.Add(m, getOrZero(sum, effects.MineSizeLocal))
	}
	m = fixed.Add(m, getOrZero(sum, effects.GoodSize))
	return clampNonNegative(m)
}

// workforceSizing implements spec.md §4.5 step 2.
func workforceSizing(pt *ProductionType, sizeMod fixed.Fixed, totalMatching fixed.Fixed) (sizeMultiplier, maxEmployees fixed.Fixed) {
	base := fixed.Mul(sizeMod, pt.BaseWorkforceSize)
	if base <= 0 {
		return fixed.Zero, fixed.Zero
	}
	ratio := fixed.Div(totalMatching, base)
	raw := fixed.Mul(ratio.Ceil(), fixed.Div(fixed.FromInt(3), fixed.FromInt(2)))
	sizeMultiplier = raw.Floor()
	maxEmployees = fixed.Mul(fixed.Mul(sizeMod, sizeMultiplier), pt.BaseWorkforceSize).Floor()
	return sizeMultiplier, maxEmployees
}

// hire implements spec.md §4.5 step 3: pops whose type matches a Job are
// hired in proportion to available capacity, floored per pop.
func hire(pt *ProductionType, pops []*Pop, maxEmployees fixed.Fixed) (employees []Employee, totalHired, totalNonSlaveHired fixed.Fixed) {
	jobTypes := make(map[string]bool, len(pt.Jobs))
	for _, j := range pt.Jobs {
		jobTypes[j.PopType] = true
	}

	available := fixed.Zero
	var matching []*Pop
	for _, p := range pops {
		if jobTypes[p.Type] {
			matching = append(matching, p)
			available = fixed.Add(available, p.Size)
		}
	}

	proportion := fixed.One
	if available > 0 && maxEmployees < available {
		proportion = fixed.Div(maxEmployees, available)
	}

	for _, p := range matching {
		hired := fixed.Mul(proportion, p.Size).Floor()
		employees = append(employees, Employee{Pop: p, HiredSize: hired})
		totalHired = fixed.Add(totalHired, hired)
		if !p.IsSlave {
			totalNonSlaveHired = fixed.Add(totalNonSlaveHired, hired)
		}
	}
	return employees, totalHired, totalNonSlaveHired
}

// production implements spec.md §4.5 step 4. It keeps four independent
// multiplicative factors, mirroring ResourceGatheringOperation.cpp: the
// global/local/farm/mine/good modifiers accumulate into throughputMult
// and outputMult (both start at 1, so a production type with no such
// modifiers leaves them unchanged), while each employee type's own
// THROUGHPUT/OUTPUT job contribution accumulates separately into
// throughputFromWorkers (starts at 0) and outputFromWorkers (starts at
// 1) — a production type with no applicable THROUGHPUT jobs must yield
// zero output, which folding the two accumulators together would break.
func production(pt *ProductionType, effects RGOModifierEffects, sum *modifier.Sum, owner RGOOwnerContext, employees []Employee, maxEmployees fixed.Fixed) (outputMult, throughputMult, outputFromWorkers, throughputFromWorkers fixed.Fixed) {
	outputMult = fixed.One
	throughputMult = fixed.One
	outputFromWorkers = fixed.One
	throughputFromWorkers = fixed.Zero

	if pt.OwnerJob != nil && owner.StatePopulation > 0 {
		share := fixed.Mul(fixed.Div(owner.OwnerCount, owner.StatePopulation), pt.OwnerJob.EffectMultiplier)
		switch pt.OwnerJob.EffectType {
		case EffectOutput:
			outputMult = fixed.Add(outputMult, share)
		case EffectThroughput:
			throughputMult = fixed.Add(throughputMult, share)
		}
	}

	throughputMult = fixed.Add(throughputMult, getOrZero(sum, effects.ThroughputGlobal))
	throughputMult = fixed.Add(throughputMult, getOrZero(sum, effects.ThroughputLocal))
	throughputMult = fixed.Add(throughputMult, getOrZero(sum, effects.GoodThroughput))
	outputMult = fixed.Add(outputMult, getOrZero(sum, effects.OutputGlobal))
	outputMult = fixed.Add(outputMult, getOrZero(sum, effects.OutputLocal))
	outputMult = fixed.Add(outputMult, getOrZero(sum, effects.GoodOutput))

	if pt.Farm {
		throughputMult = fixed.Add(throughputMult, getOrZero(sum, effects.FarmThroughputGlobal))
		outputMult = fixed.Add(outputMult, getOrZero(sum, effects.FarmOutputGlobal))
		outputMult = fixed.Add(outputMult, getOrZero(sum, effects.FarmOutputLocal))
	}
	if pt.Mine {
		throughputMult = fixed.Add(throughputMult, getOrZero(sum, effects.MineThroughputGlobal))
		outputMult = fixed.Add(outputMult, getOrZero(sum, effects.MineOutputGlobal))
		outputMult = fixed.Add(outputMult, getOrZero(sum, effects.MineOutputLocal))
	}

	if maxEmployees <= 0 {
		return outputMult, throughputMult, outputFromWorkers, throughputFromWorkers
	}

	byType := map[string]fixed.Fixed{}
	for _, e := range employees {
		byType[e.Pop.Type] = fixed.Add(byType[e.Pop.Type], e.HiredSize)
	}

	for _, job := range pt.Jobs {
		employed := byType[job.PopType]
		relative := fixed.Div(employed, maxEmployees)
		if job.EffectMultiplier != fixed.One {
			cap := job.Amount
			if relative > cap {
				relative = cap
			}
		}
		contribution := fixed.Mul(relative, job.EffectMultiplier)
		switch job.EffectType {
		case EffectOutput:
			outputFromWorkers = fixed.Add(outputFromWorkers, contribution)
		case EffectThroughput:
			throughputFromWorkers = fixed.Add(throughputFromWorkers, contribution)
		}
	}

	return outputMult, throughputMult, outputFromWorkers, throughputFromWorkers
}

// RunRGO executes one day's RGO step for a province and submits the
// resulting sale to the market (spec.md §4.5). The revenue-distribution
// side (step 5) happens in the sell order's continuation, since the
// clearing price is not known until the market's clearing phase runs.
func RunRGO(pt *ProductionType, effects RGOModifierEffects, sum *modifier.Sum, pops []*Pop, owner RGOOwnerContext, goods *econmarket.GoodInstanceManager) RGOResult {
	sizeMod := sizeModifier(pt, effects, sum)

	jobTypes := make(map[string]bool, len(pt.Jobs))
	for _, j := range pt.Jobs {
		jobTypes[j.PopType] = true
	}
	totalMatching := fixed.Zero
	for _, p := range pops {
		if jobTypes[p.Type] {
			totalMatching = fixed.Add(totalMatching, p.Size)
		}
	}

	sizeMultiplier, maxEmployees := workforceSizing(pt, sizeMod, totalMatching)
	employees, _, totalNonSlaveHired := hire(pt, pops, maxEmployees)
	outputMult, throughputMult, outputFromWorkers, throughputFromWorkers := production(pt, effects, sum, owner, employees, maxEmployees)

	output := fixed.Mul(fixed.Mul(fixed.Mul(pt.BaseOutputQuantity, sizeMod), sizeMultiplier),
		fixed.Mul(fixed.Mul(throughputMult, throughputFromWorkers), fixed.Mul(outputMult, outputFromWorkers)))

	result := RGOResult{
		SizeModifier:   sizeMod,
		SizeMultiplier: sizeMultiplier,
		MaxEmployees:   maxEmployees,
		Employees:      employees,
		Output:         output,
	}

	if output <= 0 {
		return result
	}

	inst, ok := goods.ByIdentifier(pt.OutputGood.ID)
	if !ok {
		return result
	}

	inst.AddMarketSellOrder(econmarket.MarketSellOrder{
		Quantity: output,
		AfterTrade: func(sr econmarket.SellResult) {
			DistributeRGORevenue(sr.MoneyPaid, owner, employees, totalMatching, totalNonSlaveHired)
		},
	})

	return result
}

// DistributeRGORevenue implements spec.md §4.5 step 5: owners take a
// capped share proportional to their headcount, the remainder splits
// across non-slave employees by hired size, and revenue from a
// slave-only RGO is burned (removed from circulation) rather than paid
// to anyone. totalWorkerCount is the pre-hire matching workforce (the
// province's total_worker_count_in_province in the original), not the
// post-cap hired total: ResourceGatheringOperation.cpp's pay_employees
// always divides the owner share by the uncapped workforce, so a
// capacity-capped RGO doesn't inflate what owners are paid.
func DistributeRGORevenue(revenue fixed.Fixed, owner RGOOwnerContext, employees []Employee, totalWorkerCount, totalNonSlaveHired fixed.Fixed) {
	if revenue <= 0 || totalWorkerCount <= 0 {
		return
	}

	ownerShare := fixed.Zero
	if owner.StatePopulation > 0 && totalWorkerCount > 0 {
		twiceRatio := fixed.Div(fixed.Mul(fixed.FromInt(2), owner.OwnerCount), totalWorkerCount)
		half := fixed.Div(fixed.One, fixed.FromInt(2))
		ownerShare = twiceRatio
		if ownerShare > half {
			ownerShare = half
		}
	}

	ownerRevenue := fixed.Mul(revenue, ownerShare)
	workerRevenue := fixed.Sub(revenue, ownerRevenue)

	if ownerRevenue > 0 && owner.OwnerCount > 0 {
		for _, p := range owner.OwnerPops {
			p.Cash = fixed.Add(p.Cash, fixed.Mul(ownerRevenue, fixed.Div(p.Size, owner.OwnerCount)))
		}
	}

	if totalNonSlaveHired <= 0 {
		// Slave-only RGO: the worker share is burned, not paid out.
		return
	}
	for _, e := range employees {
		if e.Pop.IsSlave {
			continue
		}
		e.Pop.Cash = fixed.Add(e.Pop.Cash, fixed.Mul(workerRevenue, fixed.Div(e.HiredSize, totalNonSlaveHired)))
	}
}
