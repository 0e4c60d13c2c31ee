// Package econproduction implements the two production operations a
// province or pop runs each day: the Resource Gathering Operation (RGO)
// and the artisanal producer (spec.md §4.5).
package econproduction

import (
	"openvic.dev/simcore/internal/econmarket"
	"openvic.dev/simcore/internal/fixed"
	"openvic.dev/simcore/internal/modifier"
)

// Pop is one population group (spec.md §3): size, pop type, the
// culture/religion/ideology/issue distributions the political layer
// reads, cash, and the three social statistics. worldstate.ProvinceInstance
// holds the authoritative list; production code only touches Size, Cash,
// IsSlave, and Stockpile.
type Pop struct {
	ID      string
	Type    string
	Size    fixed.Fixed
	Cash    fixed.Fixed
	IsSlave bool

	Culture  string
	Religion string
	Ideology map[string]fixed.Fixed
	Issue    map[string]fixed.Fixed

	Literacy      fixed.Fixed
	Consciousness fixed.Fixed
	Militancy     fixed.Fixed

	Stockpile map[*econmarket.GoodDefinition]fixed.Fixed
}

// NewPop constructs a pop with empty distributions and stockpile.
func NewPop(id, popType string, size fixed.Fixed, isSlave bool) *Pop {
	return &Pop{
		ID:        id,
		Type:      popType,
		Size:      size,
		IsSlave:   isSlave,
		Ideology:  make(map[string]fixed.Fixed),
		Issue:     make(map[string]fixed.Fixed),
		Stockpile: make(map[*econmarket.GoodDefinition]fixed.Fixed),
	}
}

// EffectType classifies a Job's contribution to RGO production (spec.md
// §3, §4.5).
type EffectType int

const (
	EffectOutput EffectType = iota
	EffectThroughput
)

// Job is one pop-type's role in a ProductionType (spec.md §3): how much
// of that pop type is wanted (Amount, as a workforce-size fraction), and
// how its hired proportion feeds the output/throughput accumulators.
type Job struct {
	PopType          string
	Amount           fixed.Fixed
	EffectType       EffectType
	EffectMultiplier fixed.Fixed
}

// ProductionType is the immutable definition of a production operation
// (spec.md §3): the good it makes, its base output and workforce size,
// the jobs (and optional owner job) that work it, and — for artisanal
// production — the inputs it consumes.
type ProductionType struct {
	ID                 string
	OutputGood         *econmarket.GoodDefinition
	BaseOutputQuantity fixed.Fixed
	BaseWorkforceSize  fixed.Fixed
	Jobs               []Job
	OwnerJob           *Job
	InputGoods         map[*econmarket.GoodDefinition]fixed.Fixed
	Farm               bool
	Mine               bool
}

func (p *ProductionType) Identifier() string { return p.ID }

// RGOModifierEffects names the Effect pointers RunRGO looks up in a
// province's modifier Sum (spec.md §4.5 step 1 and step 4). All fields
// are optional; a nil Effect contributes zero.
type RGOModifierEffects struct {
	FarmSizeGlobal, FarmSizeLocal *modifier.Effect
	MineSizeGlobal, MineSizeLocal *modifier.Effect
	GoodSize                      *modifier.Effect

	ThroughputGlobal, ThroughputLocal *modifier.Effect
	OutputGlobal, OutputLocal         *modifier.Effect
	GoodThroughput, GoodOutput        *modifier.Effect

	FarmThroughputGlobal              *modifier.Effect
	FarmOutputGlobal, FarmOutputLocal *modifier.Effect
	MineThroughputGlobal              *modifier.Effect
	MineOutputGlobal, MineOutputLocal *modifier.Effect
}

func getOrZero(sum *modifier.Sum, e *modifier.Effect) fixed.Fixed {
	if sum == nil || e == nil {
		return fixed.Zero
	}
	return sum.Get(e)
}
