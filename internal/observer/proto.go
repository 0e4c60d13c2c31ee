// Package observer exposes the read-only gamestate query/streaming
// interface spec.md §6 describes: per-province owner/pops/modifier
// sum/RGO state, per-state aggregates, and per-good price/supply/demand.
// It never mutates the simulation core; only simtick.Driver does that.
// Grounded on the teacher's internal/transport/observer package (the
// bootstrap-then-subscribe websocket shape, loopback-only guard, and
// per-connection writer goroutine).
package observer

// Version is the observer wire-protocol version, bumped whenever a
// message shape below changes incompatibly.
const Version = 1

// SubscribeMsg is the first message a client must send after upgrading.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion int    `json:"protocol_version"`
}

// BootstrapResponse answers a plain HTTP GET with a one-shot snapshot of
// the query outputs spec.md §6 lists, without requiring a websocket
// upgrade.
type BootstrapResponse struct {
	ProtocolVersion int             `json:"protocol_version"`
	Provinces       []ProvinceQuery `json:"provinces"`
	States          []StateQuery    `json:"states"`
	Goods           []GoodQuery     `json:"goods"`
}

// ProvinceQuery is the per-province query spec.md §6 names: "current
// owner, pops, modifier sum, buildings, RGO state". Buildings are not
// modelled by this core (no ProductionType-owning building layer exists
// separately from the province's single ProductionType), so the field is
// omitted rather than fabricated.
type ProvinceQuery struct {
	ID          string            `json:"id"`
	Owner       string            `json:"owner,omitempty"`
	StateID     string            `json:"state_id,omitempty"`
	Population  string            `json:"population"`
	RGOGood     string            `json:"rgo_good,omitempty"`
	RGOOutput   string            `json:"rgo_output"`
	ModifierSum map[string]string `json:"modifier_sum,omitempty"`
}

// StateQuery is the per-state aggregate query spec.md §6 names.
type StateQuery struct {
	ID              string            `json:"id"`
	Owner           string            `json:"owner,omitempty"`
	Population      string            `json:"population"`
	AverageLiteracy string            `json:"average_literacy"`
	Consciousness   string            `json:"average_consciousness"`
	Militancy       string            `json:"average_militancy"`
	PopTypeSizes    map[string]string `json:"pop_type_sizes"`
	IndustrialPower string            `json:"industrial_power"`
	MaxRegiments    int               `json:"max_regiments"`
}

// GoodQuery is the per-good query spec.md §6 names: price and yesterday's
// supply/demand.
type GoodQuery struct {
	ID              string `json:"id"`
	Price           string `json:"price"`
	SupplyYesterday string `json:"supply_yesterday"`
	DemandYesterday string `json:"demand_yesterday"`
}

// TickSummaryMsg is pushed to every subscribed session once a daily tick
// completes.
type TickSummaryMsg struct {
	Type            string `json:"type"`
	Date            int64  `json:"date"`
	ProvincesTicked int    `json:"provinces_ticked"`
	OrdersExecuted  int    `json:"orders_executed"`
}
