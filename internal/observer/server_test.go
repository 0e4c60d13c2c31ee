package observer

import (
	"testing"

	"openvic.dev/simcore/internal/colorutil"
	"openvic.dev/simcore/internal/econmarket"
	"openvic.dev/simcore/internal/fixed"
	"openvic.dev/simcore/internal/geo"
	"openvic.dev/simcore/internal/simlog"
	"openvic.dev/simcore/internal/simtelemetry"
	"openvic.dev/simcore/internal/worldstate"
)

func mustParse(t *testing.T, s string) fixed.Fixed {
	t.Helper()
	f, err := fixed.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return f
}

func TestSnapshotReflectsLiveState(t *testing.T) {
	provinces := geo.NewProvinceManager(nil, nil)
	_, _ = provinces.Add("p1", colorutil.RGB(1, 2, 3), false)
	provinces.Lock()

	provInsts := worldstate.NewProvinceInstanceManager()
	provInsts.Setup(provinces)
	inst, _ := provInsts.ByIdentifier("p1")
	inst.RGOOutput = mustParse(t, "42")

	goodDefs := econmarket.NewGoodDefinitionManager()
	goodDefs.Add("grain", mustParse(t, "1"), true)
	goodDefs.Lock()
	goodInsts := econmarket.NewGoodInstanceManager()
	goodInsts.Setup(goodDefs)

	states := worldstate.NewStateManager()

	srv := NewServer(provInsts, states, goodInsts, simlog.Nop{})
	snap := srv.Snapshot()

	if len(snap.Provinces) != 1 || snap.Provinces[0].RGOOutput != "42" {
		t.Fatalf("Provinces = %+v", snap.Provinces)
	}
	if len(snap.Goods) != 1 || snap.Goods[0].Price != "1" {
		t.Fatalf("Goods = %+v", snap.Goods)
	}
}

func TestBroadcastTickDropsOnFullSessionBuffer(t *testing.T) {
	srv := NewServer(worldstate.NewProvinceInstanceManager(), worldstate.NewStateManager(), econmarket.NewGoodInstanceManager(), simlog.Nop{})

	full := make(chan []byte, 1)
	full <- []byte("stale")
	srv.addSession("slow", full)

	srv.BroadcastTick(1, simtelemetry.TickAuditEntry{ProvincesTicked: 3})

	if len(full) != 1 {
		t.Fatalf("expected the stale message to remain, buffer had %d entries", len(full))
	}
}
