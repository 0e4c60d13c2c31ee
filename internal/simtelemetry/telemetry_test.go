package simtelemetry

import (
	"path/filepath"
	"testing"

	"openvic.dev/simcore/internal/calendar"
)

func TestAuditTrailWriteAndClose(t *testing.T) {
	dir := t.TempDir()
	trail := NewAuditTrail(dir)

	if err := trail.WriteTick(TickAuditEntry{Date: calendar.Date(1), ProvincesTicked: 3}); err != nil {
		t.Fatalf("WriteTick: %v", err)
	}
	if err := trail.WritePriceMove(PriceMoveEntry{Date: calendar.Date(1), Good: "grain"}); err != nil {
		t.Fatalf("WritePriceMove: %v", err)
	}
	if err := trail.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestSQLiteIndexRoundTrip(t *testing.T) {
	idx, err := OpenSQLiteIndex(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteIndex: %v", err)
	}
	defer idx.Close()

	// Bypass the async queue: applyPriceMove is what the background
	// goroutine eventually calls, and calling it directly keeps this test
	// deterministic instead of racing the writer goroutine.
	idx.applyPriceMove(PriceMoveEntry{Date: calendar.Date(5), Good: "grain", OldPrice: "2.0", NewPrice: "2.01"})
	idx.applyPriceMove(PriceMoveEntry{Date: calendar.Date(6), Good: "grain", OldPrice: "2.01", NewPrice: "2.02"})

	hist, err := idx.PriceHistory("grain")
	if err != nil {
		t.Fatalf("PriceHistory: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("PriceHistory returned %d entries, want 2", len(hist))
	}
	if hist[0].NewPrice != "2.01" || hist[1].NewPrice != "2.02" {
		t.Errorf("unexpected price history order: %+v", hist)
	}
}
