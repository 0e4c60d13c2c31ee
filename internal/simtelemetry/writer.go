// Package simtelemetry records an append-only audit trail of what the
// simulation core did on each daily tick. It is explicitly not save-game
// persistence: nothing here can reconstruct a running World, only explain
// after the fact what happened to it (spec.md Non-goals; the daily tick
// still needs an audit trail an operator can query).
package simtelemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"openvic.dev/simcore/internal/calendar"
)

// TickAuditEntry is one daily-tick summary recorded to both the JSONL
// trail and the SQLite index.
type TickAuditEntry struct {
	Date            calendar.Date `json:"date"`
	ProvincesTicked int           `json:"provinces_ticked"`
	GoodsCleared    int           `json:"goods_cleared"`
	OrdersSubmitted int           `json:"orders_submitted"`
	OrdersExecuted  int           `json:"orders_executed"`
	DurationMillis  int64         `json:"duration_millis"`
}

// PriceMoveEntry is one good's price-bound recomputation on a given day,
// recorded whenever ExecuteOrders actually changes a good's price (spec.md
// §5, market clearing).
type PriceMoveEntry struct {
	Date     calendar.Date `json:"date"`
	Good     string        `json:"good"`
	OldPrice string        `json:"old_price"`
	NewPrice string        `json:"new_price"`
	Demand   string        `json:"demand"`
	Supply   string        `json:"supply"`
}

// jsonlZstdWriter appends newline-delimited JSON records to an
// hourly-rotated, zstd-compressed file. Rotation and compression follow
// the same shape regardless of what record type is being written.
type jsonlZstdWriter struct {
	baseDir string
	prefix  string

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func newJSONLZstdWriter(baseDir, prefix string) *jsonlZstdWriter {
	return &jsonlZstdWriter{baseDir: baseDir, prefix: prefix}
}

func (w *jsonlZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := time.Now().UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *jsonlZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	path := w.pathForHour(hour)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.curHour = hour
	return nil
}

func (w *jsonlZstdWriter) closeLocked() error {
	var err error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	return err
}

func (w *jsonlZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *jsonlZstdWriter) pathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

// AuditTrail writes the two telemetry streams the tick driver produces.
type AuditTrail struct {
	ticks  *jsonlZstdWriter
	prices *jsonlZstdWriter
}

// NewAuditTrail rotates hourly files under baseDir/ticks and
// baseDir/prices.
func NewAuditTrail(baseDir string) *AuditTrail {
	return &AuditTrail{
		ticks:  newJSONLZstdWriter(filepath.Join(baseDir, "ticks"), "ticks"),
		prices: newJSONLZstdWriter(filepath.Join(baseDir, "prices"), "prices"),
	}
}

func (a *AuditTrail) WriteTick(e TickAuditEntry) error      { return a.ticks.Write(e) }
func (a *AuditTrail) WritePriceMove(e PriceMoveEntry) error { return a.prices.Write(e) }

func (a *AuditTrail) Close() error {
	err1 := a.ticks.Close()
	err2 := a.prices.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
