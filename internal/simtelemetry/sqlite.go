package simtelemetry

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	_ "modernc.org/sqlite"

	"openvic.dev/simcore/internal/calendar"
)

// SQLiteIndex is a queryable secondary index over the same tick/price-move
// records the JSONL trail carries. It never blocks the tick loop: writes
// are handed to a buffered channel and applied by a single background
// goroutine, and a full queue drops the write (the JSONL trail remains
// the durable source of truth).
type SQLiteIndex struct {
	db *sql.DB

	ch   chan indexReq
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqTick reqKind = iota + 1
	reqPriceMove
)

type indexReq struct {
	kind  reqKind
	tick  TickAuditEntry
	price PriceMoveEntry
}

// OpenSQLiteIndex opens (creating if needed) the audit index at path.
func OpenSQLiteIndex(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("simtelemetry: empty index path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	idx := &SQLiteIndex{db: db, ch: make(chan indexReq, 16384)}
	idx.wg.Add(1)
	go func() {
		defer idx.wg.Done()
		idx.loop()
	}()
	return idx, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ticks (
			day INTEGER PRIMARY KEY,
			provinces_ticked INTEGER NOT NULL,
			goods_cleared INTEGER NOT NULL,
			orders_submitted INTEGER NOT NULL,
			orders_executed INTEGER NOT NULL,
			duration_millis INTEGER NOT NULL,
			raw_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS price_moves (
			day INTEGER NOT NULL,
			good TEXT NOT NULL,
			old_price TEXT NOT NULL,
			new_price TEXT NOT NULL,
			demand TEXT NOT NULL,
			supply TEXT NOT NULL,
			PRIMARY KEY (day, good)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_price_moves_good_day ON price_moves(good, day);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (idx *SQLiteIndex) loop() {
	for r := range idx.ch {
		switch r.kind {
		case reqTick:
			idx.applyTick(r.tick)
		case reqPriceMove:
			idx.applyPriceMove(r.price)
		}
	}
}

func (idx *SQLiteIndex) applyTick(e TickAuditEntry) {
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	_, _ = idx.db.Exec(
		`INSERT OR REPLACE INTO ticks (day, provinces_ticked, goods_cleared, orders_submitted, orders_executed, duration_millis, raw_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		int64(e.Date), e.ProvincesTicked, e.GoodsCleared, e.OrdersSubmitted, e.OrdersExecuted, e.DurationMillis, string(raw),
	)
}

func (idx *SQLiteIndex) applyPriceMove(e PriceMoveEntry) {
	_, _ = idx.db.Exec(
		`INSERT OR REPLACE INTO price_moves (day, good, old_price, new_price, demand, supply)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		int64(e.Date), e.Good, e.OldPrice, e.NewPrice, e.Demand, e.Supply,
	)
}

// WriteTick enqueues a tick summary for indexing. It never blocks.
func (idx *SQLiteIndex) WriteTick(e TickAuditEntry) {
	if idx == nil || idx.closed.Load() {
		return
	}
	select {
	case idx.ch <- indexReq{kind: reqTick, tick: e}:
	default:
	}
}

// WritePriceMove enqueues a price-move record for indexing.
func (idx *SQLiteIndex) WritePriceMove(e PriceMoveEntry) {
	if idx == nil || idx.closed.Load() {
		return
	}
	select {
	case idx.ch <- indexReq{kind: reqPriceMove, price: e}:
	default:
	}
}

// PriceHistory returns every recorded price move for good, oldest first.
func (idx *SQLiteIndex) PriceHistory(good string) ([]PriceMoveEntry, error) {
	rows, err := idx.db.Query(
		`SELECT day, good, old_price, new_price, demand, supply FROM price_moves WHERE good = ? ORDER BY day ASC`, good,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PriceMoveEntry
	for rows.Next() {
		var day int64
		var e PriceMoveEntry
		if err := rows.Scan(&day, &e.Good, &e.OldPrice, &e.NewPrice, &e.Demand, &e.Supply); err != nil {
			return nil, err
		}
		e.Date = calendar.Date(day)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close drains the queue and closes the underlying database handle.
func (idx *SQLiteIndex) Close() error {
	var err error
	idx.once.Do(func() {
		idx.closed.Store(true)
		close(idx.ch)
		idx.wg.Wait()
		err = idx.db.Close()
	})
	return err
}
