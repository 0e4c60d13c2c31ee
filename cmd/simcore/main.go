// Command simcore boots the simulation core standalone: it loads tuning,
// builds an (initially empty) world, runs the daily tick on an interval,
// and serves the read-only observer endpoint. Loading real game content
// (province bitmaps, CSV tables, bookmark files) is the data-loader
// front-end's job per spec.md §6 — this binary is the collaborator that
// would call the `add_*`/`load_*` builder methods after parsing them;
// it ships with no parser of its own.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"openvic.dev/simcore/internal/calendar"
	"openvic.dev/simcore/internal/econmarket"
	"openvic.dev/simcore/internal/observer"
	"openvic.dev/simcore/internal/simconfig"
	"openvic.dev/simcore/internal/simlog"
	"openvic.dev/simcore/internal/simtelemetry"
	"openvic.dev/simcore/internal/simtick"
	"openvic.dev/simcore/internal/worldstate"
)

func main() {
	var (
		addr       = flag.String("addr", ":8081", "observer http listen address")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (empty uses built-in defaults)")
		dataDir    = flag.String("data", "./data", "runtime data directory for telemetry output")
		tickEvery  = flag.Duration("tick_interval", time.Second, "wall-clock interval between daily ticks")
		enableObs  = flag.Bool("enable_observer", true, "serve the read-only observer endpoint")
	)
	flag.Parse()

	logger := simlog.NewStdSink("[simcore] ")

	tune := simconfig.Default()
	if *tuningPath != "" {
		loaded, err := simconfig.Load(*tuningPath)
		if err != nil {
			logger.Error("load tuning %s: %v", *tuningPath, err)
			os.Exit(1)
		}
		tune = loaded
	}
	resolved, err := tune.Resolve()
	if err != nil {
		logger.Error("resolve tuning: %v", err)
		os.Exit(1)
	}

	provinces := worldstate.NewProvinceInstanceManager()
	states := worldstate.NewStateManager()
	countries := worldstate.NewCountryInstanceManager()
	goodDefs := econmarket.NewGoodDefinitionManager()
	goodDefs.Lock()
	goods := econmarket.NewGoodInstanceManager()
	goods.Setup(goodDefs)

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		logger.Error("create data dir %s: %v", *dataDir, err)
		os.Exit(1)
	}
	audit := simtelemetry.NewAuditTrail(*dataDir)
	defer audit.Close()

	driver := &simtick.Driver{
		Provinces: provinces,
		States:    states,
		Countries: countries,
		Goods:     goods,
		Tuning:    resolved,
		Log:       logger,
		Audit:     audit,
	}

	ctx, cancel := signalContext()
	defer cancel()

	var obsSrv *observer.Server
	if *enableObs {
		obsSrv = observer.NewServer(provinces, states, goods, logger)
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/observer/bootstrap", obsSrv.BootstrapHandler())
		mux.HandleFunc("/v1/observer/ws", obsSrv.WSHandler())
		srv := &http.Server{Addr: *addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		go func() {
			logger.Info("observer listening on %s", *addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("observer ListenAndServe: %v", err)
			}
		}()
	}

	runTickLoop(ctx, driver, obsSrv, *tickEvery, logger)
}

func runTickLoop(ctx context.Context, driver *simtick.Driver, obsSrv *observer.Server, interval time.Duration, logger simlog.Sink) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var date int64
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case <-ticker.C:
			date++
			today := calendar.Date(date)
			entry := driver.RunDay(ctx, today)
			logger.Info("tick %d: %d provinces, %d orders executed", date, entry.ProvincesTicked, entry.OrdersExecuted)
			if obsSrv != nil {
				obsSrv.BroadcastTick(today, entry)
			}
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
