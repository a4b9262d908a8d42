package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/hydrocredit/ledger/app/services/ledger/handlers"
	"github.com/hydrocredit/ledger/business/risk"
	"github.com/hydrocredit/ledger/foundation/events"
	"github.com/hydrocredit/ledger/foundation/ledger/account"
	"github.com/hydrocredit/ledger/foundation/ledger/database"
	"github.com/hydrocredit/ledger/foundation/ledger/genesis"
	"github.com/hydrocredit/ledger/foundation/ledger/policy"
	"github.com/hydrocredit/ledger/foundation/ledger/state"
	"github.com/hydrocredit/ledger/foundation/ledger/storage/disk"
	"github.com/hydrocredit/ledger/foundation/logger"
	"github.com/hydrocredit/ledger/foundation/nameservice"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("LEDGER")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// This is all the configuration for the application and the default values.
	// Configuration values will be passed through the application as individual
	// values.
	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			APIHost         string        `conf:"default:0.0.0.0:8080"`
		}
		State struct {
			GenesisPath  string `conf:"default:zblock/genesis.json"`
			DBPath       string `conf:"default:zblock/blocks.db"`
			RegistryPath string `conf:"default:zblock/accounts.json"`
			QuotaPath    string `conf:"default:zblock/quotas.json"`
			PoolPath     string `conf:"default:zblock/pool.json"`
		}
		NameService struct {
			Path string `conf:"default:zblock/names.json"`
		}
		Risk struct {
			LargeAmount uint64 `conf:"default:10000"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "LEDGER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Name Service Support

	// The nameservice package provides resolution of account names to their
	// external settlement identifiers.
	ns, err := nameservice.New(cfg.NameService.Path)
	if err != nil {
		return fmt.Errorf("unable to load name service: %w", err)
	}

	// Logging the known names for documentation in the logs.
	for acct, name := range ns.Copy() {
		log.Infow("startup", "status", "nameservice", "account", acct, "settlement", name)
	}

	// =========================================================================
	// Ledger Support

	gen, err := genesis.Load(cfg.State.GenesisPath)
	if err != nil {
		return fmt.Errorf("unable to load genesis file: %w", err)
	}

	registry, err := account.NewRegistry(cfg.State.RegistryPath)
	if err != nil {
		return fmt.Errorf("unable to load account registry: %w", err)
	}

	quotas, err := policy.NewQuotas(cfg.State.QuotaPath)
	if err != nil {
		return fmt.Errorf("unable to load quota table: %w", err)
	}

	storage, err := disk.New(cfg.State.DBPath)
	if err != nil {
		return fmt.Errorf("unable to open chain storage: %w", err)
	}

	// Transactions still in the pool at the previous shutdown are restored
	// so an accepted transfer is never lost across a restart.
	pending, err := loadPool(cfg.State.PoolPath)
	if err != nil {
		return fmt.Errorf("unable to load pending pool: %w", err)
	}

	// The ledger packages accept a function of this signature to allow the
	// application to log. For now, these raw messages are sent to any websocket
	// client that is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// The state value represents the ledger node and manages the chain
	// database and provides an API for application support.
	st, err := state.New(state.Config{
		Genesis:   gen,
		Storage:   storage,
		Registry:  registry,
		Quotas:    quotas,
		Pending:   pending,
		EvHandler: ev,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	// Write the pool back on the way down, after the servers have stopped
	// accepting proposals.
	defer func() {
		if err := savePool(cfg.State.PoolPath, st.Mempool()); err != nil {
			log.Errorw("shutdown", "status", "saving pending pool", "ERROR", err)
		}
	}()

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the debug
	// related endpoints. This includes the standard library endpoints.

	// Construct the mux for the debug calls.
	debugMux := handlers.DebugMux(build, log)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start API Service

	log.Infow("startup", "status", "initializing V1 API support")

	// Construct the mux for the API calls.
	apiMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		NS:       ns,
		Evts:     evts,
		Risk:     risk.NewHeuristic(cfg.Risk.LargeAmount),
	})

	// Construct a server to service the requests against the mux.
	api := http.Server{
		Addr:         cfg.Web.APIHost,
		Handler:      apiMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "api router started", "host", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown API started")
		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop service gracefully: %w", err)
		}
	}

	return nil
}

// loadPool reads the transactions saved from the pending pool at the
// previous shutdown. A missing file means a clean start.
func loadPool(path string) ([]database.Tx, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var pending []database.Tx
	if err := json.Unmarshal(content, &pending); err != nil {
		return nil, err
	}

	return pending, nil
}

// savePool writes the pending pool to disk so it survives a restart.
func savePool(path string, pending []database.Tx) error {
	data, err := json.MarshalIndent(pending, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
