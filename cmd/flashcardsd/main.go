package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "github.com/mind-engage/mindengage-flashcards/internal/api/http"
	auth "github.com/mind-engage/mindengage-flashcards/internal/auth/middleware"
	"github.com/mind-engage/mindengage-flashcards/internal/config"
	"github.com/mind-engage/mindengage-flashcards/internal/content"
	"github.com/mind-engage/mindengage-flashcards/internal/db"
	"github.com/mind-engage/mindengage-flashcards/internal/events"
	"github.com/mind-engage/mindengage-flashcards/internal/metrics"
	"github.com/mind-engage/mindengage-flashcards/internal/session"
	"github.com/mind-engage/mindengage-flashcards/internal/statements"
	"github.com/mind-engage/mindengage-flashcards/internal/storage"
	"github.com/mind-engage/mindengage-flashcards/pkg/xapi"
	"github.com/mind-engage/mindengage-flashcards/pkg/xapi/lrshttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()
	stmts := statements.NewSQLStore(dbh)

	// --- Content ---
	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	cs := content.NewStore(bs)

	m := metrics.New()

	// --- Reporting: statement store, broker, LRS ---
	pub, err := events.NewAMQPPublisher(cfg.AMQPURI, cfg.AMQPExchange)
	if err != nil {
		log.Fatalf("events: %v", err)
	}
	defer pub.Close()

	var syncer *statements.Syncer
	if cfg.LRSEndpoint != "" {
		lrs := lrshttp.New(lrshttp.Config{
			Endpoint:     cfg.LRSEndpoint,
			TokenURL:     cfg.LRSTokenURL,
			ClientID:     cfg.LRSClientID,
			ClientSecret: cfg.LRSClientSecret,
			Scopes:       cfg.LRSScopes,
			Username:     cfg.LRSUsername,
			Password:     cfg.LRSPassword,
		})
		syncer = statements.NewSyncer(stmts, lrs)
		syncer.MaxRetries = cfg.SyncMaxRetries
		syncer.OnResult = m.ForwardResult
		syncer.Start(cfg.SyncInterval)
		defer syncer.Stop()
		log.Printf("forwarding statements to %s every %s", cfg.LRSEndpoint, cfg.SyncInterval)
	}

	// --- Sessions ---
	mgr := session.NewManager(cs,
		xapi.NewFactory(cfg.ActivityBase, cfg.HomePage),
		content.Resolver{AssetsBase: cfg.AssetsBase()},
		session.StatementReporter(stmts),
		session.EventReporter(pub),
	)
	mgr.Metrics = m
	mgr.IdleTTL = cfg.SessionIdleTTL
	mgr.StartSweeper(cfg.SweepInterval)
	defer mgr.Stop()

	// --- Router ---
	r := api.NewRouter(api.Deps{
		Auth:        auth.NewAuthService(cfg.AuthHMACSecret),
		Credentials: auth.Credentials{User: cfg.AdminUser, PassHash: cfg.AdminPassHash},
		LocalAuth:   cfg.EnableLocalAuth,
		GuestAuth:   cfg.EnableGuestAuth,
		CORSOrigins: cfg.CORSOrigins(),
		Content:     cs,
		Blobs:       bs,
		Sessions:    mgr,
		Statements:  stmts,
		Syncer:      syncer,
		Metrics:     m,
		Ready:       func(ctx context.Context) error { return dbh.PingContext(ctx) },
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down")
	sctx, scancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer scancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
