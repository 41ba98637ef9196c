package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "volunteerhub/internal/adapters/email"
	web "volunteerhub/internal/adapters/http"
	"volunteerhub/internal/adapters/http/perf"
	"volunteerhub/internal/adapters/storage"
	accountStore "volunteerhub/internal/adapters/storage/account"
	activityStore "volunteerhub/internal/adapters/storage/activity"
	overrideStore "volunteerhub/internal/adapters/storage/override"
	signupStore "volunteerhub/internal/adapters/storage/signup"
	"volunteerhub/internal/adapters/sync"
	"volunteerhub/internal/application/orchestrators"
	"volunteerhub/internal/config"
	"volunteerhub/internal/domain/calendar"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Open database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:  acctStore,
		ActivityStore: activityStore.NewSQLiteStore(timedDB),
		SignupStore:   signupStore.NewSQLiteStore(timedDB),
		OverrideStore: overrideStore.NewSQLiteStore(timedDB),
	}

	// Seed the initial admin account (idempotent; skipped when unconfigured)
	seedDeps := orchestrators.AdminSeedDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Configure email sender
	emailFrom := cfg.Email.From
	if emailFrom == "" {
		emailFrom = "VolunteerHub <noreply@volunteerhub.org>"
	}
	if cfg.Email.APIKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(cfg.Email.APIKey, emailFrom), emailFrom, cfg.Email.ReplyTo)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, cfg.Email.ReplyTo)
		if os.Getenv("VOLUNTEERHUB_ENV") == "production" {
			log.Println("WARNING: email.api_key is not set; email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop; set email.api_key for real delivery)")
		}
	}

	// External ICS sync: periodic fetch into an in-memory snapshot
	snapshot := sync.NewSnapshot()
	sources := make([]sync.Source, 0, len(cfg.ICS))
	for _, s := range cfg.ICS {
		sources = append(sources, sync.Source{ID: s.ID, URL: s.URL})
	}
	syncer := sync.NewSyncer(sources, snapshot)
	if err := syncer.Start(cfg.SyncCron); err != nil {
		log.Fatalf("failed to start ICS sync: %v", err)
	}
	defer syncer.Stop()
	log.Printf("ICS sync scheduled (%d sources, cron %q)", len(sources), cfg.SyncCron)

	// Week and day time grids show this hour window
	web.ViewHourRange = calendar.HourRange{Min: float64(cfg.HourRangeMin), Max: float64(cfg.HourRangeMax)}

	mux := web.NewMux(cfg.StaticDir, stores, snapshot, collector)

	log.Printf("VolunteerHub %s starting on %s", version, cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
