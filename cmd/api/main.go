package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"talenthub.org/internal/auth"
	"talenthub.org/internal/httpapi"
	"talenthub.org/internal/obs"
	"talenthub.org/internal/stream"
	"talenthub.org/internal/talent"
	"talenthub.org/internal/users"
)

var version = "0.3.0"

func main() {
	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("TALENTHUB_COMMIT"))

	// The signing secret is mandatory; refuse to start without it rather
	// than fall back to an insecure default.
	key, err := auth.LoadSigningKey(os.Getenv("TALENTHUB_AUTH_SECRET"))
	if err != nil {
		log.Fatalf("load signing secret: %v", err)
	}

	// Storage: PostgreSQL when a DSN is configured, in-memory otherwise
	// (useful for demos and local development).
	var (
		db          *sql.DB
		userStore   users.Store
		talentStore talent.Store
	)
	if dsn := os.Getenv("TALENTHUB_PG_DSN"); dsn != "" {
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		userStore = users.NewPGStore(db)
		talentStore = talent.NewPGStore(db)
	} else {
		log.Print("TALENTHUB_PG_DSN not set, using in-memory storage")
		userStore = users.NewInMemory()
		talentStore = talent.NewInMemory()
	}

	userSvc, err := users.NewService(userStore)
	if err != nil {
		log.Fatalf("users service: %v", err)
	}
	talentSvc, err := talent.NewService(talentStore)
	if err != nil {
		log.Fatalf("talent service: %v", err)
	}

	var authOpts []auth.ServiceOption
	if ttl := durationMSFromEnv("TALENTHUB_ACCESS_TTL_MS"); ttl > 0 {
		authOpts = append(authOpts, auth.WithAccessTTL(ttl))
	}
	if ttl := durationMSFromEnv("TALENTHUB_REFRESH_TTL_MS"); ttl > 0 {
		authOpts = append(authOpts, auth.WithRefreshTTL(ttl))
	}
	authSvc, err := auth.NewService(users.NewDirectory(userStore), auth.NewTokens(key, "talenthub"), authOpts...)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, authSvc, userSvc, talentSvc, stream.New())

	addr := os.Getenv("TALENTHUB_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting talenthub-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	obs.SetReady(true)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")
	obs.SetReady(false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}

// durationMSFromEnv reads a millisecond count from the environment. Zero
// means "not set"; malformed values abort startup.
func durationMSFromEnv(name string) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return 0
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 {
		log.Fatalf("%s must be a positive integer, got %q", name, raw)
	}
	return time.Duration(ms) * time.Millisecond
}
