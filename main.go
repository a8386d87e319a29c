package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/omega-data/perception.report/api"
	"github.com/omega-data/perception.report/internal/config"
	"github.com/omega-data/perception.report/internal/perception/snapshot"
	"github.com/omega-data/perception.report/internal/perception/store"
	"github.com/omega-data/perception.report/internal/version"
)

var (
	listen     = flag.String("listen", "", "Listen address (overrides config)")
	dbPath     = flag.String("db", "", "Recording database path (overrides config)")
	configPath = flag.String("config", "", "Config file (JSON); PERCEPTION_CONFIG is used when unset")
	migrateUp  = flag.Bool("migrate", false, "Run pending schema migrations and continue")
	importFile = flag.String("import", "", "Import a snapshot JSON file into the store and exit")
)

func loadConfig() (*config.ServerConfig, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	if *configPath != "" {
		fileCfg, err := config.LoadServerConfig(*configPath)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileCfg)
	}
	if *dbPath != "" {
		cfg.Merge(&config.ServerConfig{DBPath: dbPath})
	}
	if *listen != "" {
		cfg.Merge(&config.ServerConfig{Listen: listen})
	}
	return cfg, nil
}

func importSnapshot(db *store.Store, cfg *config.ServerConfig, path string) error {
	policy, err := snapshot.ParsePolicy(cfg.GetDecodePolicy())
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	decoded, err := snapshot.Decode(f, policy)
	if err != nil {
		return err
	}

	rec, err := db.CreateRecording(decoded.Modality, "imported from "+path)
	if err != nil {
		return err
	}
	for _, obj := range decoded.Objects {
		if err := db.InsertObject(rec.ID, obj); err != nil {
			return err
		}
	}

	log.Printf("imported %d objects into recording %s (%d dropped, %d unknown codes)",
		len(decoded.Objects), rec.ID, decoded.Stats.DroppedObjects, decoded.Stats.UnknownCodes)
	return nil
}

func main() {
	flag.Parse()

	log.Printf("perception.report %s", version.String())

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := store.Open(cfg.GetDBPath())
	if err != nil {
		log.Fatalf("failed to open recording database: %v", err)
	}
	defer db.Close()

	if *migrateUp {
		if err := db.MigrateUp(cfg.GetMigrationsDir()); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	if *importFile != "" {
		if err := importSnapshot(db, cfg, *importFile); err != nil {
			log.Fatalf("failed to import %s: %v", *importFile, err)
		}
		return
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(db, cfg).ServeMux()

		server := &http.Server{
			Addr:    cfg.GetListen(),
			Handler: mux,
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			log.Printf("listening on %s", cfg.GetListen())
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	wg.Wait()
	log.Printf("graceful shutdown complete")
}
