package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/kapu/hololive-wiki-scraper/internal/config"
	"github.com/kapu/hololive-wiki-scraper/internal/domain"
	"github.com/kapu/hololive-wiki-scraper/internal/service/database"
	"github.com/kapu/hololive-wiki-scraper/internal/service/storage"
	"github.com/kapu/hololive-wiki-scraper/internal/util"
)

// CLI flags
var (
	dryRun  = flag.Bool("dry-run", false, "Run without committing to database")
	root    = flag.String("root", "", "Output root to read (defaults to OUTPUT_ROOT)")
	verbose = flag.Bool("verbose", false, "Verbose output")
)

func main() {
	flag.Parse()

	log.Println("===========================")
	log.Println("JSON to PostgreSQL Migration")
	log.Println("===========================")

	if *dryRun {
		log.Println("[DRY RUN MODE] No database changes will be made")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *root != "" {
		cfg.Output.Root = *root
	}

	// Step 1: Load stored records
	records, err := loadRecords(storage.NewStore(cfg.Output.Root, nil))
	if err != nil {
		log.Fatalf("Failed to load records from %s: %v", cfg.Output.Root, err)
	}
	log.Printf("✓ Loaded %d talent records from %s", len(records), cfg.Output.Root)

	if *dryRun {
		log.Println("✓ Dry-run completed successfully")
		printSummary(records)
		return
	}

	// Step 2: Connect to database
	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	postgresSvc, err := database.NewPostgresService(ctx, database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer postgresSvc.Close()

	// Step 3: Upsert records
	repo := database.NewTalentRepository(postgresSvc.GetDB(), logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	if err := repo.SaveAll(ctx, records); err != nil {
		log.Fatalf("Failed to upsert records: %v", err)
	}

	log.Println("✓ Migration completed successfully")
}

func loadRecords(store *storage.Store) (map[domain.RosterEntry]*domain.TalentRecord, error) {
	records := make(map[domain.RosterEntry]*domain.TalentRecord)
	err := store.Walk(func(group string, record *domain.TalentRecord) error {
		entry := domain.RosterEntry{Group: group, ID: record.ID}
		if _, dup := records[entry]; dup {
			return fmt.Errorf("duplicate record %s/%s", group, record.ID)
		}
		records[entry] = record
		if *verbose {
			log.Printf("  → Loaded: %s/%s (%d outfits)", group, record.ID, len(record.Outfits))
		}
		return nil
	})
	return records, err
}

func printSummary(records map[domain.RosterEntry]*domain.TalentRecord) {
	log.Println("\n===== Migration Summary =====")
	log.Printf("Total records: %d", len(records))

	groups := make(map[string]int)
	withInfobox := 0
	outfits := 0
	socials := 0
	for entry, record := range records {
		groups[entry.Group]++
		if record.Icon != nil {
			withInfobox++
		}
		outfits += len(record.Outfits)
		socials += len(record.Socials)
	}

	log.Printf("Groups: %d, with infobox: %d", len(groups), withInfobox)
	log.Printf("Data: %d outfits, %d socials", outfits, socials)
	log.Println("=============================")
}
